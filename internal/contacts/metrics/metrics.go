package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the contacts module.
// Tracks book size, record churn, phone edits, rejected operations and
// operation durations.
type Metrics struct {
	Records           prometheus.Gauge
	RecordsAdded      prometheus.Counter
	RecordsDeleted    prometheus.Counter
	PhoneOperations   *prometheus.CounterVec
	RejectedOps       *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New creates a Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Records: factory.NewGauge(prometheus.GaugeOpts{
			Name: "contactbook_records",
			Help: "Number of records currently in the book",
		}),
		RecordsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "contactbook_records_added_total",
			Help: "Total number of records added to the book",
		}),
		RecordsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "contactbook_records_deleted_total",
			Help: "Total number of records deleted from the book",
		}),
		PhoneOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contactbook_phone_operations_total",
			Help: "Successful phone mutations by operation",
		}, []string{"op"}),
		RejectedOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contactbook_rejected_operations_total",
			Help: "Rejected operations by operation and error code",
		}, []string{"op", "code"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contactbook_operation_duration_seconds",
			Help:    "Duration of contacts service operations",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}, []string{"op"}),
	}
}

// RecordAdded counts an insertion and sets the current book size.
func (m *Metrics) RecordAdded(size int) {
	m.RecordsAdded.Inc()
	m.Records.Set(float64(size))
}

// RecordDeleted counts a deletion and sets the current book size.
func (m *Metrics) RecordDeleted(size int) {
	m.RecordsDeleted.Inc()
	m.Records.Set(float64(size))
}

func (m *Metrics) IncrementPhoneOperation(op string) {
	m.PhoneOperations.WithLabelValues(op).Inc()
}

func (m *Metrics) IncrementRejected(op, code string) {
	m.RejectedOps.WithLabelValues(op, code).Inc()
}

// ObserveOperation records the duration of op.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(op string, start time.Time) {
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
