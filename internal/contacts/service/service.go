// Package service is the concurrency-safe entry point to a contact book.
//
// It serialises access to a book.Book, and for every operation opens a span,
// records metrics, and writes an audit trail. Domain errors from models and
// book are returned unchanged.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"contactbook/internal/audit"
	"contactbook/internal/contacts/book"
	"contactbook/internal/contacts/metrics"
	"contactbook/internal/contacts/models"
	"contactbook/pkg/attrs"
	dErrors "contactbook/pkg/domain-errors"
	"contactbook/pkg/platform/sentinel"
	"contactbook/pkg/requestcontext"
)

const tracerName = "contactbook/internal/contacts/service"

// DefaultPageSize applies when Page is called with size 0 and no
// WithPageSize option was given.
const DefaultPageSize = 10

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates contact management over a single book.
type Service struct {
	mu   sync.RWMutex
	book *book.Book

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	now            func() time.Time
	rollover       models.Rollover
	matching       models.Matching
	pageSize       int
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracerProvider replaces the global otel tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// WithClock sets the source of "today" for birthday countdowns.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithRollover(r models.Rollover) Option {
	return func(s *Service) {
		s.rollover = r
	}
}

// WithMatching sets phone and birthday matching for records the service builds.
func WithMatching(m models.Matching) Option {
	return func(s *Service) {
		s.matching = m
	}
}

func WithPageSize(n int) Option {
	return func(s *Service) {
		s.pageSize = n
	}
}

// New constructs a Service. A nil book starts empty.
func New(b *book.Book, opts ...Option) *Service {
	if b == nil {
		b = book.New()
	}
	s := &Service{
		book:     b,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateContact builds a record and adds it to the book. Empty phone or
// birthday leave those fields unset.
func (s *Service) CreateContact(ctx context.Context, name, phone, birthday string) (*models.Record, error) {
	ctx, span := s.start(ctx, "create_contact", name)
	defer span.End()
	defer s.observe("create_contact", time.Now())

	rec, err := models.NewRecord(name,
		models.WithMatching(s.matching),
		models.WithPhone(phone),
		models.WithBirthday(birthday),
	)
	if err != nil {
		return nil, s.reject(ctx, span, "create_contact", err)
	}
	return s.insert(ctx, span, "create_contact", rec, audit.EventContactCreated)
}

// AddRecord stores a copy of rec; later changes to rec do not reach the book.
func (s *Service) AddRecord(ctx context.Context, rec *models.Record) (*models.Record, error) {
	if rec == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "record cannot be nil")
	}
	ctx, span := s.start(ctx, "add_record", rec.Name())
	defer span.End()
	defer s.observe("add_record", time.Now())

	return s.insert(ctx, span, "add_record", rec.Clone(), audit.EventContactCreated)
}

func (s *Service) insert(ctx context.Context, span trace.Span, op string, rec *models.Record, action audit.Action) (*models.Record, error) {
	s.mu.Lock()
	err := s.book.AddRecord(rec)
	size := s.book.Len()
	out := rec.Clone()
	s.mu.Unlock()

	if err != nil {
		return nil, s.reject(ctx, span, op, err)
	}
	if s.metrics != nil {
		s.metrics.RecordAdded(size)
	}
	s.logAudit(ctx, string(action), "contact_id", rec.ID().String(), "contact", rec.Name())
	return out, nil
}

// Find returns a copy of the named record, or CodeNotFound.
func (s *Service) Find(ctx context.Context, name string) (*models.Record, error) {
	ctx, span := s.start(ctx, "find", name)
	defer span.End()

	s.mu.RLock()
	rec, ok := s.book.Find(name)
	if ok {
		rec = rec.Clone()
	}
	s.mu.RUnlock()

	if !ok {
		return nil, s.reject(ctx, span, "find", contactNotFound(name))
	}
	return rec, nil
}

// Delete removes the named record. A missing name returns (nil, false).
func (s *Service) Delete(ctx context.Context, name string) (*models.Record, bool) {
	ctx, span := s.start(ctx, "delete", name)
	defer span.End()
	defer s.observe("delete", time.Now())

	s.mu.Lock()
	rec, ok := s.book.Delete(name)
	size := s.book.Len()
	s.mu.Unlock()

	span.SetAttributes(attribute.Bool("contacts.deleted", ok))
	if !ok {
		return nil, false
	}
	if s.metrics != nil {
		s.metrics.RecordDeleted(size)
	}
	s.logAudit(ctx, string(audit.EventContactDeleted), "contact_id", rec.ID().String(), "contact", rec.Name())
	return rec, true
}

// AddPhone appends a phone to the named contact.
func (s *Service) AddPhone(ctx context.Context, name, phone string) (string, error) {
	return s.mutatePhone(ctx, "add_phone", name, audit.EventPhoneAdded, func(r *models.Record) (string, error) {
		return r.AddPhone(phone)
	})
}

// EditPhone replaces the first occurrence of oldPhone on the named contact.
func (s *Service) EditPhone(ctx context.Context, name, oldPhone, newPhone string) (string, error) {
	return s.mutatePhone(ctx, "edit_phone", name, audit.EventPhoneEdited, func(r *models.Record) (string, error) {
		return r.EditPhone(oldPhone, newPhone)
	})
}

// RemovePhone removes phone from the named contact.
func (s *Service) RemovePhone(ctx context.Context, name, phone string) (string, error) {
	return s.mutatePhone(ctx, "remove_phone", name, audit.EventPhoneRemoved, func(r *models.Record) (string, error) {
		return r.RemovePhone(phone)
	})
}

// SetBirthday sets or overwrites the named contact's birthday.
func (s *Service) SetBirthday(ctx context.Context, name, date string) error {
	_, err := s.mutate(ctx, "set_birthday", name, audit.EventBirthdaySet, func(r *models.Record) (string, error) {
		return date, r.AddBirthday(date)
	})
	return err
}

func (s *Service) mutatePhone(ctx context.Context, op, name string, action audit.Action, fn func(*models.Record) (string, error)) (string, error) {
	msg, err := s.mutate(ctx, op, name, action, fn)
	if err == nil && s.metrics != nil {
		s.metrics.IncrementPhoneOperation(op)
	}
	return msg, err
}

func (s *Service) mutate(ctx context.Context, op, name string, action audit.Action, fn func(*models.Record) (string, error)) (string, error) {
	ctx, span := s.start(ctx, op, name)
	defer span.End()
	defer s.observe(op, time.Now())

	s.mu.Lock()
	rec, ok := s.book.Find(name)
	var (
		msg       string
		err       error
		contactID string
	)
	if !ok {
		err = contactNotFound(name)
	} else {
		msg, err = fn(rec)
		contactID = rec.ID().String()
	}
	s.mu.Unlock()

	if err != nil {
		return "", s.reject(ctx, span, op, err)
	}
	s.logAudit(ctx, string(action), "contact_id", contactID, "contact", name, "detail", msg)
	return msg, nil
}

// FindPhone looks up phone on the named contact using the last-match rule.
// A missing contact is CodeNotFound; a missing phone is (zero, false, nil).
func (s *Service) FindPhone(ctx context.Context, name, phone string) (models.PhoneNumber, bool, error) {
	ctx, span := s.start(ctx, "find_phone", name)
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.book.Find(name)
	if !ok {
		return models.PhoneNumber{}, false, s.reject(ctx, span, "find_phone", contactNotFound(name))
	}
	p, found := rec.FindPhone(phone)
	return p, found, nil
}

// DaysToBirthday counts down to the named contact's next birthday using the
// configured rollover. "Today" comes from requestcontext.WithTime when set,
// otherwise from the configured clock.
func (s *Service) DaysToBirthday(ctx context.Context, name string) (models.Countdown, error) {
	ctx, span := s.start(ctx, "days_to_birthday", name)
	defer span.End()

	s.mu.RLock()
	rec, ok := s.book.Find(name)
	var c models.Countdown
	if ok {
		c = rec.Countdown(requestcontext.Now(ctx, s.now), s.rollover)
	}
	s.mu.RUnlock()

	if !ok {
		return models.Countdown{}, s.reject(ctx, span, "days_to_birthday", contactNotFound(name))
	}
	span.SetAttributes(attribute.Int("contacts.days_to_birthday", c.Days()))
	return c, nil
}

// Page returns one page of record representations. A size of 0 uses the
// configured page size.
func (s *Service) Page(ctx context.Context, cursor book.Cursor, size int) (book.Page, error) {
	ctx, span := s.start(ctx, "page", "")
	defer span.End()

	if size == 0 {
		size = s.pageSize
	}
	span.SetAttributes(attribute.Int("contacts.offset", cursor.Offset()), attribute.Int("contacts.page_size", size))

	s.mu.RLock()
	page, err := s.book.Page(cursor, size)
	s.mu.RUnlock()

	if err != nil {
		return book.Page{}, s.reject(ctx, span, "page", err)
	}
	return page, nil
}

// Len returns the number of contacts.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.book.Len()
}

func (s *Service) start(ctx context.Context, op, name string) (context.Context, trace.Span) {
	opts := []trace.SpanStartOption{trace.WithAttributes(attribute.String("contacts.op", op))}
	if name != "" {
		opts = append(opts, trace.WithAttributes(attribute.String("contacts.name", name)))
	}
	return s.tracer.Start(ctx, "contacts."+op, opts...)
}

// reject records a failed operation on the span, metrics and debug log, then
// returns err unchanged.
func (s *Service) reject(ctx context.Context, span trace.Span, op string, err error) error {
	code := dErrors.CodeOf(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, string(code))
	if s.metrics != nil {
		s.metrics.IncrementRejected(op, string(code))
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "operation rejected", "op", op, "code", code, "error", err)
	}
	return err
}

func (s *Service) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, start)
	}
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = attrs.With(attributes, "request_id", requestID)
	}
	args := attrs.With(attributes, "event", event, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx, s.now),
		ContactID: attrs.ExtractString(attributes, "contact_id"),
		Contact:   attrs.ExtractString(attributes, "contact"),
		Action:    event,
		Detail:    attrs.ExtractString(attributes, "detail"),
		RequestID: attrs.ExtractString(attributes, "request_id"),
	})
	if err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", event, "error", err)
	}
}

func contactNotFound(name string) error {
	return dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "contact "+name+" not found")
}

// IsNotFound reports whether err means a contact or phone was missing.
func IsNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}
