package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"contactbook/internal/audit"
	"contactbook/internal/contacts/book"
	"contactbook/internal/contacts/metrics"
	"contactbook/internal/contacts/models"
	"contactbook/internal/contacts/service/mocks"
	"contactbook/internal/platform/logger"
	dErrors "contactbook/pkg/domain-errors"
	"contactbook/pkg/platform/sentinel"
	"contactbook/pkg/requestcontext"
)

var today = time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	publisher *mocks.MockAuditPublisher
	metrics   *metrics.Metrics
	spans     *tracetest.InMemoryExporter
	logs      *bytes.Buffer
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.publisher = mocks.NewMockAuditPublisher(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.spans = tracetest.NewInMemoryExporter()
	s.logs = &bytes.Buffer{}

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(s.spans))
	s.service = New(book.New(),
		WithAuditPublisher(s.publisher),
		WithMetrics(s.metrics),
		WithTracerProvider(tp),
		WithLogger(logger.New(logger.Options{Level: "debug", Format: "json", Output: s.logs})),
		WithClock(func() time.Time { return today }),
	)
}

func (s *ServiceSuite) expectAudit(action audit.Action, times int) {
	s.publisher.EXPECT().
		Emit(gomock.Any(), gomock.Cond(func(e audit.Event) bool { return e.Action == string(action) })).
		Return(nil).
		Times(times)
}

func (s *ServiceSuite) TestCreateContact() {
	ctx := context.Background()

	s.Run("creates and audits", func() {
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
			s.Equal(string(audit.EventContactCreated), e.Action)
			s.Equal("John", e.Contact)
			s.NotEmpty(e.ContactID)
			s.Equal(today, e.Timestamp)
			return nil
		})

		rec, err := s.service.CreateContact(ctx, "John", "1234567890", "1993-12-01")
		s.Require().NoError(err)
		s.Equal([]string{"1234567890"}, rec.Phones())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RecordsAdded))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Records))
		s.Contains(s.logs.String(), `"log_type":"audit"`)
	})

	s.Run("duplicate is a conflict", func() {
		_, err := s.service.CreateContact(ctx, "John", "", "")
		s.ErrorIs(err, sentinel.ErrConflict)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RejectedOps.WithLabelValues("create_contact", "conflict")))
	})

	s.Run("bad phone is rejected before touching the book", func() {
		_, err := s.service.CreateContact(ctx, "Jane", "98765", "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
		s.Equal(1, s.service.Len())
	})
}

func (s *ServiceSuite) TestAddRecordStoresCopy() {
	ctx := context.Background()
	s.expectAudit(audit.EventContactCreated, 1)

	rec, err := models.NewRecord("Jane", models.WithPhone("9876543210"))
	s.Require().NoError(err)
	_, err = s.service.AddRecord(ctx, rec)
	s.Require().NoError(err)

	_, err = rec.AddPhone("1111111111")
	s.Require().NoError(err)

	stored, err := s.service.Find(ctx, "Jane")
	s.Require().NoError(err)
	s.Equal([]string{"9876543210"}, stored.Phones())

	_, err = s.service.AddRecord(ctx, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestFindAndDelete() {
	ctx := context.Background()
	s.expectAudit(audit.EventContactCreated, 1)
	s.expectAudit(audit.EventContactDeleted, 1)

	_, err := s.service.CreateContact(ctx, "Jane", "9876543210", "")
	s.Require().NoError(err)

	_, err = s.service.Find(ctx, "Nobody")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.True(IsNotFound(err))

	rec, ok := s.service.Delete(ctx, "Jane")
	s.True(ok)
	s.Equal("Jane", rec.Name())
	s.Equal(0.0, testutil.ToFloat64(s.metrics.Records))

	rec, ok = s.service.Delete(ctx, "Jane")
	s.False(ok)
	s.Nil(rec)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RecordsDeleted))
}

func (s *ServiceSuite) TestPhoneOperations() {
	ctx := context.Background()
	s.expectAudit(audit.EventContactCreated, 1)
	s.expectAudit(audit.EventPhoneAdded, 1)
	s.expectAudit(audit.EventPhoneEdited, 1)
	s.expectAudit(audit.EventPhoneRemoved, 1)

	_, err := s.service.CreateContact(ctx, "John", "1234567890", "")
	s.Require().NoError(err)

	msg, err := s.service.AddPhone(ctx, "John", "5555555555")
	s.Require().NoError(err)
	s.Equal("Added phone 5555555555 to contact John", msg)

	msg, err = s.service.EditPhone(ctx, "John", "1234567890", "1112223333")
	s.Require().NoError(err)
	s.Equal("Changed phone 1234567890 for contact John to 1112223333", msg)

	p, found, err := s.service.FindPhone(ctx, "John", "1112223333")
	s.Require().NoError(err)
	s.True(found)
	s.Equal("1112223333", p.Get())

	_, found, err = s.service.FindPhone(ctx, "John", "1234567890")
	s.Require().NoError(err)
	s.False(found)

	_, err = s.service.EditPhone(ctx, "John", "9999999999", "1234567890")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.RemovePhone(ctx, "John", "5555555555")
	s.Require().NoError(err)

	_, err = s.service.AddPhone(ctx, "Ghost", "5555555555")
	s.True(IsNotFound(err))
	_, _, err = s.service.FindPhone(ctx, "Ghost", "5555555555")
	s.True(IsNotFound(err))

	rec, err := s.service.Find(ctx, "John")
	s.Require().NoError(err)
	s.Equal([]string{"1112223333"}, rec.Phones())

	s.Equal(1.0, testutil.ToFloat64(s.metrics.PhoneOperations.WithLabelValues("add_phone")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.PhoneOperations.WithLabelValues("edit_phone")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.PhoneOperations.WithLabelValues("remove_phone")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RejectedOps.WithLabelValues("edit_phone", "not_found")))
}

func (s *ServiceSuite) TestBirthday() {
	ctx := context.Background()
	s.expectAudit(audit.EventContactCreated, 1)
	s.expectAudit(audit.EventBirthdaySet, 1)

	_, err := s.service.CreateContact(ctx, "Dow", "", "")
	s.Require().NoError(err)

	c, err := s.service.DaysToBirthday(ctx, "Dow")
	s.Require().NoError(err)
	s.Equal(models.NoBirthdayMessage, c.String())

	s.Require().Error(s.service.SetBirthday(ctx, "Dow", "1993/12/01"))
	s.Require().NoError(s.service.SetBirthday(ctx, "Dow", "1993-12-01"))

	c, err = s.service.DaysToBirthday(ctx, "Dow")
	s.Require().NoError(err)
	s.Equal(45, c.Days())

	_, err = s.service.DaysToBirthday(ctx, "Ghost")
	s.True(IsNotFound(err))
}

func (s *ServiceSuite) TestRolloverOption() {
	svc := New(nil, WithClock(func() time.Time { return today }), WithRollover(models.RolloverByDay))
	_, err := svc.CreateContact(context.Background(), "Ann", "", "2000-10-25")
	s.Require().NoError(err)

	c, err := svc.DaysToBirthday(context.Background(), "Ann")
	s.Require().NoError(err)
	s.Equal(8, c.Days())
}

func (s *ServiceSuite) TestMatchingOption() {
	svc := New(nil, WithMatching(models.MatchPrefix))
	_, err := svc.CreateContact(context.Background(), "Ann", "12345678901", "")
	s.Require().NoError(err)

	strict := New(nil)
	_, err = strict.CreateContact(context.Background(), "Ann", "12345678901", "")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestPage() {
	ctx := context.Background()
	s.expectAudit(audit.EventContactCreated, 3)
	for _, name := range []string{"John", "Jane", "Bill"} {
		_, err := s.service.CreateContact(ctx, name, "", "")
		s.Require().NoError(err)
	}

	page, err := s.service.Page(ctx, book.Cursor{}, 2)
	s.Require().NoError(err)
	s.Len(page.Items, 2)
	s.False(page.Done)

	page, err = s.service.Page(ctx, page.Next, 2)
	s.Require().NoError(err)
	s.Equal([]string{"Contact name: Bill, birthday: None, phones: "}, page.Items)
	s.True(page.Done)

	all, err := s.service.Page(ctx, book.Cursor{}, 0)
	s.Require().NoError(err)
	s.Len(all.Items, 3, "size 0 uses the default page size")

	_, err = s.service.Page(ctx, book.Cursor{}, -1)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestSpans() {
	ctx := context.Background()
	s.expectAudit(audit.EventContactCreated, 1)

	_, err := s.service.CreateContact(ctx, "John", "", "")
	s.Require().NoError(err)
	_, err = s.service.Find(ctx, "Nobody")
	s.Require().Error(err)

	spans := s.spans.GetSpans()
	s.Require().Len(spans, 2)
	s.Equal("contacts.create_contact", spans[0].Name)
	s.Equal(codes.Unset, spans[0].Status.Code)
	s.Equal("contacts.find", spans[1].Name)
	s.Equal(codes.Error, spans[1].Status.Code)
	s.Equal(string(dErrors.CodeNotFound), spans[1].Status.Description)
}

func (s *ServiceSuite) TestAuditFailureIsLogged() {
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(fmt.Errorf("sink down"))

	_, err := s.service.CreateContact(context.Background(), "John", "", "")
	s.Require().NoError(err, "audit failures do not fail the operation")
	s.Contains(s.logs.String(), "failed to emit audit event")
}

func (s *ServiceSuite) TestImport() {
	ctx := context.Background()

	s.Run("invalid draft adds nothing", func() {
		n, err := s.service.Import(ctx, []Draft{
			{Name: "A", Phones: []string{"1234567890"}},
			{Name: "B", Phones: []string{"bad"}},
		})
		s.Zero(n)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
		s.ErrorIs(err, models.ErrInvalidFormat)
		s.Zero(s.service.Len())
	})

	s.Run("adds in order until a duplicate", func() {
		s.expectAudit(audit.EventContactImported, 2)
		n, err := s.service.Import(ctx, []Draft{
			{Name: "A", Phones: []string{"1234567890", "5555555555"}, Birthday: "1993-12-01"},
			{Name: "B"},
			{Name: "A"},
			{Name: "C"},
		})
		s.Equal(2, n)
		s.ErrorIs(err, sentinel.ErrConflict)

		page, err := s.service.Page(ctx, book.Cursor{}, 10)
		s.Require().NoError(err)
		s.Equal([]string{
			"Contact name: A, birthday: 1993-12-01, phones: 1234567890; 5555555555",
			"Contact name: B, birthday: None, phones: ",
		}, page.Items)
	})

	s.Run("cancelled context", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		n, err := s.service.Import(cctx, []Draft{{Name: "Z"}})
		s.Zero(n)
		s.ErrorIs(err, context.Canceled)
	})
}

func (s *ServiceSuite) TestConcurrentAccess() {
	ctx := context.Background()
	svc := New(nil)
	_, err := svc.CreateContact(ctx, "John", "", "")
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.AddPhone(ctx, "John", fmt.Sprintf("%010d", i))
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.CreateContact(ctx, fmt.Sprintf("c%d", i), "", "")
			_, _ = svc.Page(ctx, book.Cursor{}, 5)
		}()
	}
	wg.Wait()

	rec, err := svc.Find(ctx, "John")
	s.Require().NoError(err)
	s.Len(rec.Phones(), 20)
	s.Equal(21, svc.Len())
}

func (s *ServiceSuite) TestRequestContext() {
	pinned := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(requestcontext.WithRequestID(context.Background(), "req-7"), pinned)

	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
		s.Equal("req-7", e.RequestID)
		s.Equal(pinned, e.Timestamp)
		return nil
	})
	_, err := s.service.CreateContact(ctx, "John", "", "1993-12-01")
	s.Require().NoError(err)
	s.Contains(s.logs.String(), `"request_id":"req-7"`)

	c, err := s.service.DaysToBirthday(ctx, "John")
	s.Require().NoError(err)
	s.Equal(334, c.Days())
}
