package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"contactbook/internal/audit"
	"contactbook/internal/contacts/models"
	dErrors "contactbook/pkg/domain-errors"
)

// Draft is an unvalidated contact, as read from an external source.
type Draft struct {
	Name     string
	Phones   []string
	Birthday string
}

func (d Draft) build(matching models.Matching) (*models.Record, error) {
	rec, err := models.NewRecord(d.Name, models.WithMatching(matching), models.WithBirthday(d.Birthday))
	if err != nil {
		return nil, err
	}
	for _, p := range d.Phones {
		if _, err := rec.AddPhone(p); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Import validates every draft concurrently, then adds them in order.
//
// If any draft is invalid nothing is added. Otherwise records are added
// until the first duplicate name; the returned count says how many made it
// in. Records added before a duplicate stay in the book.
func (s *Service) Import(ctx context.Context, drafts []Draft) (int, error) {
	ctx, span := s.start(ctx, "import", "")
	defer span.End()
	defer s.observe("import", time.Now())
	span.SetAttributes(attribute.Int("contacts.drafts", len(drafts)))

	records := make([]*models.Record, len(drafts))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range drafts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := d.build(s.matching)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeOf(err), fmt.Sprintf("draft %d (%s)", i, d.Name))
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, s.reject(ctx, span, "import", err)
	}

	added := 0
	for _, rec := range records {
		s.mu.Lock()
		err := s.book.AddRecord(rec)
		size := s.book.Len()
		s.mu.Unlock()
		if err != nil {
			span.SetAttributes(attribute.Int("contacts.imported", added))
			return added, s.reject(ctx, span, "import", err)
		}
		added++
		if s.metrics != nil {
			s.metrics.RecordAdded(size)
		}
		s.logAudit(ctx, string(audit.EventContactImported), "contact_id", rec.ID().String(), "contact", rec.Name())
	}
	span.SetAttributes(attribute.Int("contacts.imported", added))
	return added, nil
}
