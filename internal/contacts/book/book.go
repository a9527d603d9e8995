// Package book stores contact records keyed by name.
//
// A Book is not safe for concurrent use; the contacts service serialises
// access to it.
package book

import (
	"fmt"
	"iter"
	"slices"

	"contactbook/internal/contacts/models"
	dErrors "contactbook/pkg/domain-errors"
	"contactbook/pkg/platform/sentinel"
)

// Book maps contact names to records and remembers insertion order.
//
// Invariants:
//   - every key equals the Name() of its record
//   - keys are unique
//   - order holds exactly the keys of records
type Book struct {
	records map[string]*models.Record
	order   []string
}

// New returns an empty book.
func New() *Book {
	return &Book{records: make(map[string]*models.Record)}
}

// FromRecords seeds a book in the given order. A repeated name fails.
func FromRecords(records ...*models.Record) (*Book, error) {
	b := New()
	for _, rec := range records {
		if err := b.AddRecord(rec); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// AddRecord inserts rec under its name. The book is unchanged on error.
func (b *Book) AddRecord(rec *models.Record) error {
	if rec == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "record cannot be nil")
	}
	key := rec.Name()
	if _, ok := b.records[key]; ok {
		return dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict,
			fmt.Sprintf("contact %s already exists", key))
	}
	b.records[key] = rec
	b.order = append(b.order, key)
	return nil
}

// Find looks a record up by exact name.
func (b *Book) Find(name string) (*models.Record, bool) {
	rec, ok := b.records[name]
	return rec, ok
}

// Delete removes and returns the named record. A missing name is a no-op.
func (b *Book) Delete(name string) (*models.Record, bool) {
	rec, ok := b.records[name]
	if !ok {
		return nil, false
	}
	delete(b.records, name)
	if i := slices.Index(b.order, name); i >= 0 {
		b.order = slices.Delete(b.order, i, i+1)
	}
	return rec, true
}

func (b *Book) Len() int { return len(b.order) }

// Names returns the keys in insertion order.
func (b *Book) Names() []string {
	return slices.Clone(b.order)
}

// All yields records in insertion order.
func (b *Book) All() iter.Seq[*models.Record] {
	return func(yield func(*models.Record) bool) {
		for _, name := range b.order {
			if !yield(b.records[name]) {
				return
			}
		}
	}
}
