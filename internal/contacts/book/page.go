package book

import (
	"iter"

	dErrors "contactbook/pkg/domain-errors"
)

// Cursor marks where the next page starts. The zero Cursor is the start of
// the book. Each traversal owns its cursor; the book keeps none.
type Cursor struct {
	offset int
}

// Offset returns the number of records before the cursor.
func (c Cursor) Offset() int { return c.offset }

// Page is one window of record representations.
type Page struct {
	Items []string
	Next  Cursor
	Done  bool
}

// Page returns up to size records, rendered with String, starting at cursor.
// A cursor past the end yields an empty, done page.
func (b *Book) Page(cursor Cursor, size int) (Page, error) {
	if size <= 0 {
		return Page{}, dErrors.Newf(dErrors.CodeInvalidInput, "page size must be positive, got %d", size)
	}
	start := min(cursor.offset, len(b.order))
	end := min(start+size, len(b.order))

	items := make([]string, 0, end-start)
	for _, name := range b.order[start:end] {
		items = append(items, b.records[name].String())
	}
	return Page{Items: items, Next: Cursor{offset: end}, Done: end >= len(b.order)}, nil
}

// Pages yields successive pages of size records until the book is exhausted.
// Every call starts a fresh traversal, so concurrent ranges do not interfere.
// A non-positive size yields nothing.
func (b *Book) Pages(size int) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		var cursor Cursor
		for {
			page, err := b.Page(cursor, size)
			if err != nil || len(page.Items) == 0 {
				return
			}
			if !yield(page.Items) || page.Done {
				return
			}
			cursor = page.Next
		}
	}
}
