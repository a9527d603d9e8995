package models

import (
	"fmt"
	"slices"
	"strings"

	id "contactbook/pkg/domain"
	dErrors "contactbook/pkg/domain-errors"
	"contactbook/pkg/platform/sentinel"
)

// TieBreak picks which entry wins when a phone value occurs more than once.
type TieBreak int

const (
	FirstMatch TieBreak = iota
	LastMatch
)

// Record is one contact.
//
// Invariants:
//   - name is set at construction and never changes
//   - phones holds only validated numbers, in insertion order; duplicates allowed
//   - birthday is nil or a validated date
//
// A Record is not safe for concurrent use.
type Record struct {
	id       id.ContactID
	name     ContactName
	phones   []PhoneNumber
	birthday *Birthday
	matching Matching
}

type recordConfig struct {
	phone    string
	birthday string
	matching Matching
}

// RecordOption configures NewRecord.
type RecordOption func(*recordConfig)

// WithPhone adds one initial phone. An empty string adds nothing.
func WithPhone(phone string) RecordOption {
	return func(c *recordConfig) { c.phone = phone }
}

// WithBirthday sets the initial birthday. An empty string leaves it unset.
func WithBirthday(date string) RecordOption {
	return func(c *recordConfig) { c.birthday = date }
}

// WithMatching selects phone and birthday matching for the record's lifetime.
func WithMatching(m Matching) RecordOption {
	return func(c *recordConfig) { c.matching = m }
}

// NewRecord builds a record. Any invalid field fails construction.
func NewRecord(name string, opts ...RecordOption) (*Record, error) {
	var cfg recordConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	n, err := NewContactName(name)
	if err != nil {
		return nil, err
	}
	r := &Record{id: id.NewContactID(), name: n, matching: cfg.matching}
	if cfg.phone != "" {
		p, err := NewPhoneNumberWith(cfg.phone, cfg.matching)
		if err != nil {
			return nil, err
		}
		r.phones = append(r.phones, p)
	}
	if cfg.birthday != "" {
		b, err := NewBirthdayWith(cfg.birthday, cfg.matching)
		if err != nil {
			return nil, err
		}
		r.birthday = &b
	}
	return r, nil
}

func (r *Record) ID() id.ContactID { return r.id }

func (r *Record) Name() string { return r.name.Get() }

// Phones returns the phone values in insertion order.
func (r *Record) Phones() []string {
	out := make([]string, len(r.phones))
	for i, p := range r.phones {
		out[i] = p.Get()
	}
	return out
}

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// AddPhone validates and appends phone. Duplicates are kept.
func (r *Record) AddPhone(phone string) (string, error) {
	p, err := NewPhoneNumberWith(phone, r.matching)
	if err != nil {
		return "", err
	}
	r.phones = append(r.phones, p)
	return fmt.Sprintf("Added phone %s to contact %s", phone, r.Name()), nil
}

// AddBirthday sets or overwrites the birthday. On error the old one is kept.
func (r *Record) AddBirthday(date string) error {
	b, err := NewBirthdayWith(date, r.matching)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// FindPhone returns the last entry equal to phone.
func (r *Record) FindPhone(phone string) (PhoneNumber, bool) {
	return r.FindPhoneMatch(phone, LastMatch)
}

// FindPhoneMatch returns the entry equal to phone chosen by tb.
func (r *Record) FindPhoneMatch(phone string, tb TieBreak) (PhoneNumber, bool) {
	i := r.indexOf(phone, tb)
	if i < 0 {
		return PhoneNumber{}, false
	}
	return r.phones[i], true
}

// RemovePhone removes the entry FindPhone selects.
func (r *Record) RemovePhone(phone string) (string, error) {
	i := r.indexOf(phone, LastMatch)
	if i < 0 {
		return "", r.phoneNotFound(phone)
	}
	r.phones = slices.Delete(r.phones, i, i+1)
	return fmt.Sprintf("Removed phone %s from contact %s.", phone, r.Name()), nil
}

// EditPhone replaces the first entry equal to oldPhone with newPhone.
// A missing oldPhone is reported before newPhone is validated.
func (r *Record) EditPhone(oldPhone, newPhone string) (string, error) {
	i := r.indexOf(oldPhone, FirstMatch)
	if i < 0 {
		return "", r.phoneNotFound(oldPhone)
	}
	p, err := NewPhoneNumberWith(newPhone, r.matching)
	if err != nil {
		return "", err
	}
	r.phones[i] = p
	return fmt.Sprintf("Changed phone %s for contact %s to %s", oldPhone, r.Name(), newPhone), nil
}

func (r *Record) indexOf(phone string, tb TieBreak) int {
	if tb == FirstMatch {
		return slices.IndexFunc(r.phones, func(p PhoneNumber) bool { return p.Equal(phone) })
	}
	for i := len(r.phones) - 1; i >= 0; i-- {
		if r.phones[i].Equal(phone) {
			return i
		}
	}
	return -1
}

func (r *Record) phoneNotFound(phone string) error {
	return dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound,
		fmt.Sprintf("phone %s not found for contact %s", phone, r.Name()))
}

// Clone returns a deep copy sharing no mutable state with r.
func (r *Record) Clone() *Record {
	c := *r
	c.phones = slices.Clone(r.phones)
	if r.birthday != nil {
		b := *r.birthday
		c.birthday = &b
	}
	return &c
}

func (r *Record) String() string {
	birthday := "None"
	if r.birthday != nil {
		birthday = r.birthday.String()
	}
	return fmt.Sprintf("Contact name: %s, birthday: %s, phones: %s",
		r.Name(), birthday, strings.Join(r.Phones(), "; "))
}
