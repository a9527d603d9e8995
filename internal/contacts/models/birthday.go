package models

import (
	"regexp"
	"time"
)

// DateLayout is the only accepted birthday format.
const DateLayout = "2006-01-02"

var (
	exactDatePattern  = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
	prefixDatePattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}`)
)

type dateRule struct{}

func (dateRule) Validate(value time.Time) error {
	if value.Year() < 1 {
		return formatError("wrong date format: use YYYY-MM-DD")
	}
	return nil
}

func (dateRule) Format(value time.Time) string { return value.Format(DateLayout) }

// Birthday is a calendar date parsed from YYYY-MM-DD. The stored value is
// midnight UTC of that date.
type Birthday struct {
	Field[time.Time]
	matching Matching
}

// NewBirthday parses raw with MatchExact.
func NewBirthday(raw string) (Birthday, error) {
	return NewBirthdayWith(raw, MatchExact)
}

// NewBirthdayWith parses raw with the given matching mode. Under MatchPrefix
// only the leading ten characters are read.
func NewBirthdayWith(raw string, matching Matching) (Birthday, error) {
	t, err := parseDate(raw, matching)
	if err != nil {
		return Birthday{}, err
	}
	f, err := NewField(t, Rule[time.Time](dateRule{}))
	if err != nil {
		return Birthday{}, err
	}
	return Birthday{Field: f, matching: matching}, nil
}

// SetString parses raw and replaces the date. On error the old date is kept.
func (b *Birthday) SetString(raw string) error {
	t, err := parseDate(raw, b.matching)
	if err != nil {
		return err
	}
	return b.Set(t)
}

func (b Birthday) Time() time.Time   { return b.Get() }
func (b Birthday) Year() int         { return b.Get().Year() }
func (b Birthday) Month() time.Month { return b.Get().Month() }
func (b Birthday) Day() int          { return b.Get().Day() }

func parseDate(raw string, matching Matching) (time.Time, error) {
	pattern := exactDatePattern
	if matching == MatchPrefix {
		pattern = prefixDatePattern
	}
	if !pattern.MatchString(raw) {
		return time.Time{}, formatError("wrong date format: use YYYY-MM-DD")
	}
	t, err := time.Parse(DateLayout, raw[:len(DateLayout)])
	if err != nil {
		return time.Time{}, formatError("not a calendar date: " + raw[:len(DateLayout)])
	}
	return t, nil
}
