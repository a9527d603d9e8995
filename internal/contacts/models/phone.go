package models

import "regexp"

var (
	exactPhonePattern  = regexp.MustCompile(`^[0-9]{10}$`)
	prefixPhonePattern = regexp.MustCompile(`^[0-9]{10}`)
)

type phoneRule struct {
	matching Matching
}

func (r phoneRule) Validate(value string) error {
	pattern := exactPhonePattern
	if r.matching == MatchPrefix {
		pattern = prefixPhonePattern
	}
	if !pattern.MatchString(value) {
		return formatError("wrong phone format: it must contain 10 digits")
	}
	return nil
}

func (phoneRule) Format(value string) string { return value }

// PhoneNumber is a ten-digit phone string.
// Always valid in memory: use NewPhoneNumber to construct.
type PhoneNumber struct {
	Field[string]
}

// NewPhoneNumber validates raw with MatchExact.
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	return NewPhoneNumberWith(raw, MatchExact)
}

// NewPhoneNumberWith validates raw with the given matching mode.
func NewPhoneNumberWith(raw string, matching Matching) (PhoneNumber, error) {
	f, err := NewField(raw, Rule[string](phoneRule{matching: matching}))
	if err != nil {
		return PhoneNumber{}, err
	}
	return PhoneNumber{Field: f}, nil
}

// MustPhoneNumber creates a PhoneNumber, panicking on invalid input. Use only in tests.
func MustPhoneNumber(raw string) PhoneNumber {
	p, err := NewPhoneNumber(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Equal compares by value.
func (p PhoneNumber) Equal(raw string) bool {
	return p.Get() == raw
}

func (p PhoneNumber) IsZero() bool { return p.Get() == "" }
