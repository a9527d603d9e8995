package models

import "strings"

type nameRule struct{}

func (nameRule) Validate(value string) error {
	if strings.TrimSpace(value) == "" {
		return formatError("contact name cannot be empty")
	}
	return nil
}

func (nameRule) Format(value string) string { return value }

// ContactName identifies a record inside a book. It is used verbatim as the
// book key, so lookups are exact and case-sensitive.
type ContactName struct {
	Field[string]
}

func NewContactName(raw string) (ContactName, error) {
	f, err := NewField(raw, Rule[string](nameRule{}))
	if err != nil {
		return ContactName{}, err
	}
	return ContactName{Field: f}, nil
}
