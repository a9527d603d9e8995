package domain

import (
	"github.com/google/uuid"

	dErrors "contactbook/pkg/domain-errors"
)

// ContactID identifies a single contact record for logging and audit.
// Contact lookup is by name; the ID is stable across renames of display data
// and never reused.
type ContactID uuid.UUID

// NewContactID returns a fresh random ContactID.
func NewContactID() ContactID {
	return ContactID(uuid.New())
}

// ParseContactID parses external input into a ContactID.
//
// Errors: returns CodeInvalidInput when the value is empty, malformed, or the
// nil UUID.
func ParseContactID(s string) (ContactID, error) {
	if s == "" {
		return ContactID{}, dErrors.New(dErrors.CodeInvalidInput, "contact id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return ContactID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid contact id")
	}
	if u == uuid.Nil {
		return ContactID{}, dErrors.New(dErrors.CodeInvalidInput, "contact id cannot be nil")
	}
	return ContactID(u), nil
}

// String returns the canonical UUID text.
func (id ContactID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether id is the zero value.
func (id ContactID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}
