package models

import (
	"errors"
	"fmt"

	dErrors "contactbook/pkg/domain-errors"
)

// ErrInvalidFormat is the cause of every phone, birthday, and name format
// failure. Callers may match it with errors.Is or check for CodeInvalidInput.
var ErrInvalidFormat = errors.New("invalid format")

// Matching selects how strictly phone and birthday strings are matched.
type Matching int

const (
	// MatchExact requires the whole input to match the pattern.
	MatchExact Matching = iota
	// MatchPrefix only requires the input to begin with a match. Trailing
	// characters are accepted (phones) or ignored (birthdays).
	MatchPrefix
)

// ParseMatching parses "exact" or "prefix". The empty string means MatchExact.
func ParseMatching(s string) (Matching, error) {
	switch s {
	case "", "exact":
		return MatchExact, nil
	case "prefix":
		return MatchPrefix, nil
	default:
		return MatchExact, fmt.Errorf("unknown matching mode %q", s)
	}
}

func (m Matching) String() string {
	if m == MatchPrefix {
		return "prefix"
	}
	return "exact"
}

func formatError(msg string) error {
	return dErrors.Wrap(ErrInvalidFormat, dErrors.CodeInvalidInput, msg)
}
