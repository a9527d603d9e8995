package sentinel

import "errors"

// Sentinel errors for storage facts. The book and the service return these
// wrapped in coded domain errors so callers can use either errors.Is or
// domainerrors.HasCode.
//
// These represent factual states about entries, not validation failures:
// - ErrNotFound: entry does not exist
// - ErrConflict: entry with the same key already exists
//
// For validation errors (bad input, malformed fields), use pkg/domain-errors directly.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
