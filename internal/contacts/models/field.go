// Package models holds the contact aggregate and the validated value types
// it is built from.
//
// Every value type wraps a Field, which validates on construction and on
// every Set. A failed write never partially mutates a field.
package models

import (
	"fmt"

	dErrors "contactbook/pkg/domain-errors"
)

// Rule validates and formats the values of a Field.
type Rule[T any] interface {
	Validate(value T) error
	Format(value T) string
}

// Field holds a single value that has passed its Rule.
type Field[T any] struct {
	value T
	rule  Rule[T]
}

// NewField validates value against rule and returns the field holding it.
func NewField[T any](value T, rule Rule[T]) (Field[T], error) {
	if rule == nil {
		return Field[T]{}, dErrors.New(dErrors.CodeInvariantViolation, "field rule cannot be nil")
	}
	if err := rule.Validate(value); err != nil {
		return Field[T]{}, err
	}
	return Field[T]{value: value, rule: rule}, nil
}

// Get returns the current value.
func (f Field[T]) Get() T {
	return f.value
}

// Set re-validates and replaces the value. On error the previous value is kept.
func (f *Field[T]) Set(value T) error {
	if f.rule == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "field was not constructed")
	}
	if err := f.rule.Validate(value); err != nil {
		return err
	}
	f.value = value
	return nil
}

func (f Field[T]) String() string {
	if f.rule == nil {
		return fmt.Sprint(f.value)
	}
	return f.rule.Format(f.value)
}
