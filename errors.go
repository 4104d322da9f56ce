package pgrequests

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for statement compilation.
var (
	// ErrInvalidPredicate is returned when a filter predicate's value shape
	// does not match its operator's arity.
	ErrInvalidPredicate = errors.New("pgrequests: invalid predicate")

	// ErrInvalidDeclaration is returned when a statement declaration is
	// structurally invalid (negative limit, empty USING list, and so on).
	ErrInvalidDeclaration = errors.New("pgrequests: invalid declaration")

	// ErrIllegalState is returned when a declaration is attempted on a
	// statement that has already been finalized.
	ErrIllegalState = errors.New("pgrequests: statement already finalized")
)

// InvalidPredicateError describes an arity mismatch between a filter
// operator and the shape of its value (scalar vs. sequence).
type InvalidPredicateError struct {
	Key    string // The lookup key as written by the caller.
	Reason string
}

// Error returns the error string.
func (e *InvalidPredicateError) Error() string {
	return fmt.Sprintf("pgrequests: predicate %q: %s", e.Key, e.Reason)
}

// Is reports whether the target error matches InvalidPredicateError.
// This allows errors.Is(err, ErrInvalidPredicate) to return true.
func (e *InvalidPredicateError) Is(err error) bool {
	return err == ErrInvalidPredicate
}

// NewInvalidPredicateError returns a new InvalidPredicateError for the
// given lookup key.
func NewInvalidPredicateError(key, reason string) *InvalidPredicateError {
	return &InvalidPredicateError{Key: key, Reason: reason}
}

// IsInvalidPredicate returns true if the error is an InvalidPredicateError.
func IsInvalidPredicate(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidPredicateError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidPredicate)
}

// InvalidDeclarationError describes a structurally invalid statement
// declaration, detected at declaration time.
type InvalidDeclarationError struct {
	Clause string // The clause the declaration belongs to, e.g. "LIMIT", "JOIN".
	Reason string
}

// Error returns the error string.
func (e *InvalidDeclarationError) Error() string {
	if e.Clause != "" {
		return fmt.Sprintf("pgrequests: %s: %s", e.Clause, e.Reason)
	}
	return fmt.Sprintf("pgrequests: %s", e.Reason)
}

// Is reports whether the target error matches InvalidDeclarationError.
func (e *InvalidDeclarationError) Is(err error) bool {
	return err == ErrInvalidDeclaration
}

// NewInvalidDeclarationError returns a new InvalidDeclarationError for the
// given clause.
func NewInvalidDeclarationError(clause, reason string) *InvalidDeclarationError {
	return &InvalidDeclarationError{Clause: clause, Reason: reason}
}

// IsInvalidDeclaration returns true if the error is an InvalidDeclarationError.
func IsInvalidDeclaration(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidDeclarationError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidDeclaration)
}

// IllegalStateError describes a declaration attempted after the owning
// statement was finalized. The cached compiled result is never mutated.
type IllegalStateError struct {
	Op string // The declaration method that was rejected.
}

// Error returns the error string.
func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("pgrequests: %s called after statement was finalized", e.Op)
}

// Is reports whether the target error matches IllegalStateError.
func (e *IllegalStateError) Is(err error) bool {
	return err == ErrIllegalState
}

// NewIllegalStateError returns a new IllegalStateError for the given
// declaration method.
func NewIllegalStateError(op string) *IllegalStateError {
	return &IllegalStateError{Op: op}
}

// IsIllegalState returns true if the error is an IllegalStateError.
func IsIllegalState(err error) bool {
	if err == nil {
		return false
	}
	var e *IllegalStateError
	return errors.As(err, &e) || errors.Is(err, ErrIllegalState)
}

// AggregateError represents multiple errors collected while a statement
// accumulated declarations.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "pgrequests: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("pgrequests: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors for errors.Is/As traversal.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
