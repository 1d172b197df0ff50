package pass

import (
	"errors"
	"fmt"
	"strings"
)

// Error represents a structured error from the pass package.
type Error interface {
	error
	Code() ErrorCode
	Unwrap() error
}

type ErrorCode string

const (
	// ErrCodeValidation indicates that one or more pass invariants are violated.
	ErrCodeValidation ErrorCode = "validation"

	// ErrCodeKeyNotFound indicates that no field carries the requested key.
	ErrCodeKeyNotFound ErrorCode = "key_not_found"

	// ErrCodeInvalidValue indicates a field value that the field cannot hold.
	ErrCodeInvalidValue ErrorCode = "invalid_value"

	// ErrCodeInvalidJSON indicates pass.json that cannot be decoded.
	ErrCodeInvalidJSON ErrorCode = "invalid_json"
)

// ErrKeyNotFound is matched by errors.Is for every lookup failure.
var ErrKeyNotFound = errors.New("field key not found")

// PassError represents a structured error from the pass package
type PassError struct {

	// code is the error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *PassError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *PassError) Code() ErrorCode { return e.code }
func (e *PassError) Unwrap() error   { return e.wrapped }

// NewInvalidValueError creates an error for a value rejected by a field.
func NewInvalidValueError(msg string) error {
	return &PassError{code: ErrCodeInvalidValue, message: msg}
}

// WrapInvalidJSONError wraps a decoding failure of pass.json.
func WrapInvalidJSONError(err error, msg string) error {
	return &PassError{code: ErrCodeInvalidJSON, message: msg, wrapped: err}
}

// LookupError is returned when a field key is not present in the pass.
//
// errors.Is(err, ErrKeyNotFound) reports true for every LookupError.
type LookupError struct {
	Key string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("field %q not found", e.Key)
}

func (e *LookupError) Code() ErrorCode { return ErrCodeKeyNotFound }
func (e *LookupError) Unwrap() error   { return ErrKeyNotFound }

// ValidationError lists every invariant a pass violates.
//
// Validation is exhaustive: Build and Parse collect all problems before failing,
// so callers can fix a template in one pass.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid pass: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid pass (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Code() ErrorCode { return ErrCodeValidation }
func (e *ValidationError) Unwrap() error   { return nil }

// problems accumulates validation messages.
type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return &ValidationError{Problems: p}
}
