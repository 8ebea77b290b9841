package shared

import (
	"errors"
	"strings"
)

// Error codes shared across the domain and application layers
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeAlreadyExists = "ALREADY_EXISTS"
	CodeInternal      = "INTERNAL_ERROR"
	CodePublishFailed = "PUBLISH_FAILED"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause creates a domain error that wraps cause
func NewDomainErrorWithCause(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInternal      = NewDomainError(CodeInternal, "An unexpected error occurred.")
)

// FieldError is a single validation failure attached to a field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field violation found while building an
// aggregate. Fields keep their first-seen order, messages keep insertion order.
type ValidationError struct {
	fields []string
	byKey  map[string][]string
}

// NewValidationError returns an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{byKey: make(map[string][]string)}
}

// Add appends a message for field
func (e *ValidationError) Add(field, message string) {
	if e.byKey == nil {
		e.byKey = make(map[string][]string)
	}
	if _, ok := e.byKey[field]; !ok {
		e.fields = append(e.fields, field)
	}
	e.byKey[field] = append(e.byKey[field], message)
}

// Merge appends every violation of other
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for _, field := range other.fields {
		for _, msg := range other.byKey[field] {
			e.Add(field, msg)
		}
	}
}

// HasErrors reports whether any violation was recorded
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.fields) > 0
}

// Fields returns the violations grouped by field
func (e *ValidationError) Fields() map[string][]string {
	out := make(map[string][]string, len(e.fields))
	for _, field := range e.fields {
		out[field] = append([]string(nil), e.byKey[field]...)
	}
	return out
}

// Messages returns the messages recorded for field
func (e *ValidationError) Messages(field string) []string {
	return e.byKey[field]
}

// Items flattens the violations in field order
func (e *ValidationError) Items() []FieldError {
	var items []FieldError
	for _, field := range e.fields {
		for _, msg := range e.byKey[field] {
			items = append(items, FieldError{Field: field, Message: msg})
		}
	}
	return items
}

// Code returns the error code used by the HTTP layer
func (e *ValidationError) Code() string {
	return CodeValidation
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, item := range e.Items() {
		parts = append(parts, item.Field+": "+item.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
