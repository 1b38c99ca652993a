// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates a rejected configuration or request body
	TypeInput Type = "INPUT_ERROR"

	// TypeConfig indicates a configuration file or price table error
	TypeConfig Type = "CONFIG_ERROR"

	// TypePricing indicates a pricing table or policy error
	TypePricing Type = "PRICING_ERROR"

	// TypeNetwork indicates a cart or variant service failure. Always retryable.
	TypeNetwork Type = "NETWORK_ERROR"

	// TypeNotFound indicates a missing session or resource
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict indicates a request that does not fit the current state
	TypeConflict Type = "CONFLICT"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// As finds the first *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType checks if an error (or anything it wraps) is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := As(err); ok {
		return e.Type == t
	}
	return false
}

// TypeOf returns the error type, TypeInternal for foreign errors
func TypeOf(err error) Type {
	if e, ok := As(err); ok {
		return e.Type
	}
	return TypeInternal
}

// Retryable reports whether the shopper may simply try again
func Retryable(err error) bool {
	return IsType(err, TypeNetwork)
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// Network creates a retryable network error
func Network(message string, cause error) *Error {
	return Wrap(TypeNetwork, message, cause)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}

// Problems collects field-level validation failures into one error
type Problems struct {
	errType Type
	message string
	fields  map[string]string
}

// NewProblems starts a collection that reports as errType
func NewProblems(errType Type, message string) *Problems {
	return &Problems{errType: errType, message: message, fields: make(map[string]string)}
}

// Add records a problem for field. The first problem per field wins.
func (p *Problems) Add(field, format string, args ...interface{}) {
	if _, exists := p.fields[field]; exists {
		return
	}
	p.fields[field] = fmt.Sprintf(format, args...)
}

// Len returns the number of problems
func (p *Problems) Len() int {
	return len(p.fields)
}

// Err returns nil when empty, otherwise a typed error listing every field in order
func (p *Problems) Err() error {
	if len(p.fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(p.fields))
	for k := range p.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	err := New(p.errType, "")
	for _, k := range keys {
		parts = append(parts, k+": "+p.fields[k])
		err.WithContext(k, p.fields[k])
	}
	err.Message = p.message + " (" + strings.Join(parts, "; ") + ")"
	return err
}
