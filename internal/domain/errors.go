package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports required-field and range violations with
// per-field detail. Recoverable; surfaced to the caller.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a violation for a field. The first message per field wins.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// Empty reports whether no violations were recorded.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// ReferenceError reports a foreign key that does not resolve in its
// target collection.
type ReferenceError struct {
	Field string
	Kind  Kind
	ID    int
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s %d does not exist", e.Field, e.Kind, e.ID)
}

// NotFoundError reports an absent Id on get/update/delete.
type NotFoundError struct {
	Kind Kind
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// CorruptPresetError reports a stored filter blob that does not decode.
// Distinct from NotFoundError so callers can offer recovery (delete or
// overwrite the preset) instead of treating the preset as missing.
type CorruptPresetError struct {
	ID  int
	Err error
}

func (e *CorruptPresetError) Error() string {
	return fmt.Sprintf("filter preset %d is corrupt: %v", e.ID, e.Err)
}

func (e *CorruptPresetError) Unwrap() error { return e.Err }

// PersistenceError wraps a failure of the external persistence
// collaborator. The core propagates it without retrying; retry policy
// belongs to the backend or the caller.
type PersistenceError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsReference reports whether err is a ReferenceError.
func IsReference(err error) bool {
	var re *ReferenceError
	return errors.As(err, &re)
}

// APIError represents a standardized API error with HTTP status code,
// following RFC 7807 problem details.
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeReference     = "reference_error"
	ErrorTypeNotFound      = "not_found"
	ErrorTypeBadRequest    = "bad_request"
	ErrorTypeCorruptPreset = "corrupt_preset"
	ErrorTypeInternal      = "internal_error"
)
