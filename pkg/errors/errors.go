// Package errors provides the typed errors used across carmap.
// Catalog loading reports FetchError, favorites decoding reports
// StorageParseError, and the remaining types cover lookups, validation,
// configuration and file I/O so callers can branch with errors.Is / errors.As.
package errors

import (
	"errors"
	"fmt"
)

// New is errors.New, re-exported so callers need a single import.
var New = errors.New

// Sentinel errors matched by the typed errors below.
var (
	// ErrNotFound indicates that a requested vehicle or resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that supplied data failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFetchFailed indicates that the catalog source could not be read or decoded.
	ErrFetchFailed = errors.New("catalog fetch failed")

	// ErrStorageParse indicates that persisted favorites could not be decoded.
	ErrStorageParse = errors.New("malformed persisted data")

	// ErrCatalogUnavailable indicates the catalog has not been loaded, or its load failed.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// NotFoundError represents a lookup miss.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure on a single field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// FetchError is returned when the catalog source is unreachable, answers
// with a non-success status, or returns content that is not a valid record list.
// It is terminal for the session that attempted the load.
type FetchError struct {
	Source     string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch %s: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed || target == ErrCatalogUnavailable
}

// NewFetchError creates a new FetchError wrapping err.
func NewFetchError(source, message string, err error) *FetchError {
	return &FetchError{Source: source, Message: message, Err: err}
}

// StorageParseError is produced when the persisted favorites value cannot
// be decoded. Callers recover by substituting an empty set.
type StorageParseError struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *StorageParseError) Error() string {
	return fmt.Sprintf("parse stored value %q: %v", e.Key, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *StorageParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *StorageParseError) Is(target error) bool {
	return target == ErrStorageParse
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// IOError represents a failed file or storage operation.
type IOError struct {
	Operation string // "read", "write", "open", "close", "rename"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError.
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{Operation: operation, Path: path, Message: message, Err: err}
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsFetchError reports whether err came from a failed catalog load.
func IsFetchError(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}

// IsStorageParseError reports whether err came from malformed persisted data.
func IsStorageParseError(err error) bool {
	return errors.Is(err, ErrStorageParse)
}

// WrapIO wraps err as an IOError. It returns nil for a nil err.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapFetch wraps err as a FetchError. It returns nil for a nil err,
// and leaves an existing FetchError untouched.
func WrapFetch(source string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return NewFetchError(source, err.Error(), err)
}

// As is errors.As, re-exported for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is is errors.Is, re-exported for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
