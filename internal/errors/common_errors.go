package errors

import (
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeSchema           ErrorType = "SCHEMA"
	ErrTypeDataIntegrity    ErrorType = "DATA_INTEGRITY"
	ErrTypeJoinAmbiguity    ErrorType = "JOIN_AMBIGUITY"
	ErrTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"
	ErrTypeParsing          ErrorType = "PARSING"
	ErrTypeStorage          ErrorType = "STORAGE"
	ErrTypeValidation       ErrorType = "VALIDATION"
	ErrTypeNotFound         ErrorType = "NOT_FOUND"
	ErrTypeConfig           ErrorType = "CONFIG"
)

// Sentinels for errors.Is checks. Any AppError of the same type matches.
var (
	ErrSchema           = &AppError{Type: ErrTypeSchema}
	ErrDataIntegrity    = &AppError{Type: ErrTypeDataIntegrity}
	ErrJoinAmbiguity    = &AppError{Type: ErrTypeJoinAmbiguity}
	ErrInsufficientData = &AppError{Type: ErrTypeInsufficientData}
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// Fatal reports whether the error must abort a whole computation.
// Insufficient data only blanks the affected figure.
func (e *AppError) Fatal() bool {
	return e.Type != ErrTypeInsufficientData
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewSchemaError reports required columns missing from a table.
func NewSchemaError(table string, missing []string) *AppError {
	return NewAppError(ErrTypeSchema,
		fmt.Sprintf("table %q is missing required columns: %s", table, strings.Join(missing, ", ")), nil).
		WithContext("table", table).
		WithContext("missing", missing)
}

// NewDataIntegrityError reports a field that cannot be interpreted as its column type.
// Row is 1-based over the data rows of the table.
func NewDataIntegrityError(table, column string, row int, value any, cause error) *AppError {
	return NewAppError(ErrTypeDataIntegrity,
		fmt.Sprintf("table %q row %d: column %q has unparseable value %v", table, row, column, value), cause).
		WithContext("table", table).
		WithContext("column", column).
		WithContext("row", row)
}

// NewJoinAmbiguityError reports a join key that matches more than one row.
func NewJoinAmbiguityError(column, key string, matches int) *AppError {
	return NewAppError(ErrTypeJoinAmbiguity,
		fmt.Sprintf("join key %s=%q matches %d product rows", column, key, matches), nil).
		WithContext("column", column).
		WithContext("key", key)
}

// NewInsufficientDataError reports too few points for a statistic.
func NewInsufficientDataError(what string, have, need int) *AppError {
	return NewAppError(ErrTypeInsufficientData,
		fmt.Sprintf("%s needs at least %d points, have %d", what, need, have), nil).
		WithContext("have", have).
		WithContext("need", need)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
