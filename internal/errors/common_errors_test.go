package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewAppError(ErrTypeSchema, "missing columns", nil),
			want: "[SCHEMA] missing columns",
		},
		{
			name: "with cause",
			err:  NewStorageError("failed to open", io.EOF),
			want: "[STORAGE] failed to open: EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_IsMatchesType(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		target  error
		matches bool
	}{
		{"schema", NewSchemaError("Sales", []string{"Date"}), ErrSchema, true},
		{"integrity", NewDataIntegrityError("Sales", "Date", 3, "x", nil), ErrDataIntegrity, true},
		{"ambiguity", NewJoinAmbiguityError("ProductKey", "1", 2), ErrJoinAmbiguity, true},
		{"insufficient", NewInsufficientDataError("trend line", 1, 2), ErrInsufficientData, true},
		{"wrapped", fmt.Errorf("compute: %w", NewSchemaError("Sales", nil)), ErrSchema, true},
		{"different type", NewSchemaError("Sales", nil), ErrDataIntegrity, false},
		{"plain error", io.EOF, ErrSchema, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, errors.Is(tt.err, tt.target))
		})
	}
}

func TestAppError_UnwrapsCause(t *testing.T) {
	err := NewDataIntegrityError("Sales", "Sales", 2, "ten", io.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestAppError_Fatal(t *testing.T) {
	assert.True(t, NewSchemaError("Sales", nil).Fatal())
	assert.True(t, NewJoinAmbiguityError("ProductKey", "1", 2).Fatal())
	assert.False(t, NewInsufficientDataError("trend line", 0, 2).Fatal())
}

func TestConstructorsCarryContext(t *testing.T) {
	schema := NewSchemaError("Products", []string{"Color", "Category"})
	assert.Contains(t, schema.Message, "Color, Category")
	assert.Equal(t, "Products", schema.Context["table"])

	integrity := NewDataIntegrityError("Sales", "Date", 7, "soon", nil)
	assert.Equal(t, 7, integrity.Context["row"])
	assert.Equal(t, "Date", integrity.Context["column"])
	assert.Contains(t, integrity.Message, "soon")

	ambiguity := NewJoinAmbiguityError("ProductKey", "42", 3)
	assert.Equal(t, "42", ambiguity.Context["key"])
	assert.Contains(t, ambiguity.Message, "3 product rows")

	insufficient := NewInsufficientDataError("trend line", 1, 2)
	assert.Equal(t, "trend line needs at least 2 points, have 1", insufficient.Message)
}

func TestWithContext_InitializesMap(t *testing.T) {
	err := &AppError{Type: ErrTypeConfig}
	require.NotPanics(t, func() { err.WithContext("key", "value") })
	assert.Equal(t, "value", err.Context["key"])
}
