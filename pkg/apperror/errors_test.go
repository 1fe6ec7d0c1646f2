package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("PAY_001", "Invalid amount", http.StatusBadRequest),
			expected: "[PAY_001] Invalid amount",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("PAY_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestPaymentErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidAmount", ErrInvalidAmount(), "PAY_001", 400},
		{"EmptyCheckout", ErrEmptyCheckout(), "PAY_002", 400},
		{"TransactionNotFound", ErrTransactionNotFound(), "PAY_004", 404},
		{"NotFound", ErrNotFound("Course"), "PAY_005", 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestCoursesNotFound_ListsIDs(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	err := ErrCoursesNotFound([]uuid.UUID{a, b})

	assert.Equal(t, "PAY_003", err.Code)
	assert.Equal(t, 404, err.HTTPStatus)
	assert.Contains(t, err.Message, a.String())
	assert.Contains(t, err.Message, b.String())
}

func TestEnrollmentErrors(t *testing.T) {
	courseID := uuid.New()
	enrolled := ErrAlreadyEnrolled(courseID)
	assert.Equal(t, "ENR_001", enrolled.Code)
	assert.Equal(t, 409, enrolled.HTTPStatus)
	assert.Contains(t, enrolled.Message, courseID.String())

	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"NotEnrolled", ErrNotEnrolled(), "ENR_002", 404},
		{"AlreadyInCart", ErrAlreadyInCart(), "ENR_003", 409},
		{"NotInCart", ErrNotInCart(), "ENR_004", 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestPayoutErrors(t *testing.T) {
	err := ErrNoUnpaidPayouts()
	assert.Equal(t, "PO_001", err.Code)
	assert.Equal(t, 404, err.HTTPStatus)
}

func TestAuthErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidCredentials", ErrInvalidCredentials(), "AUTH_001", 401},
		{"EmailExists", ErrEmailExists(), "AUTH_002", 409},
		{"InvalidToken", ErrInvalidToken(), "AUTH_003", 401},
		{"Forbidden", ErrForbidden(), "AUTH_004", 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	dbErr := ErrDatabaseError(inner)
	assert.Equal(t, "SYS_001", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))
}
