package apperror

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Payment & Settlement (PAY) ----

func ErrInvalidAmount() *AppError {
	return New("PAY_001", "Invalid amount", http.StatusBadRequest)
}

func ErrEmptyCheckout() *AppError {
	return New("PAY_002", "Checkout requires at least one course", http.StatusBadRequest)
}

func ErrCoursesNotFound(ids []uuid.UUID) *AppError {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	return New("PAY_003", fmt.Sprintf("Courses not found: %s", strings.Join(strs, ", ")), http.StatusNotFound)
}

func ErrTransactionNotFound() *AppError {
	return New("PAY_004", "Transaction not found", http.StatusNotFound)
}

func ErrNotFound(entity string) *AppError {
	return New("PAY_005", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Enrollment & Cart (ENR) ----

func ErrAlreadyEnrolled(courseID uuid.UUID) *AppError {
	return New("ENR_001", fmt.Sprintf("Already enrolled in course %s", courseID), http.StatusConflict)
}

func ErrNotEnrolled() *AppError {
	return New("ENR_002", "Not enrolled in this course", http.StatusNotFound)
}

func ErrAlreadyInCart() *AppError {
	return New("ENR_003", "Course is already in the cart", http.StatusConflict)
}

func ErrNotInCart() *AppError {
	return New("ENR_004", "Course is not in the cart", http.StatusNotFound)
}

// ---- Payouts (PO) ----

func ErrNoUnpaidPayouts() *AppError {
	return New("PO_001", "Teacher has no unpaid payouts", http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_002", "Email already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_004", "Insufficient permissions", http.StatusForbidden)
}

// ---- System & Infrastructure (SYS) ----

func ErrRateLimitExceeded() *AppError {
	return New("SYS_002", "Too many requests", http.StatusTooManyRequests)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a PAY_001-style validation error.
func Validation(message string) *AppError {
	return New("PAY_001", message, http.StatusBadRequest)
}
