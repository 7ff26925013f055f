package apperror

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
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

// ---- Wallet Ledger Business Logic (WAL) ----

// ErrInvalidAmount rejects non-positive amounts. Every ledger operation
// requires a strictly positive amount.
func ErrInvalidAmount() *AppError {
	return New("WAL_001", "Amount must be positive", http.StatusBadRequest)
}

// ErrSameCurrency rejects conversions where source and target are equal.
func ErrSameCurrency() *AppError {
	return New("WAL_002", "Cannot convert to same currency", http.StatusBadRequest)
}

// ErrRateUnavailable rejects conversions with no rate table entry for
// the ordered (from, to) pair.
func ErrRateUnavailable(from, to string) *AppError {
	return New("WAL_003", fmt.Sprintf("Exchange rate not available for %s to %s", from, to), http.StatusBadRequest)
}

// ErrInsufficientBalance carries the available balance so the caller
// can see exactly what the wallet held at rejection time.
func ErrInsufficientBalance(available decimal.Decimal, currency string) *AppError {
	return New("WAL_004", fmt.Sprintf("Insufficient balance. Available: %s %s", available.String(), currency), http.StatusPaymentRequired)
}

// ---- Security & Admin (SEC) ----

func ErrInvalidAdminKey() *AppError {
	return New("SEC_001", "Invalid admin key", http.StatusUnauthorized)
}

func ErrAdminDisabled() *AppError {
	return New("SEC_002", "Admin API is disabled", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request-shape validation error.
func Validation(message string) *AppError {
	return New("WAL_000", message, http.StatusBadRequest)
}
