package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
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
			appErr:   New("WAL_001", "Amount must be positive", http.StatusBadRequest),
			expected: "[WAL_001] Amount must be positive",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, fmt.Errorf("boom")),
			expected: "[SYS_001] Internal server error: boom",
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
	appErr := New("WAL_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidAmount", ErrInvalidAmount(), "WAL_001", 400},
		{"SameCurrency", ErrSameCurrency(), "WAL_002", 400},
		{"RateUnavailable", ErrRateUnavailable("USD", "JPY"), "WAL_003", 400},
		{"InsufficientBalance", ErrInsufficientBalance(decimal.NewFromInt(900), "USD"), "WAL_004", 402},
		{"Validation", Validation("currency must be a 3-letter code"), "WAL_000", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestInsufficientBalanceMessage(t *testing.T) {
	available, _ := decimal.NewFromString("900.50")
	err := ErrInsufficientBalance(available, "USD")
	assert.Equal(t, "Insufficient balance. Available: 900.5 USD", err.Message)
}

func TestRateUnavailableMessage(t *testing.T) {
	err := ErrRateUnavailable("MXN", "EUR")
	assert.Contains(t, err.Message, "MXN to EUR")
}

func TestAdminErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidAdminKey", ErrInvalidAdminKey(), "SEC_001", 401},
		{"AdminDisabled", ErrAdminDisabled(), "SEC_002", 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("corrupt rate table")
	sysErr := InternalError(inner)
	assert.Equal(t, "SYS_001", sysErr.Code)
	assert.Equal(t, 500, sysErr.HTTPStatus)
	assert.True(t, errors.Is(sysErr, inner))
}

func TestRateLimitError(t *testing.T) {
	err := ErrRateLimitExceeded()
	assert.Equal(t, "RATE_001", err.Code)
	assert.Equal(t, 429, err.HTTPStatus)
}
