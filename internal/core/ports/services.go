package ports

import (
	"context"

	"fx-payment-processor/internal/core/domain"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=services.go -destination=mocks/ledger_service_mock.go -package=mocks

// LedgerService is the wallet ledger engine. Every mutating operation
// is all-or-nothing: it either commits its balance change together with
// its transaction record, or fails before touching any state.
type LedgerService interface {
	Fund(ctx context.Context, req FundRequest) (*FundResult, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*WithdrawResult, error)
	Convert(ctx context.Context, req ConvertRequest) (*ConvertResult, error)
	GetBalances(ctx context.Context, userID string) (map[string]decimal.Decimal, error)
	GetTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	Reconcile(ctx context.Context, userID string) (*ReconcileResult, error)
	ListRates(ctx context.Context) (map[string]decimal.Decimal, error)
	UpdateRates(ctx context.Context, rates map[domain.RatePair]decimal.Decimal) error
}

// FundRequest holds validated input for funding a wallet.
type FundRequest struct {
	UserID   string
	Currency string
	Amount   decimal.Decimal
}

// FundResult is the outcome of a fund operation.
type FundResult struct {
	NewBalance decimal.Decimal
}

// WithdrawRequest holds validated input for a withdrawal.
type WithdrawRequest struct {
	UserID   string
	Currency string
	Amount   decimal.Decimal
}

// WithdrawResult is the outcome of a withdrawal.
type WithdrawResult struct {
	NewBalance decimal.Decimal
}

// ConvertRequest holds validated input for a currency conversion.
type ConvertRequest struct {
	UserID       string
	FromCurrency string
	ToCurrency   string
	Amount       decimal.Decimal
}

// ConvertResult is the outcome of a conversion: the credited amount,
// the rate actually applied, and both resulting stored balances.
type ConvertResult struct {
	ConvertedAmount decimal.Decimal
	ExchangeRate    decimal.Decimal
	FromBalance     decimal.Decimal
	ToBalance       decimal.Decimal
}

// ReconcileResult compares live balances against a replay of the user's
// transaction history. Balanced is true iff the two mappings are equal
// over the same currency set.
type ReconcileResult struct {
	CurrentBalances    map[string]decimal.Decimal
	CalculatedBalances map[string]decimal.Decimal
	Balanced           bool
}
