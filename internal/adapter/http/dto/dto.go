package dto

import "github.com/shopspring/decimal"

// FundRequest is the request body for funding a wallet.
type FundRequest struct {
	Currency string          `json:"currency" binding:"required,currency_code"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// WithdrawRequest is the request body for withdrawing funds.
type WithdrawRequest struct {
	Currency string          `json:"currency" binding:"required,currency_code"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// ConvertRequest is the request body for a currency conversion.
type ConvertRequest struct {
	FromCurrency string          `json:"from_currency" binding:"required,currency_code"`
	ToCurrency   string          `json:"to_currency" binding:"required,currency_code"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// BalanceResponse is the response body for fund and withdraw results.
type BalanceResponse struct {
	Success    bool            `json:"success"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// ConvertResponse is the response body for a conversion result.
type ConvertResponse struct {
	Success         bool            `json:"success"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	FromBalance     decimal.Decimal `json:"from_balance"`
	ToBalance       decimal.Decimal `json:"to_balance"`
}

// BalancesResponse wraps a wallet's current nonzero balances.
type BalancesResponse struct {
	UserID   string                     `json:"user_id"`
	Balances map[string]decimal.Decimal `json:"balances"`
}

// TransactionResponse is the external shape of one ledger entry. The
// conversion-only fields are omitted for fund and withdraw entries.
type TransactionResponse struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	Type         string           `json:"type"`
	Currency     string           `json:"currency"`
	Amount       decimal.Decimal  `json:"amount"`
	Timestamp    string           `json:"timestamp"`
	Description  string           `json:"description"`
	FromCurrency string           `json:"from_currency,omitempty"`
	ToCurrency   string           `json:"to_currency,omitempty"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
}

// TransactionListResponse wraps a user's transaction history.
type TransactionListResponse struct {
	UserID       string                `json:"user_id"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ReconcileResponse is the response body for a reconciliation audit.
type ReconcileResponse struct {
	CurrentBalances    map[string]decimal.Decimal `json:"current_balances"`
	CalculatedBalances map[string]decimal.Decimal `json:"calculated_balances"`
	Balanced           bool                       `json:"balanced"`
}

// RatesResponse wraps the rate table keyed by "FROM_TO".
type RatesResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}
