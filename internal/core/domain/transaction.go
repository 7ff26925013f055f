package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeFund     TransactionType = "fund"
	TransactionTypeWithdraw TransactionType = "withdraw"
	TransactionTypeConvert  TransactionType = "convert"
)

// Transaction is an immutable entry in a user's ledger history. It is
// never mutated or deleted after creation. Amount is always the amount
// moved in the source currency exactly as the caller supplied it, never
// the rounded stored balance. FromCurrency, ToCurrency and ExchangeRate
// are set for conversions only; ExchangeRate is the rate actually
// applied at creation time, so history replays stay deterministic even
// after the live rate table changes.
type Transaction struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	Type         TransactionType  `json:"type"`
	Currency     string           `json:"currency"`
	Amount       decimal.Decimal  `json:"amount"`
	Timestamp    time.Time        `json:"timestamp"`
	Description  string           `json:"description"`
	FromCurrency string           `json:"from_currency,omitempty"`
	ToCurrency   string           `json:"to_currency,omitempty"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
}

// IsConversion reports whether this entry moved value between currencies.
func (t *Transaction) IsConversion() bool {
	return t.Type == TransactionTypeConvert
}

// FormatTransactionID renders a counter value as a fixed-width ledger
// transaction id, e.g. 7 -> "tx_000007". The counter is process-wide and
// strictly monotonic; it is the authoritative ordering of entries, not
// the wall-clock timestamp.
func FormatTransactionID(counter uint64) string {
	return fmt.Sprintf("tx_%06d", counter)
}
