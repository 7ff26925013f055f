package domain

import "github.com/shopspring/decimal"

// CurrencyPrecision is the number of fractional digits stored for every
// supported currency. USD, MXN and their peers all settle at 2.
const CurrencyPrecision = 2

// RoundAmount applies the ledger rounding policy: half-up at two
// decimals. It must run after every computation that can produce more
// than two fractional digits (conversion products, reconciliation sums).
// decimal.Round ties away from zero, which matches half-up for the
// positive amounts the ledger stores.
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CurrencyPrecision)
}
