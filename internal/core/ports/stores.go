package ports

import (
	"context"

	"fx-payment-processor/internal/core/domain"

	"github.com/shopspring/decimal"
)

// WalletStore holds per-user currency balances. Wallets materialize on
// first write; there is no explicit create step. A currency entry
// exists only while its balance is strictly positive — SetBalance
// rounds to storage precision and removes entries that land on zero.
type WalletStore interface {
	// Balance returns the stored balance, or zero when the user or
	// currency entry is absent.
	Balance(ctx context.Context, userID, currency string) (decimal.Decimal, error)
	// SetBalance stores the rounded amount, deleting the entry when the
	// rounded value is zero.
	SetBalance(ctx context.Context, userID, currency string, amount decimal.Decimal) error
	// Balances returns a snapshot copy of the user's nonzero balances.
	// Unknown users yield an empty map, not an error.
	Balances(ctx context.Context, userID string) (map[string]decimal.Decimal, error)
}

// TransactionLog is the append-only per-user transaction history.
type TransactionLog interface {
	// Append assigns the next globally monotonic transaction id to tx
	// and records it at the tail of the owning user's log. Entries are
	// never mutated or deleted afterwards.
	Append(ctx context.Context, tx *domain.Transaction) error
	// ListByUser returns a snapshot copy of the user's log in creation
	// order. Unknown users yield an empty slice.
	ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// RateStore owns the exchange-rate table.
type RateStore interface {
	// Rate returns the rate for an ordered pair and whether it exists.
	Rate(ctx context.Context, pair domain.RatePair) (decimal.Decimal, bool, error)
	// List returns a snapshot copy of the whole table.
	List(ctx context.Context) (map[domain.RatePair]decimal.Decimal, error)
	// Merge overwrites existing pairs and adds new ones. It performs no
	// symmetry or positivity validation.
	Merge(ctx context.Context, rates map[domain.RatePair]decimal.Decimal) error
}

// UserLocker serializes ledger operations per user. Fund, withdraw and
// convert must run their balance check, mutation and log append as one
// unit under the user's lock, or two concurrent withdrawals can both
// pass a sufficiency check against a stale balance. Operations for
// different users proceed concurrently.
type UserLocker interface {
	WithUser(userID string, fn func() error) error
}
