package memory

import (
	"context"
	"sync"

	"fx-payment-processor/internal/core/domain"

	"github.com/shopspring/decimal"
)

// WalletStore keeps all wallet balances in process memory. State lives
// for the process lifetime only; a restart resets every wallet.
type WalletStore struct {
	mu      sync.RWMutex
	wallets map[string]map[string]decimal.Decimal
}

// NewWalletStore creates an empty wallet store.
func NewWalletStore() *WalletStore {
	return &WalletStore{wallets: make(map[string]map[string]decimal.Decimal)}
}

// Balance returns the stored balance for (userID, currency), or zero
// when either is absent. Absence and zero are indistinguishable on
// purpose: zero balances are never stored.
func (s *WalletStore) Balance(_ context.Context, userID, currency string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wallet, ok := s.wallets[userID]
	if !ok {
		return decimal.Zero, nil
	}
	balance, ok := wallet[currency]
	if !ok {
		return decimal.Zero, nil
	}
	return balance, nil
}

// SetBalance rounds amount to storage precision and stores it,
// materializing the wallet on first write. A value that rounds to zero
// removes the currency entry instead of storing a zero.
func (s *WalletStore) SetBalance(_ context.Context, userID, currency string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, ok := s.wallets[userID]
	if !ok {
		wallet = make(map[string]decimal.Decimal)
		s.wallets[userID] = wallet
	}

	rounded := domain.RoundAmount(amount)
	if rounded.IsZero() {
		delete(wallet, currency)
		return nil
	}
	wallet[currency] = rounded
	return nil
}

// Balances returns a snapshot copy of the user's balances, decoupled
// from live storage. Unknown users get an empty map.
func (s *WalletStore) Balances(_ context.Context, userID string) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wallet := s.wallets[userID]
	snapshot := make(map[string]decimal.Decimal, len(wallet))
	for currency, balance := range wallet {
		snapshot[currency] = balance
	}
	return snapshot, nil
}
