package memory

import (
	"context"
	"sync"

	"fx-payment-processor/internal/core/domain"

	"github.com/shopspring/decimal"
)

// RateStore holds the exchange-rate table. Entries are directional:
// seeding USD->MXN does not imply MXN->USD.
type RateStore struct {
	mu    sync.RWMutex
	rates map[domain.RatePair]decimal.Decimal
}

// NewRateStore creates a rate store pre-seeded with the given table.
// The seed map is copied, never aliased.
func NewRateStore(seed map[domain.RatePair]decimal.Decimal) *RateStore {
	rates := make(map[domain.RatePair]decimal.Decimal, len(seed))
	for pair, rate := range seed {
		rates[pair] = rate
	}
	return &RateStore{rates: rates}
}

// Rate returns the rate for an ordered pair and whether it exists.
func (s *RateStore) Rate(_ context.Context, pair domain.RatePair) (decimal.Decimal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rate, ok := s.rates[pair]
	return rate, ok, nil
}

// List returns a snapshot copy of the table.
func (s *RateStore) List(_ context.Context) (map[domain.RatePair]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[domain.RatePair]decimal.Decimal, len(s.rates))
	for pair, rate := range s.rates {
		snapshot[pair] = rate
	}
	return snapshot, nil
}

// Merge overwrites existing pairs and adds new ones. No symmetry or
// positivity validation is performed here.
func (s *RateStore) Merge(_ context.Context, rates map[domain.RatePair]decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for pair, rate := range rates {
		s.rates[pair] = rate
	}
	return nil
}
