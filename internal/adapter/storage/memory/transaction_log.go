package memory

import (
	"context"
	"sync"

	"fx-payment-processor/internal/core/domain"
)

// TransactionLog keeps per-user append-only transaction histories in
// process memory and owns the process-wide id counter. Ids are globally
// unique across users; assignment order under the log's lock is the
// authoritative creation order.
type TransactionLog struct {
	mu      sync.RWMutex
	seq     uint64
	entries map[string][]domain.Transaction
}

// NewTransactionLog creates an empty log. The id counter starts at
// zero, so the first appended transaction gets tx_000001.
func NewTransactionLog() *TransactionLog {
	return &TransactionLog{entries: make(map[string][]domain.Transaction)}
}

// Append assigns the next transaction id and records a copy of tx at
// the tail of the owning user's log.
func (l *TransactionLog) Append(_ context.Context, tx *domain.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	tx.ID = domain.FormatTransactionID(l.seq)
	l.entries[tx.UserID] = append(l.entries[tx.UserID], *tx)
	return nil
}

// ListByUser returns a copy of the user's log in creation order.
// Unknown users get an empty slice.
func (l *TransactionLog) ListByUser(_ context.Context, userID string) ([]domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.entries[userID]
	snapshot := make([]domain.Transaction, len(entries))
	copy(snapshot, entries)
	return snapshot, nil
}
