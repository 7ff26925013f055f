package service

import (
	"context"
	"fmt"
	"time"

	"fx-payment-processor/internal/core/domain"
	"fx-payment-processor/internal/core/ports"
	"fx-payment-processor/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements ports.LedgerService. All wallet state,
// the rate table and the transaction logs are owned exclusively by the
// injected stores; nothing else reads or mutates them. Mutating
// operations run under the owning user's lock so the balance check,
// the debit/credit and the log append commit as one unit.
type LedgerServiceImpl struct {
	wallets ports.WalletStore
	txLog   ports.TransactionLog
	rates   ports.RateStore
	locker  ports.UserLocker
	log     zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	wallets ports.WalletStore,
	txLog ports.TransactionLog,
	rates ports.RateStore,
	locker ports.UserLocker,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		wallets: wallets,
		txLog:   txLog,
		rates:   rates,
		locker:  locker,
		log:     log,
	}
}

// Fund credits amount to the user's balance in the given currency,
// materializing the wallet on first touch, and appends a fund entry to
// the user's history. The recorded amount is the raw input, not the
// rounded stored balance.
func (s *LedgerServiceImpl) Fund(ctx context.Context, req ports.FundRequest) (*ports.FundResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	var result *ports.FundResult
	err := s.locker.WithUser(req.UserID, func() error {
		current, err := s.wallets.Balance(ctx, req.UserID, req.Currency)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("read balance: %w", err))
		}

		if err := s.wallets.SetBalance(ctx, req.UserID, req.Currency, current.Add(req.Amount)); err != nil {
			return apperror.InternalError(fmt.Errorf("credit balance: %w", err))
		}

		txn := &domain.Transaction{
			UserID:      req.UserID,
			Type:        domain.TransactionTypeFund,
			Currency:    req.Currency,
			Amount:      req.Amount,
			Timestamp:   time.Now().UTC(),
			Description: fmt.Sprintf("Funded %s %s", req.Amount.String(), req.Currency),
		}
		if err := s.txLog.Append(ctx, txn); err != nil {
			return apperror.InternalError(fmt.Errorf("append transaction: %w", err))
		}

		newBalance, err := s.wallets.Balance(ctx, req.UserID, req.Currency)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("read new balance: %w", err))
		}
		result = &ports.FundResult{NewBalance: newBalance}

		s.log.Info().
			Str("tx_id", txn.ID).
			Str("user_id", req.UserID).
			Str("currency", req.Currency).
			Str("amount", req.Amount.String()).
			Msg("wallet funded")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Withdraw debits amount from the user's balance. The check against the
// stored balance and the debit itself happen under the user's lock, so
// two concurrent withdrawals cannot both pass on a stale balance.
func (s *LedgerServiceImpl) Withdraw(ctx context.Context, req ports.WithdrawRequest) (*ports.WithdrawResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	var result *ports.WithdrawResult
	err := s.locker.WithUser(req.UserID, func() error {
		current, err := s.wallets.Balance(ctx, req.UserID, req.Currency)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("read balance: %w", err))
		}
		if current.LessThan(req.Amount) {
			return apperror.ErrInsufficientBalance(current, req.Currency)
		}

		if err := s.wallets.SetBalance(ctx, req.UserID, req.Currency, current.Sub(req.Amount)); err != nil {
			return apperror.InternalError(fmt.Errorf("debit balance: %w", err))
		}

		txn := &domain.Transaction{
			UserID:      req.UserID,
			Type:        domain.TransactionTypeWithdraw,
			Currency:    req.Currency,
			Amount:      req.Amount,
			Timestamp:   time.Now().UTC(),
			Description: fmt.Sprintf("Withdrew %s %s", req.Amount.String(), req.Currency),
		}
		if err := s.txLog.Append(ctx, txn); err != nil {
			return apperror.InternalError(fmt.Errorf("append transaction: %w", err))
		}

		newBalance, err := s.wallets.Balance(ctx, req.UserID, req.Currency)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("read new balance: %w", err))
		}
		result = &ports.WithdrawResult{NewBalance: newBalance}

		s.log.Info().
			Str("tx_id", txn.ID).
			Str("user_id", req.UserID).
			Str("currency", req.Currency).
			Str("amount", req.Amount.String()).
			Msg("funds withdrawn")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Convert debits the requested amount from the source currency and
// credits round(amount * rate) to the target currency, recording one
// convert entry carrying the rate actually applied. Check order:
// amount validity, same-currency, rate availability, balance
// sufficiency. Nothing is mutated until every check has passed.
func (s *LedgerServiceImpl) Convert(ctx context.Context, req ports.ConvertRequest) (*ports.ConvertResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.FromCurrency == req.ToCurrency {
		return nil, apperror.ErrSameCurrency()
	}

	pair := domain.RatePair{From: req.FromCurrency, To: req.ToCurrency}
	rate, ok, err := s.rates.Rate(ctx, pair)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("rate lookup: %w", err))
	}
	if !ok {
		return nil, apperror.ErrRateUnavailable(req.FromCurrency, req.ToCurrency)
	}

	var result *ports.ConvertResult
	err = s.locker.WithUser(req.UserID, func() error {
		fromCurrent, err := s.wallets.Balance(ctx, req.UserID, req.FromCurrency)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("read source balance: %w", err))
		}
		// Sufficiency is checked with the unrounded requested amount
		// against the stored (already rounded) balance.
		if fromCurrent.LessThan(req.Amount) {
			return apperror.ErrInsufficientBalance(fromCurrent, req.FromCurrency)
		}

		converted := domain.RoundAmount(req.Amount.Mul(rate))

		if err := s.wallets.SetBalance(ctx, req.UserID, req.FromCurrency, fromCurrent.Sub(req.Amount)); err != nil {
			return apperror.InternalError(fmt.Errorf("debit source: %w", err))
		}

		toCurrent, err := s.wallets.Balance(ctx, req.UserID, req.ToCurrency)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("read target balance: %w", err))
		}
		if err := s.wallets.SetBalance(ctx, req.UserID, req.ToCurrency, toCurrent.Add(converted)); err != nil {
			return apperror.InternalError(fmt.Errorf("credit target: %w", err))
		}

		appliedRate := rate
		txn := &domain.Transaction{
			UserID:       req.UserID,
			Type:         domain.TransactionTypeConvert,
			Currency:     req.FromCurrency,
			Amount:       req.Amount,
			Timestamp:    time.Now().UTC(),
			Description:  fmt.Sprintf("Converted %s %s to %s %s", req.Amount.String(), req.FromCurrency, converted.String(), req.ToCurrency),
			FromCurrency: req.FromCurrency,
			ToCurrency:   req.ToCurrency,
			ExchangeRate: &appliedRate,
		}
		if err := s.txLog.Append(ctx, txn); err != nil {
			return apperror.InternalError(fmt.Errorf("append transaction: %w", err))
		}

		fromBalance, err := s.wallets.Balance(ctx, req.UserID, req.FromCurrency)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("read new source balance: %w", err))
		}
		toBalance, err := s.wallets.Balance(ctx, req.UserID, req.ToCurrency)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("read new target balance: %w", err))
		}
		result = &ports.ConvertResult{
			ConvertedAmount: converted,
			ExchangeRate:    rate,
			FromBalance:     fromBalance,
			ToBalance:       toBalance,
		}

		s.log.Info().
			Str("tx_id", txn.ID).
			Str("user_id", req.UserID).
			Str("from", req.FromCurrency).
			Str("to", req.ToCurrency).
			Str("amount", req.Amount.String()).
			Str("rate", rate.String()).
			Msg("currency converted")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetBalances returns a snapshot of the user's current nonzero
// balances. Unknown users get an empty map, never an error.
func (s *LedgerServiceImpl) GetBalances(ctx context.Context, userID string) (map[string]decimal.Decimal, error) {
	balances, err := s.wallets.Balances(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("read balances: %w", err))
	}
	return balances, nil
}

// GetTransactions returns the user's history in creation order.
func (s *LedgerServiceImpl) GetTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	txs, err := s.txLog.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("read transactions: %w", err))
	}
	return txs, nil
}

// Reconcile replays the user's full transaction history from zero and
// compares the outcome against the live balances. Conversions replay
// with the rate stored on the transaction, not the live table. The
// operation is a pure audit read; it mutates nothing. It runs under the
// user's lock so the history and the balances form one consistent
// snapshot.
func (s *LedgerServiceImpl) Reconcile(ctx context.Context, userID string) (*ports.ReconcileResult, error) {
	var result *ports.ReconcileResult
	err := s.locker.WithUser(userID, func() error {
		txs, err := s.txLog.ListByUser(ctx, userID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("read transactions: %w", err))
		}

		replayed := make(map[string]decimal.Decimal)
		get := func(currency string) decimal.Decimal {
			if v, ok := replayed[currency]; ok {
				return v
			}
			return decimal.Zero
		}

		for i := range txs {
			tx := &txs[i]
			switch tx.Type {
			case domain.TransactionTypeFund:
				replayed[tx.Currency] = get(tx.Currency).Add(tx.Amount)
			case domain.TransactionTypeWithdraw:
				replayed[tx.Currency] = get(tx.Currency).Sub(tx.Amount)
			case domain.TransactionTypeConvert:
				if tx.ExchangeRate == nil {
					// A convert entry without its rate is corrupt
					// history, a defect, not a domain error.
					return apperror.InternalError(fmt.Errorf("transaction %s has no exchange rate", tx.ID))
				}
				replayed[tx.FromCurrency] = get(tx.FromCurrency).Sub(tx.Amount)
				converted := domain.RoundAmount(tx.Amount.Mul(*tx.ExchangeRate))
				replayed[tx.ToCurrency] = get(tx.ToCurrency).Add(converted)
			default:
				return apperror.InternalError(fmt.Errorf("transaction %s has unknown type %q", tx.ID, tx.Type))
			}
		}

		calculated := make(map[string]decimal.Decimal, len(replayed))
		for currency, total := range replayed {
			rounded := domain.RoundAmount(total)
			if rounded.IsPositive() {
				calculated[currency] = rounded
				continue
			}
			if rounded.IsNegative() {
				// A correct ledger can never replay to a negative
				// total; its appearance means the history and the
				// engine disagree somewhere.
				s.log.Warn().
					Str("user_id", userID).
					Str("currency", currency).
					Str("total", rounded.String()).
					Msg("reconciliation replayed to a negative total")
			}
			// Zero and negative totals are dropped, mirroring the
			// storage rule that zero balances are never stored.
		}

		current, err := s.wallets.Balances(ctx, userID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("read balances: %w", err))
		}

		result = &ports.ReconcileResult{
			CurrentBalances:    current,
			CalculatedBalances: calculated,
			Balanced:           balancesEqual(current, calculated),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListRates returns the rate table keyed by "FROM_TO".
func (s *LedgerServiceImpl) ListRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	rates, err := s.rates.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list rates: %w", err))
	}
	out := make(map[string]decimal.Decimal, len(rates))
	for pair, rate := range rates {
		out[pair.Key()] = rate
	}
	return out, nil
}

// UpdateRates merges entries into the rate table: existing pairs are
// overwritten, new pairs added. No symmetry or positivity validation.
func (s *LedgerServiceImpl) UpdateRates(ctx context.Context, rates map[domain.RatePair]decimal.Decimal) error {
	if err := s.rates.Merge(ctx, rates); err != nil {
		return apperror.InternalError(fmt.Errorf("merge rates: %w", err))
	}
	s.log.Info().Int("pairs", len(rates)).Msg("exchange rates updated")
	return nil
}

// balancesEqual reports whether two balance mappings cover the same
// currency set with numerically equal amounts.
func balancesEqual(a, b map[string]decimal.Decimal) bool {
	if len(a) != len(b) {
		return false
	}
	for currency, amount := range a {
		other, ok := b[currency]
		if !ok || !amount.Equal(other) {
			return false
		}
	}
	return true
}
