package service

import (
	"context"
	"errors"
	"time"

	"github.com/joonggo/market-services/auctiongateway/internal/metrics"
	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/joonggo/market-services/auctiongateway/internal/repository"
	"go.uber.org/zap"
)

// LedgerService is the money-safety primitive. Every call locks the
// account row, mutates the balance and appends one immutable entry
// carrying the post-mutation balance snapshot. Calls join the caller's
// ambient transaction, so a bid that reserves points and a refund that
// releases them commit or roll back together.
type LedgerService interface {
	Reserve(ctx context.Context, accountID string, amount int64, entryType model.EntryType, description string) (model.LedgerEntry, error)
	Release(ctx context.Context, accountID string, amount int64, description string) (model.LedgerEntry, error)
	Debit(ctx context.Context, accountID string, amount int64, entryType model.EntryType, description string) (model.LedgerEntry, error)
	Credit(ctx context.Context, accountID string, amount int64, entryType model.EntryType, description string) (model.LedgerEntry, error)
}

type ledger struct {
	accountRepo repository.AccountRepository
	ledgerRepo  repository.LedgerRepository
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

func NewLedgerService(accountRepo repository.AccountRepository, ledgerRepo repository.LedgerRepository,
	logger *zap.Logger, metrics *metrics.Metrics) LedgerService {
	return &ledger{accountRepo: accountRepo, ledgerRepo: ledgerRepo, logger: logger, metrics: metrics}
}

func (l *ledger) Reserve(ctx context.Context, accountID string, amount int64, entryType model.EntryType, description string) (model.LedgerEntry, error) {
	if amount <= 0 {
		return model.LedgerEntry{}, ErrInvalidAmount
	}

	return l.apply(ctx, accountID, -amount, entryType, description)
}

func (l *ledger) Release(ctx context.Context, accountID string, amount int64, description string) (model.LedgerEntry, error) {
	if amount <= 0 {
		return model.LedgerEntry{}, ErrInvalidAmount
	}

	return l.apply(ctx, accountID, amount, model.EntryTypeBidRefund, description)
}

func (l *ledger) Debit(ctx context.Context, accountID string, amount int64, entryType model.EntryType, description string) (model.LedgerEntry, error) {
	if amount <= 0 {
		return model.LedgerEntry{}, ErrInvalidAmount
	}

	return l.apply(ctx, accountID, -amount, entryType, description)
}

func (l *ledger) Credit(ctx context.Context, accountID string, amount int64, entryType model.EntryType, description string) (model.LedgerEntry, error) {
	if amount <= 0 {
		return model.LedgerEntry{}, ErrInvalidAmount
	}

	return l.apply(ctx, accountID, amount, entryType, description)
}

// apply is only reached with a validated non-zero amount; the sign of
// delta carries the direction.
func (l *ledger) apply(ctx context.Context, accountID string, delta int64, entryType model.EntryType, description string) (model.LedgerEntry, error) {
	start := time.Now()

	acc, err := l.accountRepo.FindByIDForUpdate(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return model.LedgerEntry{}, err
		}

		l.logger.Error("Failed to lock account for ledger mutation",
			zap.String("accountID", accountID),
			zap.Error(err))
		return model.LedgerEntry{}, ErrDatabase
	}

	newBalance := acc.Balance + delta
	if newBalance < 0 {
		l.logger.Debug("Ledger mutation rejected for insufficient funds",
			zap.String("accountID", accountID),
			zap.Int64("balance", acc.Balance),
			zap.Int64("delta", delta))
		return model.LedgerEntry{}, ErrInsufficientFunds
	}

	if err := l.accountRepo.UpdateBalance(ctx, accountID, newBalance); err != nil {
		l.logger.Error("Failed to update account balance",
			zap.String("accountID", accountID),
			zap.Error(err))
		return model.LedgerEntry{}, ErrDatabase
	}

	entry := model.LedgerEntry{
		AccountID:   accountID,
		Amount:      delta,
		Balance:     newBalance,
		EntryType:   entryType,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := l.ledgerRepo.Append(ctx, &entry); err != nil {
		l.logger.Error("Failed to append ledger entry",
			zap.String("accountID", accountID),
			zap.String("entryType", string(entryType)),
			zap.Error(err))
		return model.LedgerEntry{}, ErrDatabase
	}

	if l.metrics != nil {
		l.metrics.RecordLedgerEntry(string(entryType))
		l.metrics.RecordDBQuery("update", "accounts", "success", time.Since(start))
	}

	l.logger.Debug("Ledger mutation applied",
		zap.String("accountID", accountID),
		zap.Int64("delta", delta),
		zap.Int64("balance", newBalance),
		zap.String("entryType", string(entryType)))

	return entry, nil
}
