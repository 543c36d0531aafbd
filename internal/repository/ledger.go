package repository

import (
	"context"

	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"gorm.io/gorm"
)

// LedgerRepository is append-only. There is deliberately no update or
// delete operation.
type LedgerRepository interface {
	Append(ctx context.Context, entry *model.LedgerEntry) error
	FindByAccountID(accountID string, limit, offset int) ([]model.LedgerEntry, error)
}

type ledger struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledger{db: db}
}

func (r *ledger) Append(ctx context.Context, entry *model.LedgerEntry) error {
	db := GetTx(ctx, r.db)
	return db.Create(entry).Error
}

func (r *ledger) FindByAccountID(accountID string, limit, offset int) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry

	err := r.db.Where("account_id = ?", accountID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}
