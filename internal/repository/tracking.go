package repository

import (
	"context"

	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"gorm.io/gorm"
)

// TrackingRepository is append-only, same discipline as the ledger.
type TrackingRepository interface {
	Append(ctx context.Context, history *model.TrackingHistory) error
	FindByOrderID(orderID int64) ([]model.TrackingHistory, error)
}

type tracking struct {
	db *gorm.DB
}

func NewTrackingRepository(db *gorm.DB) TrackingRepository {
	return &tracking{db: db}
}

func (r *tracking) Append(ctx context.Context, history *model.TrackingHistory) error {
	db := GetTx(ctx, r.db)
	return db.Create(history).Error
}

func (r *tracking) FindByOrderID(orderID int64) ([]model.TrackingHistory, error) {
	var histories []model.TrackingHistory

	err := r.db.Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&histories).Error
	if err != nil {
		return nil, err
	}

	return histories, nil
}
