package repository

import (
	"context"
	"errors"
	"time"

	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"gorm.io/gorm"
)

var ErrBidNotFound = errors.New("BID_NOT_FOUND")

type BidRepository interface {
	Create(ctx context.Context, bid *model.Bid) error
	FindActiveByAuction(ctx context.Context, auctionID int64) ([]model.Bid, error)
	FindTopActive(ctx context.Context, auctionID int64) (*model.Bid, error)
	Deactivate(ctx context.Context, bidID int64) error
}

type bid struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) BidRepository {
	return &bid{db: db}
}

func (r *bid) Create(ctx context.Context, b *model.Bid) error {
	db := GetTx(ctx, r.db)
	return db.Create(b).Error
}

func (r *bid) FindActiveByAuction(ctx context.Context, auctionID int64) ([]model.Bid, error) {
	db := GetTx(ctx, r.db)

	var bids []model.Bid
	err := db.Where("auction_id = ? AND active = ?", auctionID, true).
		Order("price DESC").
		Find(&bids).Error
	if err != nil {
		return nil, err
	}

	return bids, nil
}

func (r *bid) FindTopActive(ctx context.Context, auctionID int64) (*model.Bid, error) {
	db := GetTx(ctx, r.db)

	var b model.Bid
	err := db.Where("auction_id = ? AND active = ?", auctionID, true).
		Order("price DESC").
		First(&b).Error
	if err == nil {
		return &b, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBidNotFound
	}

	return nil, err
}

func (r *bid) Deactivate(ctx context.Context, bidID int64) error {
	db := GetTx(ctx, r.db)
	return db.Model(&model.Bid{}).
		Where("id = ?", bidID).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now(),
		}).Error
}
