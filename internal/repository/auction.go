package repository

import (
	"context"
	"errors"
	"time"

	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAuctionNotFound = errors.New("AUCTION_NOT_FOUND")
var ErrNoRowsAffected = errors.New("NO_ROWS_AFFECTED")

type AuctionRepository interface {
	Create(ctx context.Context, item *model.AuctionItem) error
	FindByID(id int64) (*model.AuctionItem, error)
	// FindByIDForUpdate locks the auction row for the rest of the ambient
	// transaction. Bid placement, buy-now and closing all read
	// current_price/status under this lock.
	FindByIDForUpdate(ctx context.Context, id int64) (*model.AuctionItem, error)
	Update(ctx context.Context, item *model.AuctionItem) error
	FindExpired(now time.Time, staleThreshold time.Time, limit int) ([]model.AuctionItem, error)
	// ClaimForClosing conditionally moves the item into CLOSING. It
	// succeeds only when the item is still ONGOING, or when a previous
	// claim went stale without finishing. ErrNoRowsAffected means another
	// worker owns the item.
	ClaimForClosing(ctx context.Context, id int64, staleThreshold time.Time) error
}

type auction struct {
	db *gorm.DB
}

func NewAuctionRepository(db *gorm.DB) AuctionRepository {
	return &auction{db: db}
}

func (r *auction) Create(ctx context.Context, item *model.AuctionItem) error {
	db := GetTx(ctx, r.db)
	return db.Create(item).Error
}

func (r *auction) FindByID(id int64) (*model.AuctionItem, error) {
	var item model.AuctionItem

	err := r.db.Where("id = ?", id).First(&item).Error
	if err == nil {
		return &item, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAuctionNotFound
	}

	return nil, err
}

func (r *auction) FindByIDForUpdate(ctx context.Context, id int64) (*model.AuctionItem, error) {
	db := GetTx(ctx, r.db)

	var item model.AuctionItem
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&item).Error
	if err == nil {
		return &item, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAuctionNotFound
	}

	return nil, err
}

func (r *auction) Update(ctx context.Context, item *model.AuctionItem) error {
	db := GetTx(ctx, r.db)
	return db.Save(item).Error
}

func (r *auction) FindExpired(now time.Time, staleThreshold time.Time, limit int) ([]model.AuctionItem, error) {
	var items []model.AuctionItem

	err := r.db.Where("auction_end <= ? AND (status = ? OR (status = ? AND updated_at < ?))",
		now,
		model.AuctionStatusOngoing,
		model.AuctionStatusClosing,
		staleThreshold).
		Order("auction_end ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *auction) ClaimForClosing(ctx context.Context, id int64, staleThreshold time.Time) error {
	db := GetTx(ctx, r.db)

	result := db.Model(&model.AuctionItem{}).
		Where("id = ? AND (status = ? OR (status = ? AND updated_at < ?))",
			id,
			model.AuctionStatusOngoing,
			model.AuctionStatusClosing,
			staleThreshold).
		Updates(map[string]interface{}{
			"status":     model.AuctionStatusClosing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}
