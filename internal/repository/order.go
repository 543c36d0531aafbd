package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOrderNotFound = errors.New("ORDER_NOT_FOUND")
var ErrOrderExists = errors.New("ORDER_EXISTS")

type OrderRepository interface {
	// Create fails with ErrOrderExists when an order for the same auction
	// already exists; the unique index on auction_id backs the
	// at-most-one-settlement guarantee.
	Create(ctx context.Context, order *model.Order) error
	FindByAuctionID(auctionID int64) (*model.Order, error)
	FindByAuctionIDForUpdate(ctx context.Context, auctionID int64) (*model.Order, error)
	Update(ctx context.Context, order *model.Order) error
	FindInDelivery(limit int) ([]model.Order, error)
}

type order struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &order{db: db}
}

func (r *order) Create(ctx context.Context, o *model.Order) error {
	db := GetTx(ctx, r.db)
	err := db.Create(o).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrOrderExists
	}

	return err
}

func (r *order) FindByAuctionID(auctionID int64) (*model.Order, error) {
	var o model.Order

	err := r.db.Where("auction_id = ?", auctionID).First(&o).Error
	if err == nil {
		return &o, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}

	return nil, err
}

func (r *order) FindByAuctionIDForUpdate(ctx context.Context, auctionID int64) (*model.Order, error) {
	db := GetTx(ctx, r.db)

	var o model.Order
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("auction_id = ?", auctionID).
		First(&o).Error
	if err == nil {
		return &o, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}

	return nil, err
}

func (r *order) Update(ctx context.Context, o *model.Order) error {
	db := GetTx(ctx, r.db)
	return db.Save(o).Error
}

func (r *order) FindInDelivery(limit int) ([]model.Order, error) {
	var orders []model.Order

	err := r.db.Where("status IN (?, ?) AND tracking_number <> ''",
		model.OrderStatusDeliveryStart,
		model.OrderStatusDeliveryOngoing).
		Order("updated_at ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}
