package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAccountNotFound = errors.New("ACCOUNT_NOT_FOUND")
var ErrAccountExists = errors.New("ACCOUNT_EXISTS")

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(id string) (model.Account, error)
	// FindByIDForUpdate locks the account row until the ambient
	// transaction commits. Every balance mutation goes through this lock,
	// which serializes mutations per account without blocking other
	// accounts.
	FindByIDForUpdate(ctx context.Context, id string) (model.Account, error)
	UpdateBalance(ctx context.Context, id string, newBalance int64) error
}

type account struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &account{db: db}
}

func (r *account) Create(ctx context.Context, acc *model.Account) error {
	db := GetTx(ctx, r.db)
	err := db.Create(acc).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrAccountExists
	}

	return err
}

func (r *account) FindByID(id string) (model.Account, error) {
	var acc model.Account
	err := r.db.Where("account_id = ?", id).First(&acc).Error
	if err == nil {
		return acc, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Account{}, ErrAccountNotFound
	}

	return model.Account{}, err
}

func (r *account) FindByIDForUpdate(ctx context.Context, id string) (model.Account, error) {
	db := GetTx(ctx, r.db)

	var acc model.Account
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ?", id).
		First(&acc).Error
	if err == nil {
		return acc, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Account{}, ErrAccountNotFound
	}

	return model.Account{}, err
}

func (r *account) UpdateBalance(ctx context.Context, id string, newBalance int64) error {
	db := GetTx(ctx, r.db)
	return db.Model(&model.Account{}).
		Where("account_id = ?", id).
		Update("balance", newBalance).Error
}
