package mocks

import (
	"context"

	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/stretchr/testify/mock"
)

type AccountRepository struct {
	mock.Mock
}

func (m *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *AccountRepository) FindByID(id string) (model.Account, error) {
	args := m.Called(id)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountRepository) FindByIDForUpdate(ctx context.Context, id string) (model.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *AccountRepository) UpdateBalance(ctx context.Context, id string, newBalance int64) error {
	args := m.Called(ctx, id, newBalance)
	return args.Error(0)
}
