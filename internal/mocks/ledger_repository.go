package mocks

import (
	"context"

	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/stretchr/testify/mock"
)

type LedgerRepository struct {
	mock.Mock
}

func (m *LedgerRepository) Append(ctx context.Context, entry *model.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *LedgerRepository) FindByAccountID(accountID string, limit, offset int) ([]model.LedgerEntry, error) {
	args := m.Called(accountID, limit, offset)
	return args.Get(0).([]model.LedgerEntry), args.Error(1)
}
