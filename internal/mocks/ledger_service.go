package mocks

import (
	"context"

	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/stretchr/testify/mock"
)

type LedgerService struct {
	mock.Mock
}

func (m *LedgerService) Reserve(ctx context.Context, accountID string, amount int64, entryType model.EntryType, description string) (model.LedgerEntry, error) {
	args := m.Called(ctx, accountID, amount, entryType, description)
	return args.Get(0).(model.LedgerEntry), args.Error(1)
}

func (m *LedgerService) Release(ctx context.Context, accountID string, amount int64, description string) (model.LedgerEntry, error) {
	args := m.Called(ctx, accountID, amount, description)
	return args.Get(0).(model.LedgerEntry), args.Error(1)
}

func (m *LedgerService) Debit(ctx context.Context, accountID string, amount int64, entryType model.EntryType, description string) (model.LedgerEntry, error) {
	args := m.Called(ctx, accountID, amount, entryType, description)
	return args.Get(0).(model.LedgerEntry), args.Error(1)
}

func (m *LedgerService) Credit(ctx context.Context, accountID string, amount int64, entryType model.EntryType, description string) (model.LedgerEntry, error) {
	args := m.Called(ctx, accountID, amount, entryType, description)
	return args.Get(0).(model.LedgerEntry), args.Error(1)
}
