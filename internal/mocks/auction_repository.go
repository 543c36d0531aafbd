package mocks

import (
	"context"
	"time"

	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/stretchr/testify/mock"
)

type AuctionRepository struct {
	mock.Mock
}

func (m *AuctionRepository) Create(ctx context.Context, item *model.AuctionItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *AuctionRepository) FindByID(id int64) (*model.AuctionItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuctionItem), args.Error(1)
}

func (m *AuctionRepository) FindByIDForUpdate(ctx context.Context, id int64) (*model.AuctionItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuctionItem), args.Error(1)
}

func (m *AuctionRepository) Update(ctx context.Context, item *model.AuctionItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *AuctionRepository) FindExpired(now time.Time, staleThreshold time.Time, limit int) ([]model.AuctionItem, error) {
	args := m.Called(now, staleThreshold, limit)
	return args.Get(0).([]model.AuctionItem), args.Error(1)
}

func (m *AuctionRepository) ClaimForClosing(ctx context.Context, id int64, staleThreshold time.Time) error {
	args := m.Called(ctx, id, staleThreshold)
	return args.Error(0)
}
