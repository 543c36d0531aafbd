package mocks

import (
	"context"

	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/stretchr/testify/mock"
)

type BidRepository struct {
	mock.Mock
}

func (m *BidRepository) Create(ctx context.Context, bid *model.Bid) error {
	args := m.Called(ctx, bid)
	return args.Error(0)
}

func (m *BidRepository) FindActiveByAuction(ctx context.Context, auctionID int64) ([]model.Bid, error) {
	args := m.Called(ctx, auctionID)
	return args.Get(0).([]model.Bid), args.Error(1)
}

func (m *BidRepository) FindTopActive(ctx context.Context, auctionID int64) (*model.Bid, error) {
	args := m.Called(ctx, auctionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bid), args.Error(1)
}

func (m *BidRepository) Deactivate(ctx context.Context, bidID int64) error {
	args := m.Called(ctx, bidID)
	return args.Error(0)
}
