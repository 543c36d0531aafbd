package mocks

import (
	"context"

	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/stretchr/testify/mock"
)

type TrackingRepository struct {
	mock.Mock
}

func (m *TrackingRepository) Append(ctx context.Context, history *model.TrackingHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *TrackingRepository) FindByOrderID(orderID int64) ([]model.TrackingHistory, error) {
	args := m.Called(orderID)
	return args.Get(0).([]model.TrackingHistory), args.Error(1)
}
