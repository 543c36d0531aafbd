package mocks

import (
	"context"

	"github.com/joonggo/market-services/auctiongateway/pkg/courier"
	"github.com/stretchr/testify/mock"
)

type CourierProvider struct {
	mock.Mock
}

func (m *CourierProvider) Track(ctx context.Context, courierCode string, trackingNumber string) (courier.Response, error) {
	args := m.Called(ctx, courierCode, trackingNumber)
	return args.Get(0).(courier.Response), args.Error(1)
}
