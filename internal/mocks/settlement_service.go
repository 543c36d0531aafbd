package mocks

import (
	"context"

	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/joonggo/market-services/auctiongateway/internal/service"
	"github.com/stretchr/testify/mock"
)

type SettlementService struct {
	mock.Mock
}

func (m *SettlementService) RegisterDeliveryAndPay(ctx context.Context, cmd service.RegisterDeliveryCommand) (service.OrderResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.OrderResult), args.Error(1)
}

func (m *SettlementService) RegisterInvoice(ctx context.Context, cmd service.RegisterInvoiceCommand) (service.OrderResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.OrderResult), args.Error(1)
}

func (m *SettlementService) AdvanceDelivery(ctx context.Context, auctionID int64, next model.OrderStatus) (service.OrderResult, error) {
	args := m.Called(ctx, auctionID, next)
	return args.Get(0).(service.OrderResult), args.Error(1)
}

func (m *SettlementService) ConfirmReceipt(ctx context.Context, cmd service.ConfirmReceiptCommand) (service.OrderResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.OrderResult), args.Error(1)
}

func (m *SettlementService) PayoutToSeller(ctx context.Context, cmd service.PayoutCommand) (service.OrderResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.OrderResult), args.Error(1)
}
