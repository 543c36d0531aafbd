package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/joonggo/market-services/auctiongateway/internal/config"
	"github.com/joonggo/market-services/auctiongateway/internal/constants"
	"github.com/joonggo/market-services/auctiongateway/internal/mocks"
	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/joonggo/market-services/auctiongateway/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var feesCfg = config.Fees{ShippingFee: 3000, SafeTradeFeeBP: 350}

func pendingOrder() *model.Order {
	return &model.Order{
		ID:        9,
		AuctionID: 42,
		BuyerID:   "buyer-c",
		SellerID:  "seller-s",
		Status:    model.OrderStatusPending,
		Price:     1300,
	}
}

type settlementMocks struct {
	orderRepo    *mocks.OrderRepository
	auctionRepo  *mocks.AuctionRepository
	trackingRepo *mocks.TrackingRepository
	ledger       *mocks.LedgerService
	txm          *mocks.TxManager
	notifier     *mocks.Notifier
}

func newSettlement(t *testing.T) (service.SettlementService, *settlementMocks) {
	t.Helper()

	m := &settlementMocks{
		orderRepo:    &mocks.OrderRepository{},
		auctionRepo:  &mocks.AuctionRepository{},
		trackingRepo: &mocks.TrackingRepository{},
		ledger:       &mocks.LedgerService{},
		txm:          &mocks.TxManager{},
		notifier:     &mocks.Notifier{},
	}

	svc := service.NewSettlementService(m.orderRepo, m.auctionRepo, m.trackingRepo,
		m.ledger, m.txm, m.notifier, feesCfg, zap.NewNop(), nil)
	return svc, m
}

func (m *settlementMocks) expectMirror(status model.AuctionStatus) {
	item := &model.AuctionItem{ID: 42, SellerID: "seller-s", Status: model.AuctionStatusFinished}
	m.auctionRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(item, nil)
	m.auctionRepo.On("Update", mock.Anything, mock.MatchedBy(func(it *model.AuctionItem) bool {
		return it.Status == status
	})).Return(nil)
}

func TestSettlement_RegisterDeliveryAndPay(t *testing.T) {
	t.Run("Fees are debited and order moves to safe delivery", func(t *testing.T) {
		svc, m := newSettlement(t)

		m.txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		m.orderRepo.On("FindByAuctionIDForUpdate", mock.Anything, int64(42)).Return(pendingOrder(), nil)

		// 3000 shipping + 1300 * 350bp = 3045 total.
		m.ledger.On("Debit", mock.Anything, "buyer-c", int64(3045), model.EntryTypeSafePayment, mock.Anything).
			Return(model.LedgerEntry{}, nil)
		m.orderRepo.On("Update", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
			return o.Status == model.OrderStatusSafeDelivery &&
				o.ShippingFee == 3000 && o.SafeTradeFee == 45 &&
				o.ReceiverAddress == "12 Elm Street"
		})).Return(nil)
		m.expectMirror(model.AuctionStatusTradePending)
		m.trackingRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
		m.notifier.On("Notify", mock.MatchedBy(func(e service.NotificationEvent) bool {
			return e.EventType == service.EventPaymentDone && e.UserID == "seller-s"
		})).Return()

		result, err := svc.RegisterDeliveryAndPay(context.Background(), service.RegisterDeliveryCommand{
			AuctionID: 42,
			BuyerID:   "buyer-c",
			Delivery: service.DeliveryInfo{
				ReceiverName:    "C. Buyer",
				ReceiverPhone:   "010-0000-0000",
				ReceiverAddress: "12 Elm Street",
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, string(model.OrderStatusSafeDelivery), result.Status)
		assert.Equal(t, int64(45), result.SafeTradeFee)
		m.ledger.AssertExpectations(t)
		m.orderRepo.AssertExpectations(t)
		m.trackingRepo.AssertExpectations(t)
		m.notifier.AssertExpectations(t)
	})

	t.Run("Only the buyer may register delivery", func(t *testing.T) {
		svc, m := newSettlement(t)

		m.txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		m.orderRepo.On("FindByAuctionIDForUpdate", mock.Anything, int64(42)).Return(pendingOrder(), nil)

		_, err := svc.RegisterDeliveryAndPay(context.Background(), service.RegisterDeliveryCommand{
			AuctionID: 42,
			BuyerID:   "intruder",
			Delivery: service.DeliveryInfo{
				ReceiverName:    "X",
				ReceiverAddress: "nowhere",
			},
		})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeNotAuthorized, serviceErr.Code)
		m.ledger.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Second registration conflicts", func(t *testing.T) {
		svc, m := newSettlement(t)

		order := pendingOrder()
		order.Status = model.OrderStatusSafeDelivery
		order.ReceiverAddress = "12 Elm Street"

		m.txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		m.orderRepo.On("FindByAuctionIDForUpdate", mock.Anything, int64(42)).Return(order, nil)

		_, err := svc.RegisterDeliveryAndPay(context.Background(), service.RegisterDeliveryCommand{
			AuctionID: 42,
			BuyerID:   "buyer-c",
			Delivery: service.DeliveryInfo{
				ReceiverName:    "C. Buyer",
				ReceiverAddress: "12 Elm Street",
			},
		})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeConflict, serviceErr.Code)
	})
}

func TestSettlement_RegisterInvoice(t *testing.T) {
	t.Run("Seller registers invoice and delivery starts", func(t *testing.T) {
		svc, m := newSettlement(t)

		order := pendingOrder()
		order.Status = model.OrderStatusSafeDelivery

		m.txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		m.orderRepo.On("FindByAuctionIDForUpdate", mock.Anything, int64(42)).Return(order, nil)
		m.orderRepo.On("Update", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
			return o.Status == model.OrderStatusDeliveryStart &&
				o.Courier == "CJ" && o.TrackingNumber == "123456789"
		})).Return(nil)
		m.expectMirror(model.AuctionStatusTradeDelivery)
		m.trackingRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
		m.notifier.On("Notify", mock.MatchedBy(func(e service.NotificationEvent) bool {
			return e.EventType == service.EventInvoiceAdded && e.UserID == "buyer-c"
		})).Return()

		result, err := svc.RegisterInvoice(context.Background(), service.RegisterInvoiceCommand{
			AuctionID: 42, SellerID: "seller-s", Courier: "CJ", TrackingNumber: "123456789",
		})

		assert.NoError(t, err)
		assert.Equal(t, "CJ", result.Courier)
		m.orderRepo.AssertExpectations(t)
	})

	t.Run("Wrong seller is rejected", func(t *testing.T) {
		svc, m := newSettlement(t)

		order := pendingOrder()
		order.Status = model.OrderStatusSafeDelivery

		m.txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		m.orderRepo.On("FindByAuctionIDForUpdate", mock.Anything, int64(42)).Return(order, nil)

		_, err := svc.RegisterInvoice(context.Background(), service.RegisterInvoiceCommand{
			AuctionID: 42, SellerID: "intruder", Courier: "CJ", TrackingNumber: "123456789",
		})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeNotAuthorized, serviceErr.Code)
	})
}

func TestSettlement_AdvanceDelivery(t *testing.T) {
	t.Run("Delivery advances one step at a time", func(t *testing.T) {
		svc, m := newSettlement(t)

		order := pendingOrder()
		order.Status = model.OrderStatusDeliveryStart

		m.txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		m.orderRepo.On("FindByAuctionIDForUpdate", mock.Anything, int64(42)).Return(order, nil)
		m.orderRepo.On("Update", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
			return o.Status == model.OrderStatusDeliveryOngoing
		})).Return(nil)
		m.expectMirror(model.AuctionStatusTradeDelivery)
		m.trackingRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

		result, err := svc.AdvanceDelivery(context.Background(), 42, model.OrderStatusDeliveryOngoing)

		assert.NoError(t, err)
		assert.Equal(t, string(model.OrderStatusDeliveryOngoing), result.Status)
	})

	t.Run("Skipping a step conflicts", func(t *testing.T) {
		svc, m := newSettlement(t)

		order := pendingOrder()
		order.Status = model.OrderStatusDeliveryStart

		m.txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		m.orderRepo.On("FindByAuctionIDForUpdate", mock.Anything, int64(42)).Return(order, nil)

		_, err := svc.AdvanceDelivery(context.Background(), 42, model.OrderStatusDeliveryComplete)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeConflict, serviceErr.Code)
	})

	t.Run("Repeating the current status is a no-op", func(t *testing.T) {
		svc, m := newSettlement(t)

		order := pendingOrder()
		order.Status = model.OrderStatusDeliveryOngoing

		m.txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		m.orderRepo.On("FindByAuctionIDForUpdate", mock.Anything, int64(42)).Return(order, nil)

		result, err := svc.AdvanceDelivery(context.Background(), 42, model.OrderStatusDeliveryOngoing)

		assert.NoError(t, err)
		assert.Equal(t, string(model.OrderStatusDeliveryOngoing), result.Status)
		m.orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestSettlement_ConfirmReceipt(t *testing.T) {
	t.Run("Buyer confirms a completed delivery", func(t *testing.T) {
		svc, m := newSettlement(t)

		order := pendingOrder()
		order.Status = model.OrderStatusDeliveryComplete

		m.txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		m.orderRepo.On("FindByAuctionIDForUpdate", mock.Anything, int64(42)).Return(order, nil)
		m.orderRepo.On("Update", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
			return o.Status == model.OrderStatusReceived
		})).Return(nil)
		m.expectMirror(model.AuctionStatusTradeReceived)
		m.trackingRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
		m.notifier.On("Notify", mock.MatchedBy(func(e service.NotificationEvent) bool {
			return e.EventType == service.EventReceiptOK && e.UserID == "seller-s"
		})).Return()

		result, err := svc.ConfirmReceipt(context.Background(), service.ConfirmReceiptCommand{
			AuctionID: 42, BuyerID: "buyer-c",
		})

		assert.NoError(t, err)
		assert.Equal(t, string(model.OrderStatusReceived), result.Status)
	})

	t.Run("Receipt before delivery completion conflicts", func(t *testing.T) {
		svc, m := newSettlement(t)

		order := pendingOrder()
		order.Status = model.OrderStatusDeliveryOngoing

		m.txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		m.orderRepo.On("FindByAuctionIDForUpdate", mock.Anything, int64(42)).Return(order, nil)

		_, err := svc.ConfirmReceipt(context.Background(), service.ConfirmReceiptCommand{
			AuctionID: 42, BuyerID: "buyer-c",
		})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeConflict, serviceErr.Code)
	})
}

func TestSettlement_PayoutToSeller(t *testing.T) {
	t.Run("Payout before receipt confirmation leaves balances unchanged", func(t *testing.T) {
		svc, m := newSettlement(t)

		order := pendingOrder()
		order.Status = model.OrderStatusDeliveryComplete

		m.txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		m.orderRepo.On("FindByAuctionIDForUpdate", mock.Anything, int64(42)).Return(order, nil)

		_, err := svc.PayoutToSeller(context.Background(), service.PayoutCommand{
			AuctionID: 42, SellerID: "seller-s",
		})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeConflict, serviceErr.Code)
		m.ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Payout credits the seller exactly once", func(t *testing.T) {
		svc, m := newSettlement(t)

		order := pendingOrder()
		order.Status = model.OrderStatusReceived

		m.txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		m.orderRepo.On("FindByAuctionIDForUpdate", mock.Anything, int64(42)).Return(order, nil)
		m.ledger.On("Credit", mock.Anything, "seller-s", int64(1300), model.EntryTypePayout, mock.Anything).
			Return(model.LedgerEntry{}, nil)
		m.orderRepo.On("Update", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
			return o.Status == model.OrderStatusFinished
		})).Return(nil)
		m.expectMirror(model.AuctionStatusTradeComplete)
		m.trackingRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
		m.notifier.On("Notify", mock.MatchedBy(func(e service.NotificationEvent) bool {
			return e.EventType == service.EventPayoutDone && e.UserID == "seller-s" && e.Amount == 1300
		})).Return()

		result, err := svc.PayoutToSeller(context.Background(), service.PayoutCommand{
			AuctionID: 42, SellerID: "seller-s",
		})

		assert.NoError(t, err)
		assert.Equal(t, string(model.OrderStatusFinished), result.Status)
		m.ledger.AssertNumberOfCalls(t, "Credit", 1)
		m.notifier.AssertExpectations(t)
	})

	t.Run("Only the seller may request payout", func(t *testing.T) {
		svc, m := newSettlement(t)

		order := pendingOrder()
		order.Status = model.OrderStatusReceived

		m.txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		m.orderRepo.On("FindByAuctionIDForUpdate", mock.Anything, int64(42)).Return(order, nil)

		_, err := svc.PayoutToSeller(context.Background(), service.PayoutCommand{
			AuctionID: 42, SellerID: "intruder",
		})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeNotAuthorized, serviceErr.Code)
	})
}
