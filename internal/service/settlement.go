package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joonggo/market-services/auctiongateway/internal/config"
	"github.com/joonggo/market-services/auctiongateway/internal/constants"
	"github.com/joonggo/market-services/auctiongateway/internal/metrics"
	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/joonggo/market-services/auctiongateway/internal/repository"
	"go.uber.org/zap"
)

var ErrConflict = errors.New("CONFLICT")
var ErrNotAuthorized = errors.New("NOT_AUTHORIZED")

// nextDeliveryStatus encodes the forward-only delivery progression.
var nextDeliveryStatus = map[model.OrderStatus]model.OrderStatus{
	model.OrderStatusDeliveryStart:   model.OrderStatusDeliveryOngoing,
	model.OrderStatusDeliveryOngoing: model.OrderStatusDeliveryComplete,
}

// auctionMirror maps order statuses onto the auction item's display
// status.
var auctionMirror = map[model.OrderStatus]model.AuctionStatus{
	model.OrderStatusSafeDelivery:     model.AuctionStatusTradePending,
	model.OrderStatusDeliveryStart:    model.AuctionStatusTradeDelivery,
	model.OrderStatusDeliveryOngoing:  model.AuctionStatusTradeDelivery,
	model.OrderStatusDeliveryComplete: model.AuctionStatusTradeDeliveryComplete,
	model.OrderStatusReceived:         model.AuctionStatusTradeReceived,
	model.OrderStatusFinished:         model.AuctionStatusTradeComplete,
}

type SettlementService interface {
	RegisterDeliveryAndPay(ctx context.Context, cmd RegisterDeliveryCommand) (OrderResult, error)
	RegisterInvoice(ctx context.Context, cmd RegisterInvoiceCommand) (OrderResult, error)
	AdvanceDelivery(ctx context.Context, auctionID int64, next model.OrderStatus) (OrderResult, error)
	ConfirmReceipt(ctx context.Context, cmd ConfirmReceiptCommand) (OrderResult, error)
	PayoutToSeller(ctx context.Context, cmd PayoutCommand) (OrderResult, error)
}

type settlement struct {
	orderRepo    repository.OrderRepository
	auctionRepo  repository.AuctionRepository
	trackingRepo repository.TrackingRepository
	ledger       LedgerService
	txManager    repository.TxManager
	notifier     Notifier
	fees         config.Fees
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

func NewSettlementService(orderRepo repository.OrderRepository, auctionRepo repository.AuctionRepository,
	trackingRepo repository.TrackingRepository, ledger LedgerService, txManager repository.TxManager,
	notifier Notifier, fees config.Fees, logger *zap.Logger, metrics *metrics.Metrics) SettlementService {
	return &settlement{orderRepo: orderRepo, auctionRepo: auctionRepo, trackingRepo: trackingRepo,
		ledger: ledger, txManager: txManager, notifier: notifier, fees: fees, logger: logger,
		metrics: metrics}
}

// RegisterDeliveryAndPay stores the buyer's delivery info and debits the
// shipping and safe-trade fees. The winning price itself was already
// reserved when the winning bid was placed; only the fees move here.
func (s *settlement) RegisterDeliveryAndPay(ctx context.Context, cmd RegisterDeliveryCommand) (OrderResult, error) {
	if cmd.Delivery.ReceiverName == "" || cmd.Delivery.ReceiverAddress == "" {
		return OrderResult{}, NewServiceError(constants.ErrCodeValidationFailed,
			errors.New("receiver name and address are required"))
	}

	var result OrderResult
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		order, err := s.lockOrder(ctx, cmd.AuctionID)
		if err != nil {
			return err
		}

		if order.BuyerID != cmd.BuyerID {
			return NewServiceError(constants.ErrCodeNotAuthorized, ErrNotAuthorized)
		}

		if order.Status != model.OrderStatusPending || order.ReceiverAddress != "" {
			return NewServiceError(constants.ErrCodeConflict, ErrConflict)
		}

		shipping := s.fees.ShippingFee
		safeTrade := order.Price * s.fees.SafeTradeFeeBP / 10000
		total := shipping + safeTrade

		_, err = s.ledger.Debit(ctx, order.BuyerID, total, model.EntryTypeSafePayment,
			fmt.Sprintf("safe payment fees for auction %d", cmd.AuctionID))
		if err != nil {
			if errors.Is(err, ErrInsufficientFunds) {
				return NewServiceError(constants.ErrCodeInsufficientFunds, err)
			}
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		order.ShippingFee = shipping
		order.SafeTradeFee = safeTrade
		order.ReceiverName = cmd.Delivery.ReceiverName
		order.ReceiverPhone = cmd.Delivery.ReceiverPhone
		order.ReceiverAddress = cmd.Delivery.ReceiverAddress

		if err := s.transition(ctx, order, model.OrderStatusSafeDelivery,
			"safe payment completed, awaiting invoice"); err != nil {
			return err
		}

		result = orderResultOf(order)
		return nil
	})

	if err != nil {
		return OrderResult{}, err
	}

	s.logger.Info("Delivery registered and fees paid",
		zap.Int64("auctionID", cmd.AuctionID),
		zap.String("buyerID", cmd.BuyerID),
		zap.Int64("shippingFee", result.ShippingFee),
		zap.Int64("safeTradeFee", result.SafeTradeFee))

	s.notifier.Notify(NotificationEvent{
		UserID:    result.SellerID,
		EventType: EventPaymentDone,
		AuctionID: cmd.AuctionID,
		Amount:    result.Price,
		Message:   "buyer paid, register an invoice",
	})

	return result, nil
}

func (s *settlement) RegisterInvoice(ctx context.Context, cmd RegisterInvoiceCommand) (OrderResult, error) {
	if cmd.Courier == "" || cmd.TrackingNumber == "" {
		return OrderResult{}, NewServiceError(constants.ErrCodeValidationFailed,
			errors.New("courier and tracking number are required"))
	}

	var result OrderResult
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		order, err := s.lockOrder(ctx, cmd.AuctionID)
		if err != nil {
			return err
		}

		if order.SellerID != cmd.SellerID {
			return NewServiceError(constants.ErrCodeNotAuthorized, ErrNotAuthorized)
		}

		if order.Status != model.OrderStatusSafeDelivery || order.TrackingNumber != "" {
			return NewServiceError(constants.ErrCodeConflict, ErrConflict)
		}

		order.Courier = cmd.Courier
		order.TrackingNumber = cmd.TrackingNumber

		if err := s.transition(ctx, order, model.OrderStatusDeliveryStart,
			fmt.Sprintf("invoice registered: %s %s", cmd.Courier, cmd.TrackingNumber)); err != nil {
			return err
		}

		result = orderResultOf(order)
		return nil
	})

	if err != nil {
		return OrderResult{}, err
	}

	s.logger.Info("Invoice registered",
		zap.Int64("auctionID", cmd.AuctionID),
		zap.String("courier", cmd.Courier),
		zap.String("trackingNumber", cmd.TrackingNumber))

	s.notifier.Notify(NotificationEvent{
		UserID:    result.BuyerID,
		EventType: EventInvoiceAdded,
		AuctionID: cmd.AuctionID,
		Message:   fmt.Sprintf("shipment on its way via %s", cmd.Courier),
	})

	return result, nil
}

// AdvanceDelivery moves the order one step along the courier progression.
// Passing the current status is a no-op; anything other than the next step
// is a conflict, which keeps the progression monotonic.
func (s *settlement) AdvanceDelivery(ctx context.Context, auctionID int64, next model.OrderStatus) (OrderResult, error) {
	var result OrderResult
	var moved bool

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		order, err := s.lockOrder(ctx, auctionID)
		if err != nil {
			return err
		}

		if order.Status == next {
			result = orderResultOf(order)
			return nil
		}

		if nextDeliveryStatus[order.Status] != next {
			return NewServiceError(constants.ErrCodeConflict, ErrConflict)
		}

		if err := s.transition(ctx, order, next,
			fmt.Sprintf("delivery progressed to %s", next)); err != nil {
			return err
		}

		moved = true
		result = orderResultOf(order)
		return nil
	})

	if err != nil {
		return OrderResult{}, err
	}

	if moved {
		s.logger.Info("Delivery progressed",
			zap.Int64("auctionID", auctionID),
			zap.String("status", result.Status))

		if next == model.OrderStatusDeliveryComplete {
			s.notifier.Notify(NotificationEvent{
				UserID:    result.BuyerID,
				EventType: EventDeliveryMoved,
				AuctionID: auctionID,
				Message:   "package delivered, confirm receipt",
			})
		}
	}

	return result, nil
}

func (s *settlement) ConfirmReceipt(ctx context.Context, cmd ConfirmReceiptCommand) (OrderResult, error) {
	var result OrderResult
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		order, err := s.lockOrder(ctx, cmd.AuctionID)
		if err != nil {
			return err
		}

		if order.BuyerID != cmd.BuyerID {
			return NewServiceError(constants.ErrCodeNotAuthorized, ErrNotAuthorized)
		}

		if order.Status != model.OrderStatusDeliveryComplete {
			return NewServiceError(constants.ErrCodeConflict, ErrConflict)
		}

		if err := s.transition(ctx, order, model.OrderStatusReceived,
			"receipt confirmed by buyer"); err != nil {
			return err
		}

		result = orderResultOf(order)
		return nil
	})

	if err != nil {
		return OrderResult{}, err
	}

	s.logger.Info("Receipt confirmed",
		zap.Int64("auctionID", cmd.AuctionID),
		zap.String("buyerID", cmd.BuyerID))

	s.notifier.Notify(NotificationEvent{
		UserID:    result.SellerID,
		EventType: EventReceiptOK,
		AuctionID: cmd.AuctionID,
		Message:   "buyer confirmed receipt, request your payout",
	})

	return result, nil
}

// PayoutToSeller credits the winning price to the seller exactly once.
// The status precondition is checked under the order row lock, so a
// repeated call lands on a non-RECEIVED order and fails with a conflict
// instead of paying twice.
func (s *settlement) PayoutToSeller(ctx context.Context, cmd PayoutCommand) (OrderResult, error) {
	var result OrderResult
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		order, err := s.lockOrder(ctx, cmd.AuctionID)
		if err != nil {
			return err
		}

		if order.SellerID != cmd.SellerID {
			return NewServiceError(constants.ErrCodeNotAuthorized, ErrNotAuthorized)
		}

		if order.Status != model.OrderStatusReceived {
			return NewServiceError(constants.ErrCodeConflict, ErrConflict)
		}

		_, err = s.ledger.Credit(ctx, order.SellerID, order.Price, model.EntryTypePayout,
			fmt.Sprintf("payout for auction %d", cmd.AuctionID))
		if err != nil {
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		if err := s.transition(ctx, order, model.OrderStatusFinished,
			"trade complete, seller paid out"); err != nil {
			return err
		}

		result = orderResultOf(order)
		return nil
	})

	if err != nil {
		return OrderResult{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordPayout(result.Price)
	}

	s.logger.Info("Seller paid out",
		zap.Int64("auctionID", cmd.AuctionID),
		zap.String("sellerID", cmd.SellerID),
		zap.Int64("amount", result.Price))

	s.notifier.Notify(NotificationEvent{
		UserID:    result.SellerID,
		EventType: EventPayoutDone,
		AuctionID: cmd.AuctionID,
		Amount:    result.Price,
		Message:   "payout credited to your balance",
	})

	return result, nil
}

func (s *settlement) lockOrder(ctx context.Context, auctionID int64) (*model.Order, error) {
	order, err := s.orderRepo.FindByAuctionIDForUpdate(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, NewServiceError(constants.ErrCodeOrderNotFound, err)
		}
		return nil, NewServiceError(constants.ErrCodeInternalError, err)
	}
	return order, nil
}

// transition updates the order status, mirrors it onto the auction item
// and appends the tracking-history audit entry, all inside the caller's
// transaction.
func (s *settlement) transition(ctx context.Context, order *model.Order, next model.OrderStatus, historyText string) error {
	order.Status = next
	order.UpdatedAt = time.Now()

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	if mirror, ok := auctionMirror[next]; ok {
		item, err := s.auctionRepo.FindByIDForUpdate(ctx, order.AuctionID)
		if err != nil {
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		if item.Status != mirror {
			item.Status = mirror
			item.UpdatedAt = time.Now()
			if err := s.auctionRepo.Update(ctx, item); err != nil {
				return NewServiceError(constants.ErrCodeInternalError, err)
			}
		}
	}

	history := model.TrackingHistory{
		OrderID:    order.ID,
		StatusText: historyText,
		CreatedAt:  time.Now(),
	}
	if err := s.trackingRepo.Append(ctx, &history); err != nil {
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	return nil
}

func orderResultOf(order *model.Order) OrderResult {
	return OrderResult{
		OrderID:        order.ID,
		AuctionID:      order.AuctionID,
		BuyerID:        order.BuyerID,
		SellerID:       order.SellerID,
		Status:         string(order.Status),
		Price:          order.Price,
		ShippingFee:    order.ShippingFee,
		SafeTradeFee:   order.SafeTradeFee,
		Courier:        order.Courier,
		TrackingNumber: order.TrackingNumber,
	}
}
