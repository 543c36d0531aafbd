package service

import (
	"context"
	"errors"

	"github.com/joonggo/market-services/auctiongateway/internal/config"
	"github.com/joonggo/market-services/auctiongateway/internal/constants"
	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/joonggo/market-services/auctiongateway/internal/repository"
	"github.com/joonggo/market-services/auctiongateway/pkg/courier"
	"go.uber.org/zap"
)

// CourierFeedService polls the courier provider for orders that are out
// for delivery and advances their settlement status. It only ever moves
// orders forward; the settlement service enforces the monotonic
// progression.
type CourierFeedService interface {
	Poll(ctx context.Context) error
}

type courierFeed struct {
	orderRepo  repository.OrderRepository
	settlement SettlementService
	provider   courier.Provider
	cfg        config.Courier
	logger     *zap.Logger
}

func NewCourierFeedService(orderRepo repository.OrderRepository, settlement SettlementService,
	provider courier.Provider, cfg config.Courier, logger *zap.Logger) CourierFeedService {
	return &courierFeed{orderRepo: orderRepo, settlement: settlement, provider: provider,
		cfg: cfg, logger: logger}
}

var deliveryRank = map[model.OrderStatus]int{
	model.OrderStatusDeliveryStart:    0,
	model.OrderStatusDeliveryOngoing:  1,
	model.OrderStatusDeliveryComplete: 2,
}

func targetStatus(trackingStatus string) (model.OrderStatus, bool) {
	switch trackingStatus {
	case courier.StatusAccepted:
		return model.OrderStatusDeliveryStart, true
	case courier.StatusInTransit:
		return model.OrderStatusDeliveryOngoing, true
	case courier.StatusDelivered:
		return model.OrderStatusDeliveryComplete, true
	default:
		return "", false
	}
}

func (c *courierFeed) Poll(ctx context.Context) error {
	orders, err := c.orderRepo.FindInDelivery(c.cfg.BatchSize)
	if err != nil {
		c.logger.Error("Failed to find orders in delivery", zap.Error(err))
		return err
	}

	if len(orders) == 0 {
		return nil
	}

	c.logger.Debug("Polling courier feed", zap.Int("orders", len(orders)))

	for _, order := range orders {
		if err := c.pollOne(ctx, order); err != nil {
			c.logger.Error("Failed to advance delivery for order",
				zap.Int64("orderID", order.ID),
				zap.Int64("auctionID", order.AuctionID),
				zap.Error(err))
		}
	}

	return nil
}

func (c *courierFeed) pollOne(ctx context.Context, order model.Order) error {
	providerCtx, cancel := context.WithTimeout(ctx, c.cfg.Provider.Timeout)
	defer cancel()

	res, err := c.provider.Track(providerCtx, order.Courier, order.TrackingNumber)
	if err != nil {
		if errors.Is(err, courier.ErrUnknownTracking) {
			c.logger.Warn("Courier does not know the tracking number",
				zap.Int64("orderID", order.ID),
				zap.String("trackingNumber", order.TrackingNumber))
			return nil
		}
		return err
	}

	target, ok := targetStatus(res.Status)
	if !ok {
		c.logger.Warn("Unknown courier tracking status",
			zap.Int64("orderID", order.ID),
			zap.String("status", res.Status))
		return nil
	}

	// The feed may jump more than one step between polls; replay the
	// intermediate transitions so the history trail stays complete.
	current := order.Status
	for deliveryRank[current] < deliveryRank[target] {
		next := nextDeliveryStatus[current]
		if _, err := c.settlement.AdvanceDelivery(ctx, order.AuctionID, next); err != nil {
			var serviceErr Error
			if errors.As(err, &serviceErr) && serviceErr.Code == constants.ErrCodeConflict {
				// Someone else advanced it between our read and this
				// step; the next poll will catch up.
				return nil
			}
			return err
		}
		current = next
	}

	return nil
}
