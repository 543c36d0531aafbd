package publishers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/joonggo/market-services/auctiongateway/internal/service"
	"github.com/joonggo/market-services/auctiongateway/pkg/mq"
	"go.uber.org/zap"
)

// QueueTradeNotify carries user-facing trade notifications.
const QueueTradeNotify = "trade.notify"

const publishTimeout = 5 * time.Second

// TradeNotifier publishes notification events to RabbitMQ. Publishing is
// fire and forget so delivery problems never fail the business operation
// that raised the event.
type TradeNotifier struct {
	publisher mq.Publisher
	logger    *zap.Logger
}

var _ service.Notifier = (*TradeNotifier)(nil)

func NewTradeNotifier(publisher mq.Publisher, logger *zap.Logger) *TradeNotifier {
	return &TradeNotifier{publisher: publisher, logger: logger}
}

func (t *TradeNotifier) Notify(event service.NotificationEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	body, err := json.Marshal(event)
	if err != nil {
		t.logger.Error("Failed to marshal notification event",
			zap.Error(err),
			zap.String("eventType", event.EventType))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := t.publisher.Publish(ctx, "", QueueTradeNotify, body); err != nil {
		t.logger.Error("Failed to publish notification event",
			zap.Error(err),
			zap.String("eventID", event.EventID),
			zap.String("eventType", event.EventType),
			zap.String("userID", event.UserID))
		return
	}

	t.logger.Debug("Published notification event",
		zap.String("eventID", event.EventID),
		zap.String("eventType", event.EventType))
}
