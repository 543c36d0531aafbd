package main

import (
	"context"

	"github.com/joonggo/market-services/auctiongateway/internal/config"
	"github.com/joonggo/market-services/auctiongateway/internal/consumers"
	"github.com/joonggo/market-services/auctiongateway/internal/publishers"
	"github.com/joonggo/market-services/auctiongateway/pkg/mq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewMQConnection,
			NewMQConsumer,

			consumers.NewNotifyConsumer,
		),
		fx.Invoke(runNotifyConsumer),
	).Run()
}

func runNotifyConsumer(notifyConsumer consumers.NotifyConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle,
) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.QueueTradeNotify}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}
			logger.Info("queue declared", zap.String("queue", publishers.QueueTradeNotify))

			go func() {
				if err := notifyConsumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("notify consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping notify consumer")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}
