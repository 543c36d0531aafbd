package main

import (
	"context"
	"time"

	"github.com/joonggo/market-services/auctiongateway/internal/config"
	"github.com/joonggo/market-services/auctiongateway/internal/metrics"
	"github.com/joonggo/market-services/auctiongateway/internal/publishers"
	"github.com/joonggo/market-services/auctiongateway/internal/repository"
	"github.com/joonggo/market-services/auctiongateway/internal/service"
	"github.com/joonggo/market-services/auctiongateway/pkg/mq"
	"github.com/joonggo/market-services/auctiongateway/pkg/mysql"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,

			NewConnectionDB,
			NewMQConnection,
			NewMQPublisher,

			metrics.NewMetrics,
			NewNotifier,
			CloserConfig,

			repository.NewTransactionManager,
			repository.NewAccountRepository,
			repository.NewLedgerRepository,
			repository.NewAuctionRepository,
			repository.NewBidRepository,
			repository.NewOrderRepository,

			service.NewLedgerService,
			service.NewClosingService,
		),
		fx.Invoke(runCloser),
	).Run()
}

func runCloser(cfg *config.Config, closer service.ClosingService, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.QueueTradeNotify}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			interval := cfg.Closer.Interval
			if interval <= 0 {
				interval = 10 * time.Second
			}

			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						closed, err := closer.CloseExpiredAuctions(appCtx)
						if err != nil {
							logger.Error("failed to close expired auctions", zap.Error(err))
						}

						if closed > 0 {
							logger.Info("closed expired auctions", zap.Int("count", closed))
						}
					case <-appCtx.Done():
						logger.Info("closer context cancelled")
						return
					}
				}
			}()

			logger.Info("auction closer started", zap.Duration("interval", interval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping auction closer")
			cancel()
			return rabbit.Close()
		},
	})
}

func CloserConfig(cfg *config.Config) config.Closer {
	return cfg.Closer
}

func NewNotifier(publisher mq.Publisher, logger *zap.Logger) service.Notifier {
	return publishers.NewTradeNotifier(publisher, logger)
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}
