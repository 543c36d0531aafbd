package main

import (
	"context"
	"time"

	"github.com/joonggo/market-services/auctiongateway/internal/config"
	"github.com/joonggo/market-services/auctiongateway/internal/metrics"
	"github.com/joonggo/market-services/auctiongateway/internal/publishers"
	"github.com/joonggo/market-services/auctiongateway/internal/repository"
	"github.com/joonggo/market-services/auctiongateway/internal/service"
	"github.com/joonggo/market-services/auctiongateway/pkg/courier"
	"github.com/joonggo/market-services/auctiongateway/pkg/httpclient"
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
			NewCourierProvider,
			CourierConfig,
			FeesConfig,

			repository.NewTransactionManager,
			repository.NewAccountRepository,
			repository.NewLedgerRepository,
			repository.NewAuctionRepository,
			repository.NewOrderRepository,
			repository.NewTrackingRepository,

			service.NewLedgerService,
			service.NewSettlementService,
			service.NewCourierFeedService,
		),
		fx.Invoke(runCourierPoller),
	).Run()
}

func runCourierPoller(cfg *config.Config, feed service.CourierFeedService, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.QueueTradeNotify}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			interval := cfg.Courier.PollInterval
			if interval <= 0 {
				interval = time.Minute
			}

			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						if err := feed.Poll(appCtx); err != nil {
							logger.Error("courier poll failed", zap.Error(err))
						}
					case <-appCtx.Done():
						logger.Info("courier poller context cancelled")
						return
					}
				}
			}()

			logger.Info("courier poller started", zap.Duration("interval", interval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping courier poller")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewCourierProvider(cfg *config.Config) courier.Provider {
	timeout := cfg.Courier.Provider.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := httpclient.NewHTTPClient(timeout)
	return courier.NewTrackingProvider(cfg.Courier.Provider, client)
}

func CourierConfig(cfg *config.Config) config.Courier {
	return cfg.Courier
}

func FeesConfig(cfg *config.Config) config.Fees {
	return cfg.Fees
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
