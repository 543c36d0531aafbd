package main

import (
	"context"
	"time"

	goplayground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/joonggo/market-services/auctiongateway/internal/api"
	apivalidator "github.com/joonggo/market-services/auctiongateway/internal/api/validator"
	v1 "github.com/joonggo/market-services/auctiongateway/internal/api/v1"
	"github.com/joonggo/market-services/auctiongateway/internal/config"
	apierrors "github.com/joonggo/market-services/auctiongateway/internal/errors"
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
			NewFiberApp,
			NewValidator,
			NewNotifier,

			FeesConfig,

			repository.NewTransactionManager,
			repository.NewAccountRepository,
			repository.NewLedgerRepository,
			repository.NewAuctionRepository,
			repository.NewBidRepository,
			repository.NewOrderRepository,
			repository.NewTrackingRepository,

			service.NewLedgerService,
			service.NewAccountService,
			service.NewListingService,
			service.NewBiddingService,
			service.NewSettlementService,

			v1.NewHandler,
		),
		fx.Invoke(startServer),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, m *metrics.Metrics,
	rabbit *mq.RabbitMQ, logger *zap.Logger, lc fx.Lifecycle) {
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	api.SetupRoutes(app, handler)

	collector := metrics.NewSystemCollector(m, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.QueueTradeNotify}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			collector.Start(15 * time.Second)

			go app.Listen(cfg.API.Port)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			collector.Stop()
			if err := rabbit.Close(); err != nil {
				logger.Warn("failed to close rabbitmq connection", zap.Error(err))
			}
			return app.ShutdownWithContext(ctx)
		},
	})
}

func NewFiberApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: apierrors.ErrorHandler(),
	})
}

func NewValidator(m *metrics.Metrics) apivalidator.IXValidator {
	return apivalidator.NewXValidator(goplayground.New(), m)
}

func NewNotifier(publisher mq.Publisher, logger *zap.Logger) service.Notifier {
	return publishers.NewTradeNotifier(publisher, logger)
}

func FeesConfig(cfg *config.Config) config.Fees {
	return cfg.Fees
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
