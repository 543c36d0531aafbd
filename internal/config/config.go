package config

import (
	"fmt"
	"time"

	"github.com/joonggo/market-services/auctiongateway/pkg/courier"
	"github.com/joonggo/market-services/auctiongateway/pkg/mq"
	"github.com/joonggo/market-services/auctiongateway/pkg/mysql"
	"github.com/spf13/viper"
)

type Config struct {
	API      API          `mapstructure:"api"`
	Database mysql.Config `mapstructure:"database"`
	RabbitMQ mq.Config    `mapstructure:"rabbitmq"`
	Closer   Closer       `mapstructure:"closer"`
	Courier  Courier      `mapstructure:"courier"`
	Fees     Fees         `mapstructure:"fees"`
}

type API struct {
	Port string `mapstructure:"port"`
}

type Closer struct {
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
	// StaleAfter bounds how long a CLOSING claim is honored before another
	// worker may take the item over.
	StaleAfter time.Duration `mapstructure:"stale_after"`
}

type Courier struct {
	Provider     courier.Config `mapstructure:"provider"`
	PollInterval time.Duration  `mapstructure:"poll_interval"`
	BatchSize    int            `mapstructure:"batch_size"`
}

type Fees struct {
	// ShippingFee is a flat per-order charge in points.
	ShippingFee int64 `mapstructure:"shipping_fee"`
	// SafeTradeFeeBP is the safe-trade commission on the winning price, in
	// basis points (350 = 3.5%).
	SafeTradeFeeBP int64 `mapstructure:"safe_trade_fee_bp"`
}

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
