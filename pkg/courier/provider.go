package courier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/joonggo/market-services/auctiongateway/pkg/httpclient"
)

// Tracking statuses reported by the courier feed.
const (
	StatusAccepted  = "ACCEPTED"
	StatusInTransit = "IN_TRANSIT"
	StatusDelivered = "DELIVERED"
)

type Provider interface {
	Track(ctx context.Context, courier string, trackingNumber string) (res Response, err error)
}

type Config struct {
	URL      string        `mapstructure:"url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxRetry int           `mapstructure:"max_retry"`
}

type Response struct {
	Courier        string `json:"courier"`
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status"`
	Location       string `json:"location,omitempty"`
}

type TrackingProvider struct {
	cfg    Config
	client httpclient.HTTPClient
}

func NewTrackingProvider(cfg Config, client httpclient.HTTPClient) Provider {
	return &TrackingProvider{cfg: cfg, client: client}
}

func (p *TrackingProvider) Track(ctx context.Context, courier string, trackingNumber string) (Response, error) {
	url := fmt.Sprintf("%s/trackings/%s/%s", p.cfg.URL, courier, trackingNumber)

	resp, err := p.client.Get(ctx, url, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Response{}, ErrTimeout
		}

		return Response{}, ErrNetworkError
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, mapStatusToError(resp.StatusCode)
	}

	var res Response
	if err = json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Response{}, ErrServerError
	}

	return res, nil
}
