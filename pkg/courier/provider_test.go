package courier_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/joonggo/market-services/auctiongateway/pkg/courier"
	"github.com/joonggo/market-services/auctiongateway/pkg/mocks"
	"github.com/stretchr/testify/assert"
)

func TestTrackingProvider_Track(t *testing.T) {
	cfg := courier.Config{
		URL:     "https://api.courier.test",
		Timeout: 10 * time.Second,
	}

	trackURL := "https://api.courier.test/trackings/CJ/123456789"

	t.Run("successful tracking lookup", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := courier.NewTrackingProvider(cfg, mockClient)

		body := `{
			"courier": "CJ",
			"tracking_number": "123456789",
			"status": "IN_TRANSIT",
			"location": "Daejeon hub"
		}`

		response := &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader(body)),
		}

		mockClient.On("Get", context.Background(), trackURL,
			map[string]string(nil)).Return(response, nil)

		res, err := provider.Track(context.Background(), "CJ", "123456789")

		assert.NoError(t, err)
		assert.Equal(t, courier.StatusInTransit, res.Status)
		assert.Equal(t, "Daejeon hub", res.Location)
		mockClient.AssertExpectations(t)
	})

	t.Run("unknown tracking number maps 404", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := courier.NewTrackingProvider(cfg, mockClient)

		response := &http.Response{
			StatusCode: 404,
			Body:       io.NopCloser(strings.NewReader(`{"error": "not found"}`)),
		}

		mockClient.On("Get", context.Background(), trackURL,
			map[string]string(nil)).Return(response, nil)

		_, err := provider.Track(context.Background(), "CJ", "123456789")

		assert.Error(t, err)
		assert.ErrorIs(t, err, courier.ErrUnknownTracking)
	})

	t.Run("server error maps 5xx", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := courier.NewTrackingProvider(cfg, mockClient)

		response := &http.Response{
			StatusCode: 503,
			Body:       io.NopCloser(strings.NewReader("unavailable")),
		}

		mockClient.On("Get", context.Background(), trackURL,
			map[string]string(nil)).Return(response, nil)

		_, err := provider.Track(context.Background(), "CJ", "123456789")

		assert.Error(t, err)
		assert.ErrorIs(t, err, courier.ErrServerError)
	})

	t.Run("deadline exceeded maps to timeout", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := courier.NewTrackingProvider(cfg, mockClient)

		mockClient.On("Get", context.Background(), trackURL,
			map[string]string(nil)).Return(nil, context.DeadlineExceeded)

		_, err := provider.Track(context.Background(), "CJ", "123456789")

		assert.Error(t, err)
		assert.ErrorIs(t, err, courier.ErrTimeout)
	})

	t.Run("connection failure maps to network error", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := courier.NewTrackingProvider(cfg, mockClient)

		mockClient.On("Get", context.Background(), trackURL,
			map[string]string(nil)).Return(nil, errors.New("connection refused"))

		_, err := provider.Track(context.Background(), "CJ", "123456789")

		assert.Error(t, err)
		assert.ErrorIs(t, err, courier.ErrNetworkError)
	})

	t.Run("malformed body maps to server error", func(t *testing.T) {
		mockClient := &mocks.HTTPClient{}
		provider := courier.NewTrackingProvider(cfg, mockClient)

		response := &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader("{not json")),
		}

		mockClient.On("Get", context.Background(), trackURL,
			map[string]string(nil)).Return(response, nil)

		_, err := provider.Track(context.Background(), "CJ", "123456789")

		assert.Error(t, err)
		assert.ErrorIs(t, err, courier.ErrServerError)
	})
}
