package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/joonggo/market-services/auctiongateway/internal/constants"
	"github.com/joonggo/market-services/auctiongateway/internal/mocks"
	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/joonggo/market-services/auctiongateway/internal/repository"
	"github.com/joonggo/market-services/auctiongateway/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func validListing() service.RegisterAuctionCommand {
	buyNow := int64(5000)
	return service.RegisterAuctionCommand{
		SellerID:     "seller-s",
		Title:        "vintage camera",
		MinPrice:     1000,
		BidUnit:      100,
		BuyNowPrice:  &buyNow,
		AuctionStart: time.Now(),
		AuctionEnd:   time.Now().Add(24 * time.Hour),
	}
}

func TestListing_RegisterAuction(t *testing.T) {
	ctx := context.Background()

	t.Run("registers ongoing auction at min price", func(t *testing.T) {
		auctionRepo := &mocks.AuctionRepository{}
		svc := service.NewListingService(auctionRepo, zap.NewNop())

		auctionRepo.On("Create", ctx, mock.MatchedBy(func(item *model.AuctionItem) bool {
			return item.SellerID == "seller-s" &&
				item.Status == model.AuctionStatusOngoing &&
				item.CurrentPrice == item.MinPrice
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.AuctionItem).ID = 42
		}).Return(nil)

		snapshot, err := svc.RegisterAuction(ctx, validListing())

		assert.NoError(t, err)
		assert.Equal(t, int64(42), snapshot.AuctionID)
		assert.Equal(t, string(model.AuctionStatusOngoing), snapshot.Status)
		assert.Equal(t, int64(1000), snapshot.CurrentPrice)
		auctionRepo.AssertExpectations(t)
	})

	t.Run("rejects invalid listings", func(t *testing.T) {
		auctionRepo := &mocks.AuctionRepository{}
		svc := service.NewListingService(auctionRepo, zap.NewNop())

		lowBuyNow := validListing()
		*lowBuyNow.BuyNowPrice = 900

		zeroUnit := validListing()
		zeroUnit.BidUnit = 0

		endBeforeStart := validListing()
		endBeforeStart.AuctionEnd = endBeforeStart.AuctionStart.Add(-time.Hour)

		pastEnd := validListing()
		pastEnd.AuctionStart = time.Now().Add(-2 * time.Hour)
		pastEnd.AuctionEnd = time.Now().Add(-time.Hour)

		for name, cmd := range map[string]service.RegisterAuctionCommand{
			"buy-now at or below min price": lowBuyNow,
			"non-positive bid unit":         zeroUnit,
			"end before start":              endBeforeStart,
			"end in the past":               pastEnd,
		} {
			_, err := svc.RegisterAuction(ctx, cmd)

			var serviceErr service.Error
			assert.ErrorAs(t, err, &serviceErr, name)
			assert.Equal(t, constants.ErrCodeValidationFailed, serviceErr.Code, name)
		}

		auctionRepo.AssertNotCalled(t, "Create")
	})
}

func TestListing_GetAuction(t *testing.T) {
	t.Run("returns auction snapshot", func(t *testing.T) {
		auctionRepo := &mocks.AuctionRepository{}
		svc := service.NewListingService(auctionRepo, zap.NewNop())

		winner := "bidder-a"
		auctionRepo.On("FindByID", int64(42)).Return(&model.AuctionItem{
			ID:           42,
			SellerID:     "seller-s",
			Title:        "vintage camera",
			Status:       model.AuctionStatusFinished,
			MinPrice:     1000,
			BidUnit:      100,
			CurrentPrice: 1300,
			BidCount:     3,
			WinnerID:     &winner,
			WinningPrice: 1300,
			AuctionEnd:   time.Now(),
		}, nil)

		snapshot, err := svc.GetAuction(42)

		assert.NoError(t, err)
		assert.Equal(t, string(model.AuctionStatusFinished), snapshot.Status)
		assert.Equal(t, &winner, snapshot.WinnerID)
		assert.Equal(t, int64(1300), snapshot.WinningPrice)
	})

	t.Run("returns not found for unknown auction", func(t *testing.T) {
		auctionRepo := &mocks.AuctionRepository{}
		svc := service.NewListingService(auctionRepo, zap.NewNop())

		auctionRepo.On("FindByID", int64(7)).Return(nil, repository.ErrAuctionNotFound)

		_, err := svc.GetAuction(7)

		var serviceErr service.Error
		assert.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, constants.ErrCodeAuctionNotFound, serviceErr.Code)
	})
}
