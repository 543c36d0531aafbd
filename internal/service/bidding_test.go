package service_test

import (
	"context"
	"errors"
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

func ongoingAuction() *model.AuctionItem {
	buyNow := int64(5000)
	return &model.AuctionItem{
		ID:           42,
		SellerID:     "seller-s",
		Title:        "vintage camera",
		MinPrice:     1000,
		BidUnit:      100,
		BuyNowPrice:  &buyNow,
		CurrentPrice: 1000,
		AuctionStart: time.Now().Add(-time.Hour),
		AuctionEnd:   time.Now().Add(time.Hour),
		Status:       model.AuctionStatusOngoing,
	}
}

func TestBidding_PlaceBid(t *testing.T) {
	logger := zap.NewNop()

	t.Run("First bid reserves points and raises current price", func(t *testing.T) {
		auctionRepo := &mocks.AuctionRepository{}
		bidRepo := &mocks.BidRepository{}
		orderRepo := &mocks.OrderRepository{}
		ledger := &mocks.LedgerService{}
		txm := &mocks.TxManager{}
		notifier := &mocks.Notifier{}

		svc := service.NewBiddingService(auctionRepo, bidRepo, orderRepo, ledger, txm, notifier, logger, nil)

		txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		auctionRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(ongoingAuction(), nil)
		bidRepo.On("FindTopActive", mock.Anything, int64(42)).Return(nil, repository.ErrBidNotFound)
		ledger.On("Reserve", mock.Anything, "bidder-b", int64(1100), model.EntryTypeBidReserve, mock.Anything).
			Return(model.LedgerEntry{}, nil)
		bidRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *model.Bid) bool {
			return b.AuctionID == 42 && b.BidderID == "bidder-b" && b.Price == 1100 && b.Active
		})).Return(nil)
		auctionRepo.On("Update", mock.Anything, mock.MatchedBy(func(item *model.AuctionItem) bool {
			return item.CurrentPrice == 1100 && item.BidCount == 1
		})).Return(nil)

		snapshot, err := svc.PlaceBid(context.Background(), service.PlaceBidCommand{
			AuctionID: 42, BidderID: "bidder-b", Price: 1100,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(1100), snapshot.CurrentPrice)
		assert.Equal(t, 1, snapshot.BidCount)
		auctionRepo.AssertExpectations(t)
		bidRepo.AssertExpectations(t)
		ledger.AssertExpectations(t)
		notifier.AssertNotCalled(t, "Notify", mock.Anything)
	})

	t.Run("Higher bid refunds previous top bidder and notifies", func(t *testing.T) {
		auctionRepo := &mocks.AuctionRepository{}
		bidRepo := &mocks.BidRepository{}
		orderRepo := &mocks.OrderRepository{}
		ledger := &mocks.LedgerService{}
		txm := &mocks.TxManager{}
		notifier := &mocks.Notifier{}

		svc := service.NewBiddingService(auctionRepo, bidRepo, orderRepo, ledger, txm, notifier, logger, nil)

		item := ongoingAuction()
		item.CurrentPrice = 1100
		item.BidCount = 1
		prev := &model.Bid{ID: 7, AuctionID: 42, BidderID: "bidder-b", Price: 1100, Active: true}

		txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		auctionRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(item, nil)
		bidRepo.On("FindTopActive", mock.Anything, int64(42)).Return(prev, nil)
		ledger.On("Release", mock.Anything, "bidder-b", int64(1100), mock.Anything).
			Return(model.LedgerEntry{}, nil)
		bidRepo.On("Deactivate", mock.Anything, int64(7)).Return(nil)
		ledger.On("Reserve", mock.Anything, "bidder-c", int64(1300), model.EntryTypeBidReserve, mock.Anything).
			Return(model.LedgerEntry{}, nil)
		bidRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		auctionRepo.On("Update", mock.Anything, mock.MatchedBy(func(it *model.AuctionItem) bool {
			return it.CurrentPrice == 1300 && it.BidCount == 2
		})).Return(nil)
		notifier.On("Notify", mock.MatchedBy(func(e service.NotificationEvent) bool {
			return e.EventType == service.EventOutbid && e.UserID == "bidder-b" && e.Amount == 1100
		})).Return()

		snapshot, err := svc.PlaceBid(context.Background(), service.PlaceBidCommand{
			AuctionID: 42, BidderID: "bidder-c", Price: 1300,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(1300), snapshot.CurrentPrice)
		ledger.AssertExpectations(t)
		bidRepo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("Bid at buy-now price is rejected", func(t *testing.T) {
		auctionRepo := &mocks.AuctionRepository{}
		bidRepo := &mocks.BidRepository{}
		orderRepo := &mocks.OrderRepository{}
		ledger := &mocks.LedgerService{}
		txm := &mocks.TxManager{}
		notifier := &mocks.Notifier{}

		svc := service.NewBiddingService(auctionRepo, bidRepo, orderRepo, ledger, txm, notifier, logger, nil)

		item := ongoingAuction()
		item.CurrentPrice = 1300

		txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		auctionRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(item, nil)

		_, err := svc.PlaceBid(context.Background(), service.PlaceBidCommand{
			AuctionID: 42, BidderID: "bidder-d", Price: 5000,
		})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeExceedsBuyNow, serviceErr.Code)
		ledger.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Bid below current price plus unit is rejected", func(t *testing.T) {
		auctionRepo := &mocks.AuctionRepository{}
		bidRepo := &mocks.BidRepository{}
		orderRepo := &mocks.OrderRepository{}
		ledger := &mocks.LedgerService{}
		txm := &mocks.TxManager{}
		notifier := &mocks.Notifier{}

		svc := service.NewBiddingService(auctionRepo, bidRepo, orderRepo, ledger, txm, notifier, logger, nil)

		item := ongoingAuction()
		item.CurrentPrice = 1300

		txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		auctionRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(item, nil)

		_, err := svc.PlaceBid(context.Background(), service.PlaceBidCommand{
			AuctionID: 42, BidderID: "bidder-d", Price: 1350,
		})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeBidTooLow, serviceErr.Code)
	})

	t.Run("Seller cannot bid on own auction", func(t *testing.T) {
		auctionRepo := &mocks.AuctionRepository{}
		bidRepo := &mocks.BidRepository{}
		orderRepo := &mocks.OrderRepository{}
		ledger := &mocks.LedgerService{}
		txm := &mocks.TxManager{}
		notifier := &mocks.Notifier{}

		svc := service.NewBiddingService(auctionRepo, bidRepo, orderRepo, ledger, txm, notifier, logger, nil)

		txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		auctionRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(ongoingAuction(), nil)

		_, err := svc.PlaceBid(context.Background(), service.PlaceBidCommand{
			AuctionID: 42, BidderID: "seller-s", Price: 1100,
		})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeSelfBid, serviceErr.Code)
	})

	t.Run("Bid on an ended auction is rejected", func(t *testing.T) {
		auctionRepo := &mocks.AuctionRepository{}
		bidRepo := &mocks.BidRepository{}
		orderRepo := &mocks.OrderRepository{}
		ledger := &mocks.LedgerService{}
		txm := &mocks.TxManager{}
		notifier := &mocks.Notifier{}

		svc := service.NewBiddingService(auctionRepo, bidRepo, orderRepo, ledger, txm, notifier, logger, nil)

		item := ongoingAuction()
		item.AuctionEnd = time.Now().Add(-time.Minute)

		txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		auctionRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(item, nil)

		_, err := svc.PlaceBid(context.Background(), service.PlaceBidCommand{
			AuctionID: 42, BidderID: "bidder-b", Price: 1100,
		})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeAuctionEnded, serviceErr.Code)
	})

	t.Run("Insufficient funds bubbles up from the reserve", func(t *testing.T) {
		auctionRepo := &mocks.AuctionRepository{}
		bidRepo := &mocks.BidRepository{}
		orderRepo := &mocks.OrderRepository{}
		ledger := &mocks.LedgerService{}
		txm := &mocks.TxManager{}
		notifier := &mocks.Notifier{}

		svc := service.NewBiddingService(auctionRepo, bidRepo, orderRepo, ledger, txm, notifier, logger, nil)

		txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		auctionRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(ongoingAuction(), nil)
		bidRepo.On("FindTopActive", mock.Anything, int64(42)).Return(nil, repository.ErrBidNotFound)
		ledger.On("Reserve", mock.Anything, "bidder-poor", int64(1100), model.EntryTypeBidReserve, mock.Anything).
			Return(model.LedgerEntry{}, service.ErrInsufficientFunds)

		_, err := svc.PlaceBid(context.Background(), service.PlaceBidCommand{
			AuctionID: 42, BidderID: "bidder-poor", Price: 1100,
		})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeInsufficientFunds, serviceErr.Code)
		bidRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestBidding_BuyNow(t *testing.T) {
	logger := zap.NewNop()

	t.Run("Buy-now finishes auction, refunds other bidders and creates order", func(t *testing.T) {
		auctionRepo := &mocks.AuctionRepository{}
		bidRepo := &mocks.BidRepository{}
		orderRepo := &mocks.OrderRepository{}
		ledger := &mocks.LedgerService{}
		txm := &mocks.TxManager{}
		notifier := &mocks.Notifier{}

		svc := service.NewBiddingService(auctionRepo, bidRepo, orderRepo, ledger, txm, notifier, logger, nil)

		item := ongoingAuction()
		item.CurrentPrice = 1300
		item.BidCount = 2
		active := []model.Bid{
			{ID: 8, AuctionID: 42, BidderID: "buyer-c", Price: 1300, Active: true},
			{ID: 7, AuctionID: 42, BidderID: "bidder-b", Price: 1100, Active: true},
		}

		txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		auctionRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(item, nil)
		bidRepo.On("FindActiveByAuction", mock.Anything, int64(42)).Return(active, nil)

		// Buyer's own reservation comes back before the buy-now reserve.
		ledger.On("Release", mock.Anything, "buyer-c", int64(1300), mock.Anything).
			Return(model.LedgerEntry{}, nil)
		bidRepo.On("Deactivate", mock.Anything, int64(8)).Return(nil)

		ledger.On("Reserve", mock.Anything, "buyer-c", int64(5000), model.EntryTypeBuyNow, mock.Anything).
			Return(model.LedgerEntry{}, nil)

		ledger.On("Release", mock.Anything, "bidder-b", int64(1100), mock.Anything).
			Return(model.LedgerEntry{}, nil)
		bidRepo.On("Deactivate", mock.Anything, int64(7)).Return(nil)

		auctionRepo.On("Update", mock.Anything, mock.MatchedBy(func(it *model.AuctionItem) bool {
			return it.Status == model.AuctionStatusFinished &&
				it.WinnerID != nil && *it.WinnerID == "buyer-c" &&
				it.WinningPrice == 5000
		})).Return(nil)
		orderRepo.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
			return o.AuctionID == 42 && o.BuyerID == "buyer-c" && o.SellerID == "seller-s" &&
				o.Status == model.OrderStatusPending && o.Price == 5000
		})).Return(nil)

		notifier.On("Notify", mock.MatchedBy(func(e service.NotificationEvent) bool {
			return e.EventType == service.EventAuctionSold && e.UserID == "seller-s"
		})).Return()
		notifier.On("Notify", mock.MatchedBy(func(e service.NotificationEvent) bool {
			return e.EventType == service.EventAuctionWon && e.UserID == "buyer-c"
		})).Return()
		notifier.On("Notify", mock.MatchedBy(func(e service.NotificationEvent) bool {
			return e.EventType == service.EventBidRefunded && e.UserID == "bidder-b"
		})).Return()

		snapshot, err := svc.BuyNow(context.Background(), service.BuyNowCommand{
			AuctionID: 42, BuyerID: "buyer-c",
		})

		assert.NoError(t, err)
		assert.Equal(t, string(model.AuctionStatusFinished), snapshot.Status)
		assert.Equal(t, int64(5000), snapshot.WinningPrice)
		ledger.AssertExpectations(t)
		bidRepo.AssertExpectations(t)
		orderRepo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("Buy-now without a configured price is rejected", func(t *testing.T) {
		auctionRepo := &mocks.AuctionRepository{}
		bidRepo := &mocks.BidRepository{}
		orderRepo := &mocks.OrderRepository{}
		ledger := &mocks.LedgerService{}
		txm := &mocks.TxManager{}
		notifier := &mocks.Notifier{}

		svc := service.NewBiddingService(auctionRepo, bidRepo, orderRepo, ledger, txm, notifier, logger, nil)

		item := ongoingAuction()
		item.BuyNowPrice = nil

		txm.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		auctionRepo.On("FindByIDForUpdate", mock.Anything, int64(42)).Return(item, nil)

		_, err := svc.BuyNow(context.Background(), service.BuyNowCommand{
			AuctionID: 42, BuyerID: "buyer-c",
		})

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeBuyNowUnavailable, serviceErr.Code)
	})
}
