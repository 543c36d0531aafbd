package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joonggo/market-services/auctiongateway/internal/constants"
	"github.com/joonggo/market-services/auctiongateway/internal/metrics"
	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/joonggo/market-services/auctiongateway/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrAuctionEnded  = errors.New("AUCTION_ENDED")
	ErrSelfBid       = errors.New("SELF_BID_FORBIDDEN")
	ErrBidTooLow     = errors.New("BID_TOO_LOW")
	ErrExceedsBuyNow = errors.New("EXCEEDS_BUY_NOW")
	ErrNoBuyNowPrice = errors.New("BUY_NOW_UNAVAILABLE")
)

type BiddingService interface {
	PlaceBid(ctx context.Context, cmd PlaceBidCommand) (AuctionSnapshot, error)
	BuyNow(ctx context.Context, cmd BuyNowCommand) (AuctionSnapshot, error)
}

type bidding struct {
	auctionRepo repository.AuctionRepository
	bidRepo     repository.BidRepository
	orderRepo   repository.OrderRepository
	ledger      LedgerService
	txManager   repository.TxManager
	notifier    Notifier
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

func NewBiddingService(auctionRepo repository.AuctionRepository, bidRepo repository.BidRepository,
	orderRepo repository.OrderRepository, ledger LedgerService, txManager repository.TxManager,
	notifier Notifier, logger *zap.Logger, metrics *metrics.Metrics) BiddingService {
	return &bidding{auctionRepo: auctionRepo, bidRepo: bidRepo, orderRepo: orderRepo, ledger: ledger,
		txManager: txManager, notifier: notifier, logger: logger, metrics: metrics}
}

// PlaceBid accepts a bid inside one transaction that holds the auction row
// lock, so concurrent bids on the same item are strictly ordered. The
// previous top bidder's reservation is released in the same transaction;
// a failed Reserve rolls everything back, including that release.
func (b *bidding) PlaceBid(ctx context.Context, cmd PlaceBidCommand) (AuctionSnapshot, error) {
	var snapshot AuctionSnapshot
	var outbid *model.Bid

	err := b.txManager.WithTx(ctx, func(ctx context.Context) error {
		item, err := b.auctionRepo.FindByIDForUpdate(ctx, cmd.AuctionID)
		if err != nil {
			if errors.Is(err, repository.ErrAuctionNotFound) {
				return NewServiceError(constants.ErrCodeAuctionNotFound, err)
			}
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		now := time.Now()
		if item.Status != model.AuctionStatusOngoing || !now.Before(item.AuctionEnd) {
			return NewServiceError(constants.ErrCodeAuctionEnded, ErrAuctionEnded)
		}

		if cmd.BidderID == item.SellerID {
			return NewServiceError(constants.ErrCodeSelfBid, ErrSelfBid)
		}

		if cmd.Price < item.CurrentPrice+item.BidUnit {
			return NewServiceError(constants.ErrCodeBidTooLow, ErrBidTooLow)
		}

		if item.BuyNowPrice != nil && cmd.Price >= *item.BuyNowPrice {
			return NewServiceError(constants.ErrCodeExceedsBuyNow, ErrExceedsBuyNow)
		}

		prevTop, err := b.bidRepo.FindTopActive(ctx, cmd.AuctionID)
		if err != nil && !errors.Is(err, repository.ErrBidNotFound) {
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		if prevTop != nil {
			_, err := b.ledger.Release(ctx, prevTop.BidderID, prevTop.Price,
				fmt.Sprintf("bid refund for auction %d", cmd.AuctionID))
			if err != nil {
				return NewServiceError(constants.ErrCodeInternalError, err)
			}

			if err := b.bidRepo.Deactivate(ctx, prevTop.ID); err != nil {
				return NewServiceError(constants.ErrCodeInternalError, err)
			}
		}

		_, err = b.ledger.Reserve(ctx, cmd.BidderID, cmd.Price, model.EntryTypeBidReserve,
			fmt.Sprintf("bid %d on auction %d", cmd.Price, cmd.AuctionID))
		if err != nil {
			if errors.Is(err, ErrInsufficientFunds) {
				return NewServiceError(constants.ErrCodeInsufficientFunds, err)
			}
			if errors.Is(err, repository.ErrAccountNotFound) {
				return NewServiceError(constants.ErrCodeAccountNotFound, err)
			}
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		newBid := model.Bid{
			AuctionID: cmd.AuctionID,
			BidderID:  cmd.BidderID,
			Price:     cmd.Price,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := b.bidRepo.Create(ctx, &newBid); err != nil {
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		item.CurrentPrice = cmd.Price
		item.BidCount++
		item.UpdatedAt = now
		if err := b.auctionRepo.Update(ctx, item); err != nil {
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		if prevTop != nil && prevTop.BidderID != cmd.BidderID {
			outbid = prevTop
		}

		snapshot = snapshotOf(item)
		return nil
	})

	if err != nil {
		if b.metrics != nil {
			b.metrics.RecordBidRejected(errorCode(err))
		}
		return AuctionSnapshot{}, err
	}

	if b.metrics != nil {
		b.metrics.RecordBidPlaced()
	}

	b.logger.Info("Bid accepted",
		zap.Int64("auctionID", cmd.AuctionID),
		zap.String("bidderID", cmd.BidderID),
		zap.Int64("price", cmd.Price))

	if outbid != nil {
		b.notifier.Notify(NotificationEvent{
			UserID:    outbid.BidderID,
			EventType: EventOutbid,
			AuctionID: cmd.AuctionID,
			Amount:    outbid.Price,
			Message:   fmt.Sprintf("your bid of %d was outbid at %d", outbid.Price, cmd.Price),
		})
	}

	return snapshot, nil
}

// BuyNow finishes the auction immediately at the buy-now price. The
// settlement order is created in the same transaction as the FINISHED
// transition so an auction is never left finished without an order.
func (b *bidding) BuyNow(ctx context.Context, cmd BuyNowCommand) (AuctionSnapshot, error) {
	var snapshot AuctionSnapshot
	var refunded []model.Bid
	var price int64

	err := b.txManager.WithTx(ctx, func(ctx context.Context) error {
		item, err := b.auctionRepo.FindByIDForUpdate(ctx, cmd.AuctionID)
		if err != nil {
			if errors.Is(err, repository.ErrAuctionNotFound) {
				return NewServiceError(constants.ErrCodeAuctionNotFound, err)
			}
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		now := time.Now()
		if item.Status != model.AuctionStatusOngoing || !now.Before(item.AuctionEnd) {
			return NewServiceError(constants.ErrCodeAuctionEnded, ErrAuctionEnded)
		}

		if item.BuyNowPrice == nil {
			return NewServiceError(constants.ErrCodeBuyNowUnavailable, ErrNoBuyNowPrice)
		}

		if cmd.BuyerID == item.SellerID {
			return NewServiceError(constants.ErrCodeSelfBid, ErrSelfBid)
		}

		price = *item.BuyNowPrice

		bids, err := b.bidRepo.FindActiveByAuction(ctx, cmd.AuctionID)
		if err != nil {
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		// The buyer's own reservation is released before the funds check
		// so a current top bidder can convert to buy-now without double
		// funding.
		for _, bd := range bids {
			if bd.BidderID != cmd.BuyerID {
				continue
			}
			if _, err := b.ledger.Release(ctx, bd.BidderID, bd.Price,
				fmt.Sprintf("bid refund for auction %d", cmd.AuctionID)); err != nil {
				return NewServiceError(constants.ErrCodeInternalError, err)
			}
			if err := b.bidRepo.Deactivate(ctx, bd.ID); err != nil {
				return NewServiceError(constants.ErrCodeInternalError, err)
			}
		}

		_, err = b.ledger.Reserve(ctx, cmd.BuyerID, price, model.EntryTypeBuyNow,
			fmt.Sprintf("buy now on auction %d", cmd.AuctionID))
		if err != nil {
			if errors.Is(err, ErrInsufficientFunds) {
				return NewServiceError(constants.ErrCodeInsufficientFunds, err)
			}
			if errors.Is(err, repository.ErrAccountNotFound) {
				return NewServiceError(constants.ErrCodeAccountNotFound, err)
			}
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		for _, bd := range bids {
			if bd.BidderID == cmd.BuyerID {
				continue
			}
			if _, err := b.ledger.Release(ctx, bd.BidderID, bd.Price,
				fmt.Sprintf("bid refund for auction %d", cmd.AuctionID)); err != nil {
				return NewServiceError(constants.ErrCodeInternalError, err)
			}
			if err := b.bidRepo.Deactivate(ctx, bd.ID); err != nil {
				return NewServiceError(constants.ErrCodeInternalError, err)
			}
			refunded = append(refunded, bd)
		}

		buyer := cmd.BuyerID
		item.Status = model.AuctionStatusFinished
		item.WinnerID = &buyer
		item.WinningPrice = price
		item.CurrentPrice = price
		item.AuctionEnd = now
		item.UpdatedAt = now
		if err := b.auctionRepo.Update(ctx, item); err != nil {
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		order := model.Order{
			AuctionID: item.ID,
			BuyerID:   cmd.BuyerID,
			SellerID:  item.SellerID,
			Status:    model.OrderStatusPending,
			Price:     price,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := b.orderRepo.Create(ctx, &order); err != nil {
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		snapshot = snapshotOf(item)
		return nil
	})

	if err != nil {
		return AuctionSnapshot{}, err
	}

	b.logger.Info("Auction bought out",
		zap.Int64("auctionID", cmd.AuctionID),
		zap.String("buyerID", cmd.BuyerID),
		zap.Int64("price", price))

	b.notifier.Notify(NotificationEvent{
		UserID:    snapshot.SellerID,
		EventType: EventAuctionSold,
		AuctionID: cmd.AuctionID,
		Amount:    price,
		Message:   "item sold at buy-now price",
	})
	b.notifier.Notify(NotificationEvent{
		UserID:    cmd.BuyerID,
		EventType: EventAuctionWon,
		AuctionID: cmd.AuctionID,
		Amount:    price,
		Message:   "buy-now accepted, proceed to settlement",
	})
	for _, bd := range refunded {
		b.notifier.Notify(NotificationEvent{
			UserID:    bd.BidderID,
			EventType: EventBidRefunded,
			AuctionID: cmd.AuctionID,
			Amount:    bd.Price,
			Message:   "auction ended by buy-now, your bid was refunded",
		})
	}

	return snapshot, nil
}

func errorCode(err error) string {
	var serviceErr Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Code
	}
	return constants.ErrCodeInternalError
}
