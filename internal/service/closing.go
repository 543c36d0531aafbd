package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joonggo/market-services/auctiongateway/internal/config"
	"github.com/joonggo/market-services/auctiongateway/internal/metrics"
	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/joonggo/market-services/auctiongateway/internal/repository"
	"go.uber.org/zap"
)

// ClosingService finalizes auctions whose time window has elapsed. Each
// candidate is claimed through a conditional status update before it is
// touched, so a tick that overlaps itself, a second worker, or a manual
// force-expire can never finalize the same auction twice.
type ClosingService interface {
	CloseExpiredAuctions(ctx context.Context) (int, error)
}

type closing struct {
	auctionRepo repository.AuctionRepository
	bidRepo     repository.BidRepository
	orderRepo   repository.OrderRepository
	ledger      LedgerService
	txManager   repository.TxManager
	notifier    Notifier
	cfg         config.Closer
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

func NewClosingService(auctionRepo repository.AuctionRepository, bidRepo repository.BidRepository,
	orderRepo repository.OrderRepository, ledger LedgerService, txManager repository.TxManager,
	notifier Notifier, cfg config.Closer, logger *zap.Logger, metrics *metrics.Metrics) ClosingService {
	return &closing{auctionRepo: auctionRepo, bidRepo: bidRepo, orderRepo: orderRepo, ledger: ledger,
		txManager: txManager, notifier: notifier, cfg: cfg, logger: logger, metrics: metrics}
}

func (c *closing) CloseExpiredAuctions(ctx context.Context) (int, error) {
	now := time.Now()
	stale := now.Add(-c.cfg.StaleAfter)

	items, err := c.auctionRepo.FindExpired(now, stale, c.cfg.BatchSize)
	if err != nil {
		c.logger.Error("Failed to find expired auctions", zap.Error(err))
		return 0, err
	}

	if len(items) == 0 {
		return 0, nil
	}

	c.logger.Info("Closing expired auctions", zap.Int("candidates", len(items)))

	closed := 0
	for _, item := range items {
		done, err := c.closeOne(ctx, item.ID, stale)
		if err != nil {
			// One bad item must not block the rest of the batch.
			c.logger.Error("Failed to close auction",
				zap.Int64("auctionID", item.ID),
				zap.Error(err))
			continue
		}
		if done {
			closed++
		}
	}

	return closed, nil
}

// closeOne finalizes a single auction. It reports false when the item
// was handled elsewhere, either because the claim was lost or because
// another worker finished it between our claim and the transaction.
func (c *closing) closeOne(ctx context.Context, auctionID int64, stale time.Time) (bool, error) {
	err := c.auctionRepo.ClaimForClosing(ctx, auctionID, stale)
	if err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			c.logger.Debug("Auction already claimed by another worker",
				zap.Int64("auctionID", auctionID))
			return false, nil
		}
		return false, err
	}

	var winner *model.Bid
	var sellerID string
	alreadyHandled := false

	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		item, err := c.auctionRepo.FindByIDForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}

		if item.Status != model.AuctionStatusClosing {
			alreadyHandled = true
			return nil
		}

		sellerID = item.SellerID
		now := time.Now()

		bids, err := c.bidRepo.FindActiveByAuction(ctx, auctionID)
		if err != nil {
			return err
		}

		if len(bids) == 0 {
			item.Status = model.AuctionStatusCancelled
			item.UpdatedAt = now
			return c.auctionRepo.Update(ctx, item)
		}

		top := bids[0]

		// Non-winning active reservations should have been refunded on
		// outbid; release whatever is left so no points stay held on a
		// closed auction.
		for _, bd := range bids[1:] {
			if _, err := c.ledger.Release(ctx, bd.BidderID, bd.Price,
				fmt.Sprintf("bid refund for closed auction %d", auctionID)); err != nil {
				return err
			}
			if err := c.bidRepo.Deactivate(ctx, bd.ID); err != nil {
				return err
			}
		}

		if err := c.bidRepo.Deactivate(ctx, top.ID); err != nil {
			return err
		}

		item.Status = model.AuctionStatusFinished
		item.WinnerID = &top.BidderID
		item.WinningPrice = top.Price
		item.CurrentPrice = top.Price
		item.UpdatedAt = now
		if err := c.auctionRepo.Update(ctx, item); err != nil {
			return err
		}

		order := model.Order{
			AuctionID: item.ID,
			BuyerID:   top.BidderID,
			SellerID:  item.SellerID,
			Status:    model.OrderStatusPending,
			Price:     top.Price,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := c.orderRepo.Create(ctx, &order); err != nil {
			if errors.Is(err, repository.ErrOrderExists) {
				c.logger.Info("Order already exists for auction, skipping creation",
					zap.Int64("auctionID", auctionID))
				winner = &top
				return nil
			}
			return err
		}

		winner = &top
		return nil
	})

	if err != nil {
		return false, err
	}

	if alreadyHandled {
		c.logger.Debug("Auction no longer in closing state, skipping",
			zap.Int64("auctionID", auctionID))
		return false, nil
	}

	if winner == nil {
		if c.metrics != nil {
			c.metrics.RecordAuctionClosed("cancelled")
		}
		c.logger.Info("Auction cancelled with no bids", zap.Int64("auctionID", auctionID))

		c.notifier.Notify(NotificationEvent{
			UserID:    sellerID,
			EventType: EventAuctionNoBids,
			AuctionID: auctionID,
			Message:   "auction ended without bids",
		})
		return true, nil
	}

	if c.metrics != nil {
		c.metrics.RecordAuctionClosed("finished")
	}
	c.logger.Info("Auction finished",
		zap.Int64("auctionID", auctionID),
		zap.String("winnerID", winner.BidderID),
		zap.Int64("winningPrice", winner.Price))

	c.notifier.Notify(NotificationEvent{
		UserID:    sellerID,
		EventType: EventAuctionSold,
		AuctionID: auctionID,
		Amount:    winner.Price,
		Message:   "auction ended with a winning bid",
	})
	c.notifier.Notify(NotificationEvent{
		UserID:    winner.BidderID,
		EventType: EventAuctionWon,
		AuctionID: auctionID,
		Amount:    winner.Price,
		Message:   "you won the auction, proceed to settlement",
	})

	return true, nil
}
