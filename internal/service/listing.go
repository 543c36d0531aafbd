package service

import (
	"context"
	"errors"
	"time"

	"github.com/joonggo/market-services/auctiongateway/internal/constants"
	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/joonggo/market-services/auctiongateway/internal/repository"
	"go.uber.org/zap"
)

type ListingService interface {
	RegisterAuction(ctx context.Context, cmd RegisterAuctionCommand) (AuctionSnapshot, error)
	GetAuction(auctionID int64) (AuctionSnapshot, error)
}

type listing struct {
	auctionRepo repository.AuctionRepository
	logger      *zap.Logger
}

func NewListingService(auctionRepo repository.AuctionRepository, logger *zap.Logger) ListingService {
	return &listing{auctionRepo: auctionRepo, logger: logger}
}

func (s *listing) RegisterAuction(ctx context.Context, cmd RegisterAuctionCommand) (AuctionSnapshot, error) {
	if err := validateListing(cmd); err != nil {
		return AuctionSnapshot{}, NewServiceError(constants.ErrCodeValidationFailed, err)
	}

	item := model.AuctionItem{
		SellerID:     cmd.SellerID,
		Title:        cmd.Title,
		MinPrice:     cmd.MinPrice,
		BidUnit:      cmd.BidUnit,
		BuyNowPrice:  cmd.BuyNowPrice,
		CurrentPrice: cmd.MinPrice,
		AuctionStart: cmd.AuctionStart,
		AuctionEnd:   cmd.AuctionEnd,
		Status:       model.AuctionStatusOngoing,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.auctionRepo.Create(ctx, &item); err != nil {
		s.logger.Error("Failed to register auction",
			zap.String("sellerID", cmd.SellerID),
			zap.Error(err))
		return AuctionSnapshot{}, NewServiceError(constants.ErrCodeInternalError, err)
	}

	s.logger.Info("Auction registered",
		zap.Int64("auctionID", item.ID),
		zap.String("sellerID", cmd.SellerID),
		zap.Int64("minPrice", cmd.MinPrice),
		zap.Time("auctionEnd", cmd.AuctionEnd))

	return snapshotOf(&item), nil
}

func (s *listing) GetAuction(auctionID int64) (AuctionSnapshot, error) {
	item, err := s.auctionRepo.FindByID(auctionID)
	if err != nil {
		if errors.Is(err, repository.ErrAuctionNotFound) {
			return AuctionSnapshot{}, NewServiceError(constants.ErrCodeAuctionNotFound, err)
		}
		return AuctionSnapshot{}, NewServiceError(constants.ErrCodeInternalError, err)
	}

	return snapshotOf(item), nil
}

func validateListing(cmd RegisterAuctionCommand) error {
	switch {
	case cmd.SellerID == "":
		return errors.New("seller id is required")
	case cmd.Title == "":
		return errors.New("title is required")
	case cmd.MinPrice <= 0:
		return errors.New("min price must be positive")
	case cmd.BidUnit <= 0:
		return errors.New("bid unit must be positive")
	case cmd.BuyNowPrice != nil && *cmd.BuyNowPrice <= cmd.MinPrice:
		return errors.New("buy-now price must exceed min price")
	case !cmd.AuctionEnd.After(cmd.AuctionStart):
		return errors.New("auction end must be after start")
	case !cmd.AuctionEnd.After(time.Now()):
		return errors.New("auction end must be in the future")
	}
	return nil
}

func snapshotOf(item *model.AuctionItem) AuctionSnapshot {
	return AuctionSnapshot{
		AuctionID:    item.ID,
		SellerID:     item.SellerID,
		Title:        item.Title,
		Status:       string(item.Status),
		MinPrice:     item.MinPrice,
		BidUnit:      item.BidUnit,
		BuyNowPrice:  item.BuyNowPrice,
		CurrentPrice: item.CurrentPrice,
		BidCount:     item.BidCount,
		WinnerID:     item.WinnerID,
		WinningPrice: item.WinningPrice,
		AuctionEnd:   item.AuctionEnd.Format(time.RFC3339),
	}
}
