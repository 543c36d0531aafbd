package v1

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joonggo/market-services/auctiongateway/internal/api/contract"
	"github.com/joonggo/market-services/auctiongateway/internal/api/validator"
	"github.com/joonggo/market-services/auctiongateway/internal/constants"
	"github.com/joonggo/market-services/auctiongateway/internal/service"
	"go.uber.org/zap"
)

type Handler struct {
	logger     *zap.Logger
	accounts   service.AccountService
	listings   service.ListingService
	bidding    service.BiddingService
	settlement service.SettlementService
	XValidator validator.IXValidator
}

func NewHandler(logger *zap.Logger, accounts service.AccountService, listings service.ListingService,
	bidding service.BiddingService, settlement service.SettlementService,
	XValidator validator.IXValidator) *Handler {
	return &Handler{
		logger:     logger,
		accounts:   accounts,
		listings:   listings,
		bidding:    bidding,
		settlement: settlement,
		XValidator: XValidator,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) CreateAccount(c *fiber.Ctx) error {
	var handlerRequest CreateAccountRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	cmd := service.CreateAccountCommand{
		AccountID:      handlerRequest.AccountID,
		InitialBalance: handlerRequest.InitialBalance,
	}

	balance, err := h.accounts.CreateAccount(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	h.logger.Info("Account created",
		zap.String("account_id", cmd.AccountID),
		zap.Int64("initial_balance", cmd.InitialBalance),
	)

	return c.JSON(contract.Response{Successful: true, Code: "success", Message: "account created", Result: balance})
}

func (h *Handler) Charge(c *fiber.Ctx) error {
	var handlerRequest ChargeRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	cmd := service.ChargeCommand{
		AccountID: c.Params("id"),
		Amount:    handlerRequest.Amount,
	}

	balance, err := h.accounts.Charge(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success", Message: "points charged", Result: balance})
}

func (h *Handler) GetBalance(c *fiber.Ctx) error {
	balance, entries, err := h.accounts.GetBalance(c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success", Result: fiber.Map{
		"account": balance,
		"entries": entries,
	}})
}

func (h *Handler) RegisterAuction(c *fiber.Ctx) error {
	var handlerRequest RegisterAuctionRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	now := time.Now()
	cmd := service.RegisterAuctionCommand{
		SellerID:     handlerRequest.SellerID,
		Title:        handlerRequest.Title,
		MinPrice:     handlerRequest.MinPrice,
		BidUnit:      handlerRequest.BidUnit,
		BuyNowPrice:  handlerRequest.BuyNowPrice,
		AuctionStart: now,
		AuctionEnd:   now.Add(time.Duration(handlerRequest.DurationMin) * time.Minute),
	}

	snapshot, err := h.listings.RegisterAuction(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	h.logger.Info("Auction registered",
		zap.Int64("auction_id", snapshot.AuctionID),
		zap.String("seller_id", cmd.SellerID),
	)

	return c.JSON(contract.Response{Successful: true, Code: "success", Message: "auction registered", Result: snapshot})
}

func (h *Handler) GetAuction(c *fiber.Ctx) error {
	auctionID, err := c.ParamsInt("id")
	if err != nil {
		return service.NewServiceError(constants.ErrCodeInvalidRequest, err)
	}

	snapshot, err := h.listings.GetAuction(int64(auctionID))
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success", Result: snapshot})
}

func (h *Handler) PlaceBid(c *fiber.Ctx) error {
	auctionID, err := c.ParamsInt("id")
	if err != nil {
		return service.NewServiceError(constants.ErrCodeInvalidRequest, err)
	}

	var handlerRequest PlaceBidRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	cmd := service.PlaceBidCommand{
		AuctionID: int64(auctionID),
		BidderID:  handlerRequest.BidderID,
		Price:     handlerRequest.Price,
	}

	snapshot, err := h.bidding.PlaceBid(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success", Message: "bid accepted", Result: snapshot})
}

func (h *Handler) BuyNow(c *fiber.Ctx) error {
	auctionID, err := c.ParamsInt("id")
	if err != nil {
		return service.NewServiceError(constants.ErrCodeInvalidRequest, err)
	}

	var handlerRequest BuyNowRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	cmd := service.BuyNowCommand{
		AuctionID: int64(auctionID),
		BuyerID:   handlerRequest.BuyerID,
	}

	snapshot, err := h.bidding.BuyNow(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success", Message: "purchase completed", Result: snapshot})
}

func (h *Handler) RegisterDelivery(c *fiber.Ctx) error {
	auctionID, err := c.ParamsInt("id")
	if err != nil {
		return service.NewServiceError(constants.ErrCodeInvalidRequest, err)
	}

	var handlerRequest RegisterDeliveryRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	cmd := service.RegisterDeliveryCommand{
		AuctionID: int64(auctionID),
		BuyerID:   handlerRequest.BuyerID,
		Delivery: service.DeliveryInfo{
			ReceiverName:    handlerRequest.ReceiverName,
			ReceiverPhone:   handlerRequest.ReceiverPhone,
			ReceiverAddress: handlerRequest.ReceiverAddress,
		},
	}

	order, err := h.settlement.RegisterDeliveryAndPay(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success", Message: "delivery registered", Result: order})
}

func (h *Handler) RegisterInvoice(c *fiber.Ctx) error {
	auctionID, err := c.ParamsInt("id")
	if err != nil {
		return service.NewServiceError(constants.ErrCodeInvalidRequest, err)
	}

	var handlerRequest RegisterInvoiceRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	cmd := service.RegisterInvoiceCommand{
		AuctionID:      int64(auctionID),
		SellerID:       handlerRequest.SellerID,
		Courier:        handlerRequest.Courier,
		TrackingNumber: handlerRequest.TrackingNumber,
	}

	order, err := h.settlement.RegisterInvoice(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success", Message: "invoice registered", Result: order})
}

func (h *Handler) ConfirmReceipt(c *fiber.Ctx) error {
	auctionID, err := c.ParamsInt("id")
	if err != nil {
		return service.NewServiceError(constants.ErrCodeInvalidRequest, err)
	}

	var handlerRequest ConfirmReceiptRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	cmd := service.ConfirmReceiptCommand{
		AuctionID: int64(auctionID),
		BuyerID:   handlerRequest.BuyerID,
	}

	order, err := h.settlement.ConfirmReceipt(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success", Message: "receipt confirmed", Result: order})
}

func (h *Handler) Payout(c *fiber.Ctx) error {
	auctionID, err := c.ParamsInt("id")
	if err != nil {
		return service.NewServiceError(constants.ErrCodeInvalidRequest, err)
	}

	var handlerRequest PayoutRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	cmd := service.PayoutCommand{
		AuctionID: int64(auctionID),
		SellerID:  handlerRequest.SellerID,
	}

	order, err := h.settlement.PayoutToSeller(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Successful: true, Code: "success", Message: "payout completed", Result: order})
}
