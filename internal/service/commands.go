package service

import "time"

type CreateAccountCommand struct {
	AccountID      string
	InitialBalance int64
}

type ChargeCommand struct {
	AccountID string
	Amount    int64
}

type RegisterAuctionCommand struct {
	SellerID     string
	Title        string
	MinPrice     int64
	BidUnit      int64
	BuyNowPrice  *int64
	AuctionStart time.Time
	AuctionEnd   time.Time
}

type PlaceBidCommand struct {
	AuctionID int64
	BidderID  string
	Price     int64
}

type BuyNowCommand struct {
	AuctionID int64
	BuyerID   string
}

type DeliveryInfo struct {
	ReceiverName    string
	ReceiverPhone   string
	ReceiverAddress string
}

type RegisterDeliveryCommand struct {
	AuctionID int64
	BuyerID   string
	Delivery  DeliveryInfo
}

type RegisterInvoiceCommand struct {
	AuctionID      int64
	SellerID       string
	Courier        string
	TrackingNumber string
}

type ConfirmReceiptCommand struct {
	AuctionID int64
	BuyerID   string
}

type PayoutCommand struct {
	AuctionID int64
	SellerID  string
}

// AuctionSnapshot is the success result handed back to callers after bid,
// buy-now and lookup operations.
type AuctionSnapshot struct {
	AuctionID    int64   `json:"auction_id"`
	SellerID     string  `json:"seller_id"`
	Title        string  `json:"title"`
	Status       string  `json:"status"`
	MinPrice     int64   `json:"min_price"`
	BidUnit      int64   `json:"bid_unit"`
	BuyNowPrice  *int64  `json:"buy_now_price,omitempty"`
	CurrentPrice int64   `json:"current_price"`
	BidCount     int     `json:"bid_count"`
	WinnerID     *string `json:"winner_id,omitempty"`
	WinningPrice int64   `json:"winning_price,omitempty"`
	AuctionEnd   string  `json:"auction_end"`
}

type BalanceResult struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
}

type OrderResult struct {
	OrderID        int64  `json:"order_id"`
	AuctionID      int64  `json:"auction_id"`
	BuyerID        string `json:"buyer_id"`
	SellerID       string `json:"seller_id"`
	Status         string `json:"status"`
	Price          int64  `json:"price"`
	ShippingFee    int64  `json:"shipping_fee"`
	SafeTradeFee   int64  `json:"safe_trade_fee"`
	Courier        string `json:"courier,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}
