package v1

type CreateAccountRequest struct {
	AccountID      string `json:"account_id" validate:"required,account_id"`
	InitialBalance int64  `json:"initial_balance" validate:"min=0"`
}

type ChargeRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

type RegisterAuctionRequest struct {
	SellerID    string `json:"seller_id" validate:"required,account_id"`
	Title       string `json:"title" validate:"required,max=200"`
	MinPrice    int64  `json:"min_price" validate:"required,min=1"`
	BidUnit     int64  `json:"bid_unit" validate:"required,min=1"`
	BuyNowPrice *int64 `json:"buy_now_price,omitempty"`
	DurationMin int64  `json:"duration_minutes" validate:"required,min=1"`
}

type PlaceBidRequest struct {
	BidderID string `json:"bidder_id" validate:"required,account_id"`
	Price    int64  `json:"price" validate:"required,min=1"`
}

type BuyNowRequest struct {
	BuyerID string `json:"buyer_id" validate:"required,account_id"`
}

type RegisterDeliveryRequest struct {
	BuyerID         string `json:"buyer_id" validate:"required,account_id"`
	ReceiverName    string `json:"receiver_name" validate:"required,max=100"`
	ReceiverPhone   string `json:"receiver_phone" validate:"required,max=20"`
	ReceiverAddress string `json:"receiver_address" validate:"required,max=500"`
}

type RegisterInvoiceRequest struct {
	SellerID       string `json:"seller_id" validate:"required,account_id"`
	Courier        string `json:"courier" validate:"required,courier_code"`
	TrackingNumber string `json:"tracking_number" validate:"required,max=50"`
}

type ConfirmReceiptRequest struct {
	BuyerID string `json:"buyer_id" validate:"required,account_id"`
}

type PayoutRequest struct {
	SellerID string `json:"seller_id" validate:"required,account_id"`
}
