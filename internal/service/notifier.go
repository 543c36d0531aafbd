package service

// Notification event types published after a committed trade mutation.
const (
	EventOutbid        = "OUTBID"
	EventBidRefunded   = "BID_REFUNDED"
	EventAuctionWon    = "AUCTION_WON"
	EventAuctionSold   = "AUCTION_SOLD"
	EventAuctionNoBids = "AUCTION_NO_BIDS"
	EventPaymentDone   = "PAYMENT_COMPLETED"
	EventInvoiceAdded  = "INVOICE_REGISTERED"
	EventDeliveryMoved = "DELIVERY_PROGRESSED"
	EventReceiptOK     = "RECEIPT_CONFIRMED"
	EventPayoutDone    = "PAYOUT_COMPLETED"
)

type NotificationEvent struct {
	EventID   string `json:"event_id"`
	UserID    string `json:"user_id"`
	EventType string `json:"event_type"`
	AuctionID int64  `json:"auction_id"`
	Amount    int64  `json:"amount,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Notifier is fire-and-forget. Callers invoke it strictly after their
// transaction has committed; a failed dispatch is logged by the
// implementation and never propagated into the business result.
type Notifier interface {
	Notify(event NotificationEvent)
}
