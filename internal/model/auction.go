package model

import "time"

type AuctionStatus string

const (
	AuctionStatusOngoing   AuctionStatus = "ONGOING"
	AuctionStatusClosing   AuctionStatus = "CLOSING"
	AuctionStatusFinished  AuctionStatus = "FINISHED"
	AuctionStatusCancelled AuctionStatus = "CANCELLED"

	AuctionStatusTradePending          AuctionStatus = "TRADE_PENDING"
	AuctionStatusTradeDelivery         AuctionStatus = "TRADE_DELIVERY"
	AuctionStatusTradeDeliveryComplete AuctionStatus = "TRADE_DELIVERY_COMPLETE"
	AuctionStatusTradeReceived         AuctionStatus = "TRADE_RECEIVED"
	AuctionStatusTradeComplete         AuctionStatus = "TRADE_COMPLETE"
)

type AuctionItem struct {
	ID           int64         `gorm:"primaryKey;autoIncrement;<-:create"`
	SellerID     string        `gorm:"column:seller_id;type:varchar(64);not null;index;<-:create"`
	Title        string        `gorm:"column:title;type:varchar(255);not null"`
	MinPrice     int64         `gorm:"column:min_price;not null;<-:create"`
	BidUnit      int64         `gorm:"column:bid_unit;not null;<-:create"`
	BuyNowPrice  *int64        `gorm:"column:buy_now_price"`
	CurrentPrice int64         `gorm:"column:current_price;not null"`
	AuctionStart time.Time     `gorm:"column:auction_start;type:timestamp;not null"`
	AuctionEnd   time.Time     `gorm:"column:auction_end;type:timestamp;not null;index"`
	Status       AuctionStatus `gorm:"column:status;type:varchar(30);not null;index"`
	WinnerID     *string       `gorm:"column:winner_id;type:varchar(64)"`
	WinningPrice int64         `gorm:"column:winning_price;not null;default:0"`
	BidCount     int           `gorm:"column:bid_count;not null;default:0"`
	CreatedAt    time.Time     `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

func (AuctionItem) TableName() string {
	return "auction_items"
}
