package model

import "time"

type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "PENDING"
	OrderStatusSafeDelivery     OrderStatus = "SAFE_DELIVERY"
	OrderStatusDeliveryStart    OrderStatus = "SAFE_DELIVERY_START"
	OrderStatusDeliveryOngoing  OrderStatus = "SAFE_DELIVERY_ING"
	OrderStatusDeliveryComplete OrderStatus = "SAFE_DELIVERY_COMPLETE"
	OrderStatusReceived         OrderStatus = "SAFE_DELIVERY_RECEIVED"
	OrderStatusFinished         OrderStatus = "SAFE_DELIVERY_FINISHED"
)

// Order is created exactly once per finalized auction; the unique index on
// auction_id is the at-most-one-settlement guarantee.
type Order struct {
	ID              int64       `gorm:"primaryKey;autoIncrement;<-:create"`
	AuctionID       int64       `gorm:"column:auction_id;not null;uniqueIndex;<-:create"`
	BuyerID         string      `gorm:"column:buyer_id;type:varchar(64);not null;index;<-:create"`
	SellerID        string      `gorm:"column:seller_id;type:varchar(64);not null;index;<-:create"`
	Status          OrderStatus `gorm:"column:status;type:varchar(30);not null"`
	Price           int64       `gorm:"column:price;not null;<-:create"`
	ShippingFee     int64       `gorm:"column:shipping_fee;not null;default:0"`
	SafeTradeFee    int64       `gorm:"column:safe_trade_fee;not null;default:0"`
	ReceiverName    string      `gorm:"column:receiver_name;type:varchar(100)"`
	ReceiverPhone   string      `gorm:"column:receiver_phone;type:varchar(30)"`
	ReceiverAddress string      `gorm:"column:receiver_address;type:varchar(255)"`
	Courier         string      `gorm:"column:courier;type:varchar(50)"`
	TrackingNumber  string      `gorm:"column:tracking_number;type:varchar(64)"`
	CreatedAt       time.Time   `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP;<-:create"`
	UpdatedAt       time.Time   `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

func (Order) TableName() string {
	return "orders"
}

// TrackingHistory is an append-only audit trail paralleling order status
// transitions.
type TrackingHistory struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;<-:create"`
	OrderID    int64     `gorm:"column:order_id;not null;index;<-:create"`
	StatusText string    `gorm:"column:status_text;type:varchar(255);not null;<-:create"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP;<-:create"`
}

func (TrackingHistory) TableName() string {
	return "tracking_histories"
}
