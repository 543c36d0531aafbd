package model

import "time"

// Bid rows are never deleted. Active marks the bid whose amount is
// currently reserved against the bidder's balance; superseded and losing
// bids flip Active to false and stay for audit.
type Bid struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;<-:create"`
	AuctionID int64     `gorm:"column:auction_id;not null;index:idx_auction_active;<-:create"`
	BidderID  string    `gorm:"column:bidder_id;type:varchar(64);not null;index;<-:create"`
	Price     int64     `gorm:"column:price;not null;<-:create"`
	Active    bool      `gorm:"column:active;not null;default:true;index:idx_auction_active"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP;<-:create"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

func (Bid) TableName() string {
	return "bids"
}
