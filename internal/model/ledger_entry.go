package model

import "time"

type EntryType string

const (
	EntryTypeBidReserve  EntryType = "BID_RESERVE"
	EntryTypeBidRefund   EntryType = "BID_REFUND"
	EntryTypeBuyNow      EntryType = "BUY_NOW"
	EntryTypeSafePayment EntryType = "SAFE_PAYMENT"
	EntryTypePayout      EntryType = "PAYOUT"
	EntryTypeCharge      EntryType = "CHARGE"
)

// LedgerEntry is append-only. Amount is signed; Balance is the account
// balance immediately after the mutation. Replaying all entries for an
// account in order reproduces its current balance.
type LedgerEntry struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;<-:create"`
	AccountID   string    `gorm:"column:account_id;type:varchar(64);not null;index;<-:create"`
	Amount      int64     `gorm:"column:amount;not null;<-:create"`
	Balance     int64     `gorm:"column:balance;not null;<-:create"`
	EntryType   EntryType `gorm:"column:entry_type;type:varchar(20);not null;<-:create"`
	Description string    `gorm:"column:description;type:varchar(255);<-:create"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP;<-:create"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
