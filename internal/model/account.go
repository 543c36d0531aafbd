package model

import "time"

type Account struct {
	AccountID string    `gorm:"column:account_id;primaryKey;type:varchar(64)"`
	Balance   int64     `gorm:"column:balance;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

func (Account) TableName() string {
	return "accounts"
}
