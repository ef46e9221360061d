package model

import "time"

// DeviceToken is a push registration for one of a user's devices.
// Rows are deleted when the push transport reports the token as
// permanently invalid.
type DeviceToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"column:user_id;not null;index"`
	Token     string    `gorm:"column:token;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User User `gorm:"foreignKey:UserID"`
}

func (DeviceToken) TableName() string { return "device_tokens" }
