package model

import "time"

// Session binds an opaque high-entropy token to a user. The row is the
// system of record; logout only evicts the cache entry, rows are never
// proactively deleted.
type Session struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"column:user_id;not null;index"`
	Token     string    `gorm:"column:token;unique;not null;size:250"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User User `gorm:"foreignKey:UserID"`
}

func (Session) TableName() string { return "sessions" }
