package model

import "time"

// BlockEvent is an append-only audit record, one per positive verdict hit.
type BlockEvent struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"column:user_id;not null;index"`
	URL       string    `gorm:"column:url;not null"`
	Domain    string    `gorm:"column:domain;not null"`
	Timestamp time.Time `gorm:"column:timestamp;autoCreateTime;not null"`

	User User `gorm:"foreignKey:UserID"`
}

func (BlockEvent) TableName() string { return "blocked_phishing_events" }
