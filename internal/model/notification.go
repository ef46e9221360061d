package model

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is the persisted record of an alert fanned out to a
// user, backing the notification list endpoint. Data carries the
// structured alert payload (url, verification code).
type Notification struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    uint           `gorm:"column:user_id;not null;index"`
	Title     string         `gorm:"column:title;not null"`
	Body      string         `gorm:"column:body;not null"`
	Data      datatypes.JSON `gorm:"column:data"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`

	User User `gorm:"foreignKey:UserID"`
}

func (Notification) TableName() string { return "notifications" }
