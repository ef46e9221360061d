package model

import "time"

// TrustEdge is a directed "userId trusts trustedUserId" relation.
// Contacts on the trusted side are alerted when the owner hits a
// phishing URL. Direct edges only; no transitive closure.
type TrustEdge struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"column:user_id;not null;index"`
	TrustedUserID uint      `gorm:"column:trusted_user_id;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`

	User        User `gorm:"foreignKey:UserID"`
	TrustedUser User `gorm:"foreignKey:TrustedUserID"`
}

func (TrustEdge) TableName() string { return "trusted_users" }
