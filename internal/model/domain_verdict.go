package model

// DomainVerdict is the authoritative phishing classification for a
// normalized domain. A resubmission replaces the prior row wholesale
// (delete-then-insert), it never updates in place.
type DomainVerdict struct {
	ID          uint    `gorm:"primaryKey"`
	Domain      string  `gorm:"column:domain;unique;not null"`
	IsPhishing  bool    `gorm:"column:is_phishing;not null"`
	Explanation string  `gorm:"column:explanation;not null"`
	Confidence  float64 `gorm:"column:confidence;not null"`
}

func (DomainVerdict) TableName() string { return "domains" }
