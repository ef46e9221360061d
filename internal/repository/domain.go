package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/phishguard/backend/internal/model"
)

type DomainRepository struct {
	db *gorm.DB
}

func NewDomainRepository(db *gorm.DB) *DomainRepository {
	return &DomainRepository{db: db}
}

// GetByDomain looks up the verdict row for a normalized domain.
// Returns (nil, nil) for a domain that has never been classified.
func (r *DomainRepository) GetByDomain(ctx context.Context, domain string) (*model.DomainVerdict, error) {
	var verdict model.DomainVerdict
	result := r.db.WithContext(ctx).Where("domain = ?", domain).First(&verdict)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &verdict, nil
}

// Replace removes any existing row for the verdict's domain and inserts
// the new one. Later submissions win over earlier ones.
func (r *DomainRepository) Replace(ctx context.Context, verdict *model.DomainVerdict) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("domain = ?", verdict.Domain).Delete(&model.DomainVerdict{}).Error; err != nil {
			return err
		}
		return tx.Create(verdict).Error
	})
}
