package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/phishguard/backend/internal/model"
)

type TrustedUserRepository struct {
	db *gorm.DB
}

func NewTrustedUserRepository(db *gorm.DB) *TrustedUserRepository {
	return &TrustedUserRepository{db: db}
}

// ListTrusted returns the direct trust edges for a user, trusted user
// preloaded. There is no transitive walk; only direct edges count.
func (r *TrustedUserRepository) ListTrusted(ctx context.Context, userID uint) ([]model.TrustEdge, error) {
	var edges []model.TrustEdge
	result := r.db.WithContext(ctx).
		Preload("TrustedUser").
		Where("user_id = ?", userID).
		Find(&edges)
	return edges, result.Error
}

func (r *TrustedUserRepository) Get(ctx context.Context, userID, trustedUserID uint) (*model.TrustEdge, error) {
	var edge model.TrustEdge
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND trusted_user_id = ?", userID, trustedUserID).
		First(&edge)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &edge, nil
}

func (r *TrustedUserRepository) Add(ctx context.Context, edge *model.TrustEdge) error {
	return r.db.WithContext(ctx).Create(edge).Error
}

func (r *TrustedUserRepository) Remove(ctx context.Context, userID, trustedUserID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND trusted_user_id = ?", userID, trustedUserID).
		Delete(&model.TrustEdge{}).Error
}
