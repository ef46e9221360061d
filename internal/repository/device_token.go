package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/phishguard/backend/internal/model"
)

type DeviceTokenRepository struct {
	db *gorm.DB
}

func NewDeviceTokenRepository(db *gorm.DB) *DeviceTokenRepository {
	return &DeviceTokenRepository{db: db}
}

func (r *DeviceTokenRepository) ListByUser(ctx context.Context, userID uint) ([]model.DeviceToken, error) {
	var tokens []model.DeviceToken
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tokens)
	return tokens, result.Error
}

func (r *DeviceTokenRepository) GetByToken(ctx context.Context, token string) (*model.DeviceToken, error) {
	var deviceToken model.DeviceToken
	result := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&deviceToken)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &deviceToken, nil
}

func (r *DeviceTokenRepository) Create(ctx context.Context, token *model.DeviceToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// DeleteByToken removes every row carrying a dead token, regardless of
// owner. Fanout calls this when the transport reports the token as
// permanently invalid.
func (r *DeviceTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&model.DeviceToken{}).Error
}
