package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/phishguard/backend/internal/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}
