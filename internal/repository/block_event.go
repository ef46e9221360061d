package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/phishguard/backend/internal/model"
)

type BlockEventRepository struct {
	db *gorm.DB
}

func NewBlockEventRepository(db *gorm.DB) *BlockEventRepository {
	return &BlockEventRepository{db: db}
}

func (r *BlockEventRepository) Create(ctx context.Context, event *model.BlockEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *BlockEventRepository) ListByUser(ctx context.Context, userID uint) ([]model.BlockEvent, error) {
	var events []model.BlockEvent
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp ASC").
		Find(&events)
	return events, result.Error
}
