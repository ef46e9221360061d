package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/phishguard/backend/internal/model"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByTokenWithUser resolves a token to its session and owning user in
// one query. Returns (nil, nil) for an unknown token.
func (r *SessionRepository) GetByTokenWithUser(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	result := r.db.WithContext(ctx).
		Preload("User").
		Where("token = ?", token).
		First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &session, nil
}
