package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/phishguard/backend/internal/model"
	"github.com/phishguard/backend/pkg/logger"
)

// RunMigrations runs automatic schema migration for all application models.
func RunMigrations(db *gorm.DB) error {
	log := logger.GetLogger()
	log.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Session{},
		&model.DomainVerdict{},
		&model.BlockEvent{},
		&model.TrustEdge{},
		&model.DeviceToken{},
		&model.Notification{},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Error("Migration failed",
				zap.String("model", fmt.Sprintf("%T", m)),
				zap.Error(err),
			)
			return fmt.Errorf("failed to migrate %T: %w", m, err)
		}
	}

	log.Info("Database migrations completed successfully")
	return nil
}
