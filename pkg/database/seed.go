package database

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/phishguard/backend/internal/model"
	"github.com/phishguard/backend/pkg/logger"
)

// SeedDemoUser creates a demo account when none exists. Intended for
// local development; production deployments leave DEMO_USER_EMAIL unset.
func SeedDemoUser(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	log := logger.GetLogger()

	var existing model.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Info("Demo user already exists, skipping seed", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check demo user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	user := model.User{
		Email:    email,
		Password: string(hashed),
		FullName: "Demo User",
	}

	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}

	log.Info("Demo user seeded", zap.String("email", email), zap.Uint("user_id", user.ID))
	return nil
}
