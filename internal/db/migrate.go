package db

import (
	"github.com/ikkim/freshcart-backend/internal/app/model"
	"github.com/ikkim/freshcart-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate creates the snapshot table on conn
func Migrate(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.KVEntry{},
	}

	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
