package database

import (
	"fmt"

	"jobconnect_backend/internal/config"
	"jobconnect_backend/internal/logger"
	"jobconnect_backend/internal/models"
	chatmodels "jobconnect_backend/internal/models/chat"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm инициализирует GORM с DSN из конфигурации
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.Application{},
		&models.Item{},
		// chat модуль
		&chatmodels.Chat{},
		&chatmodels.ChatParticipant{},
		&chatmodels.Message{},
		&chatmodels.MessageRead{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	logger.Info("AutoMigrate completed")
	return nil
}
