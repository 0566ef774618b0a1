package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"campusjobs_backend/internal/logger"
	"campusjobs_backend/internal/models"
)

// Connect открывает пул GORM поверх Postgres и проверяет соединение.
// TranslateError включен: нарушение уникального индекса приходит как gorm.ErrDuplicatedKey.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}
	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	start := time.Now()
	err := db.AutoMigrate(models.All()...)
	logger.DBLog("auto_migrate", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
