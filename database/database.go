package database

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"disasterprep/config"
	"disasterprep/logging"
	"disasterprep/models"
)

// MemoryDSN selects a shared in-memory SQLite database.
const MemoryDSN = "memory"

var DB *gorm.DB

// Init opens the database named by config.AppConfig.Database.DSN, migrates
// every collection table and stores the handle in DB.
func Init() (*gorm.DB, error) {
	db, err := Open(config.AppConfig.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	DB = db
	return DB, nil
}

// Open connects to SQLite. "memory" (or an empty DSN) selects a shared
// in-memory database; anything else is a file path whose directory is
// created when missing.
func Open(dsn string) (*gorm.DB, error) {
	log := zap.L().Named("Database")
	gormConfig := &gorm.Config{
		Logger:         logging.NewGormLogger(gormlogger.Warn),
		TranslateError: true,
	}

	if dsn == MemoryDSN || dsn == "" {
		log.Info("Initializing in-memory SQLite database")
		dsn = "file::memory:?cache=shared"
	} else {
		log.Info("Initializing file-based SQLite database", zap.String("dsn", dsn))
		if err := ensureDir(filepath.Dir(dsn)); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		log.Error("Failed to connect to database", zap.String("dsn", dsn), zap.Error(err))
		return nil, fmt.Errorf("failed to connect to database (DSN: '%s'): %w", dsn, err)
	}
	log.Info("Database connection established successfully")
	return db, nil
}

func ensureDir(dir string) error {
	if dir == "." || dir == "/" {
		return nil
	}
	if _, err := os.Stat(dir); err == nil || !os.IsNotExist(err) {
		return nil
	}
	zap.L().Named("Database").Info("Database directory does not exist, creating it", zap.String("dir", dir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory '%s': %w", dir, err)
	}
	return nil
}

// Migrate creates or updates the table of every registered collection.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		zap.L().Named("Database").Error("Failed to auto-migrate collection tables", zap.Error(err))
		return fmt.Errorf("failed to auto-migrate collection tables: %w", err)
	}
	zap.L().Named("Database").Info("Collection tables migrated", zap.Int("collections", len(models.Collections())))
	return nil
}

// GetDB returns the global database instance.
// It panics if DB has not been initialized via Init().
func GetDB() *gorm.DB {
	if DB == nil {
		zap.L().Named("Database").Panic("Database instance has not been initialized. Call database.Init() first.")
	}
	return DB
}
