package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"domain-panel/internal/config"
	"domain-panel/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var DB *gorm.DB

// InitDB opens the configured database, migrates the schema and stores the
// handle in DB.
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Type {
	case "sqlite":
		db, err := openSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		DB = db
	// Add support for MySQL and PostgreSQL in the future
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	if err := Migrate(DB); err != nil {
		return nil, err
	}
	return DB, nil
}

func openSQLite(path string) (*gorm.DB, error) {
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	// Use pure Go SQLite driver (modernc.org/sqlite)
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == MemoryPath {
		// every pooled connection would otherwise see its own empty database
		sqlDB.SetMaxOpenConns(1)
	}

	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GORM: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables of every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.DomainRecord{},
		&models.NotificationSettings{},
		&models.Notification{},
		&models.Setting{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
