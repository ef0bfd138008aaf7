package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormOptions selects the dialect and connection string of a gorm connection.
type GormOptions struct {
	Dialect string // "postgres" or "sqlite"
	DSN     string // Postgres URL, or sqlite file path / DSN
	Debug   bool   // Log every statement
}

// NewGormDB opens a gorm connection and verifies it with a trivial query.
// SQLite connections are limited to a single open connection so writers serialize.
func NewGormDB(opts GormOptions) (*gorm.DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	level := logger.Silent
	if opts.Debug {
		level = logger.Info
	}
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch opts.Dialect {
	case "postgres":
		dialector = postgres.Open(opts.DSN)
	case "sqlite":
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported gorm dialect %q", opts.Dialect)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", opts.Dialect, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access %s connection pool: %w", opts.Dialect, err)
	}
	if opts.Dialect == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
		}
	}
	if err := db.Exec("SELECT 1").Error; err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}

	slog.Info("Connected to database through gorm.", slog.String("dialect", opts.Dialect))
	return db, nil
}

// CloseGormDB closes the connection pool behind a gorm handle.
func CloseGormDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
		slog.Info("Gorm connection pool closed.")
	}
}
