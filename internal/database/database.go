// Package database opens the GORM connection for a DATABASE_DSN value and
// makes sure the product table exists.
package database

import (
	"context"
	"fmt"
	"strings"

	"productapi/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryDSN selects the in-memory repository instead of a database.
const MemoryDSN = "memory"

// Dialector picks the GORM driver for dsn. PostgreSQL URLs and key=value
// DSNs go to the postgres driver; everything else is treated as SQLite,
// accepting the sqlite:///relative/path form.
func Dialector(dsn string) (gorm.Dialector, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return nil, fmt.Errorf("empty database DSN")
	case dsn == MemoryDSN:
		return nil, fmt.Errorf("DSN %q does not name a database", dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return postgres.Open(dsn), nil
	case strings.HasPrefix(dsn, "sqlite:///"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite:///")), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), nil
	default:
		return sqlite.Open(dsn), nil
	}
}

// Open connects to dsn and creates the product table if it is absent.
// debug turns on SQL statement logging.
func Open(dsn string, debug bool) (*gorm.DB, error) {
	dialector, err := Dialector(dsn)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return db, nil
}

// Ping checks that the database still answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
