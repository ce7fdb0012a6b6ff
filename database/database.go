// Package database is the remote persistence gateway for market-weekly.
//
// It wraps an optional Postgres connection behind GORM and exposes typed
// CRUD over the three content tables (insights, journals, notifications).
// The remote store is a synchronization target, not the source of truth:
// the collection store owns the in-memory state and decides what a remote
// failure means for each operation.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database holds the GORM connection used by the repository.
type Database struct {
	db *gorm.DB
}

// Connect establishes the Postgres connection from a DSN.
func Connect(dsn string) (*Database, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
