// Package datastore opens and migrates the SeoDeck database.
package datastore

import (
	"fmt"

	"github.com/seodeck/seodeck/internal/conf"
	"github.com/seodeck/seodeck/internal/datastore/entities"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured database. SQLite backs single-host
// deployments; MySQL backs shared ones.
func Open(cfg conf.DatabaseSettings) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite", "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "seodeck.db"
		}
		dialector = sqlite.Open(dsn)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	return db, nil
}

// Migrate applies the schema for all SeoDeck entities.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entities.Client{},
		&entities.SiteScan{},
		&entities.AlertRule{},
		&entities.AlertEvent{},
		&entities.RecurringTaskRule{},
		&entities.ClientTask{},
	); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return nil
}
