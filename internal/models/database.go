package models

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/acctsync/backend/internal/config"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is the database used by the backend.
var DB *gorm.DB

// Connect connects to the database.
//
// If a database host is configured, postgres is used. Otherwise the
// sqlite file at the configured path is opened, creating its directory
// if needed.
func Connect(cfg config.Database) error {
	var err error
	var db *gorm.DB

	gormConfig := &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
	}

	if cfg.Host != "" {
		log.Debug().Msg("database host is set, using postgresql")
		pgDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s", cfg.Host, cfg.User, cfg.Password, cfg.Name)
		db, err = gorm.Open(postgres.Open(pgDSN), gormConfig)
	} else {
		err = os.MkdirAll(filepath.Dir(cfg.Path), os.ModePerm)
		if err != nil {
			return fmt.Errorf("could not create data directory: %w", err)
		}

		db, err = gorm.Open(sqlite.Open(fmt.Sprintf("%s?_pragma=foreign_keys(1)", cfg.Path)), gormConfig)
	}

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// This is done to prevent SQLITE_BUSY errors.
	if cfg.Host == "" {
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
	}

	err = db.AutoMigrate(
		Customer{},
		Vendor{},
		Product{},
		Invoice{},
		InvoiceLine{},
		Bill{},
		BillLine{},
		LedgerAccount{},
		PlatformToken{},
	)
	if err != nil {
		return err
	}

	DB = db
	return nil
}
