package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"blog/config"
	"blog/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates the database handle shared by all repositories.
// For sqlite, "memory" (or an empty DSN) opens a shared in-memory database, a "file:" URI is
// passed through unchanged and anything else is treated as a file path.
// For postgres the DSN is handed to the driver as-is.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: newLogger(cfg.Database.LogLevel),
	}

	var (
		db  *gorm.DB
		err error
	)
	dsn := cfg.Database.DSN
	switch cfg.Database.Driver {
	case "postgres":
		log.Println("INFO: [Database] Connecting to PostgreSQL.")
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	default:
		db, err = gorm.Open(sqlite.Open(sqliteDSN(dsn)), gormConfig)
	}
	if err != nil {
		log.Printf("ERROR: [Database] Failed to connect to %s database: %v", cfg.Database.Driver, err)
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Database.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	maxOpen := cfg.Database.MaxOpenConns
	if cfg.Database.Driver == "postgres" {
		if maxOpen <= 0 {
			maxOpen = 100
		}
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else if maxOpen <= 0 {
		// sqlite has a single writer, and an in-memory database lives only while a connection is open.
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("INFO: [Database] Database connection established successfully.")
	return db, nil
}

func sqliteDSN(dsn string) string {
	if dsn == "memory" || dsn == "" {
		log.Println("INFO: [Database] Initializing in-memory SQLite database (DSN: 'memory' or empty).")
		return "file::memory:?cache=shared"
	}
	if strings.HasPrefix(dsn, "file:") {
		log.Printf("INFO: [Database] Initializing SQLite database from URI '%s'.", dsn)
		return dsn
	}

	log.Printf("INFO: [Database] Initializing file-based SQLite database at DSN: '%s'.", dsn)
	// Ensure the directory for the SQLite file exists.
	dbDir := filepath.Dir(dsn)
	if dbDir != "." && dbDir != "/" {
		if _, statErr := os.Stat(dbDir); os.IsNotExist(statErr) {
			log.Printf("INFO: [Database] Database directory '%s' does not exist, attempting to create.", dbDir)
			if mkdirErr := os.MkdirAll(dbDir, 0o755); mkdirErr != nil {
				// gorm.Open reports the resulting error with the DSN.
				log.Printf("ERROR: [Database] Failed to create database directory '%s': %v", dbDir, mkdirErr)
			}
		}
	}
	return dsn
}

// slowThreshold matches gorm's default logger.
const slowThreshold = 200 * time.Millisecond

// logLevel maps database.log_level to a gorm level; unknown values fall back to warn.
func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	}
	return logger.Warn
}

func newLogger(level string) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  logLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}

// Migrate creates or updates the blog schema.
func Migrate(db *gorm.DB) error {
	log.Println("INFO: [Database] Running database migrations...")
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	log.Println("INFO: [Database] Database migration completed.")
	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	log.Println("INFO: [Database] Database connection closed.")
	return nil
}
