package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/j-bridge/volunteerhub.com/internal/config"
	"github.com/j-bridge/volunteerhub.com/internal/models"
)

// Dialector returns the GORM dialector for the configured driver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "sqlite", "":
		if cfg.DBPath != ":memory:" {
			if dir := filepath.Dir(cfg.DBPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("failed to create database directory: %w", err)
				}
			}
		}
		return sqlite.Open(cfg.DBPath + "?_busy_timeout=5000"), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBSSLMode,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// GormConfig is the shared GORM configuration. Unique violations surface as
// gorm.ErrDuplicatedKey.
func GormConfig(cfg *config.Config, log logrus.FieldLogger) *gorm.Config {
	level := logger.Info
	if cfg.IsRelease() {
		level = logger.Warn
	}
	return &gorm.Config{
		Logger: logger.New(
			gormWriter{log: log},
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
			},
		),
		TranslateError: true,
	}
}

// Connect opens the database described by cfg.
func Connect(cfg *config.Config, log logrus.FieldLogger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, GormConfig(cfg, log))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DBDriver == "sqlite" || cfg.DBDriver == "" {
		// sqlite serializes writers; one connection avoids SQLITE_BUSY under load.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.WithField("driver", cfg.DBDriver).Info("Database connection established")
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Opportunity{},
		&models.Application{},
		&models.Certificate{},
		&models.VideoSubmission{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// gormWriter routes GORM's logger through logrus.
type gormWriter struct {
	log logrus.FieldLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.WithField("component", "gorm").Debugf(format, args...)
}

var _ logger.Writer = gormWriter{}
