package db

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lisanmuaddib/x402bot/pkg/db/models"
)

// SetupDatabase runs migrations and opens the gorm connection.
func SetupDatabase(logger *logrus.Logger, cfg Config) (*gorm.DB, error) {
	logger.Debug("Starting database setup")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := RunMigrations(logger, cfg); err != nil {
		return nil, err
	}

	version, dirty, err := MigrationStatus(logger, cfg)
	if err != nil {
		return nil, err
	}
	if dirty {
		return nil, fmt.Errorf("database schema is dirty at migration %d", version)
	}
	logger.WithField("schema_version", version).Info("Database schema is up to date")

	logger.Debug("Establishing GORM database connection")

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: NewGormLogrusLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Picks up columns added to the model ahead of a migration.
	if err := db.AutoMigrate(&models.Mention{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database schema: %w", err)
	}

	logger.Info("Database setup completed successfully")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
