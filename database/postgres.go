package database

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"matchai-service/config"
	"matchai-service/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func PostgresConnect() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.Config("POSTGRES_HOST"),
		config.Config("POSTGRES_PORT"),
		config.Config("POSTGRES_USER"),
		config.Config("POSTGRES_PASSWORD"),
		config.Config("POSTGRES_DB"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: GormLogger()})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	slog.Info("connection opened to Postgres")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	slog.Info("postgres database migrated")
	return db, nil
}

// GormLogger only reports warnings and queries slower than GORM_SLOW_THRESHOLD.
func GormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             config.Duration("GORM_SLOW_THRESHOLD", 1500*time.Millisecond),
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Match{},
		&model.Message{},
		&model.VideoCall{},
		&model.AiSuggestion{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
