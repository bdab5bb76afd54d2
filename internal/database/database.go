package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/audit"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/config"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/documents"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/notifications"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/users"
)

// Connect opens the Postgres connection and applies the pool settings.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseURL()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("accessing connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)

	return db, nil
}

// Migrate keeps the schema in step with the models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&programs.Program{},
		&programs.ProgramQuery{},
		&programs.BudgetDeduction{},
		&documents.ProgramDocument{},
		&notifications.Notification{},
		&audit.Entry{},
	)
}
