package database

import (
	"fmt"
	"time"

	"farmland-portal/internal/config"
	"farmland-portal/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	db *gorm.DB
}

// NewDB opens a GORM connection to PostgreSQL and verifies it with a ping
func NewDB(cfg config.PostgresConfig) (*DB, error) {
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, port, cfg.User, cfg.Password, cfg.Database, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &DB{db: db}, nil
}

// NewDBFromGorm wraps an existing gorm.DB instance (used by tests)
func NewDBFromGorm(db *gorm.DB) *DB {
	return &DB{db: db}
}

// DB returns the underlying gorm.DB instance
func (d *DB) DB() *gorm.DB {
	return d.db
}

func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies connectivity, used by the health endpoint
func (d *DB) Ping() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// InitSchema creates tables using GORM AutoMigrate
func (d *DB) InitSchema() error {
	return d.db.AutoMigrate(
		&models.Project{},
		&models.Lead{},
		&models.LeadActivity{},
		&models.User{},
		&models.BlogPost{},
		&models.Testimonial{},
		&models.ProjectView{},
		&models.AnalyticsEvent{},
		&models.DeleteLog{},
	)
}
