package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/blog-api/internal/config"
	"github.com/example/blog-api/internal/models"
)

// Database is the postgres-backed store handle.
type Database struct {
	Gorm *gorm.DB
	SQL  *sql.DB
}

func ConnectPostgres(cfg *config.Config, log zerolog.Logger) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode, cfg.DBTimezone)
	return OpenPostgres(dsn, log)
}

// OpenPostgres connects with a ready DSN and checks the connection.
func OpenPostgres(dsn string, log zerolog.Logger) (*Database, error) {
	zl := log.With().Str("component", "postgres").Logger()
	gormLogger := logger.New(&zl, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Database{Gorm: gormDB, SQL: sqlDB}, nil
}

// Migrate creates the posts and activity_logs tables.
func (d *Database) Migrate() error {
	return d.Gorm.AutoMigrate(&models.Post{}, &models.ActivityLog{})
}

func (d *Database) Close() error {
	if d.SQL != nil {
		return d.SQL.Close()
	}
	return nil
}
