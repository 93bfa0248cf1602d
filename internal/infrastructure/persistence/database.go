package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/showring/backend/internal/infrastructure/config"
	"github.com/showring/backend/internal/infrastructure/logger"
	"github.com/showring/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

// Options tunes logging and tracing of a connection.
type Options struct {
	Logger        *zap.Logger
	LogLevel      gormlogger.LogLevel
	SlowThreshold time.Duration
	Tracing       telemetry.DBTracingConfig
}

// NewDatabase opens the Postgres connection described by cfg and applies
// the pool settings.
func NewDatabase(cfg *config.DatabaseConfig, opts Options) (*Database, error) {
	db, err := Open(postgres.Open(cfg.DSN()), opts)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Open builds a Database on any gorm dialector with the zap SQL logger,
// driver error translation and optional otelgorm tracing.
func Open(dialector gorm.Dialector, opts Options) (*Database, error) {
	zl := opts.Logger
	if zl == nil {
		zl = zap.NewNop()
	}
	level := opts.LogLevel
	if level == 0 {
		level = gormlogger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(zl, level, opts.SlowThreshold),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := telemetry.RegisterDBTracing(db, opts.Tracing, zl); err != nil {
		return nil, fmt.Errorf("failed to register database tracing: %w", err)
	}
	return &Database{DB: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate creates the tables of every model. Used by tests and the
// showctl dev database; production schemas come from migrations/.
func (d *Database) AutoMigrate(models ...any) error {
	return d.DB.AutoMigrate(models...)
}
