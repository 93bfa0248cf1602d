package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bind variables in db.statement; never in production
	SlowQueryThresh time.Duration
	DBName          string
}

// DefaultDBTracingConfig returns the disabled, variable-free defaults.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBName:          "showring",
	}
}

type queryStartKey struct{}

// RegisterDBTracing installs otelgorm on db plus callbacks that tag spans
// with the table, rows affected and a slow_query flag.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := &slowQueryCallbacks{threshold: cfg.SlowQueryThresh}
	if err := cb.register(db); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh))
	return nil
}

type slowQueryCallbacks struct {
	threshold time.Duration
}

// register runs the after hooks ahead of otelgorm's so the span is still
// recording when they fire.
func (c *slowQueryCallbacks) register(db *gorm.DB) error {
	cb := db.Callback()
	registrations := []struct {
		name string
		fn   func() error
	}{
		{"create", func() error {
			if err := cb.Create().Before("gorm:create").Register("showring_timing:before_create", c.before); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Before("otel:after_create").Register("showring_timing:after_create", c.after)
		}},
		{"query", func() error {
			if err := cb.Query().Before("gorm:query").Register("showring_timing:before_query", c.before); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Before("otel:after_query").Register("showring_timing:after_query", c.after)
		}},
		{"update", func() error {
			if err := cb.Update().Before("gorm:update").Register("showring_timing:before_update", c.before); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Before("otel:after_update").Register("showring_timing:after_update", c.after)
		}},
		{"delete", func() error {
			if err := cb.Delete().Before("gorm:delete").Register("showring_timing:before_delete", c.before); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Before("otel:after_delete").Register("showring_timing:after_delete", c.after)
		}},
		{"row", func() error {
			if err := cb.Row().Before("gorm:row").Register("showring_timing:before_row", c.before); err != nil {
				return err
			}
			return cb.Row().After("gorm:row").Before("otel:after_row").Register("showring_timing:after_row", c.after)
		}},
		{"raw", func() error {
			if err := cb.Raw().Before("gorm:raw").Register("showring_timing:before_raw", c.before); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Before("otel:after_raw").Register("showring_timing:after_raw", c.after)
		}},
	}
	for _, r := range registrations {
		if err := r.fn(); err != nil {
			return fmt.Errorf("register %s timing callbacks: %w", r.name, err)
		}
	}
	return nil
}

func (c *slowQueryCallbacks) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (c *slowQueryCallbacks) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > c.threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
