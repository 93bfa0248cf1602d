package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/showring/backend/internal/infrastructure/config"
	"github.com/showring/backend/internal/infrastructure/logger"
	"github.com/showring/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

var errUsage = errors.New("usage")

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"}, "cli")

	err := run(flag.Args(), resolveMigrationsPath(migrationsPath), os.Stdout, log)
	_ = log.Sync()
	if errors.Is(err, errUsage) {
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		log.Error("Migration command failed", zap.Error(err))
		os.Exit(1)
	}
}

// run executes one command. Commands that only touch the migrations
// directory never open a database connection.
func run(args []string, migrationsPath string, out io.Writer, log *zap.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	command, rest := args[0], args[1:]
	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", migrationsPath))

	switch command {
	case "create":
		return createCommand(migrationsPath, rest, log)
	case "list":
		return listCommand(migrationsPath, out)
	case "check":
		return checkCommand(migrationsPath, log)
	case "up", "down", "step", "version", "force":
		return withMigrator(migrationsPath, log, func(m *migration.Migrator) error {
			return migrateCommand(m, command, rest, log)
		})
	default:
		log.Error("Unknown command", zap.String("command", command))
		return errUsage
	}
}

func createCommand(dir string, args []string, log *zap.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: migrate create <name> [description]", errUsage)
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return fmt.Errorf("create migration: %w", err)
	}
	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath))
	return nil
}

func listCommand(dir string, out io.Writer) error {
	files, err := migration.ListMigrations(dir)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	if len(files) == 0 {
		_, err = fmt.Fprintln(out, "no migrations found")
		return err
	}
	for _, f := range files {
		if _, err := fmt.Fprintln(out, "  -", f); err != nil {
			return err
		}
	}
	return nil
}

func checkCommand(dir string, log *zap.Logger) error {
	unpaired, err := migration.Unpaired(dir)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	if len(unpaired) > 0 {
		return fmt.Errorf("up migrations without a down file: %v", unpaired)
	}
	log.Info("All migrations are paired")
	return nil
}

func withMigrator(dir string, log *zap.Logger, fn func(*migration.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return fn(m)
}

func migrateCommand(m *migration.Migrator, command string, args []string, log *zap.Logger) error {
	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(args, "migrate step <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "force":
		v, err := intArg(args, "migrate force <version>")
		if err != nil {
			return err
		}
		log.Warn("Forcing migration version", zap.Int("version", v))
		return m.Force(v)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if version == 0 {
		log.Info("No migrations applied")
		return nil
	}
	log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func intArg(args []string, usage string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", args[0])
	}
	return n, nil
}

// resolveMigrationsPath prefers an explicit path, then ./migrations, then
// the directory two levels above the binary.
func resolveMigrationsPath(explicit string) string {
	path := explicit
	if path == "" {
		path = defaultMigrationsPath
		if _, err := os.Stat(path); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Show ring database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  version               Show current migration version
  force <version>       Force set migration version
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations
  check                 Fail when an up migration has no down file

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Database settings come from config.toml or SHOWRING_DATABASE_HOST,
SHOWRING_DATABASE_PORT, SHOWRING_DATABASE_USER, SHOWRING_DATABASE_PASSWORD,
SHOWRING_DATABASE_DBNAME and SHOWRING_DATABASE_SSLMODE.`)
}
