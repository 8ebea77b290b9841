package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/erp/bills/internal/infrastructure/config"
	"github.com/erp/bills/internal/infrastructure/logger"
	"github.com/erp/bills/internal/infrastructure/migration"
	"github.com/erp/bills/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

var errUsage = errors.New("invalid usage")

// options are the parsed command line flags
type options struct {
	dir      string
	logLevel string
	embedded bool
}

func main() {
	var opts options
	flag.StringVar(&opts.dir, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.embedded, "embedded", false, "Apply the migrations compiled into the binary instead of -path")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{
		Level:      opts.logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	err = run(opts, args, log)
	_ = log.Sync()
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		printUsage()
		os.Exit(2)
	case err != nil:
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		os.Exit(1)
	}
}

func run(opts options, args []string, log *zap.Logger) error {
	command, rest := args[0], args[1:]

	dir, err := resolveDir(opts.dir)
	if err != nil {
		return err
	}
	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", dir),
		zap.Bool("embedded", opts.embedded),
	)

	// Commands working on files only
	switch command {
	case "create":
		return create(dir, rest, log)
	case "list":
		return list(dir, log)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	// Closing the migrator also closes db
	m, err := newMigrator(db, dir, opts.embedded, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	}()

	return migrate(m, command, rest, log)
}

func migrate(m *migration.Migrator, command string, args []string, log *zap.Logger) error {
	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps", "step":
		n, err := intArg(args, "migrate steps <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		v, err := intArg(args, "migrate goto <version>")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("%w: version must not be negative", errUsage)
		}
		return m.GoTo(uint(v))
	case "force":
		v, err := intArg(args, "migrate force <version>")
		if err != nil {
			return err
		}
		return m.Force(v)
	case "version":
		status, err := m.Status()
		if err != nil {
			return err
		}
		if !status.Applied {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version",
			zap.Uint("version", status.Version),
			zap.Bool("dirty", status.Dirty),
		)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func create(dir string, args []string, log *zap.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: migrate create <name> [description]", errUsage)
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.Uint("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return nil
}

func list(dir string, log *zap.Logger) error {
	entries, err := migration.ListMigrations(dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		log.Info("No migrations found")
		return nil
	}

	log.Info("Available migrations", zap.Int("count", len(entries)))
	for _, e := range entries {
		fmt.Printf("  %06d %s\n", e.Version, e.Name)
	}
	return nil
}

// resolveDir returns dir as an absolute path, falling back to ./migrations
// and then to the repository layout relative to the executable
func resolveDir(dir string) (string, error) {
	if dir == "" {
		dir = defaultMigrationsDir
		if _, err := os.Stat(dir); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsDir)
				if _, err := os.Stat(candidate); err == nil {
					dir = candidate
				}
			}
		}
	}
	return filepath.Abs(dir)
}

func intArg(args []string, usage string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errUsage, args[0])
	}
	return n, nil
}

// newMigrator reads migrations from the embedded FS or from dir
func newMigrator(db *sql.DB, dir string, embedded bool, log *zap.Logger) (*migration.Migrator, error) {
	if embedded {
		return migration.NewFromFS(db, migrations.FS, log)
	}
	return migration.New(db, dir, log)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Bills Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  steps <n>             Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (clears a dirty state)
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)
  -embedded             Use the migrations compiled into the binary

Environment Variables:
  BILLS_DATABASE_HOST, BILLS_DATABASE_PORT, BILLS_DATABASE_USER,
  BILLS_DATABASE_PASSWORD, BILLS_DATABASE_DBNAME, BILLS_DATABASE_SSLMODE`)
}
