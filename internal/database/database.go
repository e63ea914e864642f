package database

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"todoforum/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

type MethodsDB interface {
	CloseDB() error
	RunMigrations(dialect string) error
	HealthCheck() error
}

type DB struct {
	*sqlx.DB
	log logrus.FieldLogger
}

var _ MethodsDB = (*DB)(nil)

// DataSource builds the driver name and DSN for the configured relational backend.
func DataSource(cfg config.DB) (string, string, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return "postgres", fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DbHOST,
			cfg.DbPORT,
			cfg.DbUSER,
			cfg.DbPASSWORD,
			cfg.DbNAME,
			cfg.DbSSLMODE,
		), nil
	case config.DriverSQLite:
		return "sqlite", cfg.SQLitePath + "?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func ConnectDB(cfg *config.Config, log logrus.FieldLogger) (*DB, error) {
	driver, dsn, err := DataSource(cfg.DB)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite data dir: %w", err)
		}
	}

	log.WithFields(logrus.Fields{"driver": driver, "host": cfg.DB.DbHOST, "dbname": cfg.DB.DbNAME}).Info("connecting to database")

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite" {
		// a single writer avoids SQLITE_BUSY under concurrent requests
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	dbStruct := &DB{DB: db, log: log}

	if err := dbStruct.RunMigrations(driver); err != nil {
		db.Close()
		return nil, err
	}

	if err := dbStruct.HealthCheck(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	log.Info("database connection established")
	return dbStruct, nil
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

// RunMigrations applies every embedded migration for the dialect in file-name order.
func (db *DB) RunMigrations(dialect string) error {
	dir := path.Join("migrations", dialect)
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("migrations for %s not found: %w", dialect, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		migrationSQL, err := migrationsFS.ReadFile(path.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}

		db.log.WithField("file", entry.Name()).Info("applying migration")

		for _, stmt := range SplitStatements(string(migrationSQL)) {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("migration %s failed: %w", entry.Name(), err)
			}
		}
	}

	return nil
}

func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	return db.Ping()
}

// SplitStatements breaks a migration file into individual statements.
func SplitStatements(script string) []string {
	var statements []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
