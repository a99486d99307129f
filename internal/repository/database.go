package repository

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const migrationsDatabaseName = "task_manager"

//go:embed migrations
var migrationsFS embed.FS

// NewDB opens a connection for the given driver name.
func NewDB(driver, dataSourceName string, logger *zap.Logger) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres:
		return NewPostgresDB(dataSourceName, logger)
	case DriverSQLite:
		return NewSQLiteDB(dataSourceName, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewPostgresDB establishes a new connection to the PostgreSQL database.
func NewPostgresDB(dataSourceName string, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect(DriverPostgres, dataSourceName)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	logger.Info("Successfully connected to the database!", zap.String("driver", DriverPostgres))
	return db, nil
}

// NewSQLiteDB opens an SQLite database with foreign keys enforced.
//
// SQLite allows a single writer, so the pool is limited to one connection.
// This also keeps in-memory databases alive for the lifetime of the pool.
func NewSQLiteDB(dataSourceName string, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect(DriverSQLite, withSQLitePragmas(dataSourceName))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	logger.Info("Successfully connected to the database!", zap.String("driver", DriverSQLite))
	return db, nil
}

func withSQLitePragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// MigrateDB runs the embedded migrations for the database's dialect.
func MigrateDB(db *sqlx.DB, logger *zap.Logger) error {
	var (
		driver database.Driver
		err    error
	)
	switch db.DriverName() {
	case DriverPostgres:
		driver, err = postgres.WithInstance(db.DB, &postgres.Config{})
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	default:
		return fmt.Errorf("no migrations for driver %q", db.DriverName())
	}
	if err != nil {
		return fmt.Errorf("couldn't get database instance for running migrations: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+db.DriverName())
	if err != nil {
		return fmt.Errorf("couldn't open migrations source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, migrationsDatabaseName, driver)
	if err != nil {
		return fmt.Errorf("couldn't create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("couldn't run database migration: %w", err)
	}

	logger.Info("Database migration was run successfully")
	return nil
}
