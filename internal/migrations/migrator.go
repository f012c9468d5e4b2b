package migrations

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/tordrt/musicdb/internal/db"
)

// VersionTable is where the migrator records the applied version.
const VersionTable = "schema_migrations"

// Migrator applies the embedded scripts as versioned migrations, keeping its
// bookkeeping in VersionTable.
type Migrator struct {
	migrate *migrate.Migrate
}

// NewMigrator creates a migrator over an open client. The migrator takes
// over the client's connection pool; see Close.
func NewMigrator(client *db.Client) (*Migrator, error) {
	dir, err := Dir(client.Dialect())
	if err != nil {
		return nil, err
	}

	sourceDriver, err := iofs.New(files, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	dbDriver, err := databaseDriver(client)
	if err != nil {
		_ = sourceDriver.Close()
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, string(client.Dialect()), dbDriver)
	if err != nil {
		_ = sourceDriver.Close()
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return &Migrator{migrate: m}, nil
}

func databaseDriver(client *db.Client) (database.Driver, error) {
	switch client.Dialect() {
	case db.SQLite:
		return migratesqlite.WithInstance(client.DB(), &migratesqlite.Config{})
	case db.Postgres:
		return migratepgx.WithInstance(client.DB(), &migratepgx.Config{SchemaName: client.SchemaName()})
	case db.MySQL:
		return migratemysql.WithInstance(client.DB(), &migratemysql.Config{DatabaseName: client.SchemaName()})
	default:
		return nil, fmt.Errorf("unsupported database type: %s", client.Dialect())
	}
}

// Up runs all pending migrations.
func (m *Migrator) Up() error {
	if err := m.migrate.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", db.Classify(err))
	}
	return nil
}

// Down rolls back every applied migration.
func (m *Migrator) Down() error {
	if err := m.migrate.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", db.Classify(err))
	}
	return nil
}

// Steps runs n migrations. n can be negative to roll back.
func (m *Migrator) Steps(n int) error {
	if err := m.migrate.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration steps failed: %w", db.Classify(err))
	}
	return nil
}

// Version returns the current migration version. applied is false when no
// migration has run yet.
func (m *Migrator) Version() (version uint, dirty, applied bool, err error) {
	version, dirty, err = m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("failed to get version: %w", err)
	}
	return version, dirty, true, nil
}

// Force sets the migration version without running migrations, clearing a
// dirty state left by a failed run.
func (m *Migrator) Force(version int) error {
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version: %w", err)
	}
	return nil
}

// Close releases the migration source and the database driver. The driver
// closes the client's connection pool with it, so the client must not be used
// afterwards.
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}
