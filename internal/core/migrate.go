// AngelaMos | 2026
// migrate.go

package core

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/librisys/backend/internal/config"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies every pending embedded migration for the active driver.
// The migrate instance is intentionally not closed: closing it would close
// the shared connection pool.
func (d *Database) Migrate(logger *slog.Logger) error {
	driverName := d.DB.DriverName()

	var (
		dir    string
		driver database.Driver
		err    error
	)

	switch driverName {
	case config.DriverPostgres:
		dir = "migrations/postgres"
		driver, err = migratepgx.WithInstance(d.DB.DB, &migratepgx.Config{})
	case config.DriverSQLite:
		dir = "migrations/sqlite"
		driver, err = migratesqlite.WithInstance(d.DB.DB, &migratesqlite.Config{})
	default:
		return fmt.Errorf("migrate: unsupported driver %q", driverName)
	}
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}

	if dirty {
		logger.Warn("database migration is dirty", "version", version)
	} else {
		logger.Info("database migrated", "version", version, "driver", driverName)
	}

	return nil
}
