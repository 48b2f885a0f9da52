package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// SchemaVersion is the migration the binary expects to run against.
const SchemaVersion = 1

//go:embed migrations/*.sql
var migrations embed.FS

// RunMigrations applies all up migrations to the database at path.
// It uses its own connection and closes it when done.
func RunMigrations(driver, path string) error {
	db, err := Open(driver, path)
	if err != nil {
		return err
	}

	var target migratedb.Driver
	switch driver {
	case DriverCGO:
		target, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	case DriverPureGo:
		target, err = sqlite.WithInstance(db, &sqlite.Config{})
	}
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate driver: %w", err)
	}

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		_ = target.Close()
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		_ = src.Close()
		_ = target.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	// closes src, target and db
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
