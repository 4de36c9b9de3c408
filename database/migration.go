package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/mbolis/onboarding-feedback/log"
)

//go:embed migrations
var dbMigrations embed.FS

// ErrDirtySchema means a previous migration failed halfway and needs a
// manual fix before the service can start.
var ErrDirtySchema = errors.New("schema is dirty")

func migrateDB(db *sql.DB) error {
	src, err := iofs.New(dbMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrate.source: %w", err)
	}

	dst, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("migrate.driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "sqlite3", dst)
	if err != nil {
		return fmt.Errorf("migrate.init: %w", err)
	}

	from, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migrate.version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migrate: version %d: %w", from, ErrDirtySchema)
	}

	err = migrator.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.WithFields(log.Fields{"version": from}).Debug("db.migrate: schema up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate.up: %w", err)
	}

	to, _, _ := migrator.Version()
	log.WithFields(log.Fields{"from": from, "to": to}).Info("db.migrate: schema migrated")
	return nil
}
