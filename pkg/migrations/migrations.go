// Package migrations applies the embedded PostgreSQL schema with golang-migrate.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"nftfavorites/pkg/logger"
)

//go:embed sql/*.sql
var files embed.FS

// Apply migrates the PostgreSQL database at dsn to the latest schema version
// over a dedicated connection. A nil log disables logging.
func Apply(ctx context.Context, dsn string, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open migrations connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping migrations database: %w", err)
	}

	source, err := iofs.New(files, "sql")
	if err != nil {
		db.Close()
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return fmt.Errorf("initialise postgres driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("initialise migrate instance: %w", err)
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		if sourceErr != nil {
			log.Warn(ctx, "database migrations source close", "error", sourceErr)
		}
		if dbErr != nil {
			log.Warn(ctx, "database migrations db close", "error", dbErr)
		}
	}()

	log.Info(ctx, "running database migrations")
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info(ctx, "database migrations up-to-date")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, verr := m.Version()
	if verr != nil {
		return fmt.Errorf("read migration version: %w", verr)
	}
	log.Info(ctx, "database migrations applied", "version", version, "dirty", dirty)
	return nil
}
