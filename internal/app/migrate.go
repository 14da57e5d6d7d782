package app

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/telestash/node/internal/config"
)

// Migrate applies pending goose migrations at startup. The pipeline must
// not start against a schema it does not understand.
func Migrate(cfg config.DatabaseConfig) error {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return fmt.Errorf("migrate: open database: %w", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: set dialect: %w", err)
	}

	if err := goose.Up(db, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("migrate: apply migrations: %w", err)
	}

	return nil
}
