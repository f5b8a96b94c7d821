// Package sqlite stores the ledger in a single SQLite file.
//
// The database is opened in WAL mode so readers never block the writer, and every
// transaction starts with BEGIN IMMEDIATE, which takes the write lock up front. That makes
// write transactions fully serialized, so the lease and ledger locks the Postgres adapter
// needs are no-ops here.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/iho/rentledger/migrations"
)

// ErrMemoryDatabase is returned for ":memory:" paths. Every pooled connection would get its own
// empty database.
var ErrMemoryDatabase = errors.New("sqlite: in-memory databases are not supported, use a file path")

const (
	dsnOptions   = "_txlock=immediate&_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL"
	maxOpenConns = 8
)

// Open opens (creating if needed) the database file at path.
func Open(path string) (*sql.DB, error) {
	if path == "" || strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory") {
		return nil, ErrMemoryDatabase
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	db, err := sql.Open("sqlite3", path+sep+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("sqlite migration driver: %w", err)
	}

	source, err := iofs.New(migrations.SQLite, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("sqlite migration source: %w", err)
	}

	return migrate.NewWithInstance("iofs", source, "sqlite3", driver)
}

// Migrate applies every pending migration. The migrate instance is not closed because
// closing it would close db.
func Migrate(ctx context.Context, db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlite migrate up: %w", err)
	}

	version, dirty, _ := m.Version()
	zerolog.Ctx(ctx).Info().
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("sqlite migrations applied")

	return nil
}

// MigrateDown rolls back every migration.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlite migrate down: %w", err)
	}

	zerolog.Ctx(ctx).Info().Msg("sqlite migrations rolled back")
	return nil
}
