package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/vaultsdk/internal/postings"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added the instruction_type column to instructions
const currentSchemaVersion = 1

// Store is the posting instruction journal.
type Store struct {
	db     *sql.DB
	ids    postings.IDGenerator
	logger *slog.Logger

	// mu serialises seq assignment with the insert that uses it.
	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator sets the generator for instructions stored without an id.
// Defaults to postings.UUIDv7Generator.
func WithIDGenerator(g postings.IDGenerator) Option {
	return func(s *Store) {
		s.ids = g
	}
}

// WithLogger sets the logger for journal reads and writes.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// pragmas are applied to every connection the journal opens. WAL lets
// replays read while an append is in flight.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// migrations[i] upgrades a journal from user_version i to i+1.
var migrations = []func(*sql.DB) error{
	migrateToV1,
}

// Open creates or opens the journal at path, which may be ":memory:".
// Pragmas, the schema and pending migrations are applied on every open, so
// opening an existing journal twice is harmless.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open journal: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory journal
	// exists only on the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := prepare(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	s := &Store{
		db:     db,
		ids:    postings.UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func prepare(db *sql.DB) error {
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return migrate(db)
}

// migrate runs the migrations above the journal's user_version and records
// the new version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	for v := version; v < len(migrations); v++ {
		if err := migrations[v](db); err != nil {
			return err
		}
	}
	if version == currentSchemaVersion {
		return nil
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// migrateToV1 adds instructions.instruction_type to journals created before
// v1. New databases get the column from schema.sql.
func migrateToV1(db *sql.DB) error {
	var present int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info('instructions')
		WHERE name = 'instruction_type'
	`).Scan(&present)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	if present > 0 {
		return nil
	}
	_, err = db.Exec(`
		ALTER TABLE instructions
		ADD COLUMN instruction_type TEXT NOT NULL DEFAULT ''
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
