package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"train-fare-sim/config"
)

// Store wraps the embedded SQLite database holding tickets, stations,
// purchases and surveys.
type Store struct {
	db *sql.DB
}

var store *Store

// Open opens or creates the SQLite database at path and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// SQLite serializes writers; a single connection avoids busy errors
	// during large imports.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	return s, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Connect opens the shared store for the process. Calling it again when the
// store is already open is a no-op.
func Connect(cfg *config.Config) error {
	if store != nil {
		return nil
	}

	s, err := Open(cfg.DBPath)
	if err != nil {
		return err
	}

	store = s
	log.Printf("Opened ticket store at %s", cfg.DBPath)
	return nil
}

// Get returns the shared store
func Get() *Store {
	return store
}

// Close closes the shared store
func Close() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}
