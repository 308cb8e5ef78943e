// Package store provides a SQLite-backed library of saved net documents.
// It replaces a loose directory of JSON files plus an INI config with one
// database holding named nets and a small key/value table for app state
// such as the last-used net.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested net or config key is absent.
var ErrNotFound = errors.New("store: not found")

const lastNetKey = "last_net"

// NetInfo describes one stored net, newest first in listings.
type NetInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store handles SQLite operations for the net library.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the library at the given path. Use ":memory:"
// for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// One connection: SQLite serializes writers anyway, and a :memory:
	// database exists per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nets (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		data       TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS config (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_nets_updated ON nets(updated_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// SaveNet stores a document under the given name, overwriting any previous
// version while keeping its id, and records it as the last-used net.
// Returns the net's id.
func (s *Store) SaveNet(name string, data []byte) (string, error) {
	now := time.Now().UTC()

	var id string
	err := s.db.QueryRow(`SELECT id FROM nets WHERE name = ?`, name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.New().String()
		_, err = s.db.Exec(
			`INSERT INTO nets (id, name, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			id, name, string(data), now, now,
		)
	case err == nil:
		_, err = s.db.Exec(
			`UPDATE nets SET data = ?, updated_at = ? WHERE id = ?`,
			string(data), now, id,
		)
	}
	if err != nil {
		return "", fmt.Errorf("store: save net %q: %w", name, err)
	}
	if err := s.SetLastNet(name); err != nil {
		return "", err
	}
	return id, nil
}

// LoadNet returns the stored document with the given name and records it
// as the last-used net.
func (s *Store) LoadNet(name string) ([]byte, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM nets WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: net %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load net %q: %w", name, err)
	}
	if err := s.SetLastNet(name); err != nil {
		return nil, err
	}
	return []byte(data), nil
}

// LoadByID returns the stored document with the given id.
func (s *Store) LoadByID(id string) ([]byte, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM nets WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: net id %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load net id %q: %w", id, err)
	}
	return []byte(data), nil
}

// DeleteNet removes a stored net. Deleting the last-used net clears the
// last-used marker.
func (s *Store) DeleteNet(name string) error {
	res, err := s.db.Exec(`DELETE FROM nets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("store: delete net %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: net %q: %w", name, ErrNotFound)
	}
	if last, err := s.LastNet(); err == nil && last == name {
		_, _ = s.db.Exec(`DELETE FROM config WHERE key = ?`, lastNetKey)
	}
	return nil
}

// ListNets returns every stored net, newest first.
func (s *Store) ListNets() ([]NetInfo, error) {
	rows, err := s.db.Query(
		`SELECT id, name, length(data), updated_at FROM nets ORDER BY updated_at DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list nets: %w", err)
	}
	defer rows.Close()

	var nets []NetInfo
	for rows.Next() {
		var info NetInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.Size, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan net row: %w", err)
		}
		nets = append(nets, info)
	}
	return nets, rows.Err()
}

// LastNet returns the name of the most recently saved or loaded net.
func (s *Store) LastNet() (string, error) {
	return s.GetConfig(lastNetKey)
}

// SetLastNet records the most recently used net name.
func (s *Store) SetLastNet(name string) error {
	return s.SetConfig(lastNetKey, name)
}

// GetConfig reads a value from the config table.
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("store: config %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("store: read config %q: %w", key, err)
	}
	return value, nil
}

// SetConfig writes a value to the config table.
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO config (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("store: write config %q: %w", key, err)
	}
	return nil
}
