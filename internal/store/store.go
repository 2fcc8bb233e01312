package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound means no row exists for the requested user. A lookup miss is
// a normal outcome, distinct from a storage fault.
var ErrNotFound = errors.New("user not found")

// User is one saved name/location pair.
type User struct {
	Name     string
	Location string
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	location TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// Store persists user locations in a SQLite database. One writer at a time
// per process; no cross-process coordination is provided.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc sqlite serves one connection at a time reliably; a single
	// pooled connection avoids SQLITE_BUSY on concurrent statements.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}

	return &Store{db: db}, nil
}

// Save upserts the location for name. Repeat saves for the same name
// overwrite in place; the replaced row gets a fresh creation timestamp and
// rowid, which keeps List's recency order correct.
func (s *Store) Save(ctx context.Context, name, location string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO users (name, location) VALUES (?, ?)`,
		name, location)
	if err != nil {
		return fmt.Errorf("failed to save location for %s: %w", name, err)
	}

	return nil
}

// Get returns the stored location for name, or ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	var location string

	err := s.db.QueryRowContext(ctx,
		`SELECT location FROM users WHERE name = ?`, name).Scan(&location)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up %s: %w", name, err)
	}

	return location, nil
}

// List returns all users, most recently created first. An empty store
// yields an empty slice.
func (s *Store) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, location FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Name, &u.Location); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}

	return users, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
