// Package cache persists lint results between runs in a SQLite database, so
// files whose content and lint settings are unchanged are not parsed again.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const (
	// DirName is the project-relative directory holding the cache database.
	DirName = ".leaplint"
	// FileName is the name of the cache database inside DirName.
	FileName = "cache.db"
)

// DefaultPath returns the cache database location for a project root.
func DefaultPath(root string) string {
	return filepath.Join(root, DirName, FileName)
}

// Store is a lint result cache backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the cache database at path and applies
// pending migrations. Use ":memory:" for a throwaway cache.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// An in-memory database lives only as long as its connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// newStore wraps an already migrated connection.
func newStore(db *sql.DB, path string) *Store {
	return &Store{db: db, path: path}
}

// Path returns the location the store was opened with.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// HashContent returns the hex SHA-256 digest of a file's content.
func HashContent(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// SettingsKey fingerprints everything besides file content that affects
// lint results. Each part must be JSON-serializable.
func SettingsKey(parts ...any) (string, error) {
	data, err := json.Marshal(parts)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings key: %w", err)
	}
	return HashContent(data), nil
}
