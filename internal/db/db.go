package db

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// ErrLocked is returned when another process already owns the data directory
var ErrLocked = errors.New("database is in use by another daybook process")

// DB wraps the database connection and the lock that makes this process
// the only writer
type DB struct {
	*sql.DB
	lock *flock.Flock
	sb   sq.StatementBuilderType
}

// New opens the database at path and initializes the schema. lockPath is
// locked exclusively for the lifetime of the DB; pass "" to skip locking.
func New(path, lockPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	var lock *flock.Flock
	if lockPath != "" {
		if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
			return nil, err
		}
		lock = flock.New(lockPath)
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("failed to lock %s: %w", lockPath, err)
		}
		if !locked {
			return nil, ErrLocked
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		unlock(lock)
		return nil, err
	}
	// A single connection keeps ":memory:" databases coherent and matches the
	// one-writer model.
	db.SetMaxOpenConns(1)

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		unlock(lock)
		return nil, err
	}

	return &DB{
		DB:   db,
		lock: lock,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

// Close closes the connection and releases the lock
func (db *DB) Close() error {
	err := db.DB.Close()
	unlock(db.lock)
	return err
}

func unlock(l *flock.Flock) {
	if l != nil {
		_ = l.Unlock()
	}
}

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(key string) (string, error) {
	query, args, err := db.sb.Select("value").From("settings").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", err
	}
	var value string
	err = db.QueryRow(query, args...).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
