package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// NewConnection opens (or creates) the SQLite database at path.
func NewConnection(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{db}, nil
}

// Open connects to path and applies pending migrations.
func Open(path string) (*DB, error) {
	db, err := NewConnection(path)
	if err != nil {
		return nil, err
	}

	if _, err := RunMigrations(db.DB); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
