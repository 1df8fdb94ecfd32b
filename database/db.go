package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"priority-notes/models"

	_ "github.com/mattn/go-sqlite3"
)

// schemaVersion is stored in PRAGMA user_version. A file carrying any other
// non-zero version is rebuilt from scratch.
const schemaVersion = 1

type DB struct {
	*sql.DB
	path string
}

func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Enable WAL mode so readers never block the writer
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &DB{DB: db, path: dbPath}, nil
}

// Path returns the file the database was opened from
func (db *DB) Path() string {
	return db.path
}

// Migrate brings the schema to schemaVersion. The first time a file is
// created the placeholder notes are inserted in the same transaction, so the
// seed happens exactly once per file.
func (db *DB) Migrate() error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer tx.Rollback()

	var version int
	if err := tx.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version == schemaVersion {
		return tx.Commit()
	}

	queries := []string{}
	if version != 0 {
		// Unknown version, start over
		queries = append(queries, `DROP TABLE IF EXISTS note_table`)
	}
	queries = append(queries,
		`CREATE TABLE IF NOT EXISTS note_table (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			priority INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_note_priority ON note_table(priority, id)`,
	)

	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	for _, note := range models.PlaceholderNotes() {
		if _, err := tx.Exec(
			`INSERT INTO note_table (title, description, priority) VALUES (?, ?, ?)`,
			note.Title, note.Description, note.Priority,
		); err != nil {
			return fmt.Errorf("failed to seed notes: %w", err)
		}
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}

	return tx.Commit()
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// ==================== PROCESS-WIDE HANDLE ====================

var (
	instanceMu sync.Mutex
	instance   *DB
)

// Instance returns the process-wide database, opening and migrating it on the
// first call. Concurrent first callers block on the same mutex and all get the
// same handle. A failed open is not remembered, the next call tries again.
// The path of later calls is ignored once a handle exists.
func Instance(dbPath string) (*DB, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance != nil {
		return instance, nil
	}

	db, err := New(dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	instance = db
	return instance, nil
}

// CloseInstance closes the process-wide database. The next Instance call
// opens it again.
func CloseInstance() error {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance == nil {
		return nil
	}
	err := instance.Close()
	instance = nil
	return err
}
