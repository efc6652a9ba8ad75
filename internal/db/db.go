// Package db stores the activation history ledger in SQLite.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

const schemaVersion = 1

// DB represents the database with separate read/write pools
type DB struct {
	write *sql.DB
	read  *sql.DB
	path  string
}

// New opens (creating if needed) the database at dbPath and applies the schema.
func New(ctx context.Context, dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)

	// Write pool: MUST be 1 connection only
	write, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open write connection: %w", err)
	}
	write.SetMaxOpenConns(1)
	write.SetMaxIdleConns(1)
	write.SetConnMaxIdleTime(time.Minute)
	write.SetConnMaxLifetime(time.Hour)

	read, err := sql.Open("sqlite", connStr)
	if err != nil {
		write.Close()
		return nil, fmt.Errorf("open read connection: %w", err)
	}
	read.SetMaxOpenConns(4)
	read.SetMaxIdleConns(2)
	read.SetConnMaxIdleTime(time.Minute)
	read.SetConnMaxLifetime(time.Hour)

	db := &DB{
		write: write,
		read:  read,
		path:  dbPath,
	}

	if err := db.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Path returns the database file location.
func (db *DB) Path() string {
	return db.path
}

// Close closes both database connections
func (db *DB) Close() error {
	writeErr := db.write.Close()
	readErr := db.read.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}

func (db *DB) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS activations (
    activation_id TEXT PRIMARY KEY,
    version TEXT NOT NULL,
    os TEXT NOT NULL,
    arch TEXT NOT NULL,
    source TEXT,
    executable_path TEXT NOT NULL,
    pointer_path TEXT NOT NULL,
    cache_hit INTEGER NOT NULL DEFAULT 0,
    version_line TEXT,
    activated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activations_version ON activations(version);
CREATE INDEX IF NOT EXISTS idx_activations_at ON activations(activated_at);

CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    description TEXT
);
	`

	if _, err := db.write.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	_, err := db.write.ExecContext(ctx,
		"INSERT OR IGNORE INTO schema_migrations (version, description) VALUES (?, ?)",
		schemaVersion, "activation history")
	if err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return nil
}

// Activation is one successful pointer switch.
type Activation struct {
	ID             string
	Version        string
	OS             string
	Arch           string
	Source         string
	ExecutablePath string
	PointerPath    string
	CacheHit       bool
	VersionLine    string
	ActivatedAt    time.Time
}

// Record inserts an activation. ID and ActivatedAt are filled in when empty.
func (db *DB) Record(ctx context.Context, a *Activation) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.ActivatedAt.IsZero() {
		a.ActivatedAt = time.Now()
	}
	a.ActivatedAt = a.ActivatedAt.UTC()

	query := `
INSERT INTO activations (activation_id, version, os, arch, source, executable_path, pointer_path, cache_hit, version_line, activated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.write.ExecContext(ctx, query,
		a.ID,
		a.Version,
		a.OS,
		a.Arch,
		a.Source,
		a.ExecutablePath,
		a.PointerPath,
		a.CacheHit,
		a.VersionLine,
		a.ActivatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activation: %w", err)
	}

	return nil
}

const selectColumns = `activation_id, version, os, arch, COALESCE(source, ''), executable_path, pointer_path, cache_hit, COALESCE(version_line, ''), activated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanActivation(s scanner) (*Activation, error) {
	var a Activation
	err := s.Scan(
		&a.ID,
		&a.Version,
		&a.OS,
		&a.Arch,
		&a.Source,
		&a.ExecutablePath,
		&a.PointerPath,
		&a.CacheHit,
		&a.VersionLine,
		&a.ActivatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Get retrieves an activation by ID
func (db *DB) Get(ctx context.Context, id string) (*Activation, error) {
	row := db.read.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM activations WHERE activation_id = ?", id)

	a, err := scanActivation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: activation %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query activation: %w", err)
	}
	return a, nil
}

// List returns activations newest first. limit <= 0 returns everything.
func (db *DB) List(ctx context.Context, limit int) ([]Activation, error) {
	query := "SELECT " + selectColumns + " FROM activations ORDER BY activated_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.read.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activations: %w", err)
	}
	defer rows.Close()

	var out []Activation
	for rows.Next() {
		a, err := scanActivation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activation: %w", err)
		}
		out = append(out, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}
