// Package storage provides the SQLite run journal.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/Veraticus/docsift/internal/common"
	"github.com/Veraticus/docsift/internal/service"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var _ service.Journal = (*SQLiteStorage)(nil)

// SQLiteStorage implements the Journal interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
	retry  common.RetryOptions
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dsn := dbPath
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: an in-memory database lives and dies with it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// SetRetryOptions configures retries of writes that hit a busy database.
func (s *SQLiteStorage) SetRetryOptions(opts common.RetryOptions) {
	s.retry = opts
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// withRetry runs op, retrying while SQLite reports the database busy or locked.
func (s *SQLiteStorage) withRetry(ctx context.Context, op func() error) error {
	return common.WithRetry(ctx, func() error {
		return busyError(op())
	}, s.retry)
}

// busyError marks SQLITE_BUSY and SQLITE_LOCKED failures as retryable.
func busyError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return fmt.Errorf("%w: %w", common.ErrDatabaseBusy, err)
	}
	return err
}
