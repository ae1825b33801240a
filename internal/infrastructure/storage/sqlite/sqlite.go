package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Storage локальная SQLite база для разработки и офлайн-прогонов
type Storage struct {
	db *sql.DB
}

func New(path string) (*Storage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}
	// один писатель, иначе WAL отдает SQLITE_BUSY под нагрузкой
	db.SetMaxOpenConns(1)

	storage := &Storage{db: db}

	if err := storage.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return storage, nil
}

func (s *Storage) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			sku TEXT,
			name TEXT NOT NULL DEFAULT '',
			legacy_item_id TEXT,
			brand_id TEXT,
			created_date DATETIME NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS items_legacy_item_id_key
			ON items(legacy_item_id)
			WHERE legacy_item_id IS NOT NULL AND trim(legacy_item_id) <> '';
		CREATE INDEX IF NOT EXISTS items_created_idx ON items(created_date);

		CREATE TABLE IF NOT EXISTS sync_runs (
			id TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			dry_run BOOLEAN NOT NULL DEFAULT 0,
			cancelled BOOLEAN NOT NULL DEFAULT 0,
			planned INTEGER NOT NULL DEFAULT 0,
			updated_count INTEGER NOT NULL DEFAULT 0,
			not_found_count INTEGER NOT NULL DEFAULT 0,
			conflict_count INTEGER NOT NULL DEFAULT 0,
			error_count INTEGER NOT NULL DEFAULT 0,
			reason TEXT NOT NULL DEFAULT '',
			results TEXT NOT NULL DEFAULT '[]',
			started_at DATETIME NOT NULL,
			finished_at DATETIME
		);

		CREATE INDEX IF NOT EXISTS sync_runs_started_idx ON sync_runs(started_at);
	`)

	return err
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) DB() *sql.DB {
	return s.db
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
