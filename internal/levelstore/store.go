// Package levelstore archives generated levels in SQLite or PostgreSQL so a
// seed's output can be looked up, compared and replayed later.
package levelstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/lawnchairsociety/delvegen/internal/logger"
)

// Store wraps the connection and the dialect it speaks.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Open opens or creates the SQLite archive at the given path.
func Open(path string) (*Store, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the archive described by cfg and makes sure the
// schema exists.
func OpenWithConfig(cfg Config) (*Store, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	var dsn string
	if dialect.IsPostgres() {
		dsn = cfg.Postgres.DSN()
	} else {
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = cfg.SQLitePath
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect.IsPostgres() {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
	} else {
		// One writer keeps the WAL pragma and busy timeout on the same connection.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	s := &Store{db: db, dialect: dialect}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug("level store opened", "driver", dialect.DriverName())
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS levels (
			id ` + s.dialect.SerialPrimaryKey() + `,
			depth INTEGER NOT NULL,
			seed BIGINT NOT NULL,
			name TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			fingerprint TEXT UNIQUE NOT NULL,
			tiles TEXT NOT NULL,
			spawns TEXT NOT NULL DEFAULT '[]',
			entrances TEXT NOT NULL DEFAULT '{}',
			start_x INTEGER,
			start_y INTEGER,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_levels_depth ON levels(depth)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
