// Package store opens the SQL databases that hold per-session state and
// applies versioned schema migrations to them.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Dialect identifies the SQL flavour behind a Store.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Migration is a single forward-only schema change.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// Store is the database handle shared by repositories.
type Store interface {
	DB() *sql.DB
	Dialect() Dialect
	// Rebind rewrites ? placeholders for the store's dialect.
	Rebind(query string) string
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error
	Migrate(ctx context.Context, component string, migrations []Migration) error
	Close() error
}

// sqlStore holds the dialect-independent parts of a Store.
type sqlStore struct {
	db      *sql.DB
	dialect Dialect
	mu      sync.Mutex // Serialize migrations
	once    sync.Once  // Ensure _migrations table created once
	onceErr error
}

// DB returns the underlying *sql.DB for direct queries.
func (s *sqlStore) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL flavour of the store.
func (s *sqlStore) Dialect() Dialect {
	return s.dialect
}

// Rebind converts ? placeholders to $1, $2, ... for Postgres. SQLite queries
// are returned unchanged.
func (s *sqlStore) Rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Tx executes fn within a database transaction. The transaction is
// committed if fn returns nil, rolled back otherwise.
func (s *sqlStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}

// Migrate runs pending migrations for the named component. Already-applied
// migrations (tracked in the shared _migrations table) are skipped.
// Migrations must be provided in ascending Version order.
func (s *sqlStore) Migrate(ctx context.Context, component string, migrations []Migration) error {
	if err := s.ensureMigrationsTable(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range migrations {
		applied, err := s.isMigrationApplied(ctx, component, m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := s.applyMigration(ctx, component, m); err != nil {
			return fmt.Errorf("migration %s/%d (%s): %w", component, m.Version, m.Description, err)
		}
	}

	return nil
}

// Close closes the underlying database connection.
func (s *sqlStore) Close() error {
	return s.db.Close()
}

func (s *sqlStore) ensureMigrationsTable(ctx context.Context) error {
	s.once.Do(func() {
		_, s.onceErr = s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS _migrations (
				component   TEXT      NOT NULL,
				version     INTEGER   NOT NULL,
				description TEXT      NOT NULL,
				applied_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (component, version)
			)
		`)
	})
	if s.onceErr != nil {
		return fmt.Errorf("create _migrations: %w", s.onceErr)
	}
	return nil
}

func (s *sqlStore) isMigrationApplied(ctx context.Context, component string, version int) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		s.Rebind("SELECT COUNT(*) FROM _migrations WHERE component = ? AND version = ?"),
		component, version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check migration %s/%d: %w", component, version, err)
	}
	return count > 0, nil
}

func (s *sqlStore) applyMigration(ctx context.Context, component string, m Migration) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		if err := m.Up(tx); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			s.Rebind("INSERT INTO _migrations (component, version, description) VALUES (?, ?, ?)"),
			component, m.Version, m.Description,
		)
		return err
	})
}
