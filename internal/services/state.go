package services

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/HerbHall/comparenet/internal/store"
)

// StateEntry is one value stored for a visitor session.
type StateEntry struct {
	Session   string    `json:"session"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StateRepository is a per-session key/value store. It stands in for the
// browser's local storage: each session sees only its own keys.
type StateRepository interface {
	// Get returns a single entry, or ErrNotFound.
	Get(ctx context.Context, session, key string) (*StateEntry, error)

	// List returns all entries for a session, ordered by key.
	List(ctx context.Context, session string) ([]StateEntry, error)

	// Put creates or replaces an entry.
	Put(ctx context.Context, session, key, value string) error

	// Delete removes an entry, or returns ErrNotFound.
	Delete(ctx context.Context, session, key string) error

	// Purge removes entries last written before cutoff and returns how many
	// were removed.
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// Compile-time interface guards.
var (
	_ StateRepository = (*SQLStateRepository)(nil)
	_ StateRepository = (*MemoryStateRepository)(nil)
)

// SQLStateRepository implements StateRepository on a SQLite or Postgres store.
type SQLStateRepository struct {
	store store.Store
	now   func() time.Time
}

// NewSQLiteStateRepository creates a StateRepository on SQLite and runs the
// session_state migration.
func NewSQLiteStateRepository(ctx context.Context, s *store.SQLiteStore) (*SQLStateRepository, error) {
	return newSQLStateRepository(ctx, s)
}

// NewPostgresStateRepository creates a StateRepository on Postgres and runs
// the session_state migration.
func NewPostgresStateRepository(ctx context.Context, s *store.PostgresStore) (*SQLStateRepository, error) {
	return newSQLStateRepository(ctx, s)
}

func newSQLStateRepository(ctx context.Context, s store.Store) (*SQLStateRepository, error) {
	if err := s.Migrate(ctx, "state", stateMigrations); err != nil {
		return nil, fmt.Errorf("session state migrations: %w", err)
	}
	return &SQLStateRepository{store: s, now: func() time.Time { return time.Now().UTC() }}, nil
}

// WithClock replaces the time source used to stamp writes.
func (r *SQLStateRepository) WithClock(now func() time.Time) *SQLStateRepository {
	r.now = now
	return r
}

func (r *SQLStateRepository) Get(ctx context.Context, session, key string) (*StateEntry, error) {
	e := StateEntry{Session: session, Key: key}
	err := r.store.DB().QueryRowContext(ctx,
		r.store.Rebind(`SELECT value, updated_at FROM session_state WHERE session_id = ? AND key = ?`),
		session, key,
	).Scan(&e.Value, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get state %q: %w", key, err)
	}
	return &e, nil
}

func (r *SQLStateRepository) List(ctx context.Context, session string) ([]StateEntry, error) {
	rows, err := r.store.DB().QueryContext(ctx,
		r.store.Rebind(`SELECT key, value, updated_at FROM session_state WHERE session_id = ? ORDER BY key`),
		session)
	if err != nil {
		return nil, fmt.Errorf("list state: %w", err)
	}
	defer rows.Close()

	var entries []StateEntry
	for rows.Next() {
		e := StateEntry{Session: session}
		if err := rows.Scan(&e.Key, &e.Value, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan state row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLStateRepository) Put(ctx context.Context, session, key, value string) error {
	if session == "" || key == "" {
		return fmt.Errorf("put state: empty session or key: %w", ErrInvalidInput)
	}
	_, err := r.store.DB().ExecContext(ctx, r.store.Rebind(`
		INSERT INTO session_state (session_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		session, key, value, r.now(),
	)
	if err != nil {
		return fmt.Errorf("put state %q: %w", key, err)
	}
	return nil
}

func (r *SQLStateRepository) Delete(ctx context.Context, session, key string) error {
	res, err := r.store.DB().ExecContext(ctx,
		r.store.Rebind(`DELETE FROM session_state WHERE session_id = ? AND key = ?`), session, key)
	if err != nil {
		return fmt.Errorf("delete state %q: %w", key, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLStateRepository) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.store.DB().ExecContext(ctx,
		r.store.Rebind(`DELETE FROM session_state WHERE updated_at < ?`), cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge state: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// stateMigrations defines the database schema for session_state.
var stateMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create session_state table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE session_state (
					session_id TEXT      NOT NULL,
					key        TEXT      NOT NULL,
					value      TEXT      NOT NULL,
					updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (session_id, key)
				)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "index session_state by updated_at",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX idx_session_state_updated_at ON session_state (updated_at)`)
			return err
		},
	},
}

// MemoryStateRepository is a process-local StateRepository. State is lost on
// restart.
type MemoryStateRepository struct {
	mu      sync.RWMutex
	entries map[string]map[string]StateEntry
	now     func() time.Time
}

// NewMemoryStateRepository returns an empty in-memory repository.
func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{
		entries: make(map[string]map[string]StateEntry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used to stamp writes.
func (r *MemoryStateRepository) WithClock(now func() time.Time) *MemoryStateRepository {
	r.now = now
	return r
}

func (r *MemoryStateRepository) Get(_ context.Context, session, key string) (*StateEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[session][key]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (r *MemoryStateRepository) List(_ context.Context, session string) ([]StateEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []StateEntry
	for _, e := range r.entries[session] {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b StateEntry) int { return cmp.Compare(a.Key, b.Key) })
	return out, nil
}

func (r *MemoryStateRepository) Put(_ context.Context, session, key, value string) error {
	if session == "" || key == "" {
		return fmt.Errorf("put state: empty session or key: %w", ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	keys, ok := r.entries[session]
	if !ok {
		keys = make(map[string]StateEntry)
		r.entries[session] = keys
	}
	keys[key] = StateEntry{Session: session, Key: key, Value: value, UpdatedAt: r.now()}
	return nil
}

func (r *MemoryStateRepository) Delete(_ context.Context, session, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[session][key]; !ok {
		return ErrNotFound
	}
	delete(r.entries[session], key)
	if len(r.entries[session]) == 0 {
		delete(r.entries, session)
	}
	return nil
}

func (r *MemoryStateRepository) Purge(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for session, keys := range r.entries {
		for key, e := range keys {
			if e.UpdatedAt.Before(cutoff) {
				delete(keys, key)
				n++
			}
		}
		if len(keys) == 0 {
			delete(r.entries, session)
		}
	}
	return n, nil
}
