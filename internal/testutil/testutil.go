// Package testutil holds shared helpers for comparenet tests: a test logger,
// a throwaway SQLite store, a manual clock and catalog fixtures.
package testutil

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/HerbHall/comparenet/internal/store"
)

// Logger returns a logger that writes through t.Log, so output is shown only
// for failing or verbose tests.
func Logger(t testing.TB) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.Level(zap.DebugLevel))
}

// NewStore opens a SQLite store in a per-test directory. WAL and the other
// pragmas apply as they do in production. The store is closed on cleanup.
func NewStore(t testing.TB) *store.SQLiteStore {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "comparenet-test.db"))
	if err != nil {
		t.Fatalf("testutil.NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// DefaultTime is where a new Clock starts.
var DefaultTime = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

// Clock is a time source that only moves when told to. Pass clock.Now
// wherever a func() time.Time is accepted.
type Clock struct {
	mu     sync.Mutex
	start  time.Time
	offset time.Duration
}

// NewClock returns a Clock at start, or at DefaultTime when start is omitted.
func NewClock(start ...time.Time) *Clock {
	c := &Clock{start: DefaultTime}
	if len(start) > 0 {
		c.start = start[0]
	}
	return c
}

// Now returns the current reading.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start.Add(c.offset)
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.offset += d
	c.mu.Unlock()
}

// Elapsed is the total of all Advance calls since construction or the last
// Set.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// Set jumps to t and resets Elapsed.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.start, c.offset = t, 0
	c.mu.Unlock()
}
