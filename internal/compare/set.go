// Package compare implements the visitor's compare set: a small list of plan
// IDs persisted per session, plus the projections used by the compare tray
// and the full side-by-side comparison.
package compare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/HerbHall/comparenet/internal/services"
)

// DefaultStorageKey is the key the compare set is stored under.
const DefaultStorageKey = "comparePlans"

// MinForComparison is how many resolvable plans a full comparison needs.
const MinForComparison = 2

// ErrUnknownPlan is returned when an ID does not exist in the catalog.
var ErrUnknownPlan = errors.New("plan not in catalog")

// Storage is the fallible key/value store the set persists to.
type Storage interface {
	Get(ctx context.Context, session, key string) (*services.StateEntry, error)
	Put(ctx context.Context, session, key, value string) error
}

// Slot is one storage key within one session. Load never fails: missing or
// unreadable values come back as an empty list.
type Slot struct {
	storage Storage
	session string
	key     string
	logger  *zap.Logger
}

// NewSlot returns the slot for key in session.
func NewSlot(storage Storage, session, key string, logger *zap.Logger) Slot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Slot{storage: storage, session: session, key: key, logger: logger}
}

// Load reads and decodes the stored ID list.
func (s Slot) Load(ctx context.Context) []int {
	entry, err := s.storage.Get(ctx, s.session, s.key)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			s.logger.Warn("compare set unreadable, starting empty",
				zap.String("key", s.key), zap.Error(err))
		}
		return []int{}
	}

	var ids []int
	if err := json.Unmarshal([]byte(entry.Value), &ids); err != nil {
		s.logger.Debug("compare set corrupt, starting empty",
			zap.String("key", s.key), zap.String("value", entry.Value), zap.Error(err))
		return []int{}
	}
	if ids == nil {
		return []int{}
	}
	return dedupe(ids)
}

// Save encodes ids as a JSON array and writes it.
func (s Slot) Save(ctx context.Context, ids []int) error {
	if ids == nil {
		ids = []int{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode compare set: %w", err)
	}
	if err := s.storage.Put(ctx, s.session, s.key, string(raw)); err != nil {
		return fmt.Errorf("save compare set: %w", err)
	}
	return nil
}

// State classifies a set by size.
type State string

const (
	StateEmpty  State = "empty"
	StateSingle State = "single"
	StateReady  State = "ready"
)

// Set is an insertion-ordered set of plan IDs. Every mutation is written
// through to its Slot.
type Set struct {
	ids  []int
	slot Slot
}

// Restore seeds a Set from slot.
func Restore(ctx context.Context, slot Slot) *Set {
	return &Set{ids: slot.Load(ctx), slot: slot}
}

// IDs returns a copy of the selected IDs in insertion order.
func (s *Set) IDs() []int {
	return slices.Clone(s.ids)
}

// Len returns the number of selected IDs.
func (s *Set) Len() int {
	return len(s.ids)
}

// Contains reports whether id is selected.
func (s *Set) Contains(id int) bool {
	return slices.Contains(s.ids, id)
}

// State returns empty, single or ready (two or more).
func (s *Set) State() State {
	switch {
	case len(s.ids) == 0:
		return StateEmpty
	case len(s.ids) < MinForComparison:
		return StateSingle
	default:
		return StateReady
	}
}

// Toggle removes id if present and appends it otherwise. It reports whether
// id is selected afterwards.
func (s *Set) Toggle(ctx context.Context, id int) (bool, error) {
	added := false
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
	} else {
		s.ids = append(s.ids, id)
		added = true
	}
	return added, s.slot.Save(ctx, s.ids)
}

// Remove deletes id if present. The set is persisted either way.
func (s *Set) Remove(ctx context.Context, id int) error {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
	}
	return s.slot.Save(ctx, s.ids)
}

// Clear empties the set.
func (s *Set) Clear(ctx context.Context) error {
	s.ids = []int{}
	return s.slot.Save(ctx, s.ids)
}

func dedupe(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
