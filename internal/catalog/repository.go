// repository.go
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/xtding233/damage-coeff/internal/damage"
)

var ErrEnemyNotFound = errors.New("enemy not found")

// Repository is the read-only view of reference data the pipeline consumes.
type Repository interface {
	Lookup(id string) (Enemy, bool)
	Enemies() []Enemy
	Modifiers(c Category) []damage.Modifier
}

// snapshot is immutable once built.
type snapshot struct {
	version   string
	enemies   []Enemy
	byID      map[string]int
	modifiers map[Category][]damage.Modifier
}

func build(raw Raw) *snapshot {
	s := &snapshot{
		version:   raw.Version,
		enemies:   make([]Enemy, 0, len(raw.Enemies)),
		byID:      make(map[string]int, len(raw.Enemies)),
		modifiers: make(map[Category][]damage.Modifier, len(raw.Modifiers)),
	}
	for _, re := range raw.Enemies {
		s.byID[re.ID] = len(s.enemies)
		s.enemies = append(s.enemies, re.normalize())
	}
	for c, ms := range raw.Modifiers {
		s.modifiers[c] = append([]damage.Modifier(nil), ms...)
	}
	return s
}

// Store serves lookups from the current snapshot. Replace swaps in a new one
// without blocking readers.
type Store struct {
	cur atomic.Pointer[snapshot]
}

// NewStore validates raw and builds a Store from it.
func NewStore(raw Raw) (*Store, error) {
	if err := ValidateRaw(raw); err != nil {
		return nil, err
	}
	s := &Store{}
	s.cur.Store(build(raw))
	return s, nil
}

// Open loads, validates and builds a Store in one step.
func Open(l *Loader, overlay string) (*Store, error) {
	raw, err := l.LoadMerged(overlay)
	if err != nil {
		return nil, err
	}
	return NewStore(raw)
}

// Replace validates raw and swaps it in. On error the old snapshot stays.
func (s *Store) Replace(raw Raw) error {
	if err := ValidateRaw(raw); err != nil {
		return err
	}
	s.cur.Store(build(raw))
	return nil
}

// Reload re-reads the catalog files through l and swaps the result in.
func (s *Store) Reload(l *Loader, overlay string) error {
	l.Invalidate()
	raw, err := l.LoadMerged(overlay)
	if err != nil {
		return fmt.Errorf("reload catalog: %w", err)
	}
	if err := s.Replace(raw); err != nil {
		return fmt.Errorf("reload catalog: %w", err)
	}
	slog.Info("catalog reloaded", "version", raw.Version, "overlay", overlay, "enemies", len(raw.Enemies))
	return nil
}

func (s *Store) Version() string { return s.cur.Load().version }

// Lookup finds an enemy by id regardless of its validity window.
func (s *Store) Lookup(id string) (Enemy, bool) {
	snap := s.cur.Load()
	i, ok := snap.byID[id]
	if !ok {
		return Enemy{}, false
	}
	return snap.enemies[i], true
}

// Get is Lookup with an error for callers that propagate it.
func (s *Store) Get(id string) (Enemy, error) {
	e, ok := s.Lookup(id)
	if !ok {
		return Enemy{}, fmt.Errorf("%w: %s", ErrEnemyNotFound, id)
	}
	return e, nil
}

// Enemies returns every entry in catalog order.
func (s *Store) Enemies() []Enemy {
	return append([]Enemy(nil), s.cur.Load().enemies...)
}

// ActiveEnemies returns the entries whose validity window contains t.
func (s *Store) ActiveEnemies(t time.Time) []Enemy {
	var out []Enemy
	for _, e := range s.cur.Load().enemies {
		if e.ActiveAt(t) {
			out = append(out, e)
		}
	}
	return out
}

// Modifiers returns the options of one category, nil if it is empty.
func (s *Store) Modifiers(c Category) []damage.Modifier {
	ms := s.cur.Load().modifiers[c]
	if len(ms) == 0 {
		return nil
	}
	return append([]damage.Modifier(nil), ms...)
}
