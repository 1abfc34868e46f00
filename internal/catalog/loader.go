package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/damage-coeff/internal/damage"
)

// Paths helper for default/overlay files.
type Paths struct {
	BaseDir string // catalog directory, e.g., /opt/app/catalog
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "default.yaml")
}
func (p Paths) OverlayPath(overlay string) string {
	return filepath.Join(p.BaseDir, "overlays", overlay+".yaml")
}

// Watched returns the files a watcher should poll for the given overlay.
func (p Paths) Watched(overlay string) []string {
	out := []string{p.DefaultPath()}
	if overlay != "" {
		out = append(out, p.OverlayPath(overlay))
	}
	return out
}

// Loader reads YAML catalogs and merges default → overlay.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]Raw // key: overlay name, "" for default only
}

// NewLoader creates a catalog loader for the given directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]Raw),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads default.yaml and merges the overlay on top (overlay optional).
// The default file is required; a missing overlay file is treated as empty.
func (l *Loader) LoadMerged(overlay string) (Raw, error) {
	l.mu.RLock()
	if raw, ok := l.cache[overlay]; ok {
		l.mu.RUnlock()
		return raw, nil
	}
	l.mu.RUnlock()

	defRaw, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return Raw{}, fmt.Errorf("read default: %w", err)
	}
	if defRaw == nil {
		return Raw{}, fmt.Errorf("read default: %w", os.ErrNotExist)
	}
	merged := *defRaw
	if overlay != "" {
		ovRaw, err := readYAML(l.paths.OverlayPath(overlay))
		if err != nil {
			return Raw{}, fmt.Errorf("read overlay %s: %w", overlay, err)
		}
		if ovRaw != nil {
			merged = mergeRaw(merged, *ovRaw)
		}
	}

	l.mu.Lock()
	l.cache[overlay] = merged
	l.mu.Unlock()

	return merged, nil
}

// Invalidate clears loader's cache. Call after the watcher detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]Raw)
}

// readYAML loads a YAML file. Missing files return nil, no error.
func readYAML(path string) (*Raw, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var raw Raw
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &raw, nil
}

// mergeRaw merges 'b' over 'a'. Enemies and modifiers are matched by id:
// set fields of a matching enemy override, a matching modifier is replaced,
// new ids are appended in b's order.
func mergeRaw(a, b Raw) Raw {
	out := Raw{
		Version: a.Version,
		Notes:   a.Notes,
		Enemies: append([]RawEnemy(nil), a.Enemies...),
	}
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// enemies
	idx := make(map[string]int, len(out.Enemies))
	for i, e := range out.Enemies {
		idx[e.ID] = i
	}
	for _, e := range b.Enemies {
		i, ok := idx[e.ID]
		if !ok {
			idx[e.ID] = len(out.Enemies)
			out.Enemies = append(out.Enemies, e)
			continue
		}
		cur := out.Enemies[i]
		if e.Name != "" {
			cur.Name = e.Name
		}
		if e.Def != nil {
			cur.Def = e.Def
		}
		if e.AdditionalDefCoeff != nil {
			cur.AdditionalDefCoeff = e.AdditionalDefCoeff
		}
		if e.HP != nil {
			cur.HP = e.HP
		}
		if e.ValidFrom != nil {
			cur.ValidFrom = e.ValidFrom
		}
		if e.ValidUntil != nil {
			cur.ValidUntil = e.ValidUntil
		}
		out.Enemies[i] = cur
	}

	// modifiers
	if len(a.Modifiers) > 0 || len(b.Modifiers) > 0 {
		out.Modifiers = make(map[Category][]damage.Modifier)
	}
	for c, ms := range a.Modifiers {
		out.Modifiers[c] = append([]damage.Modifier(nil), ms...)
	}
	for c, ms := range b.Modifiers {
		cur := out.Modifiers[c]
		pos := make(map[string]int, len(cur))
		for i, m := range cur {
			pos[m.ID] = i
		}
		for _, m := range ms {
			if i, ok := pos[m.ID]; ok {
				cur[i] = m
				continue
			}
			pos[m.ID] = len(cur)
			cur = append(cur, m)
		}
		out.Modifiers[c] = cur
	}

	return out
}
