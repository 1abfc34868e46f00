package pattern

import (
	"errors"
	"strconv"
	"sync"

	"github.com/xtding233/damage-coeff/internal/catalog"
	"github.com/xtding233/damage-coeff/internal/damage"
)

var ErrNotFound = errors.New("pattern not found")

// Entry pairs the user's input with the resolved, ranked pattern.
type Entry struct {
	Input   Input          `json:"input"`
	Pattern damage.Pattern `json:"pattern"`
	Totals  Totals         `json:"totals"`
}

// Book keeps patterns in insertion order. Patterns are independent: adding,
// updating or removing one never touches another.
type Book struct {
	repo   catalog.Repository
	random *damage.RandomCoeffConfig

	mu      sync.RWMutex
	next    int
	entries []Entry
}

type BookOption func(*Book)

// WithRandomDefault sets the damage roll for inputs that leave it out.
func WithRandomDefault(rc damage.RandomCoeffConfig) BookOption {
	return func(b *Book) { b.random = &rc }
}

// NewBook creates an empty book resolving inputs against repo.
func NewBook(repo catalog.Repository, opts ...BookOption) *Book {
	b := &Book{repo: repo}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Book) resolve(id string, in Input) (Entry, error) {
	cfg, err := in.Resolve(b.repo)
	if err != nil {
		return Entry{}, err
	}
	if in.Random == nil && b.random != nil {
		cfg.Random = *b.random
	}
	name := in.Name
	if name == "" {
		name = "Pattern " + id[1:]
	}
	return Entry{
		Input:   in,
		Pattern: damage.NewPattern(id, name, cfg),
		Totals:  in.Totals(b.repo),
	}, nil
}

// Add resolves in and appends it as a new pattern.
func (b *Book) Add(in Input) (Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := "p" + strconv.Itoa(b.next+1)
	e, err := b.resolve(id, in)
	if err != nil {
		return Entry{}, err
	}
	b.next++
	b.entries = append(b.entries, e)
	return e, nil
}

// Update replaces the input of pattern id and recomputes its factor.
func (b *Book) Update(id string, in Input) (Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(id)
	if i < 0 {
		return Entry{}, ErrNotFound
	}
	e, err := b.resolve(id, in)
	if err != nil {
		return Entry{}, err
	}
	b.entries[i] = e
	return e, nil
}

// Remove deletes pattern id.
func (b *Book) Remove(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(id)
	if i < 0 {
		return ErrNotFound
	}
	b.entries = append(b.entries[:i], b.entries[i+1:]...)
	return nil
}

// Get returns pattern id.
func (b *Book) Get(id string) (Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i := b.index(id)
	if i < 0 {
		return Entry{}, ErrNotFound
	}
	return b.entries[i], nil
}

// List returns every entry in insertion order.
func (b *Book) List() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Entry(nil), b.entries...)
}

// Ranked returns the patterns ordered by optimization factor.
func (b *Book) Ranked() []damage.Pattern {
	return damage.RankPatterns(b.patterns())
}

// Best returns the top pattern, false when the book is empty.
func (b *Book) Best() (damage.Pattern, bool) {
	p, _, ok := damage.BestPattern(b.patterns())
	return p, ok
}

// Refresh re-resolves every entry against the current catalog. Entries that
// no longer resolve keep their previous result.
func (b *Book) Refresh() []error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for i, e := range b.entries {
		ne, err := b.resolve(e.Pattern.ID, e.Input)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.entries[i] = ne
	}
	return errs
}

func (b *Book) patterns() []damage.Pattern {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]damage.Pattern, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Pattern
	}
	return out
}

func (b *Book) index(id string) int {
	for i, e := range b.entries {
		if e.Pattern.ID == id {
			return i
		}
	}
	return -1
}
