// Package gallery holds the before/after showcase and the single-selection
// overlay state.
package gallery

import (
	"errors"
	"fmt"
	"sync"
)

// Pair is one before/after showcase entry.
type Pair struct {
	Slug        string `yaml:"slug"`
	Before      string `yaml:"before"`
	After       string `yaml:"after"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// ErrUnknownPair is returned when a slug is not in the catalog.
var ErrUnknownPair = errors.New("gallery: unknown pair")

// Catalog is an ordered, immutable list of pairs indexed by slug.
type Catalog struct {
	pairs  []Pair
	bySlug map[string]int
}

// NewCatalog validates pairs and indexes them. Slugs must be unique and
// non-empty; both images are required.
func NewCatalog(pairs []Pair) (*Catalog, error) {
	c := &Catalog{
		pairs:  make([]Pair, len(pairs)),
		bySlug: make(map[string]int, len(pairs)),
	}
	copy(c.pairs, pairs)
	for i, p := range c.pairs {
		if p.Slug == "" {
			return nil, fmt.Errorf("gallery: pair %d has no slug", i)
		}
		if p.Before == "" || p.After == "" {
			return nil, fmt.Errorf("gallery: pair %q needs both images", p.Slug)
		}
		if _, dup := c.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("gallery: duplicate slug %q", p.Slug)
		}
		c.bySlug[p.Slug] = i
	}
	return c, nil
}

// Pairs returns the pairs in display order.
func (c *Catalog) Pairs() []Pair {
	out := make([]Pair, len(c.pairs))
	copy(out, c.pairs)
	return out
}

// Lookup finds a pair by slug.
func (c *Catalog) Lookup(slug string) (Pair, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Pair{}, false
	}
	return c.pairs[i], true
}

// Len reports the number of pairs.
func (c *Catalog) Len() int { return len(c.pairs) }

// Selector tracks the pair shown in the enlarged overlay. At most one pair
// is selected; selecting replaces, clearing empties.
type Selector struct {
	mu       sync.Mutex
	catalog  *Catalog
	selected *Pair
}

// NewSelector returns a selector with nothing selected.
func NewSelector(catalog *Catalog) *Selector {
	return &Selector{catalog: catalog}
}

// Select shows the pair with the given slug, replacing any previous selection.
func (s *Selector) Select(slug string) (Pair, error) {
	p, ok := s.catalog.Lookup(slug)
	if !ok {
		return Pair{}, ErrUnknownPair
	}
	s.mu.Lock()
	s.selected = &p
	s.mu.Unlock()
	return p, nil
}

// Clear hides the overlay. Clearing an empty selection is a no-op.
func (s *Selector) Clear() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// Selected returns the current selection.
func (s *Selector) Selected() (Pair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return Pair{}, false
	}
	return *s.selected, true
}

// FromQuery builds a selector for a request whose ?pair= parameter carries
// the selected slug. Unknown slugs leave nothing selected.
func FromQuery(catalog *Catalog, slug string) *Selector {
	s := NewSelector(catalog)
	if slug != "" {
		_, _ = s.Select(slug)
	}
	return s
}
