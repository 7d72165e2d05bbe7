package reviews

import (
	"slices"
	"sync"
)

// VoteObserver is notified after a vote has been applied.
type VoteObserver func(updated Review, dir Direction)

// Summary aggregates ratings across the whole collection.
type Summary struct {
	Count   int
	Average float64
}

// Store owns the canonical review list. It is the only writer; readers
// receive copies and never alias the underlying slice.
type Store struct {
	mu       sync.RWMutex
	reviews  []Review
	version  uint64
	observer VoteObserver
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithVoteObserver registers a hook invoked after each applied vote.
func WithVoteObserver(fn VoteObserver) StoreOption {
	return func(s *Store) {
		s.observer = fn
	}
}

// NewStore seeds a store with the given reviews after validating them.
func NewStore(seed []Review, opts ...StoreOption) (*Store, error) {
	if err := Validate(seed); err != nil {
		return nil, err
	}
	s := &Store{reviews: slices.Clone(seed)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Snapshot returns a copy of the current list in insertion order.
func (s *Store) Snapshot() []Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reviews)
}

// View returns the filtered, sorted subset for the criteria.
func (s *Store) View(c Criteria) []Review {
	return Apply(s.Snapshot(), c)
}

// Get returns the review with the given id.
func (s *Store) Get(id int) (Review, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reviews {
		if r.ID == id {
			return r, true
		}
	}
	return Review{}, false
}

// Vote increments the like or dislike counter of exactly one review and
// returns the resulting snapshot. Unknown ids and directions leave the list
// unchanged; applied reports whether anything changed.
func (s *Store) Vote(id int, dir Direction) (snapshot []Review, applied bool) {
	if dir != Like && dir != Dislike {
		return s.Snapshot(), false
	}

	s.mu.Lock()
	idx := slices.IndexFunc(s.reviews, func(r Review) bool { return r.ID == id })
	if idx < 0 {
		out := slices.Clone(s.reviews)
		s.mu.Unlock()
		return out, false
	}
	updated := s.reviews[idx]
	switch dir {
	case Like:
		updated.Likes++
	case Dislike:
		updated.Dislikes++
	}
	s.reviews[idx] = updated
	s.version++
	out := slices.Clone(s.reviews)
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer(updated, dir)
	}
	return out, true
}

// Version increases by one for every applied vote. Views compare it to
// decide whether a re-render is needed.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Services lists the distinct service names in first-seen order.
func (s *Store) Services() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{}, len(s.reviews))
	out := make([]string, 0, len(s.reviews))
	for _, r := range s.reviews {
		if r.Service == "" {
			continue
		}
		if _, ok := seen[r.Service]; ok {
			continue
		}
		seen[r.Service] = struct{}{}
		out = append(out, r.Service)
	}
	return out
}

// Summary returns the review count and mean rating.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.reviews) == 0 {
		return Summary{}
	}
	total := 0
	for _, r := range s.reviews {
		total += r.Rating
	}
	return Summary{
		Count:   len(s.reviews),
		Average: float64(total) / float64(len(s.reviews)),
	}
}
