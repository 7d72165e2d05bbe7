package reviews

import (
	"cmp"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Review is a single customer testimonial.
type Review struct {
	ID       int
	Name     string
	Avatar   string
	Service  string
	Text     string
	Rating   int
	Date     time.Time
	Likes    int
	Dislikes int
	Verified bool
}

// SortKey selects the ordering of the visible review list.
type SortKey string

const (
	// SortRecent orders by date, most recent first.
	SortRecent SortKey = "recent"
	// SortRating orders by rating, highest first.
	SortRating SortKey = "rating"
	// SortLikes orders by helpful votes, most first.
	SortLikes SortKey = "likes"
)

// Direction is the kind of helpful vote cast on a review.
type Direction string

const (
	Like    Direction = "like"
	Dislike Direction = "dislike"
)

const (
	minRating = 1
	maxRating = 5
)

var (
	// ErrInvalidReview is returned when a seed review violates the collection invariants.
	ErrInvalidReview = errors.New("reviews: invalid review")
	// ErrDuplicateID is returned when two seed reviews share an id.
	ErrDuplicateID = errors.New("reviews: duplicate id")
)

// Criteria is the transient filter/sort state of the review view.
// A zero Rating or empty Service means "no filter".
type Criteria struct {
	Rating  int
	Service string
	Sort    SortKey
}

// ParseSortKey maps a query value onto a SortKey, defaulting to SortRecent.
func ParseSortKey(v string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(v))) {
	case SortRating:
		return SortRating
	case SortLikes:
		return SortLikes
	default:
		return SortRecent
	}
}

// ParseDirection maps a form value onto a Direction.
func ParseDirection(v string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(v))) {
	case Like:
		return Like, true
	case Dislike:
		return Dislike, true
	default:
		return "", false
	}
}

// ParseCriteria reads rating, service and sort from query values.
// Values that cannot be parsed or fall outside [1,5] clear the rating filter.
func ParseCriteria(q url.Values) Criteria {
	c := Criteria{
		Service: q.Get("service"),
		Sort:    ParseSortKey(q.Get("sort")),
	}
	if raw := strings.TrimSpace(q.Get("rating")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= minRating && n <= maxRating {
			c.Rating = n
		}
	}
	return c
}

// Query encodes the criteria back into query values, omitting defaults.
func (c Criteria) Query() url.Values {
	q := url.Values{}
	if c.Rating != 0 {
		q.Set("rating", strconv.Itoa(c.Rating))
	}
	if c.Service != "" {
		q.Set("service", c.Service)
	}
	if c.Sort != "" && c.Sort != SortRecent {
		q.Set("sort", string(c.Sort))
	}
	return q
}

// Matches reports whether r satisfies every active filter predicate.
func (c Criteria) Matches(r Review) bool {
	if c.Rating != 0 && r.Rating != c.Rating {
		return false
	}
	if c.Service != "" && r.Service != c.Service {
		return false
	}
	return true
}

// Filter returns the reviews matching the criteria in their original order.
// The input slice is never modified.
func Filter(list []Review, c Criteria) []Review {
	out := make([]Review, 0, len(list))
	for _, r := range list {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a stably ordered copy of list. Equal keys keep their input order.
func Sort(list []Review, key SortKey) []Review {
	out := slices.Clone(list)
	switch key {
	case SortRating:
		slices.SortStableFunc(out, func(a, b Review) int { return cmp.Compare(b.Rating, a.Rating) })
	case SortLikes:
		slices.SortStableFunc(out, func(a, b Review) int { return cmp.Compare(b.Likes, a.Likes) })
	default:
		slices.SortStableFunc(out, func(a, b Review) int { return b.Date.Compare(a.Date) })
	}
	return out
}

// Apply filters and then sorts list according to c.
func Apply(list []Review, c Criteria) []Review {
	return Sort(Filter(list, c), c.Sort)
}

// Validate checks the collection invariants: unique ids, ratings in [1,5]
// and non-negative vote counts.
func Validate(list []Review) error {
	seen := make(map[int]struct{}, len(list))
	for _, r := range list {
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.Rating < minRating || r.Rating > maxRating {
			return fmt.Errorf("%w: review %d rating %d outside [%d,%d]", ErrInvalidReview, r.ID, r.Rating, minRating, maxRating)
		}
		if r.Likes < 0 || r.Dislikes < 0 {
			return fmt.Errorf("%w: review %d has negative vote counts", ErrInvalidReview, r.ID)
		}
	}
	return nil
}
