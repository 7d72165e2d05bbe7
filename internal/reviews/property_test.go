package reviews

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

var services = []string{"Classic Car Restoration", "Collision Repair", "Minor Dent Repair"}

func reviewListGen() *rapid.Generator[[]Review] {
	return rapid.Custom(func(t *rapid.T) []Review {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		list := make([]Review, 0, n)
		for i := 0; i < n; i++ {
			list = append(list, Review{
				ID:       i + 1,
				Service:  rapid.SampledFrom(services).Draw(t, "service"),
				Rating:   rapid.IntRange(1, 5).Draw(t, "rating"),
				Likes:    rapid.IntRange(0, 5).Draw(t, "likes"),
				Dislikes: rapid.IntRange(0, 5).Draw(t, "dislikes"),
				Date:     base.AddDate(0, 0, rapid.IntRange(0, 10).Draw(t, "days")),
			})
		}
		return list
	})
}

func criteriaGen() *rapid.Generator[Criteria] {
	return rapid.Custom(func(t *rapid.T) Criteria {
		return Criteria{
			Rating:  rapid.IntRange(0, 5).Draw(t, "ratingFilter"),
			Service: rapid.SampledFrom(append([]string{""}, services...)).Draw(t, "serviceFilter"),
			Sort:    rapid.SampledFrom([]SortKey{SortRecent, SortRating, SortLikes}).Draw(t, "sort"),
		}
	})
}

func sortKey(r Review, key SortKey) int64 {
	switch key {
	case SortRating:
		return int64(r.Rating)
	case SortLikes:
		return int64(r.Likes)
	default:
		return r.Date.Unix()
	}
}

func TestFilterIsSubsetSatisfyingPredicates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		list := reviewListGen().Draw(t, "list")
		c := criteriaGen().Draw(t, "criteria")

		got := Filter(list, c)
		byID := make(map[int]Review, len(list))
		for _, r := range list {
			byID[r.ID] = r
		}
		want := 0
		for _, r := range list {
			if c.Matches(r) {
				want++
			}
		}
		if len(got) != want {
			t.Fatalf("filter kept %d reviews, want %d", len(got), want)
		}
		for _, r := range got {
			orig, ok := byID[r.ID]
			if !ok || orig != r {
				t.Fatalf("review %d not from input", r.ID)
			}
			if c.Rating != 0 && r.Rating != c.Rating {
				t.Fatalf("review %d rating %d violates filter %d", r.ID, r.Rating, c.Rating)
			}
			if c.Service != "" && r.Service != c.Service {
				t.Fatalf("review %d service %q violates filter %q", r.ID, r.Service, c.Service)
			}
		}
		if len(Filter(list, Criteria{})) != len(list) {
			t.Fatalf("empty criteria must be the identity")
		}
	})
}

func TestSortIsStableAndIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		list := reviewListGen().Draw(t, "list")
		key := rapid.SampledFrom([]SortKey{SortRecent, SortRating, SortLikes}).Draw(t, "key")

		once := Sort(list, key)
		twice := Sort(once, key)
		for i := range once {
			if once[i].ID != twice[i].ID {
				t.Fatalf("re-sorting reordered position %d: %d vs %d", i, once[i].ID, twice[i].ID)
			}
		}
		for i := 1; i < len(once); i++ {
			prev, cur := sortKey(once[i-1], key), sortKey(once[i], key)
			if prev < cur {
				t.Fatalf("not descending at %d", i)
			}
			// ids follow insertion order, so equal keys must keep ascending ids
			if prev == cur && once[i-1].ID > once[i].ID {
				t.Fatalf("tie at %d broke insertion order", i)
			}
		}
	})
}

func TestVoteTouchesExactlyOneCounter(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		list := reviewListGen().Draw(t, "list")
		store, err := NewStore(list)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		id := rapid.IntRange(0, len(list)+2).Draw(t, "id")
		dir := rapid.SampledFrom([]Direction{Like, Dislike}).Draw(t, "dir")

		after, applied := store.Vote(id, dir)
		known := id >= 1 && id <= len(list)
		if applied != known {
			t.Fatalf("applied=%v for id %d (known=%v)", applied, id, known)
		}
		for i, r := range after {
			want := list[i]
			if r.ID == id {
				if dir == Like {
					want.Likes++
				} else {
					want.Dislikes++
				}
			}
			if r != want {
				t.Fatalf("review %d: got %+v want %+v", r.ID, r, want)
			}
		}
	})
}
