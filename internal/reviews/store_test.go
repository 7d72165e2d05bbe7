package reviews

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func scenarioReviews() []Review {
	return []Review{
		{ID: 1, Name: "Simbarashe", Service: "Classic Car Restoration", Rating: 5, Likes: 10, Dislikes: 1, Date: day("2024-01-15")},
		{ID: 2, Name: "Sarah", Service: "Collision Repair", Rating: 4, Likes: 20, Dislikes: 0, Date: day("2024-02-22")},
	}
}

func ids(list []Review) []int {
	out := make([]int, 0, len(list))
	for _, r := range list {
		out = append(out, r.ID)
	}
	return out
}

func TestScenarioFilterSortVote(t *testing.T) {
	t.Parallel()

	store, err := NewStore(scenarioReviews())
	require.NoError(t, err)

	require.Equal(t, []int{1}, ids(store.View(Criteria{Rating: 5})))
	require.Equal(t, []int{2, 1}, ids(store.View(Criteria{Sort: SortLikes})))
	require.Equal(t, []int{2, 1}, ids(store.View(Criteria{Sort: SortRecent})))

	before := store.Snapshot()
	after, applied := store.Vote(1, Like)
	require.True(t, applied)
	require.Equal(t, 11, after[0].Likes)
	require.Equal(t, 1, after[0].Dislikes)
	require.Equal(t, before[1], after[1])
}

func TestVoteUnknownIDIsNoop(t *testing.T) {
	t.Parallel()

	store, err := NewStore(scenarioReviews())
	require.NoError(t, err)

	before := store.Snapshot()
	after, applied := store.Vote(42, Dislike)
	require.False(t, applied)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("unknown id changed the list (-before +after):\n%s", diff)
	}
	require.Zero(t, store.Version())
}

func TestVoteRejectsUnknownDirection(t *testing.T) {
	t.Parallel()

	store, err := NewStore(scenarioReviews())
	require.NoError(t, err)

	_, applied := store.Vote(1, Direction("love"))
	require.False(t, applied)
	require.Equal(t, scenarioReviews(), store.Snapshot())
}

func TestSnapshotDoesNotAliasStore(t *testing.T) {
	t.Parallel()

	store, err := NewStore(scenarioReviews())
	require.NoError(t, err)

	snap := store.Snapshot()
	snap[0].Likes = 999

	got, ok := store.Get(1)
	require.True(t, ok)
	require.Equal(t, 10, got.Likes)

	old := store.Snapshot()
	store.Vote(1, Like)
	require.Equal(t, 10, old[0].Likes, "earlier snapshots stay unchanged")
}

func TestBackToBackVotesBothApply(t *testing.T) {
	t.Parallel()

	store, err := NewStore(scenarioReviews())
	require.NoError(t, err)

	const voters = 50
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dir := Like
			if i%2 == 1 {
				dir = Dislike
			}
			store.Vote(2, dir)
		}(i)
	}
	wg.Wait()

	got, ok := store.Get(2)
	require.True(t, ok)
	require.Equal(t, 20+voters/2, got.Likes)
	require.Equal(t, voters/2, got.Dislikes)
	require.Equal(t, uint64(voters), store.Version())

	untouched, _ := store.Get(1)
	require.Equal(t, scenarioReviews()[0], untouched)
}

func TestVoteObserverSeesUpdatedReview(t *testing.T) {
	t.Parallel()

	var seen []Direction
	var counts []int
	store, err := NewStore(scenarioReviews(), WithVoteObserver(func(r Review, dir Direction) {
		seen = append(seen, dir)
		counts = append(counts, r.Dislikes)
	}))
	require.NoError(t, err)

	store.Vote(1, Dislike)
	store.Vote(7, Like)

	require.Equal(t, []Direction{Dislike}, seen)
	require.Equal(t, []int{2}, counts)
}

func TestNewStoreRejectsInvalidSeed(t *testing.T) {
	t.Parallel()

	cases := map[string][]Review{
		"duplicate id":    {{ID: 1, Rating: 3}, {ID: 1, Rating: 4}},
		"rating too high": {{ID: 1, Rating: 6}},
		"rating zero":     {{ID: 1, Rating: 0}},
		"negative likes":  {{ID: 1, Rating: 3, Likes: -1}},
	}
	for name, seed := range cases {
		seed := seed
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := NewStore(seed)
			require.Error(t, err)
		})
	}

	_, err := NewStore([]Review{{ID: 1, Rating: 3}, {ID: 1, Rating: 4}})
	require.ErrorIs(t, err, ErrDuplicateID)
}

func TestServicesAndSummary(t *testing.T) {
	t.Parallel()

	seed := append(scenarioReviews(), Review{ID: 3, Service: "Collision Repair", Rating: 3, Date: day("2024-03-10")})
	store, err := NewStore(seed)
	require.NoError(t, err)

	require.Equal(t, []string{"Classic Car Restoration", "Collision Repair"}, store.Services())
	summary := store.Summary()
	require.Equal(t, 3, summary.Count)
	require.InDelta(t, 4.0, summary.Average, 0.0001)

	empty, err := NewStore(nil)
	require.NoError(t, err)
	require.Equal(t, Summary{}, empty.Summary())
}

func TestParseCriteria(t *testing.T) {
	t.Parallel()

	c := ParseCriteria(url.Values{"rating": {"4"}, "service": {"Collision Repair"}, "sort": {"likes"}})
	require.Equal(t, Criteria{Rating: 4, Service: "Collision Repair", Sort: SortLikes}, c)
	require.Equal(t, "rating=4&service=Collision+Repair&sort=likes", c.Query().Encode())

	for _, raw := range []string{"0", "6", "five", "-1"} {
		require.Zero(t, ParseCriteria(url.Values{"rating": {raw}}).Rating, raw)
	}
	require.Equal(t, SortRecent, ParseCriteria(url.Values{"sort": {"oldest"}}).Sort)
	require.Empty(t, Criteria{Sort: SortRecent}.Query().Encode())
}

func TestSortKeepsInsertionOrderForTies(t *testing.T) {
	t.Parallel()

	list := []Review{
		{ID: 1, Rating: 4, Likes: 3, Date: day("2024-01-01")},
		{ID: 2, Rating: 5, Likes: 3, Date: day("2024-01-01")},
		{ID: 3, Rating: 4, Likes: 9, Date: day("2024-02-01")},
		{ID: 4, Rating: 5, Likes: 3, Date: day("2023-12-31")},
	}
	require.Equal(t, []int{2, 4, 1, 3}, ids(Sort(list, SortRating)))
	require.Equal(t, []int{3, 1, 2, 4}, ids(Sort(list, SortLikes)))
	require.Equal(t, []int{3, 1, 2, 4}, ids(Sort(list, SortRecent)))
	require.Equal(t, []int{1, 2, 3, 4}, ids(list), "input must not be reordered")
}
