package gallery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog([]Pair{
		{Slug: "a", Before: "a-before.jpg", After: "a-after.jpg", Title: "A"},
		{Slug: "b", Before: "b-before.jpg", After: "b-after.jpg", Title: "B"},
	})
	require.NoError(t, err)
	return c
}

func TestSelectReplacesAndClearEmpties(t *testing.T) {
	s := NewSelector(testCatalog(t))

	_, ok := s.Selected()
	require.False(t, ok)

	p, err := s.Select("a")
	require.NoError(t, err)
	require.Equal(t, "A", p.Title)

	_, err = s.Select("b")
	require.NoError(t, err)
	got, ok := s.Selected()
	require.True(t, ok)
	require.Equal(t, "b", got.Slug)

	s.Clear()
	_, ok = s.Selected()
	require.False(t, ok)

	s.Clear()
	_, ok = s.Selected()
	require.False(t, ok)
}

func TestSelectUnknownKeepsSelection(t *testing.T) {
	s := NewSelector(testCatalog(t))
	_, err := s.Select("a")
	require.NoError(t, err)

	_, err = s.Select("zzz")
	require.ErrorIs(t, err, ErrUnknownPair)
	got, ok := s.Selected()
	require.True(t, ok)
	require.Equal(t, "a", got.Slug)
}

func TestFromQuery(t *testing.T) {
	c := testCatalog(t)

	got, ok := FromQuery(c, "b").Selected()
	require.True(t, ok)
	require.Equal(t, "b", got.Slug)

	_, ok = FromQuery(c, "nope").Selected()
	require.False(t, ok)
	_, ok = FromQuery(c, "").Selected()
	require.False(t, ok)
}

func TestNewCatalogValidates(t *testing.T) {
	_, err := NewCatalog([]Pair{{Slug: "a", Before: "x", After: "y"}, {Slug: "a", Before: "x", After: "y"}})
	require.Error(t, err)
	_, err = NewCatalog([]Pair{{Slug: "", Before: "x", After: "y"}})
	require.Error(t, err)
	_, err = NewCatalog([]Pair{{Slug: "a", Before: "x"}})
	require.Error(t, err)

	c := testCatalog(t)
	pairs := c.Pairs()
	pairs[0].Title = "mutated"
	p, _ := c.Lookup("a")
	require.Equal(t, "A", p.Title)
	require.Equal(t, 2, c.Len())
}
