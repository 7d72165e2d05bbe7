package pages

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoreTableHasSixRoutes(t *testing.T) {
	table := NewTable(false)
	require.Len(t, table.Routes(), 6)
	_, ok := table.Lookup("/reviews")
	require.False(t, ok)

	withReviews := NewTable(true)
	require.Len(t, withReviews.Routes(), 7)
	r, ok := withReviews.Lookup("/reviews")
	require.True(t, ok)
	require.Equal(t, Reviews, r.ID)
}

func TestLookupNormalisesPaths(t *testing.T) {
	table := NewTable(false)
	r, ok := table.Lookup("/services/")
	require.True(t, ok)
	require.Equal(t, Services, r.ID)

	r, ok = table.Lookup("")
	require.True(t, ok)
	require.Equal(t, Home, r.ID)

	require.Equal(t, NotFound, table.Resolve("/paint-shop").ID)
}

func TestTransitionFor(t *testing.T) {
	table := NewTable(true)
	contact, _ := table.Lookup("/contact")

	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	tr := table.TransitionFor(req, contact)
	require.Equal(t, Transition{Enter: Contact}, tr)
	require.False(t, tr.Changed())

	req.Header.Set("HX-Current-URL", "http://example.com/gallery?pair=x")
	tr = table.TransitionFor(req, contact)
	require.Equal(t, Transition{Exit: Gallery, Enter: Contact}, tr)
	require.True(t, tr.Changed())

	req = httptest.NewRequest(http.MethodGet, "/contact", nil)
	req.Header.Set("Referer", "http://elsewhere.test/about")
	require.Empty(t, table.TransitionFor(req, contact).Exit, "foreign referers are ignored")

	req.Header.Set("Referer", "http://"+req.Host+"/nowhere")
	require.Equal(t, NotFound, table.TransitionFor(req, contact).Exit)
}
