package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func activeHrefs(items []RenderedItem) []string {
	var out []string
	for _, it := range items {
		if it.Active {
			out = append(out, it.Href)
		}
	}
	return out
}

func TestBuildMarksExactlyOneActive(t *testing.T) {
	items := Build("/gallery")
	require.Len(t, items, 6)
	require.Equal(t, []string{"/gallery"}, activeHrefs(items))
	require.Equal(t, "About Us", items[3].Label)

	require.Equal(t, []string{"/"}, activeHrefs(Build("")))
	require.Empty(t, activeHrefs(Build("/gallery/extra")), "only exact matches are active")
	require.Empty(t, activeHrefs(Build("/reviews")))
	require.Empty(t, activeHrefs(Build("/services/")), "trailing slash is not the same path")
	require.Empty(t, activeHrefs(Build("/Services")))
	require.Empty(t, activeHrefs(Build("services")))
}

func TestShellActivateAlwaysCloses(t *testing.T) {
	var s Shell
	s.Toggle()
	require.True(t, s.Open)

	require.Equal(t, "/about", s.Activate("/about"))
	require.False(t, s.Open)

	require.Equal(t, "/contact", s.Activate("contact"))
	require.False(t, s.Open)

	s.Toggle()
	s.Toggle()
	require.False(t, s.Open)
}

func TestBreadcrumbs(t *testing.T) {
	crumbs := Breadcrumbs("/gallery/pairs/classic-mustang_resto")
	require.Len(t, crumbs, 4)
	require.Equal(t, "nav.gallery", crumbs[1].LabelKey)
	require.Equal(t, "Pairs", crumbs[2].Label)
	require.Equal(t, "Classic Mustang Resto", crumbs[3].Label)
	require.True(t, crumbs[3].Active)

	home := Breadcrumbs("/")
	require.Len(t, home, 1)
	require.True(t, home[0].Active)
}
