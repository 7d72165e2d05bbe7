package handlers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"wonderland.co.zw/panels-web/internal/nav"
)

func TestToggleMenuHrefKeepsQuery(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		open bool
		want string
	}{
		{"open plain page", "/services", false, "/services?menu=open"},
		{"close plain page", "/services?menu=open", true, "/services"},
		{"open keeps filters", "/reviews?rating=5&sort=likes", false, "/reviews?menu=open&rating=5&sort=likes"},
		{"close keeps filters", "/reviews?menu=open&service=Towing", true, "/reviews?service=Towing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := url.Parse(tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.want, toggleMenuHref(u, nav.Shell{Open: tc.open}))
		})
	}
}
