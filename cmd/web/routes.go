package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wonderland.co.zw/panels-web/internal/pages"
)

// endpoint is one line of the route listing.
type endpoint struct {
	Method string
	Path   string
	Serves string
}

// routeTable mirrors the router: pages first, then the htmx endpoints.
func routeTable(withReviews bool) []endpoint {
	table := pages.NewTable(withReviews)
	out := make([]endpoint, 0, 16)
	for _, r := range table.Routes() {
		out = append(out, endpoint{Method: "GET", Path: r.Path, Serves: "page " + string(r.ID)})
	}
	out = append(out,
		endpoint{"GET", "/gallery/pairs/{slug}", "gallery overlay"},
		endpoint{"GET", "/gallery/close", "gallery overlay"},
		endpoint{"POST", "/contact", "contact submit"},
		endpoint{"POST", "/contact/draft", "contact draft"},
		endpoint{"GET", "/contact/status", "contact status"},
	)
	if withReviews {
		out = append(out, endpoint{"POST", "/reviews/{id}/vote", "review vote"})
	}
	out = append(out,
		endpoint{"GET", "/assets/*", "static assets"},
		endpoint{"GET", "/healthz", "health"},
		endpoint{"GET", "/metrics", "prometheus (when SITE_METRICS=true)"},
	)
	return out
}

func newRoutesCmd() *cobra.Command {
	var withReviews bool
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the routes the server mounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "METHOD\tPATH\tSERVES")
			for _, e := range routeTable(withReviews) {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Method, e.Path, e.Serves)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&withReviews, "reviews", true, "include the reviews feature")
	return cmd
}
