// Package pages is the site's route table: which path mounts which page and
// how one page hands over to the next.
package pages

import (
	"net/http"
	"net/url"
	"path"
	"strings"
)

// ID names a page.
type ID string

const (
	Home     ID = "home"
	Services ID = "services"
	Gallery  ID = "gallery"
	About    ID = "about"
	Process  ID = "process"
	Contact  ID = "contact"
	Reviews  ID = "reviews"
	NotFound ID = "not-found"
)

// Route maps a path to a page.
type Route struct {
	Path     string
	ID       ID
	Template string
	TitleKey string
}

// Core is the fixed six-page table.
var Core = []Route{
	{Path: "/", ID: Home, Template: "home", TitleKey: "page.home.title"},
	{Path: "/services", ID: Services, Template: "services", TitleKey: "page.services.title"},
	{Path: "/gallery", ID: Gallery, Template: "gallery", TitleKey: "page.gallery.title"},
	{Path: "/about", ID: About, Template: "about", TitleKey: "page.about.title"},
	{Path: "/process", ID: Process, Template: "process", TitleKey: "page.process.title"},
	{Path: "/contact", ID: Contact, Template: "contact", TitleKey: "page.contact.title"},
}

// ReviewsRoute is mounted only when the reviews feature is enabled.
var ReviewsRoute = Route{Path: "/reviews", ID: Reviews, Template: "reviews", TitleKey: "page.reviews.title"}

// NotFoundRoute renders unknown paths inside the shared chrome.
var NotFoundRoute = Route{Path: "", ID: NotFound, Template: "not_found", TitleKey: "page.notfound.title"}

// Table is an immutable route table.
type Table struct {
	routes []Route
	byPath map[string]Route
}

// NewTable builds the table: the core six, plus /reviews when enabled.
func NewTable(withReviews bool) *Table {
	routes := make([]Route, 0, len(Core)+1)
	routes = append(routes, Core...)
	if withReviews {
		routes = append(routes, ReviewsRoute)
	}
	t := &Table{routes: routes, byPath: make(map[string]Route, len(routes))}
	for _, r := range routes {
		t.byPath[r.Path] = r
	}
	return t
}

// Routes returns the table in order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Lookup finds the route mounted at p.
func (t *Table) Lookup(p string) (Route, bool) {
	r, ok := t.byPath[clean(p)]
	return r, ok
}

// Resolve is Lookup with the not-found page as fallback.
func (t *Table) Resolve(p string) Route {
	if r, ok := t.Lookup(p); ok {
		return r
	}
	return NotFoundRoute
}

// Transition describes the hand-over between two pages. Exit is empty on a
// first load; it equals Enter on a reload.
type Transition struct {
	Exit  ID `json:"exit"`
	Enter ID `json:"enter"`
}

// Changed reports whether the page actually changes.
func (tr Transition) Changed() bool {
	return tr.Exit != "" && tr.Exit != tr.Enter
}

// TransitionFor derives the transition for r entering route enter. The
// previous page comes from HX-Current-URL for htmx swaps and from a
// same-host Referer otherwise.
func (t *Table) TransitionFor(r *http.Request, enter Route) Transition {
	tr := Transition{Enter: enter.ID}
	prev := previousPath(r)
	if prev == "" {
		return tr
	}
	tr.Exit = t.Resolve(prev).ID
	return tr
}

func previousPath(r *http.Request) string {
	if raw := r.Header.Get("HX-Current-URL"); raw != "" {
		if u, err := url.Parse(raw); err == nil {
			return u.Path
		}
	}
	raw := r.Header.Get("Referer")
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return ""
	}
	return u.Path
}

func clean(p string) string {
	if p == "" {
		return "/"
	}
	c := path.Clean("/" + strings.TrimPrefix(p, "/"))
	return c
}
