package handlers

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"wonderland.co.zw/panels-web/internal/contact"
	"wonderland.co.zw/panels-web/internal/content"
	"wonderland.co.zw/panels-web/internal/gallery"
	mw "wonderland.co.zw/panels-web/internal/middleware"
	"wonderland.co.zw/panels-web/internal/nav"
	"wonderland.co.zw/panels-web/internal/pages"
	"wonderland.co.zw/panels-web/internal/reviews"
	"wonderland.co.zw/panels-web/internal/seo"
)

// PageData is the view model for every page rendered in the shared layout.
type PageData struct {
	Lang string
	SEO  seo.Meta
	// JSONLD holds marshalled schema.org payloads for the <head>.
	JSONLD []template.JS

	Path        string
	Page        pages.ID
	Transition  pages.Transition
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	MenuOpen    bool
	MenuHref    string
	HTMX        bool
	CSRF        string

	Business content.Business
	Footer   content.Footer
	Reviews  bool

	// Optional per-page view model payloads
	Home     *HomeView
	Services []content.Service
	Process  []content.Step
	About    *AboutView
	Gallery  *GalleryView
	Contact  *ContactView
	Review   *ReviewsView
}

type HomeView struct {
	Hero         content.Hero
	Highlights   []content.Card
	Testimonials []content.Testimonial
}

type AboutView struct {
	Story     content.Page
	Strengths []content.Card
}

type GalleryView struct {
	Pairs    []gallery.Pair
	Selected *gallery.Pair
	Lang     string
}

// ContactView is the form plus the intake state it reflects.
type ContactView struct {
	Status         contact.Status
	Fields         contact.Fields
	Missing        []string
	DeliveryFailed bool
	Map            content.MapMarker
	Hours          []content.Hours
	CSRF           string
	Lang           string
	// OOB renders the status line as an htmx out-of-band swap.
	OOB bool
}

// Pending reports whether a submission is in flight.
func (c *ContactView) Pending() bool { return c.Status == contact.StatusPending }

// Invalid reports whether field is listed as missing.
func (c *ContactView) Invalid(field string) bool {
	for _, m := range c.Missing {
		if m == field {
			return true
		}
	}
	return false
}

// ReviewsView is the filtered list with the controls that produced it.
type ReviewsView struct {
	Items    []ReviewItem
	Criteria reviews.Criteria
	Services []string
	Ratings  []int
	Sorts    []reviews.SortKey
	Summary  reviews.Summary
	Total    int
	Query    string
	CSRF     string
	Lang     string
}

// Empty reports whether the filters matched nothing.
func (v *ReviewsView) Empty() bool { return len(v.Items) == 0 }

// ReviewItem is one review card. Criteria travels with the vote form so a
// vote without JavaScript returns to the same view.
type ReviewItem struct {
	reviews.Review
	Criteria reviews.Criteria
	CSRF     string
	Lang     string
}

// layout fills the fields every page shares.
func (h *Handlers) layout(r *http.Request, route pages.Route) PageData {
	cat := h.content.Current()
	lang := mw.Lang(r)

	shell := nav.Shell{}
	if r.URL.Query().Get("menu") == "open" {
		shell.Toggle()
	}
	// the toggle is a plain link so it works without JavaScript
	menuHref := toggleMenuHref(r.URL, shell)

	crumbs := nav.Breadcrumbs(r.URL.Path)
	title := h.bundle.T(lang, route.TitleKey)
	description := h.bundle.T(lang, strings.TrimSuffix(route.TitleKey, ".title")+".description")

	pd := PageData{
		Lang:        lang,
		SEO:         seo.NewMeta(cat.Site.Business.Name, title, description, h.baseURL, r.URL.Path, cat.Site.Hero.Image),
		Path:        r.URL.Path,
		Page:        route.ID,
		Transition:  h.pages.TransitionFor(r, route),
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: crumbs,
		MenuOpen:    shell.Open,
		MenuHref:    menuHref,
		HTMX:        mw.IsHTMX(r.Context()),
		CSRF:        mw.CSRFToken(r),
		Business:    cat.Site.Business,
		Footer:      cat.Site.Footer,
		Reviews:     h.reviewsEnabled,
	}
	if route.ID == pages.Home {
		pd.SEO.Title = cat.Site.Business.Name
		pd.SEO.OG.Title = cat.Site.Business.Name
	}
	if route.ID != pages.NotFound {
		pd.JSONLD = append(pd.JSONLD, seo.JSON(seo.BreadcrumbList(h.breadcrumbItems(lang, crumbs))))
	}
	return pd
}

func (h *Handlers) breadcrumbItems(lang string, crumbs []nav.Crumb) []seo.BreadcrumbItem {
	items := make([]seo.BreadcrumbItem, 0, len(crumbs))
	for _, c := range crumbs {
		name := c.Label
		if c.LabelKey != "" {
			name = h.bundle.T(lang, c.LabelKey)
		}
		items = append(items, seo.BreadcrumbItem{Name: name, Item: seo.Absolute(h.baseURL, c.Href)})
	}
	return items
}

// toggleMenuHref links to the current page with the menu flipped. Every
// other query parameter, such as the review filters, is kept.
func toggleMenuHref(u *url.URL, shell nav.Shell) string {
	q := u.Query()
	target := u.Path
	if shell.Open {
		target = shell.Activate(u.Path)
		q.Del("menu")
	} else {
		q.Set("menu", "open")
	}
	if enc := q.Encode(); enc != "" {
		return target + "?" + enc
	}
	return target
}
