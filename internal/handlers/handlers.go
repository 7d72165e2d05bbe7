// Package handlers serves the site's pages and the htmx fragments they swap.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"wonderland.co.zw/panels-web/internal/contact"
	"wonderland.co.zw/panels-web/internal/content"
	"wonderland.co.zw/panels-web/internal/i18n"
	mw "wonderland.co.zw/panels-web/internal/middleware"
	"wonderland.co.zw/panels-web/internal/observability"
	"wonderland.co.zw/panels-web/internal/pages"
	"wonderland.co.zw/panels-web/internal/render"
	"wonderland.co.zw/panels-web/internal/reviews"
	"wonderland.co.zw/panels-web/internal/seo"
)

// Config wires the handlers to the site's state.
type Config struct {
	Content  *content.Source
	Reviews  *reviews.Store
	Intakes  *contact.Registry
	Renderer *render.Renderer
	Pages    *pages.Table
	Bundle   *i18n.Bundle
	BaseURL  string
	Logger   *zap.Logger
}

// Handlers owns no state of its own; everything mutable lives in the review
// store and the intake registry.
type Handlers struct {
	content        *content.Source
	reviews        *reviews.Store
	intakes        *contact.Registry
	render         *render.Renderer
	pages          *pages.Table
	bundle         *i18n.Bundle
	baseURL        string
	logger         *zap.Logger
	reviewsEnabled bool
}

// New validates cfg and builds the handler set.
func New(cfg Config) (*Handlers, error) {
	switch {
	case cfg.Content == nil:
		return nil, errors.New("handlers: content source is required")
	case cfg.Intakes == nil:
		return nil, errors.New("handlers: intake registry is required")
	case cfg.Renderer == nil:
		return nil, errors.New("handlers: renderer is required")
	case cfg.Pages == nil:
		return nil, errors.New("handlers: route table is required")
	case cfg.Bundle == nil:
		return nil, errors.New("handlers: message bundle is required")
	}
	_, mounted := cfg.Pages.Lookup(pages.ReviewsRoute.Path)
	if mounted && cfg.Reviews == nil {
		return nil, errors.New("handlers: review store is required when /reviews is mounted")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		content:        cfg.Content,
		reviews:        cfg.Reviews,
		intakes:        cfg.Intakes,
		render:         cfg.Renderer,
		pages:          cfg.Pages,
		bundle:         cfg.Bundle,
		baseURL:        cfg.BaseURL,
		logger:         logger,
		reviewsEnabled: mounted,
	}, nil
}

// Home renders the landing page.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	route := h.route(pages.Home)
	h.leaveContact(r)
	site := h.content.Current().Site
	pd := h.layout(r, route)
	pd.Home = &HomeView{
		Hero:         site.Hero,
		Highlights:   site.Highlights,
		Testimonials: site.Testimonials,
	}
	pd.JSONLD = append(pd.JSONLD, seo.JSON(seo.AutoBodyShop(h.businessSchema(site), h.rating())))
	h.page(w, r, http.StatusOK, route, pd)
}

// Services renders the service cards.
func (h *Handlers) Services(w http.ResponseWriter, r *http.Request) {
	route := h.route(pages.Services)
	h.leaveContact(r)
	pd := h.layout(r, route)
	pd.Services = h.content.Current().Site.Services
	h.page(w, r, http.StatusOK, route, pd)
}

// Process renders the ordered repair steps.
func (h *Handlers) Process(w http.ResponseWriter, r *http.Request) {
	route := h.route(pages.Process)
	h.leaveContact(r)
	pd := h.layout(r, route)
	pd.Process = h.content.Current().Site.Process
	h.page(w, r, http.StatusOK, route, pd)
}

// About renders the company story and strengths.
func (h *Handlers) About(w http.ResponseWriter, r *http.Request) {
	route := h.route(pages.About)
	h.leaveContact(r)
	cat := h.content.Current()
	story, err := cat.Page("about")
	if err != nil && !errors.Is(err, content.ErrNotFound) {
		h.fail(w, r, err)
		return
	}
	pd := h.layout(r, route)
	if story.Description != "" {
		pd.SEO.Description = story.Description
		pd.SEO.OG.Description = story.Description
	}
	pd.About = &AboutView{Story: story, Strengths: cat.Site.Strengths}
	h.page(w, r, http.StatusOK, route, pd)
}

// NotFound renders unknown paths inside the shared chrome.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	pd := h.layout(r, pages.NotFoundRoute)
	pd.SEO.Canonical = ""
	h.page(w, r, http.StatusNotFound, pages.NotFoundRoute, pd)
}

// MethodNotAllowed answers unsupported methods on known paths.
func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	mw.WriteError(w, r, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
}

func (h *Handlers) route(id pages.ID) pages.Route {
	for _, r := range h.pages.Routes() {
		if r.ID == id {
			return r
		}
	}
	return pages.NotFoundRoute
}

// page renders the whole layout. hx-boost navigations get the same
// document; htmx swaps the body and keeps the transition attributes.
func (h *Handlers) page(w http.ResponseWriter, r *http.Request, status int, route pages.Route, pd PageData) {
	if pd.Transition.Changed() {
		trigger, _ := json.Marshal(map[string]pages.Transition{"page-transition": pd.Transition})
		w.Header().Set("HX-Trigger-After-Swap", string(trigger))
	}
	if err := h.render.Page(w, status, route.Template, pd); err != nil {
		h.fail(w, r, err)
	}
}

func (h *Handlers) fragment(w http.ResponseWriter, r *http.Request, status int, page, block string, data any) {
	if err := h.render.Fragment(w, status, page, block, data); err != nil {
		h.fail(w, r, err)
	}
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("handler failed", zap.Error(err))
	mw.WriteError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// leaveContact unmounts the visitor's contact view: the intake is torn down
// and any pending outcome discarded.
func (h *Handlers) leaveContact(r *http.Request) {
	id := mw.GetSession(r).ID
	if id == "" {
		return
	}
	if h.intakes.Release(id) {
		observability.FromContext(r.Context()).Debug("contact intake released", zap.String("page", r.URL.Path))
	}
}

func (h *Handlers) rating() seo.Rating {
	if h.reviews == nil {
		return seo.Rating{}
	}
	s := h.reviews.Summary()
	return seo.Rating{Count: s.Count, Average: s.Average}
}

func (h *Handlers) businessSchema(site content.Site) seo.Business {
	b := site.Business
	hours := make([]string, 0, len(b.Hours))
	for _, hr := range b.Hours {
		if hr.Closed {
			continue
		}
		hours = append(hours, hr.Days+" "+hr.Opens+"-"+hr.Closes)
	}
	return seo.Business{
		Name:      b.Name,
		URL:       h.baseURL,
		Logo:      seo.Absolute(h.baseURL, b.Logo),
		Telephone: b.Phone,
		Email:     b.Email,
		Street:    b.Address.Street,
		Locality:  b.Address.City,
		Country:   b.Address.Country,
		Lat:       b.Map.Lat,
		Lng:       b.Map.Lng,
		Hours:     hours,
	}
}
