package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"wonderland.co.zw/panels-web/internal/gallery"
	mw "wonderland.co.zw/panels-web/internal/middleware"
	"wonderland.co.zw/panels-web/internal/pages"
)

// Gallery renders the before/after grid. ?pair=<slug> opens the overlay for
// that pair; an unknown slug leaves it closed.
func (h *Handlers) Gallery(w http.ResponseWriter, r *http.Request) {
	route := h.route(pages.Gallery)
	h.leaveContact(r)
	catalog := h.content.Current().Gallery
	sel := gallery.FromQuery(catalog, r.URL.Query().Get("pair"))

	pd := h.layout(r, route)
	pd.Gallery = &GalleryView{Pairs: catalog.Pairs(), Lang: pd.Lang}
	if p, ok := sel.Selected(); ok {
		pd.Gallery.Selected = &p
		pd.SEO.Canonical = ""
	}
	h.page(w, r, http.StatusOK, route, pd)
}

// GalleryPair serves the overlay fragment for htmx and redirects other
// clients to the addressable gallery URL.
func (h *Handlers) GalleryPair(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	sel := gallery.NewSelector(h.content.Current().Gallery)
	p, err := sel.Select(slug)
	if err != nil {
		mw.WriteError(w, r, http.StatusNotFound, "unknown gallery pair")
		return
	}
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/gallery?pair="+url.QueryEscape(p.Slug), http.StatusSeeOther)
		return
	}
	w.Header().Set("HX-Push-Url", "/gallery?pair="+url.QueryEscape(p.Slug))
	h.fragment(w, r, http.StatusOK, "gallery", "gallery_overlay", &GalleryView{Selected: &p, Lang: mw.Lang(r)})
}

// GalleryClose empties the overlay region for htmx callers.
func (h *Handlers) GalleryClose(w http.ResponseWriter, r *http.Request) {
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/gallery", http.StatusSeeOther)
		return
	}
	w.Header().Set("HX-Push-Url", "/gallery")
	h.fragment(w, r, http.StatusOK, "gallery", "gallery_overlay", &GalleryView{Lang: mw.Lang(r)})
}
