package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	mw "wonderland.co.zw/panels-web/internal/middleware"
	"wonderland.co.zw/panels-web/internal/observability"
	"wonderland.co.zw/panels-web/internal/pages"
	"wonderland.co.zw/panels-web/internal/reviews"
)

var (
	ratingOptions = []int{5, 4, 3, 2, 1}
	sortOptions   = []reviews.SortKey{reviews.SortRecent, reviews.SortRating, reviews.SortLikes}
)

// Reviews renders the filtered, sorted list. htmx requests targeting the
// list get just the list. The store version doubles as the ETag.
func (h *Handlers) Reviews(w http.ResponseWriter, r *http.Request) {
	route := h.route(pages.Reviews)
	h.leaveContact(r)
	criteria := reviews.ParseCriteria(r.URL.Query())
	view := h.reviewsView(r, criteria)

	fragment := mw.Fragment(r.Context(), "review-list")
	etag := h.reviewsETag(r, view, fragment)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if fragment {
		w.Header().Set("HX-Push-Url", listURL(view.Query))
		h.fragment(w, r, http.StatusOK, "reviews", "review_list", view)
		return
	}
	pd := h.layout(r, route)
	pd.Review = view
	h.page(w, r, http.StatusOK, route, pd)
}

// ReviewVote applies one helpful/unhelpful vote. Unknown ids are a silent
// no-op: 204 for htmx, a redirect back for everyone else.
func (h *Handlers) ReviewVote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "invalid review id")
		return
	}
	dir, ok := reviews.ParseDirection(r.PostFormValue("direction"))
	if !ok {
		mw.WriteError(w, r, http.StatusBadRequest, "direction must be like or dislike")
		return
	}
	criteria := reviews.ParseCriteria(url.Values{
		"rating":  {r.PostFormValue("rating")},
		"service": {r.PostFormValue("service")},
		"sort":    {r.PostFormValue("sort")},
	})
	query := criteria.Query().Encode()

	snapshot, applied := h.reviews.Vote(id, dir)
	logger := observability.FromContext(r.Context())
	if !applied {
		logger.Debug("vote for unknown review ignored", zap.Int("review_id", id))
	}
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, listURL(query), http.StatusSeeOther)
		return
	}
	if !applied {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	for _, rv := range snapshot {
		if rv.ID == id {
			h.fragment(w, r, http.StatusOK, "reviews", "review_card", ReviewItem{
				Review:   rv,
				Criteria: criteria,
				CSRF:     mw.CSRFToken(r),
				Lang:     mw.Lang(r),
			})
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) reviewsView(r *http.Request, c reviews.Criteria) *ReviewsView {
	visible := h.reviews.View(c)
	query := c.Query().Encode()
	csrf := mw.CSRFToken(r)
	lang := mw.Lang(r)
	items := make([]ReviewItem, 0, len(visible))
	for _, rv := range visible {
		items = append(items, ReviewItem{Review: rv, Criteria: c, CSRF: csrf, Lang: lang})
	}
	summary := h.reviews.Summary()
	return &ReviewsView{
		Items:    items,
		Criteria: c,
		Services: h.reviews.Services(),
		Ratings:  ratingOptions,
		Sorts:    sortOptions,
		Summary:  summary,
		Total:    summary.Count,
		Query:    query,
		CSRF:     csrf,
		Lang:     lang,
	}
}

// reviewsETag covers everything the response depends on besides the store
// version. The raw query carries the menu state; the previous page feeds the
// transition attributes.
func (h *Handlers) reviewsETag(r *http.Request, v *ReviewsView, fragment bool) string {
	prev := h.pages.TransitionFor(r, pages.ReviewsRoute).Exit
	key := fmt.Sprintf("%s|%s|%s|%s|%d", r.URL.RawQuery, prev, v.Lang, v.CSRF, h.content.Current().LoadedAt.UnixNano())
	sum := sha256.Sum256([]byte(key))
	kind := "page"
	if fragment {
		kind = "list"
	}
	return fmt.Sprintf(`W/"reviews-%s-v%d-%s"`, kind, h.reviews.Version(), hex.EncodeToString(sum[:6]))
}

func listURL(query string) string {
	if query == "" {
		return "/reviews"
	}
	return "/reviews?" + query
}
