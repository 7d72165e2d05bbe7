package middleware

import (
	"context"
	"net/http"
)

// HX is what htmx tells the server about a request through its headers.
type HX struct {
	Request bool   // HX-Request
	Boosted bool   // HX-Boosted: whole-body swap from hx-boost
	Target  string // HX-Target: id of the element being swapped
}

func readHX(r *http.Request) HX {
	return HX{
		Request: r.Header.Get("HX-Request") == "true",
		Boosted: r.Header.Get("HX-Boosted") == "true",
		Target:  r.Header.Get("HX-Target"),
	}
}

// HTMX records the htmx headers in the context. Responses vary on
// HX-Request because fragments and full pages share URLs.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "HX-Request")
		ctx := context.WithValue(r.Context(), ctxKeyHX, readHX(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HXFrom returns the htmx headers recorded by HTMX.
func HXFrom(ctx context.Context) HX {
	hx, _ := ctx.Value(ctxKeyHX).(HX)
	return hx
}

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(ctx context.Context) bool {
	return HXFrom(ctx).Request
}

// Fragment reports whether htmx asked to swap only the element with id target.
func Fragment(ctx context.Context, target string) bool {
	hx := HXFrom(ctx)
	return hx.Request && !hx.Boosted && hx.Target == target
}
