package middleware

import (
	"net/http"
	"strings"

	"wonderland.co.zw/panels-web/internal/i18n"
)

const langCookie = "hl"

// Locale resolves the UI language from ?hl=, the hl cookie, the session or
// Accept-Language, in that order, and records it in the session.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	supported := map[string]bool{}
	for _, l := range bundle.Supported() {
		supported[l] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept-Language")
			s := GetSession(r)
			lang := ""
			if q := strings.ToLower(r.URL.Query().Get("hl")); supported[q] {
				lang = q
				http.SetCookie(w, &http.Cookie{Name: langCookie, Value: q, Path: "/", SameSite: http.SameSiteLaxMode})
			} else if c, err := r.Cookie(langCookie); err == nil && supported[strings.ToLower(c.Value)] {
				lang = strings.ToLower(c.Value)
			} else if supported[s.Locale] {
				lang = s.Locale
			} else {
				lang = bundle.Resolve(r.Header.Get("Accept-Language"))
			}
			if s.Locale != lang && s.ID != "" {
				s.Locale = lang
				s.MarkDirty()
			}
			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
		})
	}
}

// Lang returns the language chosen by Locale, or "en" outside it.
func Lang(r *http.Request) string {
	if v, ok := r.Context().Value(ctxKeyLang).(string); ok && v != "" {
		return v
	}
	if s := GetSession(r); s.Locale != "" {
		return s.Locale
	}
	return "en"
}
