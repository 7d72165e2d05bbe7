package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"
)

const (
	// CSRFFormField carries the token in no-JS form posts.
	CSRFFormField = "csrf_token"
	// CSRFHeader carries the token on htmx requests; site.js fills it from
	// the csrf-token meta tag.
	CSRFHeader = "X-CSRF-Token"

	csrfCookie = "csrf_token"
)

// CSRF enforces the double-submit pattern: the session owns the token, a
// readable cookie mirrors it, and every unsafe request must echo it back.
func CSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ensureCSRFToken(r)
			cookie, _ := r.Cookie(csrfCookie)
			if cookie == nil || cookie.Value != token {
				http.SetCookie(w, &http.Cookie{
					Name:     csrfCookie,
					Value:    token,
					Path:     "/",
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(24 * time.Hour),
				})
			}

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			default:
				if cookie == nil || !sameToken(cookie.Value, token) || !sameToken(submittedToken(r), token) {
					WriteError(w, r, http.StatusForbidden, "invalid CSRF token")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CSRFToken returns the token forms must echo back.
func CSRFToken(r *http.Request) string {
	return GetSession(r).CSRFToken
}

func ensureCSRFToken(r *http.Request) string {
	s := GetSession(r)
	if s.CSRFToken == "" {
		s.CSRFToken = newCSRFToken()
		s.MarkDirty()
	}
	return s.CSRFToken
}

func submittedToken(r *http.Request) string {
	if v := r.Header.Get(CSRFHeader); v != "" {
		return v
	}
	return r.PostFormValue(CSRFFormField)
}

func newCSRFToken() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func sameToken(a, b string) bool {
	return a != "" && subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
