package middleware

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// errorBody is the JSON shape htmx callers receive. site.js reads it to
// surface the message; request_id ties it to the access log.
type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError reports msg with code. htmx callers get JSON and an
// HX-Reswap: none so the failed response never replaces page content;
// everyone else gets plain text.
func WriteError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if !IsHTMX(r.Context()) {
		http.Error(w, msg, code)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("HX-Reswap", "none")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg, RequestID: chimw.GetReqID(r.Context())})
}
