package middleware

import (
	"context"
	"crypto/rand"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"wonderland.co.zw/panels-web/internal/config"
)

// SessionData is the visitor state carried in the signed cookie. ID keys
// server-side state such as the contact intake.
type SessionData struct {
	ID        string    `json:"id"`
	Locale    string    `json:"locale,omitempty"`
	CSRFToken string    `json:"csrf,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	dirty bool
}

// MarkDirty schedules the cookie to be rewritten with this response.
func (sd *SessionData) MarkDirty() {
	sd.dirty = true
	sd.UpdatedAt = time.Now().UTC()
}

// Sessions issues and verifies the visitor cookie.
type Sessions struct {
	signer signer
	name   string
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessions builds the cookie codec. Without a secret a random key is
// generated, so sessions do not survive a restart.
func NewSessions(cfg config.SessionConfig, logger *zap.Logger) *Sessions {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := []byte(cfg.Secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
		logger.Info("session signing key is ephemeral; set SITE_SESSION_SECRET to persist sessions")
	}
	s := &Sessions{signer: signer{key: key}, name: cfg.CookieName, ttl: cfg.TTL, secure: cfg.Secure, now: time.Now}
	if s.name == "" {
		s.name = "wl_session"
	}
	if s.ttl <= 0 {
		s.ttl = 24 * time.Hour
	}
	return s
}

// Secure reports whether cookies carry the Secure attribute.
func (s *Sessions) Secure() bool { return s.secure }

// Handler attaches the visitor session to the request, starting a new one
// when the cookie is missing, forged or idle for longer than the TTL. A
// session seen after a quarter of its TTL is re-issued with a fresh expiry.
// The cookie is written just before the response header when the session
// is new or changed.
func (s *Sessions) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sd := s.load(r)
		if sd == nil {
			now := s.now().UTC()
			sd = &SessionData{ID: ulid.Make().String(), CSRFToken: newCSRFToken(), CreatedAt: now, UpdatedAt: now, dirty: true}
		}
		persist := func(w http.ResponseWriter) {
			if sd.dirty {
				s.store(w, sd)
				sd.dirty = false
			}
		}

		rw := NewResponseRecorder(w)
		rw.SetBeforeWrite(persist)
		next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), ctxKeySession, sd)))
		if !rw.Wrote() {
			persist(w)
		}
	})
}

// GetSession returns the request's session, or an empty one outside Handler.
func GetSession(r *http.Request) *SessionData {
	if sd, ok := r.Context().Value(ctxKeySession).(*SessionData); ok {
		return sd
	}
	return &SessionData{}
}

func (s *Sessions) load(r *http.Request) *SessionData {
	c, err := r.Cookie(s.name)
	if err != nil || c.Value == "" {
		return nil
	}
	var sd SessionData
	if err := s.signer.decode(c.Value, &sd); err != nil || sd.ID == "" {
		return nil
	}
	now := s.now()
	age := now.Sub(sd.UpdatedAt)
	if age > s.ttl {
		return nil
	}
	// sliding expiry: an active visitor keeps the same id
	if age > s.ttl/4 {
		sd.UpdatedAt = now.UTC()
		sd.dirty = true
	}
	return &sd
}

func (s *Sessions) store(w http.ResponseWriter, sd *SessionData) {
	value, err := s.signer.encode(sd)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  s.now().Add(s.ttl),
	})
}
