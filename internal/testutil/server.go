package testutil

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"wonderland.co.zw/panels-web/internal/config"
	"wonderland.co.zw/panels-web/internal/contact"
	"wonderland.co.zw/panels-web/internal/httpserver"
	"wonderland.co.zw/panels-web/internal/observability"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithGateway replaces the contact gateway.
func WithGateway(g contact.Gateway) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Gateway = g
	}
}

// WithoutReviews unmounts /reviews.
func WithoutReviews() ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.ReviewsEnabled = false
	}
}

// WithMetrics enables /metrics backed by m.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Metrics = m
	}
}

// WithContentDir points the server at a different content directory.
func WithContentDir(dir string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.ContentDir = dir
	}
}

// Server is a running test site.
type Server struct {
	*httptest.Server
	Site *httpserver.Site
}

// NewServer constructs an httptest server running the site with the
// repository's templates, content and locales. The default gateway resolves
// immediately.
func NewServer(t testing.TB, opts ...ServerOption) *Server {
	t.Helper()

	root := RepoRoot()
	cfg := httpserver.Config{
		BaseURL:        "https://wonderland.test",
		TemplatesDir:   filepath.Join(root, "templates"),
		ContentDir:     filepath.Join(root, "content"),
		LocalesDir:     filepath.Join(root, "locales"),
		AssetsDir:      filepath.Join(root, "public", "assets"),
		DefaultLocale:  "en",
		ReviewsEnabled: true,
		Session: config.SessionConfig{
			Secret:     "test-secret-test-secret-test-secret",
			CookieName: "wl_session",
			TTL:        time.Hour,
		},
		Gateway:   contact.SimulatedGateway{},
		IntakeTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	site, err := httpserver.New(cfg)
	if err != nil {
		t.Fatalf("build site: %v", err)
	}
	ts := httptest.NewServer(site.Server.Handler)
	t.Cleanup(func() {
		ts.Close()
		site.Intakes.CloseAll()
	})
	return &Server{Server: ts, Site: site}
}

// Client returns an HTTP client with a cookie jar that does not follow
// redirects, so tests can assert on 303s.
func (s *Server) Client(t testing.TB) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Transport: s.Server.Client().Transport,
		Jar:       jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// RepoRoot returns the module root, located relative to this file.
func RepoRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..")
}
