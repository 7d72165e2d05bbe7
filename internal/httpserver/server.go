package httpserver

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"wonderland.co.zw/panels-web/internal/config"
	"wonderland.co.zw/panels-web/internal/contact"
	"wonderland.co.zw/panels-web/internal/content"
	"wonderland.co.zw/panels-web/internal/handlers"
	"wonderland.co.zw/panels-web/internal/i18n"
	custommw "wonderland.co.zw/panels-web/internal/middleware"
	"wonderland.co.zw/panels-web/internal/observability"
	"wonderland.co.zw/panels-web/internal/pages"
	"wonderland.co.zw/panels-web/internal/render"
	"wonderland.co.zw/panels-web/internal/reviews"
)

// Config holds runtime options for the site's HTTP server.
type Config struct {
	Address        string
	BaseURL        string
	TemplatesDir   string
	ContentDir     string
	LocalesDir     string
	AssetsDir      string
	DefaultLocale  string
	DevMode        bool
	ReviewsEnabled bool

	Session   config.SessionConfig
	Gateway   contact.Gateway
	IntakeTTL time.Duration

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration

	Logger *zap.Logger
	// Metrics enables /metrics and the request instrumentation when set.
	Metrics *observability.Metrics
}

// FromConfig maps the loaded configuration onto server options. The gateway,
// logger and metrics are supplied by the caller.
func FromConfig(cfg config.Config) Config {
	return Config{
		Address:        cfg.Server.Addr(),
		BaseURL:        cfg.Site.BaseURL,
		TemplatesDir:   cfg.Site.TemplatesDir,
		ContentDir:     cfg.Site.ContentDir,
		LocalesDir:     cfg.Site.LocalesDir,
		AssetsDir:      cfg.Site.AssetsDir,
		DefaultLocale:  cfg.Site.DefaultLocale,
		DevMode:        cfg.Site.DevMode,
		ReviewsEnabled: cfg.Features.Reviews,
		Session:        cfg.Session,
		IntakeTTL:      cfg.Contact.IntakeTTL,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
	}
}

// Site is the assembled server together with the state it owns, so the
// caller can run the background loops and shut it down.
type Site struct {
	Server  *http.Server
	Content *content.Source
	Reviews *reviews.Store
	Intakes *contact.Registry
	Pages   *pages.Table
}

// New loads content, templates and messages, then wires the router.
func New(cfg Config) (*Site, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	applyDefaults(&cfg)
	metrics := cfg.Metrics

	var reloadHook func(error)
	if metrics != nil {
		reloadHook = func(err error) {
			result := "ok"
			if err != nil {
				result = "error"
			}
			metrics.ContentReloads.WithLabelValues(result).Inc()
		}
	}
	source, err := content.NewSource(cfg.ContentDir,
		content.WithSourceLogger(logger.Named("content")),
		content.WithReloadHook(reloadHook),
	)
	if err != nil {
		return nil, err
	}

	bundle, err := i18n.Load(cfg.LocalesDir, cfg.DefaultLocale, nil)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New(cfg.TemplatesDir, cfg.DevMode, render.Funcs(bundle))
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	seed, err := source.Current().Site.ReviewList()
	if err != nil {
		return nil, err
	}
	var storeOpts []reviews.StoreOption
	if metrics != nil {
		storeOpts = append(storeOpts, reviews.WithVoteObserver(func(_ reviews.Review, dir reviews.Direction) {
			metrics.ReviewVotes.WithLabelValues(string(dir)).Inc()
		}))
	}
	store, err := reviews.NewStore(seed, storeOpts...)
	if err != nil {
		return nil, err
	}

	intakeLogger := logger.Named("contact")
	intakeOpts := []contact.Option{contact.WithLogger(intakeLogger)}
	registryOpts := []contact.RegistryOption{contact.WithRegistryLogger(intakeLogger)}
	if metrics != nil {
		intakeOpts = append(intakeOpts, contact.WithOutcomeObserver(func(o contact.Outcome) {
			metrics.ContactOutcomes.WithLabelValues(string(o)).Inc()
		}))
		registryOpts = append(registryOpts, contact.WithSizeObserver(func(n int) {
			metrics.ContactIntakes.Set(float64(n))
		}))
	}
	gateway := cfg.Gateway
	registry := contact.NewRegistry(func() *contact.Intake {
		return contact.NewIntake(gateway, intakeOpts...)
	}, cfg.IntakeTTL, registryOpts...)

	table := pages.NewTable(cfg.ReviewsEnabled)
	h, err := handlers.New(handlers.Config{
		Content:  source,
		Reviews:  store,
		Intakes:  registry,
		Renderer: renderer,
		Pages:    table,
		Bundle:   bundle,
		BaseURL:  cfg.BaseURL,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	sessions := custommw.NewSessions(cfg.Session, logger.Named("session"))
	router := newRouter(routerOptions{
		Handlers:       h,
		Sessions:       sessions,
		Bundle:         bundle,
		Metrics:        metrics,
		Logger:         logger.Named("http"),
		AssetsDir:      cfg.AssetsDir,
		RequestTimeout: cfg.RequestTimeout,
		ReviewsEnabled: cfg.ReviewsEnabled,
	})

	return &Site{
		Server: &http.Server{
			Addr:              cfg.Address,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		Content: source,
		Reviews: store,
		Intakes: registry,
		Pages:   table,
	}, nil
}

type routerOptions struct {
	Handlers       *handlers.Handlers
	Sessions       *custommw.Sessions
	Bundle         *i18n.Bundle
	Metrics        *observability.Metrics
	Logger         *zap.Logger
	AssetsDir      string
	RequestTimeout time.Duration
	ReviewsEnabled bool
}

func newRouter(opts routerOptions) chi.Router {
	h := opts.Handlers
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; only deploy behind a proxy that sets it.
	router.Use(chimw.RealIP)
	router.Use(observability.RequestLogger(opts.Logger))
	router.Use(observability.Recoverer(opts.Logger))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(opts.RequestTimeout))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	router.Handle("/assets/*", custommw.AssetsWithCache(opts.AssetsDir, "/assets"))

	// everything that renders chrome needs the session, language and CSRF token
	chrome := chi.Chain(
		custommw.HTMX,
		opts.Sessions.Handler,
		custommw.Locale(opts.Bundle),
		custommw.CSRF(opts.Sessions.Secure()),
	)
	router.Group(func(r chi.Router) {
		r.Use(chrome...)

		r.Get("/", h.Home)
		r.Get("/services", h.Services)
		r.Get("/gallery", h.Gallery)
		r.Get("/gallery/pairs/{slug}", h.GalleryPair)
		r.Get("/gallery/close", h.GalleryClose)
		r.Get("/about", h.About)
		r.Get("/process", h.Process)
		r.Get("/contact", h.Contact)
		r.Post("/contact", h.ContactSubmit)
		r.Post("/contact/draft", h.ContactDraft)
		r.Get("/contact/status", h.ContactStatus)
		if opts.ReviewsEnabled {
			r.Get("/reviews", h.Reviews)
			r.Post("/reviews/{id}/vote", h.ReviewVote)
		}
	})
	router.NotFound(chrome.HandlerFunc(h.NotFound).ServeHTTP)
	// a wrong method never reaches CSRF so it is reported as 405
	router.MethodNotAllowed(custommw.HTMX(http.HandlerFunc(h.MethodNotAllowed)).ServeHTTP)
	return router
}

func applyDefaults(cfg *Config) {
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = "templates"
	}
	if cfg.ContentDir == "" {
		cfg.ContentDir = "content"
	}
	if cfg.LocalesDir == "" {
		cfg.LocalesDir = "locales"
	}
	if cfg.AssetsDir == "" {
		cfg.AssetsDir = filepath.Join("public", "assets")
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "en"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.IntakeTTL <= 0 {
		cfg.IntakeTTL = 30 * time.Minute
	}
	if cfg.Gateway == nil {
		cfg.Gateway = contact.SimulatedGateway{Delay: contact.DefaultSimulatedDelay}
	}
}
