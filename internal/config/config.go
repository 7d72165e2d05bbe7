package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	defaultEnvFile         = ".env"
	defaultHost            = ""
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultEnvironment     = "development"
	defaultLocale          = "en"
	defaultSessionCookie   = "wl_session"
	defaultSessionTTL      = 24 * time.Hour
	defaultContactGateway  = GatewaySimulated
	defaultContactDelay    = 1500 * time.Millisecond
	defaultIntakeTTL       = 30 * time.Minute
	defaultSweepInterval   = time.Minute
	defaultDeliveryTimeout = 10 * time.Second
	defaultMailSubject     = "New enquiry from the Wonderland website"
)

// Contact gateway identifiers accepted by SITE_CONTACT_GATEWAY.
const (
	GatewaySimulated = "simulated"
	GatewaySendGrid  = "sendgrid"
	GatewayPubSub    = "pubsub"
	GatewayWebhook   = "webhook"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string
	Server      ServerConfig
	Site        SiteConfig
	Session     SessionConfig
	Contact     ContactConfig
	Delivery    DeliveryConfig
	Features    FeatureFlags
	Telemetry   TelemetryConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// SiteConfig points at the on-disk site resources.
type SiteConfig struct {
	BaseURL       string
	TemplatesDir  string
	ContentDir    string
	LocalesDir    string
	AssetsDir     string
	DefaultLocale string
	DevMode       bool
}

// SessionConfig controls the signed visitor cookie.
type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// ContactConfig controls the contact intake lifecycle.
type ContactConfig struct {
	Gateway       string
	Delay         time.Duration
	IntakeTTL     time.Duration
	SweepInterval time.Duration
}

// DeliveryConfig holds credentials for the real contact gateways.
type DeliveryConfig struct {
	SendGridAPIKey string
	MailFrom       string
	MailFromName   string
	MailTo         string
	MailSubject    string
	PubSubProject  string
	PubSubTopic    string
	WebhookURL     string
	WebhookToken   string
	Timeout        time.Duration
}

// FeatureFlags toggle optional behaviour without redeploying.
type FeatureFlags struct {
	Reviews bool
}

// TelemetryConfig toggles logging verbosity and the metrics endpoint.
type TelemetryConfig struct {
	LogLevel       string
	MetricsEnabled bool
}

// IsProduction reports whether the site runs in production mode.
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
	secret       SecretResolver
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.LookupEnv.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// WithSecretResolver sets the resolver used for secret:// and sm:// references.
func WithSecretResolver(resolver SecretResolver) Option {
	return func(o *loaderOptions) {
		o.secret = resolver
	}
}

// Load assembles the site configuration from defaults, a .env file, the
// process environment and an explicit map, in increasing precedence.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	env, err := newEnvSource(options)
	if err != nil {
		return Config{}, err
	}

	environment := strings.ToLower(env.str("SITE_ENV", defaultEnvironment))
	dev := environment != "production" && environment != "prod"

	cfg := Config{
		Environment: environment,
		Server: ServerConfig{
			Host:            env.str("SITE_SERVER_HOST", defaultHost),
			Port:            env.str("SITE_SERVER_PORT", env.str("PORT", defaultPort)),
			ReadTimeout:     env.duration("SITE_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    env.duration("SITE_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     env.duration("SITE_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: env.duration("SITE_SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Site: SiteConfig{
			BaseURL:       strings.TrimRight(env.str("SITE_BASE_URL", "http://localhost:8080"), "/"),
			TemplatesDir:  env.str("SITE_TEMPLATES_DIR", "templates"),
			ContentDir:    env.str("SITE_CONTENT_DIR", "content"),
			LocalesDir:    env.str("SITE_LOCALES_DIR", "locales"),
			AssetsDir:     env.str("SITE_ASSETS_DIR", "public/assets"),
			DefaultLocale: env.str("SITE_DEFAULT_LOCALE", defaultLocale),
			DevMode:       env.flag("SITE_DEV", dev),
		},
		Session: SessionConfig{
			Secret:     env.str("SITE_SESSION_SECRET", ""),
			CookieName: env.str("SITE_SESSION_COOKIE", defaultSessionCookie),
			TTL:        env.duration("SITE_SESSION_TTL", defaultSessionTTL),
			Secure:     env.flag("SITE_SESSION_SECURE", !dev),
		},
		Contact: ContactConfig{
			Gateway:       strings.ToLower(env.str("SITE_CONTACT_GATEWAY", defaultContactGateway)),
			Delay:         env.duration("SITE_CONTACT_DELAY", defaultContactDelay),
			IntakeTTL:     env.duration("SITE_CONTACT_INTAKE_TTL", defaultIntakeTTL),
			SweepInterval: env.duration("SITE_CONTACT_SWEEP_INTERVAL", defaultSweepInterval),
		},
		Delivery: DeliveryConfig{
			SendGridAPIKey: env.str("SITE_SENDGRID_API_KEY", ""),
			MailFrom:       env.str("SITE_MAIL_FROM", ""),
			MailFromName:   env.str("SITE_MAIL_FROM_NAME", "Wonderland Website"),
			MailTo:         env.str("SITE_MAIL_TO", ""),
			MailSubject:    env.str("SITE_MAIL_SUBJECT", defaultMailSubject),
			PubSubProject:  env.str("SITE_PUBSUB_PROJECT", ""),
			PubSubTopic:    env.str("SITE_PUBSUB_TOPIC", ""),
			WebhookURL:     env.str("SITE_WEBHOOK_URL", ""),
			WebhookToken:   env.str("SITE_WEBHOOK_TOKEN", ""),
			Timeout:        env.duration("SITE_DELIVERY_TIMEOUT", defaultDeliveryTimeout),
		},
		Features: FeatureFlags{
			Reviews: env.flag("SITE_FEATURE_REVIEWS", true),
		},
		Telemetry: TelemetryConfig{
			LogLevel:       env.str("SITE_LOG_LEVEL", "info"),
			MetricsEnabled: env.flag("SITE_METRICS", true),
		},
	}

	for _, field := range []*string{&cfg.Session.Secret, &cfg.Delivery.SendGridAPIKey, &cfg.Delivery.WebhookToken} {
		if *field, err = resolveSecret(ctx, *field, options.secret); err != nil {
			return Config{}, err
		}
	}

	problems := append(env.problems, cfg.problems()...)
	if len(problems) > 0 {
		return Config{}, &ValidationError{Problems: problems}
	}
	return cfg, nil
}

// problems reports fields that hold values the site cannot run with.
func (c Config) problems() []Problem {
	var out []Problem
	need := func(field, value, reason string) {
		if value == "" {
			out = append(out, Problem{Field: field, Reason: reason})
		}
	}

	need("Server.Port", c.Server.Port, "required")
	if c.Contact.Delay < 0 {
		out = append(out, Problem{Field: "Contact.Delay", Reason: "must not be negative"})
	}
	if c.Contact.IntakeTTL <= 0 {
		out = append(out, Problem{Field: "Contact.IntakeTTL", Reason: "must be positive"})
	}
	if c.IsProduction() && len(c.Session.Secret) < 32 {
		out = append(out, Problem{Field: "Session.Secret", Reason: "needs at least 32 bytes in production"})
	}

	switch c.Contact.Gateway {
	case GatewaySimulated:
	case GatewaySendGrid:
		need("Delivery.SendGridAPIKey", c.Delivery.SendGridAPIKey, "required by the sendgrid gateway")
		need("Delivery.MailFrom", c.Delivery.MailFrom, "required by the sendgrid gateway")
		need("Delivery.MailTo", c.Delivery.MailTo, "required by the sendgrid gateway")
	case GatewayPubSub:
		need("Delivery.PubSubProject", c.Delivery.PubSubProject, "required by the pubsub gateway")
		need("Delivery.PubSubTopic", c.Delivery.PubSubTopic, "required by the pubsub gateway")
	case GatewayWebhook:
		need("Delivery.WebhookURL", c.Delivery.WebhookURL, "required by the webhook gateway")
	default:
		out = append(out, Problem{Field: "Contact.Gateway", Reason: fmt.Sprintf("unknown gateway %q", c.Contact.Gateway)})
	}
	return out
}
