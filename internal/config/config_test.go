package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Addr() != ":8080" {
		t.Errorf("unexpected addr %s", cfg.Server.Addr())
	}
	if cfg.Contact.Gateway != GatewaySimulated {
		t.Errorf("expected simulated gateway, got %s", cfg.Contact.Gateway)
	}
	if cfg.Contact.Delay != 1500*time.Millisecond {
		t.Errorf("unexpected contact delay %s", cfg.Contact.Delay)
	}
	if !cfg.Features.Reviews {
		t.Errorf("expected reviews feature enabled by default")
	}
	if !cfg.Site.DevMode {
		t.Errorf("expected dev mode outside production")
	}
	if cfg.Session.Secure {
		t.Errorf("expected insecure cookies in development")
	}
	if cfg.Session.CookieName != defaultSessionCookie {
		t.Errorf("unexpected cookie name %s", cfg.Session.CookieName)
	}
}

func TestLoadWithOverridesAndSecrets(t *testing.T) {
	env := map[string]string{
		"SITE_ENV":              "production",
		"SITE_SERVER_PORT":      "9090",
		"SITE_SESSION_SECRET":   "sm://site/session",
		"SITE_CONTACT_GATEWAY":  "SendGrid",
		"SITE_CONTACT_DELAY":    "250ms",
		"SITE_SENDGRID_API_KEY": "secret://sendgrid/key",
		"SITE_MAIL_FROM":        "web@wonderland.co.zw",
		"SITE_MAIL_TO":          "bookings@wonderland.co.zw",
		"SITE_FEATURE_REVIEWS":  "off",
		"SITE_BASE_URL":         "https://wonderland.co.zw/",
	}
	var refs []string
	resolver := SecretResolverFunc(func(_ context.Context, ref string) (string, error) {
		refs = append(refs, ref)
		return strings.Repeat("s", 40), nil
	})

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""), WithSecretResolver(resolver))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port override, got %s", cfg.Server.Port)
	}
	if !cfg.IsProduction() || cfg.Site.DevMode {
		t.Errorf("expected production without dev mode, got env=%s dev=%v", cfg.Environment, cfg.Site.DevMode)
	}
	if !cfg.Session.Secure {
		t.Errorf("expected secure cookies in production")
	}
	if cfg.Contact.Gateway != GatewaySendGrid {
		t.Errorf("expected sendgrid gateway, got %s", cfg.Contact.Gateway)
	}
	if cfg.Contact.Delay != 250*time.Millisecond {
		t.Errorf("unexpected delay %s", cfg.Contact.Delay)
	}
	if cfg.Features.Reviews {
		t.Errorf("expected reviews feature disabled")
	}
	if cfg.Site.BaseURL != "https://wonderland.co.zw" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.Site.BaseURL)
	}
	if len(refs) != 2 || refs[0] != "secret://site/session" || refs[1] != "secret://sendgrid/key" {
		t.Errorf("unexpected resolved refs %v", refs)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	env := map[string]string{
		"SITE_CONTACT_GATEWAY": "webhook",
		"SITE_ENV":             "production",
	}
	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := strings.Join(verr.Fields(), ",")
	if !strings.Contains(fields, "Delivery.WebhookURL") || !strings.Contains(fields, "Session.Secret") {
		t.Errorf("unexpected fields %s", fields)
	}

	_, err = Load(context.Background(), WithEnvMap(map[string]string{"SITE_CONTACT_GATEWAY": "carrier-pigeon"}), WithoutSystemEnv(), WithEnvFile(""))
	if !errors.As(err, &verr) || verr.Fields()[0] != "Contact.Gateway" {
		t.Fatalf("expected unknown gateway rejected, got %v", err)
	}
}

func TestLoadSecretWithoutResolver(t *testing.T) {
	env := map[string]string{"SITE_SESSION_SECRET": "secret://site/session"}
	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var serr *SecretError
	if !errors.As(err, &serr) {
		t.Fatalf("expected secret error, got %v", err)
	}
	if !errors.Is(err, errSecretResolverNotConfigured) {
		t.Errorf("expected resolver-not-configured cause, got %v", serr.Err)
	}
}

func TestLoadReadsDotEnvWithLowestPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "SITE_SERVER_PORT=7000\nSITE_LOG_LEVEL=debug\nexport SITE_CONTACT_DELAY=\"2s\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}

	cfg, err := Load(context.Background(), WithEnvFile(path), WithoutSystemEnv(), WithEnvMap(map[string]string{"SITE_SERVER_PORT": "7100"}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7100" {
		t.Errorf("explicit map must win over .env, got %s", cfg.Server.Port)
	}
	if cfg.Telemetry.LogLevel != "debug" {
		t.Errorf("expected log level from .env, got %s", cfg.Telemetry.LogLevel)
	}
	if cfg.Contact.Delay != 2*time.Second {
		t.Errorf("expected delay from .env, got %s", cfg.Contact.Delay)
	}

	if _, err := Load(context.Background(), WithEnvFile(filepath.Join(dir, "missing.env")), WithoutSystemEnv()); err != nil {
		t.Fatalf("missing .env must be ignored: %v", err)
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	env := map[string]string{
		"SITE_CONTACT_DELAY":   "soon",
		"SITE_FEATURE_REVIEWS": "maybe",
		"SITE_METRICS":         "OFF",
	}
	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := verr.Fields()
	if len(fields) != 2 || fields[0] != "SITE_CONTACT_DELAY" || fields[1] != "SITE_FEATURE_REVIEWS" {
		t.Errorf("unexpected fields %v", fields)
	}
	if !strings.Contains(err.Error(), `"soon" is not a duration`) {
		t.Errorf("error should name the bad value: %v", err)
	}
}
