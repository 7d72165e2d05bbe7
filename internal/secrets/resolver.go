// Package secrets resolves secret:// configuration references against Google
// Secret Manager, with an in-process cache and a local fallback file for
// development.
package secrets

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultFallbackPath = ".secrets.local"

var clientFactory = func(ctx context.Context, opts ...option.ClientOption) (*secretmanager.Client, error) {
	return secretmanager.NewClient(ctx, opts...)
}

type secretManagerClient interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
	Close() error
}

// Resolver implements config.SecretResolver.
type Resolver struct {
	client     secretManagerClient
	ownsClient bool
	project    string
	logger     *zap.Logger

	fallbackPath string
	fallbackOnce sync.Once
	fallback     map[string]string

	mu    sync.RWMutex
	cache map[string]string
}

type resolverConfig struct {
	client       secretManagerClient
	project      string
	logger       *zap.Logger
	fallbackPath string
	clientOpts   []option.ClientOption
}

// Option customises Resolver construction.
type Option func(*resolverConfig)

// WithProject sets the Google Cloud project holding the secrets.
func WithProject(id string) Option {
	return func(cfg *resolverConfig) { cfg.project = strings.TrimSpace(id) }
}

// WithLogger sets the logger used for diagnostic output.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *resolverConfig) { cfg.logger = logger }
}

// WithFallbackFile overrides the local fallback file path.
func WithFallbackFile(path string) Option {
	return func(cfg *resolverConfig) { cfg.fallbackPath = strings.TrimSpace(path) }
}

// WithClient injects a Secret Manager client.
func WithClient(client secretManagerClient) Option {
	return func(cfg *resolverConfig) { cfg.client = client }
}

// WithClientOptions forwards Cloud client options when constructing the client.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(cfg *resolverConfig) { cfg.clientOpts = append(cfg.clientOpts, opts...) }
}

// NewResolver builds a Resolver. When no project is configured or the client
// cannot be created, only the fallback file is consulted.
func NewResolver(ctx context.Context, opts ...Option) *Resolver {
	cfg := resolverConfig{
		logger:       zap.NewNop(),
		fallbackPath: defaultFallbackPath,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	r := &Resolver{
		client:       cfg.client,
		project:      cfg.project,
		logger:       cfg.logger,
		fallbackPath: cfg.fallbackPath,
		cache:        make(map[string]string),
	}
	if r.client == nil && r.project != "" {
		client, err := clientFactory(ctx, cfg.clientOpts...)
		if err != nil {
			r.logger.Warn("secrets: secret manager client unavailable; using fallback file", zap.Error(err))
		} else {
			r.client = client
			r.ownsClient = true
		}
	}
	return r
}

// Close releases the Secret Manager client when the resolver created it.
func (r *Resolver) Close() error {
	if r.ownsClient && r.client != nil {
		return r.client.Close()
	}
	return nil
}

// ResolveSecret returns the value for ref, a secret://name[?version=N] URI.
func (r *Resolver) ResolveSecret(ctx context.Context, ref string) (string, error) {
	name, version, err := parseReference(ref)
	if err != nil {
		return "", err
	}
	key := name + "#" + version

	r.mu.RLock()
	value, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return value, nil
	}

	if r.client != nil && r.project != "" {
		resource := fmt.Sprintf("projects/%s/secrets/%s/versions/%s", r.project, name, version)
		resp, err := r.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: resource})
		switch {
		case err == nil && resp.GetPayload() != nil:
			value = string(resp.GetPayload().GetData())
			r.store(key, value)
			return value, nil
		case err == nil:
			return "", fmt.Errorf("secrets: empty payload for %s", resource)
		case !isFallbackError(err):
			return "", fmt.Errorf("secrets: fetch %s: %w", resource, err)
		default:
			r.logger.Debug("secrets: falling back to local file", zap.String("secret", name), zap.Error(err))
		}
	}

	value, ok = r.lookupFallback(name)
	if !ok {
		return "", fmt.Errorf("secrets: no value for %s", name)
	}
	r.store(key, value)
	return value, nil
}

func (r *Resolver) store(key, value string) {
	r.mu.Lock()
	r.cache[key] = value
	r.mu.Unlock()
}

func (r *Resolver) lookupFallback(name string) (string, bool) {
	r.fallbackOnce.Do(func() {
		r.fallback = readFallback(r.fallbackPath, r.logger)
	})
	value, ok := r.fallback[name]
	return value, ok
}

// readFallback parses "secret://name=value" lines. Keys are URIs, which
// dotenv parsers reject, so the file is scanned by hand.
func readFallback(path string, logger *zap.Logger) map[string]string {
	values := make(map[string]string)
	if path == "" {
		return values
	}
	file, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("secrets: unable to open fallback file", zap.String("path", path), zap.Error(err))
		}
		return values
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		start := 0
		if idx := strings.Index(line, "://"); idx >= 0 {
			start = idx + 3
		}
		eq := strings.IndexByte(line[start:], '=')
		if eq < 0 {
			continue
		}
		eq += start
		name, _, err := parseReference(strings.TrimSpace(line[:eq]))
		if err != nil {
			continue
		}
		values[name] = strings.TrimSpace(line[eq+1:])
	}
	return values
}

func parseReference(ref string) (name, version string, err error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "sm://") {
		ref = "secret://" + strings.TrimPrefix(ref, "sm://")
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("secrets: invalid reference %q: %w", ref, err)
	}
	if u.Scheme != "secret" {
		return "", "", fmt.Errorf("secrets: unsupported scheme %q", u.Scheme)
	}
	name = strings.Trim(u.Host+u.Path, "/")
	if name == "" {
		return "", "", fmt.Errorf("secrets: missing secret name in %q", ref)
	}
	version = strings.TrimSpace(u.Query().Get("version"))
	if version == "" {
		version = "latest"
	}
	return name, version, nil
}

func isFallbackError(err error) bool {
	switch status.Code(err) {
	case codes.PermissionDenied, codes.Unauthenticated, codes.Unavailable, codes.DeadlineExceeded, codes.NotFound:
		return true
	default:
		return false
	}
}
