package config

import (
	"context"
	"errors"
	"strings"
)

// SecretResolver turns a secret://project/name reference into its value.
type SecretResolver interface {
	ResolveSecret(ctx context.Context, ref string) (string, error)
}

// SecretResolverFunc adapts a function to SecretResolver.
type SecretResolverFunc func(context.Context, string) (string, error)

func (f SecretResolverFunc) ResolveSecret(ctx context.Context, ref string) (string, error) {
	return f(ctx, ref)
}

var errSecretResolverNotConfigured = errors.New("no secret resolver configured")

// secretRef returns the canonical secret:// form of value, accepting the
// sm:// shorthand. ok is false for plain values.
func secretRef(value string) (ref string, ok bool) {
	v := strings.TrimSpace(value)
	if rest, found := strings.CutPrefix(v, "sm://"); found {
		return "secret://" + rest, true
	}
	return v, strings.HasPrefix(v, "secret://")
}

func resolveSecret(ctx context.Context, value string, resolver SecretResolver) (string, error) {
	ref, ok := secretRef(value)
	if !ok {
		return value, nil
	}
	if resolver == nil {
		return "", &SecretError{Ref: ref, Err: errSecretResolverNotConfigured}
	}
	resolved, err := resolver.ResolveSecret(ctx, ref)
	if err != nil {
		return "", &SecretError{Ref: ref, Err: err}
	}
	return resolved, nil
}
