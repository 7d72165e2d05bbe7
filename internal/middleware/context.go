package middleware

import (
	"context"
)

type ctxKey int

const (
	ctxKeyHX ctxKey = iota
	ctxKeySession
	ctxKeyLang
)

// WithLang stores the resolved UI language.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKeyLang, lang)
}
