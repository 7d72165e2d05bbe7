package observability

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKey struct{}

type loggerOptions struct {
	console bool
}

// LoggerOption tweaks NewLogger.
type LoggerOption func(*loggerOptions)

// Console switches to the human-readable encoder used in development.
func Console(enabled bool) LoggerOption {
	return func(o *loggerOptions) { o.console = enabled }
}

// NewLogger builds the site logger. Output is JSON on stdout with
// Cloud Logging field names; an unknown level means info.
func NewLogger(level string, opts ...LoggerOption) (*zap.Logger, error) {
	var o loggerOptions
	for _, opt := range opts {
		opt(&o)
	}

	lvl := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(strings.TrimSpace(level)); err == nil {
		lvl = parsed
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.LevelKey = "severity"
	enc.MessageKey = "message"
	enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.EncodeDuration = zapcore.MillisDurationEncoder

	var encoder zapcore.Encoder
	if o.console {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(enc)
	} else {
		encoder = zapcore.NewJSONEncoder(enc)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zap.NewAtomicLevelAt(lvl))
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr))), nil
}

// WithLogger stores logger on ctx.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the request-scoped logger or a no-op one.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}
