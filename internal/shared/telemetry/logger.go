package telemetry

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process-wide zap logger. Production environments get
// JSON output at info level; everything else gets the development console
// encoder at debug level.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "production" || env == "staging" {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
		return cfg.Build()
	}
	return zap.NewDevelopment()
}

// NewNop returns a no-op logger for tests and optional dependencies.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
