// Package logging builds the zap logger used by the dictlint commands.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options select the level and encoding of a logger.
type Options struct {
	// Level is a zap level name: debug, info, warn or error.
	Level string
	// Format is "console" or "json".
	Format string
}

// New returns a logger configured like zap's production preset that writes
// to w.
func New(w io.Writer, opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}
	config.Level = zap.NewAtomicLevelAt(level)

	var enc zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", "console":
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(config.EncoderConfig)
	case "json":
		enc = zapcore.NewJSONEncoder(config.EncoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), config.Level)
	return zap.New(core), nil
}
