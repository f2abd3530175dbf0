// Package logging builds the zap loggers used by the memogen commands.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the encoder of a logger.
type Format string

const (
	// FormatConsole is human-readable output, the default.
	FormatConsole Format = "console"

	// FormatJSON is one JSON object per entry.
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for a format other than console or json.
var ErrUnknownFormat = errors.New("logging: unknown format")

// ParseFormat parses a format name. The empty string selects FormatConsole.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatConsole, nil
	case FormatConsole, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ParseLevel parses a zap level name such as "debug" or "warn".
func ParseLevel(s string) (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return lvl, fmt.Errorf("logging: %w", err)
	}
	return lvl, nil
}

// New builds a logger that writes entries at or above level to w.
func New(w io.Writer, level, format string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if f == FormatJSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl)), nil
}

// WithRunID tags every entry of logger with a fresh run identifier.
func WithRunID(logger *zap.Logger) (*zap.Logger, string) {
	id := uuid.NewString()
	return logger.With(zap.String("run_id", id)), id
}

// Sync flushes logger. A failure is logged, not returned.
func Sync(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		logger.Warn("failed to sync logger", zap.Error(err))
	}
}
