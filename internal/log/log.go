// Package log builds the zap logger crawlboard writes to. The TUI owns the
// terminal, so records go to a JSON file that the in-app log view tails.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options select where and how verbosely to log.
type Options struct {
	Path  string // Empty disables logging
	Debug bool
}

// Field keys shared with internal/logtail.
const (
	TimeKey    = "ts"
	LevelKey   = "level"
	MessageKey = "msg"
	NameKey    = "logger"
)

// New returns a JSON file logger, or a no-op logger when opts.Path is empty.
func New(opts Options) (*zap.Logger, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	level := zap.InfoLevel
	if opts.Debug {
		level = zap.DebugLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "json",
		EncoderConfig:    encoderConfig(),
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func encoderConfig() zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = TimeKey
	enc.LevelKey = LevelKey
	enc.MessageKey = MessageKey
	enc.NameKey = NameKey
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.LowercaseLevelEncoder
	enc.CallerKey = zapcore.OmitKey
	enc.StacktraceKey = zapcore.OmitKey
	return enc
}

// Sync flushes logger, ignoring the errors some sinks report on close.
func Sync(logger *zap.Logger) {
	if logger != nil {
		_ = logger.Sync()
	}
}
