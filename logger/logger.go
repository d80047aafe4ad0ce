package logger

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects how the process logger is built.
type Options struct {
	Level       string
	Format      string // "json" or "console"
	Development bool
}

var (
	base     *zap.Logger = zap.NewNop()
	baseOnce sync.Once
)

// New builds a zap logger from opts.
func New(opts Options) (*zap.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	encoding := "json"
	encoderConfig := zap.NewProductionEncoderConfig()
	if strings.EqualFold(opts.Format, "console") || opts.Development {
		encoding = "console"
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       opts.Development,
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !opts.Development,
		DisableStacktrace: !opts.Development,
	}
	if !opts.Development {
		config.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	}

	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("logger: build: %w", err)
	}
	return l, nil
}

// Init builds the process logger once. Later calls return the first logger.
func Init(opts Options) (*zap.Logger, error) {
	var err error
	baseOnce.Do(func() {
		var l *zap.Logger
		l, err = New(opts)
		if err == nil {
			base = l
		}
	})
	return base, err
}

// L returns the process logger, or a no-op logger before Init.
func L() *zap.Logger {
	return base
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func parseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return level, fmt.Errorf("logger: level %q: %w", s, err)
	}
	return level, nil
}
