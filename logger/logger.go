// Package logger builds the zap logger used by the smartdocs binaries.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Nikhilpandey8/smartdocshub/config"
)

// New builds a logger for cfg. Console output goes to stderr so stdout
// stays free for protocol traffic. The returned close function releases the
// log file, if any.
func New(cfg config.LoggingConfig) (*zap.Logger, func() error, error) {
	return build(cfg, os.Stderr)
}

func build(cfg config.LoggingConfig, console io.Writer) (*zap.Logger, func() error, error) {
	level := parseLevel(cfg.Level)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	fileEncoderConfig := encoderConfig
	fileEncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	var (
		cores   []zapcore.Core
		closeFn = func() error { return nil }
	)
	if cfg.Output != "file" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(console),
			level,
		))
	}
	if cfg.Output == "file" || cfg.Output == "both" {
		f, err := openFile(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		closeFn = f.Close
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileEncoderConfig),
			zapcore.AddSync(f),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), closeFn, nil
}

func openFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("logger: file output needs a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logger: creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logger: opening log file: %w", err)
	}
	return f, nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
