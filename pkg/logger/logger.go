package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the application log written inside the log directory.
const FileName = "app.log"

// Options configures the application logger.
type Options struct {
	Dir    string
	Level  string
	Stderr bool
}

// New builds a plain-text zap logger appending to <Dir>/app.log, creating the
// directory when needed. Lines look like "2024-05-01T10:00:00.000Z - INFO - msg {fields}".
// The returned func flushes the logger and closes the file.
func New(opts Options) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	dir := opts.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	encoder := zapcore.NewConsoleEncoder(encoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(f), level)
	if opts.Stderr {
		core = zapcore.NewTee(core, zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level))
	}

	l := zap.New(core)
	cleanup := func() {
		_ = l.Sync()
		_ = f.Close()
	}
	return l, cleanup, nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.CallerKey = ""
	cfg.ConsoleSeparator = " - "
	return cfg
}
