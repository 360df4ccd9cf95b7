// Package logger configures the process-wide zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"pagereader/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the optional log file.
const (
	maxSizeMB  = 20
	maxBackups = 3
	maxAgeDays = 28
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup installs the global logger described by cfg and returns a closer
// for the log file, if any. Console output goes to stderr.
func Setup(cfg config.LogConfig) (io.Closer, error) {
	return SetupWriter(cfg, os.Stderr)
}

// SetupWriter is Setup with an explicit console writer.
func SetupWriter(cfg config.LogConfig, console io.Writer) (io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: console, TimeFormat: time.DateTime}
	}

	var closer io.Closer = nopCloser{}
	out := console
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		// The file always gets JSON, regardless of Pretty.
		out = zerolog.MultiLevelWriter(console, rotator)
		closer = rotator
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closer, nil
}
