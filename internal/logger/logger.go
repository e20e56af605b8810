// Package logger holds the structured diagnostics logger for ossemdoc.
//
// Library packages log skipped files, failed parses and enrichment problems
// through the package-level Logger. It is a no-op until Initialize is called,
// so tests and library callers stay quiet by default.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global sugared logger.
var Logger = zap.NewNop().Sugar()

// Options configures Initialize.
type Options struct {
	Verbose bool      // Emit debug entries
	JSON    bool      // JSON lines instead of console text
	Writer  io.Writer // Destination, defaults to os.Stderr
}

// Initialize replaces the global logger.
func Initialize(opts Options) {
	Logger = New(opts).Sugar()
}

// New builds a zap logger without touching the global one.
func New(opts Options) *zap.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := zap.InfoLevel
	if opts.Verbose {
		level = zap.DebugLevel
	}

	encCfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		NameKey:        "logger",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		LineEnding:     zapcore.DefaultLineEnding,
	}

	var enc zapcore.Encoder
	if opts.JSON {
		encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

// Cleanup flushes buffered entries.
func Cleanup() {
	_ = Logger.Sync()
}
