// Package logging builds the process-wide zap logger. Output goes to
// stderr so command output on stdout stays machine-readable.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger at info level, or debug when verbose is
// set.
func New(verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	log, err := cfg.Build()
	if err != nil {
		// The development config is static; Build only fails on
		// misconfiguration, which cannot happen here.
		return zap.NewNop()
	}
	return log
}
