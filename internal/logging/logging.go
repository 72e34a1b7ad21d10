// Package logging configures the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var root = zap.NewNop()

// Init builds the root logger. Verbose enables debug level; output goes to
// stderr so result files and stdout listings stay clean.
func Init(verbose bool) error {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return err
	}
	root = log
	return nil
}

// New returns a logger scoped to one component.
func New(component string) *zap.Logger {
	return root.With(zap.String("component", component))
}

// Sync flushes buffered log entries; call before process exit.
func Sync() {
	_ = root.Sync()
}
