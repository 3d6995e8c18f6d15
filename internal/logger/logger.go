// Package logger holds the process-wide structured logger.
//
// Operator-facing status lines ("✓ Created policy file: UserPolicy") are not
// logs; they are printed by the CLI adapters. This logger carries diagnostics
// on stderr: warnings about degraded bindings, history failures, debug traces.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger instance.
	Logger *zap.SugaredLogger
	// JSONOutput reports whether the logger emits JSON.
	JSONOutput bool
)

func init() {
	// No-op until Initialize is called so early callers never hit nil.
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger.
// verbosity 0 logs warnings and above, 1 info, 2+ debug.
func Initialize(verbosity int, jsonOutput bool) error {
	JSONOutput = jsonOutput
	level := levelFor(verbosity)

	var zapLogger *zap.Logger
	var err error

	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
		zapLogger, err = config.Build()
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.TimeKey = ""
		encoderConfig.CallerKey = ""
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapLogger = zap.New(
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(encoderConfig),
				zapcore.AddSync(os.Stderr),
				level,
			),
		)
	}

	if err != nil {
		return err
	}

	Logger = zapLogger.Sugar()
	return nil
}

func levelFor(verbosity int) zapcore.Level {
	switch {
	case verbosity >= 2:
		return zap.DebugLevel
	case verbosity == 1:
		return zap.InfoLevel
	default:
		return zap.WarnLevel
	}
}

// Named returns a child logger for a subsystem.
func Named(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Infow logs an info message with structured fields
func Infow(msg string, keysAndValues ...interface{}) {
	Logger.Infow(msg, keysAndValues...)
}

// Warnw logs a warning message with structured fields
func Warnw(msg string, keysAndValues ...interface{}) {
	Logger.Warnw(msg, keysAndValues...)
}

// Errorw logs an error message with structured fields
func Errorw(msg string, keysAndValues ...interface{}) {
	Logger.Errorw(msg, keysAndValues...)
}

// Debugw logs a debug message with structured fields
func Debugw(msg string, keysAndValues ...interface{}) {
	Logger.Debugw(msg, keysAndValues...)
}
