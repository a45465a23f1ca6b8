// Package log provides structured logging for the wrapper's own diagnostics.
//
// The wrapper's log is written to its own stderr and never to the sinks that
// receive the child's forwarded diagnostics. Normal runs log nothing below
// warn level; setting PROCESS_WRAPPER_DEBUG enables debug output, including
// the fully resolved child invocation.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnvVar enables debug logging when present in the wrapper's environment.
// Its value is ignored.
const DebugEnvVar = "PROCESS_WRAPPER_DEBUG"

// DebugRequested reports whether DebugEnvVar is set.
func DebugRequested() bool {
	_, ok := os.LookupEnv(DebugEnvVar)
	return ok
}

// Options configures a Logger.
type Options struct {
	// Executable is attached to every entry.
	Executable string
	// Debug lowers the level from warn to debug.
	Debug bool
}

// Logger provides structured logging with invocation context.
type Logger struct {
	zap *zap.Logger
}

// NewLogger creates a logger writing to os.Stderr.
func NewLogger(opts Options) *Logger {
	return newLoggerWithWriter(opts, os.Stderr)
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func newLoggerWithWriter(opts Options, w io.Writer) *Logger {
	level := zapcore.WarnLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(w),
		level,
	)

	contextFields := []zap.Field{
		zap.Int("wrapper_pid", os.Getpid()),
	}
	if opts.Executable != "" {
		contextFields = append(contextFields, zap.String("executable", opts.Executable))
	}

	return &Logger{zap: zap.New(core).With(contextFields...)}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
}

// DebugEnabled reports whether debug entries are written.
func (l *Logger) DebugEnabled() bool {
	return l.zap.Core().Enabled(zapcore.DebugLevel)
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields map[string]any) {
	l.zap.Debug(message, zap.Any("fields", fields))
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, fields map[string]any) {
	l.zap.Warn(message, zap.Any("fields", fields))
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}
