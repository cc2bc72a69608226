package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger emits structured JSON through zap.
// Verbose maps to the debug level and is dropped unless verbose is enabled.
type ZapLogger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// NewZapLogger creates a JSON logger on stderr.
func NewZapLogger(verbose bool) *ZapLogger {
	return NewZapLoggerTo(os.Stderr, verbose)
}

// NewZapLoggerTo creates a JSON logger writing to out.
func NewZapLoggerTo(out io.Writer, verbose bool) *ZapLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(zapcore.AddSync(out)), level)
	base := zap.New(core).Named("taxiload")
	return &ZapLogger{base: base, sugar: base.Sugar()}
}

// WithRunID attaches the run ID as a field to every subsequent message.
func (l *ZapLogger) WithRunID(runID string) *ZapLogger {
	base := l.base.With(zap.String("run_id", runID))
	return &ZapLogger{base: base, sugar: base.Sugar()}
}

// Verbose logs at debug level.
func (l *ZapLogger) Verbose(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs at info level.
func (l *ZapLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Error logs at error level.
func (l *ZapLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.base.Sync()
}
