package log

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// zerologProvider is the default LoggerProvider backed by zerolog.
type zerologProvider struct {
	mu     sync.RWMutex
	root   zerolog.Logger
	level  Level
}

var defaultProvider = newZerologProvider(os.Stderr)

func newZerologProvider(w io.Writer) *zerologProvider {
	return &zerologProvider{
		root:  zerolog.New(w).With().Timestamp().Logger(),
		level: LevelInfo,
	}
}

// GetLogger returns the default logger instance.
func GetLogger() Logger {
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns a logger tagged with a component name,
// e.g. "forest.trainer".
func GetLoggerWithName(name string) Logger {
	return defaultProvider.GetLoggerWithName(name)
}

// SetLevel sets the minimum level emitted by the default provider.
func SetLevel(level Level) {
	defaultProvider.SetLevel(level)
}

// SetOutput redirects the default provider's output. Intended for tests
// and embedding applications.
func SetOutput(w io.Writer) {
	defaultProvider.mu.Lock()
	defer defaultProvider.mu.Unlock()
	defaultProvider.root = zerolog.New(w).With().Timestamp().Logger()
}

func (p *zerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{logger: p.root, provider: p}
}

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{logger: p.root.With().Str(ComponentKey, name).Logger(), provider: p}
}

func (p *zerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
}

func (p *zerologProvider) enabled(level Level) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return level >= p.level
}

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	logger   zerolog.Logger
	provider *zerologProvider
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	if !l.provider.enabled(LevelDebug) {
		return
	}
	l.emit(l.logger.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	if !l.provider.enabled(LevelInfo) {
		return
	}
	l.emit(l.logger.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	if !l.provider.enabled(LevelWarn) {
		return
	}
	l.emit(l.logger.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	if !l.provider.enabled(LevelError) {
		return
	}
	l.emit(l.logger.Error(), msg, fields)
}

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{logger: ctx.Logger(), provider: l.provider}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return l.provider.enabled(level)
}

func (l *zerologLogger) emit(event *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		value := fields[i+1]
		if err, isErr := value.(error); isErr {
			event = event.AnErr(key, err)
			if trace := extractStacktrace(err); trace != "" {
				event = event.Str(StacktraceKey, trace)
			}
			continue
		}
		event = event.Interface(key, value)
	}
	event.Msg(msg)
}

// StacktraceKey is the field under which cockroachdb error stack traces
// are emitted.
const StacktraceKey = "stacktrace"

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
