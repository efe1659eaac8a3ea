// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

// LogLevel is the minimum severity that reaches the log output.
type LogLevel int32

// Log levels.
const (
	LogLevelDebug   LogLevel = 0
	LogLevelInfo    LogLevel = 1
	LogLevelWarning LogLevel = 2
	LogLevelError   LogLevel = 3
)

// String returns the level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "Debug"
	case LogLevelInfo:
		return "Info"
	case LogLevelWarning:
		return "Warning"
	case LogLevelError:
		return "Error"
	}
	return fmt.Sprintf("LogLevel(%d)", int32(l))
}

func (l LogLevel) slogLevel() slog.Level {
	switch {
	case l <= LogLevelDebug:
		return slog.LevelDebug
	case l == LogLevelInfo:
		return slog.LevelInfo
	case l == LogLevelWarning:
		return slog.LevelWarn
	}
	return slog.LevelError
}

func logLevelOf(l slog.Level) LogLevel {
	switch {
	case l < slog.LevelInfo:
		return LogLevelDebug
	case l < slog.LevelWarn:
		return LogLevelInfo
	case l < slog.LevelError:
		return LogLevelWarning
	}
	return LogLevelError
}

// LogSink receives formatted log lines in place of the host logger.
type LogSink func(level LogLevel, message string)

// nopHandler is a slog.Handler that silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var (
	// loggerPtr is the effective logger handed out by Logger.
	loggerPtr atomic.Pointer[slog.Logger]

	// hostPtr is the logger installed with SetLogger.
	hostPtr atomic.Pointer[slog.Logger]

	sinkPtr  atomic.Pointer[LogSink]
	minLevel slog.LevelVar

	// rebuildMu serializes rebuilds of loggerPtr.
	rebuildMu sync.Mutex
)

func init() {
	minLevel.Set(slog.LevelInfo)
	hostPtr.Store(newNopLogger())
	rebuildLogger()
}

// SetLogger installs the host logger. By default dlss produces no log
// output. Pass nil to restore silence.
//
// Records below the level set with SetLogLevel are dropped before they
// reach l. While a LogSink is installed, the sink receives the output
// instead of l.
//
// Log levels used by dlss:
//   - [slog.LevelDebug]: recovery paths and idempotent no-ops
//   - [slog.LevelInfo]: lifecycle (initialize, context create and destroy)
//   - [slog.LevelWarn]: ignored deferred events
//   - [slog.LevelError]: backend failures, with the native code
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	hostPtr.Store(l)
	rebuildLogger()
}

// Logger returns the logger used by dlss and its sub-packages.
// It is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// SetLogLevel sets the minimum level that is logged. The default is
// LogLevelInfo.
func SetLogLevel(l LogLevel) {
	minLevel.Set(l.slogLevel())
}

// GetLogLevel returns the minimum logged level.
func GetLogLevel() LogLevel {
	return logLevelOf(minLevel.Level())
}

// SetLogSink routes log output to fn instead of the host logger.
// A nil fn is equivalent to ClearLogSink.
func SetLogSink(fn LogSink) {
	if fn == nil {
		ClearLogSink()
		return
	}
	sinkPtr.Store(&fn)
	rebuildLogger()
}

// ClearLogSink restores output to the host logger.
func ClearLogSink() {
	sinkPtr.Store(nil)
	rebuildLogger()
}

func rebuildLogger() {
	rebuildMu.Lock()
	defer rebuildMu.Unlock()

	var next slog.Handler
	if s := sinkPtr.Load(); s != nil {
		next = &sinkHandler{sink: *s}
	} else {
		next = hostPtr.Load().Handler()
	}
	loggerPtr.Store(slog.New(levelHandler{next: next}))
}

// levelHandler drops records below minLevel.
type levelHandler struct {
	next slog.Handler
}

func (h levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= minLevel.Level() && h.next.Enabled(ctx, l)
}

func (h levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.next.Handle(ctx, r)
}

func (h levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return levelHandler{next: h.next.WithAttrs(attrs)}
}

func (h levelHandler) WithGroup(name string) slog.Handler {
	return levelHandler{next: h.next.WithGroup(name)}
}

// sinkHandler formats each record as one line for a LogSink.
type sinkHandler struct {
	sink   LogSink
	prefix string
	attrs  string
}

func (h *sinkHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *sinkHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})
	h.sink(logLevelOf(r.Level), b.String())
	return nil
}

func (h *sinkHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		writeAttr(&b, h.prefix, a)
	}
	return &sinkHandler{sink: h.sink, prefix: h.prefix, attrs: b.String()}
}

func (h *sinkHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &sinkHandler{sink: h.sink, prefix: h.prefix + name + ".", attrs: h.attrs}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, group, ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}
