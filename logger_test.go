// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// resetLogging restores the package defaults when the test ends.
func resetLogging(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		ClearLogSink()
		SetLogger(nil)
		SetLogLevel(LogLevelInfo)
	})
}

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("nopHandler.Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("nopHandler.Handle() = %v, want nil", err)
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).(nopHandler); !ok {
		t.Error("nopHandler.WithAttrs() did not return nopHandler")
	}
	if _, ok := h.WithGroup("g").(nopHandler); !ok {
		t.Error("nopHandler.WithGroup() did not return nopHandler")
	}
}

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger is enabled")
	}
}

func TestSetLogger(t *testing.T) {
	resetLogging(t)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	Logger().Info("test message", "key", "value")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("log output = %q, want it to contain the message", buf.String())
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) did not restore silence")
	}
}

func TestSetLogLevel(t *testing.T) {
	resetLogging(t)

	if got := GetLogLevel(); got != LogLevelInfo {
		t.Errorf("default GetLogLevel() = %v, want Info", got)
	}

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	Logger().Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record logged at Info level: %q", buf.String())
	}

	for _, level := range []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError} {
		SetLogLevel(level)
		if got := GetLogLevel(); got != level {
			t.Errorf("GetLogLevel() = %v after SetLogLevel(%v)", got, level)
		}
	}

	SetLogLevel(LogLevelDebug)
	Logger().Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug record dropped at Debug level")
	}
}

func TestLogSink(t *testing.T) {
	resetLogging(t)

	type line struct {
		level LogLevel
		msg   string
	}
	var (
		mu    sync.Mutex
		lines []line
	)
	SetLogSink(func(level LogLevel, msg string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, line{level, msg})
	})

	Logger().With("session", "s1").WithGroup("ctx").Warn("slow", "view", 3)
	Logger().Debug("dropped")

	if len(lines) != 1 {
		t.Fatalf("sink got %d lines, want 1: %v", len(lines), lines)
	}
	if lines[0].level != LogLevelWarning {
		t.Errorf("level = %v, want Warning", lines[0].level)
	}
	if want := "slow session=s1 ctx.view=3"; lines[0].msg != want {
		t.Errorf("message = %q, want %q", lines[0].msg, want)
	}

	ClearLogSink()
	Logger().Error("after clear")
	if len(lines) != 1 {
		t.Error("sink still receives records after ClearLogSink")
	}
}

func TestSetLogSinkNilClears(t *testing.T) {
	resetLogging(t)

	called := false
	SetLogSink(func(LogLevel, string) { called = true })
	SetLogSink(nil)
	Logger().Error("x")
	if called {
		t.Error("SetLogSink(nil) left the previous sink installed")
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		l    LogLevel
		want string
	}{
		{LogLevelDebug, "Debug"},
		{LogLevelInfo, "Info"},
		{LogLevelWarning, "Warning"},
		{LogLevelError, "Error"},
		{LogLevel(9), "LogLevel(9)"},
	}
	for _, tt := range tests {
		if got := tt.l.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestManagerLogsThroughSink(t *testing.T) {
	resetLogging(t)

	var msgs []string
	SetLogSink(func(_ LogLevel, msg string) { msgs = append(msgs, msg) })

	m, _, _ := newTestManager(t)
	_ = m.CreateContext(0, srParams())

	if len(msgs) < 2 {
		t.Fatalf("sink got %d lines, want initialize and create", len(msgs))
	}
	if !strings.HasPrefix(msgs[0], "dlss: initialized") {
		t.Errorf("first line = %q", msgs[0])
	}
	if !strings.Contains(msgs[0], "session="+m.Session().String()) {
		t.Errorf("line %q has no session attribute", msgs[0])
	}
}
