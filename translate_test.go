// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/gogpu/dlss/ngx"
)

// captureHandler keeps every record it handles.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) attrs(i int) map[string]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]string)
	h.records[i].Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.String()
		return true
	})
	return out
}

func TestTranslateTable(t *testing.T) {
	tests := []struct {
		code ngx.Result
		want Result
	}{
		{ngx.ResultSuccess, ResultSuccess},
		{ngx.ResultFeatureNotSupported, ResultFeatureNotSupported},
		{ngx.ResultPlatformError, ResultPlatformError},
		{ngx.ResultFeatureAlreadyExists, ResultContextAlreadyExists},
		{ngx.ResultFeatureNotFound, ResultContextNotFound},
		{ngx.ResultInvalidParameter, ResultInvalidParameter},
		{ngx.ResultScratchBufferTooSmall, ResultInvalidParameter},
		{ngx.ResultNotInitialized, ResultNotInitialized},
		{ngx.ResultUnsupportedInputFormat, ResultInvalidParameter},
		{ngx.ResultRWFlagMissing, ResultInvalidParameter},
		{ngx.ResultMissingInput, ResultInvalidParameter},
		{ngx.ResultUnableToInitializeFeature, ResultBackendError},
		{ngx.ResultOutOfDate, ResultDriverOutOfDate},
		{ngx.ResultOutOfGPUMemory, ResultOutOfMemory},
		{ngx.ResultUnsupportedFormat, ResultInvalidParameter},
		{ngx.ResultUnableToWriteToAppDataPath, ResultPlatformError},
		{ngx.ResultUnsupportedParameter, ResultInvalidParameter},
		{ngx.ResultDenied, ResultFeatureNotSupported},
		{ngx.ResultNotImplemented, ResultFeatureNotSupported},
		{ngx.ResultFail, ResultBackendError},
		{ngx.Result(0xBAD000FF), ResultBackendError},
	}
	log := slog.New(&captureHandler{})
	for _, tt := range tests {
		if got := translate(log, tt.code); got != tt.want {
			t.Errorf("translate(%#x) = %v, want %v", uint32(tt.code), got, tt.want)
		}
	}
}

func TestTranslateLogsFailureOnce(t *testing.T) {
	h := &captureHandler{}
	log := slog.New(h)

	translate(log, ngx.ResultOutOfDate)

	if len(h.records) != 1 {
		t.Fatalf("got %d records, want 1", len(h.records))
	}
	if h.records[0].Level != slog.LevelError {
		t.Errorf("level = %v, want ERROR", h.records[0].Level)
	}
	attrs := h.attrs(0)
	if want := fmt.Sprintf("0x%08X", uint32(ngx.ResultOutOfDate)); attrs["code"] != want || want != "0xBAD0000C" {
		t.Errorf("code = %q, want %s (0xBAD0000C)", attrs["code"], want)
	}
	if attrs["result"] != "Driver out of date" {
		t.Errorf("result = %q", attrs["result"])
	}
	if attrs["suggestion"] == "" {
		t.Error("out-of-date failure has no suggestion")
	}
}

func TestTranslateSuccessIsSilent(t *testing.T) {
	h := &captureHandler{}
	log := slog.New(h)

	translate(log, ngx.ResultSuccess)
	translate(log, ngx.Result(0x2))

	if len(h.records) != 0 {
		t.Errorf("success produced %d records", len(h.records))
	}
}

func TestTranslateWithoutSuggestion(t *testing.T) {
	h := &captureHandler{}
	translate(slog.New(h), ngx.ResultInvalidParameter)

	if _, ok := h.attrs(0)["suggestion"]; ok {
		t.Error("invalid-parameter failure carries a suggestion")
	}
}
