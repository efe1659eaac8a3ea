// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gogpu/dlss/ngx"
)

type translation struct {
	result     Result
	suggestion string
}

var translations = map[ngx.Result]translation{
	ngx.ResultFeatureNotSupported: {ResultFeatureNotSupported,
		"check GPU compatibility (an RTX-class GPU is required) and the driver version"},
	ngx.ResultPlatformError:             {result: ResultPlatformError},
	ngx.ResultFeatureAlreadyExists:      {result: ResultContextAlreadyExists},
	ngx.ResultFeatureNotFound:           {result: ResultContextNotFound},
	ngx.ResultInvalidParameter:          {result: ResultInvalidParameter},
	ngx.ResultScratchBufferTooSmall:     {result: ResultInvalidParameter},
	ngx.ResultUnsupportedInputFormat:    {result: ResultInvalidParameter},
	ngx.ResultRWFlagMissing:             {result: ResultInvalidParameter},
	ngx.ResultMissingInput:              {result: ResultInvalidParameter},
	ngx.ResultUnsupportedFormat:         {result: ResultInvalidParameter},
	ngx.ResultUnsupportedParameter:      {result: ResultInvalidParameter},
	ngx.ResultNotInitialized:            {result: ResultNotInitialized},
	ngx.ResultUnableToInitializeFeature: {result: ResultBackendError},
	ngx.ResultOutOfDate: {ResultDriverOutOfDate,
		"update the GPU driver (minimum 531.0 for super resolution, 545.0 for ray reconstruction)"},
	ngx.ResultOutOfGPUMemory:             {result: ResultOutOfMemory},
	ngx.ResultUnableToWriteToAppDataPath: {result: ResultPlatformError},
	ngx.ResultDenied:                     {result: ResultFeatureNotSupported},
	ngx.ResultNotImplemented:             {result: ResultFeatureNotSupported},
}

// translate maps a native result to a Result. Success codes are returned
// without logging. Every failure is written to log as exactly one record
// carrying the raw code.
func translate(log *slog.Logger, code ngx.Result) Result {
	if code.Succeeded() {
		return ResultSuccess
	}

	t, ok := translations[code]
	if !ok {
		t.result = ResultBackendError
	}

	attrs := []slog.Attr{
		slog.String("code", fmt.Sprintf("0x%08X", uint32(code))),
		slog.String("reason", code.String()),
		slog.String("result", t.result.String()),
	}
	if t.suggestion != "" {
		attrs = append(attrs, slog.String("suggestion", t.suggestion))
	}
	log.LogAttrs(context.Background(), slog.LevelError, "dlss: backend call failed", attrs...)
	return t.result
}
