// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"errors"
	"fmt"
	"testing"
)

func TestResultString(t *testing.T) {
	tests := []struct {
		r    Result
		want string
	}{
		{ResultSuccess, "Success"},
		{ResultNotInitialized, "Not initialized"},
		{ResultFeatureNotSupported, "Feature not supported"},
		{ResultInvalidParameter, "Invalid parameter"},
		{ResultOutOfMemory, "Out of memory"},
		{ResultContextNotFound, "Context not found"},
		{ResultContextAlreadyExists, "Context already exists"},
		{ResultDriverOutOfDate, "Driver out of date"},
		{ResultPlatformError, "Platform error"},
		{ResultBackendError, "Backend error"},
		{Result(-100), "Unknown error"},
		{Result(7), "Unknown error"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("Result(%d).String() = %q, want %q", int32(tt.r), got, tt.want)
		}
	}
}

func TestResultError(t *testing.T) {
	if got := ResultContextNotFound.Error(); got != "dlss: context not found" {
		t.Errorf("Error() = %q", got)
	}
	if ResultSuccess.Err() != nil {
		t.Error("ResultSuccess.Err() != nil")
	}
	if err := ResultOutOfMemory.Err(); !errors.Is(err, ResultOutOfMemory) {
		t.Errorf("ResultOutOfMemory.Err() = %v", err)
	}
}

func TestResultOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Result
	}{
		{"nil", nil, ResultSuccess},
		{"result", ResultContextNotFound, ResultContextNotFound},
		{"wrapped", fmt.Errorf("view 3: %w", ResultDriverOutOfDate), ResultDriverOutOfDate},
		{"foreign", errors.New("boom"), ResultPlatformError},
		{"sentinel", ErrDeviceInUse, ResultPlatformError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultOf(tt.err); got != tt.want {
				t.Errorf("ResultOf() = %v, want %v", got, tt.want)
			}
		})
	}
}
