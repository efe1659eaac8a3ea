// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"

	"github.com/gogpu/dlss/ngx"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or its factory produced nothing.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend names.
const (
	// BackendNative is the vendor runtime binding. No package in this
	// module registers it; a build that links the vendor SDK is expected to
	// register it from its own package, typically behind a build tag. Until
	// then Default falls back to BackendReference.
	BackendNative = "native"

	// BackendReference is the portable compute backend in
	// github.com/gogpu/dlss/backend/reference.
	BackendReference = "reference"
)

// Factory creates a backend instance.
type Factory func() ngx.Backend
