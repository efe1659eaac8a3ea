// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"slices"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/dlss/ngx"
)

// registry holds registered backends.
// Native > Reference (the reference backend is the portable fallback).
var registry = gpucontext.NewRegistry[ngx.Backend](
	gpucontext.WithPriority(BackendNative, BackendReference),
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registry.Register(name, factory)
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registry.Unregister(name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	names := registry.Available()
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	return registry.Has(name)
}

// Get returns a backend instance by name.
// Returns nil if the backend is not registered.
func Get(name string) ngx.Backend {
	return registry.Get(name)
}

// Default returns the best available backend based on priority.
// Factories that return nil are skipped.
// Returns nil if no backend is available.
func Default() ngx.Backend {
	if b := registry.Best(); b != nil {
		return b
	}
	for _, name := range Available() {
		if b := registry.Get(name); b != nil {
			return b
		}
	}
	return nil
}

// DefaultName returns the name of the highest-priority registered backend.
func DefaultName() string {
	return registry.BestName()
}

// Open returns the named backend, or the default one when name is empty.
func Open(name string) (ngx.Backend, error) {
	var b ngx.Backend
	if name == "" {
		b = Default()
	} else {
		b = Get(name)
	}
	if b == nil {
		return nil, ErrBackendNotAvailable
	}
	return b, nil
}

// MustDefault returns the default backend or panics.
func MustDefault() ngx.Backend {
	b := Default()
	if b == nil {
		panic("backend: no backend available")
	}
	return b
}
