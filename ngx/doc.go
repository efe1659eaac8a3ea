// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package ngx defines the contract between dlss and an ML reconstruction
// backend.
//
// A backend is a capability-query, create-feature, evaluate-feature and
// release-feature service. Every call is parameter driven: the caller fills
// a native parameter object by name and hands it to the backend, which
// reads its inputs from it and writes query results back into it.
//
// The package also provides [ParameterBlock], the typed wrapper dlss uses
// around one native parameter object, the native result codes, and the
// parameter names both sides agree on.
//
// Backends are not safe for concurrent use unless they document otherwise.
// dlss serializes every call it makes.
package ngx
