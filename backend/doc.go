// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend provides a registry of reconstruction backends.
//
// A backend implements ngx.Backend. Backends register a factory from an
// init() function and are selected at runtime:
//
//	import _ "github.com/gogpu/dlss/backend/reference"
//
//	b, err := backend.Open("") // best available
//	if err != nil {
//		log.Fatal(err)
//	}
//	m, err := dlss.NewManager(host, b)
//
// # Available Backends
//
//   - "native": vendor runtime binding, registered by an external vendor
//     package; not present in this module, so Default normally returns
//     "reference"
//   - "reference": portable compute backend on gogpu/wgpu HAL
package backend
