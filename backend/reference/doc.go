// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package reference provides a portable reconstruction backend on the
// gogpu/wgpu HAL.
//
// The backend compiles a WGSL compute kernel with naga and records one
// dispatch per evaluation. Each feature owns a uniform config buffer and a
// history buffer sized to the output. The kernel resolves the nearest
// jittered input pixel for every output pixel; it does not run a neural
// network, which makes it suitable for CI, headless hosts and integration
// tests of the lifecycle layer.
//
// The backend registers itself with the backend package on import:
//
//	import _ "github.com/gogpu/dlss/backend/reference"
//
// Devices passed to Init must be hal.Device values, and command list
// handles must wrap a pointer to a hal.CommandEncoder:
//
//	var enc hal.CommandEncoder = ...
//	cmd := gpucontext.NewCommandEncoder(unsafe.Pointer(&enc))
package reference
