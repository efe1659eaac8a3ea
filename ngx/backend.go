// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ngx

import (
	"unsafe"

	"github.com/gogpu/gpucontext"
)

// Feature identifies the kind of reconstruction feature to create.
type Feature uint32

// Feature kinds.
const (
	FeatureSuperSampling     Feature = 1
	FeatureRayReconstruction Feature = 13
)

// String returns the feature name.
func (f Feature) String() string {
	switch f {
	case FeatureSuperSampling:
		return "SuperSampling"
	case FeatureRayReconstruction:
		return "RayReconstruction"
	}
	return "Unknown"
}

// Handle is an opaque feature handle issued by a backend.
type Handle uint32

// InvalidHandle is the sentinel for "no feature".
const InvalidHandle Handle = 0

// Valid reports whether h refers to a feature.
func (h Handle) Valid() bool { return h != InvalidHandle }

// InitInfo identifies the application to the backend.
// ProjectID takes precedence over AppID when set.
type InitInfo struct {
	AppID         uint64
	ProjectID     string
	EngineVersion string
	LogPath       string
}

// Parameters is a backend-native named parameter object.
type Parameters interface {
	SetI(name string, v int32)
	SetUI(name string, v uint32)
	SetF(name string, v float32)
	SetD(name string, v float64)
	SetULL(name string, v uint64)
	SetResource(name string, v gpucontext.TextureView)
	SetVoidPointer(name string, v unsafe.Pointer)

	GetI(name string) (int32, Result)
	GetUI(name string) (uint32, Result)
	GetF(name string) (float32, Result)
	GetD(name string) (float64, Result)
	GetULL(name string) (uint64, Result)
	GetResource(name string) (gpucontext.TextureView, Result)
	GetVoidPointer(name string) (unsafe.Pointer, Result)
}

// Backend is the ML reconstruction service.
//
// Command lists are the host's opaque encoder handles; a backend records
// its GPU work into them and never submits them itself.
type Backend interface {
	// Init binds the backend to a device.
	Init(device gpucontext.Device, info InitInfo) Result

	// Shutdown releases everything bound to device.
	Shutdown(device gpucontext.Device) Result

	// AllocateParameters returns a parameter object owned by the caller.
	AllocateParameters() (Parameters, Result)

	// GetCapabilityParameters returns the backend-owned parameter object
	// pre-filled with capability values.
	GetCapabilityParameters() (Parameters, Result)

	// DestroyParameters releases an object from AllocateParameters.
	DestroyParameters(p Parameters) Result

	// QueryOptimalSettings reads the target size and quality from p and
	// writes the recommended render sizes back into it.
	QueryOptimalSettings(feature Feature, p Parameters) Result

	// QueryStats writes feature memory statistics into p.
	QueryStats(feature Feature, p Parameters) Result

	// CreateFeature creates a feature configured from p.
	CreateFeature(cmd gpucontext.CommandEncoder, feature Feature, p Parameters) (Handle, Result)

	// EvaluateFeature records one evaluation of h with inputs from p.
	EvaluateFeature(cmd gpucontext.CommandEncoder, h Handle, p Parameters) Result

	// ReleaseFeature destroys h.
	ReleaseFeature(h Handle) Result
}

// Performance-quality values read from ParamPerfQualityValue.
const (
	PerfQualityMaxPerf          int32 = 0
	PerfQualityBalanced         int32 = 1
	PerfQualityMaxQuality       int32 = 2
	PerfQualityUltraPerformance int32 = 3
	PerfQualityUltraQuality     int32 = 4
	PerfQualityDLAA             int32 = 5
)
