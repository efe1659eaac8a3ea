// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/dlss/ngx"
)

// Mode selects the reconstruction feature.
type Mode int32

// Modes.
const (
	ModeOff               Mode = 0
	ModeSuperResolution   Mode = 1
	ModeRayReconstruction Mode = 2
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "Off"
	case ModeSuperResolution:
		return "SuperResolution"
	case ModeRayReconstruction:
		return "RayReconstruction"
	}
	return "Unknown"
}

func (m Mode) valid() bool {
	return m == ModeSuperResolution || m == ModeRayReconstruction
}

func (m Mode) feature() ngx.Feature {
	if m == ModeRayReconstruction {
		return ngx.FeatureRayReconstruction
	}
	return ngx.FeatureSuperSampling
}

// Quality is the performance/quality preset.
type Quality int32

// Quality presets. The values match the backend's performance-quality scale.
const (
	QualityMaxPerformance   Quality = 0
	QualityBalanced         Quality = 1
	QualityMaxQuality       Quality = 2
	QualityUltraPerformance Quality = 3
	QualityUltraQuality     Quality = 4
	QualityDLAA             Quality = 5
)

// String returns the preset name.
func (q Quality) String() string {
	switch q {
	case QualityMaxPerformance:
		return "Performance"
	case QualityBalanced:
		return "Balanced"
	case QualityMaxQuality:
		return "Quality"
	case QualityUltraPerformance:
		return "UltraPerformance"
	case QualityUltraQuality:
		return "UltraQuality"
	case QualityDLAA:
		return "DLAA"
	}
	return "Unknown"
}

func (q Quality) valid() bool {
	return q >= QualityMaxPerformance && q <= QualityDLAA
}

// SRPreset is a super resolution render preset hint.
type SRPreset int32

// Super resolution presets.
const (
	SRPresetDefault SRPreset = 0
	SRPresetF       SRPreset = 6
	SRPresetG       SRPreset = 7
	SRPresetJ       SRPreset = 10
	SRPresetK       SRPreset = 11
	SRPresetL       SRPreset = 12
	SRPresetM       SRPreset = 13
)

// RRPreset is a ray reconstruction render preset hint.
type RRPreset int32

// Ray reconstruction presets.
const (
	RRPresetDefault RRPreset = 0
	RRPresetD       RRPreset = 4
	RRPresetE       RRPreset = 5
)

// FeatureFlags describe the inputs a feature is created for.
type FeatureFlags uint32

// Feature flags.
const (
	FlagIsHDR          FeatureFlags = 1 << 0
	FlagMVLowRes       FeatureFlags = 1 << 1
	FlagMVJittered     FeatureFlags = 1 << 2
	FlagDepthInverted  FeatureFlags = 1 << 3
	FlagAutoExposure   FeatureFlags = 1 << 6
	FlagAlphaUpscaling FeatureFlags = 1 << 7
)

// DepthType describes the depth input.
type DepthType int32

// Depth types.
const (
	DepthLinear   DepthType = 0
	DepthHardware DepthType = 1
)

// RoughnessMode describes where roughness is stored.
type RoughnessMode int32

// Roughness modes.
const (
	RoughnessUnpacked         RoughnessMode = 0
	RoughnessPackedInNormalsW RoughnessMode = 1
)

// DenoiseMode selects the ray reconstruction denoiser.
type DenoiseMode int32

// Denoise modes.
const (
	DenoiseOff       DenoiseMode = 0
	DenoiseDLUnified DenoiseMode = 1
)

// Dimensions is a width and height in pixels.
type Dimensions struct {
	Width  uint32
	Height uint32
}

// Coordinates is a pixel offset.
type Coordinates struct {
	X uint32
	Y uint32
}

// Matrix4x4 is a column-major 4x4 matrix.
type Matrix4x4 [16]float32

// ContextCreateParams configures one feature context.
// The RR fields are only read when Mode is ModeRayReconstruction.
type ContextCreateParams struct {
	Mode             Mode
	Quality          Quality
	InputResolution  Dimensions
	OutputResolution Dimensions
	FeatureFlags     FeatureFlags

	SRPresetDLAA             SRPreset
	SRPresetQuality          SRPreset
	SRPresetBalanced         SRPreset
	SRPresetPerformance      SRPreset
	SRPresetUltraPerformance SRPreset
	SRPresetUltraQuality     SRPreset

	DenoiseMode   DenoiseMode
	DepthType     DepthType
	RoughnessMode RoughnessMode

	RRPresetDLAA             RRPreset
	RRPresetQuality          RRPreset
	RRPresetBalanced         RRPreset
	RRPresetPerformance      RRPreset
	RRPresetUltraPerformance RRPreset
	RRPresetUltraQuality     RRPreset

	EnableOutputSubrects bool
}

func (p *ContextCreateParams) validate() Result {
	switch {
	case !p.Mode.valid(), !p.Quality.valid():
		return ResultInvalidParameter
	case p.InputResolution.Width == 0, p.InputResolution.Height == 0:
		return ResultInvalidParameter
	case p.OutputResolution.Width == 0, p.OutputResolution.Height == 0:
		return ResultInvalidParameter
	}
	return ResultSuccess
}

// CommonTextures are the inputs and output shared by both modes.
type CommonTextures struct {
	ColorInput    gpucontext.TextureView
	ColorOutput   gpucontext.TextureView
	Depth         gpucontext.TextureView
	MotionVectors gpucontext.TextureView

	ExposureTexture  gpucontext.TextureView
	BiasColorMask    gpucontext.TextureView
	TransparencyMask gpucontext.TextureView
}

// CommonParams are the per-frame scalars shared by both modes.
// Zero MVScale, PreExposure and ExposureScale values are sent as 1.
type CommonParams struct {
	JitterOffsetX float32
	JitterOffsetY float32
	MVScaleX      float32
	MVScaleY      float32

	RenderSubrectDimensions Dimensions
	Reset                   bool
	PreExposure             float32
	ExposureScale           float32
	InvertYAxis             bool
	InvertXAxis             bool

	ColorSubrectBase     Coordinates
	DepthSubrectBase     Coordinates
	MVSubrectBase        Coordinates
	OutputSubrectBase    Coordinates
	BiasColorSubrectBase Coordinates
}

// GBufferTextures are the ray reconstruction G-buffer inputs.
type GBufferTextures struct {
	DiffuseAlbedo  gpucontext.TextureView
	SpecularAlbedo gpucontext.TextureView
	Normals        gpucontext.TextureView
	Roughness      gpucontext.TextureView
	Emissive       gpucontext.TextureView
}

// RayTextures are the ray direction and hit distance inputs, either as
// separate pairs or in combined form.
type RayTextures struct {
	DiffuseRayDirection  gpucontext.TextureView
	DiffuseHitDistance   gpucontext.TextureView
	SpecularRayDirection gpucontext.TextureView
	SpecularHitDistance  gpucontext.TextureView

	DiffuseRayDirectionHitDistance  gpucontext.TextureView
	SpecularRayDirectionHitDistance gpucontext.TextureView
}

// OptionalTextures are auxiliary ray reconstruction guides.
type OptionalTextures struct {
	ReflectedAlbedo              gpucontext.TextureView
	ColorBeforeParticles         gpucontext.TextureView
	ColorAfterParticles          gpucontext.TextureView
	ColorBeforeTransparency      gpucontext.TextureView
	ColorAfterTransparency       gpucontext.TextureView
	ColorBeforeFog               gpucontext.TextureView
	ColorAfterFog                gpucontext.TextureView
	DepthOfFieldGuide            gpucontext.TextureView
	ColorBeforeDepthOfField      gpucontext.TextureView
	ColorAfterDepthOfField       gpucontext.TextureView
	ScreenSpaceSubsurfaceGuide   gpucontext.TextureView
	ColorBeforeSubsurface        gpucontext.TextureView
	ColorAfterSubsurface         gpucontext.TextureView
	ScreenSpaceReflectionGuide   gpucontext.TextureView
	ColorBeforeReflection        gpucontext.TextureView
	ColorAfterReflection         gpucontext.TextureView
	MotionVectorsReflections     gpucontext.TextureView
	TransparencyLayer            gpucontext.TextureView
	TransparencyLayerOpacity     gpucontext.TextureView
	TransparencyLayerMotionVects gpucontext.TextureView
	DisocclusionMask             gpucontext.TextureView
	Alpha                        gpucontext.TextureView
	OutputAlpha                  gpucontext.TextureView
}

// ExecuteParams is the per-frame payload for one evaluation.
//
// Mode may be left as ModeOff to use the context's mode; any other value
// must match it. The GBuffer, Rays, Optional, matrix and frame time fields
// are only read in ray reconstruction mode.
type ExecuteParams struct {
	Mode     Mode
	Textures CommonTextures
	Common   CommonParams

	GBuffer  GBufferTextures
	Rays     RayTextures
	Optional OptionalTextures

	WorldToView      Matrix4x4
	ViewToClip       Matrix4x4
	FrameTimeDeltaMs float32
}

// InitParams identifies the application to the backend.
// ProjectID takes precedence over AppID; EngineVersion defaults to "1.0"
// when a ProjectID is given.
type InitParams struct {
	AppID         uint64
	ProjectID     string
	EngineVersion string
	LogPath       string
}

// CapabilityInfo reports which features the device supports.
type CapabilityInfo struct {
	SRAvailable           bool
	RRAvailable           bool
	NeedsDriverUpdate     bool
	MinDriverVersionMajor uint32
	MinDriverVersionMinor uint32
}

// OptimalSettings are the recommended render sizes for an output size.
type OptimalSettings struct {
	OptimalRenderWidth  uint32
	OptimalRenderHeight uint32
	MinRenderWidth      uint32
	MinRenderHeight     uint32
	MaxRenderWidth      uint32
	MaxRenderHeight     uint32
	Sharpness           float32
}

// Stats are the backend's memory statistics for a mode.
type Stats struct {
	VRAMAllocatedBytes uint64
	OptLevel           uint32
	IsDevBranch        bool
}
