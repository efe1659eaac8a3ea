// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"unsafe"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/dlss/internal/arena"
	"github.com/gogpu/dlss/ngx"
)

// featureContext owns one backend feature handle.
//
// The handle is valid iff create succeeded and destroy has not run since.
// All methods are called with env.mu held.
type featureContext struct {
	env    *environment
	handle ngx.Handle
	params ContextCreateParams
}

// create configures the shared parameter block from p and creates the
// feature on cmd. A previously created handle is released first.
func (c *featureContext) create(cmd gpucontext.CommandEncoder, p ContextCreateParams) Result {
	if c.handle.Valid() {
		c.env.log().Debug("dlss: releasing previous feature before create",
			"handle", uint32(c.handle))
		c.destroy()
	}

	pb := c.env.params
	pb.SetUint(ngx.ParamCreationNodeMask, 1)
	pb.SetUint(ngx.ParamVisibilityNodeMask, 1)
	pb.SetUint(ngx.ParamWidth, p.InputResolution.Width)
	pb.SetUint(ngx.ParamHeight, p.InputResolution.Height)
	pb.SetUint(ngx.ParamOutWidth, p.OutputResolution.Width)
	pb.SetUint(ngx.ParamOutHeight, p.OutputResolution.Height)
	pb.SetInt(ngx.ParamPerfQualityValue, int32(p.Quality))
	pb.SetInt(ngx.ParamFeatureCreateFlags, int32(p.FeatureFlags))
	pb.SetBool(ngx.ParamEnableOutputSubrect, p.EnableOutputSubrects)

	if p.Mode == ModeRayReconstruction {
		pb.SetInt(ngx.ParamDenoiseMode, int32(p.DenoiseMode))
		pb.SetInt(ngx.ParamDepthType, int32(p.DepthType))
		pb.SetInt(ngx.ParamRoughnessMode, int32(p.RoughnessMode))
		pb.SetUint(ngx.ParamRRPresetDLAA, uint32(p.RRPresetDLAA))
		pb.SetUint(ngx.ParamRRPresetQuality, uint32(p.RRPresetQuality))
		pb.SetUint(ngx.ParamRRPresetBalanced, uint32(p.RRPresetBalanced))
		pb.SetUint(ngx.ParamRRPresetPerformance, uint32(p.RRPresetPerformance))
		pb.SetUint(ngx.ParamRRPresetUltraPerformance, uint32(p.RRPresetUltraPerformance))
		pb.SetUint(ngx.ParamRRPresetUltraQuality, uint32(p.RRPresetUltraQuality))
	} else {
		pb.SetUint(ngx.ParamSRPresetDLAA, uint32(p.SRPresetDLAA))
		pb.SetUint(ngx.ParamSRPresetQuality, uint32(p.SRPresetQuality))
		pb.SetUint(ngx.ParamSRPresetBalanced, uint32(p.SRPresetBalanced))
		pb.SetUint(ngx.ParamSRPresetPerformance, uint32(p.SRPresetPerformance))
		pb.SetUint(ngx.ParamSRPresetUltraPerformance, uint32(p.SRPresetUltraPerformance))
		pb.SetUint(ngx.ParamSRPresetUltraQuality, uint32(p.SRPresetUltraQuality))
	}

	handle, code := c.env.backend.CreateFeature(cmd, p.Mode.feature(), pb.Native())
	if res := c.env.check(code); res != ResultSuccess {
		return res
	}
	if !handle.Valid() {
		return ResultBackendError
	}
	c.handle = handle
	c.params = p
	return ResultSuccess
}

// destroy releases the handle. It is safe to call more than once.
func (c *featureContext) destroy() {
	if c.handle.Valid() {
		if code := c.env.backend.ReleaseFeature(c.handle); code.Failed() {
			c.env.check(code)
		}
	}
	c.handle = ngx.InvalidHandle
	c.params = ContextCreateParams{}
}

// execute records one evaluation of the feature on cmd.
func (c *featureContext) execute(cmd gpucontext.CommandEncoder, p *ExecuteParams) Result {
	if !c.handle.Valid() {
		return ResultContextNotFound
	}
	if p.Mode != ModeOff && p.Mode != c.params.Mode {
		return ResultInvalidParameter
	}
	if res := c.validate(p); res != ResultSuccess {
		return res
	}

	pb := c.env.params
	setCommonParams(pb, p)
	if c.params.Mode == ModeRayReconstruction {
		if res := setRayReconstructionParams(pb, c.env.matrices, p); res != ResultSuccess {
			return res
		}
	}

	return c.env.check(c.env.backend.EvaluateFeature(cmd, c.handle, pb.Native()))
}

func (c *featureContext) validate(p *ExecuteParams) Result {
	t := &p.Textures
	if t.ColorInput.IsNil() || t.ColorOutput.IsNil() || t.Depth.IsNil() || t.MotionVectors.IsNil() {
		return ResultInvalidParameter
	}
	if c.params.Mode != ModeRayReconstruction {
		return ResultSuccess
	}
	g := &p.GBuffer
	if g.DiffuseAlbedo.IsNil() || g.SpecularAlbedo.IsNil() || g.Normals.IsNil() {
		return ResultInvalidParameter
	}
	if c.params.RoughnessMode == RoughnessUnpacked && g.Roughness.IsNil() {
		return ResultInvalidParameter
	}
	return ResultSuccess
}

// needsRecreation reports whether moving to n requires a new feature.
// The input resolution may shrink within the allocated size but not grow.
func (c *featureContext) needsRecreation(n *ContextCreateParams) bool {
	o := &c.params
	if o.Mode != n.Mode || o.Quality != n.Quality || o.FeatureFlags != n.FeatureFlags {
		return true
	}
	if o.OutputResolution != n.OutputResolution {
		return true
	}
	if n.InputResolution.Width > o.InputResolution.Width ||
		n.InputResolution.Height > o.InputResolution.Height {
		return true
	}
	if n.Mode == ModeRayReconstruction {
		return o.DenoiseMode != n.DenoiseMode ||
			o.DepthType != n.DepthType ||
			o.RoughnessMode != n.RoughnessMode
	}
	return false
}

func orOne(v float32) float32 {
	if v == 0 {
		return 1
	}
	return v
}

func setCommonParams(pb *ngx.ParameterBlock, p *ExecuteParams) {
	t := &p.Textures
	pb.SetResource(ngx.ParamColor, t.ColorInput)
	pb.SetResource(ngx.ParamOutput, t.ColorOutput)
	pb.SetResource(ngx.ParamDepth, t.Depth)
	pb.SetResource(ngx.ParamMotionVectors, t.MotionVectors)
	pb.SetResource(ngx.ParamExposureTexture, t.ExposureTexture)
	pb.SetResource(ngx.ParamBiasColorMask, t.BiasColorMask)
	pb.SetResource(ngx.ParamTransparencyMask, t.TransparencyMask)

	c := &p.Common
	pb.SetFloat(ngx.ParamJitterOffsetX, c.JitterOffsetX)
	pb.SetFloat(ngx.ParamJitterOffsetY, c.JitterOffsetY)
	pb.SetFloat(ngx.ParamMVScaleX, orOne(c.MVScaleX))
	pb.SetFloat(ngx.ParamMVScaleY, orOne(c.MVScaleY))
	pb.SetBool(ngx.ParamReset, c.Reset)
	pb.SetFloat(ngx.ParamPreExposure, orOne(c.PreExposure))
	pb.SetFloat(ngx.ParamExposureScale, orOne(c.ExposureScale))
	pb.SetUint(ngx.ParamRenderSubrectWidth, c.RenderSubrectDimensions.Width)
	pb.SetUint(ngx.ParamRenderSubrectHeight, c.RenderSubrectDimensions.Height)
	pb.SetBool(ngx.ParamInvertXAxis, c.InvertXAxis)
	pb.SetBool(ngx.ParamInvertYAxis, c.InvertYAxis)

	pb.SetUint(ngx.ParamColorSubrectBaseX, c.ColorSubrectBase.X)
	pb.SetUint(ngx.ParamColorSubrectBaseY, c.ColorSubrectBase.Y)
	pb.SetUint(ngx.ParamDepthSubrectBaseX, c.DepthSubrectBase.X)
	pb.SetUint(ngx.ParamDepthSubrectBaseY, c.DepthSubrectBase.Y)
	pb.SetUint(ngx.ParamMVSubrectBaseX, c.MVSubrectBase.X)
	pb.SetUint(ngx.ParamMVSubrectBaseY, c.MVSubrectBase.Y)
	pb.SetUint(ngx.ParamOutputSubrectBaseX, c.OutputSubrectBase.X)
	pb.SetUint(ngx.ParamOutputSubrectBaseY, c.OutputSubrectBase.Y)
	pb.SetUint(ngx.ParamBiasColorSubrectBaseX, c.BiasColorSubrectBase.X)
	pb.SetUint(ngx.ParamBiasColorSubrectBaseY, c.BiasColorSubrectBase.Y)
}

func setRayReconstructionParams(pb *ngx.ParameterBlock, matrices *arena.Arena, p *ExecuteParams) Result {
	g := &p.GBuffer
	pb.SetResource(ngx.ParamDiffuseAlbedo, g.DiffuseAlbedo)
	pb.SetResource(ngx.ParamSpecularAlbedo, g.SpecularAlbedo)
	pb.SetResource(ngx.ParamNormals, g.Normals)
	pb.SetResource(ngx.ParamRoughness, g.Roughness)
	pb.SetResource(ngx.ParamEmissive, g.Emissive)

	r := &p.Rays
	pb.SetResource(ngx.ParamDiffuseRayDirection, r.DiffuseRayDirection)
	pb.SetResource(ngx.ParamDiffuseHitDistance, r.DiffuseHitDistance)
	pb.SetResource(ngx.ParamSpecularRayDirection, r.SpecularRayDirection)
	pb.SetResource(ngx.ParamSpecularHitDistance, r.SpecularHitDistance)
	pb.SetResource(ngx.ParamDiffuseRayDirectionHit, r.DiffuseRayDirectionHitDistance)
	pb.SetResource(ngx.ParamSpecularRayDirectionHit, r.SpecularRayDirectionHitDistance)

	o := &p.Optional
	for _, in := range []struct {
		name string
		view gpucontext.TextureView
	}{
		{ngx.ParamReflectedAlbedo, o.ReflectedAlbedo},
		{ngx.ParamColorBeforeParticles, o.ColorBeforeParticles},
		{ngx.ParamColorAfterParticles, o.ColorAfterParticles},
		{ngx.ParamColorBeforeTransparency, o.ColorBeforeTransparency},
		{ngx.ParamColorAfterTransparency, o.ColorAfterTransparency},
		{ngx.ParamColorBeforeFog, o.ColorBeforeFog},
		{ngx.ParamColorAfterFog, o.ColorAfterFog},
		{ngx.ParamDepthOfFieldGuide, o.DepthOfFieldGuide},
		{ngx.ParamColorBeforeDepthOfField, o.ColorBeforeDepthOfField},
		{ngx.ParamColorAfterDepthOfField, o.ColorAfterDepthOfField},
		{ngx.ParamSSSGuide, o.ScreenSpaceSubsurfaceGuide},
		{ngx.ParamColorBeforeSSS, o.ColorBeforeSubsurface},
		{ngx.ParamColorAfterSSS, o.ColorAfterSubsurface},
		{ngx.ParamSSRGuide, o.ScreenSpaceReflectionGuide},
		{ngx.ParamColorBeforeSSR, o.ColorBeforeReflection},
		{ngx.ParamColorAfterSSR, o.ColorAfterReflection},
		{ngx.ParamMotionVectorsReflections, o.MotionVectorsReflections},
		{ngx.ParamTransparencyLayer, o.TransparencyLayer},
		{ngx.ParamTransparencyLayerOpacity, o.TransparencyLayerOpacity},
		{ngx.ParamTransparencyLayerMvecs, o.TransparencyLayerMotionVects},
		{ngx.ParamDisocclusionMask, o.DisocclusionMask},
		{ngx.ParamAlpha, o.Alpha},
		{ngx.ParamOutputAlpha, o.OutputAlpha},
	} {
		pb.SetResource(in.name, in.view)
	}

	// Matrices live in the frame arena until the next NextFrame.
	for _, m := range []struct {
		name  string
		value *Matrix4x4
	}{
		{ngx.ParamWorldToViewMatrix, &p.WorldToView},
		{ngx.ParamViewToClipMatrix, &p.ViewToClip},
	} {
		dst := arena.AllocateArray[float32](matrices, len(m.value))
		if dst == nil {
			return ResultOutOfMemory
		}
		copy(dst, m.value[:])
		pb.SetPointer(m.name, unsafe.Pointer(&dst[0]))
	}
	pb.SetFloat(ngx.ParamFrameTimeDeltaMs, p.FrameTimeDeltaMs)
	return ResultSuccess
}
