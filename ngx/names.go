// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ngx

// Parameter names shared by dlss and backends.
const (
	ParamWidth               = "Width"
	ParamHeight              = "Height"
	ParamOutWidth            = "OutWidth"
	ParamOutHeight           = "OutHeight"
	ParamPerfQualityValue    = "PerfQualityValue"
	ParamCreationNodeMask    = "CreationNodeMask"
	ParamVisibilityNodeMask  = "VisibilityNodeMask"
	ParamFeatureCreateFlags  = "DLSS.Feature.Create.Flags"
	ParamEnableOutputSubrect = "DLSS.Enable.Output.Subrects"

	ParamDenoiseMode   = "DLSS.Denoise.Mode"
	ParamDepthType     = "DLSS.Depth.Type"
	ParamRoughnessMode = "DLSS.Roughness.Mode"
)

// Render preset hints, one per quality level.
const (
	ParamSRPresetDLAA             = "DLSS.Hint.Render.Preset.DLAA"
	ParamSRPresetQuality          = "DLSS.Hint.Render.Preset.Quality"
	ParamSRPresetBalanced         = "DLSS.Hint.Render.Preset.Balanced"
	ParamSRPresetPerformance      = "DLSS.Hint.Render.Preset.Performance"
	ParamSRPresetUltraPerformance = "DLSS.Hint.Render.Preset.UltraPerformance"
	ParamSRPresetUltraQuality     = "DLSS.Hint.Render.Preset.UltraQuality"

	ParamRRPresetDLAA             = "RayReconstruction.Hint.Render.Preset.DLAA"
	ParamRRPresetQuality          = "RayReconstruction.Hint.Render.Preset.Quality"
	ParamRRPresetBalanced         = "RayReconstruction.Hint.Render.Preset.Balanced"
	ParamRRPresetPerformance      = "RayReconstruction.Hint.Render.Preset.Performance"
	ParamRRPresetUltraPerformance = "RayReconstruction.Hint.Render.Preset.UltraPerformance"
	ParamRRPresetUltraQuality     = "RayReconstruction.Hint.Render.Preset.UltraQuality"
)

// Common evaluation inputs.
const (
	ParamColor            = "Color"
	ParamOutput           = "Output"
	ParamDepth            = "Depth"
	ParamMotionVectors    = "MotionVectors"
	ParamExposureTexture  = "ExposureTexture"
	ParamBiasColorMask    = "DLSS.Input.Bias.Current.Color.Mask"
	ParamTransparencyMask = "TransparencyMask"

	ParamJitterOffsetX = "Jitter.Offset.X"
	ParamJitterOffsetY = "Jitter.Offset.Y"
	ParamMVScaleX      = "MV.Scale.X"
	ParamMVScaleY      = "MV.Scale.Y"
	ParamReset         = "Reset"
	ParamPreExposure   = "DLSS.Pre.Exposure"
	ParamExposureScale = "DLSS.Exposure.Scale"

	ParamRenderSubrectWidth  = "DLSS.Render.Subrect.Dimensions.Width"
	ParamRenderSubrectHeight = "DLSS.Render.Subrect.Dimensions.Height"
	ParamInvertXAxis         = "DLSS.Indicator.Invert.X.Axis"
	ParamInvertYAxis         = "DLSS.Indicator.Invert.Y.Axis"

	ParamColorSubrectBaseX     = "DLSS.Input.Color.Subrect.Base.X"
	ParamColorSubrectBaseY     = "DLSS.Input.Color.Subrect.Base.Y"
	ParamDepthSubrectBaseX     = "DLSS.Input.Depth.Subrect.Base.X"
	ParamDepthSubrectBaseY     = "DLSS.Input.Depth.Subrect.Base.Y"
	ParamMVSubrectBaseX        = "DLSS.Input.MV.Subrect.Base.X"
	ParamMVSubrectBaseY        = "DLSS.Input.MV.Subrect.Base.Y"
	ParamOutputSubrectBaseX    = "DLSS.Output.Subrect.Base.X"
	ParamOutputSubrectBaseY    = "DLSS.Output.Subrect.Base.Y"
	ParamBiasColorSubrectBaseX = "DLSS.Input.Bias.Current.Color.Subrect.Base.X"
	ParamBiasColorSubrectBaseY = "DLSS.Input.Bias.Current.Color.Subrect.Base.Y"
)

// Ray reconstruction inputs.
const (
	ParamDiffuseAlbedo  = "DLSS.Input.DiffuseAlbedo"
	ParamSpecularAlbedo = "DLSS.Input.SpecularAlbedo"
	ParamNormals        = "DLSS.Input.Normals"
	ParamRoughness      = "DLSS.Input.Roughness"
	ParamEmissive       = "GBuffer.Emissive"

	ParamDiffuseRayDirection     = "DLSS.Input.DiffuseRayDirection"
	ParamDiffuseHitDistance      = "DLSS.Input.DiffuseHitDistance"
	ParamSpecularRayDirection    = "DLSS.Input.SpecularRayDirection"
	ParamSpecularHitDistance     = "DLSS.Input.SpecularHitDistance"
	ParamDiffuseRayDirectionHit  = "DLSS.Input.DiffuseRayDirectionHitDistance"
	ParamSpecularRayDirectionHit = "DLSS.Input.SpecularRayDirectionHitDistance"

	ParamReflectedAlbedo          = "DLSS.Input.Reflected.Albedo"
	ParamColorBeforeParticles     = "DLSS.Input.Color.Before.Particles"
	ParamColorAfterParticles      = "DLSS.Input.Color.After.Particles"
	ParamColorBeforeTransparency  = "DLSS.Input.Color.Before.Transparency"
	ParamColorAfterTransparency   = "DLSS.Input.Color.After.Transparency"
	ParamColorBeforeFog           = "DLSS.Input.Color.Before.Fog"
	ParamColorAfterFog            = "DLSS.Input.Color.After.Fog"
	ParamDepthOfFieldGuide        = "DLSS.Input.DepthOfField.Guide"
	ParamColorBeforeDepthOfField  = "DLSS.Input.Color.Before.DepthOfField"
	ParamColorAfterDepthOfField   = "DLSS.Input.Color.After.DepthOfField"
	ParamSSSGuide                 = "DLSS.Input.Screen.Space.Subsurface.Scatter.Guide"
	ParamColorBeforeSSS           = "DLSS.Input.Color.Before.Screen.Space.Subsurface.Scatter"
	ParamColorAfterSSS            = "DLSS.Input.Color.After.Screen.Space.Subsurface.Scatter"
	ParamSSRGuide                 = "DLSS.Input.Screen.Space.Reflection.Guide"
	ParamColorBeforeSSR           = "DLSS.Input.Color.Before.Screen.Space.Reflection"
	ParamColorAfterSSR            = "DLSS.Input.Color.After.Screen.Space.Reflection"
	ParamMotionVectorsReflections = "DLSS.Input.Motion.Vectors.Reflection"
	ParamTransparencyLayer        = "DLSS.Input.Transparency.Layer"
	ParamTransparencyLayerOpacity = "DLSS.Input.Transparency.Layer.Opacity"
	ParamTransparencyLayerMvecs   = "DLSS.Input.Transparency.Layer.Mvecs"
	ParamDisocclusionMask         = "DLSS.Input.Disocclusion.Mask"
	ParamAlpha                    = "DLSS.Input.Alpha"
	ParamOutputAlpha              = "DLSS.Output.Alpha"

	// Matrices are pointers to 16 column-major float32 values.
	ParamWorldToViewMatrix = "WorldToViewMatrix"
	ParamViewToClipMatrix  = "ViewToClipMatrix"
	ParamFrameTimeDeltaMs  = "FrameTimeDeltaInMsec"
)

// Capability values written by the backend.
const (
	ParamSRAvailable         = "SuperSampling.Available"
	ParamRRAvailable         = "SuperSamplingDenoising.Available"
	ParamSRNeedsDriverUpdate = "SuperSampling.NeedsUpdatedDriver"
	ParamRRNeedsDriverUpdate = "SuperSamplingDenoising.NeedsUpdatedDriver"
	ParamSRMinDriverMajor    = "SuperSampling.MinDriverVersionMajor"
	ParamSRMinDriverMinor    = "SuperSampling.MinDriverVersionMinor"
	ParamRRMinDriverMajor    = "SuperSamplingDenoising.MinDriverVersionMajor"
	ParamRRMinDriverMinor    = "SuperSamplingDenoising.MinDriverVersionMinor"
	ParamSharpness           = "Sharpness"
	ParamDynamicMaxRenderW   = "DLSS.Get.Dynamic.Max.Render.Width"
	ParamDynamicMaxRenderH   = "DLSS.Get.Dynamic.Max.Render.Height"
	ParamDynamicMinRenderW   = "DLSS.Get.Dynamic.Min.Render.Width"
	ParamDynamicMinRenderH   = "DLSS.Get.Dynamic.Min.Render.Height"
	ParamStatsSizeInBytes    = "SizeInBytes"
	ParamStatsOptLevel       = "Snippet.OptLevel"
	ParamStatsIsDevBranch    = "Snippet.IsDevBranch"
)
