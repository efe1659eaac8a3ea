// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package reference

import (
	"math"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/dlss/ngx"
)

// scaleFactors is the render-to-output ratio per quality value.
var scaleFactors = map[int32]float64{
	ngx.PerfQualityMaxPerf:          0.5,
	ngx.PerfQualityBalanced:         0.58,
	ngx.PerfQualityMaxQuality:       0.6667,
	ngx.PerfQualityUltraPerformance: 0.3333,
	ngx.PerfQualityUltraQuality:     0.77,
	ngx.PerfQualityDLAA:             1.0,
}

// Evaluation describes the most recent EvaluateFeature call.
type Evaluation struct {
	Handle      ngx.Handle
	Feature     ngx.Feature
	Workgroups  [3]uint32
	Reset       bool
	JitterX     float32
	JitterY     float32
	WorldToView [16]float32
	Frame       uint64
}

// Activity counts backend calls since New.
type Activity struct {
	Creates     uint64
	Evaluations uint64
	Releases    uint64
}

// Backend is a portable ngx.Backend that records its reconstruction
// kernel into gogpu/wgpu HAL command encoders.
//
// Init expects the device to be a hal.Device, and command list handles to
// wrap a pointer to a hal.CommandEncoder interface value.
type Backend struct {
	mu sync.Mutex

	opts     options
	device   hal.Device
	kernel   *kernel
	caps     *ngx.MapParameters
	features map[ngx.Handle]*feature
	params   map[ngx.Parameters]struct{}
	next     ngx.Handle

	activity Activity
	last     Evaluation
}

var _ ngx.Backend = (*Backend)(nil)

// New creates an unbound reference backend.
func New(opts ...Option) *Backend {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Backend{
		opts:     o,
		features: make(map[ngx.Handle]*feature),
		params:   make(map[ngx.Parameters]struct{}),
	}
}

// Init binds the backend to device and builds the kernel.
func (b *Backend) Init(device gpucontext.Device, _ ngx.InitInfo) ngx.Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	dev, ok := device.(hal.Device)
	if !ok || dev == nil {
		return ngx.ResultPlatformError
	}
	if b.device != nil {
		if b.device == dev {
			return ngx.ResultSuccess
		}
		return ngx.ResultFeatureAlreadyExists
	}

	k, err := newKernel(dev)
	if err != nil {
		return ngx.ResultUnableToInitializeFeature
	}
	b.device = dev
	b.kernel = k
	b.caps = b.capabilities()
	return ngx.ResultSuccess
}

func (b *Backend) capabilities() *ngx.MapParameters {
	caps := ngx.NewMapParameters()
	report := func(enabled bool, minMajor uint32, available, needsUpdate, major, minor string) {
		outdated := b.opts.driverMajor < minMajor
		caps.SetI(available, boolInt(enabled && !outdated))
		caps.SetI(needsUpdate, boolInt(enabled && outdated))
		caps.SetUI(major, minMajor)
		caps.SetUI(minor, 0)
	}
	report(b.opts.superResolution, MinDriverSuperResolution,
		ngx.ParamSRAvailable, ngx.ParamSRNeedsDriverUpdate, ngx.ParamSRMinDriverMajor, ngx.ParamSRMinDriverMinor)
	report(b.opts.rayReconstruction, MinDriverRayReconstruction,
		ngx.ParamRRAvailable, ngx.ParamRRNeedsDriverUpdate, ngx.ParamRRMinDriverMajor, ngx.ParamRRMinDriverMinor)
	return caps
}

func boolInt(v bool) int32 {
	if v {
		return 1
	}
	return 0
}

// Shutdown releases every feature, parameter object and the kernel.
func (b *Backend) Shutdown(gpucontext.Device) ngx.Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return ngx.ResultNotInitialized
	}
	for h, f := range b.features {
		f.release(b.device)
		delete(b.features, h)
	}
	clear(b.params)
	b.kernel.destroy()
	b.kernel = nil
	b.caps = nil
	b.device = nil
	return ngx.ResultSuccess
}

// AllocateParameters returns a new parameter object owned by the caller.
func (b *Backend) AllocateParameters() (ngx.Parameters, ngx.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return nil, ngx.ResultNotInitialized
	}
	p := ngx.NewMapParameters()
	b.params[p] = struct{}{}
	return p, ngx.ResultSuccess
}

// GetCapabilityParameters returns the backend-owned capability object.
func (b *Backend) GetCapabilityParameters() (ngx.Parameters, ngx.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return nil, ngx.ResultNotInitialized
	}
	return b.caps, ngx.ResultSuccess
}

// DestroyParameters releases an object from AllocateParameters.
func (b *Backend) DestroyParameters(p ngx.Parameters) ngx.Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.params[p]; !ok {
		return ngx.ResultInvalidParameter
	}
	delete(b.params, p)
	return ngx.ResultSuccess
}

func (b *Backend) available(kind ngx.Feature) bool {
	switch kind {
	case ngx.FeatureSuperSampling:
		v, _ := b.caps.GetI(ngx.ParamSRAvailable)
		return v != 0
	case ngx.FeatureRayReconstruction:
		v, _ := b.caps.GetI(ngx.ParamRRAvailable)
		return v != 0
	}
	return false
}

// QueryOptimalSettings writes the render sizes for the output size and
// quality found in p.
func (b *Backend) QueryOptimalSettings(kind ngx.Feature, p ngx.Parameters) ngx.Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return ngx.ResultNotInitialized
	}
	if !b.available(kind) {
		return ngx.ResultFeatureNotSupported
	}

	w, _ := p.GetUI(ngx.ParamWidth)
	h, _ := p.GetUI(ngx.ParamHeight)
	q, _ := p.GetI(ngx.ParamPerfQualityValue)
	scale, ok := scaleFactors[q]
	if !ok || w == 0 || h == 0 {
		return ngx.ResultInvalidParameter
	}

	p.SetUI(ngx.ParamOutWidth, scaled(w, scale))
	p.SetUI(ngx.ParamOutHeight, scaled(h, scale))
	p.SetUI(ngx.ParamDynamicMinRenderW, scaled(w, scaleFactors[ngx.PerfQualityUltraPerformance]))
	p.SetUI(ngx.ParamDynamicMinRenderH, scaled(h, scaleFactors[ngx.PerfQualityUltraPerformance]))
	p.SetUI(ngx.ParamDynamicMaxRenderW, w)
	p.SetUI(ngx.ParamDynamicMaxRenderH, h)
	p.SetF(ngx.ParamSharpness, 0)
	return ngx.ResultSuccess
}

func scaled(v uint32, f float64) uint32 {
	return max(1, uint32(math.Round(float64(v)*f)))
}

// QueryStats reports the device memory held by features of kind.
func (b *Backend) QueryStats(kind ngx.Feature, p ngx.Parameters) ngx.Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return ngx.ResultNotInitialized
	}
	var total uint64
	for _, f := range b.features {
		if f.kind == kind {
			total += f.memory()
		}
	}
	p.SetULL(ngx.ParamStatsSizeInBytes, total)
	p.SetUI(ngx.ParamStatsOptLevel, 0)
	p.SetI(ngx.ParamStatsIsDevBranch, 0)
	return ngx.ResultSuccess
}

// CreateFeature allocates the feature's buffers and records the history
// clear into cmd.
func (b *Backend) CreateFeature(cmd gpucontext.CommandEncoder, kind ngx.Feature, p ngx.Parameters) (ngx.Handle, ngx.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return ngx.InvalidHandle, ngx.ResultNotInitialized
	}
	if !b.available(kind) {
		return ngx.InvalidHandle, ngx.ResultFeatureNotSupported
	}
	enc, ok := encoderOf(cmd)
	if !ok {
		return ngx.InvalidHandle, ngx.ResultInvalidParameter
	}

	f := &feature{kind: kind}
	f.input[0], _ = p.GetUI(ngx.ParamWidth)
	f.input[1], _ = p.GetUI(ngx.ParamHeight)
	f.output[0], _ = p.GetUI(ngx.ParamOutWidth)
	f.output[1], _ = p.GetUI(ngx.ParamOutHeight)
	f.quality, _ = p.GetI(ngx.ParamPerfQualityValue)
	f.flags, _ = p.GetI(ngx.ParamFeatureCreateFlags)
	if f.input[0] == 0 || f.input[1] == 0 || f.output[0] == 0 || f.output[1] == 0 {
		return ngx.InvalidHandle, ngx.ResultInvalidParameter
	}
	if _, ok := scaleFactors[f.quality]; !ok {
		return ngx.InvalidHandle, ngx.ResultUnsupportedParameter
	}

	if err := f.allocate(b.device, b.kernel); err != nil {
		f.release(b.device)
		return ngx.InvalidHandle, ngx.ResultOutOfGPUMemory
	}
	enc.ClearBuffer(f.history, 0, f.historySize())

	b.next++
	b.features[b.next] = f
	b.activity.Creates++
	return b.next, ngx.ResultSuccess
}

// EvaluateFeature records one kernel dispatch for h into cmd.
func (b *Backend) EvaluateFeature(cmd gpucontext.CommandEncoder, h ngx.Handle, p ngx.Parameters) ngx.Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return ngx.ResultNotInitialized
	}
	f, ok := b.features[h]
	if !ok {
		return ngx.ResultFeatureNotFound
	}
	enc, ok := encoderOf(cmd)
	if !ok {
		return ngx.ResultInvalidParameter
	}
	for _, name := range requiredInputs(f.kind) {
		if v, res := p.GetResource(name); res.Failed() || v.IsNil() {
			return ngx.ResultMissingInput
		}
	}

	cfg := kernelConfig{
		InputWidth:   f.input[0],
		InputHeight:  f.input[1],
		OutputWidth:  f.output[0],
		OutputHeight: f.output[1],
	}
	if w, _ := p.GetUI(ngx.ParamRenderSubrectWidth); w != 0 && w <= f.input[0] {
		cfg.InputWidth = w
	}
	if h, _ := p.GetUI(ngx.ParamRenderSubrectHeight); h != 0 && h <= f.input[1] {
		cfg.InputHeight = h
	}
	cfg.JitterX, _ = p.GetF(ngx.ParamJitterOffsetX)
	cfg.JitterY, _ = p.GetF(ngx.ParamJitterOffsetY)
	cfg.Sharpness, _ = p.GetF(ngx.ParamSharpness)
	reset, _ := p.GetI(ngx.ParamReset)
	if reset != 0 || f.frames == 0 {
		cfg.Reset = 1
	}
	if err := f.writeConfig(b.device, cfg); err != nil {
		return ngx.ResultPlatformError
	}

	if reset != 0 {
		enc.ClearBuffer(f.history, 0, f.historySize())
	}
	groups := workgroups(f.output[0], f.output[1])
	pass := enc.BeginComputePass(&hal.ComputePassDescriptor{Label: "dlss_reference_evaluate"})
	pass.SetPipeline(b.kernel.pipeline)
	pass.SetBindGroup(0, f.bind, nil)
	pass.Dispatch(groups[0], groups[1], groups[2])
	pass.End()

	f.frames++
	b.activity.Evaluations++
	b.last = Evaluation{
		Handle:     h,
		Feature:    f.kind,
		Workgroups: groups,
		Reset:      cfg.Reset != 0,
		JitterX:    cfg.JitterX,
		JitterY:    cfg.JitterY,
		Frame:      f.frames,
	}
	if f.kind == ngx.FeatureRayReconstruction {
		if ptr, _ := p.GetVoidPointer(ngx.ParamWorldToViewMatrix); ptr != nil {
			b.last.WorldToView = *(*[16]float32)(ptr)
		}
	}
	return ngx.ResultSuccess
}

// ReleaseFeature destroys h and its buffers.
func (b *Backend) ReleaseFeature(h ngx.Handle) ngx.Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, ok := b.features[h]
	if !ok {
		return ngx.ResultFeatureNotFound
	}
	f.release(b.device)
	delete(b.features, h)
	b.activity.Releases++
	return ngx.ResultSuccess
}

// Features returns the number of live features.
func (b *Backend) Features() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.features)
}

// Activity returns the call counts since New.
func (b *Backend) Activity() Activity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.activity
}

// LastEvaluation returns the most recent evaluation.
func (b *Backend) LastEvaluation() Evaluation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}
