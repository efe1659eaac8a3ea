// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"errors"
	"sync"
	"testing"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/dlss/ngx"
)

// orSuccess treats the zero code as success so mocks can leave results unset.
func orSuccess(r ngx.Result) ngx.Result {
	if r == 0 {
		return ngx.ResultSuccess
	}
	return r
}

type createCall struct {
	cmd       gpucontext.CommandEncoder
	feature   ngx.Feature
	width     uint32
	outWidth  uint32
	quality   int32
	depthType int32
}

type evalCall struct {
	cmd         gpucontext.CommandEncoder
	handle      ngx.Handle
	color       gpucontext.TextureView
	mvScaleX    float32
	jitterX     float32
	jitterY     float32
	reset       bool
	worldToView Matrix4x4
}

// mockBackend is an in-memory ngx.Backend that records every call.
type mockBackend struct {
	mu sync.Mutex

	initResult     ngx.Result
	capsResult     ngx.Result
	createResult   ngx.Result
	evaluateResult ngx.Result

	calls     map[string]int
	caps      *ngx.MapParameters
	next      ngx.Handle
	live      map[ngx.Handle]ngx.Feature
	creates   []createCall
	evals     []evalCall
	allocated int
	destroyed int
}

func newMockBackend() *mockBackend {
	caps := ngx.NewMapParameters()
	caps.SetI(ngx.ParamSRAvailable, 1)
	caps.SetI(ngx.ParamRRAvailable, 1)
	caps.SetI(ngx.ParamSRNeedsDriverUpdate, 0)
	caps.SetUI(ngx.ParamSRMinDriverMajor, 531)
	caps.SetUI(ngx.ParamSRMinDriverMinor, 0)
	return &mockBackend{
		calls: make(map[string]int),
		caps:  caps,
		live:  make(map[ngx.Handle]ngx.Feature),
	}
}

func (b *mockBackend) count(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[name]
}

func (b *mockBackend) record(name string) {
	b.calls[name]++
}

func (b *mockBackend) liveFeatures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

func (b *mockBackend) Init(gpucontext.Device, ngx.InitInfo) ngx.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("Init")
	return orSuccess(b.initResult)
}

func (b *mockBackend) Shutdown(gpucontext.Device) ngx.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("Shutdown")
	return ngx.ResultSuccess
}

func (b *mockBackend) AllocateParameters() (ngx.Parameters, ngx.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("AllocateParameters")
	b.allocated++
	return ngx.NewMapParameters(), ngx.ResultSuccess
}

func (b *mockBackend) GetCapabilityParameters() (ngx.Parameters, ngx.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("GetCapabilityParameters")
	if r := orSuccess(b.capsResult); r.Failed() {
		return nil, r
	}
	return b.caps, ngx.ResultSuccess
}

func (b *mockBackend) DestroyParameters(ngx.Parameters) ngx.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DestroyParameters")
	b.destroyed++
	return ngx.ResultSuccess
}

func (b *mockBackend) QueryOptimalSettings(_ ngx.Feature, p ngx.Parameters) ngx.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("QueryOptimalSettings")
	w, _ := p.GetUI(ngx.ParamWidth)
	h, _ := p.GetUI(ngx.ParamHeight)
	p.SetUI(ngx.ParamOutWidth, w/2)
	p.SetUI(ngx.ParamOutHeight, h/2)
	p.SetUI(ngx.ParamDynamicMinRenderW, w/3)
	p.SetUI(ngx.ParamDynamicMinRenderH, h/3)
	p.SetUI(ngx.ParamDynamicMaxRenderW, w)
	p.SetUI(ngx.ParamDynamicMaxRenderH, h)
	p.SetF(ngx.ParamSharpness, 0.25)
	return ngx.ResultSuccess
}

func (b *mockBackend) QueryStats(_ ngx.Feature, p ngx.Parameters) ngx.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("QueryStats")
	p.SetULL(ngx.ParamStatsSizeInBytes, 64<<20)
	p.SetUI(ngx.ParamStatsOptLevel, 2)
	p.SetI(ngx.ParamStatsIsDevBranch, 1)
	return ngx.ResultSuccess
}

func (b *mockBackend) CreateFeature(cmd gpucontext.CommandEncoder, f ngx.Feature, p ngx.Parameters) (ngx.Handle, ngx.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("CreateFeature")

	call := createCall{cmd: cmd, feature: f}
	call.width, _ = p.GetUI(ngx.ParamWidth)
	call.outWidth, _ = p.GetUI(ngx.ParamOutWidth)
	call.quality, _ = p.GetI(ngx.ParamPerfQualityValue)
	call.depthType, _ = p.GetI(ngx.ParamDepthType)
	b.creates = append(b.creates, call)

	if r := orSuccess(b.createResult); r.Failed() {
		return ngx.InvalidHandle, r
	}
	b.next++
	b.live[b.next] = f
	return b.next, ngx.ResultSuccess
}

func (b *mockBackend) EvaluateFeature(cmd gpucontext.CommandEncoder, h ngx.Handle, p ngx.Parameters) ngx.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("EvaluateFeature")

	call := evalCall{cmd: cmd, handle: h}
	call.color, _ = p.GetResource(ngx.ParamColor)
	call.mvScaleX, _ = p.GetF(ngx.ParamMVScaleX)
	call.jitterX, _ = p.GetF(ngx.ParamJitterOffsetX)
	call.jitterY, _ = p.GetF(ngx.ParamJitterOffsetY)
	reset, _ := p.GetI(ngx.ParamReset)
	call.reset = reset != 0
	if ptr, _ := p.GetVoidPointer(ngx.ParamWorldToViewMatrix); ptr != nil {
		call.worldToView = *(*Matrix4x4)(ptr)
	}
	b.evals = append(b.evals, call)

	if _, ok := b.live[h]; !ok {
		return ngx.ResultFeatureNotFound
	}
	return orSuccess(b.evaluateResult)
}

func (b *mockBackend) ReleaseFeature(h ngx.Handle) ngx.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ReleaseFeature")
	if _, ok := b.live[h]; !ok {
		return ngx.ResultFeatureNotFound
	}
	delete(b.live, h)
	return ngx.ResultSuccess
}

// mockHost is a Host whose recording state the test controls.
type mockHost struct {
	device    *int
	recording bool
	list      gpucontext.CommandEncoder
}

func newMockHost() *mockHost {
	return &mockHost{
		device: new(int),
		list:   newCommandList(),
	}
}

func newCommandList() gpucontext.CommandEncoder {
	return gpucontext.NewCommandEncoder(unsafe.Pointer(new(int)))
}

func newView() gpucontext.TextureView {
	return gpucontext.NewTextureView(unsafe.Pointer(new(int)))
}

func (h *mockHost) Device() gpucontext.Device {
	if h.device == nil {
		return nil
	}
	return h.device
}

func (h *mockHost) Queue() gpucontext.Queue               { return nil }
func (h *mockHost) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatUndefined }
func (h *mockHost) Adapter() gpucontext.Adapter           { return nil }

func (h *mockHost) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "mock", Type: gpucontext.AdapterTypeSoftware}
}

func (h *mockHost) CurrentCommandList() (gpucontext.CommandEncoder, bool) {
	if !h.recording {
		return gpucontext.CommandEncoder{}, false
	}
	return h.list, true
}

// recorderHost adds one-shot command lists to mockHost.
type recorderHost struct {
	*mockHost

	begun     int
	submitted int
	discarded int
	beginErr  error
	submitErr error
	lists     []gpucontext.CommandEncoder
}

func newRecorderHost() *recorderHost {
	return &recorderHost{mockHost: newMockHost()}
}

func (h *recorderHost) BeginOneShot(string) (OneShotList, error) {
	if h.beginErr != nil {
		return nil, h.beginErr
	}
	h.begun++
	l := &mockOneShot{host: h, cmd: newCommandList()}
	h.lists = append(h.lists, l.cmd)
	return l, nil
}

type mockOneShot struct {
	host *recorderHost
	cmd  gpucontext.CommandEncoder
}

func (l *mockOneShot) CommandList() gpucontext.CommandEncoder { return l.cmd }

func (l *mockOneShot) Submit() error {
	if l.host.submitErr != nil {
		return l.host.submitErr
	}
	l.host.submitted++
	return nil
}

func (l *mockOneShot) Discard() { l.host.discarded++ }

var errSubmit = errors.New("queue lost")

// newTestManager returns an initialized manager over a recording mockHost.
func newTestManager(t *testing.T) (*Manager, *mockBackend, *mockHost) {
	t.Helper()
	host := newMockHost()
	host.recording = true
	backend := newMockBackend()
	m := newManagerWith(t, host, backend)
	if err := m.Initialize(InitParams{ProjectID: "test"}); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}
	return m, backend, host
}

func newManagerWith(t *testing.T, host Host, backend ngx.Backend) *Manager {
	t.Helper()
	m, err := NewManager(host, backend, WithFrameArenaCapacity(4096), WithStagingCapacity(4096))
	if err != nil {
		t.Fatalf("NewManager() = %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func srParams() *ContextCreateParams {
	return &ContextCreateParams{
		Mode:             ModeSuperResolution,
		Quality:          QualityBalanced,
		InputResolution:  Dimensions{Width: 1280, Height: 720},
		OutputResolution: Dimensions{Width: 1920, Height: 1080},
	}
}

func rrParams() *ContextCreateParams {
	p := srParams()
	p.Mode = ModeRayReconstruction
	p.DenoiseMode = DenoiseDLUnified
	p.DepthType = DepthHardware
	return p
}

func srExecute() *ExecuteParams {
	return &ExecuteParams{
		Textures: CommonTextures{
			ColorInput:    newView(),
			ColorOutput:   newView(),
			Depth:         newView(),
			MotionVectors: newView(),
		},
	}
}

func rrExecute() *ExecuteParams {
	p := srExecute()
	p.GBuffer = GBufferTextures{
		DiffuseAlbedo:  newView(),
		SpecularAlbedo: newView(),
		Normals:        newView(),
		Roughness:      newView(),
	}
	for i := range 16 {
		p.WorldToView[i] = float32(i)
	}
	return p
}
