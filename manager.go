// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/google/uuid"

	"github.com/gogpu/dlss/internal/arena"
	"github.com/gogpu/dlss/ngx"
)

// RenderEventID is the event id the function from RenderEventFunc
// executes ("DLSS" in ASCII).
const RenderEventID int32 = 0x444C5353

// owners maps each device to the open Manager that owns it.
var (
	ownersMu sync.Mutex
	owners   = make(map[any]*Manager)
)

func claimDevice(dev gpucontext.Device, m *Manager) error {
	if !reflect.TypeOf(dev).Comparable() {
		return nil
	}
	ownersMu.Lock()
	defer ownersMu.Unlock()
	if _, taken := owners[dev]; taken {
		return ErrDeviceInUse
	}
	owners[dev] = m
	return nil
}

func releaseDevice(dev gpucontext.Device, m *Manager) {
	if !reflect.TypeOf(dev).Comparable() {
		return
	}
	ownersMu.Lock()
	defer ownersMu.Unlock()
	if owners[dev] == m {
		delete(owners, dev)
	}
}

// Manager is one reconstruction session bound to one host device.
//
// A Manager owns the backend session, the shared capability parameters and
// the feature contexts of every view. At most one open Manager may own a
// given device. All methods are safe for concurrent use; lifecycle and
// execute calls are serialized by a single mutex.
type Manager struct {
	env        *environment
	registry   *contextRegistry
	dispatcher *Dispatcher
	device     gpucontext.Device
	session    uuid.UUID

	initialized atomic.Bool
	closed      atomic.Bool

	// Deferred-execute staging.
	view    atomic.Uint32
	execMu  sync.Mutex
	exec    ExecuteParams
	execSet bool
}

// NewManager creates a manager for the host's device. The backend is not
// touched until Initialize.
func NewManager(host Host, backend ngx.Backend, opts ...Option) (*Manager, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	if backend == nil {
		return nil, ErrNilBackend
	}
	dev := host.Device()
	if dev == nil {
		return nil, ErrNilDevice
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.session == uuid.Nil {
		o.session = uuid.New()
	}

	env := &environment{
		host:     host,
		backend:  backend,
		session:  o.session.String(),
		matrices: arena.New(o.frameArena),
	}
	m := &Manager{
		env:      env,
		registry: newContextRegistry(env),
		device:   dev,
		session:  o.session,
	}
	if err := claimDevice(dev, m); err != nil {
		env.matrices.Free()
		return nil, err
	}
	m.dispatcher = newDispatcher(env, o.staging)
	return m, nil
}

// Close shuts the manager down and releases its device.
func (m *Manager) Close() error {
	m.Shutdown()
	if m.closed.Swap(true) {
		return nil
	}
	releaseDevice(m.device, m)

	m.env.mu.Lock()
	defer m.env.mu.Unlock()
	m.env.matrices.Free()
	m.dispatcher.staging.Free()
	return nil
}

// Session returns the id attached to the manager's log records.
func (m *Manager) Session() uuid.UUID {
	return m.session
}

// Dispatcher returns the event dispatcher sharing this manager's backend
// session.
func (m *Manager) Dispatcher() *Dispatcher {
	return m.dispatcher
}

// Initialize starts the backend session. Calling it again while
// initialized is a no-op.
func (m *Manager) Initialize(p InitParams) error {
	if m.closed.Load() {
		return ErrManagerClosed
	}

	m.env.mu.Lock()
	defer m.env.mu.Unlock()

	if m.env.params != nil {
		m.env.log().Debug("dlss: already initialized")
		return nil
	}

	info := ngx.InitInfo{
		AppID:         p.AppID,
		ProjectID:     p.ProjectID,
		EngineVersion: p.EngineVersion,
		LogPath:       p.LogPath,
	}
	if info.ProjectID != "" && info.EngineVersion == "" {
		info.EngineVersion = "1.0"
	}

	res := m.env.check(m.env.backend.Init(m.device, info))
	if res == ResultSuccess {
		var pb *ngx.ParameterBlock
		var code ngx.Result
		pb, code = ngx.Capability(m.env.backend)
		if res = m.env.check(code); res == ResultSuccess {
			m.env.params = pb
		} else {
			m.env.backend.Shutdown(m.device)
		}
	}
	m.env.counters.add(opInitialize, res)
	if res != ResultSuccess {
		return res
	}

	m.initialized.Store(true)
	caps := m.capabilitiesLocked()
	adapter := m.env.host.AdapterInfo()
	m.env.log().Info("dlss: initialized",
		"adapter", adapter.Name,
		"adapter_type", adapter.Type.String(),
		"super_resolution", caps.SRAvailable,
		"ray_reconstruction", caps.RRAvailable)
	return nil
}

// Shutdown destroys every context and ends the backend session.
// It is a no-op when not initialized.
func (m *Manager) Shutdown() {
	m.env.mu.Lock()
	defer m.env.mu.Unlock()

	if m.env.params == nil {
		return
	}
	n := m.registry.destroyAllLocked()
	m.dispatcher.releaseAllLocked()
	m.env.params.Release()
	m.env.params = nil
	m.env.check(m.env.backend.Shutdown(m.device))
	m.env.matrices.Reset()
	m.initialized.Store(false)

	m.env.log().Info("dlss: shut down", "contexts_destroyed", n)
}

// IsInitialized reports whether Initialize succeeded and Shutdown has not
// run since.
func (m *Manager) IsInitialized() bool {
	return m.initialized.Load()
}

// Capabilities reports the features the device supports.
func (m *Manager) Capabilities() (CapabilityInfo, error) {
	m.env.mu.Lock()
	defer m.env.mu.Unlock()

	if m.env.params == nil {
		return CapabilityInfo{}, ResultNotInitialized
	}
	return m.capabilitiesLocked(), nil
}

func (m *Manager) capabilitiesLocked() CapabilityInfo {
	pb := m.env.params
	flag := func(name string) bool {
		v, res := pb.Int(name)
		return res.Succeeded() && v != 0
	}
	number := func(name string) uint32 {
		v, _ := pb.Uint(name)
		return v
	}

	info := CapabilityInfo{
		SRAvailable:           flag(ngx.ParamSRAvailable),
		RRAvailable:           flag(ngx.ParamRRAvailable),
		MinDriverVersionMajor: number(ngx.ParamSRMinDriverMajor),
		MinDriverVersionMinor: number(ngx.ParamSRMinDriverMinor),
	}
	switch {
	case flag(ngx.ParamSRNeedsDriverUpdate):
		info.NeedsDriverUpdate = true
	case flag(ngx.ParamRRNeedsDriverUpdate):
		info.NeedsDriverUpdate = true
		info.MinDriverVersionMajor = number(ngx.ParamRRMinDriverMajor)
		info.MinDriverVersionMinor = number(ngx.ParamRRMinDriverMinor)
	}
	return info
}

// OptimalSettings returns the recommended render sizes for producing an
// outW x outH image in the given mode and quality.
func (m *Manager) OptimalSettings(mode Mode, quality Quality, outW, outH uint32) (OptimalSettings, error) {
	m.env.mu.Lock()
	defer m.env.mu.Unlock()

	if m.env.params == nil {
		return OptimalSettings{}, ResultNotInitialized
	}
	if !mode.valid() || !quality.valid() || outW == 0 || outH == 0 {
		return OptimalSettings{}, ResultInvalidParameter
	}

	pb := m.env.params
	pb.SetUint(ngx.ParamWidth, outW)
	pb.SetUint(ngx.ParamHeight, outH)
	pb.SetInt(ngx.ParamPerfQualityValue, int32(quality))
	if res := m.env.check(m.env.backend.QueryOptimalSettings(mode.feature(), pb.Native())); res != ResultSuccess {
		return OptimalSettings{}, res
	}

	var s OptimalSettings
	s.OptimalRenderWidth, _ = pb.Uint(ngx.ParamOutWidth)
	s.OptimalRenderHeight, _ = pb.Uint(ngx.ParamOutHeight)
	s.MinRenderWidth, _ = pb.Uint(ngx.ParamDynamicMinRenderW)
	s.MinRenderHeight, _ = pb.Uint(ngx.ParamDynamicMinRenderH)
	s.MaxRenderWidth, _ = pb.Uint(ngx.ParamDynamicMaxRenderW)
	s.MaxRenderHeight, _ = pb.Uint(ngx.ParamDynamicMaxRenderH)
	s.Sharpness, _ = pb.Float(ngx.ParamSharpness)
	return s, nil
}

// Stats returns the backend's memory statistics for mode.
func (m *Manager) Stats(mode Mode) (Stats, error) {
	m.env.mu.Lock()
	defer m.env.mu.Unlock()

	if m.env.params == nil {
		return Stats{}, ResultNotInitialized
	}
	if !mode.valid() {
		return Stats{}, ResultInvalidParameter
	}

	pb := m.env.params
	if res := m.env.check(m.env.backend.QueryStats(mode.feature(), pb.Native())); res != ResultSuccess {
		return Stats{}, res
	}

	var s Stats
	s.VRAMAllocatedBytes, _ = pb.Uint64(ngx.ParamStatsSizeInBytes)
	s.OptLevel, _ = pb.Uint(ngx.ParamStatsOptLevel)
	dev, _ := pb.Int(ngx.ParamStatsIsDevBranch)
	s.IsDevBranch = dev != 0
	return s, nil
}

// CreateContext creates the feature context for viewID.
// It fails with ResultContextAlreadyExists when the view has one.
func (m *Manager) CreateContext(viewID uint32, p *ContextCreateParams) error {
	if !m.initialized.Load() {
		return ResultNotInitialized
	}
	if p == nil {
		return ResultInvalidParameter
	}
	if res := p.validate(); res != ResultSuccess {
		return res
	}

	m.env.log().Info("dlss: creating context",
		"view", viewID,
		"mode", p.Mode.String(),
		"quality", p.Quality.String(),
		"input", formatDimensions(p.InputResolution),
		"output", formatDimensions(p.OutputResolution))

	res := m.registry.create(viewID, *p)
	m.env.counters.add(opCreate, res)
	return res.Err()
}

// DestroyContext destroys the context of viewID. Unknown views succeed.
func (m *Manager) DestroyContext(viewID uint32) error {
	m.registry.destroy(viewID)
	m.env.counters.add(opDestroy, ResultSuccess)
	return nil
}

// DestroyAllContexts destroys every context.
func (m *Manager) DestroyAllContexts() {
	if n := m.registry.destroyAll(); n > 0 {
		m.env.log().Info("dlss: destroyed all contexts", "count", n)
	}
}

// HasContext reports whether viewID has a context.
func (m *Manager) HasContext(viewID uint32) bool {
	return m.registry.has(viewID)
}

// UpdateContext moves viewID to new parameters. The backend feature is
// recreated only when the change requires it; otherwise the call has no
// effect.
func (m *Manager) UpdateContext(viewID uint32, p *ContextCreateParams) error {
	if !m.initialized.Load() {
		return ResultNotInitialized
	}
	if p == nil {
		return ResultInvalidParameter
	}
	if res := p.validate(); res != ResultSuccess {
		return res
	}

	recreated, res := m.registry.update(viewID, *p)
	if recreated {
		m.env.log().Info("dlss: recreated context",
			"view", viewID,
			"mode", p.Mode.String(),
			"quality", p.Quality.String(),
			"input", formatDimensions(p.InputResolution),
			"output", formatDimensions(p.OutputResolution),
			"result", res.String())
		m.env.counters.add(opRecreate, res)
	} else {
		m.env.counters.add(opUpdate, res)
	}
	return res.Err()
}

// Execute evaluates the feature of viewID on the command list the host is
// currently recording.
func (m *Manager) Execute(viewID uint32, p *ExecuteParams) error {
	if !m.initialized.Load() {
		return ResultNotInitialized
	}
	if p == nil {
		return ResultInvalidParameter
	}
	cmd, ok := m.env.host.CurrentCommandList()
	if !ok || cmd.IsNil() {
		m.env.log().Error("dlss: execute with no recording command list", "view", viewID)
		return ResultPlatformError
	}
	return m.execute(viewID, cmd, p)
}

// ExecuteOnCommandList evaluates the feature of viewID on cmd.
func (m *Manager) ExecuteOnCommandList(viewID uint32, cmd gpucontext.CommandEncoder, p *ExecuteParams) error {
	if !m.initialized.Load() {
		return ResultNotInitialized
	}
	if cmd.IsNil() || p == nil {
		return ResultInvalidParameter
	}
	return m.execute(viewID, cmd, p)
}

func (m *Manager) execute(viewID uint32, cmd gpucontext.CommandEncoder, p *ExecuteParams) error {
	res := m.registry.execute(viewID, cmd, p)
	m.env.counters.add(opExecute, res)
	return res.Err()
}

// SetCurrentView selects the view the render event executes.
func (m *Manager) SetCurrentView(viewID uint32) {
	m.view.Store(viewID)
}

// SetExecuteParams stages a copy of p for the render event.
func (m *Manager) SetExecuteParams(p *ExecuteParams) error {
	if p == nil {
		return ResultInvalidParameter
	}
	m.execMu.Lock()
	defer m.execMu.Unlock()
	m.exec = *p
	m.execSet = true
	return nil
}

// RenderEventFunc returns the callback a host invokes with RenderEventID
// from its render thread. The callback executes the current view with the
// staged execute params on the list the host is recording at that moment.
func (m *Manager) RenderEventFunc() func(eventID int32) {
	return m.renderEvent
}

func (m *Manager) renderEvent(eventID int32) {
	if eventID != RenderEventID {
		m.env.log().Warn("dlss: ignoring unknown render event", "event", eventID)
		return
	}

	m.execMu.Lock()
	params, ok := m.exec, m.execSet
	m.execMu.Unlock()
	if !ok {
		m.env.log().Warn("dlss: render event fired before SetExecuteParams")
		return
	}

	view := m.view.Load()
	if err := m.Execute(view, &params); err != nil {
		m.env.log().Error("dlss: deferred execute failed", "view", view, "err", err)
	}
}

// LastNGXError returns the most recent native result code of any backend
// call, as a signed 32-bit value. Successful calls are recorded too, so it
// reads ngx.ResultSuccess after a call that succeeded.
func (m *Manager) LastNGXError() int32 {
	return int32(m.env.lastErr.Load())
}

// NextFrame rewinds the per-frame arenas. Call it after the host has
// submitted the frame and every staged event has fired.
func (m *Manager) NextFrame() {
	m.env.mu.Lock()
	defer m.env.mu.Unlock()
	m.env.matrices.Reset()
	m.dispatcher.staging.Reset()
}

// Handle returns the backend feature handle of viewID, or false when the
// view has no context.
func (m *Manager) Handle(viewID uint32) (ngx.Handle, bool) {
	return m.registry.handle(viewID)
}

// Views returns the view ids that have a context, in ascending order.
func (m *Manager) Views() []uint32 {
	return m.registry.views()
}

// Counters returns a snapshot of the manager's activity.
func (m *Manager) Counters() Counters {
	return Counters{
		Initialized:  m.initialized.Load(),
		Contexts:     m.registry.count(),
		LastNGXError: m.LastNGXError(),
		Operations:   m.env.counters.snapshot(),
	}
}

func formatDimensions(d Dimensions) string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}
