// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/dlss"
)

// DeviceHandle provides GPU device access from the host application.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, kept so hosts can
// name the interface without importing gpucontext.
type DeviceHandle = gpucontext.DeviceProvider

var (
	// ErrNoAdapter is returned when the backend exposes no adapters.
	ErrNoAdapter = errors.New("render: no adapter available")

	// ErrFrameInProgress is returned by BeginFrame while a frame is recording.
	ErrFrameInProgress = errors.New("render: frame already in progress")

	// ErrNoFrame is returned by EndFrame when no frame is recording.
	ErrNoFrame = errors.New("render: no frame in progress")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("render: device closed")

	// ErrListDone is returned when a one-shot list is submitted twice.
	ErrListDone = errors.New("render: command list already submitted or discarded")
)

// Device is a frame-oriented host over a gogpu/wgpu HAL device.
//
// Between BeginFrame and EndFrame the device records into a frame command
// encoder, which CurrentCommandList reports. Plugin events queued with
// IssuePluginEventAndData fire at EndFrame (or Flush) while that encoder is
// still recording.
//
// Command list handles wrap a pointer to a hal.CommandEncoder interface
// value, matching what the reference backend expects.
type Device struct {
	mu sync.Mutex

	instance hal.Instance
	adapter  hal.Adapter
	device   hal.Device
	queue    hal.Queue
	info     gputypes.AdapterInfo
	format   gputypes.TextureFormat

	frame    *hal.CommandEncoder
	events   []func()
	fired    int
	submits  int
	oneShots int
	closed   bool
}

var (
	_ dlss.Host            = (*Device)(nil)
	_ dlss.OneShotRecorder = (*Device)(nil)
	_ dlss.EventQueue      = (*Device)(nil)
	_ DeviceHandle         = (*Device)(nil)
)

// Open creates an instance of api and opens its first adapter.
func Open(api hal.Backend) (*Device, error) {
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("render: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	exposed := adapters[0]
	open, err := exposed.Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("render: open adapter %q: %w", exposed.Info.Name, err)
	}

	d := NewDevice(exposed.Adapter, exposed.Info, open)
	d.instance = instance
	return d, nil
}

// OpenNoop opens a device on the HAL noop backend. It records nothing and
// is used for tests and headless runs.
func OpenNoop() (*Device, error) {
	return Open(noop.API{})
}

// NewDevice wraps an already opened HAL device. Close destroys it.
func NewDevice(adapter hal.Adapter, info gputypes.AdapterInfo, open hal.OpenDevice) *Device {
	return &Device{
		adapter: adapter,
		device:  open.Device,
		queue:   open.Queue,
		info:    info,
		format:  gputypes.TextureFormatBGRA8Unorm,
	}
}

// Device returns the hal.Device.
func (d *Device) Device() gpucontext.Device { return d.device }

// Queue returns the hal.Queue.
func (d *Device) Queue() gpucontext.Queue { return d.queue }

// Adapter returns the hal.Adapter.
func (d *Device) Adapter() gpucontext.Adapter { return d.adapter }

// SurfaceFormat returns the preferred surface format.
func (d *Device) SurfaceFormat() gputypes.TextureFormat { return d.format }

// AdapterInfo reports the adapter name and type.
func (d *Device) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: d.info.Name, Type: adapterType(d.info.DeviceType)}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU, gputypes.DeviceTypeVirtualGPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

func (d *Device) beginEncoder(label string) (*hal.CommandEncoder, error) {
	enc, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("render: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("render: begin encoding: %w", err)
	}
	return &enc, nil
}

// submit ends recording on enc and submits it to the queue.
func (d *Device) submit(enc hal.CommandEncoder) error {
	cb, err := enc.EndEncoding()
	if err != nil {
		return fmt.Errorf("render: end encoding: %w", err)
	}
	if _, err := d.queue.Submit([]hal.CommandBuffer{cb}); err != nil {
		return fmt.Errorf("render: submit: %w", err)
	}
	d.submits++
	return nil
}

// BeginFrame starts recording the frame command list.
func (d *Device) BeginFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.frame != nil {
		return ErrFrameInProgress
	}
	enc, err := d.beginEncoder("frame")
	if err != nil {
		return err
	}
	d.frame = enc
	return nil
}

// CurrentCommandList returns the frame command list while a frame is
// recording.
func (d *Device) CurrentCommandList() (gpucontext.CommandEncoder, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frame == nil {
		return gpucontext.CommandEncoder{}, false
	}
	return gpucontext.NewCommandEncoder(unsafe.Pointer(d.frame)), true
}

// Recording reports whether a frame is in progress.
func (d *Device) Recording() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame != nil
}

// EndFrame fires the queued plugin events, then ends and submits the frame.
func (d *Device) EndFrame() error {
	if err := d.Flush(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	frame := d.frame
	if frame == nil {
		return ErrNoFrame
	}
	d.frame = nil
	return d.submit(*frame)
}

// Flush fires the queued plugin events into the recording frame.
func (d *Device) Flush() error {
	d.mu.Lock()
	if d.frame == nil {
		d.mu.Unlock()
		return ErrNoFrame
	}
	events := d.events
	d.events = nil
	d.mu.Unlock()

	// Events call back into CurrentCommandList, so they run unlocked.
	for _, fire := range events {
		fire()
	}

	d.mu.Lock()
	d.fired += len(events)
	d.mu.Unlock()
	return nil
}

// IssuePluginEventAndData queues fn to run with eventID and data at the
// next Flush or EndFrame.
func (d *Device) IssuePluginEventAndData(fn dlss.RenderEventFunc, eventID int32, data unsafe.Pointer) {
	d.queueEvent(func() { fn(eventID, data) })
}

// IssuePluginEvent queues fn to run with eventID at the next Flush or
// EndFrame.
func (d *Device) IssuePluginEvent(fn func(eventID int32), eventID int32) {
	d.queueEvent(func() { fn(eventID) })
}

func (d *Device) queueEvent(fire func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, fire)
}

// Pending returns the number of queued plugin events.
func (d *Device) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}

// Fired returns the number of plugin events run so far.
func (d *Device) Fired() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fired
}

// Submissions returns the number of command lists submitted, frames and
// one-shot lists alike.
func (d *Device) Submissions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submits
}

// OneShots returns the number of one-shot lists begun.
func (d *Device) OneShots() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.oneShots
}

// BeginOneShot starts a standalone command list outside the frame.
func (d *Device) BeginOneShot(label string) (dlss.OneShotList, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}
	enc, err := d.beginEncoder(label)
	if err != nil {
		return nil, err
	}
	d.oneShots++
	return &oneShot{device: d, enc: enc}, nil
}

// oneShot is a command list submitted independently of the frame.
type oneShot struct {
	device *Device
	enc    *hal.CommandEncoder
	done   bool
}

func (o *oneShot) CommandList() gpucontext.CommandEncoder {
	return gpucontext.NewCommandEncoder(unsafe.Pointer(o.enc))
}

func (o *oneShot) Submit() error {
	o.device.mu.Lock()
	defer o.device.mu.Unlock()

	if o.done {
		return ErrListDone
	}
	o.done = true
	return o.device.submit(*o.enc)
}

func (o *oneShot) Discard() {
	o.device.mu.Lock()
	defer o.device.mu.Unlock()

	if o.done {
		return
	}
	o.done = true
	(*o.enc).DiscardEncoding()
}

// Close discards any recording frame and destroys the device.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	if d.frame != nil {
		(*d.frame).DiscardEncoding()
		d.frame = nil
	}
	d.events = nil

	var err error
	if d.device != nil {
		err = d.device.WaitIdle()
		d.device.Destroy()
	}
	if d.instance != nil {
		d.instance.Destroy()
	}
	return err
}
