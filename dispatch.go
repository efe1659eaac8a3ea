// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"unsafe"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/dlss/internal/arena"
	"github.com/gogpu/dlss/ngx"
)

// maxFeatureHandles is the number of deferred-path feature slots.
const maxFeatureHandles = 1024

// Dispatcher performs backend Create, Evaluate and Destroy operations on
// behalf of callers that drive features through events instead of views.
//
// An event reaches the backend through a Submission: Now records it into a
// command list immediately, Later stages it and lets the host fire it from
// its own render thread. Events refer to features and parameter blocks by
// id, through side tables owned by the dispatcher, so a staged record never
// holds a Go pointer.
//
// Callers must not destroy a feature while an evaluation of it is still
// queued on the host, and must not modify a parameter block between staging
// an event that uses it and the event firing.
type Dispatcher struct {
	env *environment

	// Guarded by env.mu.
	staging    *arena.Arena
	features   map[FeatureHandle]ngx.Handle
	next       uint32
	params     map[ParamsID]*ngx.ParameterBlock
	nextParams ParamsID
}

func newDispatcher(env *environment, stagingCapacity int) *Dispatcher {
	return &Dispatcher{
		env:      env,
		staging:  arena.New(stagingCapacity),
		features: make(map[FeatureHandle]ngx.Handle),
		params:   make(map[ParamsID]*ngx.ParameterBlock),
	}
}

// Submission selects how Submit delivers an event: Now or Later.
type Submission interface {
	submit(d *Dispatcher, ev Event) error
}

// Now performs the event during Submit. A zero CommandList means the list
// the host is recording at that moment.
type Now struct {
	CommandList gpucontext.CommandEncoder
}

// Later stages the event in the dispatcher's arena and hands it to Queue.
// The backend call happens when the host fires the event, against the list
// the host is recording then.
type Later struct {
	Queue EventQueue
}

// Submit delivers ev through s.
func (d *Dispatcher) Submit(s Submission, ev Event) error {
	if s == nil || ev == nil {
		return ResultInvalidParameter
	}
	return s.submit(d, ev)
}

func (s Now) submit(d *Dispatcher, ev Event) error {
	cmd := s.CommandList
	if cmd.IsNil() {
		var ok bool
		cmd, ok = d.env.host.CurrentCommandList()
		if !ok || cmd.IsNil() {
			d.env.log().Error("dlss: no recording command list", "event", ev.ID().String())
			return ResultPlatformError
		}
	}

	d.env.mu.Lock()
	res := d.performLocked(cmd, ev)
	d.env.mu.Unlock()

	d.env.counters.add(opDispatch, res)
	return res.Err()
}

func (s Later) submit(d *Dispatcher, ev Event) error {
	if s.Queue == nil {
		return ResultInvalidParameter
	}

	d.env.mu.Lock()
	data := ev.stage(d.staging)
	d.env.mu.Unlock()

	if data == nil {
		return ResultOutOfMemory
	}
	s.Queue.IssuePluginEventAndData(d.RenderEvent, int32(ev.ID()), data)
	return nil
}

// RenderEvent is the host callback for staged events. Failures are logged;
// an event naming a feature that no longer exists is ignored.
func (d *Dispatcher) RenderEvent(eventID int32, data unsafe.Pointer) {
	ev, err := decodeEvent(EventID(eventID), data)
	if err != nil {
		d.env.log().Warn("dlss: ignoring render event", "event", eventID, "err", err)
		return
	}

	cmd, ok := d.env.host.CurrentCommandList()
	if !ok || cmd.IsNil() {
		d.env.log().Error("dlss: render event fired with no recording command list",
			"event", ev.ID().String())
		return
	}

	d.env.mu.Lock()
	res := d.performLocked(cmd, ev)
	d.env.mu.Unlock()

	d.env.counters.add(opRenderEvent, res)
}

func (d *Dispatcher) performLocked(cmd gpucontext.CommandEncoder, ev Event) Result {
	if d.env.params == nil {
		return ResultNotInitialized
	}

	switch ev := ev.(type) {
	case CreateFeature:
		h, ok := d.features[ev.Handle]
		if !ok {
			d.env.log().Warn("dlss: create for unallocated feature handle ignored",
				"handle", int32(ev.Handle))
			return ResultContextNotFound
		}
		if h.Valid() {
			return ResultContextAlreadyExists
		}
		pb, ok := d.params[ev.Params]
		if !ok {
			return ResultInvalidParameter
		}
		created, code := d.env.backend.CreateFeature(cmd, ev.Feature, pb.Native())
		if res := d.env.check(code); res != ResultSuccess {
			return res
		}
		d.features[ev.Handle] = created
		return ResultSuccess

	case EvaluateFeature:
		h := d.features[ev.Handle]
		if !h.Valid() {
			d.env.log().Warn("dlss: evaluate of unknown feature handle ignored",
				"handle", int32(ev.Handle))
			return ResultContextNotFound
		}
		pb, ok := d.params[ev.Params]
		if !ok {
			return ResultInvalidParameter
		}
		return d.env.check(d.env.backend.EvaluateFeature(cmd, h, pb.Native()))

	case DestroyFeature:
		h := d.features[ev.Handle]
		if !h.Valid() {
			d.env.log().Warn("dlss: destroy of unknown feature handle ignored",
				"handle", int32(ev.Handle))
			return ResultContextNotFound
		}
		code := d.env.backend.ReleaseFeature(h)
		d.features[ev.Handle] = ngx.InvalidHandle
		return d.env.check(code)
	}
	return ResultInvalidParameter
}

// AllocateFeatureHandle reserves a feature slot for a later CreateFeature.
func (d *Dispatcher) AllocateFeatureHandle() (FeatureHandle, error) {
	d.env.mu.Lock()
	defer d.env.mu.Unlock()

	for range maxFeatureHandles {
		h := FeatureHandle(d.next % maxFeatureHandles)
		d.next++
		if _, used := d.features[h]; !used {
			d.features[h] = ngx.InvalidHandle
			return h, nil
		}
	}
	return InvalidFeatureHandle, ErrNoFreeFeatureHandle
}

// FreeFeatureHandle releases the slot, and its feature if one was created.
func (d *Dispatcher) FreeFeatureHandle(h FeatureHandle) error {
	d.env.mu.Lock()
	defer d.env.mu.Unlock()

	created, ok := d.features[h]
	if !ok {
		return nil
	}
	delete(d.features, h)
	if created.Valid() {
		return d.env.check(d.env.backend.ReleaseFeature(created)).Err()
	}
	return nil
}

// Feature returns the backend handle in slot h. The handle is invalid until
// a CreateFeature for h has run.
func (d *Dispatcher) Feature(h FeatureHandle) (ngx.Handle, bool) {
	d.env.mu.Lock()
	defer d.env.mu.Unlock()

	created, ok := d.features[h]
	return created, ok
}

// AllocateParameters creates a parameter block the caller fills before
// staging events that reference id.
func (d *Dispatcher) AllocateParameters() (ParamsID, *ngx.ParameterBlock, error) {
	d.env.mu.Lock()
	defer d.env.mu.Unlock()

	if d.env.params == nil {
		return 0, nil, ResultNotInitialized
	}
	pb, code := ngx.Allocate(d.env.backend)
	if res := d.env.check(code); res != ResultSuccess {
		return 0, nil, res
	}
	d.nextParams++
	d.params[d.nextParams] = pb
	return d.nextParams, pb, nil
}

// Parameters returns the block registered under id.
func (d *Dispatcher) Parameters(id ParamsID) (*ngx.ParameterBlock, bool) {
	d.env.mu.Lock()
	defer d.env.mu.Unlock()

	pb, ok := d.params[id]
	return pb, ok
}

// DestroyParameters releases the block registered under id.
// Unknown ids are ignored.
func (d *Dispatcher) DestroyParameters(id ParamsID) error {
	d.env.mu.Lock()
	defer d.env.mu.Unlock()

	pb, ok := d.params[id]
	if !ok {
		return nil
	}
	delete(d.params, id)
	return d.env.check(pb.Release()).Err()
}

// ResetStaging rewinds the staging arena. Call it once every staged event
// has fired, typically after the host submitted the frame.
func (d *Dispatcher) ResetStaging() {
	d.env.mu.Lock()
	defer d.env.mu.Unlock()
	d.staging.Reset()
}

// releaseAllLocked drops every feature and parameter block.
func (d *Dispatcher) releaseAllLocked() {
	for h, created := range d.features {
		if created.Valid() {
			d.env.check(d.env.backend.ReleaseFeature(created))
		}
		delete(d.features, h)
	}
	for id, pb := range d.params {
		d.env.check(pb.Release())
		delete(d.params, id)
	}
	d.staging.Reset()
}
