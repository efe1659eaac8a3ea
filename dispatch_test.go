// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/gogpu/dlss/ngx"
)

// queuedEvent is one IssuePluginEventAndData call.
type queuedEvent struct {
	fn   RenderEventFunc
	id   int32
	data unsafe.Pointer
}

// mockQueue holds events until flush, like a host render thread would.
type mockQueue struct {
	events []queuedEvent
}

func (q *mockQueue) IssuePluginEventAndData(fn RenderEventFunc, eventID int32, data unsafe.Pointer) {
	q.events = append(q.events, queuedEvent{fn, eventID, data})
}

func (q *mockQueue) flush() {
	events := q.events
	q.events = nil
	for _, ev := range events {
		ev.fn(ev.id, ev.data)
	}
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *mockBackend, *mockHost) {
	t.Helper()
	m, backend, host := newTestManager(t)
	return m.Dispatcher(), backend, host
}

func TestDispatcherNow(t *testing.T) {
	d, backend, host := newTestDispatcher(t)

	h, err := d.AllocateFeatureHandle()
	if err != nil {
		t.Fatalf("AllocateFeatureHandle() = %v", err)
	}
	id, pb, err := d.AllocateParameters()
	if err != nil {
		t.Fatalf("AllocateParameters() = %v", err)
	}
	pb.SetUint(ngx.ParamWidth, 640)

	if err := d.Submit(Now{}, CreateFeature{Handle: h, Feature: ngx.FeatureSuperSampling, Params: id}); err != nil {
		t.Fatalf("Submit(CreateFeature) = %v", err)
	}
	if c := backend.creates[0]; c.cmd != host.list || c.width != 640 {
		t.Errorf("create call = %+v, want host list and width 640", c)
	}
	created, ok := d.Feature(h)
	if !ok || !created.Valid() {
		t.Fatalf("Feature(%d) = %v, %v after create", h, created, ok)
	}

	explicit := newCommandList()
	if err := d.Submit(Now{CommandList: explicit}, EvaluateFeature{Handle: h, Params: id}); err != nil {
		t.Fatalf("Submit(EvaluateFeature) = %v", err)
	}
	if e := backend.evals[0]; e.cmd != explicit || e.handle != created {
		t.Errorf("evaluate call = %+v", e)
	}

	if err := d.Submit(Now{}, DestroyFeature{Handle: h}); err != nil {
		t.Fatalf("Submit(DestroyFeature) = %v", err)
	}
	if n := backend.liveFeatures(); n != 0 {
		t.Errorf("%d features live after destroy", n)
	}
}

func TestDispatcherNowErrors(t *testing.T) {
	d, backend, host := newTestDispatcher(t)

	if err := d.Submit(nil, DestroyFeature{}); !errors.Is(err, ResultInvalidParameter) {
		t.Errorf("Submit(nil, ...) = %v", err)
	}
	if err := d.Submit(Now{}, nil); !errors.Is(err, ResultInvalidParameter) {
		t.Errorf("Submit(..., nil) = %v", err)
	}

	err := d.Submit(Now{}, CreateFeature{Handle: 17, Feature: ngx.FeatureSuperSampling})
	if !errors.Is(err, ResultContextNotFound) {
		t.Errorf("create into unallocated slot = %v, want ResultContextNotFound", err)
	}

	h, _ := d.AllocateFeatureHandle()
	if err := d.Submit(Now{}, CreateFeature{Handle: h, Params: 99}); !errors.Is(err, ResultInvalidParameter) {
		t.Errorf("create with unknown params = %v, want ResultInvalidParameter", err)
	}
	if err := d.Submit(Now{}, EvaluateFeature{Handle: h}); !errors.Is(err, ResultContextNotFound) {
		t.Errorf("evaluate before create = %v, want ResultContextNotFound", err)
	}

	host.recording = false
	if err := d.Submit(Now{}, DestroyFeature{Handle: h}); !errors.Is(err, ResultPlatformError) {
		t.Errorf("Now without a recording list = %v, want ResultPlatformError", err)
	}
	if n := backend.count("CreateFeature"); n != 0 {
		t.Errorf("CreateFeature called %d times", n)
	}
}

func TestDispatcherCreateTwice(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	h, _ := d.AllocateFeatureHandle()
	id, _, _ := d.AllocateParameters()

	ev := CreateFeature{Handle: h, Feature: ngx.FeatureRayReconstruction, Params: id}
	if err := d.Submit(Now{}, ev); err != nil {
		t.Fatalf("Submit() = %v", err)
	}
	if err := d.Submit(Now{}, ev); !errors.Is(err, ResultContextAlreadyExists) {
		t.Errorf("second create = %v, want ResultContextAlreadyExists", err)
	}
}

func TestDispatcherLater(t *testing.T) {
	d, backend, host := newTestDispatcher(t)
	q := &mockQueue{}

	h, _ := d.AllocateFeatureHandle()
	id, _, _ := d.AllocateParameters()

	for _, ev := range []Event{
		CreateFeature{Handle: h, Feature: ngx.FeatureSuperSampling, Params: id},
		EvaluateFeature{Handle: h, Params: id},
	} {
		if err := d.Submit(Later{Queue: q}, ev); err != nil {
			t.Fatalf("Submit(Later, %v) = %v", ev.ID(), err)
		}
	}
	if n := backend.count("CreateFeature"); n != 0 {
		t.Fatal("Later performed the event during Submit")
	}
	if len(q.events) != 2 || q.events[1].id != int32(EventEvaluateFeature) {
		t.Fatalf("queued events = %+v", q.events)
	}
	if off := d.staging.Offset(q.events[0].data); off < 0 {
		t.Error("staged record does not live in the staging arena")
	}

	q.flush()
	if n := backend.count("CreateFeature"); n != 1 {
		t.Errorf("CreateFeature called %d times after flush, want 1", n)
	}
	if len(backend.evals) != 1 || backend.evals[0].cmd != host.list {
		t.Errorf("evaluations after flush = %+v", backend.evals)
	}

	d.ResetStaging()
	if c := d.staging.Cursor(); c != 0 {
		t.Errorf("staging cursor = %d after ResetStaging", c)
	}
}

func TestDispatcherLaterIgnoresMissingFeature(t *testing.T) {
	d, backend, _ := newTestDispatcher(t)
	q := &mockQueue{}

	h, _ := d.AllocateFeatureHandle()
	if err := d.Submit(Later{Queue: q}, EvaluateFeature{Handle: h}); err != nil {
		t.Fatalf("Submit() = %v", err)
	}
	if err := d.Submit(Later{Queue: q}, DestroyFeature{Handle: h + 1}); err != nil {
		t.Fatalf("Submit() = %v", err)
	}
	q.flush()

	if n := backend.count("EvaluateFeature") + backend.count("ReleaseFeature"); n != 0 {
		t.Errorf("backend saw %d calls for missing features", n)
	}
}

func TestDispatcherLaterErrors(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	if err := d.Submit(Later{}, DestroyFeature{}); !errors.Is(err, ResultInvalidParameter) {
		t.Errorf("Later without a queue = %v, want ResultInvalidParameter", err)
	}
}

func TestDispatcherRenderEventRejectsGarbage(t *testing.T) {
	d, backend, _ := newTestDispatcher(t)

	d.RenderEvent(int32(EventDestroyFeature), nil)
	ev := DestroyFeature{}
	d.RenderEvent(42, unsafe.Pointer(&ev))

	if n := backend.count("ReleaseFeature"); n != 0 {
		t.Errorf("ReleaseFeature called %d times", n)
	}
}

func TestDispatcherRenderEventWithoutRecording(t *testing.T) {
	d, backend, host := newTestDispatcher(t)
	q := &mockQueue{}

	h, _ := d.AllocateFeatureHandle()
	id, _, _ := d.AllocateParameters()
	_ = d.Submit(Later{Queue: q}, CreateFeature{Handle: h, Feature: ngx.FeatureSuperSampling, Params: id})

	host.recording = false
	q.flush()
	if n := backend.count("CreateFeature"); n != 0 {
		t.Errorf("CreateFeature called %d times with no recording list", n)
	}
}

func TestFeatureHandleSlots(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	seen := make(map[FeatureHandle]bool)
	for range maxFeatureHandles {
		h, err := d.AllocateFeatureHandle()
		if err != nil {
			t.Fatalf("AllocateFeatureHandle() = %v", err)
		}
		if h < 0 || h >= maxFeatureHandles || seen[h] {
			t.Fatalf("AllocateFeatureHandle() = %d, reused or out of range", h)
		}
		seen[h] = true
	}

	h, err := d.AllocateFeatureHandle()
	if !errors.Is(err, ErrNoFreeFeatureHandle) || h != InvalidFeatureHandle {
		t.Fatalf("AllocateFeatureHandle() when full = %d, %v", h, err)
	}

	if err := d.FreeFeatureHandle(10); err != nil {
		t.Fatalf("FreeFeatureHandle() = %v", err)
	}
	if h, err := d.AllocateFeatureHandle(); err != nil || h != 10 {
		t.Errorf("AllocateFeatureHandle() after free = %d, %v, want 10", h, err)
	}
}

func TestFreeFeatureHandleReleasesFeature(t *testing.T) {
	d, backend, _ := newTestDispatcher(t)
	h, _ := d.AllocateFeatureHandle()
	id, _, _ := d.AllocateParameters()
	_ = d.Submit(Now{}, CreateFeature{Handle: h, Feature: ngx.FeatureSuperSampling, Params: id})

	if err := d.FreeFeatureHandle(h); err != nil {
		t.Fatalf("FreeFeatureHandle() = %v", err)
	}
	if n := backend.liveFeatures(); n != 0 {
		t.Errorf("%d features live after FreeFeatureHandle", n)
	}
	if _, ok := d.Feature(h); ok {
		t.Error("slot still allocated after FreeFeatureHandle")
	}
	if err := d.FreeFeatureHandle(h); err != nil {
		t.Errorf("second FreeFeatureHandle() = %v", err)
	}
}

func TestDispatcherParameters(t *testing.T) {
	d, backend, _ := newTestDispatcher(t)

	id, pb, err := d.AllocateParameters()
	if err != nil {
		t.Fatalf("AllocateParameters() = %v", err)
	}
	if got, ok := d.Parameters(id); !ok || got != pb {
		t.Errorf("Parameters(%d) = %v, %v", id, got, ok)
	}
	if err := d.DestroyParameters(id); err != nil {
		t.Fatalf("DestroyParameters() = %v", err)
	}
	if _, ok := d.Parameters(id); ok {
		t.Error("Parameters() found a destroyed block")
	}
	if err := d.DestroyParameters(id); err != nil {
		t.Errorf("DestroyParameters(unknown) = %v", err)
	}
	if backend.destroyed != 1 {
		t.Errorf("backend destroyed %d blocks, want 1", backend.destroyed)
	}
}

func TestDispatcherShutdownReleasesEverything(t *testing.T) {
	m, backend, _ := newTestManager(t)
	d := m.Dispatcher()

	h, _ := d.AllocateFeatureHandle()
	id, _, _ := d.AllocateParameters()
	_ = d.Submit(Now{}, CreateFeature{Handle: h, Feature: ngx.FeatureSuperSampling, Params: id})
	_, _, _ = d.AllocateParameters()

	m.Shutdown()

	if n := backend.liveFeatures(); n != 0 {
		t.Errorf("%d features live after Shutdown", n)
	}
	if backend.destroyed != 2 {
		t.Errorf("backend destroyed %d blocks, want 2", backend.destroyed)
	}
	if _, _, err := d.AllocateParameters(); !errors.Is(err, ResultNotInitialized) {
		t.Errorf("AllocateParameters() after Shutdown = %v", err)
	}
}
