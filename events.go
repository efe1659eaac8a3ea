// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/dlss/internal/arena"
	"github.com/gogpu/dlss/ngx"
)

// EventID identifies a deferred event kind on the host's event channel.
type EventID int32

// Deferred event ids.
const (
	EventCreateFeature   EventID = 0
	EventEvaluateFeature EventID = 1
	EventDestroyFeature  EventID = 2
)

// String returns the event name.
func (id EventID) String() string {
	switch id {
	case EventCreateFeature:
		return "CreateFeature"
	case EventEvaluateFeature:
		return "EvaluateFeature"
	case EventDestroyFeature:
		return "DestroyFeature"
	}
	return fmt.Sprintf("EventID(%d)", int32(id))
}

// FeatureHandle is a dispatcher slot id naming a backend feature on the
// deferred path. Slots are allocated before the create event is staged.
type FeatureHandle int32

// InvalidFeatureHandle is returned when no slot could be allocated.
const InvalidFeatureHandle FeatureHandle = -1

// ParamsID names a parameter block in the dispatcher's side table.
type ParamsID uint64

// Event is a deferred backend operation: CreateFeature, EvaluateFeature or
// DestroyFeature. Each variant is a fixed-layout, pointer-free record so it
// can be staged in the arena as is.
type Event interface {
	ID() EventID
	stage(a *arena.Arena) unsafe.Pointer
}

// CreateFeature creates a backend feature into slot Handle.
type CreateFeature struct {
	Handle  FeatureHandle
	Feature ngx.Feature
	Params  ParamsID
}

// EvaluateFeature evaluates the feature in slot Handle.
type EvaluateFeature struct {
	Handle FeatureHandle
	Params ParamsID
}

// DestroyFeature releases the feature in slot Handle.
type DestroyFeature struct {
	Handle FeatureHandle
}

func (CreateFeature) ID() EventID   { return EventCreateFeature }
func (EvaluateFeature) ID() EventID { return EventEvaluateFeature }
func (DestroyFeature) ID() EventID  { return EventDestroyFeature }

func (e CreateFeature) stage(a *arena.Arena) unsafe.Pointer {
	return unsafe.Pointer(arena.Allocate(a, e))
}

func (e EvaluateFeature) stage(a *arena.Arena) unsafe.Pointer {
	return unsafe.Pointer(arena.Allocate(a, e))
}

func (e DestroyFeature) stage(a *arena.Arena) unsafe.Pointer {
	return unsafe.Pointer(arena.Allocate(a, e))
}

// decodeEvent turns the raw callback arguments into an Event.
// The record is copied out, so the staged memory may be reused afterwards.
func decodeEvent(id EventID, data unsafe.Pointer) (Event, error) {
	if data == nil {
		return nil, fmt.Errorf("dlss: %v event has no payload", id)
	}
	switch id {
	case EventCreateFeature:
		return *(*CreateFeature)(data), nil
	case EventEvaluateFeature:
		return *(*EvaluateFeature)(data), nil
	case EventDestroyFeature:
		return *(*DestroyFeature)(data), nil
	}
	return nil, fmt.Errorf("dlss: unknown event %v", id)
}
