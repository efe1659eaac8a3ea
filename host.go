// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"unsafe"

	"github.com/gogpu/gpucontext"
)

// Host is the embedding engine's graphics device.
//
// dlss RECEIVES the device from the host, it does NOT create one. The host
// decides when command lists are recorded and submitted; dlss only records
// into the list the host reports.
type Host interface {
	gpucontext.DeviceProvider

	// CurrentCommandList returns the command list the host is recording
	// right now, or false when no recording is in progress.
	CurrentCommandList() (gpucontext.CommandEncoder, bool)
}

// OneShotRecorder is implemented by hosts that can record and submit a
// standalone command list outside their frame.
//
// Feature creation uses it when the host is not recording. The list is
// always submitted or discarded; it is never left unsubmitted.
type OneShotRecorder interface {
	BeginOneShot(label string) (OneShotList, error)
}

// OneShotList is a standalone command list.
type OneShotList interface {
	CommandList() gpucontext.CommandEncoder

	// Submit ends recording and submits the list to the device queue.
	Submit() error

	// Discard abandons the recording.
	Discard()
}

// RenderEventFunc is the deferred-path callback the host invokes with an
// event id and the staged payload.
type RenderEventFunc func(eventID int32, data unsafe.Pointer)

// EventQueue is the host's plugin-event-with-data mechanism. The host calls
// fn later, at a point of its choosing, while it is recording.
type EventQueue interface {
	IssuePluginEventAndData(fn RenderEventFunc, eventID int32, data unsafe.Pointer)
}
