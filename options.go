// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"github.com/google/uuid"

	"github.com/gogpu/dlss/internal/arena"
)

// Option configures a Manager during creation.
//
// Example:
//
//	m, err := dlss.NewManager(host, backend,
//	    dlss.WithFrameArenaCapacity(64<<10),
//	    dlss.WithStagingCapacity(1<<20))
type Option func(*options)

type options struct {
	frameArena int
	staging    int
	session    uuid.UUID
}

func defaultOptions() options {
	return options{
		frameArena: arena.DefaultCapacity,
		staging:    arena.DefaultCapacity,
	}
}

// WithFrameArenaCapacity sets the size in bytes of the arena holding
// per-frame matrix payloads. It is rewound by Manager.NextFrame.
func WithFrameArenaCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.frameArena = n
		}
	}
}

// WithStagingCapacity sets the size in bytes of the arena holding staged
// deferred events.
func WithStagingCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.staging = n
		}
	}
}

// WithSessionID sets the session id attached to every log record of the
// manager. By default a random id is generated.
func WithSessionID(id uuid.UUID) Option {
	return func(o *options) {
		o.session = id
	}
}
