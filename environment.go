// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/dlss/internal/arena"
	"github.com/gogpu/dlss/ngx"
)

// environment is the state shared by the registry and the dispatcher of
// one manager. mu guards every field below it and every backend call.
type environment struct {
	host    Host
	backend ngx.Backend
	session string

	// lastErr is the most recent native code from any backend call.
	lastErr atomic.Uint32

	counters counters

	mu sync.Mutex

	// params is the capability block, valid between Initialize and
	// Shutdown.
	params *ngx.ParameterBlock

	// matrices holds matrix payloads for the current frame.
	matrices *arena.Arena
}

func (e *environment) log() *slog.Logger {
	l := Logger()
	if e.session != "" {
		l = l.With("session", e.session)
	}
	return l
}

// check records code as the last native result and translates it.
func (e *environment) check(code ngx.Result) Result {
	e.lastErr.Store(uint32(code))
	if code.Succeeded() {
		return ResultSuccess
	}
	return translate(e.log(), code)
}

// creationList is a command list for feature creation together with the
// steps that hand it back to the host.
type creationList struct {
	cmd     gpucontext.CommandEncoder
	submit  func() error
	discard func()
}

// acquireCreationList returns the host's live recording list when there is
// one, otherwise a one-shot list that is submitted after creation.
func (e *environment) acquireCreationList() (creationList, Result) {
	if cmd, ok := e.host.CurrentCommandList(); ok && !cmd.IsNil() {
		return creationList{
			cmd:     cmd,
			submit:  func() error { return nil },
			discard: func() {},
		}, ResultSuccess
	}

	rec, ok := e.host.(OneShotRecorder)
	if !ok {
		e.log().Error("dlss: no recording command list and host cannot record one-shot lists")
		return creationList{}, ResultPlatformError
	}
	list, err := rec.BeginOneShot("dlss feature creation")
	if err != nil {
		e.log().Error("dlss: failed to begin creation command list", "err", err)
		return creationList{}, ResultPlatformError
	}
	return creationList{
		cmd:     list.CommandList(),
		submit:  list.Submit,
		discard: list.Discard,
	}, ResultSuccess
}
