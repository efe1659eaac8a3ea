// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"maps"
	"slices"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/dlss/ngx"
)

// contextRegistry owns the feature contexts keyed by view id.
// Every method locks env.mu for its whole duration, so a failed operation
// never leaves a partially created entry behind.
type contextRegistry struct {
	env      *environment
	contexts map[uint32]*featureContext
}

func newContextRegistry(env *environment) *contextRegistry {
	return &contextRegistry{
		env:      env,
		contexts: make(map[uint32]*featureContext),
	}
}

func (r *contextRegistry) create(viewID uint32, p ContextCreateParams) Result {
	r.env.mu.Lock()
	defer r.env.mu.Unlock()

	if _, ok := r.contexts[viewID]; ok {
		return ResultContextAlreadyExists
	}
	return r.createLocked(viewID, p)
}

func (r *contextRegistry) createLocked(viewID uint32, p ContextCreateParams) Result {
	if r.env.params == nil {
		return ResultNotInitialized
	}
	list, res := r.env.acquireCreationList()
	if res != ResultSuccess {
		return res
	}

	ctx := &featureContext{env: r.env}
	if res := ctx.create(list.cmd, p); res != ResultSuccess {
		list.discard()
		return res
	}
	if err := list.submit(); err != nil {
		r.env.log().Error("dlss: failed to submit creation command list",
			"view", viewID, "err", err)
		ctx.destroy()
		return ResultPlatformError
	}

	r.contexts[viewID] = ctx
	return ResultSuccess
}

func (r *contextRegistry) destroy(viewID uint32) {
	r.env.mu.Lock()
	defer r.env.mu.Unlock()

	ctx, ok := r.contexts[viewID]
	if !ok {
		r.env.log().Debug("dlss: destroy of unknown view ignored", "view", viewID)
		return
	}
	ctx.destroy()
	delete(r.contexts, viewID)
}

func (r *contextRegistry) destroyAll() int {
	r.env.mu.Lock()
	defer r.env.mu.Unlock()
	return r.destroyAllLocked()
}

func (r *contextRegistry) destroyAllLocked() int {
	n := len(r.contexts)
	for _, ctx := range r.contexts {
		ctx.destroy()
	}
	clear(r.contexts)
	return n
}

func (r *contextRegistry) has(viewID uint32) bool {
	r.env.mu.Lock()
	defer r.env.mu.Unlock()
	_, ok := r.contexts[viewID]
	return ok
}

// update recreates the context only when p differs materially from the
// stored parameters; otherwise the handle is left untouched.
func (r *contextRegistry) update(viewID uint32, p ContextCreateParams) (recreated bool, res Result) {
	r.env.mu.Lock()
	defer r.env.mu.Unlock()

	ctx, ok := r.contexts[viewID]
	if !ok {
		return false, ResultContextNotFound
	}
	if !ctx.needsRecreation(&p) {
		return false, ResultSuccess
	}

	ctx.destroy()
	delete(r.contexts, viewID)
	return true, r.createLocked(viewID, p)
}

func (r *contextRegistry) execute(viewID uint32, cmd gpucontext.CommandEncoder, p *ExecuteParams) Result {
	r.env.mu.Lock()
	defer r.env.mu.Unlock()

	if r.env.params == nil {
		return ResultNotInitialized
	}
	ctx, ok := r.contexts[viewID]
	if !ok {
		return ResultContextNotFound
	}
	return ctx.execute(cmd, p)
}

func (r *contextRegistry) handle(viewID uint32) (ngx.Handle, bool) {
	r.env.mu.Lock()
	defer r.env.mu.Unlock()

	ctx, ok := r.contexts[viewID]
	if !ok {
		return ngx.InvalidHandle, false
	}
	return ctx.handle, true
}

func (r *contextRegistry) count() int {
	r.env.mu.Lock()
	defer r.env.mu.Unlock()
	return len(r.contexts)
}

func (r *contextRegistry) views() []uint32 {
	r.env.mu.Lock()
	defer r.env.mu.Unlock()
	return slices.Sorted(maps.Keys(r.contexts))
}
