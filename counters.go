// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"cmp"
	"slices"
	"sync"
)

// Operation names used in Counters.
const (
	opInitialize  = "initialize"
	opCreate      = "create"
	opUpdate      = "update"
	opRecreate    = "recreate"
	opDestroy     = "destroy"
	opExecute     = "execute"
	opDispatch    = "dispatch"
	opRenderEvent = "render_event"
)

// OperationCount is the number of times an operation ended with Result.
type OperationCount struct {
	Operation string
	Result    Result
	Count     uint64
}

// Counters is a point-in-time snapshot of a manager's activity.
type Counters struct {
	Initialized  bool
	Contexts     int
	LastNGXError int32
	Operations   []OperationCount
}

type opKey struct {
	op  string
	res Result
}

type counters struct {
	mu sync.Mutex
	m  map[opKey]uint64
}

func (c *counters) add(op string, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = make(map[opKey]uint64)
	}
	c.m[opKey{op, res}]++
}

// snapshot returns the counts ordered by operation, then result.
func (c *counters) snapshot() []OperationCount {
	c.mu.Lock()
	out := make([]OperationCount, 0, len(c.m))
	for k, n := range c.m {
		out = append(out, OperationCount{Operation: k.op, Result: k.res, Count: n})
	}
	c.mu.Unlock()

	slices.SortFunc(out, func(a, b OperationCount) int {
		if n := cmp.Compare(a.Operation, b.Operation); n != 0 {
			return n
		}
		return cmp.Compare(b.Result, a.Result)
	})
	return out
}
