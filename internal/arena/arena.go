// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package arena provides a fixed-capacity circular byte arena whose backing
// memory keeps a stable, pinned address for the arena's lifetime.
//
// The arena exists for payloads that must outlive the call that produced
// them, such as records handed to a graphics callback that fires later on a
// host-chosen thread. Pointers returned by Allocate stay valid until the
// cursor wraps over them or the arena is freed.
//
// The arena memory is invisible to the garbage collector, so only
// pointer-free types may be stored in it. Allocate panics otherwise.
//
// An Arena is single-writer: it has no internal synchronization and callers
// must never allocate from two goroutines at once.
package arena

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"unsafe"
)

// DefaultCapacity is the arena size used when New is given a non-positive
// capacity (2 MiB).
const DefaultCapacity = 2 << 20

// Arena is a circular byte arena with a manual write cursor.
type Arena struct {
	buf    []byte
	base   uintptr
	cursor uintptr
	pin    *runtime.Pinner
}

// New creates an arena of the given capacity in bytes.
func New(capacity int) *Arena {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	// Backed by words so the base address is 8-byte aligned.
	words := make([]uint64, (capacity+7)/8)
	pin := new(runtime.Pinner)
	pin.Pin(&words[0])

	buf := unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), capacity)
	a := &Arena{
		buf:  buf,
		base: uintptr(unsafe.Pointer(&words[0])),
		pin:  pin,
	}
	runtime.AddCleanup(a, func(p *runtime.Pinner) { p.Unpin() }, pin)
	return a
}

// Capacity returns the arena size in bytes.
func (a *Arena) Capacity() int {
	return len(a.buf)
}

// Cursor returns the current write offset.
func (a *Arena) Cursor() int {
	return int(a.cursor)
}

// Reset rewinds the write cursor to offset 0.
// The owner calls it once per frame boundary; the arena never resets itself.
func (a *Arena) Reset() {
	a.cursor = 0
}

// Free unpins the backing memory. The arena must not be used afterwards.
func (a *Arena) Free() {
	if a.buf == nil {
		return
	}
	a.pin.Unpin()
	a.buf = nil
	a.base = 0
	a.cursor = 0
}

// Offset returns the byte offset of p inside the arena, or -1 if p does not
// point into it.
func (a *Arena) Offset(p unsafe.Pointer) int {
	addr := uintptr(p)
	if a.buf == nil || addr < a.base || addr >= a.base+uintptr(len(a.buf)) {
		return -1
	}
	return int(addr - a.base)
}

// Allocate copies item into the arena and returns a pointer to the copy.
// It returns nil if the item is larger than the arena. An item is never
// split across the wrap boundary: when it does not fit after the cursor,
// the cursor wraps to offset 0.
func Allocate[T any](a *Arena, item T) *T {
	mustBePointerFree(reflect.TypeFor[T]())

	size := unsafe.Sizeof(item)
	if size == 0 {
		return new(T)
	}
	off, ok := a.reserve(size, unsafe.Alignof(item))
	if !ok {
		return nil
	}
	p := (*T)(unsafe.Pointer(&a.buf[off]))
	*p = item
	return p
}

// AllocateArray reserves n contiguous elements of T and returns them as a
// slice aliasing arena memory, zeroed for the caller to fill in place.
// It returns nil when n is not positive or the array exceeds the arena.
func AllocateArray[T any](a *Arena, n int) []T {
	mustBePointerFree(reflect.TypeFor[T]())

	if n <= 0 {
		return nil
	}
	var zero T
	elem := unsafe.Sizeof(zero)
	if elem == 0 {
		return make([]T, n)
	}
	if uintptr(n) > uintptr(len(a.buf))/elem {
		return nil
	}
	size := elem * uintptr(n)
	off, ok := a.reserve(size, unsafe.Alignof(zero))
	if !ok {
		return nil
	}
	clear(a.buf[off : off+size])
	return unsafe.Slice((*T)(unsafe.Pointer(&a.buf[off])), n)
}

// reserve claims size bytes aligned to align and advances the cursor.
func (a *Arena) reserve(size, align uintptr) (uintptr, bool) {
	capacity := uintptr(len(a.buf))
	if size > capacity {
		return 0, false
	}

	off := alignUp(a.cursor, align)
	if off > capacity || size > capacity-off {
		off = 0
		// Re-validated after the wrap.
		if size > capacity {
			return 0, false
		}
	}

	a.cursor = off + size
	return off, true
}

func alignUp(v, align uintptr) uintptr {
	if align <= 1 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

var pointerFreeTypes sync.Map // reflect.Type -> bool

func mustBePointerFree(t reflect.Type) {
	if v, ok := pointerFreeTypes.Load(t); ok {
		if !v.(bool) {
			panic(fmt.Sprintf("arena: type %s contains pointers", t))
		}
		return
	}
	free := !hasPointers(t)
	pointerFreeTypes.Store(t, free)
	if !free {
		panic(fmt.Sprintf("arena: type %s contains pointers", t))
	}
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
