// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package arena

import (
	"testing"
	"unsafe"
)

func newTestArena(t *testing.T, capacity int) *Arena {
	t.Helper()
	a := New(capacity)
	t.Cleanup(a.Free)
	return a
}

func TestNewDefaultCapacity(t *testing.T) {
	a := newTestArena(t, 0)
	if a.Capacity() != DefaultCapacity {
		t.Errorf("Capacity() = %d, want %d", a.Capacity(), DefaultCapacity)
	}
}

func TestAllocateOversizeAlwaysFails(t *testing.T) {
	a := newTestArena(t, 64)
	for i := 0; i < 5; i++ {
		if p := Allocate(a, [65]byte{}); p != nil {
			t.Fatalf("call %d: Allocate(65 bytes) into 64-byte arena = %p, want nil", i, p)
		}
	}
	if a.Cursor() != 0 {
		t.Errorf("Cursor() = %d after failed allocations, want 0", a.Cursor())
	}
}

func TestAllocateWrapsWithoutSplitting(t *testing.T) {
	a := newTestArena(t, 2048)

	first := Allocate(a, [1500]byte{})
	if first == nil {
		t.Fatal("first Allocate returned nil")
	}
	if off := a.Offset(unsafe.Pointer(first)); off != 0 {
		t.Errorf("first offset = %d, want 0", off)
	}

	second := Allocate(a, [1000]byte{})
	if second == nil {
		t.Fatal("second Allocate returned nil")
	}
	if off := a.Offset(unsafe.Pointer(second)); off != 0 {
		t.Errorf("second offset = %d, want 0 (wrapped)", off)
	}
	if a.Cursor() != 1000 {
		t.Errorf("Cursor() = %d, want 1000", a.Cursor())
	}
}

func TestAllocateCopiesValue(t *testing.T) {
	type record struct {
		Handle  int32
		Feature uint32
		Params  uint64
	}

	a := newTestArena(t, 256)
	in := record{Handle: 7, Feature: 13, Params: 42}
	p := Allocate(a, in)
	if p == nil {
		t.Fatal("Allocate returned nil")
	}
	in.Handle = 99
	if *p != (record{Handle: 7, Feature: 13, Params: 42}) {
		t.Errorf("stored record = %+v", *p)
	}
}

func TestAllocateAlignment(t *testing.T) {
	a := newTestArena(t, 64)

	if Allocate(a, byte(1)) == nil {
		t.Fatal("Allocate(byte) returned nil")
	}
	p := Allocate(a, uint64(2))
	if p == nil {
		t.Fatal("Allocate(uint64) returned nil")
	}
	if off := a.Offset(unsafe.Pointer(p)); off != 8 {
		t.Errorf("uint64 offset = %d, want 8", off)
	}
}

func TestAllocateArray(t *testing.T) {
	a := newTestArena(t, 256)

	m := AllocateArray[float32](a, 16)
	if len(m) != 16 {
		t.Fatalf("len = %d, want 16", len(m))
	}
	for i := range m {
		if m[i] != 0 {
			t.Fatalf("element %d = %v, want zeroed", i, m[i])
		}
		m[i] = float32(i)
	}
	if a.Cursor() != 64 {
		t.Errorf("Cursor() = %d, want 64", a.Cursor())
	}
	if off := a.Offset(unsafe.Pointer(&m[0])); off != 0 {
		t.Errorf("offset = %d, want 0", off)
	}

	tests := []struct {
		name string
		n    int
	}{
		{"zero", 0},
		{"negative", -1},
		{"oversize", 65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllocateArray[float32](a, tt.n); got != nil {
				t.Errorf("AllocateArray(%d) len = %d, want nil", tt.n, len(got))
			}
		})
	}
}

func TestAllocateArrayZeroesReusedSpace(t *testing.T) {
	a := newTestArena(t, 64)

	m := AllocateArray[float32](a, 16)
	for i := range m {
		m[i] = 1
	}
	a.Reset()
	m = AllocateArray[float32](a, 16)
	for i := range m {
		if m[i] != 0 {
			t.Fatalf("element %d = %v after reuse, want 0", i, m[i])
		}
	}
}

func TestReset(t *testing.T) {
	a := newTestArena(t, 128)
	Allocate(a, [100]byte{})
	a.Reset()
	if a.Cursor() != 0 {
		t.Errorf("Cursor() = %d after Reset, want 0", a.Cursor())
	}
	p := Allocate(a, [10]byte{})
	if off := a.Offset(unsafe.Pointer(p)); off != 0 {
		t.Errorf("offset after Reset = %d, want 0", off)
	}
}

func TestOffsetOutside(t *testing.T) {
	a := newTestArena(t, 32)
	var x int
	if off := a.Offset(unsafe.Pointer(&x)); off != -1 {
		t.Errorf("Offset(foreign) = %d, want -1", off)
	}
}

func TestAllocatePointerTypePanics(t *testing.T) {
	a := newTestArena(t, 64)

	defer func() {
		if recover() == nil {
			t.Error("Allocate of a pointer-carrying type did not panic")
		}
	}()
	type withPointer struct {
		P *int
	}
	Allocate(a, withPointer{})
}

func TestFreeTwice(t *testing.T) {
	a := New(32)
	a.Free()
	a.Free()
	if a.Capacity() != 0 {
		t.Errorf("Capacity() after Free = %d, want 0", a.Capacity())
	}
}
