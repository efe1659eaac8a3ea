// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ngx

import (
	"unsafe"

	"github.com/gogpu/gpucontext"
)

// MapParameters is an in-memory Parameters implementation for backends
// that have no native parameter object of their own.
//
// Numeric getters convert between numeric kinds the way a native parameter
// object does, so a value set with SetI can be read back with GetUI.
// MapParameters is not safe for concurrent use.
type MapParameters struct {
	values map[string]any
}

var _ Parameters = (*MapParameters)(nil)

// NewMapParameters creates an empty parameter object.
func NewMapParameters() *MapParameters {
	return &MapParameters{values: make(map[string]any)}
}

// Has reports whether name has been set.
func (m *MapParameters) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Len returns the number of set parameters.
func (m *MapParameters) Len() int { return len(m.values) }

// Reset removes every value.
func (m *MapParameters) Reset() { clear(m.values) }

func (m *MapParameters) SetI(name string, v int32)    { m.values[name] = v }
func (m *MapParameters) SetUI(name string, v uint32)  { m.values[name] = v }
func (m *MapParameters) SetF(name string, v float32)  { m.values[name] = v }
func (m *MapParameters) SetD(name string, v float64)  { m.values[name] = v }
func (m *MapParameters) SetULL(name string, v uint64) { m.values[name] = v }

func (m *MapParameters) SetResource(name string, v gpucontext.TextureView) {
	m.values[name] = v
}

func (m *MapParameters) SetVoidPointer(name string, v unsafe.Pointer) {
	m.values[name] = v
}

func (m *MapParameters) number(name string) (float64, Result) {
	switch v := m.values[name].(type) {
	case int32:
		return float64(v), ResultSuccess
	case uint32:
		return float64(v), ResultSuccess
	case float32:
		return float64(v), ResultSuccess
	case float64:
		return v, ResultSuccess
	case uint64:
		return float64(v), ResultSuccess
	}
	return 0, ResultFail
}

func (m *MapParameters) GetI(name string) (int32, Result) {
	v, res := m.number(name)
	return int32(v), res
}

func (m *MapParameters) GetUI(name string) (uint32, Result) {
	v, res := m.number(name)
	return uint32(v), res
}

func (m *MapParameters) GetF(name string) (float32, Result) {
	v, res := m.number(name)
	return float32(v), res
}

func (m *MapParameters) GetD(name string) (float64, Result) {
	return m.number(name)
}

func (m *MapParameters) GetULL(name string) (uint64, Result) {
	if v, ok := m.values[name].(uint64); ok {
		return v, ResultSuccess
	}
	v, res := m.number(name)
	return uint64(v), res
}

func (m *MapParameters) GetResource(name string) (gpucontext.TextureView, Result) {
	v, ok := m.values[name].(gpucontext.TextureView)
	if !ok {
		return gpucontext.TextureView{}, ResultFail
	}
	return v, ResultSuccess
}

func (m *MapParameters) GetVoidPointer(name string) (unsafe.Pointer, Result) {
	v, ok := m.values[name].(unsafe.Pointer)
	if !ok {
		return nil, ResultFail
	}
	return v, ResultSuccess
}
