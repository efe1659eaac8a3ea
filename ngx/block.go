// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ngx

import (
	"unsafe"

	"github.com/gogpu/gpucontext"
)

// ParameterBlock is a typed named-parameter store backed by exactly one
// native parameter object.
//
// Blocks come from Allocate, which the caller owns, or from Capability,
// which returns the backend-owned capability object. Release destroys
// allocated blocks and only detaches capability blocks.
//
// Matrices are not a native parameter kind. They are passed as a pointer to
// 16 column-major float32 values with SetPointer, and the pointed-to memory
// must stay valid until the backend call that consumes it returns.
type ParameterBlock struct {
	backend Backend
	native  Parameters
	owned   bool
}

// Allocate creates a caller-owned block.
func Allocate(b Backend) (*ParameterBlock, Result) {
	p, res := b.AllocateParameters()
	if res.Failed() {
		return nil, res
	}
	return &ParameterBlock{backend: b, native: p, owned: true}, ResultSuccess
}

// Capability wraps the backend's capability parameter object.
func Capability(b Backend) (*ParameterBlock, Result) {
	p, res := b.GetCapabilityParameters()
	if res.Failed() {
		return nil, res
	}
	return &ParameterBlock{backend: b, native: p}, ResultSuccess
}

// Native returns the underlying parameter object, or nil after Release.
func (pb *ParameterBlock) Native() Parameters {
	if pb == nil {
		return nil
	}
	return pb.native
}

// Owned reports whether Release destroys the native object.
func (pb *ParameterBlock) Owned() bool {
	return pb != nil && pb.owned
}

// Release destroys an allocated block. It is safe to call more than once.
func (pb *ParameterBlock) Release() Result {
	if pb == nil || pb.native == nil {
		return ResultSuccess
	}
	native := pb.native
	pb.native = nil
	if !pb.owned {
		return ResultSuccess
	}
	return pb.backend.DestroyParameters(native)
}

func (pb *ParameterBlock) usable(name string) bool {
	return pb != nil && pb.native != nil && name != ""
}

// SetInt sets a signed 32-bit value.
func (pb *ParameterBlock) SetInt(name string, v int32) {
	if pb.usable(name) {
		pb.native.SetI(name, v)
	}
}

// SetUint sets an unsigned 32-bit value.
func (pb *ParameterBlock) SetUint(name string, v uint32) {
	if pb.usable(name) {
		pb.native.SetUI(name, v)
	}
}

// SetBool sets v as an integer 0 or 1.
func (pb *ParameterBlock) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	pb.SetInt(name, i)
}

// SetFloat sets a float32 value.
func (pb *ParameterBlock) SetFloat(name string, v float32) {
	if pb.usable(name) {
		pb.native.SetF(name, v)
	}
}

// SetDouble sets a float64 value.
func (pb *ParameterBlock) SetDouble(name string, v float64) {
	if pb.usable(name) {
		pb.native.SetD(name, v)
	}
}

// SetUint64 sets an unsigned 64-bit value.
func (pb *ParameterBlock) SetUint64(name string, v uint64) {
	if pb.usable(name) {
		pb.native.SetULL(name, v)
	}
}

// SetResource sets a GPU resource reference. A nil view clears a value left
// over from an earlier call.
func (pb *ParameterBlock) SetResource(name string, v gpucontext.TextureView) {
	if pb.usable(name) {
		pb.native.SetResource(name, v)
	}
}

// SetPointer sets a raw pointer value.
func (pb *ParameterBlock) SetPointer(name string, v unsafe.Pointer) {
	if pb.usable(name) {
		pb.native.SetVoidPointer(name, v)
	}
}

// Int returns a signed 32-bit value.
func (pb *ParameterBlock) Int(name string) (int32, Result) {
	if !pb.usable(name) {
		return 0, ResultInvalidParameter
	}
	return pb.native.GetI(name)
}

// Uint returns an unsigned 32-bit value.
func (pb *ParameterBlock) Uint(name string) (uint32, Result) {
	if !pb.usable(name) {
		return 0, ResultInvalidParameter
	}
	return pb.native.GetUI(name)
}

// Float returns a float32 value.
func (pb *ParameterBlock) Float(name string) (float32, Result) {
	if !pb.usable(name) {
		return 0, ResultInvalidParameter
	}
	return pb.native.GetF(name)
}

// Double returns a float64 value.
func (pb *ParameterBlock) Double(name string) (float64, Result) {
	if !pb.usable(name) {
		return 0, ResultInvalidParameter
	}
	return pb.native.GetD(name)
}

// Uint64 returns an unsigned 64-bit value.
func (pb *ParameterBlock) Uint64(name string) (uint64, Result) {
	if !pb.usable(name) {
		return 0, ResultInvalidParameter
	}
	return pb.native.GetULL(name)
}

// Resource returns a GPU resource reference.
func (pb *ParameterBlock) Resource(name string) (gpucontext.TextureView, Result) {
	if !pb.usable(name) {
		return gpucontext.TextureView{}, ResultInvalidParameter
	}
	return pb.native.GetResource(name)
}

// Pointer returns a raw pointer value.
func (pb *ParameterBlock) Pointer(name string) (unsafe.Pointer, Result) {
	if !pb.usable(name) {
		return nil, ResultInvalidParameter
	}
	return pb.native.GetVoidPointer(name)
}
