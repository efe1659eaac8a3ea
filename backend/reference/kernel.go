// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package reference

import (
	_ "embed"
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/upscale.wgsl
var upscaleShaderWGSL string

// workgroupSize matches @workgroup_size in upscale.wgsl.
const workgroupSize = 8

// kernelConfig mirrors the Config uniform in upscale.wgsl.
type kernelConfig struct {
	InputWidth   uint32
	InputHeight  uint32
	OutputWidth  uint32
	OutputHeight uint32
	JitterX      float32
	JitterY      float32
	Sharpness    float32
	Reset        uint32
}

const kernelConfigSize = uint64(unsafe.Sizeof(kernelConfig{}))

var (
	spirvOnce sync.Once
	spirvCode []uint32
	spirvErr  error
)

// compileKernel compiles upscale.wgsl to SPIR-V once per process.
func compileKernel() ([]uint32, error) {
	spirvOnce.Do(func() {
		spirvBytes, err := naga.Compile(upscaleShaderWGSL)
		if err != nil {
			spirvErr = fmt.Errorf("reference: failed to compile shader: %w", err)
			return
		}

		// SPIR-V is little-endian 32-bit words
		spirvCode = make([]uint32, len(spirvBytes)/4)
		for i := range spirvCode {
			spirvCode[i] = uint32(spirvBytes[i*4]) |
				uint32(spirvBytes[i*4+1])<<8 |
				uint32(spirvBytes[i*4+2])<<16 |
				uint32(spirvBytes[i*4+3])<<24
		}
	})
	return spirvCode, spirvErr
}

// kernel holds the device objects shared by every feature.
type kernel struct {
	device     hal.Device
	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	layout     hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

func newKernel(device hal.Device) (*kernel, error) {
	code, err := compileKernel()
	if err != nil {
		return nil, err
	}

	k := &kernel{device: device}
	if err := k.init(code); err != nil {
		k.destroy()
		return nil, err
	}
	return k, nil
}

func (k *kernel) init(code []uint32) error {
	module, err := k.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "dlss_reference_shader",
		Source: hal.ShaderSource{
			SPIRV: code,
		},
	})
	if err != nil {
		return fmt.Errorf("reference: failed to create shader module: %w", err)
	}
	k.module = module

	bindLayout, err := k.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "dlss_reference_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageCompute,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: kernelConfigSize,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageCompute,
				Buffer: &gputypes.BufferBindingLayout{
					Type: gputypes.BufferBindingTypeStorage,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("reference: failed to create bind group layout: %w", err)
	}
	k.bindLayout = bindLayout

	layout, err := k.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "dlss_reference_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{k.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("reference: failed to create pipeline layout: %w", err)
	}
	k.layout = layout

	pipeline, err := k.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "dlss_reference_pipeline",
		Layout: k.layout,
		Compute: hal.ComputeState{
			Module:     k.module,
			EntryPoint: "cs_upscale",
		},
	})
	if err != nil {
		return fmt.Errorf("reference: failed to create pipeline: %w", err)
	}
	k.pipeline = pipeline
	return nil
}

// destroy releases the kernel objects in reverse creation order.
func (k *kernel) destroy() {
	if k.pipeline != nil {
		k.device.DestroyComputePipeline(k.pipeline)
	}
	if k.layout != nil {
		k.device.DestroyPipelineLayout(k.layout)
	}
	if k.bindLayout != nil {
		k.device.DestroyBindGroupLayout(k.bindLayout)
	}
	if k.module != nil {
		k.device.DestroyShaderModule(k.module)
	}
	*k = kernel{device: k.device}
}

// workgroups returns the dispatch size covering w x h output pixels.
func workgroups(w, h uint32) [3]uint32 {
	return [3]uint32{
		(w + workgroupSize - 1) / workgroupSize,
		(h + workgroupSize - 1) / workgroupSize,
		1,
	}
}
