// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package reference

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/dlss/ngx"
)

// feature is one created reconstruction feature and its device buffers.
type feature struct {
	kind    ngx.Feature
	input   [2]uint32
	output  [2]uint32
	quality int32
	flags   int32

	config  hal.Buffer
	history hal.Buffer
	bind    hal.BindGroup
	frames  uint64
}

func (f *feature) historySize() uint64 {
	return uint64(f.output[0]) * uint64(f.output[1]) * 4
}

func (f *feature) memory() uint64 {
	return kernelConfigSize + f.historySize()
}

// allocate creates the feature's buffers and bind group on device.
func (f *feature) allocate(device hal.Device, k *kernel) error {
	config, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "dlss_reference_config",
		Size:  kernelConfigSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageMapWrite,
	})
	if err != nil {
		return fmt.Errorf("reference: create config buffer: %w", err)
	}
	f.config = config

	history, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "dlss_reference_history",
		Size:  f.historySize(),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("reference: create history buffer: %w", err)
	}
	f.history = history

	bind, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "dlss_reference_bind",
		Layout: k.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: f.config.NativeHandle(), Size: kernelConfigSize,
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: f.history.NativeHandle(), Size: f.historySize(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("reference: create bind group: %w", err)
	}
	f.bind = bind
	return nil
}

// release destroys the feature's device objects.
func (f *feature) release(device hal.Device) {
	if f.bind != nil {
		device.DestroyBindGroup(f.bind)
		f.bind = nil
	}
	if f.history != nil {
		device.DestroyBuffer(f.history)
		f.history = nil
	}
	if f.config != nil {
		device.DestroyBuffer(f.config)
		f.config = nil
	}
}

// writeConfig uploads cfg into the feature's uniform buffer.
func (f *feature) writeConfig(device hal.Device, cfg kernelConfig) error {
	m, err := device.MapBuffer(f.config, 0, kernelConfigSize)
	if err != nil {
		return err
	}
	*(*kernelConfig)(m.Ptr) = cfg
	return device.UnmapBuffer(f.config)
}

// encoderOf returns the HAL encoder a command list handle refers to.
// Handles wrap a pointer to a hal.CommandEncoder interface value.
func encoderOf(cmd gpucontext.CommandEncoder) (hal.CommandEncoder, bool) {
	if cmd.IsNil() {
		return nil, false
	}
	enc := *(*hal.CommandEncoder)(cmd.Pointer())
	return enc, enc != nil
}

// requiredInputs lists the resources EvaluateFeature rejects when unset.
func requiredInputs(kind ngx.Feature) []string {
	inputs := []string{ngx.ParamColor, ngx.ParamOutput, ngx.ParamDepth, ngx.ParamMotionVectors}
	if kind == ngx.FeatureRayReconstruction {
		inputs = append(inputs, ngx.ParamDiffuseAlbedo, ngx.ParamSpecularAlbedo, ngx.ParamNormals)
	}
	return inputs
}
