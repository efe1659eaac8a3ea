// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Texture is a 2D texture with one full view, created by Device.
type Texture struct {
	texture hal.Texture
	view    hal.TextureView
	width   uint32
	height  uint32
	format  gputypes.TextureFormat
}

// Width returns the texture width in pixels.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() uint32 { return t.height }

// Format returns the texture pixel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// View returns the resource handle for the texture's view. The handle wraps
// a pointer to a hal.TextureView value and stays valid until DestroyTexture.
func (t *Texture) View() gpucontext.TextureView {
	if t == nil || t.view == nil {
		return gpucontext.TextureView{}
	}
	return gpucontext.NewTextureView(unsafe.Pointer(&t.view))
}

// CreateTexture creates a sampled and storage-bindable 2D texture.
func (d *Device) CreateTexture(label string, width, height uint32, format gputypes.TextureFormat) (*Texture, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("render: texture %q has zero size %dx%d", label, width, height)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageStorageBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("render: create texture %q: %w", label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           label,
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("render: create view %q: %w", label, err)
	}
	return &Texture{texture: tex, view: view, width: width, height: height, format: format}, nil
}

// DestroyTexture releases t. Views handed out by t become invalid.
func (d *Device) DestroyTexture(t *Texture) {
	if t == nil || t.texture == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.device.DestroyTextureView(t.view)
	d.device.DestroyTexture(t.texture)
	t.view = nil
	t.texture = nil
}
