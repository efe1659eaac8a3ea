// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides a frame-oriented host for dlss over a
// gogpu/wgpu HAL device.
//
// # Key Principle
//
// dlss RECEIVES a GPU device from the host application, it does NOT create
// its own. Device is that host: it owns the HAL device and queue, reports
// the command list being recorded, and runs plugin events at the end of the
// frame.
//
// # Usage
//
//	dev, _ := render.OpenNoop()
//	defer dev.Close()
//
//	mgr, _ := dlss.NewManager(dev, reference.New())
//	defer mgr.Close()
//	_ = mgr.Initialize(dlss.InitParams{ProjectID: "demo"})
//
//	_ = dev.BeginFrame()
//	_ = mgr.CreateContext(0, params)
//	dev.IssuePluginEvent(mgr.RenderEventFunc(), dlss.RenderEventID)
//	_ = dev.EndFrame()
//
// Outside BeginFrame and EndFrame, dlss records feature creation into a
// one-shot list from BeginOneShot.
package render
