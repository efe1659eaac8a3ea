// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package reference

// Minimum driver versions reported through the capability parameters.
const (
	MinDriverSuperResolution   = 531
	MinDriverRayReconstruction = 545
)

// Option configures a Backend.
type Option func(*options)

type options struct {
	driverMajor       uint32
	driverMinor       uint32
	superResolution   bool
	rayReconstruction bool
}

func defaultOptions() options {
	return options{
		driverMajor:       MinDriverRayReconstruction,
		superResolution:   true,
		rayReconstruction: true,
	}
}

// WithDriverVersion sets the driver version the backend reports. Features
// whose minimum version is not met are reported unavailable and flagged as
// needing a driver update.
func WithDriverVersion(major, minor uint32) Option {
	return func(o *options) {
		o.driverMajor = major
		o.driverMinor = minor
	}
}

// WithoutRayReconstruction reports ray reconstruction as unsupported.
func WithoutRayReconstruction() Option {
	return func(o *options) {
		o.rayReconstruction = false
	}
}
