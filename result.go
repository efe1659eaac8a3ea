// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dlss

import (
	"errors"
	"strings"
)

// Result is the status code every dlss operation reports.
//
// Result implements error so operations can return it directly; a nil
// error means ResultSuccess. Use errors.Is or ResultOf to inspect it:
//
//	if errors.Is(err, dlss.ResultContextNotFound) { ... }
type Result int32

// Result codes. The numeric values are stable.
const (
	ResultSuccess              Result = 0
	ResultNotInitialized       Result = -1
	ResultFeatureNotSupported  Result = -2
	ResultInvalidParameter     Result = -3
	ResultOutOfMemory          Result = -4
	ResultContextNotFound      Result = -5
	ResultContextAlreadyExists Result = -6
	ResultDriverOutOfDate      Result = -7
	ResultPlatformError        Result = -8
	ResultBackendError         Result = -9
)

// String returns the display name of the result.
func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "Success"
	case ResultNotInitialized:
		return "Not initialized"
	case ResultFeatureNotSupported:
		return "Feature not supported"
	case ResultInvalidParameter:
		return "Invalid parameter"
	case ResultOutOfMemory:
		return "Out of memory"
	case ResultContextNotFound:
		return "Context not found"
	case ResultContextAlreadyExists:
		return "Context already exists"
	case ResultDriverOutOfDate:
		return "Driver out of date"
	case ResultPlatformError:
		return "Platform error"
	case ResultBackendError:
		return "Backend error"
	}
	return "Unknown error"
}

// Error implements error.
func (r Result) Error() string {
	return "dlss: " + strings.ToLower(r.String())
}

// Err returns nil for ResultSuccess and r otherwise.
func (r Result) Err() error {
	if r == ResultSuccess {
		return nil
	}
	return r
}

// ResultOf maps an error returned by this package back to its Result.
// Errors that carry no Result map to ResultPlatformError.
func ResultOf(err error) Result {
	if err == nil {
		return ResultSuccess
	}
	var r Result
	if errors.As(err, &r) {
		return r
	}
	return ResultPlatformError
}

// Construction errors.
var (
	// ErrNilHost is returned by NewManager when the host is nil.
	ErrNilHost = errors.New("dlss: nil host")

	// ErrNilBackend is returned by NewManager when the backend is nil.
	ErrNilBackend = errors.New("dlss: nil backend")

	// ErrNilDevice is returned by NewManager when the host has no device.
	ErrNilDevice = errors.New("dlss: host has no device")

	// ErrDeviceInUse is returned by NewManager when another open manager
	// already owns the host's device.
	ErrDeviceInUse = errors.New("dlss: device already owned by another manager")

	// ErrManagerClosed is returned by operations on a closed manager.
	ErrManagerClosed = errors.New("dlss: manager closed")

	// ErrNoFreeFeatureHandle is returned when every deferred-path feature
	// handle slot is in use.
	ErrNoFreeFeatureHandle = errors.New("dlss: no free feature handle")
)
