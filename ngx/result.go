// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ngx

import "fmt"

// Result is a backend-native result code.
//
// Failure codes share the ResultFail prefix in their upper 12 bits and
// carry the specific reason in the low bits.
type Result uint32

// Native result codes.
const (
	ResultSuccess Result = 0x1
	ResultFail    Result = 0xBAD00000

	ResultFeatureNotSupported        = ResultFail | 1
	ResultPlatformError              = ResultFail | 2
	ResultFeatureAlreadyExists       = ResultFail | 3
	ResultFeatureNotFound            = ResultFail | 4
	ResultInvalidParameter           = ResultFail | 5
	ResultScratchBufferTooSmall      = ResultFail | 6
	ResultNotInitialized             = ResultFail | 7
	ResultUnsupportedInputFormat     = ResultFail | 8
	ResultRWFlagMissing              = ResultFail | 9
	ResultMissingInput               = ResultFail | 10
	ResultUnableToInitializeFeature  = ResultFail | 11
	ResultOutOfDate                  = ResultFail | 12
	ResultOutOfGPUMemory             = ResultFail | 13
	ResultUnsupportedFormat          = ResultFail | 14
	ResultUnableToWriteToAppDataPath = ResultFail | 15
	ResultUnsupportedParameter       = ResultFail | 16
	ResultDenied                     = ResultFail | 17
	ResultNotImplemented             = ResultFail | 18
)

const failMask Result = 0xFFF00000

// Failed reports whether r is a failure code.
func (r Result) Failed() bool {
	return r&failMask == ResultFail
}

// Succeeded reports whether r is not a failure code.
func (r Result) Succeeded() bool {
	return !r.Failed()
}

// String returns a short description of the code.
func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultFail:
		return "failure"
	case ResultFeatureNotSupported:
		return "feature not supported"
	case ResultPlatformError:
		return "platform error"
	case ResultFeatureAlreadyExists:
		return "feature already exists"
	case ResultFeatureNotFound:
		return "feature not found"
	case ResultInvalidParameter:
		return "invalid parameter"
	case ResultScratchBufferTooSmall:
		return "scratch buffer too small"
	case ResultNotInitialized:
		return "not initialized"
	case ResultUnsupportedInputFormat:
		return "unsupported input format"
	case ResultRWFlagMissing:
		return "read/write flag missing"
	case ResultMissingInput:
		return "missing input"
	case ResultUnableToInitializeFeature:
		return "unable to initialize feature"
	case ResultOutOfDate:
		return "driver out of date"
	case ResultOutOfGPUMemory:
		return "out of GPU memory"
	case ResultUnsupportedFormat:
		return "unsupported format"
	case ResultUnableToWriteToAppDataPath:
		return "unable to write to app data path"
	case ResultUnsupportedParameter:
		return "unsupported parameter"
	case ResultDenied:
		return "denied"
	case ResultNotImplemented:
		return "not implemented"
	}
	return fmt.Sprintf("result 0x%08X", uint32(r))
}
