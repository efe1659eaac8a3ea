// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package reference

import (
	"github.com/gogpu/dlss/backend"
	"github.com/gogpu/dlss/ngx"
)

func init() {
	backend.Register(backend.BackendReference, func() ngx.Backend {
		return New()
	})
}
