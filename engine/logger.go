// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"log/slog"

	"github.com/gogpu/magpen"
)

// slogger returns the logger shared with the root package.
// All logging in engine goes through this function.
func slogger() *slog.Logger { return magpen.Logger() }

// SetLogger is a convenience alias for magpen.SetLogger so GPU hosts can
// configure logging without importing the root package.
func SetLogger(l *slog.Logger) { magpen.SetLogger(l) }
