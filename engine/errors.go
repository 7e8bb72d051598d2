// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import "errors"

// Errors returned by Engine construction and frame calls.
var (
	// ErrNilProvider is returned when a nil DeviceProvider is passed to New.
	ErrNilProvider = errors.New("engine: nil DeviceProvider")

	// ErrInvalidDimensions is returned when width or height is zero.
	ErrInvalidDimensions = errors.New("engine: invalid dimensions")

	// ErrShaderCompilation is returned when an embedded shader fails to
	// parse or validate.
	ErrShaderCompilation = errors.New("engine: shader compilation failed")

	// ErrNotWGPUDevice is returned when the provider's device is not a
	// *wgpu.Device or has no queue.
	ErrNotWGPUDevice = errors.New("engine: device is not a *wgpu.Device")

	// ErrReleased is returned by calls on an Engine after Release.
	ErrReleased = errors.New("engine: released")

	// ErrNilEncoder is returned when Prepare or Paint receives a nil
	// encoder or render pass.
	ErrNilEncoder = errors.New("engine: nil encoder")
)
