// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/magpen/colormap"
)

// Default compute workgroup dimensions.
const (
	DefaultWorkgroupX = 8
	DefaultWorkgroupY = 8
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	surfaceFormat gputypes.TextureFormat
	cmap          *colormap.Map
	workgroupX    uint32
	workgroupY    uint32
}

func defaultOptions() options {
	return options{
		surfaceFormat: gputypes.TextureFormatUndefined,
		cmap:          colormap.Twilight(),
		workgroupX:    DefaultWorkgroupX,
		workgroupY:    DefaultWorkgroupY,
	}
}

// WithSurfaceFormat sets the color target format of the render pipeline,
// overriding the provider's SurfaceFormat.
func WithSurfaceFormat(format gputypes.TextureFormat) Option {
	return func(o *options) {
		o.surfaceFormat = format
	}
}

// WithColorMap replaces the default twilight color map.
// A nil map is ignored.
func WithColorMap(m *colormap.Map) Option {
	return func(o *options) {
		if m != nil {
			o.cmap = m
		}
	}
}

// WithWorkgroupSize sets the compute workgroup dimensions. Zero values
// keep the defaults. The device rejects sizes above its limits at
// pipeline creation.
func WithWorkgroupSize(x, y uint32) Option {
	return func(o *options) {
		if x > 0 {
			o.workgroupX = x
		}
		if y > 0 {
			o.workgroupY = y
		}
	}
}
