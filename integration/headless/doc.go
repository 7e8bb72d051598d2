// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package headless hosts the simulation engine without a window.
//
// Provider owns a wgpu instance, adapter and device and implements
// gpucontext.DeviceProvider, so it can be passed straight to engine.New.
// Target renders frames into an offscreen texture and reads them back:
//
//	provider, err := headless.NewProvider()
//	if err != nil {
//	    // no usable adapter
//	}
//	defer provider.Release()
//
//	eng, _ := engine.New(provider, 512, 512, 25, params)
//	defer eng.Release()
//
//	target, _ := headless.NewTarget(provider, eng)
//	defer target.Release()
//
//	for range 999 {
//	    _ = target.Render(params)
//	}
//	img, _ := target.Frame(params)
//
// Frame returns the surface as painted: grid row 0 ends up at the bottom
// of the image.
//
// Backends are registered by import. Programs should import
// github.com/gogpu/wgpu/hal/allbackends for side effects.
package headless
