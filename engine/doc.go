// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package engine runs the magnetic pendulum simulation on the GPU.
//
// An Engine is built once per grid size from a gpucontext.DeviceProvider
// whose Device is a *wgpu.Device. Each frame the host records two calls
// into the same command encoder, in order:
//
//	encoder, _ := device.CreateCommandEncoder(nil)
//	_ = eng.Prepare(encoder, params)   // compute pass
//	pass, _ := encoder.BeginRenderPass(desc)
//	_ = eng.Paint(pass)                // full-surface blit
//	_ = pass.End()
//	cmd, _ := encoder.Finish()
//	_, _ = queue.Submit(cmd)
//
// The compute pass writes the output texture and the render pass samples
// it. In-order submission on one queue sequences the two; no other
// synchronization is needed.
//
// Restart reseeds the particle field without rebuilding pipelines.
// Pausing is a zero time step (see magpen.Params.Paused).
//
// # Shaders
//
// The WGSL sources are embedded and validated with naga before any device
// call. The compute workgroup is 8x8 by default and can be changed with
// WithWorkgroupSize.
package engine
