//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"

	"github.com/gogpu/magpen"
	"github.com/gogpu/wgpu"
)

// Prepare uploads params to the uniform buffer and records the compute
// pass that advances every particle by params.Dt and shades the output
// texture.
//
// The upload is a queue write, so it lands before the next submission.
// Call Prepare once per submitted command buffer; a second call before
// submitting overwrites the parameters seen by both passes. A zero Dt
// re-shades the current state without moving any particle.
//
// Params are passed through unchecked. params.Width and params.Height do
// not change the grid; the dispatch always covers the construction size.
func (e *Engine) Prepare(encoder *wgpu.CommandEncoder, params magpen.Params) error {
	if e.released {
		return ErrReleased
	}
	if encoder == nil {
		return ErrNilEncoder
	}
	if err := e.writeParams(params); err != nil {
		return err
	}

	pass, err := encoder.BeginComputePass(&wgpu.ComputePassDescriptor{
		Label: "magpen-simulate",
	})
	if err != nil {
		return fmt.Errorf("engine: begin compute pass: %w", err)
	}
	pass.SetPipeline(e.computePipeline)
	pass.SetBindGroup(0, e.computeBG, nil)
	x, y := e.DispatchSize()
	pass.Dispatch(x, y, 1)
	if err := pass.End(); err != nil {
		return fmt.Errorf("engine: end compute pass: %w", err)
	}

	e.stats.FramesPrepared++
	return nil
}

// Paint records the full-surface blit of the output texture into pass.
// The pass must target a view in the engine's Format. Painting before any
// Prepare draws the texture's initial contents, transparent black.
func (e *Engine) Paint(pass *wgpu.RenderPassEncoder) error {
	if e.released {
		return ErrReleased
	}
	if pass == nil {
		return ErrNilEncoder
	}
	pass.SetPipeline(e.renderPipeline)
	pass.SetBindGroup(0, e.renderBG, nil)
	pass.SetVertexBuffer(0, e.vertexBuf, 0)
	pass.Draw(quadVertexCount, 1, 0, 0)

	e.stats.FramesPainted++
	return nil
}

// DispatchSize returns the number of workgroups along x and y that cover
// the grid exactly once.
func (e *Engine) DispatchSize() (x, y uint32) {
	return ceilDiv(e.width, e.workgroupX), ceilDiv(e.height, e.workgroupY)
}

func ceilDiv(n, d uint32) uint32 {
	return (n + d - 1) / d
}
