//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/magpen"
	"github.com/gogpu/wgpu"
)

// quadVertices is the full-surface quad as a 4-vertex triangle strip.
// Each vertex is a clip-space position followed by a texture coordinate.
var quadVertices = [4][4]float32{
	{-1, -1, 0, 0},
	{1, -1, 1, 0},
	{-1, 1, 0, 1},
	{1, 1, 1, 1},
}

const (
	quadVertexStride = 16
	quadVertexCount  = 4
	quadSize         = quadVertexStride * quadVertexCount
)

func quadBytes() []byte {
	b := make([]byte, 0, quadSize)
	for _, v := range quadVertices {
		for _, f := range v {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
		}
	}
	return b
}

// createResources allocates the buffers, output texture and sampler and
// fills the buffers with queue writes.
func (e *Engine) createResources(params magpen.Params) error {
	var err error

	e.paramsBuf, err = e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "magpen-params",
		Size:  magpen.ParamsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("engine: create params buffer: %w", err)
	}
	if err := e.writeParams(params); err != nil {
		return err
	}

	e.particleBuf, err = e.createParticleBuffer(params)
	if err != nil {
		return err
	}

	cmapBytes := e.cmap.Bytes()
	e.colormapBuf, err = e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "magpen-colormap",
		Size:  uint64(len(cmapBytes)),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("engine: create colormap buffer: %w", err)
	}
	if err := e.queue.WriteBuffer(e.colormapBuf, 0, cmapBytes); err != nil {
		return fmt.Errorf("engine: write colormap buffer: %w", err)
	}

	e.vertexBuf, err = e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "magpen-quad",
		Size:  quadSize,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("engine: create vertex buffer: %w", err)
	}
	if err := e.queue.WriteBuffer(e.vertexBuf, 0, quadBytes()); err != nil {
		return fmt.Errorf("engine: write vertex buffer: %w", err)
	}

	e.outputTex, err = e.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "magpen-output",
		Size: wgpu.Extent3D{
			Width:              e.width,
			Height:             e.height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageStorageBinding | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("engine: create output texture: %w", err)
	}
	e.outputView, err = e.device.CreateTextureView(e.outputTex, nil)
	if err != nil {
		return fmt.Errorf("engine: create output view: %w", err)
	}

	e.sampler, err = e.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        "magpen-sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
		LodMaxClamp:  32,
		Anisotropy:   1,
	})
	if err != nil {
		return fmt.Errorf("engine: create sampler: %w", err)
	}

	slogger().Debug("engine: resources created",
		"particles", uint64(e.width)*uint64(e.height),
		"particleBytes", e.particleBuf.Size(),
		"colormapEntries", e.cmap.Len())
	return nil
}

// createParticleBuffer allocates a storage buffer for the grid and fills it
// with the seeded field.
func (e *Engine) createParticleBuffer(params magpen.Params) (*wgpu.Buffer, error) {
	data := magpen.ParticleBytes(magpen.CreateParticles(e.width, e.height, e.scale, params))
	buf, err := e.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "magpen-particles",
		Size:  uint64(len(data)),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("engine: create particle buffer: %w", err)
	}
	if err := e.queue.WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return nil, fmt.Errorf("engine: write particle buffer: %w", err)
	}
	return buf, nil
}

// writeParams uploads the full parameter block to the uniform buffer.
func (e *Engine) writeParams(params magpen.Params) error {
	b, err := params.AppendBinary(e.paramBytes[:0])
	if err != nil {
		return fmt.Errorf("engine: encode params: %w", err)
	}
	e.paramBytes = b
	if err := e.queue.WriteBuffer(e.paramsBuf, 0, b); err != nil {
		return fmt.Errorf("engine: write params buffer: %w", err)
	}
	return nil
}

func (e *Engine) releaseResources() {
	if e.sampler != nil {
		e.sampler.Release()
		e.sampler = nil
	}
	if e.outputView != nil {
		e.outputView.Release()
		e.outputView = nil
	}
	if e.outputTex != nil {
		e.outputTex.Release()
		e.outputTex = nil
	}
	if e.vertexBuf != nil {
		e.vertexBuf.Release()
		e.vertexBuf = nil
	}
	if e.colormapBuf != nil {
		e.colormapBuf.Release()
		e.colormapBuf = nil
	}
	if e.particleBuf != nil {
		e.particleBuf.Release()
		e.particleBuf = nil
	}
	if e.paramsBuf != nil {
		e.paramsBuf.Release()
		e.paramsBuf = nil
	}
}
