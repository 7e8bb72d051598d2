//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/magpen"
	"github.com/gogpu/wgpu"
)

// computeLayoutEntries describes group 0 of the compute pipeline:
// params, particles, output texture and color map. The uniform is also
// visible to the render stages.
func computeLayoutEntries() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageCompute | wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: &gputypes.BufferBindingLayout{
				Type:           gputypes.BufferBindingTypeUniform,
				MinBindingSize: magpen.ParamsSize,
			},
		},
		{
			Binding:    1,
			Visibility: wgpu.ShaderStageCompute,
			Buffer: &gputypes.BufferBindingLayout{
				Type:           gputypes.BufferBindingTypeStorage,
				MinBindingSize: magpen.ParticleSize,
			},
		},
		{
			Binding:    2,
			Visibility: wgpu.ShaderStageCompute,
			StorageTexture: &gputypes.StorageTextureBindingLayout{
				Access:        gputypes.StorageTextureAccessWriteOnly,
				Format:        gputypes.TextureFormatRGBA8Unorm,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    3,
			Visibility: wgpu.ShaderStageCompute,
			Buffer: &gputypes.BufferBindingLayout{
				Type: gputypes.BufferBindingTypeReadOnlyStorage,
			},
		},
	}
}

// renderLayoutEntries describes group 0 of the render pipeline: the
// sampled output texture and its sampler.
func renderLayoutEntries() []wgpu.BindGroupLayoutEntry {
	return []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    1,
			Visibility: wgpu.ShaderStageFragment,
			Sampler: &gputypes.SamplerBindingLayout{
				Type: gputypes.SamplerBindingTypeFiltering,
			},
		},
	}
}

// quadLayout is the vertex buffer layout of the full-surface quad.
func quadLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: quadVertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
		},
	}
}

// createPipelines builds both shader modules, both bind group layouts and
// the compute and render pipelines.
func (e *Engine) createPipelines(simulateSrc, blitSrc string) error {
	var err error

	e.simulateShader, err = e.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "magpen-simulate",
		WGSL:  simulateSrc,
	})
	if err != nil {
		return fmt.Errorf("%w: simulate: %w", ErrShaderCompilation, err)
	}
	e.blitShader, err = e.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "magpen-blit",
		WGSL:  blitSrc,
	})
	if err != nil {
		return fmt.Errorf("%w: blit: %w", ErrShaderCompilation, err)
	}

	e.computeBGL, err = e.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "magpen-compute-bgl",
		Entries: computeLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("engine: create compute bind group layout: %w", err)
	}
	e.renderBGL, err = e.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "magpen-render-bgl",
		Entries: renderLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("engine: create render bind group layout: %w", err)
	}

	e.computeLayout, err = e.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "magpen-compute-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{e.computeBGL},
	})
	if err != nil {
		return fmt.Errorf("engine: create compute pipeline layout: %w", err)
	}
	e.renderLayout, err = e.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "magpen-render-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{e.renderBGL},
	})
	if err != nil {
		return fmt.Errorf("engine: create render pipeline layout: %w", err)
	}

	e.computePipeline, err = e.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:      "magpen-simulate",
		Layout:     e.computeLayout,
		Module:     e.simulateShader,
		EntryPoint: computeEntryPoint,
	})
	if err != nil {
		return fmt.Errorf("engine: create compute pipeline: %w", err)
	}
	slogger().Debug("engine: compute pipeline created",
		"workgroup", [2]uint32{e.workgroupX, e.workgroupY})

	blend := gputypes.BlendStateReplace()
	e.renderPipeline, err = e.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "magpen-blit",
		Layout: e.renderLayout,
		Vertex: wgpu.VertexState{
			Module:     e.blitShader,
			EntryPoint: vertexEntryPoint,
			Buffers:    []wgpu.VertexBufferLayout{quadLayout()},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleStrip,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &wgpu.FragmentState{
			Module:     e.blitShader,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    e.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("engine: create render pipeline: %w", err)
	}
	slogger().Debug("engine: render pipeline created", "format", e.format)
	return nil
}

// createBindGroups builds the compute and render bind groups over the
// current resources.
func (e *Engine) createBindGroups() error {
	var err error
	e.computeBG, err = e.newComputeBindGroup(e.particleBuf)
	if err != nil {
		return err
	}
	e.renderBG, err = e.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "magpen-render-bg",
		Layout: e.renderBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: e.outputView},
			{Binding: 1, Sampler: e.sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("engine: create render bind group: %w", err)
	}
	return nil
}

// newComputeBindGroup wires particles together with the long-lived
// uniform, texture and color map resources.
func (e *Engine) newComputeBindGroup(particles *wgpu.Buffer) (*wgpu.BindGroup, error) {
	bg, err := e.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "magpen-compute-bg",
		Layout: e.computeBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: e.paramsBuf, Size: magpen.ParamsSize},
			{Binding: 1, Buffer: particles, Size: particles.Size()},
			{Binding: 2, TextureView: e.outputView},
			{Binding: 3, Buffer: e.colormapBuf, Size: e.colormapBuf.Size()},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("engine: create compute bind group: %w", err)
	}
	return bg, nil
}
