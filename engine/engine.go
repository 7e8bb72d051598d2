//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/magpen"
	"github.com/gogpu/magpen/colormap"
	"github.com/gogpu/wgpu"
)

// Stats counts frame and restart calls on an Engine.
type Stats struct {
	FramesPrepared uint64
	FramesPainted  uint64
	Restarts       uint64
}

// Engine owns every GPU resource of one simulation: the uniform, particle,
// color map and vertex buffers, the output texture, both bind groups and
// both pipelines. The host only ever holds the Engine itself.
//
// Engine is NOT safe for concurrent use. All calls must come from the
// goroutine that records and submits frames.
type Engine struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	width, height uint32
	scale         float32
	format        gputypes.TextureFormat
	workgroupX    uint32
	workgroupY    uint32
	cmap          *colormap.Map

	paramsBuf   *wgpu.Buffer
	particleBuf *wgpu.Buffer
	colormapBuf *wgpu.Buffer
	vertexBuf   *wgpu.Buffer
	outputTex   *wgpu.Texture
	outputView  *wgpu.TextureView
	sampler     *wgpu.Sampler

	simulateShader  *wgpu.ShaderModule
	blitShader      *wgpu.ShaderModule
	computeBGL      *wgpu.BindGroupLayout
	renderBGL       *wgpu.BindGroupLayout
	computeLayout   *wgpu.PipelineLayout
	renderLayout    *wgpu.PipelineLayout
	computePipeline *wgpu.ComputePipeline
	renderPipeline  *wgpu.RenderPipeline
	computeBG       *wgpu.BindGroup
	renderBG        *wgpu.BindGroup

	paramBytes []byte
	stats      Stats
	released   bool
}

// New builds an Engine for a width x height particle grid that spans
// scale units in each direction, seeded from params.
//
// The provider's Device must be a *wgpu.Device. Both shaders are
// validated before any device call. Buffers are filled with queue writes;
// no command buffer is submitted. On failure every resource created so far
// is released and no Engine is returned.
func New(provider gpucontext.DeviceProvider, width, height uint32, scale float32, params magpen.Params, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	simulateSrc, blitSrc, err := validateShaders(o.workgroupX, o.workgroupY)
	if err != nil {
		return nil, err
	}

	device, ok := provider.Device().(*wgpu.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: got %T", ErrNotWGPUDevice, provider.Device())
	}
	queue := device.Queue()
	if queue == nil {
		return nil, fmt.Errorf("%w: device has no queue", ErrNotWGPUDevice)
	}

	format := o.surfaceFormat
	if format == gputypes.TextureFormatUndefined {
		format = provider.SurfaceFormat()
	}
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}

	e := &Engine{
		device:     device,
		queue:      queue,
		width:      width,
		height:     height,
		scale:      scale,
		format:     format,
		workgroupX: o.workgroupX,
		workgroupY: o.workgroupY,
		cmap:       o.cmap,
		paramBytes: make([]byte, 0, magpen.ParamsSize),
	}

	if err := e.init(params, simulateSrc, blitSrc); err != nil {
		e.Release()
		return nil, err
	}

	slogger().Info("engine: created",
		"width", width, "height", height, "scale", scale,
		"format", format, "workgroup", [2]uint32{o.workgroupX, o.workgroupY})
	return e, nil
}

func (e *Engine) init(params magpen.Params, simulateSrc, blitSrc string) error {
	if err := e.createResources(params); err != nil {
		return err
	}
	if err := e.createPipelines(simulateSrc, blitSrc); err != nil {
		return err
	}
	return e.createBindGroups()
}

// Width returns the grid width fixed at construction.
func (e *Engine) Width() uint32 { return e.width }

// Height returns the grid height fixed at construction.
func (e *Engine) Height() uint32 { return e.height }

// Scale returns the seeding scale fixed at construction.
func (e *Engine) Scale() float32 { return e.scale }

// Format returns the color target format of the render pipeline.
func (e *Engine) Format() gputypes.TextureFormat { return e.format }

// OutputView returns the view of the output texture the compute pass
// writes and Paint samples. The view is owned by the Engine.
func (e *Engine) OutputView() *wgpu.TextureView { return e.outputView }

// Stats returns the call counters.
func (e *Engine) Stats() Stats { return e.stats }

// Release destroys every GPU resource in reverse creation order.
// Release is safe to call more than once and on a partially built Engine.
func (e *Engine) Release() {
	if e.released {
		return
	}
	e.released = true

	if e.renderBG != nil {
		e.renderBG.Release()
		e.renderBG = nil
	}
	if e.computeBG != nil {
		e.computeBG.Release()
		e.computeBG = nil
	}
	if e.renderPipeline != nil {
		e.renderPipeline.Release()
		e.renderPipeline = nil
	}
	if e.computePipeline != nil {
		e.computePipeline.Release()
		e.computePipeline = nil
	}
	if e.renderLayout != nil {
		e.renderLayout.Release()
		e.renderLayout = nil
	}
	if e.computeLayout != nil {
		e.computeLayout.Release()
		e.computeLayout = nil
	}
	if e.renderBGL != nil {
		e.renderBGL.Release()
		e.renderBGL = nil
	}
	if e.computeBGL != nil {
		e.computeBGL.Release()
		e.computeBGL = nil
	}
	if e.blitShader != nil {
		e.blitShader.Release()
		e.blitShader = nil
	}
	if e.simulateShader != nil {
		e.simulateShader.Release()
		e.simulateShader = nil
	}
	e.releaseResources()

	slogger().Debug("engine: released")
}
