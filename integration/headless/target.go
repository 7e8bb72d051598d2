//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/magpen"
	"github.com/gogpu/magpen/engine"
	"github.com/gogpu/wgpu"
)

// Target errors.
var (
	// ErrNilProvider is returned when NewTarget receives a nil provider.
	ErrNilProvider = errors.New("headless: nil DeviceProvider")

	// ErrNilEngine is returned when NewTarget receives a nil engine.
	ErrNilEngine = errors.New("headless: nil engine")

	// ErrUnsupportedFormat is returned when the engine paints into a
	// format that cannot be read back as RGBA.
	ErrUnsupportedFormat = errors.New("headless: unsupported target format")

	// ErrTargetReleased is returned by calls on a released Target.
	ErrTargetReleased = errors.New("headless: target released")
)

// DefaultReadbackTimeout bounds how long Frame waits for the GPU.
const DefaultReadbackTimeout = 5 * time.Second

// copyRowAlignment is the required BytesPerRow alignment of
// texture-to-buffer copies.
const copyRowAlignment = 256

const bytesPerPixel = 4

// Target is an offscreen surface the size of the engine grid. Each frame
// records Prepare and Paint into one command buffer and submits it once.
//
// Target is NOT safe for concurrent use.
type Target struct {
	device  *wgpu.Device
	queue   *wgpu.Queue
	eng     *engine.Engine
	format  gputypes.TextureFormat
	texture *wgpu.Texture
	view    *wgpu.TextureView
	staging *wgpu.Buffer

	width, height uint32
	bytesPerRow   uint32
	clear         gputypes.Color
	frames        uint64
	released      bool
}

// NewTarget creates the color target and readback buffer for eng.
// provider must be the one eng was built from.
func NewTarget(provider gpucontext.DeviceProvider, eng *engine.Engine) (*Target, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if eng == nil {
		return nil, ErrNilEngine
	}
	device, ok := provider.Device().(*wgpu.Device)
	if !ok || device == nil || device.Queue() == nil {
		return nil, fmt.Errorf("%w: device is %T", ErrNoAdapter, provider.Device())
	}
	format := eng.Format()
	if format != gputypes.TextureFormatRGBA8Unorm && format != gputypes.TextureFormatBGRA8Unorm {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}

	t := &Target{
		device:      device,
		queue:       device.Queue(),
		eng:         eng,
		format:      format,
		width:       eng.Width(),
		height:      eng.Height(),
		bytesPerRow: alignUp(eng.Width()*bytesPerPixel, copyRowAlignment),
	}
	if err := t.init(); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

func (t *Target) init() error {
	var err error
	t.texture, err = t.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "magpen-target",
		Size: wgpu.Extent3D{
			Width:              t.width,
			Height:             t.height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        t.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("headless: create target texture: %w", err)
	}
	t.view, err = t.device.CreateTextureView(t.texture, nil)
	if err != nil {
		return fmt.Errorf("headless: create target view: %w", err)
	}
	t.staging, err = t.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "magpen-readback",
		Size:  t.stagingSize(),
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return fmt.Errorf("headless: create readback buffer: %w", err)
	}
	return nil
}

func (t *Target) stagingSize() uint64 {
	return uint64(t.bytesPerRow) * uint64(t.height)
}

// SetClearColor sets the color the render pass clears to before Paint.
// The default is transparent black.
func (t *Target) SetClearColor(c gputypes.Color) {
	t.clear = c
}

// Frames returns the number of submitted frames.
func (t *Target) Frames() uint64 { return t.frames }

// Render submits one frame without reading it back.
func (t *Target) Render(params magpen.Params) error {
	return t.submit(params, false)
}

// Frame submits one frame and returns the painted surface.
// It waits at most DefaultReadbackTimeout for the GPU.
func (t *Target) Frame(params magpen.Params) (*image.RGBA, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultReadbackTimeout)
	defer cancel()
	return t.FrameContext(ctx, params)
}

// FrameContext is like Frame but waits for the readback until ctx is done.
func (t *Target) FrameContext(ctx context.Context, params magpen.Params) (*image.RGBA, error) {
	if err := t.submit(params, true); err != nil {
		return nil, err
	}
	return t.readback(ctx)
}

// submit records Prepare, a render pass with Paint and, when copyOut is
// set, the copy into the readback buffer, then submits the command buffer.
func (t *Target) submit(params magpen.Params, copyOut bool) error {
	if t.released {
		return ErrTargetReleased
	}

	encoder, err := t.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: "magpen-frame",
	})
	if err != nil {
		return fmt.Errorf("headless: create encoder: %w", err)
	}
	if err := t.eng.Prepare(encoder, params); err != nil {
		encoder.DiscardEncoding()
		return err
	}

	pass, err := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "magpen-paint",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       t.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: t.clear,
		}},
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("headless: begin render pass: %w", err)
	}
	if err := t.eng.Paint(pass); err != nil {
		_ = pass.End()
		encoder.DiscardEncoding()
		return err
	}
	if err := pass.End(); err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("headless: end render pass: %w", err)
	}

	if copyOut {
		encoder.CopyTextureToBuffer(t.texture, t.staging, []wgpu.BufferTextureCopy{{
			BufferLayout: wgpu.ImageDataLayout{
				BytesPerRow:  t.bytesPerRow,
				RowsPerImage: t.height,
			},
			TextureBase: wgpu.ImageCopyTexture{Texture: t.texture},
			Size: wgpu.Extent3D{
				Width:              t.width,
				Height:             t.height,
				DepthOrArrayLayers: 1,
			},
		}})
	}

	cmd, err := encoder.Finish()
	if err != nil {
		return fmt.Errorf("headless: finish encoder: %w", err)
	}
	if _, err := t.queue.Submit(cmd); err != nil {
		return fmt.Errorf("headless: submit: %w", err)
	}
	t.frames++
	return nil
}

// readback maps the staging buffer and converts its padded rows into an
// RGBA image.
func (t *Target) readback(ctx context.Context) (*image.RGBA, error) {
	size := t.stagingSize()
	if err := t.staging.Map(ctx, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("headless: map readback buffer: %w", err)
	}
	rng, err := t.staging.MappedRange(0, size)
	if err != nil {
		_ = t.staging.Unmap()
		return nil, fmt.Errorf("headless: mapped range: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(t.width), int(t.height)))
	unpackRows(img, rng.Bytes(), t.bytesPerRow, t.format == gputypes.TextureFormatBGRA8Unorm)
	rng.Release()

	if err := t.staging.Unmap(); err != nil {
		return nil, fmt.Errorf("headless: unmap readback buffer: %w", err)
	}
	return img, nil
}

// unpackRows copies rows of stride bytes from src into img, swapping red
// and blue when bgra is set.
func unpackRows(img *image.RGBA, src []byte, stride uint32, bgra bool) {
	rowBytes := img.Rect.Dx() * bytesPerPixel
	for y := range img.Rect.Dy() {
		off := y * int(stride)
		if off+rowBytes > len(src) {
			return
		}
		dst := img.Pix[y*img.Stride : y*img.Stride+rowBytes]
		copy(dst, src[off:off+rowBytes])
		if bgra {
			for i := 0; i < len(dst); i += bytesPerPixel {
				dst[i], dst[i+2] = dst[i+2], dst[i]
			}
		}
	}
}

// Release destroys the target texture and readback buffer. The engine is
// not released. Release is idempotent.
func (t *Target) Release() {
	if t.released {
		return
	}
	t.released = true
	if t.staging != nil {
		t.staging.Release()
		t.staging = nil
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

func alignUp(n, a uint32) uint32 {
	return (n + a - 1) / a * a
}
