package main

import (
	"errors"
	"image"
	"log/slog"

	"github.com/gogpu/magpen"
	"github.com/gogpu/magpen/internal/config"
	"github.com/gogpu/magpen/reference"
)

// backend runs frames of one simulation and hands back the painted surface.
type backend interface {
	Name() string
	Step(params magpen.Params) error
	Restart(params magpen.Params) error
	// Snapshot paints the current state with params paused and returns
	// the surface with its first row at the top of the screen.
	Snapshot(params magpen.Params) (*image.RGBA, error)
	Close()
}

var errNoGPU = errors.New("gpu backend not built (nogpu)")

// newBackend builds the configured backend. The gpu backend falls back to
// the cpu one when no hardware adapter can be opened; the software adapter
// registered by hal/allbackends does not count.
func newBackend(cfg *config.Config, params magpen.Params, gpuBackends string) (backend, error) {
	if cfg.Backend == config.BackendGPU {
		b, err := newGPUBackend(cfg, params, gpuBackends)
		if err == nil {
			return b, nil
		}
		magpen.Logger().Warn("gpu backend unavailable, falling back to cpu", slog.Any("err", err))
	}
	return newCPUBackend(cfg, params)
}

type cpuBackend struct {
	sim *reference.Simulator
}

func newCPUBackend(cfg *config.Config, params magpen.Params) (*cpuBackend, error) {
	sim, err := reference.New(cfg.Width, cfg.Height, cfg.Scale, params)
	if err != nil {
		return nil, err
	}
	return &cpuBackend{sim: sim}, nil
}

func (b *cpuBackend) Name() string { return config.BackendCPU }

func (b *cpuBackend) Step(params magpen.Params) error {
	b.sim.Step(params)
	return nil
}

func (b *cpuBackend) Restart(params magpen.Params) error {
	b.sim.Restart(params)
	return nil
}

func (b *cpuBackend) Snapshot(params magpen.Params) (*image.RGBA, error) {
	b.sim.Step(params.Paused())
	return flipRows(b.sim.Image()), nil
}

func (b *cpuBackend) Close() { b.sim.Close() }

// flipRows returns a copy of img upside down. The GPU quad puts grid row 0
// at the bottom of the surface.
func flipRows(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Rect)
	h := img.Rect.Dy()
	n := img.Rect.Dx() * 4
	for y := range h {
		copy(out.Pix[(h-1-y)*out.Stride:][:n], img.Pix[y*img.Stride:][:n])
	}
	return out
}
