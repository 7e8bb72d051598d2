// Package reference is a CPU implementation of the simulation engine.
//
// It follows the engine contract (seed on construction and restart, one
// update-and-shade step per frame) without a GPU, so it serves as the
// fallback backend when no adapter is available and as the oracle that
// GPU output is compared against in tests.
package reference

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/magpen"
	"github.com/gogpu/magpen/colormap"
	"github.com/gogpu/magpen/internal/kernel"
	"github.com/gogpu/magpen/internal/parallel"
)

// ErrInvalidDimensions is returned when width or height is zero.
var ErrInvalidDimensions = errors.New("reference: invalid dimensions")

// Option configures a Simulator.
type Option func(*options)

type options struct {
	workers int
	cmap    *colormap.Map
}

// WithWorkers sets the number of goroutines used per step.
// Zero or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithColorMap replaces the default twilight table.
func WithColorMap(m *colormap.Map) Option {
	return func(o *options) {
		if m != nil {
			o.cmap = m
		}
	}
}

// Simulator holds a particle field and its shaded image in host memory.
//
// Simulator is NOT safe for concurrent use.
type Simulator struct {
	width, height uint32
	scale         float32
	particles     []magpen.Particle
	img           *image.RGBA
	cmap          *colormap.Map
	pool          *parallel.WorkerPool
	steps         uint64
}

// New seeds a width x height field from params. The image starts out
// fully transparent, matching a freshly created GPU texture.
func New(width, height uint32, scale float32, params magpen.Params, opts ...Option) (*Simulator, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	o := options{cmap: colormap.Twilight()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Simulator{
		width:  width,
		height: height,
		scale:  scale,
		img:    image.NewRGBA(image.Rect(0, 0, int(width), int(height))),
		cmap:   o.cmap,
		pool:   parallel.NewWorkerPool(o.workers),
	}
	s.particles = magpen.CreateParticles(width, height, scale, params)

	magpen.Logger().Debug("reference: simulator created",
		"width", width, "height", height, "workers", s.pool.Workers())
	return s, nil
}

// Restart reseeds every particle from params. The image is kept and is
// fully overwritten by the next Step.
func (s *Simulator) Restart(params magpen.Params) {
	s.particles = magpen.CreateParticles(s.width, s.height, s.scale, params)
	magpen.Logger().Info("reference: restarted", "pattern", params.VelocityPattern)
}

// Step advances every particle once under params and shades its pixel.
// The grid size always comes from construction; params.Width and
// params.Height only reach the kernel.
func (s *Simulator) Step(params magpen.Params) {
	ring := kernel.Ring(params.N, params.R)
	w := int(s.width)

	s.pool.ForEachBand(int(s.height), func(b parallel.Band) {
		for y := b.Y0; y < b.Y1; y++ {
			row := s.img.Pix[y*s.img.Stride:]
			for x := range w {
				i := y*w + x
				p := kernel.Step(s.particles[i], params, ring)
				s.particles[i] = p
				c := kernel.Shade(p, s.cmap)
				px := row[x*4 : x*4+4 : x*4+4]
				px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A
			}
		}
	})
	s.steps++
}

// Image returns the current output image. The image is owned by the
// Simulator and changes on the next Step.
func (s *Simulator) Image() *image.RGBA {
	return s.img
}

// Particles returns a copy of the particle field in row-major order.
func (s *Simulator) Particles() []magpen.Particle {
	return append([]magpen.Particle(nil), s.particles...)
}

// Steps returns the number of completed steps.
func (s *Simulator) Steps() uint64 {
	return s.steps
}

// Width returns the grid width.
func (s *Simulator) Width() uint32 { return s.width }

// Height returns the grid height.
func (s *Simulator) Height() uint32 { return s.height }

// Close stops the worker goroutines.
func (s *Simulator) Close() {
	s.pool.Close()
}
