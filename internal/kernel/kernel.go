// Package kernel is the CPU rendition of the per-particle update function
// run by the compute shader.
//
// The arithmetic follows engine/shaders/simulate.wgsl step for step in
// float32, so results agree with the GPU up to transcendental rounding.
package kernel

import (
	"image/color"
	"math"

	"github.com/gogpu/magpen"
	"github.com/gogpu/magpen/colormap"
)

// Ring returns the n attractor positions spaced evenly on a circle of
// radius r, starting on the positive x axis.
func Ring(n uint32, r float32) [][2]float32 {
	ring := make([][2]float32, n)
	for k := range ring {
		theta := 2 * math.Pi * float32(k) / float32(n)
		ring[k] = [2]float32{
			r * float32(math.Cos(float64(theta))),
			r * float32(math.Sin(float64(theta))),
		}
	}
	return ring
}

// Step advances one particle by dt.
//
// The acceleration is -c*u - mu*v plus, for each attractor m,
// (m-u) / (|m-u|^2 + d^2). Velocity is updated first and the new velocity
// moves the position. A zero dt leaves the particle unchanged as long as
// the acceleration is finite.
func Step(p magpen.Particle, params magpen.Params, ring [][2]float32) magpen.Particle {
	ux, uy := p.Position[0], p.Position[1]
	vx, vy := p.Velocity[0], p.Velocity[1]

	ax := -params.C*ux - params.Mu*vx
	ay := -params.C*uy - params.Mu*vy

	d2 := params.D * params.D
	for _, m := range ring {
		dx := m[0] - ux
		dy := m[1] - uy
		inv := 1 / (dx*dx + dy*dy + d2)
		ax += dx * inv
		ay += dy * inv
	}

	vx += ax * params.Dt
	vy += ay * params.Dt
	ux += vx * params.Dt
	uy += vy * params.Dt

	return magpen.Particle{
		Position: [2]float32{ux, uy},
		Velocity: [2]float32{vx, vy},
	}
}

// Observable maps a particle to the color map coordinate: the polar angle
// of its position normalized to [0,1]. Particles that settle on the same
// attractor end up with the same color.
func Observable(p magpen.Particle) float32 {
	a := float32(math.Atan2(float64(p.Position[1]), float64(p.Position[0])))
	return a/(2*math.Pi) + 0.5
}

// Shade returns the pixel color for p.
func Shade(p magpen.Particle, cmap *colormap.Map) color.RGBA {
	return cmap.Lookup(Observable(p)).RGBA()
}
