package magpen

import (
	"encoding/binary"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ParticleSize is the size in bytes of one particle in GPU memory:
// two vec2<f32> without padding.
const ParticleSize = 16

// originEpsilon is the distance from the field center below which the
// position-dependent velocity patterns fall back to the bare angle.
const originEpsilon = 0.001

// Particle is the state of one pendulum. There is one particle per pixel
// of the output image.
type Particle struct {
	Position [2]float32
	Velocity [2]float32
}

// CreateParticles seeds a width x height field in row-major order.
//
// Particle i sits at the center of its grid cell, mapped to
// [-scale/2, scale/2] on both axes:
//
//	u = ((col+0.5)/width - 0.5, (row+0.5)/height - 0.5) * scale
//
// This is the corner formula col/width - 0.5 shifted by half a cell. For a
// 4x4 grid at scale 1, particle 0 sits at (-0.375, -0.375). Only grids with
// odd width and height have a cell at the exact origin, so on even grids
// (every default size) the radial and tangential origin fallback is never
// taken. The initial velocity follows
// p.VelocityPattern with magnitude p.VelocityMagnitude and rotation
// p.VelocityAngle. Only width, height, scale and the three velocity fields
// influence the result, and the same inputs always produce the same bits.
func CreateParticles(width, height uint32, scale float32, p Params) []Particle {
	particles := make([]Particle, int(width)*int(height))
	if len(particles) == 0 {
		return particles
	}

	mag := float64(p.VelocityMagnitude)
	angle := float64(p.VelocityAngle)
	fw, fh := float32(width), float32(height)

	for i := range particles {
		col := uint32(i) % width
		row := uint32(i) / width
		u := [2]float32{
			((float32(col)+0.5)/fw - 0.5) * scale,
			((float32(row)+0.5)/fh - 0.5) * scale,
		}
		particles[i] = Particle{
			Position: u,
			Velocity: initialVelocity(r2.Vec{X: float64(u[0]), Y: float64(u[1])}, mag, angle, p.VelocityPattern),
		}
	}
	return particles
}

func initialVelocity(u r2.Vec, mag, angle float64, pattern VelocityPattern) [2]float32 {
	var dir r2.Vec
	switch pattern {
	case VelocityRadial:
		if r2.Norm(u) > originEpsilon {
			dir = r2.Rotate(r2.Unit(u), angle, r2.Vec{})
		} else {
			dir = fromAngle(angle)
		}
	case VelocityTangential:
		if r2.Norm(u) > originEpsilon {
			dir = r2.Rotate(r2.Unit(r2.Vec{X: -u.Y, Y: u.X}), angle, r2.Vec{})
		} else {
			dir = fromAngle(angle + math.Pi/2)
		}
	case VelocityUniform:
		dir = fromAngle(angle)
	default:
		return [2]float32{}
	}
	v := r2.Scale(mag, dir)
	return [2]float32{float32(v.X), float32(v.Y)}
}

func fromAngle(a float64) r2.Vec {
	return r2.Vec{X: math.Cos(a), Y: math.Sin(a)}
}

// ParticleBytes returns the little-endian GPU layout of particles.
func ParticleBytes(particles []Particle) []byte {
	buf := make([]byte, len(particles)*ParticleSize)
	le := binary.LittleEndian
	for i, pt := range particles {
		b := buf[i*ParticleSize:]
		le.PutUint32(b[0:], math.Float32bits(pt.Position[0]))
		le.PutUint32(b[4:], math.Float32bits(pt.Position[1]))
		le.PutUint32(b[8:], math.Float32bits(pt.Velocity[0]))
		le.PutUint32(b[12:], math.Float32bits(pt.Velocity[1]))
	}
	return buf
}

// ParticlesFromBytes decodes a GPU particle buffer. Trailing bytes that do
// not form a whole particle are ignored.
func ParticlesFromBytes(data []byte) []Particle {
	particles := make([]Particle, len(data)/ParticleSize)
	le := binary.LittleEndian
	for i := range particles {
		b := data[i*ParticleSize:]
		particles[i] = Particle{
			Position: [2]float32{
				math.Float32frombits(le.Uint32(b[0:])),
				math.Float32frombits(le.Uint32(b[4:])),
			},
			Velocity: [2]float32{
				math.Float32frombits(le.Uint32(b[8:])),
				math.Float32frombits(le.Uint32(b[12:])),
			},
		}
	}
	return particles
}
