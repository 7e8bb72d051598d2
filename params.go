package magpen

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ParamsSize is the size in bytes of the uniform block shared with the
// compute and render kernels. It is a multiple of 16 as required for
// uniform buffers.
const ParamsSize = 48

// ErrShortBuffer is returned by UnmarshalBinary when fewer than ParamsSize
// bytes are supplied.
var ErrShortBuffer = errors.New("magpen: short parameter buffer")

// ErrUnknownPattern is returned by ParseVelocityPattern for unrecognized names.
var ErrUnknownPattern = errors.New("magpen: unknown velocity pattern")

// VelocityPattern selects how initial particle velocities are assigned.
// It only matters when particles are (re)seeded.
type VelocityPattern uint32

const (
	// VelocityRadial points every velocity away from the field center,
	// rotated by the velocity angle.
	VelocityRadial VelocityPattern = iota
	// VelocityTangential points every velocity along the perpendicular of
	// the particle position, rotated by the velocity angle.
	VelocityTangential
	// VelocityUniform gives every particle the same direction.
	VelocityUniform
	// VelocityZero starts every particle at rest. Unknown values behave the same.
	VelocityZero
)

var patternNames = [...]string{"radial", "tangential", "uniform", "zero"}

// String returns the lower-case pattern name.
func (v VelocityPattern) String() string {
	if int(v) < len(patternNames) {
		return patternNames[v]
	}
	return fmt.Sprintf("VelocityPattern(%d)", uint32(v))
}

// ParseVelocityPattern maps a name such as "tangential" to its pattern.
func ParseVelocityPattern(name string) (VelocityPattern, error) {
	for i, n := range patternNames {
		if strings.EqualFold(n, name) {
			return VelocityPattern(i), nil
		}
	}
	return VelocityZero, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
}

// MarshalText implements encoding.TextMarshaler.
func (v VelocityPattern) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *VelocityPattern) UnmarshalText(text []byte) error {
	p, err := ParseVelocityPattern(string(text))
	if err != nil {
		return err
	}
	*v = p
	return nil
}

// Params is the live-tunable configuration of the simulation.
//
// Every field may be changed between frames without invalidating GPU
// buffers. Width and Height are fixed for the lifetime of an engine, and
// the velocity fields only take effect when particles are reseeded.
//
// The field order matches the uniform block layout used by the kernels.
// Params values are never validated by the engine; see [Params.Clamp]
// for the ranges a UI is expected to enforce.
type Params struct {
	N                 uint32          `yaml:"n"`
	R                 float32         `yaml:"r"`
	D                 float32         `yaml:"d"`
	Mu                float32         `yaml:"mu"`
	C                 float32         `yaml:"c"`
	Dt                float32         `yaml:"dt"`
	Width             uint32          `yaml:"-"`
	Height            uint32          `yaml:"-"`
	VelocityMagnitude float32         `yaml:"velocity_magnitude"`
	VelocityAngle     float32         `yaml:"velocity_angle"`
	VelocityPattern   VelocityPattern `yaml:"velocity_pattern"`
}

// DefaultParams returns the default parameter set for a width x height grid.
func DefaultParams(width, height uint32) Params {
	return Params{
		N:                 5,
		R:                 3.0,
		D:                 0.4,
		Mu:                0.2,
		C:                 0.2,
		Dt:                0.006,
		Width:             width,
		Height:            height,
		VelocityMagnitude: 4.0,
		VelocityAngle:     math.Pi / 2,
		VelocityPattern:   VelocityTangential,
	}
}

// Paused returns a copy of p with a zero time step. Preparing a frame with
// the copy renders the current state without advancing it.
func (p Params) Paused() Params {
	p.Dt = 0
	return p
}

// AppendBinary appends the 48-byte little-endian uniform layout of p to b:
//
//	n u32 | r | d | mu | c | dt f32 | width u32 | height u32 |
//	velocity_magnitude | velocity_angle f32 | velocity_pattern u32 | pad f32
func (p Params) AppendBinary(b []byte) ([]byte, error) {
	le := binary.LittleEndian
	b = le.AppendUint32(b, p.N)
	b = le.AppendUint32(b, math.Float32bits(p.R))
	b = le.AppendUint32(b, math.Float32bits(p.D))
	b = le.AppendUint32(b, math.Float32bits(p.Mu))
	b = le.AppendUint32(b, math.Float32bits(p.C))
	b = le.AppendUint32(b, math.Float32bits(p.Dt))
	b = le.AppendUint32(b, p.Width)
	b = le.AppendUint32(b, p.Height)
	b = le.AppendUint32(b, math.Float32bits(p.VelocityMagnitude))
	b = le.AppendUint32(b, math.Float32bits(p.VelocityAngle))
	b = le.AppendUint32(b, uint32(p.VelocityPattern))
	b = le.AppendUint32(b, 0) // padding
	return b, nil
}

// MarshalBinary returns the uniform layout of p. The result is always
// ParamsSize bytes long.
func (p Params) MarshalBinary() ([]byte, error) {
	return p.AppendBinary(make([]byte, 0, ParamsSize))
}

// UnmarshalBinary decodes the uniform layout produced by MarshalBinary.
func (p *Params) UnmarshalBinary(data []byte) error {
	if len(data) < ParamsSize {
		return fmt.Errorf("%w: got %d bytes, need %d", ErrShortBuffer, len(data), ParamsSize)
	}
	le := binary.LittleEndian
	f := func(off int) float32 { return math.Float32frombits(le.Uint32(data[off:])) }
	p.N = le.Uint32(data[0:])
	p.R = f(4)
	p.D = f(8)
	p.Mu = f(12)
	p.C = f(16)
	p.Dt = f(20)
	p.Width = le.Uint32(data[24:])
	p.Height = le.Uint32(data[28:])
	p.VelocityMagnitude = f(32)
	p.VelocityAngle = f(36)
	p.VelocityPattern = VelocityPattern(le.Uint32(data[40:]))
	return nil
}

// Range is a closed interval of allowed values for a UI control.
type Range struct {
	Min, Max float32
}

func (r Range) clamp(v float32) float32 {
	return min(max(v, r.Min), r.Max)
}

// Ranges lists the intervals a UI is expected to enforce for each
// dynamic parameter. The engine itself accepts any value.
var Ranges = struct {
	N, R, D, Mu, C, Dt Range
}{
	N:  Range{3, 10},
	R:  Range{1, 10},
	D:  Range{0.1, 2},
	Mu: Range{0, 1},
	C:  Range{0, 1},
	Dt: Range{0.001, 0.05},
}

// Clamp returns a copy of p with the dynamic parameters limited to [Ranges].
// A zero time step is kept as is, since it is how a paused simulation is
// expressed.
func (p Params) Clamp() Params {
	p.N = uint32(Ranges.N.clamp(float32(p.N)))
	p.R = Ranges.R.clamp(p.R)
	p.D = Ranges.D.clamp(p.D)
	p.Mu = Ranges.Mu.clamp(p.Mu)
	p.C = Ranges.C.clamp(p.C)
	if p.Dt != 0 {
		p.Dt = Ranges.Dt.clamp(p.Dt)
	}
	return p
}
