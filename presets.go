package magpen

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// ErrUnknownPreset is returned by Preset for names not in [PresetNames].
var ErrUnknownPreset = errors.New("magpen: unknown preset")

// presets holds the named dynamic configurations. Width and Height are left
// zero: applying a preset never changes the grid.
var presets = map[string]Params{
	"chaotic": {
		N: 3, R: 2.5, D: 0.2, Mu: 0.05, C: 0.1, Dt: 0.008,
		VelocityMagnitude: 6.0, VelocityAngle: 0, VelocityPattern: VelocityRadial,
	},
	"smooth": {
		N: 5, R: 4.0, D: 0.6, Mu: 0.4, C: 0.3, Dt: 0.004,
		VelocityMagnitude: 2.0, VelocityAngle: math.Pi / 4, VelocityPattern: VelocityTangential,
	},
	"complex": {
		N: 7, R: 3.5, D: 0.3, Mu: 0.15, C: 0.25, Dt: 0.005,
		VelocityMagnitude: 5.0, VelocityAngle: math.Pi, VelocityPattern: VelocityUniform,
	},
	"stable": {
		N: 4, R: 3.0, D: 0.8, Mu: 0.6, C: 0.4, Dt: 0.003,
		VelocityMagnitude: 1.0, VelocityAngle: 0, VelocityPattern: VelocityZero,
	},
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Preset returns the named preset with zero Width and Height.
func Preset(name string) (Params, error) {
	p, ok := presets[name]
	if !ok {
		return Params{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// ApplyPreset returns a copy of p with every field except Width and Height
// taken from the named preset.
func (p Params) ApplyPreset(name string) (Params, error) {
	preset, err := Preset(name)
	if err != nil {
		return p, err
	}
	preset.Width, preset.Height = p.Width, p.Height
	return preset, nil
}

// RandomizeVelocity returns a copy of p with a random initial velocity:
// magnitude in [0.5, 8), angle in [0, 2π) and one of the four patterns.
// The new velocity only shows after the particles are reseeded.
func (p Params) RandomizeVelocity(rng *rand.Rand) Params {
	p.VelocityMagnitude = 0.5 + rng.Float32()*7.5
	p.VelocityAngle = rng.Float32() * 2 * math.Pi
	p.VelocityPattern = VelocityPattern(rng.IntN(4))
	return p
}
