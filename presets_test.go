package magpen

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
)

func TestPresetNames(t *testing.T) {
	want := []string{"chaotic", "complex", "smooth", "stable"}
	if got := PresetNames(); !slices.Equal(got, want) {
		t.Errorf("PresetNames() = %v, want %v", got, want)
	}
}

func TestPreset(t *testing.T) {
	tests := []struct {
		name    string
		n       uint32
		pattern VelocityPattern
	}{
		{"chaotic", 3, VelocityRadial},
		{"smooth", 5, VelocityTangential},
		{"complex", 7, VelocityUniform},
		{"stable", 4, VelocityZero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Preset(tt.name)
			if err != nil {
				t.Fatalf("Preset(%q) error = %v", tt.name, err)
			}
			if p.N != tt.n || p.VelocityPattern != tt.pattern {
				t.Errorf("Preset(%q) = n %d pattern %v, want n %d pattern %v",
					tt.name, p.N, p.VelocityPattern, tt.n, tt.pattern)
			}
			if p.Dt <= 0 {
				t.Errorf("Preset(%q).Dt = %v, want > 0", tt.name, p.Dt)
			}
			if p.Width != 0 || p.Height != 0 {
				t.Errorf("Preset(%q) carries a grid size", tt.name)
			}
		})
	}
}

func TestPresetNotFound(t *testing.T) {
	if _, err := Preset("nonexistent"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("error = %v, want ErrUnknownPreset", err)
	}

	p := DefaultParams(4, 4)
	got, err := p.ApplyPreset("nonexistent")
	if err == nil {
		t.Fatal("ApplyPreset(nonexistent) should fail")
	}
	if got != p {
		t.Error("failed ApplyPreset must return the receiver unchanged")
	}
}

func TestApplyPresetKeepsGrid(t *testing.T) {
	p := DefaultParams(320, 200)
	got, err := p.ApplyPreset("complex")
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 320 || got.Height != 200 {
		t.Errorf("grid = %dx%d, want 320x200", got.Width, got.Height)
	}
	if got.N != 7 || got.VelocityAngle != float32(math.Pi) {
		t.Errorf("ApplyPreset(complex) = %+v", got)
	}
}

func TestRandomizeVelocity(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	base := DefaultParams(10, 10)
	seen := map[VelocityPattern]bool{}

	for range 500 {
		p := base.RandomizeVelocity(rng)
		if p.VelocityMagnitude < 0.5 || p.VelocityMagnitude >= 8 {
			t.Fatalf("magnitude %v out of [0.5, 8)", p.VelocityMagnitude)
		}
		if p.VelocityAngle < 0 || p.VelocityAngle > float32(2*math.Pi) {
			t.Fatalf("angle %v out of [0, 2π]", p.VelocityAngle)
		}
		if p.VelocityPattern > VelocityZero {
			t.Fatalf("pattern %v out of range", p.VelocityPattern)
		}
		seen[p.VelocityPattern] = true

		p.VelocityMagnitude, p.VelocityAngle, p.VelocityPattern = base.VelocityMagnitude, base.VelocityAngle, base.VelocityPattern
		if p != base {
			t.Fatal("RandomizeVelocity changed a dynamic parameter")
		}
	}
	if len(seen) != 4 {
		t.Errorf("saw %d patterns in 500 draws, want 4", len(seen))
	}
}

func TestRandomizeVelocityReproducible(t *testing.T) {
	a := DefaultParams(1, 1).RandomizeVelocity(rand.New(rand.NewPCG(7, 7)))
	b := DefaultParams(1, 1).RandomizeVelocity(rand.New(rand.NewPCG(7, 7)))
	if a != b {
		t.Errorf("same seed produced %+v and %+v", a, b)
	}
}
