package magpen

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams(1024, 768)

	if p.N != 5 || p.R != 3.0 || p.D != 0.4 || p.Mu != 0.2 || p.C != 0.2 || p.Dt != 0.006 {
		t.Errorf("unexpected dynamic defaults: %+v", p)
	}
	if p.Width != 1024 || p.Height != 768 {
		t.Errorf("grid = %dx%d, want 1024x768", p.Width, p.Height)
	}
	if p.VelocityPattern != VelocityTangential {
		t.Errorf("pattern = %v, want tangential", p.VelocityPattern)
	}
	if p.VelocityMagnitude != 4.0 || p.VelocityAngle != float32(math.Pi/2) {
		t.Errorf("velocity = %v@%v, want 4@π/2", p.VelocityMagnitude, p.VelocityAngle)
	}
}

func TestParamsMarshalLayout(t *testing.T) {
	p := Params{
		N: 7, R: 1, D: 2, Mu: 3, C: 4, Dt: 5,
		Width: 640, Height: 480,
		VelocityMagnitude: 6, VelocityAngle: 7, VelocityPattern: VelocityUniform,
	}
	b, err := p.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	if len(b) != ParamsSize {
		t.Fatalf("len = %d, want %d", len(b), ParamsSize)
	}
	if ParamsSize%16 != 0 {
		t.Fatalf("ParamsSize = %d is not a multiple of 16", ParamsSize)
	}

	le32 := func(off int) uint32 {
		return uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
	}
	f32 := func(off int) float32 { return math.Float32frombits(le32(off)) }

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"n", float64(le32(0)), 7},
		{"r", float64(f32(4)), 1},
		{"d", float64(f32(8)), 2},
		{"mu", float64(f32(12)), 3},
		{"c", float64(f32(16)), 4},
		{"dt", float64(f32(20)), 5},
		{"width", float64(le32(24)), 640},
		{"height", float64(le32(28)), 480},
		{"velocity_magnitude", float64(f32(32)), 6},
		{"velocity_angle", float64(f32(36)), 7},
		{"velocity_pattern", float64(le32(40)), 2},
		{"padding", float64(le32(44)), 0},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestParamsUnmarshalRoundTrip(t *testing.T) {
	want := DefaultParams(33, 17)
	b, _ := want.MarshalBinary()

	var got Params
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary() error = %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestParamsUnmarshalShort(t *testing.T) {
	var p Params
	err := p.UnmarshalBinary(make([]byte, ParamsSize-1))
	if !errors.Is(err, ErrShortBuffer) {
		t.Errorf("error = %v, want ErrShortBuffer", err)
	}
}

func TestParamsAppendBinary(t *testing.T) {
	prefix := []byte{0xAA, 0xBB}
	b, err := DefaultParams(4, 4).AppendBinary(prefix)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 2+ParamsSize || !bytes.Equal(b[:2], prefix) {
		t.Errorf("AppendBinary did not append after prefix: len=%d", len(b))
	}
}

func TestParamsPaused(t *testing.T) {
	p := DefaultParams(8, 8)
	paused := p.Paused()
	if paused.Dt != 0 {
		t.Errorf("Paused().Dt = %v, want 0", paused.Dt)
	}
	if p.Dt == 0 {
		t.Error("Paused must not modify the receiver")
	}
	paused.Dt = p.Dt
	if paused != p {
		t.Error("Paused changed fields other than Dt")
	}
}

func TestParamsClamp(t *testing.T) {
	p := Params{N: 50, R: -1, D: 0, Mu: 3, C: -2, Dt: 1}.Clamp()
	if p.N != 10 || p.R != 1 || p.D != 0.1 || p.Mu != 1 || p.C != 0 || p.Dt != 0.05 {
		t.Errorf("Clamp() = %+v", p)
	}

	paused := Params{N: 5, R: 3, D: 0.4, Dt: 0}.Clamp()
	if paused.Dt != 0 {
		t.Errorf("Clamp kept Dt = %v, want 0 for a paused set", paused.Dt)
	}
}

func TestVelocityPatternNames(t *testing.T) {
	tests := []struct {
		pattern VelocityPattern
		name    string
	}{
		{VelocityRadial, "radial"},
		{VelocityTangential, "tangential"},
		{VelocityUniform, "uniform"},
		{VelocityZero, "zero"},
	}
	for _, tt := range tests {
		if got := tt.pattern.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		parsed, err := ParseVelocityPattern(tt.name)
		if err != nil || parsed != tt.pattern {
			t.Errorf("ParseVelocityPattern(%q) = %v, %v", tt.name, parsed, err)
		}
	}

	if _, err := ParseVelocityPattern("spiral"); !errors.Is(err, ErrUnknownPattern) {
		t.Errorf("ParseVelocityPattern(spiral) error = %v, want ErrUnknownPattern", err)
	}
	if got := VelocityPattern(9).String(); got != "VelocityPattern(9)" {
		t.Errorf("String() = %q for out-of-range value", got)
	}
}

func TestVelocityPatternText(t *testing.T) {
	var v VelocityPattern
	if err := v.UnmarshalText([]byte("Uniform")); err != nil {
		t.Fatal(err)
	}
	if v != VelocityUniform {
		t.Errorf("UnmarshalText = %v, want uniform", v)
	}
	text, _ := v.MarshalText()
	if string(text) != "uniform" {
		t.Errorf("MarshalText = %q", text)
	}
}
