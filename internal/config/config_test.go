package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/magpen"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("expected %dx%d grid, got %dx%d", DefaultWidth, DefaultHeight, cfg.Width, cfg.Height)
	}
	if cfg.Backend != BackendGPU {
		t.Errorf("expected backend gpu, got %s", cfg.Backend)
	}
	if cfg.Params.N != 5 {
		t.Errorf("expected n=5, got %d", cfg.Params.N)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "magpen.yaml")

	cfg := DefaultConfig()
	cfg.Width = 300
	cfg.Preset = "chaotic"
	cfg.Params.VelocityPattern = magpen.VelocityUniform
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Width != 300 || got.Preset != "chaotic" {
		t.Errorf("got width=%d preset=%q", got.Width, got.Preset)
	}
	if got.Params.VelocityPattern != magpen.VelocityUniform {
		t.Errorf("velocity pattern = %v, want uniform", got.Params.VelocityPattern)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "width: 64\nparams:\n  n: 7\n  velocity_pattern: radial\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Width != 64 {
		t.Errorf("expected width 64, got %d", cfg.Width)
	}
	if cfg.Height != DefaultHeight {
		t.Errorf("expected default height, got %d", cfg.Height)
	}
	if cfg.Params.N != 7 {
		t.Errorf("expected n=7, got %d", cfg.Params.N)
	}
	if cfg.Params.D != magpen.DefaultParams(1, 1).D {
		t.Errorf("expected default d, got %g", cfg.Params.D)
	}
	if cfg.Params.VelocityPattern != magpen.VelocityRadial {
		t.Errorf("expected radial, got %v", cfg.Params.VelocityPattern)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("width: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, ErrInvalid},
		{"negative scale", func(c *Config) { c.Scale = -1 }, ErrInvalid},
		{"negative frames", func(c *Config) { c.Frames = -1 }, ErrInvalid},
		{"zero upscale", func(c *Config) { c.Upscale = 0 }, ErrInvalid},
		{"empty output", func(c *Config) { c.Output = "" }, ErrInvalid},
		{"unknown backend", func(c *Config) { c.Backend = "tpu" }, ErrUnknownBackend},
		{"unknown preset", func(c *Config) { c.Preset = "wild" }, ErrUnknownPreset},
		{"cpu backend", func(c *Config) { c.Backend = BackendCPU }, nil},
		{"zero frames", func(c *Config) { c.Frames = 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestResolveParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 40, 30

	p, err := cfg.ResolveParams()
	if err != nil {
		t.Fatalf("ResolveParams() error = %v", err)
	}
	if p.Width != 40 || p.Height != 30 {
		t.Errorf("grid = %dx%d, want 40x30", p.Width, p.Height)
	}
	if p.N != cfg.Params.N {
		t.Errorf("n = %d, want %d", p.N, cfg.Params.N)
	}

	cfg.Preset = "stable"
	p, err = cfg.ResolveParams()
	if err != nil {
		t.Fatalf("ResolveParams(stable) error = %v", err)
	}
	want, _ := magpen.Preset("stable")
	if p.N != want.N || p.Mu != want.Mu {
		t.Errorf("preset not applied: n=%d mu=%g", p.N, p.Mu)
	}
	if p.Width != 40 || p.Height != 30 {
		t.Errorf("preset changed grid to %dx%d", p.Width, p.Height)
	}

	cfg.Preset = "nope"
	if _, err := cfg.ResolveParams(); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("unknown preset error = %v", err)
	}
}
