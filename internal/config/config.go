// Package config loads and saves the YAML host configuration of the magpen
// command.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/gogpu/magpen"
	"gopkg.in/yaml.v3"
)

// Defaults of a new Config.
const (
	DefaultWidth   = 512
	DefaultHeight  = 512
	DefaultScale   = 25.0
	DefaultFrames  = 1000
	DefaultOutput  = "magpen.png"
	DefaultUpscale = 1
)

// Backend names.
const (
	BackendGPU = "gpu"
	BackendCPU = "cpu"
)

// Errors returned by Validate and ResolveParams.
var (
	// ErrUnknownPreset is returned for a preset name magpen does not know.
	ErrUnknownPreset = errors.New("config: unknown preset")

	// ErrUnknownBackend is returned for a backend other than gpu or cpu.
	ErrUnknownBackend = errors.New("config: unknown backend")

	// ErrInvalid is returned for an out-of-range host setting.
	ErrInvalid = errors.New("config: invalid value")
)

// Config is the host configuration of one render run.
type Config struct {
	Width     uint32        `yaml:"width"`
	Height    uint32        `yaml:"height"`
	Scale     float32       `yaml:"scale"`
	Frames    int           `yaml:"frames"`
	Backend   string        `yaml:"backend"`
	Preset    string        `yaml:"preset,omitempty"`
	Output    string        `yaml:"output"`
	Upscale   int           `yaml:"upscale"`
	Telemetry string        `yaml:"telemetry,omitempty"`
	Metrics   string        `yaml:"metrics,omitempty"`
	Params    magpen.Params `yaml:"params"`
}

// DefaultConfig returns a 512x512 gpu run of 1000 frames with default params.
func DefaultConfig() *Config {
	return &Config{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Scale:   DefaultScale,
		Frames:  DefaultFrames,
		Backend: BackendGPU,
		Output:  DefaultOutput,
		Upscale: DefaultUpscale,
		Params:  magpen.DefaultParams(DefaultWidth, DefaultHeight),
	}
}

// Load reads path over DefaultConfig, so keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first host setting that cannot be run. Simulation
// parameters are not checked here.
func (c *Config) Validate() error {
	switch {
	case c.Width == 0 || c.Height == 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Width, c.Height)
	case c.Scale <= 0:
		return fmt.Errorf("%w: scale %g", ErrInvalid, c.Scale)
	case c.Frames < 0:
		return fmt.Errorf("%w: frames %d", ErrInvalid, c.Frames)
	case c.Upscale < 1:
		return fmt.Errorf("%w: upscale %d", ErrInvalid, c.Upscale)
	case c.Output == "":
		return fmt.Errorf("%w: empty output path", ErrInvalid)
	}
	if c.Backend != BackendGPU && c.Backend != BackendCPU {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	if c.Preset != "" {
		if _, err := magpen.Preset(c.Preset); err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownPreset, c.Preset)
		}
	}
	return nil
}

// ResolveParams returns the parameter block the run starts from: the
// params section with the preset applied on top and the grid size set.
func (c *Config) ResolveParams() (magpen.Params, error) {
	p := c.Params
	if c.Preset != "" {
		var err error
		p, err = p.ApplyPreset(c.Preset)
		if err != nil {
			return p, fmt.Errorf("%w: %q", ErrUnknownPreset, c.Preset)
		}
	}
	p.Width, p.Height = c.Width, c.Height
	return p, nil
}
