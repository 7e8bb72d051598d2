//go:build !nogpu

package main

import (
	"image"

	"github.com/gogpu/magpen"
	"github.com/gogpu/magpen/engine"
	"github.com/gogpu/magpen/integration/headless"
	"github.com/gogpu/magpen/internal/config"

	_ "github.com/gogpu/wgpu/hal/allbackends"
)

type gpuBackend struct {
	provider *headless.Provider
	eng      *engine.Engine
	target   *headless.Target
}

func newGPUBackend(cfg *config.Config, params magpen.Params, backends string) (*gpuBackend, error) {
	opts := []headless.ProviderOption{headless.WithHardwareOnly()}
	if backends != "" {
		bs, err := headless.ParseBackends(backends)
		if err != nil {
			return nil, err
		}
		opts = append(opts, headless.WithBackends(bs))
	}

	provider, err := headless.NewProvider(opts...)
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(provider, cfg.Width, cfg.Height, cfg.Scale, params)
	if err != nil {
		provider.Release()
		return nil, err
	}
	target, err := headless.NewTarget(provider, eng)
	if err != nil {
		eng.Release()
		provider.Release()
		return nil, err
	}
	return &gpuBackend{provider: provider, eng: eng, target: target}, nil
}

func (b *gpuBackend) Name() string { return config.BackendGPU }

func (b *gpuBackend) Step(params magpen.Params) error {
	return b.target.Render(params)
}

func (b *gpuBackend) Restart(params magpen.Params) error {
	return b.eng.Restart(params)
}

func (b *gpuBackend) Snapshot(params magpen.Params) (*image.RGBA, error) {
	return b.target.Frame(params.Paused())
}

func (b *gpuBackend) Close() {
	b.target.Release()
	b.eng.Release()
	b.provider.Release()
}
