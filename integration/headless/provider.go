// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/magpen"
	"github.com/gogpu/wgpu"
)

// Errors returned by Provider.
var (
	// ErrNoAdapter is returned when no adapter with a working device
	// could be acquired.
	ErrNoAdapter = errors.New("headless: no adapter")

	// ErrUnknownBackend is returned by ParseBackends for an unknown name.
	ErrUnknownBackend = errors.New("headless: unknown backend")

	// ErrSoftwareAdapter is returned, wrapped in ErrNoAdapter, when the
	// only adapter found is a CPU adapter and WithHardwareOnly is set.
	ErrSoftwareAdapter = errors.New("headless: software adapter rejected")
)

// ProviderOption configures NewProvider.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	backends      wgpu.Backends
	power         gputypes.PowerPreference
	forceFallback bool
	debug         bool
	hardwareOnly  bool
}

// WithBackends restricts adapter enumeration to the given backends.
func WithBackends(b wgpu.Backends) ProviderOption {
	return func(o *providerOptions) {
		o.backends = b
	}
}

// WithPowerPreference selects between integrated and discrete adapters.
func WithPowerPreference(p gputypes.PowerPreference) ProviderOption {
	return func(o *providerOptions) {
		o.power = p
	}
}

// WithFallbackAdapter requests the software fallback adapter.
func WithFallbackAdapter() ProviderOption {
	return func(o *providerOptions) {
		o.forceFallback = true
	}
}

// WithHardwareOnly makes NewProvider fail with ErrNoAdapter when the
// selected adapter runs on the CPU. The registered software renderer does
// not execute render or compute work, so its frames are always empty.
func WithHardwareOnly() ProviderOption {
	return func(o *providerOptions) {
		o.hardwareOnly = true
	}
}

// IsSoftware reports whether info describes a CPU adapter.
func IsSoftware(info wgpu.AdapterInfo) bool {
	return info.DeviceType == gputypes.DeviceTypeCPU
}

// WithDebug enables backend debug layers when available.
func WithDebug() ProviderOption {
	return func(o *providerOptions) {
		o.debug = true
	}
}

// ParseBackends maps a backend name to a backend set. Accepted names are
// all, vulkan (vk), metal, dx12 (d3d12) and gl (gles).
func ParseBackends(name string) (wgpu.Backends, error) {
	switch strings.ToLower(name) {
	case "", "all":
		return wgpu.BackendsAll, nil
	case "vulkan", "vk":
		return wgpu.BackendsVulkan, nil
	case "metal":
		return wgpu.BackendsMetal, nil
	case "dx12", "d3d12":
		return wgpu.BackendsDX12, nil
	case "gl", "gles":
		return wgpu.BackendsGL, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// Provider owns a wgpu instance, adapter and device.
// It implements gpucontext.DeviceProvider with an RGBA8Unorm surface format.
//
// Provider is safe for concurrent reads; Release must not race with use.
type Provider struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	info     wgpu.AdapterInfo
	released bool
}

var _ gpucontext.DeviceProvider = (*Provider)(nil)

// NewProvider creates an instance, picks an adapter and opens a device.
// It returns an error wrapping ErrNoAdapter when any step fails or the
// device has no queue.
func NewProvider(opts ...ProviderOption) (*Provider, error) {
	o := providerOptions{backends: wgpu.BackendsAll}
	for _, opt := range opts {
		opt(&o)
	}

	desc := &wgpu.InstanceDescriptor{Backends: o.backends}
	if o.debug {
		desc.Flags = gputypes.InstanceFlagsDebug
	}
	instance, err := wgpu.CreateInstance(desc)
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrNoAdapter, err)
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:      o.power,
		ForceFallbackAdapter: o.forceFallback,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: request adapter: %w", ErrNoAdapter, err)
	}

	if info := adapter.Info(); o.hardwareOnly && IsSoftware(info) {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: %w: %s", ErrNoAdapter, ErrSoftwareAdapter, info.Name)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "magpen"})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: request device: %w", ErrNoAdapter, err)
	}

	queue := device.Queue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: device has no queue", ErrNoAdapter)
	}

	p := &Provider{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    queue,
		info:     adapter.Info(),
	}
	magpen.Logger().Info("headless: adapter selected",
		"name", p.info.Name,
		"backend", p.info.Backend,
		"type", p.info.DeviceType)
	return p, nil
}

// Device returns the *wgpu.Device.
func (p *Provider) Device() gpucontext.Device { return p.device }

// Queue returns the *wgpu.Queue.
func (p *Provider) Queue() gpucontext.Queue { return p.queue }

// Adapter returns the *wgpu.Adapter.
func (p *Provider) Adapter() gpucontext.Adapter { return p.adapter }

// SurfaceFormat returns RGBA8Unorm, the format of offscreen targets.
func (p *Provider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// AdapterInfo returns the adapter name and kind.
func (p *Provider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{
		Name: p.info.Name,
		Type: adapterType(p.info.DeviceType),
	}
}

// WGPUDevice returns the device with its concrete type.
func (p *Provider) WGPUDevice() *wgpu.Device { return p.device }

// Info returns the full adapter description.
func (p *Provider) Info() wgpu.AdapterInfo { return p.info }

// Release destroys the device, adapter and instance.
// Release is idempotent.
func (p *Provider) Release() {
	if p.released {
		return
	}
	p.released = true
	if p.device != nil {
		p.device.Release()
		p.device = nil
	}
	if p.adapter != nil {
		p.adapter.Release()
		p.adapter = nil
	}
	if p.instance != nil {
		p.instance.Release()
		p.instance = nil
	}
	p.queue = nil
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}
