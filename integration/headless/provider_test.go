// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

func TestParseBackends(t *testing.T) {
	tests := []struct {
		name string
		want wgpu.Backends
	}{
		{"", wgpu.BackendsAll},
		{"all", wgpu.BackendsAll},
		{"Vulkan", wgpu.BackendsVulkan},
		{"vk", wgpu.BackendsVulkan},
		{"metal", wgpu.BackendsMetal},
		{"dx12", wgpu.BackendsDX12},
		{"d3d12", wgpu.BackendsDX12},
		{"gl", wgpu.BackendsGL},
		{"gles", wgpu.BackendsGL},
	}
	for _, tt := range tests {
		got, err := ParseBackends(tt.name)
		if err != nil {
			t.Errorf("ParseBackends(%q) error = %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBackends(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if _, err := ParseBackends("glide"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("ParseBackends(glide) error = %v, want ErrUnknownBackend", err)
	}
}

func TestAdapterType(t *testing.T) {
	tests := []struct {
		in   gputypes.DeviceType
		want gpucontext.AdapterType
	}{
		{gputypes.DeviceTypeDiscreteGPU, gpucontext.AdapterTypeDiscrete},
		{gputypes.DeviceTypeIntegratedGPU, gpucontext.AdapterTypeIntegrated},
		{gputypes.DeviceTypeCPU, gpucontext.AdapterTypeSoftware},
		{gputypes.DeviceTypeVirtualGPU, gpucontext.AdapterTypeUnknown},
		{gputypes.DeviceTypeOther, gpucontext.AdapterTypeUnknown},
	}
	for _, tt := range tests {
		if got := adapterType(tt.in); got != tt.want {
			t.Errorf("adapterType(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProviderOptions(t *testing.T) {
	o := providerOptions{backends: wgpu.BackendsAll}
	for _, opt := range []ProviderOption{
		WithBackends(wgpu.BackendsVulkan),
		WithPowerPreference(gputypes.PowerPreferenceHighPerformance),
		WithFallbackAdapter(),
		WithDebug(),
		WithHardwareOnly(),
	} {
		opt(&o)
	}
	if o.backends != wgpu.BackendsVulkan {
		t.Errorf("backends = %v", o.backends)
	}
	if o.power != gputypes.PowerPreferenceHighPerformance {
		t.Errorf("power = %v", o.power)
	}
	if !o.forceFallback || !o.debug || !o.hardwareOnly {
		t.Error("fallback, debug and hardware-only should be set")
	}
}

func TestIsSoftware(t *testing.T) {
	tests := []struct {
		in   gputypes.DeviceType
		want bool
	}{
		{gputypes.DeviceTypeCPU, true},
		{gputypes.DeviceTypeDiscreteGPU, false},
		{gputypes.DeviceTypeIntegratedGPU, false},
		{gputypes.DeviceTypeVirtualGPU, false},
		{gputypes.DeviceTypeOther, false},
	}
	for _, tt := range tests {
		if got := IsSoftware(wgpu.AdapterInfo{DeviceType: tt.in}); got != tt.want {
			t.Errorf("IsSoftware(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHardwareOnlyRejectsSoftwareAdapter(t *testing.T) {
	p, err := NewProvider(WithHardwareOnly())
	if err != nil {
		if !errors.Is(err, ErrNoAdapter) {
			t.Errorf("NewProvider() error = %v, want ErrNoAdapter", err)
		}
		return
	}
	defer p.Release()
	if IsSoftware(p.Info()) {
		t.Errorf("hardware-only provider selected CPU adapter %q", p.Info().Name)
	}
}

func TestProviderReleaseIdempotent(t *testing.T) {
	p := &Provider{}
	p.Release()
	p.Release()
	if got := p.SurfaceFormat(); got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("SurfaceFormat() = %v, want RGBA8Unorm", got)
	}
}
