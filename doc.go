// Package magpen simulates a dense field of magnetic pendulums on the GPU.
//
// # Overview
//
// Every pixel of the output image is one particle: a pendulum bob that
// starts at the pixel's position and moves under a restoring spring toward
// the center, linear damping, and the softened attraction of n magnets
// placed evenly on a ring. Each frame advances every particle by one
// explicit Euler step and colors its pixel from a cyclic color map.
//
// This package holds the data model shared by every backend:
//   - [Params]: the live-tunable parameter set and its 48-byte uniform layout
//   - [Particle] and [CreateParticles]: the deterministic seeding function
//   - [Preset] and [Params.RandomizeVelocity]: host-side conveniences
//
// The GPU engine lives in the engine package, the CPU reference simulator
// in the reference package, and a headless host in integration/headless.
//
// # Quick Start
//
//	provider, _ := headless.NewProvider()
//	defer provider.Release()
//
//	params := magpen.DefaultParams(1024, 1024)
//	eng, _ := engine.New(provider, 1024, 1024, 25, params)
//	defer eng.Release()
//
//	target, _ := headless.NewTarget(provider, eng)
//	defer target.Release()
//	img, _ := target.Frame(params)
//
// # Pausing
//
// Preparing a frame with [Params.Paused] (a zero time step) renders the
// current state unchanged. There is no separate paused mode.
//
// # Logging
//
// magpen is silent by default. See [SetLogger].
package magpen
