//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import "github.com/gogpu/magpen"

// Restart reseeds the particle field from params and rebuilds the compute
// bind group around the new buffer. The grid size stays the one given to
// New. The uniform, color map, output texture, pipelines and layouts are
// reused.
//
// The replacement is built first; on error the Engine keeps its previous
// field and stays usable.
func (e *Engine) Restart(params magpen.Params) error {
	if e.released {
		return ErrReleased
	}

	particles, err := e.createParticleBuffer(params)
	if err != nil {
		return err
	}
	bg, err := e.newComputeBindGroup(particles)
	if err != nil {
		particles.Release()
		return err
	}

	e.computeBG.Release()
	e.particleBuf.Release()
	e.computeBG = bg
	e.particleBuf = particles

	e.stats.Restarts++
	slogger().Info("engine: restarted",
		"pattern", params.VelocityPattern,
		"magnitude", params.VelocityMagnitude,
		"angle", params.VelocityAngle)
	return nil
}
