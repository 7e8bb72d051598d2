// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

//go:embed shaders/simulate.wgsl
var simulateShaderSource string

//go:embed shaders/blit.wgsl
var blitShaderSource string

// Entry points of the embedded shaders.
const (
	computeEntryPoint  = "comp_main"
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

// workgroupAttr is the workgroup attribute of comp_main as written in
// simulate.wgsl.
const workgroupAttr = "@workgroup_size(8, 8, 1)"

// SimulateShaderSource returns the compute shader specialized for an
// x by y workgroup.
func SimulateShaderSource(x, y uint32) string {
	return strings.Replace(simulateShaderSource, workgroupAttr,
		fmt.Sprintf("@workgroup_size(%d, %d, 1)", x, y), 1)
}

// BlitShaderSource returns the render shader that draws the output
// texture as a full-surface quad.
func BlitShaderSource() string {
	return blitShaderSource
}

// entryPointSpec names an entry point a shader must declare.
type entryPointSpec struct {
	name  string
	stage ir.ShaderStage
}

// validateShader parses, lowers and validates WGSL with naga and checks
// that every required entry point exists with the expected stage.
// Failures wrap ErrShaderCompilation.
func validateShader(label, source string, want ...entryPointSpec) (*ir.Module, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: parse: %w", ErrShaderCompilation, label, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: lower: %w", ErrShaderCompilation, label, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: validate: %w", ErrShaderCompilation, label, err)
	}
	if len(verrs) > 0 {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderCompilation, label, verrs[0])
	}

	for _, w := range want {
		found := false
		for i := range module.EntryPoints {
			ep := &module.EntryPoints[i]
			if ep.Name == w.name && ep.Stage == w.stage {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s: missing entry point %q", ErrShaderCompilation, label, w.name)
		}
	}
	return module, nil
}

// validateShaders checks both embedded shaders for the given workgroup.
func validateShaders(wx, wy uint32) (simulate, blit string, err error) {
	simulate = SimulateShaderSource(wx, wy)
	if _, err = validateShader("simulate", simulate,
		entryPointSpec{computeEntryPoint, ir.StageCompute}); err != nil {
		return "", "", err
	}
	blit = BlitShaderSource()
	if _, err = validateShader("blit", blit,
		entryPointSpec{vertexEntryPoint, ir.StageVertex},
		entryPointSpec{fragmentEntryPoint, ir.StageFragment}); err != nil {
		return "", "", err
	}
	return simulate, blit, nil
}
