//go:build nogpu

package main

import (
	"github.com/gogpu/magpen"
	"github.com/gogpu/magpen/internal/config"
)

func newGPUBackend(*config.Config, magpen.Params, string) (backend, error) {
	return nil, errNoGPU
}
