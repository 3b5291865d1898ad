package backend

import (
	"fmt"

	"github.com/lhaig/braid/internal/ir"
)

// Backend is the interface that all code generation backends implement.
type Backend interface {
	// Name returns the backend name (e.g., "webgl", "glsl")
	Name() string
	// Generate produces output source code from a whole-program IR.
	Generate(c *ir.CompilerIR) (string, error)
}

// Get returns the backend for the given target.
func Get(target string) (Backend, error) {
	switch target {
	case "webgl", "js":
		return &WebGLBackend{Runtime: true}, nil
	case "glsl":
		return &GLSLBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown target: %s", target)
	}
}

// FileExtension returns the file extension for the given target
func FileExtension(target string) string {
	switch target {
	case "webgl", "js":
		return ".js"
	case "glsl":
		return ".glsl"
	default:
		return ""
	}
}
