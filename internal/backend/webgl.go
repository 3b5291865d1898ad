package backend

import (
	"github.com/lhaig/braid/internal/ir"
	"github.com/lhaig/braid/internal/webgl"
)

// WebGLBackend emits a JavaScript unit that drives WebGL.
type WebGLBackend struct {
	// Runtime prepends the WebGL runtime prelude to the output.
	Runtime bool
}

// Name returns the backend name.
func (b *WebGLBackend) Name() string {
	return "webgl"
}

// Generate produces the JavaScript unit for a program. The unit evaluates
// to the entry procedure.
func (b *WebGLBackend) Generate(c *ir.CompilerIR) (string, error) {
	unit, err := webgl.Emit(webgl.NewRegistry(), c)
	if err != nil {
		return "", err
	}
	if !b.Runtime {
		return unit, nil
	}
	return webgl.Runtime() + "\n\nvar main = " + unit + ";\n", nil
}
