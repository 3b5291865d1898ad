package backend

import (
	"fmt"
	"strings"

	"github.com/lhaig/braid/internal/glslbe"
	"github.com/lhaig/braid/internal/ir"
	"github.com/lhaig/braid/internal/webgl"
)

// GLSLBackend emits only the shader programs, each under a header comment.
type GLSLBackend struct{}

// Name returns the backend name.
func (b *GLSLBackend) Name() string {
	return "glsl"
}

// Generate produces the GLSL source of every shader program.
func (b *GLSLBackend) Generate(c *ir.CompilerIR) (string, error) {
	shaders, err := webgl.Shaders(c)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, s := range shaders {
		if i > 0 {
			sb.WriteString("\n")
		}
		kind := "vertex"
		if s.Kind == glslbe.Fragment {
			kind = "fragment"
		}
		sb.WriteString(fmt.Sprintf("// program %d (%s)\n", s.ProgID, kind))
		sb.WriteString(s.Source)
	}
	return sb.String(), nil
}
