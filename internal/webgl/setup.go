package webgl

import (
	"fmt"
	"strings"

	"github.com/lhaig/braid/internal/ir"
	"github.com/lhaig/braid/internal/jsbe"
	"github.com/lhaig/braid/internal/symbols"
)

// EmitSetup emits the one-time setup for a vertex program: compiling and
// linking the shader pair, then looking up the locations of its persists
// followed by its free variables.
func EmitSetup(c *ir.CompilerIR, vertexID int) (string, error) {
	vertex, fragment, err := Pair(c, vertexID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(jsbe.EmitVar(
		symbols.Shader(vertex.ID),
		fmt.Sprintf("get_shader(gl, %s, %s)", symbols.Prog(vertex.ID), symbols.Prog(fragment.ID)),
		false,
	))
	sb.WriteString("\n")

	for _, esc := range vertex.Persist {
		loc, err := EmitLocation(c, vertex.ID, esc.Body.NodeID(), esc.ID, true)
		if err != nil {
			return "", err
		}
		sb.WriteString(loc)
		sb.WriteString("\n")
	}
	for _, fv := range vertex.Free {
		loc, err := EmitLocation(c, vertex.ID, fv, fv, false)
		if err != nil {
			return "", err
		}
		sb.WriteString(loc)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
