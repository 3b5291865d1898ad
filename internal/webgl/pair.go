package webgl

import (
	"github.com/lhaig/braid/internal/diagnostic"
	"github.com/lhaig/braid/internal/ir"
)

// Pair returns a vertex program and the fragment program quoted inside it.
// The program must have the vertex role and exactly one quote child.
func Pair(c *ir.CompilerIR, vertexID int) (vertex, fragment *ir.Program, err error) {
	vertex = c.Prog(vertexID)
	if vertex == nil {
		return nil, nil, diagnostic.Errorf(diagnostic.UndefinedProgram, vertexID, "vertex program is undefined")
	}
	if vertex.Role != ir.RoleVertex {
		return nil, nil, diagnostic.Errorf(diagnostic.Pairing, vertexID,
			"vtx requires a vertex quote, got a %s program", vertex.Role)
	}
	if len(vertex.QuoteChildren) != 1 {
		return nil, nil, diagnostic.Errorf(diagnostic.Pairing, vertexID,
			"vertex quote must have exactly one fragment quote, found %d", len(vertex.QuoteChildren))
	}
	fragID := vertex.QuoteChildren[0]
	fragment = c.Prog(fragID)
	if fragment == nil {
		return nil, nil, diagnostic.Errorf(diagnostic.UndefinedProgram, fragID, "fragment program is undefined")
	}
	return vertex, fragment, nil
}
