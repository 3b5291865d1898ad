package webgl

import (
	"strings"

	"github.com/lhaig/braid/internal/diagnostic"
	"github.com/lhaig/braid/internal/ir"
	"github.com/lhaig/braid/internal/jsbe"
	"github.com/lhaig/braid/internal/symbols"
	"github.com/lhaig/braid/internal/visit"
)

// Compiler returns the host compiler extended with the WebGL stage
// intrinsics.
func Compiler(reg *Registry, c *ir.CompilerIR) visit.Func {
	return visit.Tie(func(self visit.Func) visit.Rules {
		return Rules(reg, self, c)
	})
}

// Rules layers the vtx and render intrinsics over the base JavaScript
// rules. Every other call falls through to the base call rule.
func Rules(reg *Registry, self visit.Func, c *ir.CompilerIR) visit.Rules {
	base := jsbe.Rules(self, c)
	return visit.Compose(base, visit.Rules{
		ir.KindCall: func(n ir.Node) (string, error) {
			call := n.(*ir.Call)
			switch call.IntrinsicName() {
			case VertexIntrinsic:
				if len(call.Args) != 1 {
					return "", diagnostic.Errorf(diagnostic.UnsupportedNode, call.ID, "vtx takes exactly one argument")
				}
				// Bindings are emitted statically, so the shader must be a
				// literal quote.
				q, ok := call.Args[0].(*ir.Quote)
				if !ok {
					return "", diagnostic.Errorf(diagnostic.DynamicInvocation, call.ID, "dynamic shader invocation unsupported")
				}
				return EmitInvocation(reg, c, self, q.ID)
			case RenderIntrinsic:
				if len(call.Args) == 1 {
					return self(call.Args[0])
				}
			}
			return base[ir.KindCall](n)
		},
	})
}

// EmitInvocation emits the expression that activates a vertex program's
// shader and uploads the current values of its persists and then its free
// variables. The parts are joined with the comma operator.
func EmitInvocation(reg *Registry, c *ir.CompilerIR, compile visit.Func, vertexID int) (string, error) {
	vertex, _, err := Pair(c, vertexID)
	if err != nil {
		return "", err
	}

	parts := []string{"gl.useProgram(" + symbols.Shader(vertex.ID) + ")"}

	// All uniforms and attributes appear as escapes or free variables of
	// the vertex quote; fragment inputs arrive through varyings.
	for _, esc := range vertex.Persist {
		value, err := compile(esc.Body)
		if err != nil {
			return "", err
		}
		binding, err := EmitBinding(reg, c, esc.Body.NodeID(), esc.ID, true, value)
		if err != nil {
			return "", err
		}
		parts = append(parts, binding)
	}
	for _, fv := range vertex.Free {
		binding, err := EmitBinding(reg, c, fv, fv, false, symbols.Var(fv))
		if err != nil {
			return "", err
		}
		parts = append(parts, binding)
	}

	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, ",\n") + ")", nil
}
