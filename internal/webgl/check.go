package webgl

import (
	"github.com/lhaig/braid/internal/diagnostic"
	"github.com/lhaig/braid/internal/glslbe"
	"github.com/lhaig/braid/internal/ir"
	"github.com/lhaig/braid/internal/symbols"
)

// Check runs every staging check Emit would run and collects all failures
// instead of stopping at the first. Structurally invalid IR is reported
// without running the staging checks.
func Check(reg *Registry, c *ir.CompilerIR) *diagnostic.Diagnostics {
	diag := diagnostic.New()

	for _, msg := range ir.Validate(c) {
		diag.Add(diagnostic.Errorf(diagnostic.UnsupportedNode, -1, "%s", msg))
	}
	if diag.HasErrors() {
		return diag
	}

	for _, prog := range c.Progs {
		if prog == nil {
			continue
		}
		switch glslbe.Kind(c, prog.ID) {
		case glslbe.Vertex:
			checkVertex(reg, c, prog, diag)
		case glslbe.Fragment:
			parent := c.Prog(prog.Parent)
			if parent == nil || parent.Role != ir.RoleVertex {
				diag.WarningWithHint(prog.ID, "fragment program is not nested in a vertex program",
					"quote it with frag(...) inside a vtx quote")
			}
		}
		if prog.Role.IsShader() {
			if _, err := glslbe.CompileProg(c, prog.ID); err != nil {
				diag.Add(err)
			}
		}
	}

	// Host code, including every vtx call site.
	compile := Compiler(reg, c)
	for _, prog := range c.Progs {
		if prog == nil || prog.Role.IsShader() {
			continue
		}
		if _, err := compile(prog.Body); err != nil {
			diag.Add(err)
		}
	}
	if _, err := compile(c.Main.Body); err != nil {
		diag.Add(err)
	}

	return diag
}

func checkVertex(reg *Registry, c *ir.CompilerIR, prog *ir.Program, diag *diagnostic.Diagnostics) {
	_, fragment, err := Pair(c, prog.ID)
	if err != nil {
		diag.Add(err)
		return
	}
	if fragment.Role != ir.RoleFragment {
		diag.Warningf(fragment.ID, "quote child of vertex program %d has role %s", prog.ID, fragment.Role)
	}
	for _, esc := range prog.Persist {
		if _, err := EmitBinding(reg, c, esc.Body.NodeID(), esc.ID, true, symbols.Persist(esc.ID)); err != nil {
			diag.Add(err)
		}
	}
	for _, fv := range prog.Free {
		if _, err := EmitBinding(reg, c, fv, fv, false, symbols.Var(fv)); err != nil {
			diag.Add(err)
		}
	}
}
