package linter

import (
	"github.com/lhaig/braid/internal/diagnostic"
	"github.com/lhaig/braid/internal/ir"
)

// Linter performs best-practice checks on staged IR.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	ir   *ir.CompilerIR
	diag *diagnostic.Diagnostics
}

// Lint runs all lint rules on the given IR and returns diagnostics.
func Lint(c *ir.CompilerIR) *diagnostic.Diagnostics {
	l := &Linter{
		ir:   c,
		diag: diagnostic.New(),
	}

	used := l.collectUsedDefs()
	for _, prog := range c.Progs {
		if prog == nil {
			continue
		}
		switch prog.Role {
		case ir.RoleVertex:
			l.checkWritesOutput(prog, "gl_Position")
		case ir.RoleFragment:
			l.checkWritesOutput(prog, "gl_FragColor")
		}
		l.checkConstantPersists(prog)
		l.checkUnusedLocals(prog.Body, used)
	}
	if c.Main != nil {
		l.checkUnusedParams(c.Main, used)
		l.checkUnusedLocals(c.Main.Body, used)
	}

	return l.diag
}

// --- Lint rules ---

// checkWritesOutput warns if a shader never assigns its stage output.
func (l *Linter) checkWritesOutput(prog *ir.Program, output string) {
	written := false
	ir.Walk(prog.Body, false, func(n ir.Node) bool {
		if as, ok := n.(*ir.Assign); ok && as.DefID < 0 && as.Name == output {
			written = true
		}
		return !written
	})
	if !written {
		l.diag.Warningf(prog.ID, "%s program never assigns %s", prog.Role, output)
	}
}

// checkConstantPersists warns about escapes that move a literal across
// stages.
func (l *Linter) checkConstantPersists(prog *ir.Program) {
	for _, esc := range prog.Persist {
		if lit, ok := esc.Body.(*ir.Literal); ok {
			l.diag.WarningWithHint(esc.ID,
				"persisted value is the constant "+lit.Value,
				"write the literal inside the quote instead")
		}
	}
}

// checkUnusedParams warns about entry parameters that are never read.
func (l *Linter) checkUnusedParams(proc *ir.Proc, used map[int]bool) {
	for _, id := range proc.Params {
		if !used[id] {
			l.diag.Warningf(id, "parameter %d of '%s' is never used", id, proc.Name)
		}
	}
}

// checkUnusedLocals warns about let-bound variables that are never read.
func (l *Linter) checkUnusedLocals(body ir.Node, used map[int]bool) {
	for _, let := range ir.Locals(body) {
		if !used[let.ID] {
			l.diag.Warningf(let.ID, "variable '%s' is declared but never used", let.Name)
		}
	}
}

// --- Use collection ---

// collectUsedDefs gathers every definition id that is read anywhere in the
// IR. Program free variables count as reads of the captured definition.
func (l *Linter) collectUsedDefs() map[int]bool {
	used := make(map[int]bool)
	mark := func(n ir.Node) bool {
		if lk, ok := n.(*ir.Lookup); ok && !lk.IsExtern() {
			used[lk.DefID] = true
		}
		return true
	}
	for _, prog := range l.ir.Progs {
		if prog == nil {
			continue
		}
		ir.Walk(prog.Body, true, mark)
		for _, fv := range prog.Free {
			used[fv] = true
		}
	}
	if l.ir.Main != nil {
		ir.Walk(l.ir.Main.Body, true, mark)
	}
	return used
}
