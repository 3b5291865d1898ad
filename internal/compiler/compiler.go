package compiler

import (
	"bytes"
	"fmt"
	"os"

	"github.com/lhaig/braid/internal/backend"
	"github.com/lhaig/braid/internal/diagnostic"
	"github.com/lhaig/braid/internal/ir"
	"github.com/lhaig/braid/internal/symbols"
	"github.com/lhaig/braid/internal/webgl"
)

// Result holds the output of a compilation
type Result struct {
	Diagnostics *diagnostic.Diagnostics
	Output      string
}

// Load reads an IR interchange file from disk.
func Load(path string) (*ir.CompilerIR, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read IR: %w", err)
	}
	return ir.Decode(bytes.NewReader(data))
}

// Compile runs check -> backend on a decoded IR.
// Returns the result without writing files.
func Compile(c *ir.CompilerIR, target string) *Result {
	res := &Result{Diagnostics: webgl.Check(webgl.NewRegistry(), c)}
	if res.Diagnostics.HasErrors() {
		return res
	}

	be, err := backend.Get(target)
	if err != nil {
		res.Diagnostics.Add(err)
		return res
	}
	out, err := be.Generate(c)
	if err != nil {
		res.Diagnostics.Add(err)
		return res
	}
	res.Output = out
	return res
}

// Summary describes each program and where it is emitted, one line per
// program in index order.
func Summary(c *ir.CompilerIR) []string {
	var lines []string
	for _, prog := range c.Progs {
		if prog == nil {
			continue
		}
		out := "js function " + symbols.Prog(prog.ID)
		if prog.Role.IsShader() {
			out = "glsl constant " + symbols.Prog(prog.ID)
		}
		lines = append(lines, fmt.Sprintf("program %d (%s): %s", prog.ID, prog.Role, out))
	}
	return lines
}

// Check runs the staging checks only (no codegen).
func Check(c *ir.CompilerIR) *diagnostic.Diagnostics {
	return webgl.Check(webgl.NewRegistry(), c)
}
