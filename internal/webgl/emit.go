package webgl

import (
	"strings"

	"github.com/lhaig/braid/internal/diagnostic"
	"github.com/lhaig/braid/internal/glslbe"
	"github.com/lhaig/braid/internal/ir"
	"github.com/lhaig/braid/internal/jsbe"
	"github.com/lhaig/braid/internal/symbols"
)

// Shader is the GLSL source of one shader program.
type Shader struct {
	ProgID int
	Kind   glslbe.ProgKind
	Source string
}

// Shaders compiles every shader program of the IR in program order.
func Shaders(c *ir.CompilerIR) ([]Shader, error) {
	var out []Shader
	for _, prog := range c.Progs {
		if prog == nil || !prog.Role.IsShader() {
			continue
		}
		src, err := glslbe.CompileProg(c, prog.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Shader{ProgID: prog.ID, Kind: glslbe.Kind(c, prog.ID), Source: src})
	}
	return out, nil
}

// Emit compiles the IR to a JavaScript unit: an immediately invoked
// function that defines every program, runs the shader setup and returns
// the entry procedure. The first error aborts the compilation.
func Emit(reg *Registry, c *ir.CompilerIR) (string, error) {
	if c.Main == nil {
		return "", diagnostic.Errorf(diagnostic.MissingEntry, -1, "IR has no entry procedure")
	}
	compile := Compiler(reg, c)

	var out strings.Builder
	for _, prog := range c.Progs {
		if prog == nil {
			continue
		}
		if prog.Role.IsShader() {
			src, err := glslbe.CompileProg(c, prog.ID)
			if err != nil {
				return "", err
			}
			out.WriteString(jsbe.EmitVar(symbols.Prog(prog.ID), jsbe.EmitString(src), true))
		} else {
			code, err := jsbe.EmitProg(compile, c, prog)
			if err != nil {
				return "", err
			}
			out.WriteString(code)
		}
		out.WriteString("\n")
	}

	// Setup runs once, after the program constants and before main can
	// invoke any shader.
	for _, prog := range c.Progs {
		if prog == nil || glslbe.Kind(c, prog.ID) != glslbe.Vertex {
			continue
		}
		setup, err := EmitSetup(c, prog.ID)
		if err != nil {
			return "", err
		}
		out.WriteString(setup)
	}
	out.WriteString("\n")

	entry, err := jsbe.EmitProc(compile, c, c.Main)
	if err != nil {
		return "", err
	}
	out.WriteString(entry)
	out.WriteString("\n")
	out.WriteString("return " + jsbe.ProcName(c.Main) + ";")

	return jsbe.EmitFun("", nil, nil, out.String()) + "()", nil
}
