// Package glslbe compiles shader-stage programs to GLSL ES 1.00 source for
// WebGL. Vertex programs declare their persists and free variables as
// uniforms or attributes and feed their fragment program through varyings.
package glslbe

import (
	"fmt"
	"strings"

	"github.com/lhaig/braid/internal/diagnostic"
	"github.com/lhaig/braid/internal/ir"
	"github.com/lhaig/braid/internal/symbols"
	"github.com/lhaig/braid/internal/types"
	"github.com/lhaig/braid/internal/visit"
)

// ProgKind classifies a program for shader emission.
type ProgKind int

const (
	NotShader ProgKind = iota
	Vertex
	Fragment
)

// Kind classifies a program by its role annotation alone.
func Kind(c *ir.CompilerIR, progID int) ProgKind {
	prog := c.Prog(progID)
	if prog == nil {
		return NotShader
	}
	switch prog.Role {
	case ir.RoleVertex:
		return Vertex
	case ir.RoleFragment:
		return Fragment
	default:
		return NotShader
	}
}

// fragIntrinsic hands control from the vertex stage to its fragment quote.
const fragIntrinsic = "frag"

// CompileProg produces the GLSL source of one shader program.
func CompileProg(c *ir.CompilerIR, progID int) (string, error) {
	prog := c.Prog(progID)
	if prog == nil {
		return "", diagnostic.Errorf(diagnostic.UndefinedProgram, progID, "program is undefined")
	}
	g := &generator{ir: c, prog: prog}
	g.expr = visit.Tie(func(self visit.Func) visit.Rules {
		return exprRules(g, self)
	})

	switch Kind(c, progID) {
	case Vertex:
		if err := g.vertexDecls(); err != nil {
			return "", err
		}
	case Fragment:
		if err := g.fragmentDecls(); err != nil {
			return "", err
		}
	default:
		return "", diagnostic.Errorf(diagnostic.UnsupportedNode, progID, "%s program is not a shader", prog.Role)
	}

	g.emitLine("void main() {")
	g.incIndent()
	if err := g.stmt(prog.Body); err != nil {
		return "", err
	}
	g.decIndent()
	g.emitLine("}")
	return g.sb.String(), nil
}

type generator struct {
	sb     strings.Builder
	indent int
	ir     *ir.CompilerIR
	prog   *ir.Program
	expr   visit.Func
}

// --- Declarations ---

func (g *generator) vertexDecls() error {
	for _, esc := range g.prog.Persist {
		if err := g.inputDecl(esc.Body.NodeID(), symbols.Persist(esc.ID)); err != nil {
			return err
		}
	}
	for _, fv := range g.prog.Free {
		if err := g.inputDecl(fv, symbols.Var(fv)); err != nil {
			return err
		}
	}
	for _, child := range g.prog.QuoteChildren {
		cp := g.ir.Prog(child)
		if cp == nil {
			return diagnostic.Errorf(diagnostic.UndefinedProgram, child, "vertex program %d quotes undefined program", g.prog.ID)
		}
		for _, esc := range cp.Persist {
			if err := g.varyingDecl(esc); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *generator) fragmentDecls() error {
	g.emitLine("precision mediump float;")
	if len(g.prog.Free) > 0 {
		return diagnostic.Errorf(diagnostic.UnsupportedNode, g.prog.Free[0],
			"fragment program %d captures a free variable; persist it through the vertex stage", g.prog.ID)
	}
	for _, esc := range g.prog.Persist {
		if err := g.varyingDecl(esc); err != nil {
			return err
		}
	}
	return nil
}

// inputDecl declares a host value as an attribute (arrays) or a uniform.
func (g *generator) inputDecl(valueID int, name string) error {
	t, ok := g.ir.TypeOf(valueID)
	if !ok {
		return diagnostic.Errorf(diagnostic.UndefinedType, valueID, "value has no type")
	}
	qualifier := "uniform"
	if elem, isArray := types.ElementOf(t); isArray {
		if _, ok := elem.(*types.Primitive); !ok {
			return diagnostic.Errorf(diagnostic.AttributeType, valueID, "attributes must be primitive types, got %s", t)
		}
		qualifier = "attribute"
		t = elem
	} else if _, ok := t.(*types.Primitive); !ok {
		return diagnostic.Errorf(diagnostic.PersistType, valueID, "persisted values must be primitive or array types, got %s", t)
	}
	tname, err := typeName(t, valueID)
	if err != nil {
		return err
	}
	g.emitLinef("%s %s %s;\n", qualifier, tname, name)
	return nil
}

func (g *generator) varyingDecl(esc *ir.Escape) error {
	t, ok := g.ir.TypeOf(esc.Body.NodeID())
	if !ok {
		return diagnostic.Errorf(diagnostic.UndefinedType, esc.Body.NodeID(), "value has no type")
	}
	tname, err := typeName(t, esc.ID)
	if err != nil {
		return err
	}
	g.emitLinef("varying %s %s;\n", tname, symbols.Persist(esc.ID))
	return nil
}

func typeName(t types.Type, id int) (string, error) {
	if p, ok := t.(*types.Primitive); ok {
		switch p.Name {
		case "Int":
			return "int", nil
		case "Int3":
			return "ivec3", nil
		case "Int4":
			return "ivec4", nil
		case "Float":
			return "float", nil
		case "Float3":
			return "vec3", nil
		case "Float4":
			return "vec4", nil
		case "Float3x3":
			return "mat3", nil
		case "Float4x4":
			return "mat4", nil
		case "Bool":
			return "bool", nil
		}
	}
	return "", diagnostic.Errorf(diagnostic.PersistType, id, "type %s has no GLSL equivalent", t)
}

// --- Statements ---

func (g *generator) stmt(n ir.Node) error {
	switch node := n.(type) {
	case nil:
		return nil
	case *ir.Seq:
		for _, c := range node.Nodes {
			if err := g.stmt(c); err != nil {
				return err
			}
		}
		return nil
	case *ir.Let:
		t, ok := g.ir.TypeOf(node.ID)
		if !ok {
			return diagnostic.Errorf(diagnostic.UndefinedType, node.ID, "definition %s has no type", node.Name)
		}
		tname, err := typeName(t, node.ID)
		if err != nil {
			return err
		}
		value, err := g.expr(node.Value)
		if err != nil {
			return err
		}
		g.emitLinef("%s %s = %s;\n", tname, symbols.Var(node.ID), value)
		return nil
	case *ir.Assign:
		value, err := g.expr(node.Value)
		if err != nil {
			return err
		}
		g.emitLinef("%s = %s;\n", assignTarget(node), value)
		return nil
	case *ir.If:
		cond, err := g.expr(node.Cond)
		if err != nil {
			return err
		}
		g.emitLinef("if (%s) {\n", cond)
		g.incIndent()
		if err := g.stmt(node.Then); err != nil {
			return err
		}
		g.decIndent()
		if node.Else != nil {
			g.emitLine("} else {")
			g.incIndent()
			if err := g.stmt(node.Else); err != nil {
				return err
			}
			g.decIndent()
		}
		g.emitLine("}")
		return nil
	case *ir.Call:
		if node.IntrinsicName() == fragIntrinsic {
			return g.fragCall(node)
		}
	}

	value, err := g.expr(n)
	if err != nil {
		return err
	}
	g.emitLinef("%s;\n", value)
	return nil
}

// fragCall writes the fragment quote's persists into their varyings. The
// fragment body itself is a separate program.
func (g *generator) fragCall(call *ir.Call) error {
	if len(call.Args) != 1 {
		return diagnostic.Errorf(diagnostic.UnsupportedNode, call.ID, "frag takes exactly one quotation")
	}
	q, ok := call.Args[0].(*ir.Quote)
	if !ok {
		return diagnostic.Errorf(diagnostic.UnsupportedNode, call.ID, "frag argument must be a literal quotation")
	}
	frag := g.ir.Prog(q.ID)
	if frag == nil {
		return diagnostic.Errorf(diagnostic.UndefinedProgram, q.ID, "frag refers to undefined program")
	}
	for _, esc := range frag.Persist {
		value, err := g.expr(esc.Body)
		if err != nil {
			return err
		}
		g.emitLinef("%s = %s;\n", symbols.Persist(esc.ID), value)
	}
	return nil
}

// --- Expressions ---

func exprRules(g *generator, self visit.Func) visit.Rules {
	return visit.Rules{
		ir.KindLiteral: func(n ir.Node) (string, error) {
			return n.(*ir.Literal).Value, nil
		},
		ir.KindLookup: func(n ir.Node) (string, error) {
			lk := n.(*ir.Lookup)
			if lk.IsExtern() {
				return lk.Name, nil
			}
			return symbols.Var(lk.DefID), nil
		},
		ir.KindEscape: func(n ir.Node) (string, error) {
			return symbols.Persist(n.(*ir.Escape).ID), nil
		},
		ir.KindAssign: func(n ir.Node) (string, error) {
			as := n.(*ir.Assign)
			value, err := self(as.Value)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("(%s = %s)", assignTarget(as), value), nil
		},
		ir.KindSeq: func(n ir.Node) (string, error) {
			seq := n.(*ir.Seq)
			parts, err := compileAll(self, seq.Nodes)
			if err != nil {
				return "", err
			}
			if len(parts) == 1 {
				return parts[0], nil
			}
			return "(" + strings.Join(parts, ", ") + ")", nil
		},
		ir.KindBinary: func(n ir.Node) (string, error) {
			b := n.(*ir.Binary)
			left, err := self(b.Left)
			if err != nil {
				return "", err
			}
			right, err := self(b.Right)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("(%s %s %s)", left, b.Op, right), nil
		},
		ir.KindUnary: func(n ir.Node) (string, error) {
			u := n.(*ir.Unary)
			operand, err := self(u.Operand)
			if err != nil {
				return "", err
			}
			// A signed operand is wrapped so "-" "-1" never reads as "--".
			if strings.HasPrefix(operand, "-") || strings.HasPrefix(operand, "+") || strings.HasPrefix(operand, "!") {
				operand = "(" + operand + ")"
			}
			return fmt.Sprintf("(%s%s)", unaryOperator(u.Op), operand), nil
		},
		ir.KindCall: func(n ir.Node) (string, error) {
			call := n.(*ir.Call)
			name := call.IntrinsicName()
			if name == "" {
				return "", diagnostic.Errorf(diagnostic.UnsupportedNode, call.ID, "shader calls must name an intrinsic")
			}
			args, err := compileAll(self, call.Args)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", ")), nil
		},
		ir.KindIf: func(n ir.Node) (string, error) {
			cond := n.(*ir.If)
			if cond.Else == nil {
				return "", diagnostic.Errorf(diagnostic.UnsupportedNode, cond.ID, "conditional expression needs an else branch")
			}
			parts, err := compileAll(self, []ir.Node{cond.Cond, cond.Then, cond.Else})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("(%s ? %s : %s)", parts[0], parts[1], parts[2]), nil
		},
	}
}

func unaryOperator(op string) string {
	if op == "not" {
		return "!"
	}
	return op
}

func assignTarget(as *ir.Assign) string {
	if as.DefID >= 0 {
		return symbols.Var(as.DefID)
	}
	return as.Name
}

func compileAll(self visit.Func, nodes []ir.Node) ([]string, error) {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		s, err := self(n)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// --- Helpers ---

func (g *generator) emitLinef(format string, args ...any) {
	g.sb.WriteString(g.indentStr())
	g.sb.WriteString(fmt.Sprintf(format, args...))
}

func (g *generator) emitLine(s string) {
	g.sb.WriteString(g.indentStr())
	g.sb.WriteString(s)
	g.sb.WriteString("\n")
}

func (g *generator) incIndent() { g.indent++ }
func (g *generator) decIndent() { g.indent-- }

func (g *generator) indentStr() string {
	return strings.Repeat("  ", g.indent)
}
