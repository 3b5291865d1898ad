package jsbe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/lhaig/braid/internal/diagnostic"
	"github.com/lhaig/braid/internal/ir"
	"github.com/lhaig/braid/internal/symbols"
	"github.com/lhaig/braid/internal/visit"
)

// Compiler returns the plain JavaScript compiler for host code.
func Compiler(c *ir.CompilerIR) visit.Func {
	return visit.Tie(func(self visit.Func) visit.Rules {
		return Rules(self, c)
	})
}

// Rules returns the base JavaScript rule table. Nested nodes are compiled
// through self so that tables derived with visit.Compose see their own
// overrides.
func Rules(self visit.Func, c *ir.CompilerIR) visit.Rules {
	g := &generator{self: self, ir: c}
	return visit.Rules{
		ir.KindLiteral: g.literal,
		ir.KindLookup:  g.lookup,
		ir.KindLet:     g.let,
		ir.KindAssign:  g.assign,
		ir.KindSeq:     g.seq,
		ir.KindBinary:  g.binary,
		ir.KindUnary:   g.unary,
		ir.KindCall:    g.call,
		ir.KindIf:      g.ifExpr,
		ir.KindQuote:   g.quote,
		ir.KindEscape:  g.escape,
		ir.KindRun:     g.run,
	}
}

type generator struct {
	self visit.Func
	ir   *ir.CompilerIR
}

func (g *generator) literal(n ir.Node) (string, error) {
	return n.(*ir.Literal).Value, nil
}

func (g *generator) lookup(n ir.Node) (string, error) {
	lk := n.(*ir.Lookup)
	if lk.IsExtern() {
		return lk.Name, nil
	}
	return symbols.Var(lk.DefID), nil
}

func (g *generator) let(n ir.Node) (string, error) {
	let := n.(*ir.Let)
	value, err := g.self(let.Value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s = %s)", symbols.Var(let.ID), value), nil
}

func (g *generator) assign(n ir.Node) (string, error) {
	as := n.(*ir.Assign)
	value, err := g.self(as.Value)
	if err != nil {
		return "", err
	}
	target := as.Name
	if as.DefID >= 0 {
		target = symbols.Var(as.DefID)
	}
	return fmt.Sprintf("(%s = %s)", target, value), nil
}

func (g *generator) seq(n ir.Node) (string, error) {
	seq := n.(*ir.Seq)
	if len(seq.Nodes) == 0 {
		return "undefined", nil
	}
	parts, err := g.compileAll(seq.Nodes)
	if err != nil {
		return "", err
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

func (g *generator) binary(n ir.Node) (string, error) {
	b := n.(*ir.Binary)
	left, err := g.self(b.Left)
	if err != nil {
		return "", err
	}
	right, err := g.self(b.Right)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s %s %s)", left, mapOperator(b.Op), right), nil
}

func (g *generator) unary(n ir.Node) (string, error) {
	u := n.(*ir.Unary)
	operand, err := g.self(u.Operand)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s%s)", mapOperator(u.Op), Paren(operand)), nil
}

func (g *generator) call(n ir.Node) (string, error) {
	call := n.(*ir.Call)
	fun, err := g.self(call.Fun)
	if err != nil {
		return "", err
	}
	args, err := g.compileAll(call.Args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", fun, strings.Join(args, ", ")), nil
}

func (g *generator) ifExpr(n ir.Node) (string, error) {
	cond := n.(*ir.If)
	c, err := g.self(cond.Cond)
	if err != nil {
		return "", err
	}
	t, err := g.self(cond.Then)
	if err != nil {
		return "", err
	}
	e := "undefined"
	if cond.Else != nil {
		e, err = g.self(cond.Else)
		if err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("(%s ? %s : %s)", c, t, e), nil
}

// quote produces the quoted program's function with its persists and free
// variables bound as leading arguments. Shader quotes are plain references
// to the program's source constant.
func (g *generator) quote(n ir.Node) (string, error) {
	q := n.(*ir.Quote)
	prog := g.ir.Prog(q.ID)
	if prog == nil {
		return "", diagnostic.Errorf(diagnostic.UndefinedProgram, q.ID, "quote refers to undefined program")
	}
	if prog.Role.IsShader() {
		return symbols.Prog(prog.ID), nil
	}

	var args []string
	for _, esc := range prog.Persist {
		value, err := g.self(esc.Body)
		if err != nil {
			return "", err
		}
		args = append(args, value)
	}
	for _, fv := range prog.Free {
		args = append(args, symbols.Var(fv))
	}
	if len(args) == 0 {
		return symbols.Prog(prog.ID), nil
	}
	return fmt.Sprintf("%s.bind(null, %s)", symbols.Prog(prog.ID), strings.Join(args, ", ")), nil
}

func (g *generator) escape(n ir.Node) (string, error) {
	return symbols.Persist(n.(*ir.Escape).ID), nil
}

func (g *generator) run(n ir.Node) (string, error) {
	expr, err := g.self(n.(*ir.Run).Expr)
	if err != nil {
		return "", err
	}
	return Paren(expr) + "()", nil
}

func (g *generator) compileAll(nodes []ir.Node) ([]string, error) {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		s, err := g.self(n)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// --- Top-level emission ---

// EmitProg emits a host program as a function taking its persists and then
// its free variables.
func EmitProg(compile visit.Func, c *ir.CompilerIR, prog *ir.Program) (string, error) {
	var params []string
	for _, esc := range prog.Persist {
		params = append(params, symbols.Persist(esc.ID))
	}
	for _, fv := range prog.Free {
		params = append(params, symbols.Var(fv))
	}
	body, err := compile(prog.Body)
	if err != nil {
		return "", err
	}
	return EmitFun(symbols.Prog(prog.ID), params, localNames(prog.Body), "return "+body+";"), nil
}

// EmitProc emits a host procedure as a named function declaration.
func EmitProc(compile visit.Func, c *ir.CompilerIR, proc *ir.Proc) (string, error) {
	if proc == nil {
		return "", diagnostic.Errorf(diagnostic.MissingEntry, -1, "IR has no entry procedure")
	}
	params := make([]string, len(proc.Params))
	for i, id := range proc.Params {
		params[i] = symbols.Var(id)
	}
	body, err := compile(proc.Body)
	if err != nil {
		return "", err
	}
	return EmitFun(ProcName(proc), params, localNames(proc.Body), "return "+body+";"), nil
}

// ProcName returns the emitted name of a procedure.
func ProcName(proc *ir.Proc) string {
	if proc.Name == "" {
		return symbols.Entry
	}
	return proc.Name
}

func localNames(body ir.Node) []string {
	var names []string
	for _, let := range ir.Locals(body) {
		names = append(names, symbols.Var(let.ID))
	}
	return names
}

// EmitFun emits a function declaration. An empty name produces a
// parenthesized anonymous function expression.
func EmitFun(name string, params, locals []string, body string) string {
	w := &writer{}
	anon := name == ""
	if anon {
		w.emit("(")
	}
	w.emit("function ")
	w.emit(name)
	w.emitf("(%s) {\n", strings.Join(params, ", "))
	w.incIndent()
	if len(locals) > 0 {
		w.emitLinef("var %s;\n", strings.Join(locals, ", "))
	}
	for _, line := range strings.Split(body, "\n") {
		w.emitLine(line)
	}
	w.decIndent()
	w.emit("}")
	if anon {
		w.emit(")")
	}
	return w.sb.String()
}

// EmitVar emits a variable declaration statement.
func EmitVar(name, value string, isConst bool) string {
	kw := "var"
	if isConst {
		kw = "const"
	}
	return fmt.Sprintf("%s %s = %s;", kw, name, value)
}

// EmitString emits s as a double-quoted JavaScript string literal.
func EmitString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string into a bytes.Buffer cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

var simpleExpr = regexp.MustCompile(`^[A-Za-z0-9_$.]+$`)

// Paren wraps an expression in parentheses unless it is a bare name or
// number or is already wrapped.
func Paren(s string) string {
	if simpleExpr.MatchString(s) || wrapped(s) {
		return s
	}
	return "(" + s + ")"
}

// wrapped reports whether s is a single parenthesized group. Strings
// containing quotes are never treated as wrapped.
func wrapped(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' || strings.ContainsAny(s, "\"'`") {
		return false
	}
	depth := 0
	for i, ch := range s {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}

// --- Helpers ---

type writer struct {
	sb     strings.Builder
	indent int
}

func (w *writer) emit(s string) {
	w.sb.WriteString(s)
}

func (w *writer) emitf(format string, args ...any) {
	w.sb.WriteString(fmt.Sprintf(format, args...))
}

func (w *writer) emitLinef(format string, args ...any) {
	w.sb.WriteString(w.indentStr())
	w.sb.WriteString(fmt.Sprintf(format, args...))
}

func (w *writer) emitLine(s string) {
	if s == "" {
		w.sb.WriteString("\n")
	} else {
		w.sb.WriteString(w.indentStr())
		w.sb.WriteString(s)
		w.sb.WriteString("\n")
	}
}

func (w *writer) incIndent() { w.indent++ }
func (w *writer) decIndent() { w.indent-- }

func (w *writer) indentStr() string {
	return strings.Repeat("  ", w.indent)
}

func mapOperator(op string) string {
	switch op {
	case "==":
		return "==="
	case "!=":
		return "!=="
	case "and":
		return "&&"
	case "or":
		return "||"
	case "not":
		return "!"
	default:
		return op
	}
}
