package jsbe

import (
	"strings"
	"testing"

	"github.com/lhaig/braid/internal/diagnostic"
	"github.com/lhaig/braid/internal/ir"
	"github.com/lhaig/braid/internal/types"
	"github.com/lhaig/braid/internal/visit"
)

func TestCompileExpressions(t *testing.T) {
	c := &ir.CompilerIR{Types: map[int]types.Type{}}
	compile := Compiler(c)

	tests := []struct {
		name string
		node ir.Node
		want string
	}{
		{"literal", &ir.Literal{ID: 1, Value: "1.5"}, "1.5"},
		{"local lookup", &ir.Lookup{ID: 1, Name: "x", DefID: 4}, "v4"},
		{"extern lookup", &ir.Lookup{ID: 1, Name: "gl", DefID: -1}, "gl"},
		{"let", &ir.Let{ID: 5, Name: "x", Value: &ir.Literal{ID: 6, Value: "2"}}, "(v5 = 2)"},
		{"assign", &ir.Assign{ID: 7, Name: "x", DefID: 5, Value: &ir.Literal{ID: 8, Value: "3"}}, "(v5 = 3)"},
		{
			"binary equality",
			&ir.Binary{ID: 1, Op: "==", Left: &ir.Literal{ID: 2, Value: "1"}, Right: &ir.Literal{ID: 3, Value: "2"}},
			"(1 === 2)",
		},
		{"unary", &ir.Unary{ID: 1, Op: "-", Operand: &ir.Lookup{ID: 2, Name: "x", DefID: 9}}, "(-v9)"},
		{
			"nested negation",
			&ir.Unary{ID: 1, Op: "-", Operand: &ir.Unary{ID: 2, Op: "-", Operand: &ir.Lookup{ID: 3, Name: "x", DefID: 4}}},
			"(-(-v4))",
		},
		{"negated negative literal", &ir.Unary{ID: 1, Op: "-", Operand: &ir.Literal{ID: 2, Value: "-1"}}, "(-(-1))"},
		{"not", &ir.Unary{ID: 1, Op: "not", Operand: &ir.Lookup{ID: 2, Name: "ok", DefID: 5}}, "(!v5)"},
		{
			"call",
			&ir.Call{ID: 1, Fun: &ir.Lookup{ID: 2, Name: "vec3", DefID: -1}, Args: []ir.Node{
				&ir.Literal{ID: 3, Value: "1"}, &ir.Literal{ID: 4, Value: "2"},
			}},
			"vec3(1, 2)",
		},
		{
			"if without else",
			&ir.If{ID: 1, Cond: &ir.Literal{ID: 2, Value: "true"}, Then: &ir.Literal{ID: 3, Value: "1"}},
			"(true ? 1 : undefined)",
		},
		{"empty seq", &ir.Seq{ID: 1}, "undefined"},
		{
			"seq",
			&ir.Seq{ID: 1, Nodes: []ir.Node{&ir.Literal{ID: 2, Value: "1"}, &ir.Literal{ID: 3, Value: "2"}}},
			"(1, 2)",
		},
		{"escape", &ir.Escape{ID: 12, Body: &ir.Literal{ID: 13, Value: "1"}}, "p12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compile(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCompileQuoteAndRun(t *testing.T) {
	esc := &ir.Escape{ID: 3, Body: &ir.Lookup{ID: 4, Name: "n", DefID: 20}}
	c := &ir.CompilerIR{
		Progs: []*ir.Program{
			nil,
			{ID: 1, Role: ir.RoleHost, Parent: -1, Body: esc, Persist: []*ir.Escape{esc}, Free: []int{21}},
			{ID: 2, Role: ir.RoleHost, Parent: -1, Body: &ir.Literal{ID: 5, Value: "0"}},
			{ID: 3, Role: ir.RoleVertex, Parent: -1},
		},
	}
	compile := Compiler(c)

	got, err := compile(&ir.Run{ID: 9, Expr: &ir.Quote{ID: 1, Annotation: "f", Body: esc}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "(q1.bind(null, v20, v21))()" {
		t.Errorf("got %s", got)
	}

	got, err = compile(&ir.Quote{ID: 2, Annotation: "f"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "q2" {
		t.Errorf("expected bare reference for quote without persists, got %s", got)
	}

	got, err = compile(&ir.Quote{ID: 3, Annotation: "s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "q3" {
		t.Errorf("expected shader source reference, got %s", got)
	}

	_, err = compile(&ir.Quote{ID: 8, Annotation: "f"})
	if !diagnostic.IsKind(err, diagnostic.UndefinedProgram) {
		t.Errorf("expected undefined-program error, got %v", err)
	}
}

func TestEmitProg(t *testing.T) {
	esc := &ir.Escape{ID: 3, Body: &ir.Lookup{ID: 4, Name: "n", DefID: 20}}
	body := &ir.Seq{ID: 6, Nodes: []ir.Node{
		&ir.Let{ID: 7, Name: "y", Value: esc},
		&ir.Binary{ID: 8, Op: "+", Left: &ir.Lookup{ID: 9, Name: "y", DefID: 7}, Right: &ir.Lookup{ID: 10, Name: "z", DefID: 21}},
	}}
	prog := &ir.Program{ID: 1, Role: ir.RoleHost, Parent: -1, Body: body, Persist: []*ir.Escape{esc}, Free: []int{21}}
	c := &ir.CompilerIR{Progs: []*ir.Program{nil, prog}}

	got, err := EmitProg(Compiler(c), c, prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "function q1(p3, v21) {\n" +
		"  var v7;\n" +
		"  return ((v7 = p3), (v7 + v21));\n" +
		"}"
	if got != want {
		t.Errorf("unexpected program:\n%s\nwant:\n%s", got, want)
	}
}

func TestEmitProc(t *testing.T) {
	proc := &ir.Proc{ID: 1, Params: []int{2}, Body: &ir.Lookup{ID: 3, Name: "x", DefID: 2}}
	c := &ir.CompilerIR{Main: proc}

	got, err := EmitProc(Compiler(c), c, proc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "function main(v2) {\n  return v2;\n}" {
		t.Errorf("got:\n%s", got)
	}

	if _, err := EmitProc(Compiler(c), c, nil); !diagnostic.IsKind(err, diagnostic.MissingEntry) {
		t.Errorf("expected missing-entry error, got %v", err)
	}
}

func TestEmitFunAnonymous(t *testing.T) {
	got := EmitFun("", nil, nil, "var a = 1;\n\nreturn a;")
	want := "(function () {\n  var a = 1;\n\n  return a;\n})"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEmitVar(t *testing.T) {
	if got := EmitVar("s1", "x", false); got != "var s1 = x;" {
		t.Errorf("got %s", got)
	}
	if got := EmitVar("q1", `"src"`, true); got != `const q1 = "src";` {
		t.Errorf("got %s", got)
	}
}

func TestEmitString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", `"plain"`},
		{"a\nb", `"a\nb"`},
		{`say "hi"`, `"say \"hi\""`},
		{"x < y && z", `"x < y && z"`},
	}
	for _, tt := range tests {
		if got := EmitString(tt.in); got != tt.want {
			t.Errorf("EmitString(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParen(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"v1", "v1"},
		{"1.5", "1.5"},
		{"a.b", "a.b"},
		{"(a + b)", "(a + b)"},
		{"(a)(b)", "((a)(b))"},
		{"f(x)", "(f(x))"},
		{`("(")`, `(("("))`},
	}
	for _, tt := range tests {
		if got := Paren(tt.in); got != tt.want {
			t.Errorf("Paren(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRulesComposeWithOverride(t *testing.T) {
	c := &ir.CompilerIR{}
	compile := visit.Tie(func(self visit.Func) visit.Rules {
		return visit.Compose(Rules(self, c), visit.Rules{
			ir.KindLiteral: func(n ir.Node) (string, error) {
				return "L", nil
			},
		})
	})

	got, err := compile(&ir.Binary{ID: 1, Op: "+", Left: &ir.Literal{ID: 2, Value: "1"}, Right: &ir.Literal{ID: 3, Value: "2"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "(L + L)") {
		t.Errorf("expected override to apply to nested nodes, got %s", got)
	}
}
