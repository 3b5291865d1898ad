package glslbe

import (
	"strings"
	"testing"

	"github.com/lhaig/braid/internal/diagnostic"
	"github.com/lhaig/braid/internal/ir"
	"github.com/lhaig/braid/internal/types"
)

func extern(id int, name string) *ir.Lookup {
	return &ir.Lookup{ID: id, Name: name, DefID: -1}
}

// varyingIR builds a vertex program that computes a color and hands it to
// its fragment program through a persist.
func varyingIR() *ir.CompilerIR {
	color := &ir.Escape{ID: 30, Body: &ir.Lookup{ID: 31, Name: "color", DefID: 40}}
	vertexBody := &ir.Seq{ID: 10, Nodes: []ir.Node{
		&ir.Let{ID: 40, Name: "color", Value: &ir.Call{ID: 41, Fun: extern(42, "vec3"), Args: []ir.Node{
			&ir.Literal{ID: 43, Value: "1.0"},
		}}},
		&ir.Call{ID: 44, Fun: extern(45, "frag"), Args: []ir.Node{&ir.Quote{ID: 2, Annotation: "s"}}},
	}}
	fragBody := &ir.Assign{ID: 50, Name: "gl_FragColor", DefID: -1, Value: &ir.Call{
		ID:   51,
		Fun:  extern(52, "vec4"),
		Args: []ir.Node{color, &ir.Literal{ID: 53, Value: "1.0"}},
	}}
	return &ir.CompilerIR{
		Progs: []*ir.Program{
			{ID: 0, Role: ir.RoleHost, Parent: -1},
			{ID: 1, Role: ir.RoleVertex, Parent: 0, Body: vertexBody, QuoteChildren: []int{2}},
			{ID: 2, Role: ir.RoleFragment, Parent: 1, Body: fragBody, Persist: []*ir.Escape{color}},
		},
		Types: map[int]types.Type{
			30: types.Float3,
			31: types.Float3,
			40: types.Float3,
		},
	}
}

func TestKind(t *testing.T) {
	c := varyingIR()
	tests := []struct {
		id   int
		want ProgKind
	}{
		{0, NotShader},
		{1, Vertex},
		{2, Fragment},
		{9, NotShader},
	}
	for _, tt := range tests {
		if got := Kind(c, tt.id); got != tt.want {
			t.Errorf("Kind(%d) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestCompileVertexWithVarying(t *testing.T) {
	got, err := CompileProg(varyingIR(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "varying vec3 p30;\n" +
		"void main() {\n" +
		"  vec3 v40 = vec3(1.0);\n" +
		"  p30 = v40;\n" +
		"}\n"
	if got != want {
		t.Errorf("unexpected vertex source:\n%s\nwant:\n%s", got, want)
	}
}

func TestCompileFragment(t *testing.T) {
	got, err := CompileProg(varyingIR(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "precision mediump float;\n" +
		"varying vec3 p30;\n" +
		"void main() {\n" +
		"  gl_FragColor = vec4(p30, 1.0);\n" +
		"}\n"
	if got != want {
		t.Errorf("unexpected fragment source:\n%s\nwant:\n%s", got, want)
	}
}

func TestCompileEmptyFragment(t *testing.T) {
	c := &ir.CompilerIR{Progs: []*ir.Program{{ID: 0, Role: ir.RoleFragment, Parent: -1}}}
	got, err := CompileProg(c, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "precision mediump float;\nvoid main() {\n}\n" {
		t.Errorf("got:\n%s", got)
	}
}

func TestCompileVertexInputs(t *testing.T) {
	proj := &ir.Escape{ID: 10, Body: &ir.Lookup{ID: 11, Name: "projection", DefID: 60}}
	pos := &ir.Escape{ID: 12, Body: &ir.Lookup{ID: 13, Name: "position", DefID: 61}}
	body := &ir.Assign{ID: 20, Name: "gl_Position", DefID: -1, Value: &ir.Binary{
		ID:    21,
		Op:    "*",
		Left:  proj,
		Right: &ir.Call{ID: 22, Fun: extern(23, "vec4"), Args: []ir.Node{pos, &ir.Lookup{ID: 24, Name: "w", DefID: 62}}},
	}}
	c := &ir.CompilerIR{
		Progs: []*ir.Program{
			{ID: 0, Role: ir.RoleVertex, Parent: -1, Body: body, Persist: []*ir.Escape{proj, pos}, Free: []int{62}},
		},
		Types: map[int]types.Type{
			11: types.Float4x4,
			13: types.ArrayOf(types.Float3),
			62: types.Float,
		},
	}

	got, err := CompileProg(c, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "uniform mat4 p10;\n" +
		"attribute vec3 p12;\n" +
		"uniform float v62;\n" +
		"void main() {\n" +
		"  gl_Position = (p10 * vec4(p12, v62));\n" +
		"}\n"
	if got != want {
		t.Errorf("unexpected vertex source:\n%s\nwant:\n%s", got, want)
	}
}

func TestCompileIfStatement(t *testing.T) {
	body := &ir.If{
		ID:   1,
		Cond: &ir.Lookup{ID: 2, Name: "flag", DefID: 70},
		Then: &ir.Assign{ID: 3, Name: "gl_FragColor", DefID: -1, Value: &ir.Call{ID: 4, Fun: extern(5, "vec4"), Args: []ir.Node{&ir.Literal{ID: 6, Value: "1.0"}}}},
		Else: &ir.Assign{ID: 7, Name: "gl_FragColor", DefID: -1, Value: &ir.Call{ID: 8, Fun: extern(9, "vec4"), Args: []ir.Node{&ir.Literal{ID: 10, Value: "0.0"}}}},
	}
	flag := &ir.Escape{ID: 11, Body: &ir.Lookup{ID: 12, Name: "flag", DefID: 70}}
	c := &ir.CompilerIR{
		Progs: []*ir.Program{{ID: 0, Role: ir.RoleFragment, Parent: -1, Body: body, Persist: []*ir.Escape{flag}}},
		Types: map[int]types.Type{12: types.Bool},
	}

	got, err := CompileProg(c, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"varying bool p11;\n",
		"  if (v70) {\n    gl_FragColor = vec4(1.0);\n  } else {\n    gl_FragColor = vec4(0.0);\n  }\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		prog *ir.Program
		tys  map[int]types.Type
		kind diagnostic.Kind
	}{
		{
			name: "host program",
			prog: &ir.Program{ID: 0, Role: ir.RoleHost, Parent: -1},
			kind: diagnostic.UnsupportedNode,
		},
		{
			name: "fragment free variable",
			prog: &ir.Program{ID: 0, Role: ir.RoleFragment, Parent: -1, Free: []int{5}},
			tys:  map[int]types.Type{5: types.Float},
			kind: diagnostic.UnsupportedNode,
		},
		{
			name: "nested array attribute",
			prog: &ir.Program{ID: 0, Role: ir.RoleVertex, Parent: -1, Free: []int{5}},
			tys:  map[int]types.Type{5: types.ArrayOf(types.ArrayOf(types.Float))},
			kind: diagnostic.AttributeType,
		},
		{
			name: "function input",
			prog: &ir.Program{ID: 0, Role: ir.RoleVertex, Parent: -1, Free: []int{5}},
			tys:  map[int]types.Type{5: types.NewFun(types.Float, types.Float)},
			kind: diagnostic.PersistType,
		},
		{
			name: "string uniform",
			prog: &ir.Program{ID: 0, Role: ir.RoleVertex, Parent: -1, Free: []int{5}},
			tys:  map[int]types.Type{5: types.String},
			kind: diagnostic.PersistType,
		},
		{
			name: "untyped input",
			prog: &ir.Program{ID: 0, Role: ir.RoleVertex, Parent: -1, Free: []int{5}},
			kind: diagnostic.UndefinedType,
		},
		{
			name: "call of a local function",
			prog: &ir.Program{ID: 0, Role: ir.RoleVertex, Parent: -1, Body: &ir.Call{
				ID: 1, Fun: &ir.Lookup{ID: 2, Name: "f", DefID: 3},
			}},
			kind: diagnostic.UnsupportedNode,
		},
		{
			name: "conditional expression without else",
			prog: &ir.Program{ID: 0, Role: ir.RoleVertex, Parent: -1, Body: &ir.Assign{
				ID: 1, Name: "gl_Position", DefID: -1,
				Value: &ir.If{ID: 2, Cond: &ir.Literal{ID: 3, Value: "true"}, Then: &ir.Literal{ID: 4, Value: "1.0"}},
			}},
			kind: diagnostic.UnsupportedNode,
		},
		{
			name: "quote in shader code",
			prog: &ir.Program{ID: 0, Role: ir.RoleVertex, Parent: -1, Body: &ir.Quote{ID: 1, Annotation: "s"}},
			kind: diagnostic.UnsupportedNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &ir.CompilerIR{Progs: []*ir.Program{tt.prog}, Types: tt.tys}
			_, err := CompileProg(c, 0)
			if !diagnostic.IsKind(err, tt.kind) {
				t.Errorf("expected %s error, got %v", tt.kind, err)
			}
		})
	}
}

func TestCompileUndefinedProgram(t *testing.T) {
	_, err := CompileProg(&ir.CompilerIR{}, 3)
	if !diagnostic.IsKind(err, diagnostic.UndefinedProgram) {
		t.Errorf("expected undefined-program error, got %v", err)
	}
}

func TestCompileUnaryOperators(t *testing.T) {
	tests := []struct {
		name    string
		operand ir.Node
		op      string
		want    string
	}{
		{"negation", &ir.Lookup{ID: 3, Name: "x", DefID: 4}, "-", "(-v4)"},
		{"nested negation", &ir.Unary{ID: 3, Op: "-", Operand: &ir.Lookup{ID: 5, Name: "x", DefID: 4}}, "-", "(-(-v4))"},
		{"negated negative literal", &ir.Literal{ID: 3, Value: "-1.0"}, "-", "(-(-1.0))"},
		{"not", &ir.Lookup{ID: 3, Name: "flag", DefID: 6}, "not", "(!v6)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := &ir.Assign{ID: 1, Name: "gl_FragColor", DefID: -1, Value: &ir.Unary{ID: 2, Op: tt.op, Operand: tt.operand}}
			c := &ir.CompilerIR{Progs: []*ir.Program{{ID: 0, Role: ir.RoleFragment, Parent: -1, Body: body}}}
			got, err := CompileProg(c, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := "  gl_FragColor = " + tt.want + ";\n"
			if !strings.Contains(got, want) {
				t.Errorf("expected %q in:\n%s", want, got)
			}
		})
	}
}
