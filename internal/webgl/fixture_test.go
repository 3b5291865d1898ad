package webgl

import (
	"github.com/lhaig/braid/internal/ir"
	"github.com/lhaig/braid/internal/types"
)

// sceneIR builds a program that draws with one vertex/fragment pair:
//
//	def main(projection, position) = vtx <
//	  gl_Position = [projection] * vec4([position]);
//	  frag < >
//	>
func sceneIR() *ir.CompilerIR {
	projection := &ir.Escape{ID: 10, Body: &ir.Lookup{ID: 11, Name: "projection", DefID: 50}}
	position := &ir.Escape{ID: 12, Body: &ir.Lookup{ID: 13, Name: "position", DefID: 51}}

	fragQuote := &ir.Quote{ID: 2, Annotation: "s"}
	vertexBody := &ir.Seq{ID: 20, Nodes: []ir.Node{
		&ir.Assign{ID: 21, Name: "gl_Position", DefID: -1, Value: &ir.Binary{
			ID:    22,
			Op:    "*",
			Left:  projection,
			Right: &ir.Call{ID: 23, Fun: &ir.Lookup{ID: 25, Name: "vec4", DefID: -1}, Args: []ir.Node{position}},
		}},
		&ir.Call{ID: 24, Fun: &ir.Lookup{ID: 26, Name: "frag", DefID: -1}, Args: []ir.Node{fragQuote}},
	}}
	vertexQuote := &ir.Quote{ID: 1, Annotation: "s", Body: vertexBody}

	return &ir.CompilerIR{
		Progs: []*ir.Program{
			nil,
			{
				ID:            1,
				Role:          ir.RoleVertex,
				Body:          vertexBody,
				Parent:        -1,
				QuoteChildren: []int{2},
				Persist:       []*ir.Escape{projection, position},
			},
			{
				ID:     2,
				Role:   ir.RoleFragment,
				Parent: 1,
			},
		},
		Types: map[int]types.Type{
			10: types.Float4x4,
			11: types.Float4x4,
			12: types.Float,
			13: types.ArrayOf(types.Float),
			50: types.Float4x4,
			51: types.ArrayOf(types.Float),
		},
		Main: &ir.Proc{
			ID:     100,
			Name:   "main",
			Params: []int{50, 51},
			Body: &ir.Call{
				ID:   101,
				Fun:  &ir.Lookup{ID: 102, Name: "vtx", DefID: -1},
				Args: []ir.Node{vertexQuote},
			},
		},
	}
}

// persistIR builds a single vertex program persisting one value of type t.
func persistIR(t types.Type) *ir.CompilerIR {
	esc := &ir.Escape{ID: 7, Body: &ir.Lookup{ID: 8, Name: "x", DefID: 9}}
	return &ir.CompilerIR{
		Progs: []*ir.Program{
			{ID: 0, Role: ir.RoleVertex, Parent: -1, QuoteChildren: []int{1}, Persist: []*ir.Escape{esc}, Body: esc},
			{ID: 1, Role: ir.RoleFragment, Parent: 0},
		},
		Types: map[int]types.Type{8: t, 9: t},
		Main:  &ir.Proc{ID: 99, Name: "main", Body: &ir.Literal{ID: 98, Value: "0"}},
	}
}
