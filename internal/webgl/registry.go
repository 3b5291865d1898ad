package webgl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lhaig/braid/internal/types"
)

// Names of the stage intrinsics recognised by the host compiler.
const (
	RenderIntrinsic = "render"
	VertexIntrinsic = "vtx"
	FragIntrinsic   = "frag"
)

// Registry holds the shader intrinsic signatures and the uniform setter
// table. It is built once and passed to every component that needs it.
type Registry struct {
	intrinsics map[string]types.Type
	uniforms   map[string]string
}

// NewRegistry builds the WebGL registry.
func NewRegistry() *Registry {
	unary := types.Overload(
		types.NewFun(types.Int, types.Int),
		types.NewFun(types.Float, types.Float),
		types.NewFun(types.Float3, types.Float3),
		types.NewFun(types.Float4, types.Float4),
	)
	binary := types.Overload(
		types.NewFun(types.Int, types.Int, types.Int),
		types.NewFun(types.Float, types.Float, types.Float),
		types.NewFun(types.Float3, types.Float3, types.Float3),
		types.NewFun(types.Float4, types.Float4, types.Float4),
		types.NewFun(types.Float3x3, types.Float3x3, types.Float3x3),
		types.NewFun(types.Float4x4, types.Float4x4, types.Float4x4),
	)
	// Matrix-vector products take the vector on the right only.
	mul := types.Overload(append(append([]*types.Fun{}, binary.Alts...),
		types.NewFun(types.Float3, types.Float3x3, types.Float3),
		types.NewFun(types.Float4, types.Float4x4, types.Float4),
	)...)

	return &Registry{
		intrinsics: map[string]types.Type{
			RenderIntrinsic: types.NewFun(types.Void, &types.Code{Inner: types.AnyType, Annotation: "f"}),
			VertexIntrinsic: types.NewFun(types.Void, &types.Code{Inner: types.AnyType, Annotation: "s"}),
			FragIntrinsic:   types.NewFun(types.Void, &types.Code{Inner: types.AnyType, Annotation: "s"}),

			"gl_Position":  types.Float4,
			"gl_FragColor": types.Float4,

			"vec4": types.Overload(
				types.NewFun(types.Float4, types.Float3, types.Float),
				types.NewFun(types.Float4, types.Float, types.Float, types.Float, types.Float),
				types.NewFun(types.Float4, types.Float),
			),
			"vec3": types.Overload(
				types.NewFun(types.Float3, types.Float4),
				types.NewFun(types.Float3, types.Float, types.Float, types.Float),
				types.NewFun(types.Float3, types.Float),
			),

			"abs":       unary,
			"normalize": unary,
			"pow":       binary,
			"reflect":   binary,
			"dot": types.Overload(
				types.NewFun(types.Float, types.Float3, types.Float3),
				types.NewFun(types.Float, types.Float4, types.Float4),
			),
			"min": binary,
			"max": binary,

			"+": unary.Concat(binary),
			"-": unary.Concat(binary),
			"*": mul,
			"/": binary,
		},
		uniforms: map[string]string{
			"Int":      "uniform1i",
			"Int3":     "uniform3iv",
			"Int4":     "uniform4iv",
			"Float":    "uniform1f",
			"Float3":   "uniform3fv",
			"Float4":   "uniform4fv",
			"Float3x3": "uniformMatrix3fv",
			"Float4x4": "uniformMatrix4fv",
		},
	}
}

// Intrinsic returns the declared type of a shader intrinsic or operator.
func (r *Registry) Intrinsic(name string) (types.Type, bool) {
	t, ok := r.intrinsics[name]
	return t, ok
}

// IntrinsicNames returns every declared name in sorted order.
func (r *Registry) IntrinsicNames() []string {
	names := make([]string, 0, len(r.intrinsics))
	for name := range r.intrinsics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve checks a call of a registered intrinsic against actual argument
// types and returns the result type of the first matching overload.
func (r *Registry) Resolve(name string, args ...types.Type) (types.Type, error) {
	t, ok := r.intrinsics[name]
	if !ok {
		return nil, fmt.Errorf("type error: unknown intrinsic %s", name)
	}
	return types.Apply(t, args)
}

// UniformSetter returns the WebGL function that uploads a uniform of the
// named primitive type.
func (r *Registry) UniformSetter(primitive string) (string, bool) {
	fn, ok := r.uniforms[primitive]
	return fn, ok
}

// isMatrixSetter reports whether a setter takes a transpose argument.
func isMatrixSetter(fn string) bool {
	return strings.Contains(fn, "Matrix")
}
