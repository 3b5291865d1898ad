package webgl

import (
	"fmt"

	"github.com/lhaig/braid/internal/diagnostic"
	"github.com/lhaig/braid/internal/ir"
	"github.com/lhaig/braid/internal/jsbe"
	"github.com/lhaig/braid/internal/symbols"
	"github.com/lhaig/braid/internal/types"
)

// EmitLocation emits the declaration of the host local that holds the
// location of a shader variable. scopeID is the vertex program whose linked
// shader is queried. valueID is the value being communicated and varID the
// variable as the shader sees it; the two are equal for free variables and
// are the escape body and escape for persists.
func EmitLocation(c *ir.CompilerIR, scopeID, valueID, varID int, persist bool) (string, error) {
	t, ok := c.TypeOf(valueID)
	if !ok {
		return "", diagnostic.Errorf(diagnostic.UndefinedType, valueID, "cross-stage value has no type")
	}

	// An array type indicates an attribute, anything else a uniform.
	fn := "getUniformLocation"
	if _, isArray := types.ElementOf(t); isArray {
		fn = "getAttribLocation"
	}

	varname := symbols.Var(varID)
	if persist {
		varname = symbols.Persist(varID)
	}
	return jsbe.EmitVar(
		symbols.Location(varID, persist),
		fmt.Sprintf("gl.%s(%s, %s)", fn, symbols.Shader(scopeID), jsbe.EmitString(varname)),
		false,
	), nil
}

// EmitBinding emits the WebGL call that uploads one cross-stage value. value
// is the already compiled host expression for it.
func EmitBinding(reg *Registry, c *ir.CompilerIR, valueID, varID int, persist bool, value string) (string, error) {
	t, ok := c.TypeOf(valueID)
	if !ok {
		return "", diagnostic.Errorf(diagnostic.UndefinedType, valueID, "cross-stage value has no type")
	}
	loc := symbols.Location(varID, persist)

	// Primitive types are bound as uniforms.
	if p, ok := t.(*types.Primitive); ok {
		fn, ok := reg.UniformSetter(p.Name)
		if !ok {
			return "", diagnostic.Errorf(diagnostic.UniformType, valueID, "unsupported uniform type %s", p.Name)
		}
		if isMatrixSetter(fn) {
			return fmt.Sprintf("gl.%s(%s, false, %s)", fn, loc, jsbe.Paren(value)), nil
		}
		return fmt.Sprintf("gl.%s(%s, %s)", fn, loc, jsbe.Paren(value)), nil
	}

	// Array types are bound as attributes.
	if elem, ok := types.ElementOf(t); ok {
		if _, ok := elem.(*types.Primitive); !ok {
			return "", diagnostic.Errorf(diagnostic.AttributeType, valueID, "attributes must be primitive types, got %s", t)
		}
		return fmt.Sprintf("bind_attribute(gl, %s, %s)", loc, jsbe.Paren(value)), nil
	}

	return "", diagnostic.Errorf(diagnostic.PersistType, valueID, "persisted values must be primitive or array types, got %s", t)
}
