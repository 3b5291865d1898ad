package types

import (
	"fmt"
	"strings"
)

// Type is a resolved type in the staged IR. It is one of *Primitive,
// *Instance, *Fun, *Overloaded, *Code or *Any.
type Type interface {
	String() string
	typeNode()
}

// Primitive is a named scalar, vector or matrix type.
type Primitive struct {
	Name string
}

func (t *Primitive) String() string { return t.Name }
func (*Primitive) typeNode()        {}

// Constructor is a generic type constructor such as Array.
type Constructor struct {
	Name string
}

// Instance applies a Constructor to a single argument type.
type Instance struct {
	Cons *Constructor
	Arg  Type
}

func (t *Instance) String() string { return t.Cons.Name + "<" + t.Arg.String() + ">" }
func (*Instance) typeNode()        {}

// Fun is a function signature with ordered parameters.
type Fun struct {
	Params []Type
	Ret    Type
}

func (t *Fun) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return strings.Join(params, " ") + " -> " + t.Ret.String()
}
func (*Fun) typeNode() {}

// Overloaded is an ordered set of alternative signatures sharing a name.
type Overloaded struct {
	Alts []*Fun
}

func (t *Overloaded) String() string {
	alts := make([]string, len(t.Alts))
	for i, a := range t.Alts {
		alts[i] = a.String()
	}
	return strings.Join(alts, " | ")
}
func (*Overloaded) typeNode() {}

// Concat returns a new overload set with the alternatives of a followed by
// those of b.
func (t *Overloaded) Concat(b *Overloaded) *Overloaded {
	alts := make([]*Fun, 0, len(t.Alts)+len(b.Alts))
	alts = append(alts, t.Alts...)
	alts = append(alts, b.Alts...)
	return &Overloaded{Alts: alts}
}

// Code is the type of a quotation whose body has type Inner and runs in the
// stage named by Annotation ("s" for shaders, "f" for host functions).
type Code struct {
	Inner      Type
	Annotation string
}

func (t *Code) String() string { return t.Annotation + "<" + t.Inner.String() + ">" }
func (*Code) typeNode()        {}

// Any matches every type.
type Any struct{}

func (*Any) String() string { return "Any" }
func (*Any) typeNode()      {}

// Builtin types
var (
	Int      = &Primitive{Name: "Int"}
	Int3     = &Primitive{Name: "Int3"}
	Int4     = &Primitive{Name: "Int4"}
	Float    = &Primitive{Name: "Float"}
	Float3   = &Primitive{Name: "Float3"}
	Float4   = &Primitive{Name: "Float4"}
	Float3x3 = &Primitive{Name: "Float3x3"}
	Float4x4 = &Primitive{Name: "Float4x4"}
	Bool     = &Primitive{Name: "Bool"}
	String   = &Primitive{Name: "String"}
	Void     = &Primitive{Name: "Void"}

	AnyType = &Any{}

	Array = &Constructor{Name: "Array"}
)

var primitives = []*Primitive{
	Int, Int3, Int4, Float, Float3, Float4, Float3x3, Float4x4, Bool, String, Void,
}

// ArrayOf returns Array<elem>.
func ArrayOf(elem Type) *Instance {
	return &Instance{Cons: Array, Arg: elem}
}

// NewFun builds a signature from its parameters and return type.
func NewFun(ret Type, params ...Type) *Fun {
	return &Fun{Params: params, Ret: ret}
}

// Overload builds an overload set from alternatives in declaration order.
func Overload(alts ...*Fun) *Overloaded {
	return &Overloaded{Alts: alts}
}

// ElementOf returns the element type of an Array instance. ok is false for
// every other shape.
func ElementOf(t Type) (elem Type, ok bool) {
	inst, isInst := t.(*Instance)
	if !isInst || inst.Cons != Array {
		return nil, false
	}
	return inst.Arg, true
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch at := a.(type) {
	case *Primitive:
		bt, ok := b.(*Primitive)
		return ok && at.Name == bt.Name
	case *Instance:
		bt, ok := b.(*Instance)
		return ok && at.Cons.Name == bt.Cons.Name && Equal(at.Arg, bt.Arg)
	case *Fun:
		bt, ok := b.(*Fun)
		if !ok || len(at.Params) != len(bt.Params) || !Equal(at.Ret, bt.Ret) {
			return false
		}
		for i := range at.Params {
			if !Equal(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return true
	case *Overloaded:
		bt, ok := b.(*Overloaded)
		if !ok || len(at.Alts) != len(bt.Alts) {
			return false
		}
		for i := range at.Alts {
			if !Equal(at.Alts[i], bt.Alts[i]) {
				return false
			}
		}
		return true
	case *Code:
		bt, ok := b.(*Code)
		return ok && at.Annotation == bt.Annotation && Equal(at.Inner, bt.Inner)
	case *Any:
		_, ok := b.(*Any)
		return ok
	}
	return false
}

// accepts reports whether a formal parameter type admits an actual argument.
// Any admits everything; a Code formal admits any quotation of the same
// stage whose body it admits.
func accepts(formal, actual Type) bool {
	switch ft := formal.(type) {
	case *Any:
		return true
	case *Code:
		at, ok := actual.(*Code)
		return ok && at.Annotation == ft.Annotation && accepts(ft.Inner, at.Inner)
	}
	return Equal(formal, actual)
}

// Apply checks a call of fn with the given argument types and returns the
// result type. Overload sets are tried in declaration order and the first
// alternative whose parameters match pairwise wins.
func Apply(fn Type, args []Type) (Type, error) {
	switch ft := fn.(type) {
	case *Fun:
		if match(ft, args) {
			return ft.Ret, nil
		}
		return nil, fmt.Errorf("type error: arguments (%s) do not match %s", joinTypes(args), ft)
	case *Overloaded:
		for _, alt := range ft.Alts {
			if match(alt, args) {
				return alt.Ret, nil
			}
		}
		return nil, fmt.Errorf("type error: no overload matches (%s)", joinTypes(args))
	default:
		return nil, fmt.Errorf("type error: %s is not callable", fn)
	}
}

func match(fn *Fun, args []Type) bool {
	if len(fn.Params) != len(args) {
		return false
	}
	for i, p := range fn.Params {
		if !accepts(p, args[i]) {
			return false
		}
	}
	return true
}

func joinTypes(ts []Type) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

// Parse reads a type written as a primitive name or Array<elem>.
func Parse(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, Array.Name+"<") && strings.HasSuffix(s, ">") {
		elem, err := Parse(s[len(Array.Name)+1 : len(s)-1])
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem), nil
	}
	for _, p := range primitives {
		if p.Name == s {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown type %q", s)
}
