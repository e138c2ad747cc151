package armlet

import (
	"fmt"
	"strings"
)

// Type is the closed set of static types. Equality is structural; the
// Undefined wildcard is not part of Equals, it lives in the checker's
// assertion so that plain equality stays honest.
type Type interface {
	String() string
	Equals(other Type) bool
}

type NumberType struct{}

type BooleanType struct{}

type VoidType struct{}

type UndefinedType struct{}

type ArrayType struct {
	Element Type
}

// Param is one name/type pair of a function signature. Order matters;
// names do not participate in equality.
type Param struct {
	Name string
	Type Type
}

type FuncType struct {
	Params  []Param
	Returns Type
}

func (*NumberType) String() string    { return "number" }
func (*BooleanType) String() string   { return "boolean" }
func (*VoidType) String() string      { return "void" }
func (*UndefinedType) String() string { return "undefined" }

func (t *ArrayType) String() string {
	return fmt.Sprintf("Array<%s>", t.Element)
}

func (t *FuncType) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Type.String()
	}

	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.Returns)
}

func (*NumberType) Equals(other Type) bool {
	_, ok := other.(*NumberType)
	return ok
}

func (*BooleanType) Equals(other Type) bool {
	_, ok := other.(*BooleanType)
	return ok
}

func (*VoidType) Equals(other Type) bool {
	_, ok := other.(*VoidType)
	return ok
}

func (*UndefinedType) Equals(other Type) bool {
	_, ok := other.(*UndefinedType)
	return ok
}

func (t *ArrayType) Equals(other Type) bool {
	o, ok := other.(*ArrayType)
	return ok && t.Element.Equals(o.Element)
}

func (t *FuncType) Equals(other Type) bool {
	o, ok := other.(*FuncType)
	if !ok || len(t.Params) != len(o.Params) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Type.Equals(o.Params[i].Type) {
			return false
		}
	}

	return t.Returns.Equals(o.Returns)
}
