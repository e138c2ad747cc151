package armlet

import "fmt"

// Checker validates an AST in a single recursive pass and determines the
// static type of every expression. The first violated rule aborts the whole
// compilation; nothing is accumulated.
type Checker struct {
	locals    map[string]Type
	functions map[string]*FuncType

	// returns is the expected return type of the function body being
	// checked, nil at the top level.
	returns Type
}

func NewChecker() *Checker {
	return &Checker{
		locals:    make(map[string]Type),
		functions: Builtins(),
	}
}

func newChecker(locals map[string]Type, functions map[string]*FuncType, returns Type) *Checker {
	return &Checker{
		locals:    locals,
		functions: functions,
		returns:   returns,
	}
}

// Declare registers an external function signature before checking begins.
// Generated code calls such functions by name without a local definition.
func (c *Checker) Declare(name string, signature *FuncType) {
	c.functions[name] = signature
}

func (c *Checker) Check(node Node) (Type, error) {
	switch n := node.(type) {
	case *Number:
		return &NumberType{}, nil
	case *Bool:
		return &BooleanType{}, nil
	case *Undefined:
		return &UndefinedType{}, nil
	case *Null:
		return &VoidType{}, nil
	case *Identifier:
		t, ok := c.locals[n.Name]
		if !ok {
			return nil, &UndefinedError{Name: n.Name}
		}
		return t, nil
	case *Not:
		t, err := c.Check(n.Operand)
		if err != nil {
			return nil, err
		}
		if err := assertType(&BooleanType{}, t); err != nil {
			return nil, err
		}
		return &BooleanType{}, nil
	case *Addition:
		return c.arithmetic(n.Left, n.Right)
	case *Subtraction:
		return c.arithmetic(n.Left, n.Right)
	case *Multiplication:
		return c.arithmetic(n.Left, n.Right)
	case *Division:
		return c.arithmetic(n.Left, n.Right)
	case *Equal:
		return c.comparison(n.Left, n.Right)
	case *NotEqual:
		return c.comparison(n.Left, n.Right)
	case *ArrayLiteral:
		return c.arrayLiteral(n)
	case *ArrayLength:
		t, err := c.Check(n.Array)
		if err != nil {
			return nil, err
		}
		if _, ok := t.(*ArrayType); !ok {
			return nil, &NotArrayError{Got: t}
		}
		return &NumberType{}, nil
	case *ArrayLookup:
		index, err := c.Check(n.Index)
		if err != nil {
			return nil, err
		}
		if err := assertType(&NumberType{}, index); err != nil {
			return nil, err
		}
		target, err := c.Check(n.Array)
		if err != nil {
			return nil, err
		}
		if _, ok := target.(*ArrayType); !ok {
			return nil, &NotArrayError{Got: target}
		}
		// The element type is not propagated; every lookup is a number.
		return &NumberType{}, nil
	case *Call:
		return c.call(n)
	case *Var:
		t, err := c.Check(n.Value)
		if err != nil {
			return nil, err
		}
		c.locals[n.Name] = t
		return &VoidType{}, nil
	case *Assignment:
		declared, ok := c.locals[n.Name]
		if !ok {
			return nil, &UndefinedError{Name: n.Name}
		}
		t, err := c.Check(n.Value)
		if err != nil {
			return nil, err
		}
		if err := assertType(declared, t); err != nil {
			return nil, err
		}
		return &VoidType{}, nil
	case *Block:
		for _, statement := range n.Statements {
			if _, err := c.Check(statement); err != nil {
				return nil, err
			}
		}
		return &VoidType{}, nil
	case *If:
		if _, err := c.Check(n.Condition); err != nil {
			return nil, err
		}
		if _, err := c.Check(n.Consequent); err != nil {
			return nil, err
		}
		if _, err := c.Check(n.Alternate); err != nil {
			return nil, err
		}
		return &VoidType{}, nil
	case *While:
		if _, err := c.Check(n.Condition); err != nil {
			return nil, err
		}
		if _, err := c.Check(n.Body); err != nil {
			return nil, err
		}
		return &VoidType{}, nil
	case *Function:
		return c.function(n)
	case *Return:
		if c.returns == nil {
			return nil, &BadReturnError{}
		}
		t, err := c.Check(n.Value)
		if err != nil {
			return nil, err
		}
		if err := assertType(c.returns, t); err != nil {
			return nil, err
		}
		return &VoidType{}, nil
	default:
		return nil, fmt.Errorf("unexpected node %T", node)
	}
}

func (c *Checker) arithmetic(left, right Node) (Type, error) {
	l, err := c.Check(left)
	if err != nil {
		return nil, err
	}
	if err := assertType(&NumberType{}, l); err != nil {
		return nil, err
	}
	r, err := c.Check(right)
	if err != nil {
		return nil, err
	}
	if err := assertType(&NumberType{}, r); err != nil {
		return nil, err
	}

	return &NumberType{}, nil
}

func (c *Checker) comparison(left, right Node) (Type, error) {
	l, err := c.Check(left)
	if err != nil {
		return nil, err
	}
	r, err := c.Check(right)
	if err != nil {
		return nil, err
	}
	if err := assertType(l, r); err != nil {
		return nil, err
	}

	return &BooleanType{}, nil
}

// arrayLiteral asserts adjacent elements pairwise and takes the last
// element's type as the element type.
func (c *Checker) arrayLiteral(n *ArrayLiteral) (Type, error) {
	if len(n.Elements) == 0 {
		return nil, &EmptyArrayError{}
	}

	var element Type
	for _, e := range n.Elements {
		t, err := c.Check(e)
		if err != nil {
			return nil, err
		}
		if element != nil {
			if err := assertType(element, t); err != nil {
				return nil, err
			}
		}
		element = t
	}

	return &ArrayType{Element: element}, nil
}

// call checks every argument, then asserts argument against parameter
// positionally for as many pairs as the shorter list has. Surplus arguments
// pass unasserted; the generator's four-register ceiling is the only bound.
func (c *Checker) call(n *Call) (Type, error) {
	signature, ok := c.functions[n.Name]
	if !ok {
		return nil, &UndefinedError{Name: n.Name}
	}

	for i, arg := range n.Args {
		t, err := c.Check(arg)
		if err != nil {
			return nil, err
		}
		if i < len(signature.Params) {
			if err := assertType(signature.Params[i].Type, t); err != nil {
				return nil, err
			}
		}
	}

	return signature.Returns, nil
}

// function registers the signature before walking the body so recursive
// calls resolve, then checks the body in a child checker holding the
// parameters as locals and a copy of the functions seen so far.
func (c *Checker) function(n *Function) (Type, error) {
	c.functions[n.Name] = n.Signature

	locals := make(map[string]Type, len(n.Signature.Params))
	for _, p := range n.Signature.Params {
		locals[p.Name] = p.Type
	}

	child := newChecker(locals, copyFunctions(c.functions), n.Signature.Returns)
	if _, err := child.Check(n.Body); err != nil {
		return nil, err
	}

	return &VoidType{}, nil
}

// assertType is where the Undefined wildcard lives: either side being
// undefined passes any check. Structural equality handles the rest.
func assertType(want, got Type) error {
	if isUndefined(want) || isUndefined(got) {
		return nil
	}
	if !want.Equals(got) {
		return &IncompatibleTypesError{Want: want, Got: got}
	}

	return nil
}

func isUndefined(t Type) bool {
	_, ok := t.(*UndefinedType)
	return ok
}

func copyFunctions(functions map[string]*FuncType) map[string]*FuncType {
	copied := make(map[string]*FuncType, len(functions))
	for name, signature := range functions {
		copied[name] = signature
	}

	return copied
}
