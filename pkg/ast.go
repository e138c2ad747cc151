package armlet

// Node is the single AST union produced by the grammar. Composite nodes own
// their children exclusively; the tree is immutable once built.
type Node interface {
	node()
}

type Null struct{}

type Undefined struct{}

type Number struct {
	Value int32
}

type Bool struct {
	Value bool
}

type Identifier struct {
	Name string
}

type Not struct {
	Operand Node
}

type Addition struct {
	Left, Right Node
}

type Subtraction struct {
	Left, Right Node
}

type Multiplication struct {
	Left, Right Node
}

type Division struct {
	Left, Right Node
}

type Equal struct {
	Left, Right Node
}

type NotEqual struct {
	Left, Right Node
}

type ArrayLiteral struct {
	Elements []Node
}

type ArrayLookup struct {
	Array Node
	Index Node
}

type ArrayLength struct {
	Array Node
}

type Call struct {
	Name string
	Args []Node
}

// Var declares a new local; Assignment stores to an existing one.
type Var struct {
	Name  string
	Value Node
}

type Assignment struct {
	Name  string
	Value Node
}

type Block struct {
	Statements []Node
}

// If always carries both branches; the grammar has no else-less form.
type If struct {
	Condition  Node
	Consequent Node
	Alternate  Node
}

type While struct {
	Condition Node
	Body      Node
}

type Function struct {
	Name      string
	Signature *FuncType
	Body      Node
}

type Return struct {
	Value Node
}

func (*Null) node()           {}
func (*Undefined) node()      {}
func (*Number) node()         {}
func (*Bool) node()           {}
func (*Identifier) node()     {}
func (*Not) node()            {}
func (*Addition) node()       {}
func (*Subtraction) node()    {}
func (*Multiplication) node() {}
func (*Division) node()       {}
func (*Equal) node()          {}
func (*NotEqual) node()       {}
func (*ArrayLiteral) node()   {}
func (*ArrayLookup) node()    {}
func (*ArrayLength) node()    {}
func (*Call) node()           {}
func (*Var) node()            {}
func (*Assignment) node()     {}
func (*Block) node()          {}
func (*If) node()             {}
func (*While) node()          {}
func (*Function) node()       {}
func (*Return) node()         {}
