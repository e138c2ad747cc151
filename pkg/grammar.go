package armlet

import "strconv"

// Tokens. A token is a lexeme immediately followed by the ignored sequence,
// so rules never reason about spacing or comments between tokens. Keywords
// carry \b so that identifiers like "iffy" or "nullify" stay identifiers.
var (
	whitespace  = Pattern(`^[ \n\r\t]+`)
	lineComment = Pattern(`^//.*`)
	ignored     = ZeroOrMore(Or(whitespace, lineComment))

	kwFunction  = token(`^function\b`)
	kwIf        = token(`^if\b`)
	kwElse      = token(`^else\b`)
	kwReturn    = token(`^return\b`)
	kwVar       = token(`^var\b`)
	kwWhile     = token(`^while\b`)
	kwTrue      = token(`^true\b`)
	kwFalse     = token(`^false\b`)
	kwUndefined = token(`^undefined\b`)
	kwNull      = token(`^null\b`)
	kwLength    = token(`^length\b`)
	kwVoid      = token(`^void\b`)
	kwBoolean   = token(`^boolean\b`)
	kwNumber    = token(`^number\b`)
	kwArray     = token(`^Array\b`)

	assign       = token(`^=`)
	equalOp      = token(`^==`)
	notEqualOp   = token(`^!=`)
	plus         = token(`^[+]`)
	minus        = token(`^[-]`)
	star         = token(`^[*]`)
	slash        = token(`^[/]`)
	bang         = token(`^!`)
	comma        = token(`^[,]`)
	semicolon    = token(`^;`)
	colon        = token(`^:`)
	lessThan     = token(`^<`)
	greaterThan  = token(`^>`)
	leftParen    = token(`^[(]`)
	rightParen   = token(`^[)]`)
	leftBrace    = token(`^[{]`)
	rightBrace   = token(`^[}]`)
	leftBracket  = token(`^\[`)
	rightBracket = token(`^\]`)

	ident       = token(`^[a-zA-Z_][a-zA-Z0-9_]*`)
	numberToken = token(`^[0-9]+`)
)

func token(pattern string) Parser[string] {
	return Bind(Pattern(pattern), func(lexeme string) Parser[string] {
		return And(ignored, Constant(lexeme))
	})
}

// listOf parses a possibly empty separator-delimited sequence. Used for call
// arguments, array elements, and parameter lists.
func listOf[T any](item Parser[T], separator Parser[string]) Parser[[]T] {
	nonEmpty := Bind(item, func(first T) Parser[[]T] {
		return Map(ZeroOrMore(And(separator, item)), func(rest []T) []T {
			return append([]T{first}, rest...)
		})
	})

	return Map(Maybe(nonEmpty), func(items *[]T) []T {
		if items == nil {
			return nil
		}
		return *items
	})
}

type opTerm struct {
	op   Either[string, string]
	term Node
}

// binaryLevel builds one precedence level: a term followed by zero or more
// (operator, term) pairs, left-folded in encounter order so chains associate
// to the left.
func binaryLevel(term Parser[Node], ops Parser[Either[string, string]], left, right func(l, r Node) Node) Parser[Node] {
	pair := Bind(ops, func(op Either[string, string]) Parser[opTerm] {
		return Map(term, func(t Node) opTerm {
			return opTerm{op: op, term: t}
		})
	})

	return Bind(term, func(first Node) Parser[Node] {
		return Map(ZeroOrMore(pair), func(pairs []opTerm) Node {
			result := first
			for _, p := range pairs {
				if p.op.IsLeft() {
					result = left(result, p.term)
				} else {
					result = right(result, p.term)
				}
			}

			return result
		})
	})
}

// syntax ties the recursive rules together. Expression, statement and type
// references go through late-bound wrappers because the rules are mutually
// recursive (atom contains parenthesized expressions, blocks contain
// statements, array types contain types).
type syntax struct {
	expression Parser[Node]
	statement  Parser[Node]
	typeRef    Parser[Type]
	typeDecl   Parser[Type]
	atom       Parser[Node]
	args       Parser[[]Node]
	parameters Parser[[]Param]
	program    Parser[Node]
}

func newSyntax() *syntax {
	s := &syntax{}

	expression := Parser[Node](func(src Source) (Node, Source, bool) {
		return s.expression(src)
	})
	statement := Parser[Node](func(src Source) (Node, Source, bool) {
		return s.statement(src)
	})
	typeRef := Parser[Type](func(src Source) (Type, Source, bool) {
		return s.typeRef(src)
	})

	s.args = listOf(expression, comma)

	lengthCall := Bind(And(kwLength, And(leftParen, expression)), func(operand Node) Parser[Node] {
		return And(rightParen, Constant[Node](&ArrayLength{Array: operand}))
	})

	arrayLiteral := Bind(And(leftBracket, s.args), func(elements []Node) Parser[Node] {
		return And(rightBracket, Constant[Node](&ArrayLiteral{Elements: elements}))
	})

	arrayLookup := Bind(ident, func(name string) Parser[Node] {
		return Bind(And(leftBracket, expression), func(index Node) Parser[Node] {
			return And(rightBracket, Constant[Node](&ArrayLookup{
				Array: &Identifier{Name: name},
				Index: index,
			}))
		})
	})

	call := Bind(ident, func(name string) Parser[Node] {
		return Bind(And(leftParen, s.args), func(arguments []Node) Parser[Node] {
			return And(rightParen, Constant[Node](&Call{Name: name, Args: arguments}))
		})
	})

	number := Parser[Node](func(src Source) (Node, Source, bool) {
		lexeme, rest, ok := numberToken(src)
		if !ok {
			return nil, src, false
		}

		value, err := strconv.ParseInt(lexeme, 10, 32)
		if err != nil {
			return nil, src, false
		}

		return &Number{Value: int32(value)}, rest, true
	})

	scalar := Choice(
		Map(kwNull, func(string) Node { return &Null{} }),
		Map(kwUndefined, func(string) Node { return &Undefined{} }),
		Map(kwTrue, func(string) Node { return &Bool{Value: true} }),
		Map(kwFalse, func(string) Node { return &Bool{Value: false} }),
		Map(ident, func(name string) Node { return &Identifier{Name: name} }),
		number,
	)

	parens := Bind(And(leftParen, expression), func(value Node) Parser[Node] {
		return And(rightParen, Constant(value))
	})

	// Alternative order is load-bearing: the length call and the lookup must
	// come before the plain call, and the call before the bare identifier,
	// or the earlier prefix would win and strand the rest of the input.
	s.atom = Choice(lengthCall, arrayLiteral, arrayLookup, call, scalar, parens)

	unary := Bind(Maybe(bang), func(not *string) Parser[Node] {
		return Map(s.atom, func(operand Node) Node {
			if not != nil {
				return &Not{Operand: operand}
			}
			return operand
		})
	})

	product := binaryLevel(unary, Or(star, slash),
		func(l, r Node) Node { return &Multiplication{Left: l, Right: r} },
		func(l, r Node) Node { return &Division{Left: l, Right: r} },
	)

	sum := binaryLevel(product, Or(plus, minus),
		func(l, r Node) Node { return &Addition{Left: l, Right: r} },
		func(l, r Node) Node { return &Subtraction{Left: l, Right: r} },
	)

	comparison := binaryLevel(sum, Or(equalOp, notEqualOp),
		func(l, r Node) Node { return &Equal{Left: l, Right: r} },
		func(l, r Node) Node { return &NotEqual{Left: l, Right: r} },
	)

	s.expression = comparison

	arrayType := Bind(And(kwArray, And(lessThan, typeRef)), func(element Type) Parser[Type] {
		return And(greaterThan, Constant[Type](&ArrayType{Element: element}))
	})

	s.typeRef = Choice(
		Map(kwVoid, func(string) Type { return &VoidType{} }),
		Map(kwBoolean, func(string) Type { return &BooleanType{} }),
		Map(kwNumber, func(string) Type { return &NumberType{} }),
		arrayType,
	)
	s.typeDecl = And(ignored, typeRef)

	parameter := Bind(ident, func(name string) Parser[Param] {
		return Map(Maybe(And(colon, typeRef)), func(annotated *Type) Param {
			if annotated == nil {
				return Param{Name: name, Type: &NumberType{}}
			}
			return Param{Name: name, Type: *annotated}
		})
	})

	s.parameters = listOf(parameter, comma)

	returnStmt := Bind(And(kwReturn, expression), func(value Node) Parser[Node] {
		return And(semicolon, Constant[Node](&Return{Value: value}))
	})

	ifStmt := Bind(And(kwIf, And(leftParen, expression)), func(condition Node) Parser[Node] {
		return Bind(And(rightParen, statement), func(consequent Node) Parser[Node] {
			return Map(And(kwElse, statement), func(alternate Node) Node {
				return &If{Condition: condition, Consequent: consequent, Alternate: alternate}
			})
		})
	})

	whileStmt := Bind(And(kwWhile, And(leftParen, expression)), func(condition Node) Parser[Node] {
		return Map(And(rightParen, statement), func(body Node) Node {
			return &While{Condition: condition, Body: body}
		})
	})

	varStmt := Bind(And(kwVar, ident), func(name string) Parser[Node] {
		return Bind(And(assign, expression), func(value Node) Parser[Node] {
			return And(semicolon, Constant[Node](&Var{Name: name, Value: value}))
		})
	})

	assignStmt := Bind(ident, func(name string) Parser[Node] {
		return Bind(And(assign, expression), func(value Node) Parser[Node] {
			return And(semicolon, Constant[Node](&Assignment{Name: name, Value: value}))
		})
	})

	blockStmt := Bind(And(leftBrace, ZeroOrMore(statement)), func(statements []Node) Parser[Node] {
		return And(rightBrace, Constant[Node](&Block{Statements: statements}))
	})

	functionStmt := Bind(And(kwFunction, ident), func(name string) Parser[Node] {
		return Bind(And(leftParen, s.parameters), func(params []Param) Parser[Node] {
			return Bind(And(rightParen, Maybe(And(colon, typeRef))), func(returns *Type) Parser[Node] {
				signature := &FuncType{Params: params, Returns: &NumberType{}}
				if returns != nil {
					signature.Returns = *returns
				}

				return Map(blockStmt, func(body Node) Node {
					return &Function{Name: name, Signature: signature, Body: body}
				})
			})
		})
	})

	expressionStmt := Bind(expression, func(value Node) Parser[Node] {
		return And(semicolon, Constant(value))
	})

	s.statement = Choice(
		returnStmt,
		ifStmt,
		whileStmt,
		varStmt,
		assignStmt,
		blockStmt,
		functionStmt,
		expressionStmt,
	)

	s.program = Map(And(ignored, ZeroOrMore(statement)), func(statements []Node) Node {
		return &Block{Statements: statements}
	})

	return s
}

var lang = newSyntax()

// Parse derives the AST for a whole program. No match and leftover input are
// both fatal; the grammar never recovers partially.
func Parse(source string) (Node, error) {
	return lang.program.ParseToCompletion(source)
}

// ParseType reads a single type such as "Array<number>". The driver uses it
// to turn extern signature declarations into Types.
func ParseType(source string) (Type, error) {
	return lang.typeDecl.ParseToCompletion(source)
}
