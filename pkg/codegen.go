package armlet

import (
	"fmt"
	"strings"
)

// Generator lowers a checked AST to ARM32 assembly text. Every expression
// leaves its value in r0. The generator owns the label counter; it is never
// reset, so branch targets stay unique across one Emit call.
type Generator struct {
	out    strings.Builder
	labels int
}

func NewGenerator() *Generator {
	return &Generator{}
}

// frame maps locals and parameters to frame-pointer-relative byte offsets.
// One frame per function, mutated in place during a single linear walk of the
// body; declarations stay visible for the rest of the function.
type frame struct {
	locals map[string]int
	next   int
}

func (g *Generator) Emit(node Node) (string, error) {
	env := &frame{locals: make(map[string]int)}
	if err := g.gen(node, env); err != nil {
		return "", err
	}

	return g.out.String(), nil
}

func (g *Generator) line(format string, a ...interface{}) {
	fmt.Fprintf(&g.out, "  "+format+"\n", a...)
}

func (g *Generator) mark(label string) {
	fmt.Fprintf(&g.out, "%s:\n", label)
}

func (g *Generator) directive(format string, a ...interface{}) {
	fmt.Fprintf(&g.out, format+"\n", a...)
}

func (g *Generator) newLabel() string {
	label := fmt.Sprintf(".L%d", g.labels)
	g.labels++

	return label
}

func (g *Generator) gen(node Node, env *frame) error {
	switch n := node.(type) {
	case *Number:
		g.line("ldr r0, =%d", n.Value)
	case *Bool:
		if n.Value {
			g.line("mov r0, #1")
		} else {
			g.line("mov r0, #0")
		}
	case *Null, *Undefined:
		g.line("mov r0, #0")
	case *Identifier:
		offset, ok := env.locals[n.Name]
		if !ok {
			return &UndefinedError{Name: n.Name}
		}
		g.line("ldr r0, [fp, #%d]", offset)
	case *Not:
		if err := g.gen(n.Operand, env); err != nil {
			return err
		}
		g.line("cmp r0, #0")
		g.line("moveq r0, #1")
		g.line("movne r0, #0")
	case *Addition:
		if err := g.operands(n.Left, n.Right, env); err != nil {
			return err
		}
		g.line("add r0, r0, r1")
	case *Subtraction:
		if err := g.operands(n.Left, n.Right, env); err != nil {
			return err
		}
		g.line("sub r0, r1, r0")
	case *Multiplication:
		if err := g.operands(n.Left, n.Right, env); err != nil {
			return err
		}
		g.line("mul r0, r0, r1")
	case *Division:
		if err := g.operands(n.Left, n.Right, env); err != nil {
			return err
		}
		g.line("udiv r0, r1, r0")
	case *Equal:
		if err := g.operands(n.Left, n.Right, env); err != nil {
			return err
		}
		g.line("cmp r0, r1")
		g.line("moveq r0, #1")
		g.line("movne r0, #0")
	case *NotEqual:
		if err := g.operands(n.Left, n.Right, env); err != nil {
			return err
		}
		g.line("cmp r0, r1")
		g.line("moveq r0, #0")
		g.line("movne r0, #1")
	case *Call:
		return g.call(n, env)
	case *ArrayLiteral:
		return g.arrayLiteral(n, env)
	case *ArrayLookup:
		return g.arrayLookup(n, env)
	case *ArrayLength:
		if err := g.gen(n.Array, env); err != nil {
			return err
		}
		g.line("ldr r0, [r0, #0]")
	case *Var:
		if err := g.gen(n.Value, env); err != nil {
			return err
		}
		g.line("push {r0, ip}")
		env.locals[n.Name] = env.next - 4
		env.next -= 8
	case *Assignment:
		if err := g.gen(n.Value, env); err != nil {
			return err
		}
		offset, ok := env.locals[n.Name]
		if !ok {
			return &UndefinedError{Name: n.Name}
		}
		g.line("str r0, [fp, #%d]", offset)
	case *Block:
		for _, statement := range n.Statements {
			if err := g.gen(statement, env); err != nil {
				return err
			}
		}
	case *If:
		elseLabel := g.newLabel()
		endLabel := g.newLabel()
		if err := g.gen(n.Condition, env); err != nil {
			return err
		}
		g.line("cmp r0, #0")
		g.line("beq %s", elseLabel)
		if err := g.gen(n.Consequent, env); err != nil {
			return err
		}
		g.line("b %s", endLabel)
		g.mark(elseLabel)
		if err := g.gen(n.Alternate, env); err != nil {
			return err
		}
		g.mark(endLabel)
	case *While:
		startLabel := g.newLabel()
		endLabel := g.newLabel()
		g.mark(startLabel)
		if err := g.gen(n.Condition, env); err != nil {
			return err
		}
		g.line("cmp r0, #0")
		g.line("beq %s", endLabel)
		if err := g.gen(n.Body, env); err != nil {
			return err
		}
		g.line("b %s", startLabel)
		g.mark(endLabel)
	case *Function:
		return g.function(n)
	case *Return:
		if err := g.gen(n.Value, env); err != nil {
			return err
		}
		g.line("mov sp, fp")
		g.line("pop {fp, pc}")
	default:
		return fmt.Errorf("unexpected node %T", node)
	}

	return nil
}

// operands evaluates left, parks it on the stack (paired with ip to keep sp
// 8-byte aligned), evaluates right, and restores left into r1. Afterwards
// r1 holds the left value and r0 the right.
func (g *Generator) operands(left, right Node, env *frame) error {
	if err := g.gen(left, env); err != nil {
		return err
	}
	g.line("push {r0, ip}")
	if err := g.gen(right, env); err != nil {
		return err
	}
	g.line("pop {r1, ip}")

	return nil
}

func (g *Generator) call(n *Call, env *frame) error {
	count := len(n.Args)
	switch {
	case count == 0:
		g.line("bl %s", n.Name)
	case count == 1:
		if err := g.gen(n.Args[0], env); err != nil {
			return err
		}
		g.line("bl %s", n.Name)
	case count <= 4:
		g.line("sub sp, sp, #16")
		for i, arg := range n.Args {
			if err := g.gen(arg, env); err != nil {
				return err
			}
			g.line("str r0, [sp, #%d]", 4*i)
		}
		g.line("pop {r0, r1, r2, r3}")
		g.line("bl %s", n.Name)
	default:
		return &BadArityError{Name: n.Name, Count: count}
	}

	return nil
}

// arrayLiteral allocates count+1 words, stores the length in the first word
// and the elements after it, and leaves the base address in r0. r4 holds the
// base across element evaluation and is restored afterwards.
func (g *Generator) arrayLiteral(n *ArrayLiteral, env *frame) error {
	count := len(n.Elements)
	g.line("ldr r0, =%d", 4*(count+1))
	g.line("bl malloc")
	g.line("push {r4, ip}")
	g.line("mov r4, r0")
	g.line("ldr r0, =%d", count)
	g.line("str r0, [r4]")
	for i, element := range n.Elements {
		if err := g.gen(element, env); err != nil {
			return err
		}
		g.line("str r0, [r4, #%d]", 4*(i+1))
	}
	g.line("mov r0, r4")
	g.line("pop {r4, ip}")

	return nil
}

// arrayLookup bounds-checks against the stored length with an unsigned
// compare. Out of range yields the sentinel 0 instead of trapping; in range
// loads from base + 4 + 4*index.
func (g *Generator) arrayLookup(n *ArrayLookup, env *frame) error {
	if err := g.gen(n.Array, env); err != nil {
		return err
	}
	g.line("push {r0, ip}")
	if err := g.gen(n.Index, env); err != nil {
		return err
	}
	g.line("pop {r1, ip}")
	g.line("ldr r2, [r1]")
	g.line("cmp r0, r2")
	g.line("movhs r0, #0")
	g.line("addlo r1, r1, #4")
	g.line("lsllo r0, r0, #2")
	g.line("ldrlo r0, [r1, r0]")

	return nil
}

// function emits the label, the frame setup, the body, and a default
// epilogue that zeroes r0. push {r0, r1, r2, r3} stores r0 at the lowest
// address, so parameter i lands at fp + 4*i - 16; locals start below the
// preserved registers at -24 and grow down in 8-byte slots.
func (g *Generator) function(n *Function) error {
	if len(n.Signature.Params) > 4 {
		return &BadArityError{Name: n.Name, Count: len(n.Signature.Params)}
	}

	g.directive(".global %s", n.Name)
	g.mark(n.Name)
	g.line("push {fp, lr}")
	g.line("mov fp, sp")
	g.line("push {r0, r1, r2, r3}")

	locals := make(map[string]int, len(n.Signature.Params))
	for i, p := range n.Signature.Params {
		locals[p.Name] = 4*i - 16
	}
	env := &frame{locals: locals, next: -20}

	if err := g.gen(n.Body, env); err != nil {
		return err
	}

	g.line("mov sp, fp")
	g.line("mov r0, #0")
	g.line("pop {fp, pc}")

	return nil
}
