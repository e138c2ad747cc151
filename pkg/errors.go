package armlet

import "fmt"

// CompileError marks failures raised by the pipeline itself, as opposed to
// I/O errors around it. Every violated rule aborts the compilation at the
// point of detection; nothing is accumulated.
type CompileError interface {
	error
	compileError()
}

// SyntaxError reports input the grammar could not derive a complete program
// from, including trailing unconsumed text. Remaining holds the text at the
// failure point; the grammar keeps no positional bookkeeping.
type SyntaxError struct {
	Remaining string
}

func (e *SyntaxError) Error() string {
	rest := e.Remaining
	if len(rest) > 40 {
		rest = rest[:40] + "..."
	}

	return fmt.Sprintf("syntax error near %q", rest)
}

type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined: %s", e.Name)
}

type IncompatibleTypesError struct {
	Want Type
	Got  Type
}

func (e *IncompatibleTypesError) Error() string {
	return fmt.Sprintf("incompatible types: want '%s', got '%s'", e.Want, e.Got)
}

type NotArrayError struct {
	Got Type
}

func (e *NotArrayError) Error() string {
	return fmt.Sprintf("not an array: '%s'", e.Got)
}

type EmptyArrayError struct{}

func (e *EmptyArrayError) Error() string {
	return "empty array literal"
}

type BadReturnError struct{}

func (e *BadReturnError) Error() string {
	return "return outside of a function"
}

// BadArityError reports a function definition or call exceeding the four
// register arguments the calling convention marshals.
type BadArityError struct {
	Name  string
	Count int
}

func (e *BadArityError) Error() string {
	return fmt.Sprintf("%s: at most 4 arguments are supported, got %d", e.Name, e.Count)
}

func (*SyntaxError) compileError()            {}
func (*UndefinedError) compileError()         {}
func (*IncompatibleTypesError) compileError() {}
func (*NotArrayError) compileError()          {}
func (*EmptyArrayError) compileError()        {}
func (*BadReturnError) compileError()         {}
func (*BadArityError) compileError()          {}
