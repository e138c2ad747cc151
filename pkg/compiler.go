package armlet

import (
	"io"
	"os"

	"github.com/ztrue/tracerr"
)

// Compiler runs the whole pipeline: parse, check, emit. It is a one-shot
// transformation; any phase error aborts with no output.
type Compiler struct {
	externs map[string]*FuncType
}

func NewCompiler() *Compiler {
	return &Compiler{
		externs: make(map[string]*FuncType),
	}
}

// Declare registers an external function signature that programs may call
// without defining, e.g. a runtime routine linked in later.
func (c *Compiler) Declare(name string, signature *FuncType) {
	c.externs[name] = signature
}

func (c *Compiler) Compile(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}

	return c.compile(string(data))
}

func (c *Compiler) CompileFromReader(reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	return c.compile(string(data))
}

func (c *Compiler) compile(source string) (string, error) {
	ast, err := Parse(source)
	if err != nil {
		return "", tracerr.Wrap(err)
	}

	checker := NewChecker()
	for name, signature := range c.externs {
		checker.Declare(name, signature)
	}
	if _, err := checker.Check(ast); err != nil {
		return "", tracerr.Wrap(err)
	}

	asm, err := NewGenerator().Emit(ast)
	if err != nil {
		return "", tracerr.Wrap(err)
	}

	return asm, nil
}
