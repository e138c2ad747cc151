package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"

	"go.armlet.dev/pkg"
)

func main() {
	app := &cli.App{
		Name:  "armlet",
		Usage: "compile armlet programs to ARM assembly",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print a stack trace for compilation failures",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "compile a source file to assembly text",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "write assembly to `FILE` instead of stdout",
					},
					&cli.StringFlag{
						Name:  "externs",
						Usage: "YAML `FILE` declaring external function signatures",
					},
				},
				Action: build,
			},
			{
				Name:      "check",
				Usage:     "run the pipeline without writing output",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "externs",
						Usage: "YAML `FILE` declaring external function signatures",
					},
				},
				Action: check,
			},
			{
				Name:      "ast",
				Usage:     "parse a source file and dump its syntax tree",
				ArgsUsage: "FILE",
				Action:    dumpAST,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func build(c *cli.Context) error {
	asm, err := compile(c)
	if err != nil {
		return report(c, err)
	}

	if out := c.String("output"); out != "" {
		return os.WriteFile(out, []byte(asm), 0644)
	}

	fmt.Print(asm)
	return nil
}

func check(c *cli.Context) error {
	if _, err := compile(c); err != nil {
		return report(c, err)
	}

	fmt.Println("ok")
	return nil
}

func dumpAST(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: armlet ast FILE", 1)
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}

	ast, err := armlet.Parse(string(data))
	if err != nil {
		return report(c, err)
	}

	repr.Println(ast)
	return nil
}

func compile(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit(fmt.Sprintf("usage: armlet %s FILE", c.Command.Name), 1)
	}

	compiler := armlet.NewCompiler()
	if path := c.String("externs"); path != "" {
		if err := declareExterns(compiler, path); err != nil {
			return "", err
		}
	}

	return compiler.Compile(c.Args().First())
}

// externSpec is one entry of the externs YAML file:
//
//	putint:
//	  params: [number]
//	  returns: void
type externSpec struct {
	Params  []string `yaml:"params"`
	Returns string   `yaml:"returns"`
}

func declareExterns(compiler *armlet.Compiler, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var specs map[string]externSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return err
	}

	for name, spec := range specs {
		signature := &armlet.FuncType{Returns: &armlet.VoidType{}}
		if spec.Returns != "" {
			t, err := armlet.ParseType(spec.Returns)
			if err != nil {
				return fmt.Errorf("externs %s: %w", name, err)
			}
			signature.Returns = t
		}
		for i, param := range spec.Params {
			t, err := armlet.ParseType(param)
			if err != nil {
				return fmt.Errorf("externs %s: %w", name, err)
			}
			signature.Params = append(signature.Params, armlet.Param{
				Name: fmt.Sprintf("p%d", i),
				Type: t,
			})
		}

		compiler.Declare(name, signature)
	}

	return nil
}

// report prints a friendly message per failure kind; compile errors exit
// with status 1 rather than bubbling the raw error to cli.
func report(c *cli.Context, err error) error {
	switch e := tracerr.Unwrap(err).(type) {
	case *armlet.SyntaxError:
		fmt.Fprintln(os.Stderr, e)
	case *armlet.UndefinedError:
		fmt.Fprintln(os.Stderr, "undefined name:", e.Name)
	case *armlet.IncompatibleTypesError:
		fmt.Fprintf(os.Stderr, "type mismatch: expected %s, found %s\n", e.Want, e.Got)
	case *armlet.NotArrayError:
		fmt.Fprintf(os.Stderr, "expected an array, found %s\n", e.Got)
	case *armlet.EmptyArrayError:
		fmt.Fprintln(os.Stderr, "array literals need at least one element")
	case *armlet.BadReturnError:
		fmt.Fprintln(os.Stderr, "return outside of a function")
	case *armlet.BadArityError:
		fmt.Fprintf(os.Stderr, "%s: at most 4 arguments are supported, got %d\n", e.Name, e.Count)
	default:
		var compileErr armlet.CompileError
		if !errors.As(err, &compileErr) {
			return err
		}
		fmt.Fprintln(os.Stderr, err)
	}

	if c.Bool("trace") {
		tracerr.PrintSourceColor(err)
	}

	return cli.Exit("compilation failed", 1)
}
