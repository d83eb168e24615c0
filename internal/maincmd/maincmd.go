// Package maincmd implements the perlang command-line driver: the flag
// surface and diagnostic printing spec.md section 6 describes, built on top
// of lang/interpreter.Interpreter the same way the examples wire
// github.com/mna/mainer's Parser/ExitCode contract into a thin Cmd struct.
package maincmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/perlun/perlang/internal/natives"
	"github.com/perlun/perlang/lang/diagnostic"
	"github.com/perlun/perlang/lang/interpreter"
	"github.com/perlun/perlang/lang/parser"
	"github.com/perlun/perlang/lang/scanner"
)

const binName = "perlang"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [-e <src> | -p <src> | <path>] [-- <arg>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<path>] [-- <arg>...]
       %[1]s -h|--help
       %[1]s -v|--version

Tree-walking interpreter for the %[1]s scripting language.

Valid flag options are:
       -e <src>                  Evaluate <src> as a single REPL input and
                                  print its result.
       -p <src>                  Parse <src> and print the resulting
                                  abstract syntax tree, without evaluating it.
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

With no -e/-p flag, <path> is read and run as a script. Any arguments
following <path> (or following "--") populate the ARGV super-global.
`, binName)
)

// Cmd is the mainer.Cmd implementation for the perlang binary.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool   `flag:"h,help"`
	Version bool   `flag:"v,version"`
	Eval    string `flag:"e"`
	Print   string `flag:"p"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }
func (c *Cmd) SetFlags(map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if c.Eval != "" && c.Print != "" {
		return fmt.Errorf("cannot combine -e and -p")
	}
	if c.Eval == "" && c.Print == "" && len(c.args) == 0 {
		return fmt.Errorf("no script path given")
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	switch {
	case c.Print != "":
		return c.printAST(c.Print, stdio)
	case c.Eval != "":
		return c.runEval(c.Eval, c.args, stdio)
	default:
		return c.runFile(c.args[0], c.args[1:], stdio)
	}
}

// printAST runs only the scanner and parser over src and prints the
// resulting statement tree, never touching the resolver or evaluator.
func (c *Cmd) printAST(src string, stdio mainer.Stdio) mainer.ExitCode {
	diags := &diagnostic.List{}
	toks := scanner.New(src, diags.Handle).Scan()
	stmts := parser.New(toks, diags.Handle).Parse()

	hadError := diags.HasErrors()
	for _, d := range diags.Items() {
		printDiag(stdio.Stderr, d)
	}
	for _, s := range stmts {
		fmt.Fprintln(stdio.Stdout, s.String())
	}
	if hadError {
		return mainer.Failure
	}
	return mainer.Success
}

func (c *Cmd) runEval(src string, argv []string, stdio mainer.Stdio) mainer.ExitCode {
	in, failed := newInterpreter(argv, stdio)
	v := in.Eval(src)
	if *failed {
		return mainer.Failure
	}
	fmt.Fprintln(stdio.Stdout, v.String())
	return mainer.Success
}

func (c *Cmd) runFile(path string, argv []string, stdio mainer.Stdio) mainer.ExitCode {
	src, err := readFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return mainer.Failure
	}
	in, failed := newInterpreter(argv, stdio)
	in.Eval(src)
	if *failed {
		return mainer.Failure
	}
	return mainer.Success
}

// newInterpreter wires internal/natives's host directories, stdio and
// diagnostic printing into an interpreter.Config. failed is flipped to true
// by any of the six handlers, matching the "exit code 1 on any reported
// error" rule from spec.md section 6.
func newInterpreter(argv []string, stdio mainer.Stdio) (*interpreter.Interpreter, *bool) {
	failed := false
	handle := func(d diagnostic.Diagnostic) {
		failed = true
		printDiag(stdio.Stderr, d)
	}
	cfg := interpreter.Config{
		Host: natives.Directories(argv),
		Stdout: func(s string) {
			fmt.Fprintln(stdio.Stdout, s)
		},
		OnScanError:           handle,
		OnParseError:          handle,
		OnResolveError:        handle,
		OnTypeValidationError: handle,
		OnImmutabilityError:   handle,
		OnRuntimeError:        handle,
	}
	return interpreter.New(cfg), &failed
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func printDiag(w io.Writer, d diagnostic.Diagnostic) {
	if d.Tok.Line > 0 {
		fmt.Fprintf(w, "[line %d] %s: %s\n", d.Tok.Line, d.Kind, d.Message)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", d.Kind, d.Message)
}
