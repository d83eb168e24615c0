// Package interpreter assembles the scanner, parser, resolver, type passes
// and evaluator into the host-facing Interpreter described in spec.md
// section 6: one Eval(source) entry point, injected error handlers and
// output sink, and REPL statement persistence across calls.
package interpreter

import (
	"github.com/perlun/perlang/lang/ast"
	"github.com/perlun/perlang/lang/diagnostic"
	"github.com/perlun/perlang/lang/environment"
	"github.com/perlun/perlang/lang/evaluator"
	"github.com/perlun/perlang/lang/host"
	"github.com/perlun/perlang/lang/parser"
	"github.com/perlun/perlang/lang/resolver"
	"github.com/perlun/perlang/lang/runtime"
	"github.com/perlun/perlang/lang/scanner"
	"github.com/perlun/perlang/lang/typecheck"
	"github.com/perlun/perlang/lang/types"
)

// voidMarker is the sentinel Interpreter.Eval returns when a runtime error
// was caught and already handed to OnRuntimeError, distinct from the Null
// value a program can produce legitimately.
type voidMarker struct{}

func (voidMarker) String() string            { return "" }
func (voidMarker) Truthy() bool              { return false }
func (voidMarker) Type() *types.TypeHandle   { return types.VoidHandle }

// Config bundles everything the host must supply to construct an
// Interpreter: the native directories, the output sink, and one handler per
// diagnostic stage (spec.md section 6 lists
// scan/parse/resolve/type-validation/immutability-validation/runtime).
// Program arguments are not a field here; they reach a script through the
// host directories (e.g. the ARGV super-global internal/natives builds).
type Config struct {
	Host   *host.Directories
	Stdout func(string)

	OnScanError             diagnostic.Handler
	OnParseError            diagnostic.Handler
	OnResolveError          diagnostic.Handler
	OnTypeValidationError   diagnostic.Handler
	OnImmutabilityError     diagnostic.Handler
	OnRuntimeError          diagnostic.Handler
}

// Interpreter is one REPL/script session. It keeps the accumulated,
// previously-accepted statement list and the live environment across Eval
// calls; every call re-resolves the whole accumulated program but only
// evaluates the new batch (spec.md section 5).
type Interpreter struct {
	cfg     Config
	globals *environment.Environment
	eval    *evaluator.Evaluator
	stmts   []ast.Stmt
}

func New(cfg Config) *Interpreter {
	globals := environment.NewGlobals()
	ev := evaluator.New(nil, cfg.Host, globals, cfg.Stdout)
	return &Interpreter{cfg: cfg, globals: globals, eval: ev}
}

// Eval runs one REPL input: source is scanned and parsed on its own, then
// appended to the accumulated statement list for name/type resolution, then
// (only if that batch introduced no diagnostic) evaluated on its own against
// the persisted environment. It returns runtime.Null{} for a batch with no
// single-expression shape, the evaluated value for a lone expression
// statement, or the void sentinel if a runtime error was caught and
// reported.
func (in *Interpreter) Eval(source string) runtime.Value {
	diags := &diagnostic.List{}

	toks := scanner.New(source, diags.Handle).Scan()
	if diags.HasErrors() {
		in.report(diags)
		return runtime.Null{}
	}

	newStmts := parser.New(toks, diags.Handle).Parse()
	if diags.HasErrors() {
		in.report(diags)
		return runtime.Null{}
	}

	candidate := append(append([]ast.Stmt{}, in.stmts...), newStmts...)

	funcs := ast.NewFuncRegistry()
	res := resolver.New(diags, in.cfg.Host, funcs)
	res.Resolve(candidate)
	if diags.HasErrors() {
		in.report(diags)
		return runtime.Null{}
	}

	tr := typecheck.New(res.Bindings, diags)
	tr.Resolve(candidate)
	if diags.HasErrors() {
		in.report(diags)
		return runtime.Null{}
	}

	tv := typecheck.NewValidator(res.Bindings, diags)
	tv.Validate(candidate)

	typecheck.NewImmutabilityValidator().Validate(candidate)

	if diags.HasErrors() {
		in.report(diags)
		return runtime.Null{}
	}

	in.stmts = candidate
	in.eval.SetBindings(res.Bindings)

	result, err := in.eval.Exec(newStmts)
	if err != nil {
		if rerr, ok := err.(*evaluator.RuntimeError); ok && in.cfg.OnRuntimeError != nil {
			in.cfg.OnRuntimeError(diagnostic.Diagnostic{
				Kind:    diagnostic.RuntimeError,
				Tok:     rerr.Tok,
				Message: rerr.Message,
			})
		}
		return voidMarker{}
	}

	if len(newStmts) == 1 {
		if _, ok := newStmts[0].(*ast.ExpressionStmt); ok {
			return result.Value
		}
	}
	return runtime.Null{}
}

// report dispatches every collected diagnostic to the handler matching its
// kind, in emission order (spec.md section 6, "order of emission is the
// order of tree traversal").
func (in *Interpreter) report(diags *diagnostic.List) {
	for _, d := range diags.Items() {
		switch d.Kind {
		case diagnostic.ScanError:
			call(in.cfg.OnScanError, d)
		case diagnostic.ParseError:
			call(in.cfg.OnParseError, d)
		case diagnostic.ResolveError:
			call(in.cfg.OnResolveError, d)
		case diagnostic.NameResolutionError, diagnostic.TypeValidationError:
			call(in.cfg.OnTypeValidationError, d)
		case diagnostic.RuntimeError:
			call(in.cfg.OnRuntimeError, d)
		default:
			call(in.cfg.OnTypeValidationError, d)
		}
	}
}

func call(h diagnostic.Handler, d diagnostic.Diagnostic) {
	if h != nil {
		h(d)
	}
}
