package typecheck

import (
	"fmt"

	"github.com/perlun/perlang/lang/ast"
	"github.com/perlun/perlang/lang/diagnostic"
	"github.com/perlun/perlang/lang/resolver"
	"github.com/perlun/perlang/lang/types"
)

// TypeValidator is the second type pass. It assumes TypeResolver ran to
// fixpoint and enforces call-site coercion, variable-initializer coercion,
// return sanity, and re-flags unsupported-inference function declarations.
type TypeValidator struct {
	bindings map[ast.Expr]*resolver.Binding
	diags    *diagnostic.List
}

func NewValidator(bindings map[ast.Expr]*resolver.Binding, diags *diagnostic.List) *TypeValidator {
	return &TypeValidator{bindings: bindings, diags: diags}
}

func (v *TypeValidator) Validate(stmts []ast.Stmt) {
	for _, s := range stmts {
		v.stmt(s)
	}
}

func (v *TypeValidator) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.ExpressionStmt:
		v.expr(s.Expr)

	case *ast.Print:
		v.expr(s.Expr)

	case *ast.Var:
		v.varStmt(s)

	case *ast.Block:
		v.Validate(s.Stmts)

	case *ast.If:
		v.expr(s.Cond)
		v.stmt(s.Then)
		if s.Else != nil {
			v.stmt(s.Else)
		}

	case *ast.While:
		v.expr(s.Cond)
		v.stmt(s.Body)

	case *ast.Function:
		v.function(s)

	case *ast.Return:
		if s.Value != nil {
			v.expr(s.Value)
			if !s.Value.TypeRef().IsResolved() {
				v.diags.Add(diagnostic.TypeValidationError, s.Keyword,
					"Cannot return a value of unresolved type.")
			}
		}

	case *ast.Class:
		for _, m := range s.Methods {
			v.function(m)
		}

	default:
		panic(fmt.Sprintf("typecheck: unexpected stmt %T", s))
	}
}

func (v *TypeValidator) varStmt(s *ast.Var) {
	if s.Initializer != nil {
		v.expr(s.Initializer)
	}
	if s.Typ == nil {
		return
	}
	switch {
	case s.Typ.IsResolved() && s.Initializer != nil && s.Initializer.TypeRef().IsResolved():
		declared, actual := s.Typ.Resolved, s.Initializer.TypeRef().Resolved
		if !types.CanBeCoercedInto(declared, actual) {
			v.diags.Add(diagnostic.TypeValidationError, s.Name,
				fmt.Sprintf("Cannot pass %s argument as parameter '%s: %s' to var()",
					actual.Name, s.Name.Lexeme, declared.Name))
		}

	case !s.Typ.IsResolved() && s.Initializer == nil:
		v.diags.Add(diagnostic.TypeValidationError, s.Name, "Cannot infer type without an initializer.")

	case !s.Typ.IsResolved() && s.Typ.Explicit:
		v.diags.Add(diagnostic.TypeValidationError, s.Typ.Specifier,
			fmt.Sprintf("Type not found: %s", s.Typ.Specifier.Lexeme))
	}
}

func (v *TypeValidator) function(fn *ast.Function) {
	if !fn.HasReturnAnnotation {
		v.diags.Add(diagnostic.TypeValidationError, fn.Name,
			fmt.Sprintf("Inferred typing is not yet supported for function '%s'", fn.Name.Lexeme))
	}
	for _, p := range fn.Params {
		if p.TypeAnnotation.IsZero() {
			v.diags.Add(diagnostic.TypeValidationError, p.Name,
				fmt.Sprintf("Inferred typing is not yet supported for parameter '%s' to function '%s'",
					p.Name.Lexeme, fn.Name.Lexeme))
		}
	}
	v.Validate(fn.Body)
}

func (v *TypeValidator) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Literal, *ast.Variable, *ast.Empty:
		// nothing further to validate

	case *ast.Grouping:
		v.expr(e.Inner)

	case *ast.UnaryPrefix:
		v.expr(e.Right)

	case *ast.UnaryPostfix:
		v.expr(e.Left)

	case *ast.Binary:
		v.expr(e.Left)
		v.expr(e.Right)

	case *ast.Logical:
		v.expr(e.Left)
		v.expr(e.Right)

	case *ast.Assign:
		v.expr(e.Value)

	case *ast.Call:
		v.call(e)

	case *ast.Get:
		if v2, ok := e.Object.(*ast.Variable); ok {
			v.expr(v2)
		}

	default:
		panic(fmt.Sprintf("typecheck: unexpected expr %T", e))
	}
}

func (v *TypeValidator) call(e *ast.Call) {
	for _, a := range e.Args {
		v.expr(a)
	}

	b, ok := v.bindings[e]
	if !ok {
		return // already reported during resolution
	}

	isMethod := false
	if _, ok := e.Callee.(*ast.Get); ok {
		isMethod = true
	}

	switch b.Kind {
	case resolver.Function:
		v.validateUserCall(e, b, isMethod)
	case resolver.Native:
		v.validateNativeCall(e, b, isMethod)
	default:
		v.diags.Add(diagnostic.TypeValidationError, e.Paren, "NotCallable: value is not callable")
	}
}

func calleeLabel(isMethod bool) string {
	if isMethod {
		return "Method"
	}
	return "Function"
}

func (v *TypeValidator) validateUserCall(e *ast.Call, b *resolver.Binding, isMethod bool) {
	fn := b.ResolvedFunc
	if fn == nil {
		return
	}
	if len(fn.Params) != len(e.Args) {
		v.diags.Add(diagnostic.TypeValidationError, e.Paren,
			fmt.Sprintf("%s '%s' has %d parameter(s) but was called with %d argument(s)",
				calleeLabel(isMethod), b.Name, len(fn.Params), len(e.Args)))
		return
	}
	for i, p := range fn.Params {
		arg := e.Args[i]
		if p.Typ == nil || !p.Typ.IsResolved() || !arg.TypeRef().IsResolved() {
			continue
		}
		if !types.CanBeCoercedInto(p.Typ.Resolved, arg.TypeRef().Resolved) {
			v.diags.Add(diagnostic.TypeValidationError, e.Paren,
				fmt.Sprintf("Cannot pass %s argument as parameter '%s: %s' to %s()",
					arg.TypeRef().Resolved.Name, p.Name.Lexeme, p.Typ.Resolved.Name, b.Name))
		}
	}
}

func (v *TypeValidator) validateNativeCall(e *ast.Call, b *resolver.Binding, isMethod bool) {
	c := b.NativeCallable
	if c == nil {
		return
	}
	if c.Arity() != len(e.Args) {
		v.diags.Add(diagnostic.TypeValidationError, e.Paren,
			fmt.Sprintf("%s '%s' has %d parameter(s) but was called with %d argument(s)",
				calleeLabel(isMethod), c.Name, c.Arity(), len(e.Args)))
		return
	}
	for i, pt := range c.ParamTypes {
		arg := e.Args[i]
		if pt == nil || !arg.TypeRef().IsResolved() {
			continue
		}
		if !types.CanBeCoercedInto(pt, arg.TypeRef().Resolved) {
			v.diags.Add(diagnostic.TypeValidationError, e.Paren,
				fmt.Sprintf("Cannot pass %s argument as %s parameter to %s()",
					arg.TypeRef().Resolved.Name, pt.Name, c.Name))
		}
	}
}
