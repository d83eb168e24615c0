// Package typecheck implements the two type passes that run after name
// resolution: TypeResolver computes and stores the type of every
// expression (including annotation lookups and numeric promotion),
// TypeValidator then enforces call-site coercion, variable-initializer
// coercion, and the few sanity checks spec.md's TypeValidator section
// names. ImmutabilityValidator is carried for API symmetry with the host
// contract (spec.md section 6 lists an immutability-validation handler)
// even though this grammar has no immutable-binding syntax to validate.
package typecheck

import (
	"fmt"

	"github.com/perlun/perlang/lang/ast"
	"github.com/perlun/perlang/lang/diagnostic"
	"github.com/perlun/perlang/lang/resolver"
	"github.com/perlun/perlang/lang/token"
	"github.com/perlun/perlang/lang/types"
)

// TypeResolver is the first type pass: a depth-first visitor that computes
// and stores each expression's type, consulting the resolver's Bindings for
// Variable and Call nodes.
type TypeResolver struct {
	bindings map[ast.Expr]*resolver.Binding
	diags    *diagnostic.List
}

func New(bindings map[ast.Expr]*resolver.Binding, diags *diagnostic.List) *TypeResolver {
	return &TypeResolver{bindings: bindings, diags: diags}
}

func (tr *TypeResolver) errorf(tok token.Token, format string, args ...interface{}) {
	tr.diags.Add(diagnostic.TypeValidationError, tok, fmt.Sprintf(format, args...))
}

func (tr *TypeResolver) nameErrorf(tok token.Token, format string, args ...interface{}) {
	tr.diags.Add(diagnostic.NameResolutionError, tok, fmt.Sprintf(format, args...))
}

// Resolve visits every statement, assigning a type to every expression it
// can. Call it once per batch, after the name resolver and before
// TypeValidator.
func (tr *TypeResolver) Resolve(stmts []ast.Stmt) {
	for _, s := range stmts {
		tr.stmt(s)
	}
}

func (tr *TypeResolver) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.ExpressionStmt:
		tr.expr(s.Expr)

	case *ast.Print:
		tr.expr(s.Expr)

	case *ast.Var:
		if s.Initializer != nil {
			tr.expr(s.Initializer)
		}
		tr.varDecl(s)

	case *ast.Block:
		tr.Resolve(s.Stmts)

	case *ast.If:
		tr.expr(s.Cond)
		tr.stmt(s.Then)
		if s.Else != nil {
			tr.stmt(s.Else)
		}

	case *ast.While:
		tr.expr(s.Cond)
		tr.stmt(s.Body)

	case *ast.Function:
		tr.function(s)

	case *ast.Return:
		if s.Value != nil {
			tr.expr(s.Value)
		}

	case *ast.Class:
		for _, m := range s.Methods {
			tr.function(m)
		}

	default:
		panic(fmt.Sprintf("typecheck: unexpected stmt %T", s))
	}
}

// varDecl resolves a Var statement's own type slot: explicit annotation
// lookup, or inference from the initializer's resolved type.
func (tr *TypeResolver) varDecl(s *ast.Var) {
	if s.Typ == nil {
		return // the resolver always assigns one; nothing to do if it didn't
	}
	if s.Typ.IsResolved() {
		return
	}
	if s.Typ.Explicit {
		if h, ok := types.Lookup(s.Typ.Specifier.Lexeme); ok {
			s.Typ.Resolve(h)
		}
		return
	}
	if s.Initializer != nil {
		if ref := s.Initializer.TypeRef(); ref.IsResolved() {
			s.Typ.Resolve(ref.Resolved)
		}
	}
}

func (tr *TypeResolver) function(fn *ast.Function) {
	if fn.ReturnTyp != nil && !fn.ReturnTyp.IsResolved() && fn.ReturnTyp.Explicit {
		if h, ok := types.Lookup(fn.ReturnTyp.Specifier.Lexeme); ok {
			fn.ReturnTyp.Resolve(h)
		}
	}
	for _, p := range fn.Params {
		if p.Typ != nil && !p.Typ.IsResolved() {
			if h, ok := types.Lookup(p.TypeAnnotation.Lexeme); ok {
				p.Typ.Resolve(h)
			}
		}
	}
	tr.Resolve(fn.Body)
}

func (tr *TypeResolver) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Literal:
		tr.literal(e)

	case *ast.Grouping:
		tr.expr(e.Inner)
		tr.adopt(e, e.Inner.TypeRef())

	case *ast.UnaryPrefix:
		tr.expr(e.Right)
		tr.adopt(e, e.Right.TypeRef())

	case *ast.UnaryPostfix:
		tr.expr(e.Left)
		tr.adopt(e, e.Left.TypeRef())

	case *ast.Binary:
		tr.binary(e)

	case *ast.Logical:
		tr.expr(e.Left)
		tr.expr(e.Right)
		tr.resolveOnce(e.TypeRef(), types.BoolHandle)

	case *ast.Assign:
		tr.expr(e.Value)
		tr.adopt(e, e.Value.TypeRef())

	case *ast.Variable:
		tr.variable(e)

	case *ast.Call:
		tr.call(e)

	case *ast.Get:
		tr.get(e)

	case *ast.Empty:
		// no type

	default:
		panic(fmt.Sprintf("typecheck: unexpected expr %T", e))
	}
}

func (tr *TypeResolver) resolveOnce(ref *types.TypeReference, h *types.TypeHandle) {
	if ref == nil || ref.IsResolved() || h == nil {
		return
	}
	ref.Resolve(h)
}

func (tr *TypeResolver) adopt(e ast.Expr, from *types.TypeReference) {
	if from == nil || !from.IsResolved() {
		return
	}
	tr.resolveOnce(e.TypeRef(), from.Resolved)
}

func (tr *TypeResolver) literal(e *ast.Literal) {
	var h *types.TypeHandle
	switch v := e.Value.(type) {
	case nil:
		h = types.NullHandle
	case bool:
		h = types.BoolHandle
	case int64:
		h = types.Int32Handle
	case float64:
		h = types.Float64Handle
	case string:
		h = types.StringHandle
	default:
		_ = v
		return
	}
	tr.resolveOnce(e.TypeRef(), h)
}

func (tr *TypeResolver) binary(e *ast.Binary) {
	tr.expr(e.Left)
	tr.expr(e.Right)

	lt, rt := e.Left.TypeRef(), e.Right.TypeRef()
	if !lt.IsResolved() || !rt.IsResolved() {
		return // upstream error already recorded
	}
	lh, rh := lt.Resolved, rt.Resolved

	switch e.Op.Kind {
	case token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL,
		token.EQUAL_EQUAL, token.BANG_EQUAL:
		if !lh.Comparable() || !rh.Comparable() {
			tr.errorf(e.Op, "Operands must be comparable.")
			return
		}
		tr.resolveOnce(e.TypeRef(), types.BoolHandle)

	case token.PLUS:
		if lh == types.StringHandle || rh == types.StringHandle {
			tr.resolveOnce(e.TypeRef(), types.StringHandle)
			return
		}
		tr.arithmetic(e, lh, rh)

	case token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.STAR_STAR:
		tr.arithmetic(e, lh, rh)

	default:
		tr.diags.Add(diagnostic.InternalError, e.Op, "internal error: unexpected binary operator")
	}
}

func (tr *TypeResolver) arithmetic(e *ast.Binary, lh, rh *types.TypeHandle) {
	if lh.Kind != types.KindArithmetic || rh.Kind != types.KindArithmetic {
		tr.errorf(e.Op, "Operands must be numeric.")
		return
	}
	winner := types.Promote(lh.Numeric, rh.Numeric)
	h := lh
	if winner == rh.Numeric {
		h = rh
	}
	tr.resolveOnce(e.TypeRef(), h)
}

func (tr *TypeResolver) variable(e *ast.Variable) {
	b, ok := tr.bindings[e]
	if !ok {
		tr.nameErrorf(e.Name, "Undefined variable '%s'", e.Name.Lexeme)
		return
	}
	tr.resolveBindingType(b)
	if b.TypeRef != nil && b.TypeRef.IsResolved() {
		tr.resolveOnce(e.TypeRef(), b.TypeRef.Resolved)
	}
}

// resolveBindingType lazily resolves a binding's declared type reference
// from its annotation, the first time anything reads through it.
func (tr *TypeResolver) resolveBindingType(b *resolver.Binding) {
	if b.TypeRef == nil || b.TypeRef.IsResolved() || !b.TypeRef.Explicit {
		return
	}
	if h, ok := types.Lookup(b.TypeRef.Specifier.Lexeme); ok {
		b.TypeRef.Resolve(h)
	}
}

// call types a Call expression from its own binding (keyed by the Call node
// itself, not by its callee — see lang/resolver's Call handling), and
// types each argument. It deliberately does not independently type the
// callee as a value-position Variable: for an identifier-form callee the
// resolver already reports "Attempting to call undefined function" when
// unresolved, and re-typing it here as a Variable would double-report the
// same missing name as "Undefined variable".
func (tr *TypeResolver) call(e *ast.Call) {
	for _, a := range e.Args {
		tr.expr(a)
	}
	if g, ok := e.Callee.(*ast.Get); ok {
		tr.get(g)
	}
	b, ok := tr.bindings[e]
	if !ok {
		return
	}
	tr.resolveBindingType(b)
	if b.TypeRef != nil && b.TypeRef.IsResolved() {
		tr.resolveOnce(e.TypeRef(), b.TypeRef.Resolved)
	}
}

// get tolerates an unresolved result type: dispatch through a host object is
// validated and performed by the evaluator, not the type pass (spec.md
// section 4.2).
func (tr *TypeResolver) get(e *ast.Get) {
	if v, ok := e.Object.(*ast.Variable); ok {
		tr.expr(v)
	}
}
