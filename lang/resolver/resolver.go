// Package resolver implements the name resolver: it walks the AST
// maintaining a stack of lexical scopes and a separate globals frame, and
// emits a Binding for every identifier-referring expression it can resolve,
// keyed by that expression's identity (spec.md invariant 1).
package resolver

import (
	"fmt"

	"github.com/perlun/perlang/lang/ast"
	"github.com/perlun/perlang/lang/diagnostic"
	"github.com/perlun/perlang/lang/host"
	"github.com/perlun/perlang/lang/token"
	"github.com/perlun/perlang/lang/types"
)

type declKind uint8

const (
	declVariable declKind = iota
	declFunction
	declClass
)

type slotState uint8

const (
	stateDeclared slotState = iota
	stateDefined
)

// slot is a scope frame's entry: "Declared" (placeholder, cannot be read) or
// "Defined" (has a type and, for functions/classes, a registry handle).
type slot struct {
	state   slotState
	kind    declKind
	typeRef *types.TypeReference
	funcID  ast.FuncID
	class   *ast.Class
}

// scope is one lexical frame: an ordered-by-insertion mapping from lexeme to
// slot. Go maps don't preserve insertion order, but the resolver never needs
// to iterate a scope's entries, only to test membership, so a plain map
// suffices; only the globals frame's lookup-heavy workload benefits from a
// specialized map (see lang/environment, which mirrors this at runtime).
type scope struct {
	table map[string]*slot
}

func newScope() *scope { return &scope{table: make(map[string]*slot)} }

// Resolver computes bindings for a statement list. One Resolver resolves one
// batch of statements; the interpreter re-resolves the full accumulated
// program on every REPL Eval call (spec.md section 5, "REPL persistence"),
// constructing a fresh Resolver each time since scope state does not survive
// across a successful resolution.
type Resolver struct {
	scopes  []*scope
	globals map[string]*slot

	Bindings map[ast.Expr]*Binding
	Diags    *diagnostic.List

	hostDirs *host.Directories
	funcs    *ast.FuncRegistry

	funcDepth int // > 0 while resolving inside a function body
}

// New returns a Resolver that reports into diags, resolves against the
// given host directories, and registers function declarations into funcs.
// The globals frame always starts empty: the interpreter constructs a fresh
// Resolver on every Eval and re-resolves the full accumulated statement
// list, per spec.md's REPL persistence contract.
func New(diags *diagnostic.List, hostDirs *host.Directories, funcs *ast.FuncRegistry) *Resolver {
	return &Resolver{
		globals:  make(map[string]*slot),
		Bindings: make(map[ast.Expr]*Binding),
		Diags:    diags,
		hostDirs: hostDirs,
		funcs:    funcs,
	}
}

func (r *Resolver) errorf(tok token.Token, format string, args ...interface{}) {
	r.Diags.Add(diagnostic.ResolveError, tok, fmt.Sprintf(format, args...))
}

func (r *Resolver) nameErrorf(tok token.Token, format string, args ...interface{}) {
	r.Diags.Add(diagnostic.NameResolutionError, tok, fmt.Sprintf(format, args...))
}

// Resolve visits every statement in stmts. Call it once per batch; running it
// twice over the same statements yields identical bindings (spec.md's
// round-trip property), since resolution depends only on lexical position,
// not on prior resolver state.
func (r *Resolver) Resolve(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.stmt(s)
	}
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, newScope()) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) innermost() *scope {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

// declare inserts name as "Declared" in the innermost frame. It is a no-op
// at global scope: global duplicate-declaration is instead enforced by
// define, which is the step that actually writes into the globals frame
// (spec.md's resolver has no separate "Declared" placeholder for globals,
// since a global initializer cannot read its own not-yet-defined name
// without going through a local scope first).
func (r *Resolver) declare(tok token.Token) {
	sc := r.innermost()
	if sc == nil {
		return
	}
	if _, ok := sc.table[tok.Lexeme]; ok {
		r.errorf(tok, "Variable with this name already declared in this scope.")
		return
	}
	sc.table[tok.Lexeme] = &slot{state: stateDeclared}
}

// define installs a fully-defined slot for name: in the innermost frame, or
// in the globals frame if there is no enclosing scope.
func (r *Resolver) define(tok token.Token, kind declKind, typeRef *types.TypeReference, funcID ast.FuncID, class *ast.Class) {
	s := &slot{state: stateDefined, kind: kind, typeRef: typeRef, funcID: funcID, class: class}
	sc := r.innermost()
	if sc == nil {
		if _, ok := r.globals[tok.Lexeme]; ok {
			r.errorf(tok, "Variable with this name already declared in this scope.")
			return
		}
		r.globals[tok.Lexeme] = s
		return
	}
	sc.table[tok.Lexeme] = s
}

// resolvedFunc dereferences a function slot's FuncID against the registry,
// so Function bindings carry the declaration itself (lang/typecheck reads
// parameter/return types off it without its own registry reference).
func (r *Resolver) resolvedFunc(s *slot) *ast.Function {
	if s.kind != declFunction {
		return nil
	}
	return r.funcs.Get(s.funcID)
}

func bindingKindFor(k declKind) Kind {
	switch k {
	case declFunction:
		return Function
	case declClass:
		return Class
	default:
		return Variable
	}
}

// resolveLocal implements spec.md's resolve_local: walk frames from
// innermost outward, then fall back to the host directories and the
// globals frame. isCallCallee controls the wording used when nothing is
// found at all: a plain name falls through silently (the type resolver
// reports "Undefined variable"), a call callee is reported here and now as
// "Attempting to call undefined function", since by the time the type
// resolver runs, a missing callee binding is a consistency bug rather than
// a recoverable, reportable condition (spec.md section 4.2 treats an absent
// call binding as an internal error).
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token, isCallCallee bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		s, ok := r.scopes[i].table[name.Lexeme]
		if !ok {
			continue
		}
		if s.state == stateDeclared {
			r.errorf(name, "Cannot read local variable in its own initializer.")
			return
		}
		distance := (len(r.scopes) - 1) - i
		r.Bindings[expr] = &Binding{
			Kind:          bindingKindFor(s.kind),
			TypeRef:       s.typeRef,
			Distance:      distance,
			ReferringExpr: expr,
			FuncID:        s.funcID,
			ResolvedFunc:  r.resolvedFunc(s),
			ClassDecl:     s.class,
			Name:          name.Lexeme,
		}
		return
	}

	if c, ok := r.hostDirs.Callable(name.Lexeme); ok {
		r.Bindings[expr] = &Binding{
			Kind:           Native,
			TypeRef:        c.ReturnTypRef,
			Distance:       -1,
			ReferringExpr:  expr,
			NativeCallable: c,
			Name:           name.Lexeme,
		}
		return
	}

	if c, ok := r.hostDirs.Class(name.Lexeme); ok {
		r.Bindings[expr] = &Binding{
			Kind:          NativeObject,
			TypeRef:       &types.TypeReference{Resolved: c.Handle},
			Distance:      -1,
			ReferringExpr: expr,
			NativeClass:   c,
			Name:          name.Lexeme,
		}
		return
	}

	if h, ok := r.hostDirs.SuperGlobal(name.Lexeme); ok {
		nc, _ := r.hostDirs.Class(name.Lexeme) // a super-global with methods also registers a Class entry
		r.Bindings[expr] = &Binding{
			Kind:          NativeObject,
			TypeRef:       &types.TypeReference{Resolved: h},
			Distance:      -1,
			ReferringExpr: expr,
			NativeClass:   nc,
			Name:          name.Lexeme,
		}
		return
	}

	if s, ok := r.globals[name.Lexeme]; ok {
		r.Bindings[expr] = &Binding{
			Kind:          bindingKindFor(s.kind),
			TypeRef:       s.typeRef,
			Distance:      -1,
			ReferringExpr: expr,
			FuncID:        s.funcID,
			ResolvedFunc:  r.resolvedFunc(s),
			ClassDecl:     s.class,
			Name:          name.Lexeme,
		}
		return
	}

	if isCallCallee {
		r.nameErrorf(name, "Attempting to call undefined function '%s'", name.Lexeme)
	}
	// otherwise: no binding emitted; the type resolver reports "Undefined
	// variable" once it finds the referring expression has none.
}

// bindMethodCall binds a Get-style call's own call node (e.g.
// Base64.decode(...)) when the Get's object resolved to a native class, so
// TypeValidator can check the method's arity and argument coercion the same
// way it does for a bare-identifier native call, using the "Method" label
// instead of "Function". A missing method name is left unbound here and
// reported by the evaluator at call time instead, since host classes are not
// required to enumerate every method statically.
func (r *Resolver) bindMethodCall(e *ast.Call, get *ast.Get) {
	ob, ok := r.Bindings[get.Object]
	if !ok || ob.Kind != NativeObject || ob.NativeClass == nil {
		return
	}
	m, ok := ob.NativeClass.Methods[get.Name.Name.Lexeme]
	if !ok {
		return
	}
	r.Bindings[e] = &Binding{
		Kind:           Native,
		TypeRef:        m.ReturnTypRef,
		Distance:       -1,
		ReferringExpr:  e,
		NativeCallable: m,
		Name:           m.Name,
	}
}

func (r *Resolver) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.ExpressionStmt:
		r.expr(s.Expr)

	case *ast.Print:
		r.expr(s.Expr)

	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.expr(s.Initializer)
		}
		typeRef := s.Typ
		if typeRef == nil {
			if s.HasAnnotation {
				typeRef = types.NewExplicit(s.TypeAnnotation)
			} else {
				typeRef = types.NewImplicit()
			}
			s.Typ = typeRef
		}
		r.define(s.Name, declVariable, typeRef, ast.NoFuncID, nil)

	case *ast.Block:
		r.beginScope()
		r.Resolve(s.Stmts)
		r.endScope()

	case *ast.If:
		r.expr(s.Cond)
		r.stmt(s.Then)
		if s.Else != nil {
			r.stmt(s.Else)
		}

	case *ast.While:
		r.expr(s.Cond)
		r.stmt(s.Body)

	case *ast.Function:
		r.declare(s.Name)
		if s.ReturnTyp == nil {
			if s.HasReturnAnnotation {
				s.ReturnTyp = types.NewExplicit(s.ReturnTypeAnnotation)
			} else {
				s.ReturnTyp = types.NewImplicit()
			}
		}
		id := r.funcs.Add(s)
		r.define(s.Name, declFunction, s.ReturnTyp, id, nil)
		r.resolveFunction(s)

	case *ast.Return:
		if r.funcDepth == 0 {
			r.errorf(s.Keyword, "Cannot return from top-level code.")
		}
		if s.Value != nil {
			r.expr(s.Value)
		}

	case *ast.Class:
		r.declare(s.Name)
		handle := types.NewClassHandle(s.Name.Lexeme)
		types.Register(s.Name.Lexeme, handle)
		r.define(s.Name, declClass, &types.TypeReference{Resolved: handle}, ast.NoFuncID, s)
		// Methods on a declared (non-native) class carry no call semantics in
		// this core (spec.md non-goals); still resolve their bodies so names
		// used inside them are validated, in their own function scope.
		for _, m := range s.Methods {
			r.resolveFunction(m)
		}

	default:
		panic(fmt.Sprintf("resolver: unexpected stmt %T", s))
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function) {
	r.beginScope()
	for _, p := range fn.Params {
		if p.Typ == nil {
			p.Typ = types.NewExplicit(p.TypeAnnotation)
		}
		r.declare(p.Name)
		r.define(p.Name, declVariable, p.Typ, ast.NoFuncID, nil)
	}
	r.funcDepth++
	r.Resolve(fn.Body)
	r.funcDepth--
	r.endScope()
}

func (r *Resolver) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Literal:
		// nothing to resolve

	case *ast.Grouping:
		r.expr(e.Inner)

	case *ast.UnaryPrefix:
		r.expr(e.Right)

	case *ast.UnaryPostfix:
		r.expr(e.Left)
		r.resolveLocal(e, e.Name.Name, false)

	case *ast.Binary:
		r.expr(e.Left)
		r.expr(e.Right)

	case *ast.Logical:
		r.expr(e.Left)
		r.expr(e.Right)

	case *ast.Assign:
		r.expr(e.Value)
		r.resolveLocal(e, e.Name.Name, false)

	case *ast.Variable:
		if sc := r.innermost(); sc != nil {
			if s, ok := sc.table[e.Name.Lexeme]; ok && s.state == stateDeclared {
				r.errorf(e.Name, "Cannot read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name, false)

	case *ast.Call:
		r.expr(e.Callee)
		for _, a := range e.Args {
			r.expr(a)
		}
		if callee, ok := calleeIdentName(e.Callee); ok {
			r.resolveLocal(e, callee, true)
		} else if get, ok := e.Callee.(*ast.Get); ok {
			r.bindMethodCall(e, get)
		}

	case *ast.Get:
		r.expr(e.Object)

	case *ast.Empty:
		// nothing to resolve

	default:
		panic(fmt.Sprintf("resolver: unexpected expr %T", e))
	}
}

// calleeIdentName extracts the name token from a Call's callee when it is a
// bare identifier form (a Variable expression), so resolve_local can also
// bind the callee itself.
func calleeIdentName(e ast.Expr) (token.Token, bool) {
	if v, ok := e.(*ast.Variable); ok {
		return v.Name, true
	}
	return token.Token{}, false
}
