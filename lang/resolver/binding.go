package resolver

import (
	"github.com/perlun/perlang/lang/ast"
	"github.com/perlun/perlang/lang/host"
	"github.com/perlun/perlang/lang/types"
)

// Kind is the tag of the Binding sum type (spec.md section 3, "Binding").
type Kind uint8

const (
	// Variable is a local or global variable binding.
	Variable Kind = iota
	// Function is a local or global named-function binding.
	Function
	// Native is a host-provided callable, always global (Distance == -1).
	Native
	// NativeObject is a host-provided class handle used as a value, always
	// global.
	NativeObject
	// Class is a declared (non-native) class, always global.
	Class
)

// Binding is the resolver's verdict about which slot an identifier-use
// refers to. Distance -1 means global (resolved from globals or a host
// directory); Distance >= 0 means local, that many frames outward from the
// referring site. Exactly one Binding exists per resolved referring
// expression, keyed by that expression's identity (see Resolver.Bindings).
type Binding struct {
	Kind     Kind
	TypeRef  *types.TypeReference
	Distance int

	// ReferringExpr is the expression node this binding was computed for; it
	// is also the map key in Resolver.Bindings, kept here too so a Binding
	// value can be handed around independently of the map.
	ReferringExpr ast.Expr

	// FuncID is set when Kind == Function: the handle into the resolver's
	// FuncRegistry for the declaration this binding targets.
	FuncID ast.FuncID

	// ResolvedFunc is FuncID dereferenced against the registry at binding
	// construction time, so lang/typecheck can read parameter/return types
	// without holding its own reference to the registry.
	ResolvedFunc *ast.Function

	// NativeCallable is set when Kind == Native.
	NativeCallable *host.Callable

	// NativeClass is set when Kind == NativeObject.
	NativeClass *host.Class

	// ClassDecl is set when Kind == Class.
	ClassDecl *ast.Class

	// Name is the textual name this binding was resolved for, kept for
	// diagnostics and for native/global lookups that are keyed by name
	// rather than by FuncID.
	Name string
}

// HasDistance reports whether this binding carries a meaningful scope
// distance, i.e. it is a Variable or Function binding (the only two kinds a
// local declaration can produce); Native, NativeObject and Class bindings are
// always global and read through their own directory instead.
func (b *Binding) HasDistance() bool {
	return b.Kind == Variable || b.Kind == Function
}

// IsGlobal reports whether this binding resolves through the globals frame
// or a host directory rather than a local scope frame.
func (b *Binding) IsGlobal() bool { return b.Distance < 0 }
