// Package evaluator implements the tree-walking interpreter: it executes
// statements and expressions against an environment.Environment chain and
// the resolver's Bindings, and defines the few runtime.Value kinds that
// must reference host or environment types (lang/runtime stays a leaf
// package depending only on lang/types, so these live here instead).
package evaluator

import (
	"fmt"

	"github.com/perlun/perlang/lang/ast"
	"github.com/perlun/perlang/lang/environment"
	"github.com/perlun/perlang/lang/host"
	"github.com/perlun/perlang/lang/types"
)

// UserFunction is a declared function value: the declaration plus the
// environment frame active at declaration time, giving it lexical closure
// over its enclosing scope.
type UserFunction struct {
	Decl    *ast.Function
	Closure *environment.Environment
}

func (f *UserFunction) Name() string { return f.Decl.Name.Lexeme }
func (f *UserFunction) Arity() int   { return len(f.Decl.Params) }
func (f *UserFunction) Truthy() bool { return true }
func (f *UserFunction) String() string {
	return fmt.Sprintf("<fn %s>", f.Decl.Name.Lexeme)
}
func (f *UserFunction) Type() *types.TypeHandle {
	if f.Decl.ReturnTyp == nil || !f.Decl.ReturnTyp.IsResolved() {
		return types.VoidHandle
	}
	return f.Decl.ReturnTyp.Resolved
}

// NativeCallableValue wraps a host.Callable so it can flow through the
// evaluator as an ordinary runtime.Value (e.g. when a top-level native is
// read without being called, or passed around before a call).
type NativeCallableValue struct {
	C *host.Callable
}

func (v *NativeCallableValue) Name() string { return v.C.Name }
func (v *NativeCallableValue) Arity() int   { return v.C.Arity() }
func (v *NativeCallableValue) Truthy() bool { return true }
func (v *NativeCallableValue) String() string {
	return fmt.Sprintf("<native fn %s>", v.C.Name)
}
func (v *NativeCallableValue) Type() *types.TypeHandle {
	if v.C.ReturnTypRef == nil || !v.C.ReturnTypRef.IsResolved() {
		return types.VoidHandle
	}
	return v.C.ReturnTypRef.Resolved
}

// NativeObjectValue is the runtime value of a host class name used as an
// expression, e.g. the bare identifier "Base64" or "ARGV": a handle that
// Get dispatches method calls through.
type NativeObjectValue struct {
	Class *host.Class
}

func (v *NativeObjectValue) Truthy() bool { return true }
func (v *NativeObjectValue) String() string {
	return fmt.Sprintf("<native class %s>", v.Class.Name)
}
func (v *NativeObjectValue) Type() *types.TypeHandle { return v.Class.Handle }

// DeclaredClassValue is the runtime value of a user-declared class name.
// Spec non-goals exclude instantiation and method dispatch for declared
// classes in this core; the value exists only so the class's own name
// evaluates to something when read, rather than panicking.
type DeclaredClassValue struct {
	Decl *ast.Class
}

func (v *DeclaredClassValue) Truthy() bool { return true }
func (v *DeclaredClassValue) String() string {
	return fmt.Sprintf("<class %s>", v.Decl.Name.Lexeme)
}
func (v *DeclaredClassValue) Type() *types.TypeHandle {
	h, _ := types.Lookup(v.Decl.Name.Lexeme)
	return h
}
