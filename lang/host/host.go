// Package host defines the contract the core consumes from its embedder: a
// directory of native callables, a directory of native classes, and a
// directory of super-globals. The core never constructs these; it only
// looks names up in them. internal/natives provides one concrete instance
// of this contract (Base64, ARGV) used by the CLI and by the core's own
// integration tests.
package host

import (
	"github.com/perlun/perlang/lang/runtime"
	"github.com/perlun/perlang/lang/types"
)

// Method is a native callable's implementation. It receives already-evaluated
// arguments, in order, and returns a value or an error; a returned error is
// reflected in by the evaluator as a RuntimeError annotated with the call
// site's token (spec.md section 4.4).
type Method func(args []runtime.Value) (runtime.Value, error)

// Callable describes one native function, e.g. a top-level native or a
// method reached through Get on a native object.
type Callable struct {
	Name         string
	Method       Method
	ParamTypes   []*types.TypeHandle
	ReturnTypRef *types.TypeReference // pre-resolved; Explicit is irrelevant for natives
}

func (c *Callable) Arity() int { return len(c.ParamTypes) }

// Class describes a host-native class: its static type handle (used for
// annotations and for the NativeObject binding) and the methods reachable
// through Get on an instance or on the class handle itself (this language
// only exposes static-style native methods, e.g. Base64.decode(...), so
// "instance" and "class handle" are the same value).
type Class struct {
	Name    string
	Handle  *types.TypeHandle
	Methods map[string]*Callable
}

// Directories bundles the three host-provided lookup tables the resolver and
// evaluator consult. A nil Directories is equivalent to all maps being
// empty.
type Directories struct {
	Callables    map[string]*Callable
	Classes      map[string]*Class
	SuperGlobals map[string]*types.TypeHandle
}

func (d *Directories) Callable(name string) (*Callable, bool) {
	if d == nil {
		return nil, false
	}
	c, ok := d.Callables[name]
	return c, ok
}

func (d *Directories) Class(name string) (*Class, bool) {
	if d == nil {
		return nil, false
	}
	c, ok := d.Classes[name]
	return c, ok
}

func (d *Directories) SuperGlobal(name string) (*types.TypeHandle, bool) {
	if d == nil {
		return nil, false
	}
	h, ok := d.SuperGlobals[name]
	return h, ok
}
