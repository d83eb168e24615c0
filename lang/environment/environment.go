// Package environment implements the linked chain of name-to-value frames
// the evaluator reads and writes through, following the bindings the
// resolver computed: GetAt/AssignAt walk exactly the given number of parent
// frames, never searching, because the resolver already determined the
// distance statically.
package environment

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/perlun/perlang/lang/runtime"
)

// Environment is one frame of the chain: the current scope plus a link to
// its parent. The root environment (Parent == nil) is the globals frame.
type Environment struct {
	Parent *Environment
	values map[string]runtime.Value

	// globals backs the root frame only. It uses a swiss.Map instead of a
	// plain Go map because the root frame is the one frame that can grow to
	// the size of an entire program's top-level declarations and that every
	// unresolved-local lookup (distance == -1) probes directly; a flatter,
	// open-addressed map keeps that path fast without complicating the
	// GetAt/AssignAt contract used by every other frame.
	globals *swiss.Map[string, runtime.Value]
}

// NewGlobals returns a fresh root environment.
func NewGlobals() *Environment {
	return &Environment{globals: swiss.NewMap[string, runtime.Value](64)}
}

// NewChild returns a new frame chained to parent, used on block and function
// entry.
func NewChild(parent *Environment) *Environment {
	return &Environment{Parent: parent, values: make(map[string]runtime.Value)}
}

func (e *Environment) isRoot() bool { return e.Parent == nil }

// Define introduces name in this frame, shadowing any binding of the same
// name in an enclosing frame. Used for variable declarations and parameter
// binding.
func (e *Environment) Define(name string, v runtime.Value) {
	if e.isRoot() {
		e.globals.Put(name, v)
		return
	}
	e.values[name] = v
}

// ancestor walks exactly distance parents from e.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		if env.Parent == nil {
			panic(fmt.Sprintf("environment: ancestor(%d) overran the chain", distance))
		}
		env = env.Parent
	}
	return env
}

// GetAt reads name from the frame exactly distance parents out from e. The
// resolver guarantees that if it emitted distance d for a use-site, the name
// exists in the d-th ancestor at the time this is called (spec.md invariant
// 3); an absent name here is a runtime bug, not a user error, except at the
// root frame where absence is a legitimate "undefined global" condition
// reported by the caller.
func (e *Environment) GetAt(distance int, name string) (runtime.Value, bool) {
	env := e.ancestor(distance)
	if env.isRoot() {
		return env.globals.Get(name)
	}
	v, ok := env.values[name]
	return v, ok
}

// AssignAt stores v into the frame exactly distance parents out from e. It
// reports ok=false if name was not already declared there, matching
// spec.md's "absent name at the targeted depth is a runtime error".
func (e *Environment) AssignAt(distance int, name string, v runtime.Value) bool {
	env := e.ancestor(distance)
	if env.isRoot() {
		if _, ok := env.globals.Get(name); !ok {
			return false
		}
		env.globals.Put(name, v)
		return true
	}
	if _, ok := env.values[name]; !ok {
		return false
	}
	env.values[name] = v
	return true
}

// GetGlobal reads name directly from the root frame, used by the evaluator
// when a binding's distance is -1 (global) rather than walking from the
// current frame.
func (e *Environment) GetGlobal(name string) (runtime.Value, bool) {
	root := e
	for root.Parent != nil {
		root = root.Parent
	}
	return root.globals.Get(name)
}

// AssignGlobal assigns name directly in the root frame. It fails if name was
// never declared, matching globals.Assign's contract in spec.md section 4.4.
func (e *Environment) AssignGlobal(name string, v runtime.Value) bool {
	root := e
	for root.Parent != nil {
		root = root.Parent
	}
	if _, ok := root.globals.Get(name); !ok {
		return false
	}
	root.globals.Put(name, v)
	return true
}

// DefineGlobal introduces name in the root frame regardless of the current
// frame. The evaluator does not call it: a top-level Var statement runs with
// the root as its current frame, so Define already writes into globals.
func (e *Environment) DefineGlobal(name string, v runtime.Value) {
	root := e
	for root.Parent != nil {
		root = root.Parent
	}
	root.globals.Put(name, v)
}
