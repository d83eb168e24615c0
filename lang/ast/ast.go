// Package ast defines the abstract syntax tree produced by the parser. Nodes
// are an immutable tree except for each expression's TypeRef slot, which the
// type resolver mutates in place, and the function registry, which owns the
// function declarations that bindings and scope slots refer to by handle.
//
// Each pass (resolver, type resolver, evaluator) implements its own
// exhaustive switch over node kinds rather than going through the Visitor
// below; Visitor/Walk exist for generic, pass-independent tree walks (a
// future debug dump, tooling, etc.) the way the teacher's ast.Walk serves
// its printer while the resolver still hand-rolls its own traversal.
package ast

import (
	"fmt"

	"github.com/perlun/perlang/lang/types"
)

// Node is any node in the tree.
type Node interface {
	fmt.Stringer
	// Walk visits each direct child node, in evaluation order.
	Walk(v Visitor)
}

// Expr is an expression node. Every expression carries a mutable TypeRef
// slot, initially unresolved, that the type resolver fills in.
type Expr interface {
	Node
	exprNode()
	TypeRef() *types.TypeReference
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Visitor is invoked once per child node during a Walk. Returning false stops
// the walk from descending into that child's own children.
type Visitor func(n Node) (descend bool)

// Walk invokes v on n and, if v returns true, on each of n's children,
// recursively.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	if v(n) {
		n.Walk(v)
	}
}
