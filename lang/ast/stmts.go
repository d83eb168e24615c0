package ast

import (
	"fmt"
	"strings"

	"github.com/perlun/perlang/lang/token"
	"github.com/perlun/perlang/lang/types"
)

type (
	// ExpressionStmt is a statement consisting of a single expression
	// evaluated for its side effects.
	ExpressionStmt struct {
		Expr Expr
	}

	// Print evaluates Expr and writes its stringified form to the output sink.
	Print struct {
		Keyword token.Token
		Expr    Expr
	}

	// Var declares a local or global variable, with an optional type
	// annotation and optional initializer. Typ is the variable's own type
	// slot: resolved either from the annotation or, by inference, from the
	// initializer's type.
	Var struct {
		Name           token.Token
		TypeAnnotation token.Token // zero Token if no annotation
		HasAnnotation  bool
		Initializer    Expr // nil if none
		Typ            *types.TypeReference
	}

	// Block is a brace-delimited sequence of statements introducing a new
	// lexical scope.
	Block struct {
		Stmts []Stmt
	}

	// If represents an if/else statement. Else is nil if there is no else
	// branch.
	If struct {
		Keyword token.Token
		Cond    Expr
		Then    Stmt
		Else    Stmt
	}

	// While represents a while loop.
	While struct {
		Keyword token.Token
		Cond    Expr
		Body    Stmt
	}

	// Param is a function parameter: a name with an optional type
	// annotation. TypeAnnotation is the zero Token when none was written;
	// the type validator reports such a parameter as unsupported inference.
	Param struct {
		Name           token.Token
		TypeAnnotation token.Token
		Typ            *types.TypeReference
	}

	// Function declares a named function. The return type annotation is
	// optional (HasReturnAnnotation); the type validator reports a function
	// without one as unsupported inference.
	Function struct {
		Name                 token.Token
		Params               []*Param
		ReturnTypeAnnotation token.Token
		HasReturnAnnotation  bool
		ReturnTyp            *types.TypeReference
		Body                 []Stmt
	}

	// Return represents a return statement. Value is nil for a bare "return;".
	Return struct {
		Keyword token.Token
		Value   Expr
	}

	// Class declares a class. Per spec.md's non-goals, a declared (non-host)
	// class carries no callable methods in this core; Methods is retained so
	// the AST can represent one, but the resolver only binds the class's own
	// name, and the evaluator never dispatches calls through a declared
	// class's method list.
	Class struct {
		Name    token.Token
		Methods []*Function
	}
)

func (n *ExpressionStmt) stmtNode() {}
func (n *Print) stmtNode()          {}
func (n *Var) stmtNode()            {}
func (n *Block) stmtNode()          {}
func (n *If) stmtNode()             {}
func (n *While) stmtNode()          {}
func (n *Function) stmtNode()       {}
func (n *Return) stmtNode()         {}
func (n *Class) stmtNode()          {}

func (n *ExpressionStmt) Walk(v Visitor) { Walk(v, n.Expr) }
func (n *Print) Walk(v Visitor)          { Walk(v, n.Expr) }
func (n *Var) Walk(v Visitor) {
	if n.Initializer != nil {
		Walk(v, n.Initializer)
	}
}
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		walkStmt(v, s)
	}
}
func (n *If) Walk(v Visitor) {
	Walk(v, n.Cond)
	walkStmt(v, n.Then)
	if n.Else != nil {
		walkStmt(v, n.Else)
	}
}
func (n *While) Walk(v Visitor) {
	Walk(v, n.Cond)
	walkStmt(v, n.Body)
}
func (n *Function) Walk(v Visitor) {
	for _, s := range n.Body {
		walkStmt(v, s)
	}
}
func (n *Return) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *Class) Walk(v Visitor) {
	for _, m := range n.Methods {
		walkStmt(v, m)
	}
}

// walkStmt adapts Walk (which takes Node) for Stmt values so statement
// Walk methods read naturally; Stmt satisfies Node already.
func walkStmt(v Visitor, s Stmt) { Walk(v, s) }

func (n *ExpressionStmt) String() string { return n.Expr.String() + ";" }
func (n *Print) String() string          { return "print " + n.Expr.String() + ";" }
func (n *Var) String() string {
	if n.Initializer != nil {
		return fmt.Sprintf("var %s = %s;", n.Name.Lexeme, n.Initializer)
	}
	return fmt.Sprintf("var %s;", n.Name.Lexeme)
}
func (n *Block) String() string {
	parts := make([]string, len(n.Stmts))
	for i, s := range n.Stmts {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}
func (n *If) String() string {
	if n.Else != nil {
		return fmt.Sprintf("if (%s) %s else %s", n.Cond, n.Then, n.Else)
	}
	return fmt.Sprintf("if (%s) %s", n.Cond, n.Then)
}
func (n *While) String() string { return fmt.Sprintf("while (%s) %s", n.Cond, n.Body) }
func (n *Function) String() string {
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Name.Lexeme
	}
	return fmt.Sprintf("fun %s(%s) { ... }", n.Name.Lexeme, strings.Join(params, ", "))
}
func (n *Return) String() string {
	if n.Value != nil {
		return "return " + n.Value.String() + ";"
	}
	return "return;"
}
func (n *Class) String() string { return fmt.Sprintf("class %s { ... }", n.Name.Lexeme) }
