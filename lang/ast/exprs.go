package ast

import (
	"fmt"
	"strings"

	"github.com/perlun/perlang/lang/token"
	"github.com/perlun/perlang/lang/types"
)

type (
	// Literal represents a literal null, boolean, number or string. Value is
	// nil for the null literal.
	Literal struct {
		Tok   token.Token
		Value interface{}
		Typ   *types.TypeReference
	}

	// Grouping represents a parenthesized expression, e.g. (x + y).
	Grouping struct {
		Lparen token.Token
		Inner  Expr
		Typ    *types.TypeReference
	}

	// UnaryPrefix represents a prefix unary expression, e.g. -x or !x.
	UnaryPrefix struct {
		Op    token.Token
		Right Expr
		Typ   *types.TypeReference
	}

	// UnaryPostfix represents a postfix increment/decrement, e.g. x++.
	// Left is the operand expression (used to evaluate the current value);
	// Name is the identifier that resolve_local targets to read/write back.
	UnaryPostfix struct {
		Left Expr
		Op   token.Token
		Name *Identifier
		Typ  *types.TypeReference
	}

	// Binary represents a binary arithmetic or comparison expression.
	Binary struct {
		Left  Expr
		Op    token.Token
		Right Expr
		Typ   *types.TypeReference
	}

	// Logical represents a short-circuiting "and"/"or" expression.
	Logical struct {
		Left  Expr
		Op    token.Token
		Right Expr
		Typ   *types.TypeReference
	}

	// Assign represents a name assignment, e.g. x = y.
	Assign struct {
		Name  *Identifier
		Value Expr
		Typ   *types.TypeReference
	}

	// Identifier is a bare name reference used where the grammar needs only
	// the name token, not an independently-evaluated expression: the target
	// of Assign, the target of UnaryPostfix, and the member name of Get.
	Identifier struct {
		Name token.Token
		Typ  *types.TypeReference
	}

	// Variable is the name-reference expression form: reading a variable's
	// current value. This is the node the resolver binds via resolve_local
	// when a bare name appears in value position.
	Variable struct {
		Name token.Token
		Typ  *types.TypeReference
	}

	// Call represents a function call, e.g. f(a, b).
	Call struct {
		Callee Expr
		Paren  token.Token
		Args   []Expr
		Typ    *types.TypeReference
	}

	// Get represents a member access on a host object, e.g. Base64.decode.
	Get struct {
		Object Expr
		Name   *Identifier
		Typ    *types.TypeReference
	}

	// Empty represents the absence of an expression where the grammar allows
	// one optionally (e.g. a bare "return;").
	Empty struct {
		Typ *types.TypeReference
	}
)

func (n *Literal) exprNode()      {}
func (n *Grouping) exprNode()     {}
func (n *UnaryPrefix) exprNode()  {}
func (n *UnaryPostfix) exprNode() {}
func (n *Binary) exprNode()       {}
func (n *Logical) exprNode()      {}
func (n *Assign) exprNode()       {}
func (n *Identifier) exprNode()   {}
func (n *Variable) exprNode()     {}
func (n *Call) exprNode()         {}
func (n *Get) exprNode()          {}
func (n *Empty) exprNode()        {}

func (n *Literal) TypeRef() *types.TypeReference      { return n.Typ }
func (n *Grouping) TypeRef() *types.TypeReference     { return n.Typ }
func (n *UnaryPrefix) TypeRef() *types.TypeReference  { return n.Typ }
func (n *UnaryPostfix) TypeRef() *types.TypeReference { return n.Typ }
func (n *Binary) TypeRef() *types.TypeReference       { return n.Typ }
func (n *Logical) TypeRef() *types.TypeReference      { return n.Typ }
func (n *Assign) TypeRef() *types.TypeReference       { return n.Typ }
func (n *Identifier) TypeRef() *types.TypeReference   { return n.Typ }
func (n *Variable) TypeRef() *types.TypeReference     { return n.Typ }
func (n *Call) TypeRef() *types.TypeReference         { return n.Typ }
func (n *Get) TypeRef() *types.TypeReference          { return n.Typ }
func (n *Empty) TypeRef() *types.TypeReference        { return n.Typ }

func (n *Literal) Walk(v Visitor)      {}
func (n *Grouping) Walk(v Visitor)     { Walk(v, n.Inner) }
func (n *UnaryPrefix) Walk(v Visitor)  { Walk(v, n.Right) }
func (n *UnaryPostfix) Walk(v Visitor) { Walk(v, n.Left) }
func (n *Binary) Walk(v Visitor)       { Walk(v, n.Left); Walk(v, n.Right) }
func (n *Logical) Walk(v Visitor)      { Walk(v, n.Left); Walk(v, n.Right) }
func (n *Assign) Walk(v Visitor)       { Walk(v, n.Value) }
func (n *Identifier) Walk(v Visitor)   {}
func (n *Variable) Walk(v Visitor)     {}
func (n *Call) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *Get) Walk(v Visitor)   { Walk(v, n.Object) }
func (n *Empty) Walk(v Visitor) {}

func (n *Literal) String() string {
	if n.Value == nil {
		return "null"
	}
	return fmt.Sprintf("%v", n.Value)
}
func (n *Grouping) String() string     { return "(" + n.Inner.String() + ")" }
func (n *UnaryPrefix) String() string  { return n.Op.Lexeme + n.Right.String() }
func (n *UnaryPostfix) String() string { return n.Left.String() + n.Op.Lexeme }
func (n *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Op.Lexeme, n.Left, n.Right)
}
func (n *Logical) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Op.Lexeme, n.Left, n.Right)
}
func (n *Assign) String() string     { return fmt.Sprintf("(= %s %s)", n.Name.Name.Lexeme, n.Value) }
func (n *Identifier) String() string { return n.Name.Lexeme }
func (n *Variable) String() string   { return n.Name.Lexeme }
func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("(call %s %s)", n.Callee, strings.Join(args, " "))
}
func (n *Get) String() string { return fmt.Sprintf("%s.%s", n.Object, n.Name.Name.Lexeme) }
func (n *Empty) String() string { return "" }
