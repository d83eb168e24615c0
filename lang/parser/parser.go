// Package parser implements a recursive-descent, Pratt-free parser (one
// function per grammar precedence level, in the Lox tradition the teacher
// repo itself descends from) that turns a token stream into the AST defined
// in lang/ast. Parse errors are reported through a diagnostic.Handler and
// the parser resynchronizes at the next statement boundary, so one mistake
// doesn't hide the rest of the file's errors.
package parser

import (
	"fmt"

	"github.com/perlun/perlang/lang/ast"
	"github.com/perlun/perlang/lang/diagnostic"
	"github.com/perlun/perlang/lang/token"
	"github.com/perlun/perlang/lang/types"
)

type Parser struct {
	tokens  []token.Token
	current int
	report  diagnostic.Handler
}

func New(tokens []token.Token, report diagnostic.Handler) *Parser {
	return &Parser{tokens: tokens, report: report}
}

// parseError unwinds the current declaration/statement via panic/recover,
// matching the teacher's parser control flow: a syntax error abandons the
// current statement, reports it, and synchronize() resumes at the next one.
type parseError struct{ err error }

// Parse returns every statement it could parse, in source order. Malformed
// statements are skipped (after being reported) rather than aborting the
// whole parse, matching spec.md's "collect errors and continue" policy.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (p *Parser) declaration() (result ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			p.reportf(p.peek(), "%s", pe.err.Error())
			p.synchronize()
			result = nil
		}
	}()

	switch {
	case p.match(token.CLASS):
		return p.classDecl()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) classDecl() ast.Stmt {
	name := p.consume(token.IDENT, "Expect class name.")
	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")
	var methods []*ast.Function
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		methods = append(methods, p.function("method").(*ast.Function))
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")
	return &ast.Class{Name: name, Methods: methods}
}

func (p *Parser) function(kind string) ast.Stmt {
	name := p.consume(token.IDENT, "Expect "+kind+" name.")
	p.consume(token.LEFT_PAREN, "Expect '(' after "+kind+" name.")
	var params []*ast.Param
	if !p.check(token.RIGHT_PAREN) {
		for {
			pname := p.consume(token.IDENT, "Expect parameter name.")
			var ann token.Token
			typ := types.NewImplicit()
			if p.match(token.COLON) {
				ann = p.consume(token.IDENT, "Expect parameter type.")
				typ = types.NewExplicit(ann)
			}
			params = append(params, &ast.Param{
				Name:           pname,
				TypeAnnotation: ann,
				Typ:            typ,
			})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")

	var retAnn token.Token
	hasRet := false
	if p.match(token.COLON) {
		retAnn = p.consume(token.IDENT, "Expect return type.")
		hasRet = true
	}

	p.consume(token.LEFT_BRACE, "Expect '{' before "+kind+" body.")
	body := p.block()

	return &ast.Function{
		Name:                 name,
		Params:               params,
		ReturnTypeAnnotation: retAnn,
		HasReturnAnnotation:  hasRet,
		Body:                 body,
	}
}

func (p *Parser) varDecl() ast.Stmt {
	name := p.consume(token.IDENT, "Expect variable name.")
	var ann token.Token
	hasAnn := false
	if p.match(token.COLON) {
		ann = p.consume(token.IDENT, "Expect type annotation.")
		hasAnn = true
	}
	var init ast.Expr
	if p.match(token.EQUAL) {
		init = p.expression()
	}
	p.consumeTerminator("Expect ';' after variable declaration.")
	return &ast.Var{Name: name, TypeAnnotation: ann, HasAnnotation: hasAnn, Initializer: init}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.PRINT):
		return p.printStmt()
	case p.match(token.LEFT_BRACE):
		return &ast.Block{Stmts: p.block()}
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.match(token.RETURN):
		return p.returnStmt()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) printStmt() ast.Stmt {
	kw := p.previous()
	v := p.expression()
	p.consumeTerminator("Expect ';' after value.")
	return &ast.Print{Keyword: kw, Expr: v}
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) ifStmt() ast.Stmt {
	kw := p.previous()
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")
	then := p.statement()
	var els ast.Stmt
	if p.match(token.ELSE) {
		els = p.statement()
	}
	return &ast.If{Keyword: kw, Cond: cond, Then: then, Else: els}
}

func (p *Parser) whileStmt() ast.Stmt {
	kw := p.previous()
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after while condition.")
	body := p.statement()
	return &ast.While{Keyword: kw, Cond: cond, Body: body}
}

func (p *Parser) returnStmt() ast.Stmt {
	kw := p.previous()
	var v ast.Expr
	if !p.check(token.SEMICOLON) {
		v = p.expression()
	}
	p.consumeTerminator("Expect ';' after return value.")
	return &ast.Return{Keyword: kw, Value: v}
}

func (p *Parser) exprStmt() ast.Stmt {
	e := p.expression()
	p.consumeTerminator("Expect ';' after expression.")
	return &ast.ExpressionStmt{Expr: e}
}

func (p *Parser) expression() ast.Expr { return p.assignment() }

func (p *Parser) assignment() ast.Expr {
	e := p.or()
	if p.match(token.EQUAL) {
		eq := p.previous()
		value := p.assignment()
		v, ok := e.(*ast.Variable)
		if !ok {
			p.reportf(eq, "Invalid assignment target.")
			return e
		}
		return &ast.Assign{Name: &ast.Identifier{Name: v.Name, Typ: types.NewImplicit()}, Value: value, Typ: types.NewImplicit()}
	}
	return e
}

func (p *Parser) or() ast.Expr {
	e := p.and()
	for p.match(token.OR) {
		op := p.previous()
		right := p.and()
		e = &ast.Logical{Left: e, Op: op, Right: right, Typ: types.NewImplicit()}
	}
	return e
}

func (p *Parser) and() ast.Expr {
	e := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		e = &ast.Logical{Left: e, Op: op, Right: right, Typ: types.NewImplicit()}
	}
	return e
}

func (p *Parser) equality() ast.Expr {
	e := p.comparison()
	for p.match(token.EQUAL_EQUAL, token.BANG_EQUAL) {
		op := p.previous()
		right := p.comparison()
		e = &ast.Binary{Left: e, Op: op, Right: right, Typ: types.NewImplicit()}
	}
	return e
}

func (p *Parser) comparison() ast.Expr {
	e := p.term()
	for p.match(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		op := p.previous()
		right := p.term()
		e = &ast.Binary{Left: e, Op: op, Right: right, Typ: types.NewImplicit()}
	}
	return e
}

func (p *Parser) term() ast.Expr {
	e := p.factor()
	for p.match(token.PLUS, token.MINUS) {
		op := p.previous()
		right := p.factor()
		e = &ast.Binary{Left: e, Op: op, Right: right, Typ: types.NewImplicit()}
	}
	return e
}

func (p *Parser) factor() ast.Expr {
	e := p.power()
	for p.match(token.STAR, token.SLASH, token.PERCENT) {
		op := p.previous()
		right := p.power()
		e = &ast.Binary{Left: e, Op: op, Right: right, Typ: types.NewImplicit()}
	}
	return e
}

func (p *Parser) power() ast.Expr {
	e := p.unary()
	if p.match(token.STAR_STAR) {
		op := p.previous()
		right := p.power() // right-associative
		return &ast.Binary{Left: e, Op: op, Right: right, Typ: types.NewImplicit()}
	}
	return e
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return &ast.UnaryPrefix{Op: op, Right: right, Typ: types.NewImplicit()}
	}
	return p.postfix()
}

func (p *Parser) postfix() ast.Expr {
	e := p.call()
	if p.match(token.PLUS_PLUS, token.MINUS_MINUS) {
		op := p.previous()
		v, ok := e.(*ast.Variable)
		if !ok {
			p.reportf(op, "Invalid increment/decrement target.")
			return e
		}
		return &ast.UnaryPostfix{Left: e, Op: op, Name: &ast.Identifier{Name: v.Name, Typ: types.NewImplicit()}, Typ: types.NewImplicit()}
	}
	return e
}

func (p *Parser) call() ast.Expr {
	e := p.primary()
	for {
		switch {
		case p.match(token.LEFT_PAREN):
			e = p.finishCall(e)
		case p.match(token.DOT):
			name := p.consume(token.IDENT, "Expect property name after '.'.")
			e = &ast.Get{Object: e, Name: &ast.Identifier{Name: name, Typ: types.NewImplicit()}, Typ: types.NewImplicit()}
		default:
			return e
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Args: args, Typ: types.NewImplicit()}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Tok: p.previous(), Value: false, Typ: types.NewImplicit()}
	case p.match(token.TRUE):
		return &ast.Literal{Tok: p.previous(), Value: true, Typ: types.NewImplicit()}
	case p.match(token.NULL):
		return &ast.Literal{Tok: p.previous(), Value: nil, Typ: types.NewImplicit()}
	case p.match(token.INT, token.FLOAT, token.STRING):
		tok := p.previous()
		return &ast.Literal{Tok: tok, Value: tok.Literal, Typ: types.NewImplicit()}
	case p.match(token.IDENT):
		return &ast.Variable{Name: p.previous(), Typ: types.NewImplicit()}
	case p.match(token.LEFT_PAREN):
		lp := p.previous()
		e := p.expression()
		p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
		return &ast.Grouping{Lparen: lp, Inner: e, Typ: types.NewImplicit()}
	}
	panic(parseError{fmt.Errorf("Expect expression.")})
}

// --- token stream helpers ---

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(k token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == k
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.EOF }
func (p *Parser) peek() token.Token  { return p.tokens[p.current] }
func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) consume(k token.Kind, message string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	panic(parseError{fmt.Errorf("%s", message)})
}

// consumeTerminator consumes a statement's trailing ';' if one is present,
// but also accepts end of input in its place, so a REPL's single-line input
// (spec.md's `print 10` with no semicolon) doesn't need a terminator it was
// never given a chance to type.
func (p *Parser) consumeTerminator(message string) {
	if p.match(token.SEMICOLON) {
		return
	}
	if p.isAtEnd() {
		return
	}
	panic(parseError{fmt.Errorf("%s", message)})
}

func (p *Parser) reportf(tok token.Token, format string, args ...interface{}) {
	p.report(diagnostic.Diagnostic{Kind: diagnostic.ParseError, Tok: tok, Message: fmt.Sprintf(format, args...)})
}

// synchronize discards tokens until it reaches a likely statement boundary,
// so one syntax error doesn't cascade into spurious ones for the rest of the
// file.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.SEMICOLON {
			return
		}
		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}
