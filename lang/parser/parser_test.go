package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/perlun/perlang/lang/ast"
	"github.com/perlun/perlang/lang/diagnostic"
	"github.com/perlun/perlang/lang/scanner"
)

func parseSrc(t *testing.T, src string) ([]ast.Stmt, []diagnostic.Diagnostic) {
	t.Helper()
	var diags []diagnostic.Diagnostic
	report := func(d diagnostic.Diagnostic) { diags = append(diags, d) }
	toks := scanner.New(src, report).Scan()
	stmts := New(toks, report).Parse()
	return stmts, diags
}

func TestParseVarDeclWithAnnotationAndInitializer(t *testing.T) {
	stmts, diags := parseSrc(t, `var a: Int32 = 42;`)
	require.Empty(t, diags)
	require.Len(t, stmts, 1)
	v, ok := stmts[0].(*ast.Var)
	require.True(t, ok)
	require.Equal(t, "a", v.Name.Lexeme)
	require.True(t, v.HasAnnotation)
	require.Equal(t, "Int32", v.TypeAnnotation.Lexeme)
	require.NotNil(t, v.Initializer)
}

func TestParsePrintAndExpressionStmt(t *testing.T) {
	stmts, diags := parseSrc(t, `print 1 + 2; 3 * 4;`)
	require.Empty(t, diags)
	require.Len(t, stmts, 2)
	_, isPrint := stmts[0].(*ast.Print)
	require.True(t, isPrint)
	_, isExpr := stmts[1].(*ast.ExpressionStmt)
	require.True(t, isExpr)
}

func TestParseIfElseAndWhile(t *testing.T) {
	stmts, diags := parseSrc(t, `
		if (a) { print 1; } else { print 2; }
		while (a) { a = a - 1; }
	`)
	require.Empty(t, diags)
	require.Len(t, stmts, 2)
	ifs, ok := stmts[0].(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifs.Else)
	_, ok = stmts[1].(*ast.While)
	require.True(t, ok)
}

func TestParseFunctionWithParamsAndReturnType(t *testing.T) {
	stmts, diags := parseSrc(t, `fun add(a: Int32, b: Int32): Int32 { return a + b; }`)
	require.Empty(t, diags)
	require.Len(t, stmts, 1)
	fn, ok := stmts[0].(*ast.Function)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name.Lexeme)
	require.Len(t, fn.Params, 2)
	require.True(t, fn.HasReturnAnnotation)
	require.Equal(t, "Int32", fn.ReturnTypeAnnotation.Lexeme)
}

func TestParseClassWithMethods(t *testing.T) {
	stmts, diags := parseSrc(t, `class Foo { bar() { return 1; } }`)
	require.Empty(t, diags)
	require.Len(t, stmts, 1)
	cls, ok := stmts[0].(*ast.Class)
	require.True(t, ok)
	require.Equal(t, "Foo", cls.Name.Lexeme)
	require.Len(t, cls.Methods, 1)
	require.Equal(t, "bar", cls.Methods[0].Name.Lexeme)
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	stmts, diags := parseSrc(t, `2 ** 3 ** 2;`)
	require.Empty(t, diags)
	e, ok := stmts[0].(*ast.ExpressionStmt)
	require.True(t, ok)
	bin, ok := e.Expr.(*ast.Binary)
	require.True(t, ok)
	// 2 ** (3 ** 2): right operand is itself a Binary.
	_, rightIsBinary := bin.Right.(*ast.Binary)
	require.True(t, rightIsBinary)
	_, leftIsLiteral := bin.Left.(*ast.Literal)
	require.True(t, leftIsLiteral)
}

func TestParsePostfixIncrementRequiresVariable(t *testing.T) {
	_, diags := parseSrc(t, `1++;`)
	require.NotEmpty(t, diags)
	require.Equal(t, "Invalid increment/decrement target.", diags[0].Message)
}

func TestParseAssignmentRequiresVariableTarget(t *testing.T) {
	_, diags := parseSrc(t, `1 = 2;`)
	require.NotEmpty(t, diags)
	require.Equal(t, "Invalid assignment target.", diags[0].Message)
}

func TestParseGetChainAndCall(t *testing.T) {
	stmts, diags := parseSrc(t, `Base64.encode("hi");`)
	require.Empty(t, diags)
	e := stmts[0].(*ast.ExpressionStmt)
	call, ok := e.Expr.(*ast.Call)
	require.True(t, ok)
	get, ok := call.Callee.(*ast.Get)
	require.True(t, ok)
	require.Equal(t, "encode", get.Name.Name.Lexeme)
	require.Len(t, call.Args, 1)
}

func TestParseMissingSemicolonReportsAndRecovers(t *testing.T) {
	stmts, diags := parseSrc(t, `var a = 1 var b = 2; print b;`)
	require.NotEmpty(t, diags)
	// synchronize() discards up through the next statement boundary, but
	// parsing resumes afterwards rather than aborting the whole input.
	var sawPrint bool
	for _, s := range stmts {
		if _, ok := s.(*ast.Print); ok {
			sawPrint = true
		}
	}
	require.True(t, sawPrint)
}

func TestParseExpectExpression(t *testing.T) {
	_, diags := parseSrc(t, `var a = ;`)
	require.NotEmpty(t, diags)
	require.Equal(t, "Expect expression.", diags[0].Message)
}

func TestParseFinalStatementSemicolonIsOptionalAtEOF(t *testing.T) {
	stmts, diags := parseSrc(t, `print 10`)
	require.Empty(t, diags)
	require.Len(t, stmts, 1)
	_, ok := stmts[0].(*ast.Print)
	require.True(t, ok)
}

func TestParseOnlyFinalStatementMaySkipSemicolon(t *testing.T) {
	_, diags := parseSrc(t, `print 1 print 2;`)
	require.NotEmpty(t, diags)
	require.Equal(t, "Expect ';' after value.", diags[0].Message)
}

func TestParseFunctionParamWithoutAnnotationIsImplicit(t *testing.T) {
	stmts, diags := parseSrc(t, `fun f(a) { return a; }`)
	require.Empty(t, diags)
	fn := stmts[0].(*ast.Function)
	require.Len(t, fn.Params, 1)
	require.False(t, fn.Params[0].Typ.Explicit)
}

func TestParseFunctionParamWithAnnotationIsExplicit(t *testing.T) {
	stmts, diags := parseSrc(t, `fun f(a: Int32) { return a; }`)
	require.Empty(t, diags)
	fn := stmts[0].(*ast.Function)
	require.Len(t, fn.Params, 1)
	require.True(t, fn.Params[0].Typ.Explicit)
}
