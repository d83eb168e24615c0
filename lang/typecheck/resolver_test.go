package typecheck

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/perlun/perlang/internal/natives"
	"github.com/perlun/perlang/lang/ast"
	"github.com/perlun/perlang/lang/diagnostic"
	"github.com/perlun/perlang/lang/parser"
	"github.com/perlun/perlang/lang/resolver"
	"github.com/perlun/perlang/lang/scanner"
)

// typecheckSrc runs the scanner, parser, resolver and both type passes,
// returning the final statement list and the combined diagnostics.
func typecheckSrc(t *testing.T, src string) ([]ast.Stmt, []diagnostic.Diagnostic) {
	t.Helper()
	list := &diagnostic.List{}
	toks := scanner.New(src, list.Handle).Scan()
	stmts := parser.New(toks, list.Handle).Parse()

	res := resolver.New(list, natives.Directories(nil), ast.NewFuncRegistry())
	res.Resolve(stmts)

	New(res.Bindings, list).Resolve(stmts)
	NewValidator(res.Bindings, list).Validate(stmts)
	NewImmutabilityValidator().Validate(stmts)

	return stmts, list.Items()
}

func TestTypecheckInfersVarTypeFromInitializer(t *testing.T) {
	stmts, diags := typecheckSrc(t, `var a = 42;`)
	require.Empty(t, diags)
	v := stmts[0].(*ast.Var)
	require.True(t, v.Typ.IsResolved())
	require.Equal(t, "Int32", v.Typ.Resolved.Name)
}

func TestTypecheckArithmeticPromotion(t *testing.T) {
	stmts, diags := typecheckSrc(t, `1 + 2.5;`)
	require.Empty(t, diags)
	e := stmts[0].(*ast.ExpressionStmt).Expr
	require.Equal(t, "Float64", e.TypeRef().Resolved.Name)
}

func TestTypecheckStringConcatenation(t *testing.T) {
	stmts, diags := typecheckSrc(t, `"a" + "b";`)
	require.Empty(t, diags)
	e := stmts[0].(*ast.ExpressionStmt).Expr
	require.Equal(t, "String", e.TypeRef().Resolved.Name)
}

func TestTypecheckNonNumericArithmeticErrors(t *testing.T) {
	_, diags := typecheckSrc(t, `true - 1;`)
	require.NotEmpty(t, diags)
	require.Equal(t, "Operands must be numeric.", diags[0].Message)
}

func TestTypecheckVarCoercionMismatchErrors(t *testing.T) {
	_, diags := typecheckSrc(t, `var a: String = 42;`)
	require.NotEmpty(t, diags)
	require.Equal(t, "Cannot pass Int32 argument as parameter 'a: String' to var()", diags[0].Message)
}

func TestTypecheckUnresolvedTypeAnnotationErrors(t *testing.T) {
	_, diags := typecheckSrc(t, `var a: Bogus = 1;`)
	require.NotEmpty(t, diags)
	require.Equal(t, "Type not found: Bogus", diags[0].Message)
}

func TestTypecheckMissingInitializerWithoutAnnotationErrors(t *testing.T) {
	_, diags := typecheckSrc(t, `var a;`)
	require.NotEmpty(t, diags)
	require.Equal(t, "Cannot infer type without an initializer.", diags[0].Message)
}

func TestTypecheckFunctionArityMismatch(t *testing.T) {
	_, diags := typecheckSrc(t, `fun add(a: Int32, b: Int32): Int32 { return a + b; } add(1);`)
	require.NotEmpty(t, diags)
	require.Contains(t, diags[0].Message, "Function 'add' has 2 parameter(s) but was called with 1 argument(s)")
}

func TestTypecheckFunctionArgumentCoercionMismatch(t *testing.T) {
	_, diags := typecheckSrc(t, `fun add(a: Int32, b: Int32): Int32 { return a + b; } add(1, "x");`)
	require.NotEmpty(t, diags)
	require.Contains(t, diags[0].Message, "Cannot pass String argument as parameter 'b: Int32' to add()")
}

func TestTypecheckNativeMethodArityMismatch(t *testing.T) {
	_, diags := typecheckSrc(t, `Base64.decode();`)
	require.NotEmpty(t, diags)
	require.Equal(t, "Method 'decode' has 1 parameter(s) but was called with 0 argument(s)", diags[0].Message)
}

func TestTypecheckNativeMethodArgumentCoercionMismatch(t *testing.T) {
	_, diags := typecheckSrc(t, `Base64.decode(123.45);`)
	require.NotEmpty(t, diags)
	require.Equal(t, "Cannot pass Float64 argument as String parameter to decode()", diags[0].Message)
}

func TestTypecheckInferredFunctionSignatureStillFlagged(t *testing.T) {
	_, diags := typecheckSrc(t, `fun f() { return 1; }`)
	require.NotEmpty(t, diags)
	require.Equal(t, "Inferred typing is not yet supported for function 'f'", diags[0].Message)
}
