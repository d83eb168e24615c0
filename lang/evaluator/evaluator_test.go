package evaluator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/perlun/perlang/internal/interptest"
	"github.com/perlun/perlang/lang/runtime"
)

func TestEvalArithmeticAndPrint(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`print 1 + 2 * 3;`)
	require.Empty(t, s.Messages())
	require.Equal(t, "7", s.Out())
}

func TestEvalStringConcatenation(t *testing.T) {
	s := interptest.New(nil)
	v := s.Eval(`"foo" + "bar";`)
	require.Empty(t, s.Messages())
	require.Equal(t, runtime.Str("foobar"), v)
}

func TestEvalFloatPromotion(t *testing.T) {
	s := interptest.New(nil)
	v := s.Eval(`1 + 2.5;`)
	require.Empty(t, s.Messages())
	n, ok := v.(runtime.Number)
	require.True(t, ok)
	require.Equal(t, 3.5, n.AsFloat64())
}

func TestEvalPowerOperatorIntegerPath(t *testing.T) {
	s := interptest.New(nil)
	v := s.Eval(`2 ** 10;`)
	require.Empty(t, s.Messages())
	require.Equal(t, "1024", v.String())
}

func TestEvalPowerOperatorNegativeExponentFloats(t *testing.T) {
	s := interptest.New(nil)
	v := s.Eval(`2 ** -1;`)
	require.Empty(t, s.Messages())
	n := v.(runtime.Number)
	require.Equal(t, 0.5, n.AsFloat64())
}

func TestEvalDivisionByZeroIsRuntimeError(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`1 / 0;`)
	require.NotEmpty(t, s.Messages())
	require.Equal(t, "Division by zero.", s.Messages()[0])
}

func TestEvalFloatDivisionByZeroProducesInf(t *testing.T) {
	s := interptest.New(nil)
	v := s.Eval(`1.0 / 0.0;`)
	require.Empty(t, s.Messages())
	n := v.(runtime.Number)
	require.True(t, n.AsFloat64() > 0 && n.String() == "+Inf")
}

func TestEvalComparisonAndEquality(t *testing.T) {
	s := interptest.New(nil)
	require.Equal(t, runtime.Bool(true), s.Eval(`1 < 2;`))
	require.Equal(t, runtime.Bool(true), s.Eval(`2 == 2;`))
	require.Equal(t, runtime.Bool(true), s.Eval(`null == null;`))
}

func TestEvalVariablePersistsAcrossReplCalls(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`var a = 1;`)
	s.Eval(`a = a + 1;`)
	v := s.Eval(`a;`)
	require.Empty(t, s.Messages())
	require.Equal(t, "2", v.String())
}

func TestEvalBlockShadowingDoesNotLeak(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`var a = 1;`)
	s.Eval(`{ var a = 2; }`)
	v := s.Eval(`a;`)
	require.Equal(t, "1", v.String())
}

func TestEvalFunctionCallAndReturn(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`fun add(a: Int32, b: Int32): Int32 { return a + b; }`)
	v := s.Eval(`add(2, 3);`)
	require.Empty(t, s.Messages())
	require.Equal(t, "5", v.String())
}

func TestEvalWhileLoop(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`var i = 0;`)
	s.Eval(`while (i < 5) { i = i + 1; }`)
	v := s.Eval(`i;`)
	require.Equal(t, "5", v.String())
}

func TestEvalPostfixIncrementReturnsPreviousValue(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`var i = 1;`)
	v := s.Eval(`i++;`)
	require.Equal(t, "1", v.String())
	v = s.Eval(`i;`)
	require.Equal(t, "2", v.String())
}

func TestEvalLogicalShortCircuit(t *testing.T) {
	s := interptest.New(nil)
	v := s.Eval(`false and (1 / 0 > 0);`)
	require.Empty(t, s.Messages())
	require.Equal(t, runtime.Bool(false), v)
}

func TestEvalBase64RoundTrip(t *testing.T) {
	s := interptest.New(nil)
	v := s.Eval(`Base64.decode("aGVqIGhlag==");`)
	require.Empty(t, s.Messages())
	require.Equal(t, "hej hej", v.String())
}

func TestEvalArgvPopAndExhaustion(t *testing.T) {
	s := interptest.New([]string{"one", "two"})
	v := s.Eval(`ARGV.pop();`)
	require.Equal(t, "one", v.String())
	v = s.Eval(`ARGV.pop();`)
	require.Equal(t, "two", v.String())
	s.Eval(`ARGV.pop();`)
	require.NotEmpty(t, s.Messages())
	require.Equal(t, "No arguments left", s.Messages()[len(s.Messages())-1])
}

func TestEvalUndefinedVariableIsNameResolutionError(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`missing;`)
	require.NotEmpty(t, s.Messages())
	require.Equal(t, "Undefined variable 'missing'", s.Messages()[0])
}
