package interpreter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/perlun/perlang/internal/interptest"
	"github.com/perlun/perlang/lang/runtime"
)

func TestInterpreterSingleExpressionStatementSurfacesValue(t *testing.T) {
	s := interptest.New(nil)
	v := s.Eval(`1 + 2;`)
	require.Empty(t, s.Messages())
	require.Equal(t, "3", v.String())
}

func TestInterpreterReplInputWithoutTrailingSemicolonPrints(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`print 10`)
	require.Empty(t, s.Messages())
	require.Equal(t, []string{"10"}, s.Stdout)
}

func TestInterpreterNonExpressionBatchReturnsNull(t *testing.T) {
	s := interptest.New(nil)
	v := s.Eval(`var a = 1;`)
	require.Equal(t, runtime.Null{}, v)
}

func TestInterpreterStatePersistsAcrossCalls(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`var a = 1;`)
	s.Eval(`a = a + 41;`)
	v := s.Eval(`a;`)
	require.Empty(t, s.Messages())
	require.Equal(t, "42", v.String())
}

func TestInterpreterOnlyNewBatchStatementsExecute(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`print "first";`)
	s.Eval(`print "second";`)
	require.Equal(t, []string{"first", "second"}, s.Stdout)
}

func TestInterpreterBadBatchDoesNotPersist(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`var a = 1;`)
	s.Eval(`var a = 2;`)
	require.NotEmpty(t, s.Messages())

	v := s.Eval(`a;`)
	require.Equal(t, "1", v.String())
}

func TestInterpreterDuplicateDeclarationIsRejectedEachTime(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`var a = 1;`)
	before := len(s.Messages())
	s.Eval(`var a = 2;`)
	require.Greater(t, len(s.Messages()), before)
}

func TestInterpreterArityMismatchReported(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`fun add(a: Int32, b: Int32): Int32 { return a + b; }`)
	s.Eval(`add(1);`)
	require.NotEmpty(t, s.Messages())
	require.Contains(t, s.Messages()[len(s.Messages())-1], "has 2 parameter(s) but was called with 1 argument(s)")
}

func TestInterpreterNativeMethodArityMismatchReported(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`Base64.decode();`)
	require.NotEmpty(t, s.Messages())
	require.Equal(t, "Method 'decode' has 1 parameter(s) but was called with 0 argument(s)", s.Messages()[0])
}

func TestInterpreterRuntimeErrorReturnsVoidMarker(t *testing.T) {
	s := interptest.New(nil)
	v := s.Eval(`1 / 0;`)
	require.NotEmpty(t, s.Messages())
	require.Equal(t, "", v.String())
	require.False(t, v.Truthy())
}

func TestInterpreterBase64RoundTripThroughRepl(t *testing.T) {
	s := interptest.New(nil)
	s.Eval(`var encoded = Base64.encode("hello");`)
	v := s.Eval(`Base64.decode(encoded);`)
	require.Empty(t, s.Messages())
	require.Equal(t, "hello", v.String())
}

func TestInterpreterArgvExhaustionErrors(t *testing.T) {
	s := interptest.New([]string{"only"})
	s.Eval(`ARGV.pop();`)
	s.Eval(`ARGV.pop();`)
	require.NotEmpty(t, s.Messages())
	require.Equal(t, "No arguments left", s.Messages()[len(s.Messages())-1])
}
