package environment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/perlun/perlang/lang/runtime"
)

func TestDefineAndGetAtZeroDistance(t *testing.T) {
	root := NewGlobals()
	child := NewChild(root)
	child.Define("x", runtime.NewInt(0, 1))

	v, ok := child.GetAt(0, "x")
	require.True(t, ok)
	require.Equal(t, runtime.NewInt(0, 1), v)
}

func TestGetAtWalksExactDistance(t *testing.T) {
	root := NewGlobals()
	root.Define("g", runtime.Str("global"))
	mid := NewChild(root)
	mid.Define("m", runtime.Str("mid"))
	leaf := NewChild(mid)
	leaf.Define("l", runtime.Str("leaf"))

	v, ok := leaf.GetAt(0, "l")
	require.True(t, ok)
	require.Equal(t, runtime.Str("leaf"), v)

	v, ok = leaf.GetAt(1, "m")
	require.True(t, ok)
	require.Equal(t, runtime.Str("mid"), v)

	v, ok = leaf.GetAt(2, "g")
	require.True(t, ok)
	require.Equal(t, runtime.Str("global"), v)
}

func TestAssignAtFailsWhenNameNotDeclaredAtThatDepth(t *testing.T) {
	root := NewGlobals()
	child := NewChild(root)
	ok := child.AssignAt(0, "missing", runtime.Str("x"))
	require.False(t, ok)
}

func TestAssignAtOverwritesExistingBinding(t *testing.T) {
	root := NewGlobals()
	child := NewChild(root)
	child.Define("x", runtime.Str("old"))
	ok := child.AssignAt(0, "x", runtime.Str("new"))
	require.True(t, ok)
	v, _ := child.GetAt(0, "x")
	require.Equal(t, runtime.Str("new"), v)
}

func TestGlobalDefineAssignGetFromNestedFrame(t *testing.T) {
	root := NewGlobals()
	child := NewChild(root)

	root.DefineGlobal("g", runtime.Str("one"))
	v, ok := child.GetGlobal("g")
	require.True(t, ok)
	require.Equal(t, runtime.Str("one"), v)

	ok = child.AssignGlobal("g", runtime.Str("two"))
	require.True(t, ok)
	v, _ = child.GetGlobal("g")
	require.Equal(t, runtime.Str("two"), v)
}

func TestAssignGlobalFailsWhenUndeclared(t *testing.T) {
	root := NewGlobals()
	ok := root.AssignGlobal("nope", runtime.Str("x"))
	require.False(t, ok)
}

func TestShadowingDoesNotMutateParentFrame(t *testing.T) {
	root := NewGlobals()
	root.Define("x", runtime.Str("outer"))
	child := NewChild(root)
	child.Define("x", runtime.Str("inner"))

	v, _ := child.GetAt(0, "x")
	require.Equal(t, runtime.Str("inner"), v)
	v, _ = root.GetAt(0, "x")
	require.Equal(t, runtime.Str("outer"), v)
}

func TestAncestorOverrunPanics(t *testing.T) {
	root := NewGlobals()
	child := NewChild(root)
	require.Panics(t, func() {
		child.GetAt(5, "x")
	})
}
