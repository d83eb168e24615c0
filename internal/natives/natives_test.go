package natives

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/perlun/perlang/lang/runtime"
)

func TestDirectoriesRegistersBase64AndARGV(t *testing.T) {
	dirs := Directories([]string{"a", "b"})
	_, ok := dirs.Class("Base64")
	require.True(t, ok)
	_, ok = dirs.Class("ARGV")
	require.True(t, ok)
	_, ok = dirs.SuperGlobal("ARGV")
	require.True(t, ok)
}

func TestBase64EncodeDecodeRoundTrip(t *testing.T) {
	dirs := Directories(nil)
	base64Class, _ := dirs.Class("Base64")
	encode := base64Class.Methods["encode"]
	v, err := encode.Method([]runtime.Value{runtime.Str("hej hej")})
	require.NoError(t, err)
	require.Equal(t, runtime.Str("aGVqIGhlag=="), v)

	decode := base64Class.Methods["decode"]
	v, err = decode.Method([]runtime.Value{v})
	require.NoError(t, err)
	require.Equal(t, runtime.Str("hej hej"), v)
}

func TestBase64DecodeInvalidInputErrors(t *testing.T) {
	dirs := Directories(nil)
	base64Class, _ := dirs.Class("Base64")
	decode := base64Class.Methods["decode"]
	_, err := decode.Method([]runtime.Value{runtime.Str("not valid base64!!")})
	require.Error(t, err)
}

func TestArgvPopDrainsInOrder(t *testing.T) {
	dirs := Directories([]string{"one", "two"})
	argvClass, _ := dirs.Class("ARGV")
	pop := argvClass.Methods["pop"]

	v, err := pop.Method(nil)
	require.NoError(t, err)
	require.Equal(t, runtime.Str("one"), v)

	v, err = pop.Method(nil)
	require.NoError(t, err)
	require.Equal(t, runtime.Str("two"), v)

	_, err = pop.Method(nil)
	require.EqualError(t, err, "No arguments left")
}

func TestArgvLenReflectsRemainingCount(t *testing.T) {
	dirs := Directories([]string{"one", "two", "three"})
	argvClass, _ := dirs.Class("ARGV")
	length := argvClass.Methods["len"]
	pop := argvClass.Methods["pop"]

	v, err := length.Method(nil)
	require.NoError(t, err)
	require.Equal(t, "3", v.String())

	_, err = pop.Method(nil)
	require.NoError(t, err)

	v, err = length.Method(nil)
	require.NoError(t, err)
	require.Equal(t, "2", v.String())
}
