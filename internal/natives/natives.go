// Package natives is the sample host library wired into the CLI and the
// core's own tests: a Base64 native class (encode/decode) and an ARGV
// super-global exposing the program's trailing command-line arguments,
// matching the two native facilities spec.md's worked examples exercise.
package natives

import (
	"encoding/base64"
	"errors"

	"github.com/perlun/perlang/lang/host"
	"github.com/perlun/perlang/lang/runtime"
	"github.com/perlun/perlang/lang/types"
)

// Directories builds the host.Directories for a session: Base64 as a native
// class, ARGV as a super-global object backed by the given program
// arguments.
func Directories(argv []string) *host.Directories {
	classes := map[string]*host.Class{
		"Base64": base64Class(),
		"ARGV":   argvClass(argv),
	}
	superGlobals := map[string]*types.TypeHandle{
		"ARGV": classes["ARGV"].Handle,
	}
	return &host.Directories{
		Classes:      classes,
		SuperGlobals: superGlobals,
	}
}

func base64Class() *host.Class {
	handle := types.NewClassHandle("Base64")
	types.Register("Base64", handle)

	encode := &host.Callable{
		Name:         "encode",
		ParamTypes:   []*types.TypeHandle{types.StringHandle},
		ReturnTypRef: &types.TypeReference{Resolved: types.StringHandle},
		Method: func(args []runtime.Value) (runtime.Value, error) {
			s, ok := args[0].(runtime.Str)
			if !ok {
				return nil, errors.New("encode expects a String argument")
			}
			return runtime.Str(base64.StdEncoding.EncodeToString([]byte(s))), nil
		},
	}
	decode := &host.Callable{
		Name:         "decode",
		ParamTypes:   []*types.TypeHandle{types.StringHandle},
		ReturnTypRef: &types.TypeReference{Resolved: types.StringHandle},
		Method: func(args []runtime.Value) (runtime.Value, error) {
			s, ok := args[0].(runtime.Str)
			if !ok {
				return nil, errors.New("decode expects a String argument")
			}
			decoded, err := base64.StdEncoding.DecodeString(string(s))
			if err != nil {
				return nil, err
			}
			return runtime.Str(decoded), nil
		},
	}
	return &host.Class{
		Name:   "Base64",
		Handle: handle,
		Methods: map[string]*host.Callable{
			"encode": encode,
			"decode": decode,
		},
	}
}

// argvClass exposes pop() and len() over a mutable slice of the program's
// trailing command-line arguments, so a script can drain ARGV one value at
// a time (spec.md's "No arguments left" worked example).
func argvClass(initial []string) *host.Class {
	handle := types.NewClassHandle("ARGV")
	types.Register("ARGV", handle)

	remaining := append([]string{}, initial...)

	pop := &host.Callable{
		Name:         "pop",
		ParamTypes:   nil,
		ReturnTypRef: &types.TypeReference{Resolved: types.StringHandle},
		Method: func(args []runtime.Value) (runtime.Value, error) {
			if len(remaining) == 0 {
				return nil, errors.New("No arguments left")
			}
			v := remaining[0]
			remaining = remaining[1:]
			return runtime.Str(v), nil
		},
	}
	length := &host.Callable{
		Name:         "len",
		ParamTypes:   nil,
		ReturnTypRef: &types.TypeReference{Resolved: types.Int32Handle},
		Method: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.NewInt(types.Int32, int64(len(remaining))), nil
		},
	}
	return &host.Class{
		Name:   "ARGV",
		Handle: handle,
		Methods: map[string]*host.Callable{
			"pop": pop,
			"len": length,
		},
	}
}
