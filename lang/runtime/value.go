// Package runtime implements the values the evaluator produces and consumes:
// numbers (tagged by the static NumericKind the type resolver assigned to
// their expression), strings, booleans and null. User functions and the
// host-facing values (native callables, native class/object handles) need
// environment and host types, so lang/evaluator defines them against the
// Value interface declared here. The small-interface style (Value,
// Callable) mirrors the teacher's machine.Value/Callable split,
// adapted from a dynamically-typed bytecode value model to this statically
// typed tree-walking one.
package runtime

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/perlun/perlang/lang/types"
)

// Value is any value the evaluator can produce: the result of an
// expression, an argument, a variable's contents.
type Value interface {
	fmt.Stringer
	// Type returns the static type handle describing this value.
	Type() *types.TypeHandle
	// Truthy implements the language's truthiness rule: null is false,
	// booleans are themselves, everything else is true.
	Truthy() bool
}

// Callable is implemented by the named, fixed-arity function values: user
// functions and native callables. A native class handle reached through Get
// is not a Callable; its methods are host.Callable entries.
type Callable interface {
	Value
	Name() string
	Arity() int
}

// Null is the single null value.
type Null struct{}

func (Null) String() string            { return "null" }
func (Null) Type() *types.TypeHandle   { return types.NullHandle }
func (Null) Truthy() bool              { return false }

// Bool wraps a boolean value.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() *types.TypeHandle { return types.BoolHandle }
func (b Bool) Truthy() bool          { return bool(b) }

// Str wraps a string value.
type Str string

func (s Str) String() string          { return string(s) }
func (Str) Type() *types.TypeHandle   { return types.StringHandle }
func (s Str) Truthy() bool            { return true }

// Number is a tagged numeric value. Exactly one of I64, U64, F64, Big is
// meaningful, selected by Kind, matching the NumericKind enum from
// lang/types that the type resolver's promotion rule assigns to the
// expression that produced this value.
type Number struct {
	Kind types.NumericKind
	I64  int64
	U64  uint64
	F64  float64
	Big  *big.Int
}

func NewInt(kind types.NumericKind, v int64) Number   { return Number{Kind: kind, I64: v} }
func NewUint(kind types.NumericKind, v uint64) Number { return Number{Kind: kind, U64: v} }
func NewFloat(kind types.NumericKind, v float64) Number { return Number{Kind: kind, F64: v} }
func NewBigInt(v *big.Int) Number                     { return Number{Kind: types.BigInt, Big: v} }

func (n Number) Type() *types.TypeHandle {
	switch n.Kind {
	case types.Int8:
		return types.Int8Handle
	case types.Int16:
		return types.Int16Handle
	case types.Int32:
		return types.Int32Handle
	case types.Int64:
		return types.Int64Handle
	case types.Uint8:
		return types.Uint8Handle
	case types.Uint16:
		return types.Uint16Handle
	case types.Uint32:
		return types.Uint32Handle
	case types.Uint64:
		return types.Uint64Handle
	case types.Float32:
		return types.Float32Handle
	case types.Float64:
		return types.Float64Handle
	case types.BigInt:
		return types.BigIntHandle
	default:
		return types.Int32Handle
	}
}

func (n Number) Truthy() bool {
	switch {
	case n.Kind.IsFloat():
		return n.F64 != 0
	case n.Kind == types.BigInt:
		return n.Big != nil && n.Big.Sign() != 0
	case n.Kind == types.Uint8, n.Kind == types.Uint16, n.Kind == types.Uint32, n.Kind == types.Uint64:
		return n.U64 != 0
	default:
		return n.I64 != 0
	}
}

func (n Number) String() string {
	switch {
	case n.Kind.IsFloat():
		return strconv.FormatFloat(n.F64, 'g', -1, 64)
	case n.Kind == types.BigInt:
		if n.Big == nil {
			return "0"
		}
		return n.Big.String()
	case n.Kind == types.Uint8, n.Kind == types.Uint16, n.Kind == types.Uint32, n.Kind == types.Uint64:
		return strconv.FormatUint(n.U64, 10)
	default:
		return strconv.FormatInt(n.I64, 10)
	}
}

// AsFloat64 widens the numeric value to float64 for comparison/arithmetic
// against another numeric operand of a different representation.
func (n Number) AsFloat64() float64 {
	switch {
	case n.Kind.IsFloat():
		return n.F64
	case n.Kind == types.BigInt:
		if n.Big == nil {
			return 0
		}
		f, _ := new(big.Float).SetInt(n.Big).Float64()
		return f
	case n.Kind == types.Uint8, n.Kind == types.Uint16, n.Kind == types.Uint32, n.Kind == types.Uint64:
		return float64(n.U64)
	default:
		return float64(n.I64)
	}
}

// AsBigInt widens the numeric value to a *big.Int, for the "**" operator's
// integer path.
func (n Number) AsBigInt() *big.Int {
	switch {
	case n.Kind == types.BigInt:
		if n.Big == nil {
			return big.NewInt(0)
		}
		return n.Big
	case n.Kind == types.Uint8, n.Kind == types.Uint16, n.Kind == types.Uint32, n.Kind == types.Uint64:
		return new(big.Int).SetUint64(n.U64)
	default:
		return big.NewInt(n.I64)
	}
}

// WithKind returns a copy of n re-tagged as kind, converting its payload to
// that kind's representation. Used after promotion picks the result kind of
// a binary arithmetic expression.
func (n Number) WithKind(kind types.NumericKind) Number {
	if kind.IsFloat() {
		return NewFloat(kind, n.AsFloat64())
	}
	if kind == types.BigInt {
		return NewBigInt(n.AsBigInt())
	}
	if kind == types.Uint8 || kind == types.Uint16 || kind == types.Uint32 || kind == types.Uint64 {
		if n.Kind.IsFloat() {
			return NewUint(kind, uint64(n.F64))
		}
		if n.Kind == types.BigInt {
			return NewUint(kind, n.AsBigInt().Uint64())
		}
		if n.Kind == types.Uint8 || n.Kind == types.Uint16 || n.Kind == types.Uint32 || n.Kind == types.Uint64 {
			return NewUint(kind, n.U64)
		}
		return NewUint(kind, uint64(n.I64))
	}
	if n.Kind.IsFloat() {
		return NewInt(kind, int64(n.F64))
	}
	if n.Kind == types.BigInt {
		return NewInt(kind, n.AsBigInt().Int64())
	}
	if n.Kind == types.Uint8 || n.Kind == types.Uint16 || n.Kind == types.Uint32 || n.Kind == types.Uint64 {
		return NewInt(kind, int64(n.U64))
	}
	return NewInt(kind, n.I64)
}
