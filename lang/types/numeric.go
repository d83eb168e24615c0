package types

// NumericKind enumerates the arithmetic categories of the "Numeric promotion
// table" (spec.md section 4.2). Non-arithmetic types (bool, string, datetime,
// char, object, null) have no NumericKind; NotNumeric stands in for them.
type NumericKind uint8

const (
	NotNumeric NumericKind = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	BigInt
)

// rank orders NumericKind by the width of its representable maxima, per the
// table in spec.md: wider kinds win promotion, ties (there are none, since
// every kind below has a distinct rank) are broken by preferring the left
// operand at the call site in Promote.
var rank = map[NumericKind]int{
	Int8:    0,
	Uint8:   1,
	Int16:   2,
	Uint16:  3,
	Int32:   4,
	Uint32:  5,
	Int64:   6,
	Uint64:  7,
	Float32: 8,
	Float64: 9,
	BigInt:  10,
}

// Promote returns the "greater numeric type" of a and b: the kind with the
// larger representable magnitude, with the left operand winning ties (there
// are no ties among distinct kinds, but an operand promoted against itself
// must still return that same kind).
func Promote(a, b NumericKind) NumericKind {
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// IsArithmetic reports whether k denotes one of the arithmetic categories
// (every NumericKind except NotNumeric).
func (k NumericKind) IsArithmetic() bool { return k != NotNumeric }

func (k NumericKind) String() string {
	switch k {
	case Int8:
		return "Int8"
	case Int16:
		return "Int16"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case Uint8:
		return "UInt8"
	case Uint16:
		return "UInt16"
	case Uint32:
		return "UInt32"
	case Uint64:
		return "UInt64"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case BigInt:
		return "BigInt"
	default:
		return "NotNumeric"
	}
}

// IsFloat reports whether k is one of the floating-point kinds.
func (k NumericKind) IsFloat() bool { return k == Float32 || k == Float64 }
