// Package types implements the static type system consumed by the resolver
// and the two type passes: TypeHandle (a resolved type), TypeReference (the
// mutable per-expression slot holding one), the built-in type table used for
// short-name annotation lookup, and the numeric promotion/coercion rules.
package types

import "fmt"

// HandleKind classifies a TypeHandle beyond its numeric category, so the
// type resolver can dispatch on "is this arithmetic / string / comparable"
// without string-comparing names.
type HandleKind uint8

const (
	KindArithmetic HandleKind = iota
	KindString
	KindBool
	KindChar
	KindDateTime
	KindObject
	KindNull
	KindVoid
	KindClass // a host-native or declared class, referenced by name
)

// TypeHandle is a resolved type. Built-in handles are singletons returned by
// Lookup, so identity comparison (==) is the coercion test per spec.md's
// "Coercion (identity-only)" policy.
type TypeHandle struct {
	Name    string
	Kind    HandleKind
	Numeric NumericKind // meaningful only when Kind == KindArithmetic
}

func (h *TypeHandle) String() string {
	if h == nil {
		return "<unresolved>"
	}
	return h.Name
}

// Comparable reports whether values of this type satisfy the "Comparable"
// capability required by the left and right operands of a binary expression
// (spec.md section 4.2). Every type in this language is comparable except
// void, which can never be the type of a value.
func (h *TypeHandle) Comparable() bool {
	return h != nil && h.Kind != KindVoid
}

// CanBeCoercedInto implements the call-site coercion policy: identity only.
// Numeric widening is a property of expression evaluation (Promote), never
// of argument passing.
func CanBeCoercedInto(param, arg *TypeHandle) bool {
	return param != nil && arg != nil && param == arg
}

var (
	Int8Handle    = &TypeHandle{Name: "Int8", Kind: KindArithmetic, Numeric: Int8}
	Int16Handle   = &TypeHandle{Name: "Int16", Kind: KindArithmetic, Numeric: Int16}
	Int32Handle   = &TypeHandle{Name: "Int32", Kind: KindArithmetic, Numeric: Int32}
	Int64Handle   = &TypeHandle{Name: "Int64", Kind: KindArithmetic, Numeric: Int64}
	Uint8Handle   = &TypeHandle{Name: "UInt8", Kind: KindArithmetic, Numeric: Uint8}
	Uint16Handle  = &TypeHandle{Name: "UInt16", Kind: KindArithmetic, Numeric: Uint16}
	Uint32Handle  = &TypeHandle{Name: "UInt32", Kind: KindArithmetic, Numeric: Uint32}
	Uint64Handle  = &TypeHandle{Name: "UInt64", Kind: KindArithmetic, Numeric: Uint64}
	Float32Handle = &TypeHandle{Name: "Float32", Kind: KindArithmetic, Numeric: Float32}
	Float64Handle = &TypeHandle{Name: "Float64", Kind: KindArithmetic, Numeric: Float64}
	BigIntHandle  = &TypeHandle{Name: "BigInt", Kind: KindArithmetic, Numeric: BigInt}

	BoolHandle     = &TypeHandle{Name: "Bool", Kind: KindBool}
	StringHandle   = &TypeHandle{Name: "String", Kind: KindString}
	CharHandle     = &TypeHandle{Name: "Char", Kind: KindChar}
	DateTimeHandle = &TypeHandle{Name: "DateTime", Kind: KindDateTime}
	ObjectHandle   = &TypeHandle{Name: "Object", Kind: KindObject}
	NullHandle     = &TypeHandle{Name: "Null", Kind: KindNull}
	VoidHandle     = &TypeHandle{Name: "Void", Kind: KindVoid}
)

// builtins is the fixed short-name table annotation resolution looks up
// against (spec.md section 4.2, "Annotation resolution"). Multiple names may
// alias the same handle.
var builtins = map[string]*TypeHandle{
	"int8":  Int8Handle,
	"Int8":  Int8Handle,
	"int16": Int16Handle,
	"Int16": Int16Handle,
	"int":   Int32Handle,
	"int32": Int32Handle,
	"Int32": Int32Handle,
	"long":  Int64Handle,
	"int64": Int64Handle,
	"Int64": Int64Handle,

	"byte":   Uint8Handle,
	"uint8":  Uint8Handle,
	"UInt8":  Uint8Handle,
	"uint16": Uint16Handle,
	"UInt16": Uint16Handle,
	"uint":   Uint32Handle,
	"uint32": Uint32Handle,
	"UInt32": Uint32Handle,
	"uint64": Uint64Handle,
	"UInt64": Uint64Handle,

	"float":   Float32Handle,
	"float32": Float32Handle,
	"Float32": Float32Handle,
	"double":  Float64Handle,
	"float64": Float64Handle,
	"Float64": Float64Handle,

	"bigint": BigIntHandle,
	"BigInt": BigIntHandle,

	"bool":    BoolHandle,
	"Bool":    BoolHandle,
	"string":  StringHandle,
	"String":  StringHandle,
	"char":    CharHandle,
	"Char":    CharHandle,
	"object":  ObjectHandle,
	"Object":  ObjectHandle,
	"void":    VoidHandle,
	"Void":    VoidHandle,
	"null":    NullHandle,
	"Null":    NullHandle,
}

// Lookup resolves a short type name against the built-in table. An
// unrecognized name returns (nil, false); the caller (TypeResolver) leaves
// the slot unresolved, and TypeValidator later surfaces it as TypeNotFound.
func Lookup(name string) (*TypeHandle, bool) {
	h, ok := builtins[name]
	return h, ok
}

// Register installs a handle for a host-native or declared class name so
// annotation lookup and call-site coercion can treat it like any built-in
// type. Used by the host's native-class directory and by the resolver when
// it encounters a Class declaration.
func Register(name string, h *TypeHandle) {
	builtins[name] = h
}

// NewClassHandle builds the TypeHandle for a host-native or declared class.
func NewClassHandle(name string) *TypeHandle {
	return &TypeHandle{Name: name, Kind: KindClass}
}

// DebugString prints a handle together with its numeric category, if any.
func (h *TypeHandle) DebugString() string {
	if h == nil {
		return "<unresolved>"
	}
	if h.Kind == KindArithmetic {
		return fmt.Sprintf("%s(%s)", h.Name, h.Numeric)
	}
	return h.Name
}
