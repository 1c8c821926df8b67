// Package types implements the canonical, reference-counted type
// descriptor graph (spec §3, §4.A). Unlike the teacher's Hindley-Milner
// typesystem package (TVar/TApp/Unify), there is no unification here:
// every descriptor is a concrete type. Primitives and generic
// instances are interned and shared by identity; pointer, slice,
// array, result, option, tuple, function and task-handle descriptors
// are allocated anew by each Create call and are not interned, so two
// of them describing the same type are equal under Equals but are not
// the same pointer.
package types

// Kind tags which variant a Descriptor represents.
type Kind int

const (
	KindPrimitive Kind = iota
	KindStruct
	KindEnum
	KindPointer
	KindSlice
	KindArray
	KindResult
	KindOption
	KindTuple
	KindFunction
	KindGenericInstance
	KindTaskHandle
	KindUnknown // analyzer sentinel: "not yet resolved"
	KindError   // analyzer sentinel: "resolution failed"

	// KindTypeParam is an analyzer-internal leaf used only inside a
	// generic base's field/variant tables before instantiation (spec
	// §4.A: "only a leaf substitution is required"). Like Unknown and
	// Error, it never leaks into a fully resolved program: every
	// generic-instance field query substitutes it away.
	KindTypeParam
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindPointer:
		return "pointer"
	case KindSlice:
		return "slice"
	case KindArray:
		return "array"
	case KindResult:
		return "result"
	case KindOption:
		return "option"
	case KindTuple:
		return "tuple"
	case KindFunction:
		return "function"
	case KindGenericInstance:
		return "generic-instance"
	case KindTaskHandle:
		return "task-handle"
	case KindUnknown:
		return "unknown"
	case KindError:
		return "error"
	case KindTypeParam:
		return "type-param"
	default:
		return "invalid-kind"
	}
}

// PrimitiveKind enumerates the primitive type family.
type PrimitiveKind int

const (
	Void PrimitiveKind = iota
	Bool
	I8
	I16
	I32
	I64
	I128
	U8
	U16
	U32
	U64
	U128
	ISize
	USize
	F32
	F64
	Char
	String
	Never
)

var primitiveNames = map[PrimitiveKind]string{
	Void: "void", Bool: "bool",
	I8: "i8", I16: "i16", I32: "i32", I64: "i64", I128: "i128",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64", U128: "u128",
	ISize: "isize", USize: "usize",
	F32: "f32", F64: "f64",
	Char: "char", String: "string", Never: "never",
}

func (p PrimitiveKind) String() string {
	if n, ok := primitiveNames[p]; ok {
		return n
	}
	return "invalid-primitive"
}

// IsInteger reports whether p is a fixed-width or pointer-width integer.
func (p PrimitiveKind) IsInteger() bool {
	switch p {
	case I8, I16, I32, I64, I128, U8, U16, U32, U64, U128, ISize, USize:
		return true
	default:
		return false
	}
}

// IsSignedInteger reports whether p is a signed integer kind.
func (p PrimitiveKind) IsSignedInteger() bool {
	switch p {
	case I8, I16, I32, I64, I128, ISize:
		return true
	default:
		return false
	}
}

// IsFloat reports whether p is a floating point kind.
func (p PrimitiveKind) IsFloat() bool {
	return p == F32 || p == F64
}

// IntRange returns the inclusive [min, max] range representable by an
// integer primitive, as int64 bounds. For u64/usize the upper bound is
// capped at the int64 maximum; for i128/u128 (and non-integer kinds)
// ok is false and no range is reported.
func (p PrimitiveKind) IntRange() (min, max int64, ok bool) {
	switch p {
	case I8:
		return -128, 127, true
	case I16:
		return -32768, 32767, true
	case I32:
		return -2147483648, 2147483647, true
	case I64, ISize:
		return -9223372036854775808, 9223372036854775807, true
	case U8:
		return 0, 255, true
	case U16:
		return 0, 65535, true
	case U32:
		return 0, 4294967295, true
	case U64, USize:
		// int64 can't represent the full u64 range; callers that need
		// the true upper bound use UintMax64 below.
		return 0, 9223372036854775807, true
	default:
		return 0, 0, false
	}
}

// UintMax64 returns the true unsigned maximum for u64/usize, which
// overflows int64 and must be checked separately.
const UintMax64 uint64 = 18446744073709551615

// Flags mirrors the per-descriptor flag set from spec §3.
type Flags struct {
	Mutable      bool
	Owned        bool
	Borrowed     bool
	Constant     bool
	Volatile     bool
	Atomic       bool
	FFICompatible bool
}
