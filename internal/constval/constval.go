// Package constval defines the compile-time constant value
// representation shared by the symbol table (which stores evaluated
// const values on const symbol entries) and the constant evaluator
// (spec §3 ConstValue, §4.F). Split into its own package so neither
// symbols nor consteval has to import the other.
package constval

import (
	"fmt"

	"github.com/funxylang/semcore/internal/token"
)

// ValueKind tags which alternative of the ConstValue union is active.
type ValueKind int

const (
	Integer ValueKind = iota
	Float
	String
	Boolean
)

// ConstValue is a tagged union over {integer (i64), float (f64),
// string, boolean} (spec §3).
type ConstValue struct {
	Kind ValueKind
	Int  int64
	Flt  float64
	Str  string
	Bool bool

	// Location is where this value's defining expression appeared,
	// carried along so a later diagnostic (a range-check failure on a
	// reference to this const, say) can still point at the original
	// definition site rather than only the reference site.
	Location token.SourceLocation
}

func Int(v int64) ConstValue     { return ConstValue{Kind: Integer, Int: v} }
func Flt64(v float64) ConstValue { return ConstValue{Kind: Float, Flt: v} }
func Str_(v string) ConstValue   { return ConstValue{Kind: String, Str: v} }
func Bool_(v bool) ConstValue    { return ConstValue{Kind: Boolean, Bool: v} }

// WithLocation returns a copy of v stamped with loc.
func (v ConstValue) WithLocation(loc token.SourceLocation) ConstValue {
	v.Location = loc
	return v
}

// DeepCopy returns a copy of v. ConstValue has no reference fields, so
// this is a plain value copy, but it is exposed explicitly so callers
// (spec §4.F "A deep copy of the stored value is returned") don't rely
// on Go's implicit struct-copy semantics surviving a future field
// addition.
func (v ConstValue) DeepCopy() ConstValue { return v }

func (v ConstValue) String() string {
	switch v.Kind {
	case Integer:
		return fmt.Sprintf("%d", v.Int)
	case Float:
		return fmt.Sprintf("%g", v.Flt)
	case String:
		return fmt.Sprintf("%q", v.Str)
	case Boolean:
		return fmt.Sprintf("%t", v.Bool)
	default:
		return "<invalid const value>"
	}
}

// Equal compares two const values for equality. Float comparison uses
// the 1e-10 epsilon spec §4.F mandates for const-folded equality.
func Equal(a, b ConstValue) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Integer:
		return a.Int == b.Int
	case Float:
		d := a.Flt - b.Flt
		if d < 0 {
			d = -d
		}
		return d < 1e-10
	case String:
		return a.Str == b.Str
	case Boolean:
		return a.Bool == b.Bool
	default:
		return false
	}
}
