package types

import "hash/fnv"

// Equals implements canonical descriptor equality (spec §4.A):
// primitives compare by kind, struct/enum by nominal identity (pointer
// identity, since this package always canonicalizes), compound types
// recursively, and generic instances by base identity + argument
// identity. Symmetric and reflexive, as required by spec §8.
func (d *Descriptor) Equals(other *Descriptor) bool {
	if d == other {
		return true
	}
	if d == nil || other == nil {
		return false
	}
	if d.kind != other.kind {
		return false
	}
	switch d.kind {
	case KindPrimitive:
		return d.primitive == other.primitive
	case KindStruct, KindEnum:
		// Canonicalized by construction: the symbol table never hands
		// out two distinct descriptors for the same nominal type, so
		// pointer identity (already checked above) is the only
		// comparison that is ever needed. Two structurally identical
		// but separately-declared types are intentionally distinct
		// (spec §9 Open Question: nominal, not structural, identity).
		return false
	case KindPointer:
		return d.Flags.Mutable == other.Flags.Mutable && d.pointee.Equals(other.pointee)
	case KindSlice:
		return d.element.Equals(other.element)
	case KindArray:
		return d.arrayLength == other.arrayLength && d.element.Equals(other.element)
	case KindResult:
		return d.ok.Equals(other.ok) && d.err.Equals(other.err)
	case KindOption:
		return d.value.Equals(other.value)
	case KindTuple:
		if len(d.elements) != len(other.elements) {
			return false
		}
		for i := range d.elements {
			if !d.elements[i].Equals(other.elements[i]) {
				return false
			}
		}
		return true
	case KindFunction:
		if len(d.params) != len(other.params) {
			return false
		}
		for i := range d.params {
			if !d.params[i].Equals(other.params[i]) {
				return false
			}
		}
		return d.ret.Equals(other.ret)
	case KindGenericInstance:
		if !d.base.Equals(other.base) {
			return false
		}
		if len(d.typeArgs) != len(other.typeArgs) {
			return false
		}
		for i := range d.typeArgs {
			if !d.typeArgs[i].Equals(other.typeArgs[i]) {
				return false
			}
		}
		return true
	case KindTaskHandle:
		return d.handleResult.Equals(other.handleResult)
	case KindUnknown, KindError:
		return true
	default:
		return false
	}
}

// Hash computes a structural hash consistent with Equals: a.Equals(b)
// implies a.Hash() == b.Hash() (spec §8).
func (d *Descriptor) Hash() uint64 {
	h := fnv.New64a()
	d.writeHash(h)
	return h.Sum64()
}

func (d *Descriptor) writeHash(h interface{ Write([]byte) (int, error) }) {
	write := func(s string) { h.Write([]byte(s)) }
	if d == nil {
		write("<nil>")
		return
	}
	write(d.kind.String())
	write("|")
	switch d.kind {
	case KindPrimitive:
		write(d.primitive.String())
	case KindStruct, KindEnum:
		write(d.name)
		write(d.declaringModule)
	case KindPointer:
		if d.Flags.Mutable {
			write("mut")
		}
		d.pointee.writeHash(h)
	case KindSlice:
		d.element.writeHash(h)
	case KindArray:
		write(uitoa(d.arrayLength))
		d.element.writeHash(h)
	case KindResult:
		d.ok.writeHash(h)
		d.err.writeHash(h)
	case KindOption:
		d.value.writeHash(h)
	case KindTuple:
		for _, e := range d.elements {
			e.writeHash(h)
		}
	case KindFunction:
		for _, p := range d.params {
			p.writeHash(h)
		}
		d.ret.writeHash(h)
	case KindGenericInstance:
		d.base.writeHash(h)
		for _, a := range d.typeArgs {
			a.writeHash(h)
		}
	case KindTaskHandle:
		d.handleResult.writeHash(h)
	}
}

func uitoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
