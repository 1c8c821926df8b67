package types

import (
	"fmt"
	"strings"
	"sync"
)

// CreateTypeParam builds the leaf placeholder for a declared generic
// type parameter (e.g. `T` inside `struct Vec<T> { data: T }`). Only
// valid inside a generic base's own field/variant tables.
func CreateTypeParam(name string) *Descriptor {
	d := newDescriptor(KindTypeParam)
	d.name = name
	return d
}

// TypeParamName returns the parameter name; only valid when
// Kind() == KindTypeParam.
func (d *Descriptor) TypeParamName() string { return d.name }

// typeParamNames tracks the declared type-parameter names for each
// generic base descriptor, by pointer identity. Set via
// SetTypeParams when a struct/enum is declared generic.
var typeParamNames = struct {
	sync.Mutex
	m map[*Descriptor][]string
}{m: make(map[*Descriptor][]string)}

// SetTypeParams records the ordered, declared type-parameter names for
// a generic struct/enum base.
func (d *Descriptor) SetTypeParams(names []string) {
	typeParamNames.Lock()
	defer typeParamNames.Unlock()
	typeParamNames.m[d] = append([]string{}, names...)
}

// TypeParams returns the declared type-parameter names for a generic
// base, or nil if d is not generic.
func (d *Descriptor) TypeParams() []string {
	typeParamNames.Lock()
	defer typeParamNames.Unlock()
	return typeParamNames.m[d]
}

// IsGeneric reports whether d has declared type parameters.
func (d *Descriptor) IsGeneric() bool {
	return len(d.TypeParams()) > 0
}

// instanceCache canonicalizes generic instances by (base, arg
// identities) so that Instantiate(B, [A1..An]) always returns the
// same pointer for equal inputs (spec §4.A invariant + §8 generic
// round-trip property).
var instanceCache = struct {
	sync.Mutex
	m map[string]*Descriptor
}{m: make(map[string]*Descriptor)}

func instanceCacheKey(base *Descriptor, args []*Descriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%p<", base)
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%p", a)
	}
	b.WriteByte('>')
	return b.String()
}

// Instantiate builds (or fetches the canonical) generic-instance
// descriptor for applying args to a generic struct/enum base. Fails
// if base is not a struct or enum (spec §4.A).
func Instantiate(base *Descriptor, args []*Descriptor) (*Descriptor, error) {
	if base.kind != KindStruct && base.kind != KindEnum {
		return nil, fmt.Errorf("cannot instantiate non-struct/enum base %s", base.kind)
	}
	key := instanceCacheKey(base, args)
	instanceCache.Lock()
	if cached, ok := instanceCache.m[key]; ok {
		instanceCache.Unlock()
		return cached.Retain(), nil
	}
	instanceCache.Unlock()

	d := newDescriptor(KindGenericInstance)
	d.base = base.Retain()
	d.typeArgs = make([]*Descriptor, len(args))
	for i, a := range args {
		d.typeArgs[i] = a.Retain()
	}
	d.canonicalName = canonicalGenericName(base, args)

	instanceCache.Lock()
	if existing, ok := instanceCache.m[key]; ok {
		instanceCache.Unlock()
		d.Release()
		return existing.Retain(), nil
	}
	instanceCache.m[key] = d
	instanceCache.Unlock()
	return d.Retain(), nil
}

func canonicalGenericName(base *Descriptor, args []*Descriptor) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.displayName()
	}
	return fmt.Sprintf("%s<%s>", base.name, strings.Join(parts, ", "))
}

func (d *Descriptor) displayName() string {
	switch d.kind {
	case KindPrimitive:
		return d.primitive.String()
	case KindStruct, KindEnum:
		return d.name
	case KindGenericInstance:
		return d.canonicalName
	case KindPointer:
		if d.Flags.Mutable {
			return "*mut " + d.pointee.displayName()
		}
		return "*" + d.pointee.displayName()
	case KindSlice:
		return "[" + d.element.displayName() + "]"
	case KindArray:
		return fmt.Sprintf("[%s; %d]", d.element.displayName(), d.arrayLength)
	case KindOption:
		return "Option<" + d.value.displayName() + ">"
	case KindResult:
		return fmt.Sprintf("Result<%s, %s>", d.ok.displayName(), d.err.displayName())
	case KindTypeParam:
		return d.name
	default:
		return d.kind.String()
	}
}

// CanonicalName returns the display name of a generic-instance
// descriptor, e.g. "Vec<i32>".
func (d *Descriptor) CanonicalName() string { return d.canonicalName }

// Base returns the generic base of a generic-instance descriptor.
func (d *Descriptor) Base() *Descriptor { return d.base }

// TypeArgs returns the argument list of a generic-instance descriptor.
func (d *Descriptor) TypeArgs() []*Descriptor { return d.typeArgs }

// substitution maps declared type-parameter names to concrete
// arguments, used when resolving a generic instance's field/variant
// types against its base.
type substitution map[string]*Descriptor

func newSubstitution(base *Descriptor, args []*Descriptor) substitution {
	names := base.TypeParams()
	s := make(substitution, len(names))
	for i, n := range names {
		if i < len(args) {
			s[n] = args[i]
		}
	}
	return s
}

// substitute walks t, replacing KindTypeParam leaves found in s and
// recursing into compound types. Unmatched type parameters (a
// parameter referenced by a field but absent from the substitution,
// which indicates a prior arity error) yield ErrorType() rather than
// leaking a dangling placeholder past instantiation (spec §4.A
// "Errors").
func substitute(t *Descriptor, s substitution) *Descriptor {
	if t == nil {
		return nil
	}
	switch t.kind {
	case KindTypeParam:
		if repl, ok := s[t.name]; ok {
			return repl
		}
		return ErrorType()
	case KindPointer:
		return CreatePointer(substitute(t.pointee, s), t.Flags.Mutable)
	case KindSlice:
		return CreateSlice(substitute(t.element, s))
	case KindArray:
		return CreateArray(substitute(t.element, s), t.arrayLength)
	case KindResult:
		return CreateResult(substitute(t.ok, s), substitute(t.err, s))
	case KindOption:
		return CreateOption(substitute(t.value, s))
	case KindTuple:
		elems := make([]*Descriptor, len(t.elements))
		for i, e := range t.elements {
			elems[i] = substitute(e, s)
		}
		return CreateTuple(elems)
	case KindFunction:
		params := make([]*Descriptor, len(t.params))
		for i, p := range t.params {
			params[i] = substitute(p, s)
		}
		return CreateFunction(params, substitute(t.ret, s), nil)
	case KindGenericInstance:
		args := make([]*Descriptor, len(t.typeArgs))
		for i, a := range t.typeArgs {
			args[i] = substitute(a, s)
		}
		inst, err := Instantiate(t.base, args)
		if err != nil {
			return ErrorType()
		}
		return inst
	default:
		return t
	}
}

// SubstituteTypeParams applies a name->argument substitution to t,
// replacing KindTypeParam leaves. Exported for callers outside this
// package that need generic substitution without a struct/enum base
// on hand — notably generic *function* instantiation at a call site
// (spec §4.J: "Generic-function calls substitute parameters from
// explicit ::<...> arguments or from inferred argument types"), which
// has no struct/enum descriptor to carry the substitution.
func SubstituteTypeParams(t *Descriptor, paramNames []string, args []*Descriptor) *Descriptor {
	s := make(substitution, len(paramNames))
	for i, n := range paramNames {
		if i < len(args) {
			s[n] = args[i]
		}
	}
	return substitute(t, s)
}

// ResolveFieldType returns the type of a field on a (possibly generic
// instance) struct descriptor, substituting type parameters with the
// instance's concrete arguments (spec §4.J field-access).
func ResolveFieldType(structOrInstance *Descriptor, fieldName string) (*Descriptor, bool) {
	switch structOrInstance.kind {
	case KindStruct:
		entry, ok := structOrInstance.LookupStructField(fieldName)
		if !ok {
			return nil, false
		}
		return entry.Type, true
	case KindGenericInstance:
		base := structOrInstance.base
		if base.kind != KindStruct {
			return nil, false
		}
		entry, ok := base.LookupStructField(fieldName)
		if !ok {
			return nil, false
		}
		s := newSubstitution(base, structOrInstance.typeArgs)
		return substitute(entry.Type, s), true
	default:
		return nil, false
	}
}

// ResolveVariant returns a (possibly substituted) variant payload type
// for a generic-instance enum, e.g. Option<i32>.Some carries i32 not T.
func ResolveVariant(enumOrInstance *Descriptor, variantName string) (*VariantEntry, bool) {
	switch enumOrInstance.kind {
	case KindEnum:
		return enumOrInstance.LookupVariant(variantName)
	case KindGenericInstance:
		base := enumOrInstance.base
		if base.kind != KindEnum {
			return nil, false
		}
		entry, ok := base.LookupVariant(variantName)
		if !ok || entry.Payload == nil {
			return entry, ok
		}
		s := newSubstitution(base, enumOrInstance.typeArgs)
		substituted := &VariantEntry{
			Name:         entry.Name,
			Payload:      substitute(entry.Payload, s),
			Discriminant: entry.Discriminant,
		}
		return substituted, true
	default:
		return nil, false
	}
}
