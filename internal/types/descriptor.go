package types

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// FieldEntry describes one struct field.
type FieldEntry struct {
	Name       string
	Type       *Descriptor
	Visibility Visibility
	// Declaration is the AST node that introduced this field. Typed as
	// `any` rather than ast.Node to keep this package free of a
	// dependency on internal/ast (ast depends on types for the
	// resolved-type slot, not the other way around).
	Declaration any
}

// VariantEntry describes one enum variant.
type VariantEntry struct {
	Name        string
	Payload     *Descriptor // nil if the variant carries no payload
	Discriminant int64
}

// Visibility mirrors the language's field/declaration visibility.
type Visibility int

const (
	VisibilityPrivate Visibility = iota
	VisibilityPublic
)

// Descriptor is the canonical representation of a single type. All
// variant-specific data lives on the same struct (a tagged sum,
// spec §9's "void*-typed union" replaced by a proper Go type with a
// Kind discriminant), which keeps retain/release, equality, and
// hashing uniform across every variant without a type switch at the
// call site.
type Descriptor struct {
	kind Kind
	refs int32 // atomic; see Retain/Release

	// primitive
	primitive PrimitiveKind

	// struct
	name        string
	fields      []*FieldEntry
	fieldIndex  map[string]int
	methods     map[string]*Descriptor
	declaringModule string

	// enum
	variants     map[string]*VariantEntry
	variantOrder []string

	// pointer
	pointee *Descriptor

	// slice / array
	element     *Descriptor
	arrayLength uint64

	// result
	ok  *Descriptor
	err *Descriptor

	// option
	value *Descriptor

	// tuple
	elements []*Descriptor

	// function
	params             []*Descriptor
	ret                *Descriptor
	externName         string
	ffiAnnotations     []string
	requiresMarshaling bool

	// generic instance
	base          *Descriptor
	typeArgs      []*Descriptor
	canonicalName string

	// task handle
	handleResult *Descriptor

	Flags Flags
	Size  uint64 // 0 means "to be computed later"
	Align uint64
}

// Kind returns the descriptor's variant tag.
func (d *Descriptor) Kind() Kind { return d.kind }

// Retain increments the descriptor's reference count and returns the
// same descriptor, mirroring the source's explicit retain/release
// discipline (spec §3 Lifetime). Safe to call from multiple analyzer
// goroutines (§5: ref-counts are the one piece of shared mutable
// state besides the symbol table's own lock).
func (d *Descriptor) Retain() *Descriptor {
	if d == nil {
		return nil
	}
	atomic.AddInt32(&d.refs, 1)
	return d
}

// Release decrements the reference count. The graph is a DAG rooted
// at leaves (spec §3), so there is never a cycle to worry about; when
// a descriptor's count reaches zero its owned children are released
// transitively. Primitives and builtin sentinels are never actually
// freed (they live for the process lifetime), but participate in
// counting for symmetry and to catch refcount bugs in tests.
func (d *Descriptor) Release() {
	if d == nil {
		return
	}
	if atomic.AddInt32(&d.refs, -1) > 0 {
		return
	}
	for _, child := range d.children() {
		child.Release()
	}
}

// RefCount returns the current reference count (test/debug use only).
func (d *Descriptor) RefCount() int32 {
	if d == nil {
		return 0
	}
	return atomic.LoadInt32(&d.refs)
}

func (d *Descriptor) children() []*Descriptor {
	switch d.kind {
	case KindPointer:
		return []*Descriptor{d.pointee}
	case KindSlice, KindArray:
		return []*Descriptor{d.element}
	case KindResult:
		return []*Descriptor{d.ok, d.err}
	case KindOption:
		return []*Descriptor{d.value}
	case KindTuple:
		return append([]*Descriptor{}, d.elements...)
	case KindFunction:
		cs := append([]*Descriptor{}, d.params...)
		return append(cs, d.ret)
	case KindGenericInstance:
		cs := append([]*Descriptor{d.base}, d.typeArgs...)
		return cs
	case KindTaskHandle:
		return []*Descriptor{d.handleResult}
	case KindStruct:
		cs := make([]*Descriptor, 0, len(d.fields))
		for _, f := range d.fields {
			cs = append(cs, f.Type)
		}
		return cs
	case KindEnum:
		cs := make([]*Descriptor, 0, len(d.variants))
		for _, v := range d.variants {
			if v.Payload != nil {
				cs = append(cs, v.Payload)
			}
		}
		return cs
	default:
		return nil
	}
}

func newDescriptor(k Kind) *Descriptor {
	return &Descriptor{kind: k, refs: 1}
}

// --- primitive --------------------------------------------------------

var primitiveCache = struct {
	sync.Mutex
	m map[PrimitiveKind]*Descriptor
}{m: make(map[PrimitiveKind]*Descriptor)}

// CreatePrimitive returns the canonical descriptor for a primitive
// kind. Primitives are interned: every call for the same kind returns
// the same pointer, so identity comparison is free (spec §4.A). The
// cache is process-wide and mutex-guarded since the parallel
// per-file driver (spec §5) calls CreatePrimitive from multiple
// analyzer goroutines concurrently.
func CreatePrimitive(kind PrimitiveKind) *Descriptor {
	primitiveCache.Lock()
	defer primitiveCache.Unlock()
	if d, ok := primitiveCache.m[kind]; ok {
		return d.Retain()
	}
	d := newDescriptor(KindPrimitive)
	d.primitive = kind
	d.refs = 2 // one for the cache slot, one for the caller
	d.Flags.FFICompatible = true
	d.Size, d.Align = primitiveLayout(kind)
	primitiveCache.m[kind] = d
	return d
}

func primitiveLayout(kind PrimitiveKind) (size, align uint64) {
	switch kind {
	case Void, Never:
		return 0, 0
	case Bool, I8, U8:
		return 1, 1
	case I16, U16:
		return 2, 2
	case I32, U32, F32, Char:
		return 4, 4
	case I64, U64, ISize, USize, F64:
		return 8, 8
	case I128, U128:
		return 16, 16
	case String:
		return 16, 8 // {ptr, len}, pointer-sized components
	default:
		return 0, 0
	}
}

// PrimitiveKind returns the primitive kind; only valid when Kind() ==
// KindPrimitive.
func (d *Descriptor) PrimitiveKind() PrimitiveKind { return d.primitive }

// --- struct -------------------------------------------------------------

// CreateStruct allocates a new (empty) struct descriptor with fieldCount
// pre-reserved slots. Fields are added with AddStructField.
func CreateStruct(name string, fieldCount int) *Descriptor {
	d := newDescriptor(KindStruct)
	d.name = name
	d.fields = make([]*FieldEntry, 0, fieldCount)
	d.fieldIndex = make(map[string]int, fieldCount)
	d.methods = make(map[string]*Descriptor)
	return d
}

// Name returns the nominal name for struct/enum/generic-instance
// descriptors, and the empty string otherwise.
func (d *Descriptor) Name() string { return d.name }

// AddStructField appends a field to a struct descriptor. Returns an
// error if a field with the same name already exists or d is not a
// struct.
func (d *Descriptor) AddStructField(entry *FieldEntry) error {
	if d.kind != KindStruct {
		return fmt.Errorf("cannot add field to non-struct descriptor %s", d.kind)
	}
	if _, exists := d.fieldIndex[entry.Name]; exists {
		return fmt.Errorf("duplicate field %q", entry.Name)
	}
	entry.Type.Retain()
	d.fieldIndex[entry.Name] = len(d.fields)
	d.fields = append(d.fields, entry)
	return nil
}

// LookupStructField returns the field entry by name, walking only this
// struct's own field table (no inheritance in this language).
func (d *Descriptor) LookupStructField(name string) (*FieldEntry, bool) {
	if d.kind != KindStruct {
		return nil, false
	}
	idx, ok := d.fieldIndex[name]
	if !ok {
		return nil, false
	}
	return d.fields[idx], true
}

// Fields returns the ordered field list of a struct descriptor.
func (d *Descriptor) Fields() []*FieldEntry { return d.fields }

// AddMethod registers a method on a struct descriptor's method table.
func (d *Descriptor) AddMethod(name string, fn *Descriptor) {
	if d.methods == nil {
		d.methods = make(map[string]*Descriptor)
	}
	d.methods[name] = fn.Retain()
}

// LookupMethod finds a method by name on a struct descriptor.
func (d *Descriptor) LookupMethod(name string) (*Descriptor, bool) {
	m, ok := d.methods[name]
	return m, ok
}

// SetDeclaringModule records which module a nominal type was declared
// in, used by generic-instance canonicalization (spec §9 Open
// Question: canonicalize by name + defining module).
func (d *Descriptor) SetDeclaringModule(module string) { d.declaringModule = module }

// DeclaringModule returns the module a nominal type was declared in.
func (d *Descriptor) DeclaringModule() string { return d.declaringModule }

// --- enum -----------------------------------------------------------------

// CreateEnum allocates a new (empty) enum descriptor.
func CreateEnum(name string) *Descriptor {
	d := newDescriptor(KindEnum)
	d.name = name
	d.variants = make(map[string]*VariantEntry)
	return d
}

// AddVariant registers a variant on an enum descriptor. Returns an
// error on a duplicate variant name.
func (d *Descriptor) AddVariant(entry *VariantEntry) error {
	if d.kind != KindEnum {
		return fmt.Errorf("cannot add variant to non-enum descriptor %s", d.kind)
	}
	if _, exists := d.variants[entry.Name]; exists {
		return fmt.Errorf("duplicate variant %q", entry.Name)
	}
	if entry.Payload != nil {
		entry.Payload.Retain()
	}
	d.variants[entry.Name] = entry
	d.variantOrder = append(d.variantOrder, entry.Name)
	return nil
}

// LookupVariant finds a variant by name.
func (d *Descriptor) LookupVariant(name string) (*VariantEntry, bool) {
	v, ok := d.variants[name]
	return v, ok
}

// VariantNames returns variant names in declaration order.
func (d *Descriptor) VariantNames() []string {
	return append([]string{}, d.variantOrder...)
}

// VariantCount returns the number of variants.
func (d *Descriptor) VariantCount() int { return len(d.variants) }

// --- pointer / slice / array / result / option / tuple ---------------------

// CreatePointer builds a pointer descriptor to pointee.
func CreatePointer(pointee *Descriptor, mutable bool) *Descriptor {
	d := newDescriptor(KindPointer)
	d.pointee = pointee.Retain()
	d.Flags.Mutable = mutable
	d.Size, d.Align = 8, 8
	return d
}

// Pointee returns the pointed-to descriptor.
func (d *Descriptor) Pointee() *Descriptor { return d.pointee }

// CreateSlice builds a slice descriptor over element.
func CreateSlice(element *Descriptor) *Descriptor {
	d := newDescriptor(KindSlice)
	d.element = element.Retain()
	d.Size, d.Align = 16, 8 // {ptr, len}
	return d
}

// CreateArray builds a fixed-size array descriptor. length is the
// resolved compile-time constant array size (spec §4.E requires the
// caller to have already validated length >= 1).
func CreateArray(element *Descriptor, length uint64) *Descriptor {
	d := newDescriptor(KindArray)
	d.element = element.Retain()
	d.arrayLength = length
	d.Size = element.Size * length
	d.Align = element.Align
	return d
}

// Element returns the element type of a slice or array descriptor.
func (d *Descriptor) Element() *Descriptor { return d.element }

// ArrayLength returns the resolved length of an array descriptor.
func (d *Descriptor) ArrayLength() uint64 { return d.arrayLength }

// CreateResult builds a `Result<ok, err>` descriptor.
func CreateResult(ok, err *Descriptor) *Descriptor {
	d := newDescriptor(KindResult)
	d.ok = ok.Retain()
	d.err = err.Retain()
	return d
}

// Ok returns the ok-arm descriptor of a result type.
func (d *Descriptor) Ok() *Descriptor { return d.ok }

// Err returns the err-arm descriptor of a result type.
func (d *Descriptor) Err() *Descriptor { return d.err }

// CreateOption builds an `Option<value>` descriptor.
func CreateOption(value *Descriptor) *Descriptor {
	d := newDescriptor(KindOption)
	d.value = value.Retain()
	return d
}

// Value returns the wrapped descriptor of an option type.
func (d *Descriptor) Value() *Descriptor { return d.value }

// CreateTuple builds a tuple descriptor; spec requires at least 2
// elements but this is enforced by the resolver, not the constructor.
func CreateTuple(elements []*Descriptor) *Descriptor {
	d := newDescriptor(KindTuple)
	d.elements = make([]*Descriptor, len(elements))
	for i, e := range elements {
		d.elements[i] = e.Retain()
	}
	return d
}

// Elements returns a tuple descriptor's element types.
func (d *Descriptor) Elements() []*Descriptor { return d.elements }

// --- function ---------------------------------------------------------------

// FunctionExternMetadata carries FFI-relevant metadata for extern/FFI
// function descriptors.
type FunctionExternMetadata struct {
	ExternalName       string
	FFIAnnotations     []string
	RequiresMarshaling bool
}

// CreateFunction builds a function descriptor.
func CreateFunction(params []*Descriptor, ret *Descriptor, extern *FunctionExternMetadata) *Descriptor {
	d := newDescriptor(KindFunction)
	d.params = make([]*Descriptor, len(params))
	for i, p := range params {
		d.params[i] = p.Retain()
	}
	d.ret = ret.Retain()
	if extern != nil {
		d.externName = extern.ExternalName
		d.ffiAnnotations = append([]string{}, extern.FFIAnnotations...)
		d.requiresMarshaling = extern.RequiresMarshaling
	}
	return d
}

// Params returns a function descriptor's parameter types.
func (d *Descriptor) Params() []*Descriptor { return d.params }

// Return returns a function descriptor's return type.
func (d *Descriptor) Return() *Descriptor { return d.ret }

// ExternalName returns the FFI external symbol name, if any.
func (d *Descriptor) ExternalName() string { return d.externName }

// RequiresMarshaling reports whether calls through this function type
// require FFI marshaling.
func (d *Descriptor) RequiresMarshaling() bool { return d.requiresMarshaling }

// --- task handle -------------------------------------------------------------

// CreateTaskHandle builds a `TaskHandle<result>` descriptor, produced
// by `spawn_with_handle` (spec §3 AST taxonomy / §4.J).
func CreateTaskHandle(result *Descriptor) *Descriptor {
	d := newDescriptor(KindTaskHandle)
	d.handleResult = result.Retain()
	return d
}

// HandleResult returns the awaited result type of a task handle.
func (d *Descriptor) HandleResult() *Descriptor { return d.handleResult }

// --- sentinels ---------------------------------------------------------------

var (
	unknownSingleton = &Descriptor{kind: KindUnknown, refs: 1}
	errorSingleton   = &Descriptor{kind: KindError, refs: 1}
)

// Unknown returns the analyzer's "not yet resolved" sentinel. It never
// leaks into a successfully analyzed program's resolved types.
func Unknown() *Descriptor { return unknownSingleton }

// ErrorType returns the analyzer's "resolution failed" sentinel,
// substituted in place of a real type after a diagnostic is reported
// so downstream analysis can continue (spec §7 band 1).
func ErrorType() *Descriptor { return errorSingleton }

// IsSentinel reports whether d is Unknown() or ErrorType().
func (d *Descriptor) IsSentinel() bool {
	return d == unknownSingleton || d == errorSingleton
}
