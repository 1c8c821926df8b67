// Package builtins seeds the global scope with primitives, the
// generic Option/Result enums, and predeclared functions (spec §4.D).
// Grounded on analyzer/builtins.go's sync.Once-guarded
// registerBuiltinsToPrelude, generalized from funxy's HM prelude
// (trait dictionaries, TType wrapping) to the spec's flat descriptor
// registry.
package builtins

import (
	"sync"

	"github.com/funxylang/semcore/internal/symbols"
	"github.com/funxylang/semcore/internal/token"
	"github.com/funxylang/semcore/internal/types"
)

// Names of predeclared functions (spec §4.D).
const (
	LogFunc    = "log"
	RangeFunc  = "range"
	LenFunc    = "len"
	PanicFunc  = "panic"
	ArgsFunc   = "args"
	AssertFunc = "assert"
)

// PrimitiveTypeNames maps every primitive spelling to its kind, used
// by the type resolver's base-type lookup (spec §4.E) and by
// is_primitive_type (spec §6).
var PrimitiveTypeNames = map[string]types.PrimitiveKind{
	"void": types.Void, "bool": types.Bool,
	"i8": types.I8, "i16": types.I16, "i32": types.I32, "i64": types.I64, "i128": types.I128,
	"u8": types.U8, "u16": types.U16, "u32": types.U32, "u64": types.U64, "u128": types.U128,
	"isize": types.ISize, "usize": types.USize,
	"f32": types.F32, "f64": types.F64,
	"char": types.Char, "string": types.String, "never": types.Never,
}

// OptionEnumName / ResultEnumName / variant names, spec §4.D.
const (
	OptionEnumName = "Option"
	ResultEnumName = "Result"
	SomeVariant    = "Some"
	NoneVariant    = "None"
	OkVariant      = "Ok"
	ErrVariant     = "Err"
)

// optionBase / resultBase are the canonical, process-wide Option/Result
// enum bases, built exactly once behind genericEnumsOnce (mirroring
// analyzer/builtins.go's sync.Once-guarded registerBuiltinsToPrelude).
// They must be process-wide rather than per-Seed-call: the parallel
// per-file driver (spec §5) runs one Analyzer per file, each calling
// Seed on its own global symbol table, but every file's Option<T>
// needs to canonicalize to the *same* base descriptor pointer for
// Instantiate's identity caching (spec §4.A) to treat them as one
// type across files.
var (
	genericEnumsOnce sync.Once
	optionBase       *types.Descriptor
	resultBase       *types.Descriptor
)

// OptionBase returns the process-wide generic Option enum base.
func OptionBase() *types.Descriptor { return optionBase }

// ResultBase returns the process-wide generic Result enum base.
func ResultBase() *types.Descriptor { return resultBase }

// Seed installs every builtin into the global scope table given to one
// Analyzer. Each Analyzer owns its own global symbol table (spec §5
// "no two analyzers share mutable state") and so calls Seed
// independently, but the type descriptors it installs — primitives,
// Option, Result — are canonical, process-wide singletons (spec
// §4.A), built at most once regardless of how many analyzers call
// Seed concurrently.
func Seed(global *symbols.Table) {
	seedPrimitives(global)
	genericEnumsOnce.Do(func() {
		optionBase = buildOption()
		resultBase = buildResult()
	})
	installEnum(global, OptionEnumName, optionBase, 1)
	installEnum(global, ResultEnumName, resultBase, 2)
	seedPredeclaredFunctions(global)
}

func installEnum(global *symbols.Table, name string, base *types.Descriptor, typeParamCount int) {
	define(global, name, &symbols.Entry{
		Type:           base,
		Kind:           symbols.KindType,
		IsGeneric:      true,
		TypeParamCount: typeParamCount,
	})
	defineQualifiedVariants(global, name, base)
}

func define(global *symbols.Table, name string, entry *symbols.Entry) {
	entry.Name = name
	entry.Flags.Predeclared = true
	// Builtins can never collide with each other or be duplicated, so
	// InsertSafe's only failure mode here would be a programmer error.
	if err := global.InsertSafe(entry); err != nil {
		panic("builtins: " + err.Error())
	}
}

func seedPrimitives(global *symbols.Table) {
	for name, kind := range PrimitiveTypeNames {
		desc := types.CreatePrimitive(kind)
		define(global, name, &symbols.Entry{
			Type:     desc,
			Kind:     symbols.KindType,
			Location: token.SourceLocation{},
		})
	}
}

func buildOption() *types.Descriptor {
	opt := types.CreateEnum(OptionEnumName)
	opt.SetTypeParams([]string{"T"})
	t := types.CreateTypeParam("T")
	_ = opt.AddVariant(&types.VariantEntry{Name: SomeVariant, Payload: t, Discriminant: 0})
	_ = opt.AddVariant(&types.VariantEntry{Name: NoneVariant, Payload: nil, Discriminant: 1})
	return opt
}

func buildResult() *types.Descriptor {
	res := types.CreateEnum(ResultEnumName)
	res.SetTypeParams([]string{"T", "E"})
	okT := types.CreateTypeParam("T")
	errT := types.CreateTypeParam("E")
	_ = res.AddVariant(&types.VariantEntry{Name: OkVariant, Payload: okT, Discriminant: 0})
	_ = res.AddVariant(&types.VariantEntry{Name: ErrVariant, Payload: errT, Discriminant: 1})
	return res
}

// defineQualifiedVariants inserts each variant's qualified name, e.g.
// "Option.Some", into the global scope (spec §4.D). The variant's own
// payload/discriminant already live on enumDesc's variant table
// (added by AddVariant); the symbol entry just needs to resolve
// "Option.Some" back to the owning enum descriptor.
func defineQualifiedVariants(global *symbols.Table, enumName string, enumDesc *types.Descriptor) {
	for _, variantName := range enumDesc.VariantNames() {
		qualified := enumName + "." + variantName
		define(global, qualified, &symbols.Entry{
			Type:     enumDesc,
			Kind:     symbols.KindEnumVariant,
			Flags:    symbols.Flags{Predeclared: true},
			Location: token.SourceLocation{},
		})
	}
}

func seedPredeclaredFunctions(global *symbols.Table) {
	voidT := types.CreatePrimitive(types.Void)
	stringT := types.CreatePrimitive(types.String)
	boolT := types.CreatePrimitive(types.Bool)
	i64T := types.CreatePrimitive(types.I64)
	usizeT := types.CreatePrimitive(types.USize)

	// log(message: string) -> void
	define(global, LogFunc, &symbols.Entry{
		Kind: symbols.KindFunction,
		Type: types.CreateFunction([]*types.Descriptor{stringT}, voidT, nil),
	})

	// range(start: i64, end: i64) -> []i64
	define(global, RangeFunc, &symbols.Entry{
		Kind: symbols.KindFunction,
		Type: types.CreateFunction([]*types.Descriptor{i64T, i64T}, types.CreateSlice(i64T), nil),
	})

	// len(s: []T) -> usize — expressed with a type-param leaf; the
	// call-site analyzer substitutes T from the argument's element
	// type the same way a generic struct field is substituted.
	elemT := types.CreateTypeParam("T")
	lenFn := types.CreateFunction([]*types.Descriptor{types.CreateSlice(elemT)}, usizeT, nil)
	lenFn.SetTypeParams([]string{"T"})
	define(global, LenFunc, &symbols.Entry{
		Kind:           symbols.KindFunction,
		Type:           lenFn,
		IsGeneric:      true,
		TypeParamCount: 1,
	})

	// panic(message: string) -> never
	define(global, PanicFunc, &symbols.Entry{
		Kind: symbols.KindFunction,
		Type: types.CreateFunction([]*types.Descriptor{stringT}, types.CreatePrimitive(types.Never), nil),
	})

	// args() -> []string
	define(global, ArgsFunc, &symbols.Entry{
		Kind: symbols.KindFunction,
		Type: types.CreateFunction(nil, types.CreateSlice(stringT), nil),
	})

	// assert(cond: bool, message: string) -> void
	define(global, AssertFunc, &symbols.Entry{
		Kind: symbols.KindFunction,
		Type: types.CreateFunction([]*types.Descriptor{boolT, stringT}, voidT, nil),
	})
}
