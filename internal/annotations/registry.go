// Package annotations implements the registry-driven annotation
// engine (spec §4.G): static tag/parameter-schema/conflict tables plus
// a per-site validation pipeline. Grounded on the teacher's static
// registry + dispatch idiom (internal/config/constants.go's
// package-level const tables, symbol_table_advanced.go's map-of-map
// registries keyed by name such as traitMethods/operatorTraits) —
// funxy has no attribute syntax of its own, so the shape is reused,
// not the content.
package annotations

// Context is a bitmask of the AST positions an annotation may appear
// on (spec §4.G "Contexts: function, struct, statement, expression,
// parameter, return-type, any").
type Context int

const (
	CtxFunction Context = 1 << iota
	CtxStruct
	CtxStatement
	CtxExpression
	CtxParameter
	CtxReturnType
)

// CtxAny matches every context.
const CtxAny = CtxFunction | CtxStruct | CtxStatement | CtxExpression | CtxParameter | CtxReturnType

// Category groups tags the way spec §4.G's table does.
type Category string

const (
	CategoryConcurrency  Category = "concurrency"
	CategoryOptimization Category = "optimization"
	CategoryLifecycle    Category = "lifecycle"
	CategorySecurity     Category = "security"
	CategoryMemory       Category = "memory"
	CategoryFFI          Category = "ffi"
)

// TagDef describes one registered annotation name (spec §4.G "Tag
// definitions").
type TagDef struct {
	Name           string
	Category       Category
	RequiresParams bool
	ValidContexts  Context
}

// Tag name constants, spec §4.G.
const (
	TagNonDeterministic     = "non_deterministic"
	TagAtomic               = "atomic"
	TagThreadSafe           = "thread_safe"
	TagInline               = "inline"
	TagNoInline             = "no_inline"
	TagHot                  = "hot"
	TagCold                 = "cold"
	TagCacheFriendly        = "cache_friendly"
	TagPerformanceCritical  = "performance_critical"
	TagDeprecated           = "deprecated"
	TagExperimental         = "experimental"
	TagStable               = "stable"
	TagSecurityCritical     = "security_critical"
	TagAuditRequired        = "audit_required"
	TagNoGC                 = "no_gc"
	TagStackOnly            = "stack_only"
	TagCAbi                 = "c_abi"
	TagDllExport            = "dll_export"
	TagDllImport            = "dll_import"
	TagTransferFull         = "transfer_full"
	TagTransferNone         = "transfer_none"
	TagBorrowed             = "borrowed"
	TagConstantTime         = "constant_time"
	TagVolatileMemory       = "volatile_memory"
)

// TagRegistry is the static name → TagDef table (spec §4.G).
var TagRegistry = map[string]TagDef{
	TagNonDeterministic: {Name: TagNonDeterministic, Category: CategoryConcurrency, ValidContexts: CtxFunction | CtxStatement},
	TagAtomic:           {Name: TagAtomic, Category: CategoryConcurrency, ValidContexts: CtxFunction | CtxStatement | CtxExpression},
	TagThreadSafe:       {Name: TagThreadSafe, Category: CategoryConcurrency, ValidContexts: CtxFunction | CtxStruct},

	TagInline:              {Name: TagInline, Category: CategoryOptimization, ValidContexts: CtxFunction},
	TagNoInline:            {Name: TagNoInline, Category: CategoryOptimization, ValidContexts: CtxFunction},
	TagHot:                 {Name: TagHot, Category: CategoryOptimization, ValidContexts: CtxFunction},
	TagCold:                {Name: TagCold, Category: CategoryOptimization, ValidContexts: CtxFunction},
	TagCacheFriendly:       {Name: TagCacheFriendly, Category: CategoryOptimization, ValidContexts: CtxFunction | CtxStruct},
	TagPerformanceCritical: {Name: TagPerformanceCritical, Category: CategoryOptimization, ValidContexts: CtxFunction},

	TagDeprecated:   {Name: TagDeprecated, Category: CategoryLifecycle, RequiresParams: true, ValidContexts: CtxAny},
	TagExperimental: {Name: TagExperimental, Category: CategoryLifecycle, ValidContexts: CtxAny},
	TagStable:       {Name: TagStable, Category: CategoryLifecycle, ValidContexts: CtxAny},

	TagSecurityCritical: {Name: TagSecurityCritical, Category: CategorySecurity, ValidContexts: CtxFunction | CtxStruct},
	TagAuditRequired:    {Name: TagAuditRequired, Category: CategorySecurity, ValidContexts: CtxAny},
	TagConstantTime:     {Name: TagConstantTime, Category: CategorySecurity, ValidContexts: CtxFunction | CtxStatement},
	TagVolatileMemory:   {Name: TagVolatileMemory, Category: CategorySecurity, ValidContexts: CtxStruct | CtxParameter | CtxStatement},

	TagNoGC:      {Name: TagNoGC, Category: CategoryMemory, ValidContexts: CtxFunction | CtxStruct},
	TagStackOnly: {Name: TagStackOnly, Category: CategoryMemory, ValidContexts: CtxStruct | CtxParameter},

	TagCAbi:         {Name: TagCAbi, Category: CategoryFFI, ValidContexts: CtxFunction | CtxStruct},
	TagDllExport:    {Name: TagDllExport, Category: CategoryFFI, RequiresParams: true, ValidContexts: CtxFunction},
	TagDllImport:    {Name: TagDllImport, Category: CategoryFFI, RequiresParams: true, ValidContexts: CtxFunction},
	TagTransferFull: {Name: TagTransferFull, Category: CategoryFFI, ValidContexts: CtxParameter | CtxReturnType},
	TagTransferNone: {Name: TagTransferNone, Category: CategoryFFI, ValidContexts: CtxParameter | CtxReturnType},
	TagBorrowed:     {Name: TagBorrowed, Category: CategoryFFI, ValidContexts: CtxParameter},
}

// ParamValidation describes how a single annotation parameter's value
// is checked (spec §4.G "Parameter schemas").
type ParamValidation struct {
	IntMin, IntMax   int64 // active when Kind == "int"
	HasIntRange      bool
	StringMinLen     int
	StringMaxLen     int
	HasStringLenRule bool
	EnumValues       []string // active when Kind == "enum"
}

// ParamSpec is one ordered parameter in an annotation's schema.
type ParamSpec struct {
	Name       string
	Kind       string // "int" | "string" | "bool" | "enum"
	Required   bool
	Validation ParamValidation
}

// ParamSchemas is the static name → ordered-parameter-list table
// (spec §4.G). Tags absent here accept no parameters.
var ParamSchemas = map[string][]ParamSpec{
	TagDeprecated: {
		{Name: "message", Kind: "string", Required: true, Validation: ParamValidation{HasStringLenRule: true, StringMinLen: 1, StringMaxLen: 256}},
		{Name: "since", Kind: "string"},
		{Name: "replacement", Kind: "string"},
	},
	TagCacheFriendly: {
		{Name: "level", Kind: "int", Validation: ParamValidation{HasIntRange: true, IntMin: 1, IntMax: 3}},
		{Name: "strategy", Kind: "enum", Validation: ParamValidation{EnumValues: []string{"temporal", "spatial", "both"}}},
	},
	TagDllExport: {
		{Name: "name", Kind: "string", Required: true},
	},
	TagDllImport: {
		{Name: "name", Kind: "string", Required: true},
		{Name: "library", Kind: "string"},
	},
}

// ConflictType classifies how two annotations at the same site relate
// (spec §4.G "Conflicts").
type ConflictType string

const (
	ConflictMutuallyExclusive ConflictType = "mutually-exclusive"
	ConflictRedundant         ConflictType = "redundant"
	ConflictDeprecatedCombo   ConflictType = "deprecated-combination"
)

// ConflictRule is the resolved conflict between two tag names at a
// single annotation site.
type ConflictRule struct {
	Type ConflictType
	Hint string
}

// conflictEntry pairs two tag names with a rule; Conflicts indexes
// both directions.
type conflictEntry struct {
	A, B string
	Type ConflictType
	Hint string
}

var conflictTable = []conflictEntry{
	{TagInline, TagNoInline, ConflictMutuallyExclusive, "a function cannot be both always-inlined and never-inlined"},
	{TagHot, TagCold, ConflictMutuallyExclusive, "a function cannot be both hot and cold"},
	{TagDeprecated, TagExperimental, ConflictRedundant, "deprecated already implies the API is unstable"},
	{TagStable, TagExperimental, ConflictMutuallyExclusive, "a stable API cannot also be experimental"},
	{TagTransferFull, TagBorrowed, ConflictMutuallyExclusive, "transfer_full and borrowed describe incompatible ownership transfer"},
	{TagTransferFull, TagTransferNone, ConflictMutuallyExclusive, "a value cannot require both full and no ownership transfer"},
	{TagNoGC, TagStackOnly, ConflictDeprecatedCombo, "stack_only already implies no_gc; combining them is redundant"},
}

// Conflict looks up the conflict rule between a and b, checking both
// orderings, and reports whether one exists.
func Conflict(a, b string) (ConflictRule, bool) {
	for _, c := range conflictTable {
		if (c.A == a && c.B == b) || (c.A == b && c.B == a) {
			return ConflictRule{Type: c.Type, Hint: c.Hint}, true
		}
	}
	return ConflictRule{}, false
}

// RequiredForTier2 names the annotation a tier-2 site requires. It is
// the caller (the analyzer, which knows which *statement kinds* are
// tier-2 concurrency primitives, e.g. spawn) that decides a site
// requires TagNonDeterministic; this registry only names the
// annotation being required, spec §4.G step 7.
const RequiredForTier2 = TagNonDeterministic
