// Package analyzer implements the semantic analysis core (spec §4.I,
// §4.J): the two-pass top-level driver, declaration analyzers,
// statement/expression analyzers, and the semantic API (spec §6)
// consumed by tooling, code-gen, and the fast-check cache. Directly
// grounded on the teacher's declarations.go / declarations_functions.go
// / declarations_types.go / declarations_imports.go / statements.go /
// expressions.go / inference_decl.go per-node-kind dispatch functions,
// kept in the teacher's one-function-per-node-kind style but rebuilt
// against the spec's simpler (non-HM) type model.
package analyzer

import (
	"github.com/hashicorp/go-hclog"

	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/builtins"
	"github.com/funxylang/semcore/internal/config"
	"github.com/funxylang/semcore/internal/consteval"
	"github.com/funxylang/semcore/internal/diagnostics"
	"github.com/funxylang/semcore/internal/resolver"
	"github.com/funxylang/semcore/internal/symbols"
	"github.com/funxylang/semcore/internal/token"
	"github.com/funxylang/semcore/internal/types"
)

// analysisContext mirrors spec §3 Analyzer state "context" fields
// exactly: in_unsafe, current_function, loop_depth, in_unreachable,
// expected_type.
type analysisContext struct {
	InUnsafe       bool
	CurrentFnName  string
	CurrentReturn  *types.Descriptor
	LoopDepth      int
	InUnreachable  bool
	ExpectedType   *types.Descriptor
}

// importRecord is one entry in the analyzer's import list (spec §4.I
// import-decl).
type importRecord struct {
	Path  string
	Alias string
}

// Analyzer is one translation-unit's semantic analysis run (spec §3
// "Analyzer state"). One Analyzer never shares mutable state with
// another (spec §5); the parallel per-file driver (internal/driver)
// constructs one per file.
type Analyzer struct {
	Config config.AnalyzerConfig
	Logger hclog.Logger

	Engine   *diagnostics.Engine
	Global   *symbols.Table
	Current  *symbols.Table
	Stats    *symbols.Stats
	Resolver *resolver.Resolver
	Const    *consteval.Evaluator

	ctx     analysisContext
	imports []importRecord

	// moduleTables lets a caller (typically internal/driver, running
	// many analyzers over a multi-file program) pre-register another
	// file's global table under its module path, so `import mod as
	// alias` can alias a real table instead of an empty placeholder.
	moduleTables map[string]*symbols.Table

	// fnHeaders maps a declared function/method name to its resolved
	// descriptor, filled during pass 1 so pass 2 can look up
	// recursive/forward references without re-walking signatures
	// (spec §5 Ordering guarantees: "two-pass strategy").
	fnHeaders map[string]*types.Descriptor

	// constTimeFns tracks which function names carry a constant_time
	// annotation, recorded when their headers are registered in pass 1
	// (before any body is checked), trusted by the security sub-analyzer for
	// callee validation (spec §4.H, §9 Open Question on inter-
	// procedural propagation: this is the "trust the callee
	// annotation" shortcut, not a real proof).
	constTimeFns map[string]bool

	// usages records every resolved identifier reference's location,
	// keyed by symbol name, feeding find_symbol_usages/
	// get_symbol_locations (spec §6 navigation helpers).
	usages map[string][]token.SourceLocation

	// declLocations records each top-level/member name's declaration
	// site as it is registered, feeding find_declaration (spec §6).
	declLocations map[string]token.SourceLocation
}

// New builds an Analyzer with a fresh global scope seeded with
// builtins (spec §4.D), ready for AnalyzeProgram.
func New(cfg config.AnalyzerConfig, logger hclog.Logger) *Analyzer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	global := symbols.NewRoot()
	builtins.Seed(global)

	eng := diagnostics.NewEngine(cfg.MaxErrors, cfg.EnableWarnings)
	ev := consteval.New(eng, nil)
	res := resolver.New(eng, ev)
	ev.Resolver = res

	return &Analyzer{
		Config:       cfg,
		Logger:       logger,
		Engine:       eng,
		Global:       global,
		Current:      global,
		Stats:        &symbols.Stats{},
		Resolver:     res,
		Const:        ev,
		moduleTables: make(map[string]*symbols.Table),
		fnHeaders:     make(map[string]*types.Descriptor),
		constTimeFns:  make(map[string]bool),
		usages:        make(map[string][]token.SourceLocation),
		declLocations: make(map[string]token.SourceLocation),
	}
}

// RegisterModule pre-registers another translation unit's global
// table under its module path, so this analyzer's `import ... as`
// aliases can resolve against real content (used by internal/driver).
func (a *Analyzer) RegisterModule(path string, table *symbols.Table) {
	a.moduleTables[path] = table
}

// AnalyzeProgram runs the two-pass strategy spec §5 describes: pass 1
// registers every top-level name and signature without analyzing
// bodies (enabling mutual recursion and out-of-order reference), pass
// 2 analyzes bodies and const values. Returns whether analysis
// succeeded (no error-severity diagnostics).
func (a *Analyzer) AnalyzeProgram(prog *ast.Program) bool {
	a.Logger.Debug("pass 1: registering headers", "file", prog.File)
	for _, imp := range prog.Imports {
		a.analyzeImport(imp)
	}
	for _, stmt := range prog.Statements {
		a.registerHeader(stmt)
		if a.Engine.Aborted() {
			return false
		}
	}

	a.Logger.Debug("pass 2: analyzing bodies", "file", prog.File)
	for _, stmt := range prog.Statements {
		a.analyzeTopLevel(stmt)
		if a.Engine.Aborted() {
			break
		}
	}
	return !a.Engine.HasErrors()
}

// GetErrors returns every accumulated diagnostic (spec §6).
func (a *Analyzer) GetErrors() []*diagnostics.SemanticError {
	return a.Engine.Errors()
}

// registerHeader dispatches pass-1 registration by top-level
// declaration kind.
func (a *Analyzer) registerHeader(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.FunctionDecl:
		a.registerFunctionHeader(s)
	case *ast.StructDecl:
		a.registerStructHeader(s)
	case *ast.EnumDecl:
		a.registerEnumHeader(s)
	case *ast.ExternDecl:
		a.registerExternHeader(s)
	case *ast.ImplBlock:
		// Method headers are added to the target type's method table
		// here in pass 1, so sibling methods can call each other; the
		// method bodies are analyzed in pass 2 by analyzeTopLevel.
		a.registerImplHeaders(s)
	case *ast.ConstDecl:
		a.registerConstHeader(s)
	}
}

func (a *Analyzer) analyzeTopLevel(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.FunctionDecl:
		a.analyzeFunctionBody(s)
	case *ast.StructDecl:
		// Fully handled in pass 1; nothing body-shaped to analyze.
	case *ast.EnumDecl:
		// Likewise.
	case *ast.ExternDecl:
		// No body.
	case *ast.ImplBlock:
		a.analyzeImplBlock(s)
	case *ast.ConstDecl:
		a.analyzeConstValue(s)
	default:
		a.Engine.ReportError(diagnostics.InvalidDeclaration, stmt.Loc(),
			"statement kind is not valid at top level")
	}
}
