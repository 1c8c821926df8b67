package analyzer

import (
	"github.com/funxylang/semcore/internal/annotations"
	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/diagnostics"
	"github.com/funxylang/semcore/internal/security"
	"github.com/funxylang/semcore/internal/symbols"
	"github.com/funxylang/semcore/internal/types"
)

// --- shared helpers ----------------------------------------------------

func toTypesVisibility(v ast.Visibility) types.Visibility {
	if v == ast.VisibilityPublic {
		return types.VisibilityPublic
	}
	return types.VisibilityPrivate
}

// declareSymbol inserts entry into scope, reporting DuplicateSymbol on
// a same-scope collision and a shadowing warning when the name is
// already bound in an ancestor scope (spec §4.B "parent shadowing is
// allowed and produces a warning if warnings enabled").
func (a *Analyzer) declareSymbol(scope *symbols.Table, entry *symbols.Entry) bool {
	if scope.ShadowsParent(entry.Name) && a.Config.EnableWarnings {
		a.Engine.ReportWarning(diagnostics.InvalidDeclaration, entry.Location,
			"%q shadows a declaration in an enclosing scope", entry.Name)
	}
	if err := scope.InsertSafe(entry); err != nil {
		a.Engine.ReportError(diagnostics.DuplicateSymbol, entry.Location,
			"%q is already declared in this scope", entry.Name)
		return false
	}
	a.Stats.IncSymbolsResolved()
	if _, seen := a.declLocations[entry.Name]; !seen {
		a.declLocations[entry.Name] = entry.Location
	}
	return true
}

// validateAnnotations runs the annotation engine pipeline over node's
// own annotation list (spec §4.G).
func (a *Analyzer) validateAnnotations(node ast.Node, ctx annotations.Context) map[string]bool {
	return a.validateAnnotationsSite(node, annotations.Site{Context: ctx, Loc: node.Loc()})
}

func (a *Analyzer) validateAnnotationsSite(node ast.Node, site annotations.Site) map[string]bool {
	anns := annotationsOf(node)
	return annotations.Validate(site, anns, a.Engine)
}

func annotationsOf(node ast.Node) []ast.Annotation {
	switch n := node.(type) {
	case *ast.FunctionDecl:
		return n.Annotations
	case *ast.StructDecl:
		return n.Annotations
	case *ast.EnumDecl:
		return n.Annotations
	case *ast.ExternDecl:
		return n.Annotations
	case *ast.MethodDecl:
		return n.Annotations
	case *ast.ConstDecl:
		return n.Annotations
	case *ast.ParamDecl:
		return n.Annotations
	case *ast.FieldDecl:
		return n.Annotations
	case *ast.UnsafeBlockStmt:
		return n.Annotations
	default:
		return nil
	}
}

// --- function-decl (spec §4.I) ------------------------------------------

func (a *Analyzer) registerFunctionHeader(decl *ast.FunctionDecl) {
	a.validateAnnotations(decl, annotations.CtxFunction)

	sigScope := a.Current.EnterScope(symbols.ScopeFunction)
	a.declareTypeParams(sigScope, decl.TypeParams)

	paramTypes := make([]*types.Descriptor, len(decl.Params))
	for i, p := range decl.Params {
		t, _ := a.Resolver.ResolveType(p.Type, sigScope)
		paramTypes[i] = t
		a.validateAnnotationsSite(p, annotations.Site{Context: annotations.CtxParameter, Loc: p.Loc(), ParamType: t, IsParameterPosition: true})
	}
	var retType *types.Descriptor
	if decl.ReturnType != nil {
		retType, _ = a.Resolver.ResolveType(decl.ReturnType, sigScope)
	} else {
		retType = types.CreatePrimitive(types.Void)
	}

	fnType := types.CreateFunction(paramTypes, retType, nil)
	if len(decl.TypeParams) > 0 {
		fnType.SetTypeParams(decl.TypeParams)
	}
	a.fnHeaders[decl.Name] = fnType

	if hasSecurityTag(decl.Annotations, annotations.TagConstantTime) {
		a.constTimeFns[decl.Name] = true
	}

	a.declareSymbol(a.Global, &symbols.Entry{
		Name:           decl.Name,
		Type:           fnType,
		Kind:           symbols.KindFunction,
		Declaration:    decl,
		ScopeID:        a.Global.ID(),
		IsGeneric:      len(decl.TypeParams) > 0,
		TypeParamCount: len(decl.TypeParams),
		Location:       decl.Loc(),
	})
}

func hasSecurityTag(anns []ast.Annotation, name string) bool {
	for _, a := range anns {
		if a.Name == name {
			return true
		}
	}
	return false
}

func (a *Analyzer) declareTypeParams(scope *symbols.Table, names []string) {
	for _, n := range names {
		_ = scope.InsertSafe(&symbols.Entry{
			Name: n,
			Type: types.CreateTypeParam(n),
			Kind: symbols.KindTypeParameter,
		})
	}
}

func (a *Analyzer) analyzeFunctionBody(decl *ast.FunctionDecl) {
	fnType := a.fnHeaders[decl.Name]
	if fnType == nil {
		return
	}

	bodyScope := a.Global.EnterScope(symbols.ScopeFunction)
	a.declareTypeParams(bodyScope, decl.TypeParams)
	for i, p := range decl.Params {
		a.declareSymbol(bodyScope, &symbols.Entry{
			Name:     p.Name,
			Type:     fnType.Params()[i],
			Kind:     symbols.KindParameter,
			Declaration: p,
			Location: p.Loc(),
			Flags:    symbols.Flags{Initialized: true, Mutable: false},
		})
	}

	savedCtx := a.ctx
	a.ctx = analysisContext{CurrentFnName: decl.Name, CurrentReturn: fnType.Return()}
	prevCurrent := a.Current
	a.Current = bodyScope

	if decl.Body != nil {
		if hasSecurityTag(decl.Annotations, annotations.TagConstantTime) {
			for _, stmt := range decl.Body.Statements {
				security.CheckConstantTimeStatement(stmt, a, a.Engine)
			}
		}
		a.analyzeBlockIn(decl.Body, bodyScope)
		a.checkReturnPaths(decl.Body, fnType.Return())
	}

	a.Current = prevCurrent
	a.ctx = savedCtx
}

// IsConstantTime implements security.ConstantTimeCallees: the callee
// must name a function this analyzer has already seen carry the
// constant_time annotation (spec §4.H "trusts the callee annotation").
func (a *Analyzer) IsConstantTime(callee ast.Expression) bool {
	id, ok := callee.(*ast.Identifier)
	if !ok {
		return false
	}
	return a.constTimeFns[id.Name]
}

// checkReturnPaths verifies every control path through body returns a
// value convertible to retType, or retType is void/never (spec §4.I
// "verify every control path returns a value ... or the return is
// never/void").
func (a *Analyzer) checkReturnPaths(body *ast.BlockStmt, retType *types.Descriptor) {
	if isVoidLike(retType) {
		return
	}
	if !blockAlwaysReturns(body) {
		a.Engine.ReportError(diagnostics.InvalidDeclaration, body.Loc(),
			"not all control paths return a value of type %s", retType.String())
	}
}

func isVoidLike(t *types.Descriptor) bool {
	if t == nil || t.Kind() != types.KindPrimitive {
		return false
	}
	return t.PrimitiveKind() == types.Void || t.PrimitiveKind() == types.Never
}

func blockAlwaysReturns(b *ast.BlockStmt) bool {
	for _, s := range b.Statements {
		if stmtAlwaysReturns(s) {
			return true
		}
	}
	return false
}

func stmtAlwaysReturns(s ast.Statement) bool {
	switch n := s.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.BlockStmt:
		return blockAlwaysReturns(n)
	case *ast.IfStmt:
		if n.Else == nil {
			return false
		}
		thenReturns := blockAlwaysReturns(n.Then)
		elseReturns := stmtAlwaysReturns(n.Else)
		return thenReturns && elseReturns
	case *ast.MatchStmt:
		if len(n.Arms) == 0 {
			return false
		}
		for _, arm := range n.Arms {
			if !blockAlwaysReturns(arm.Body) {
				return false
			}
		}
		return true
	case *ast.UnsafeBlockStmt:
		return blockAlwaysReturns(n.Body)
	default:
		return false
	}
}

// --- struct-decl (spec §4.I) --------------------------------------------

func (a *Analyzer) registerStructHeader(decl *ast.StructDecl) {
	a.validateAnnotations(decl, annotations.CtxStruct)

	if entry, exists := a.Global.LookupLocal(decl.Name); exists {
		a.Engine.ReportError(diagnostics.DuplicateSymbol, decl.Loc(),
			"%q is already declared", decl.Name)
		_ = entry
		return
	}
	if err := validateTypeParamNames(decl.TypeParams); err != "" {
		a.Engine.ReportError(diagnostics.InvalidDeclaration, decl.Loc(), "%s", err)
	}

	structType := types.CreateStruct(decl.Name, len(decl.Fields))
	if len(decl.TypeParams) > 0 {
		structType.SetTypeParams(decl.TypeParams)
	}

	fieldScope := a.Global.EnterScope(symbols.ScopeBlock)
	a.declareTypeParams(fieldScope, decl.TypeParams)

	for _, f := range decl.Fields {
		t, ok := a.Resolver.ResolveType(f.Type, fieldScope)
		if !ok {
			t = types.ErrorType()
		}
		if err := structType.AddStructField(&types.FieldEntry{
			Name:        f.Name,
			Type:        t,
			Visibility:  toTypesVisibility(f.Visibility),
			Declaration: f,
		}); err != nil {
			a.Engine.ReportError(diagnostics.DuplicateSymbol, f.Loc(), "%s", err.Error())
		}
	}

	a.declareSymbol(a.Global, &symbols.Entry{
		Name:           decl.Name,
		Type:           structType,
		Kind:           symbols.KindType,
		Declaration:    decl,
		ScopeID:        a.Global.ID(),
		IsGeneric:      len(decl.TypeParams) > 0,
		TypeParamCount: len(decl.TypeParams),
		Location:       decl.Loc(),
	})
}

func validateTypeParamNames(names []string) string {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return "duplicate type parameter " + n
		}
		seen[n] = true
	}
	return ""
}

// --- enum-decl (spec §4.I) ----------------------------------------------

func (a *Analyzer) registerEnumHeader(decl *ast.EnumDecl) {
	a.validateAnnotations(decl, annotations.CtxStruct)

	if err := validateTypeParamNames(decl.TypeParams); err != "" {
		a.Engine.ReportError(diagnostics.InvalidDeclaration, decl.Loc(), "%s", err)
	}

	enumType := types.CreateEnum(decl.Name)
	if len(decl.TypeParams) > 0 {
		enumType.SetTypeParams(decl.TypeParams)
	}

	variantScope := a.Global.EnterScope(symbols.ScopeBlock)
	a.declareTypeParams(variantScope, decl.TypeParams)

	nextDiscriminant := int64(0)
	seenDiscriminants := make(map[int64]bool)
	for _, v := range decl.Variants {
		var payload *types.Descriptor
		if v.PayloadType != nil {
			payload, _ = a.Resolver.ResolveType(v.PayloadType, variantScope)
		}
		discr := nextDiscriminant
		if v.ExplicitDiscriminant != nil {
			discr = *v.ExplicitDiscriminant
			if seenDiscriminants[discr] {
				a.Engine.ReportError(diagnostics.InvalidDeclaration, v.Loc(),
					"duplicate explicit discriminant %d on variant %q", discr, v.Name)
			}
		}
		seenDiscriminants[discr] = true
		nextDiscriminant = discr + 1

		if err := enumType.AddVariant(&types.VariantEntry{Name: v.Name, Payload: payload, Discriminant: discr}); err != nil {
			a.Engine.ReportError(diagnostics.DuplicateSymbol, v.Loc(), "duplicate variant %q", v.Name)
		}
	}

	a.declareSymbol(a.Global, &symbols.Entry{
		Name:           decl.Name,
		Type:           enumType,
		Kind:           symbols.KindType,
		Declaration:    decl,
		ScopeID:        a.Global.ID(),
		IsGeneric:      len(decl.TypeParams) > 0,
		TypeParamCount: len(decl.TypeParams),
		Location:       decl.Loc(),
	})

	for _, variantName := range enumType.VariantNames() {
		qualified := decl.Name + "." + variantName
		a.declareSymbol(a.Global, &symbols.Entry{
			Name:     qualified,
			Type:     enumType,
			Kind:     symbols.KindEnumVariant,
			Location: decl.Loc(),
		})
	}
}

// --- extern-decl (spec §4.I) --------------------------------------------

func (a *Analyzer) registerExternHeader(decl *ast.ExternDecl) {
	sigScope := a.Global.EnterScope(symbols.ScopeFunction)
	paramTypes := make([]*types.Descriptor, len(decl.Params))
	for i, p := range decl.Params {
		t, _ := a.Resolver.ResolveType(p.Type, sigScope)
		paramTypes[i] = t
		a.validateAnnotationsSite(p, annotations.Site{
			Context: annotations.CtxParameter, Loc: p.Loc(), ParamType: t, IsParameterPosition: true,
		})
	}
	var retType *types.Descriptor
	if decl.ReturnType != nil {
		retType, _ = a.Resolver.ResolveType(decl.ReturnType, sigScope)
	} else {
		retType = types.CreatePrimitive(types.Void)
	}
	// An extern declaration's own annotation list doubles as its return
	// type's annotation site (the AST has nowhere else to hang
	// transfer_full/transfer_none on a bare extern signature), so this
	// one Validate call covers both the function-level tags (c_abi) and
	// the return-position FFI tags in a single pass.
	a.validateAnnotationsSite(decl, annotations.Site{
		Context: annotations.CtxFunction | annotations.CtxReturnType, Loc: decl.Loc(),
		ParamType: retType, IsReturnPosition: true,
	})

	fnType := types.CreateFunction(paramTypes, retType, &types.FunctionExternMetadata{
		ExternalName:       decl.Name,
		RequiresMarshaling: true,
	})
	a.declareSymbol(a.Global, &symbols.Entry{
		Name:        decl.Name,
		Type:        fnType,
		Kind:        symbols.KindFunction,
		Declaration: decl,
		ScopeID:     a.Global.ID(),
		Location:    decl.Loc(),
	})
}

// --- impl-block (spec §4.I) ---------------------------------------------

func (a *Analyzer) registerImplHeaders(impl *ast.ImplBlock) {
	target, ok := a.Resolver.ResolveType(impl.TargetType, a.Global)
	if !ok {
		return
	}
	for _, m := range impl.Methods {
		sigScope := a.Global.EnterScope(symbols.ScopeFunction)
		a.declareTypeParams(sigScope, m.TypeParams)
		paramTypes := make([]*types.Descriptor, len(m.Params))
		for i, p := range m.Params {
			if i == 0 && p.Name == "self" {
				paramTypes[i] = target
				continue
			}
			t, _ := a.Resolver.ResolveType(p.Type, sigScope)
			paramTypes[i] = t
		}
		var retType *types.Descriptor
		if m.ReturnType != nil {
			retType, _ = a.Resolver.ResolveType(m.ReturnType, sigScope)
		} else {
			retType = types.CreatePrimitive(types.Void)
		}
		fnType := types.CreateFunction(paramTypes, retType, nil)
		target.AddMethod(m.Name, fnType)
		a.fnHeaders[target.Name()+"."+m.Name] = fnType
	}
}

func (a *Analyzer) analyzeImplBlock(impl *ast.ImplBlock) {
	target, ok := a.Resolver.ResolveType(impl.TargetType, a.Global)
	if !ok {
		return
	}
	for _, m := range impl.Methods {
		a.analyzeMethodBody(target, m)
	}
}

func (a *Analyzer) analyzeMethodBody(target *types.Descriptor, m *ast.MethodDecl) {
	fnType, ok := target.LookupMethod(m.Name)
	if !ok {
		return
	}
	bodyScope := a.Global.EnterScope(symbols.ScopeImplBody)
	a.declareTypeParams(bodyScope, m.TypeParams)
	for i, p := range m.Params {
		a.declareSymbol(bodyScope, &symbols.Entry{
			Name:        p.Name,
			Type:        fnType.Params()[i],
			Kind:        symbols.KindParameter,
			Declaration: p,
			Location:    p.Loc(),
			Flags:       symbols.Flags{Initialized: true},
		})
	}

	savedCtx := a.ctx
	a.ctx = analysisContext{CurrentFnName: m.Name, CurrentReturn: fnType.Return()}
	prevCurrent := a.Current
	a.Current = bodyScope

	if m.Body != nil {
		a.analyzeBlockIn(m.Body, bodyScope)
		a.checkReturnPaths(m.Body, fnType.Return())
	}

	a.Current = prevCurrent
	a.ctx = savedCtx
}

// --- const-decl (spec §4.I) ---------------------------------------------

func (a *Analyzer) registerConstHeader(decl *ast.ConstDecl) {
	if decl.TypeAnnotation == nil {
		a.Engine.ReportError(diagnostics.TypeAnnotationRequired, decl.Loc(),
			"const %q requires an explicit type annotation", decl.Name)
		return
	}
	if _, exists := a.Global.LookupLocal(decl.Name); exists {
		a.Engine.ReportError(diagnostics.DuplicateSymbol, decl.Loc(),
			"%q is already declared", decl.Name)
		return
	}
	declType, _ := a.Resolver.ResolveType(decl.TypeAnnotation, a.Global)
	a.declareSymbol(a.Global, &symbols.Entry{
		Name:        decl.Name,
		Type:        declType,
		Kind:        symbols.KindConst,
		Declaration: decl,
		ScopeID:     a.Global.ID(),
		Location:    decl.Loc(),
		Flags:       symbols.Flags{Initialized: true},
	})
}

func (a *Analyzer) analyzeConstValue(decl *ast.ConstDecl) {
	entry, ok := a.Global.LookupLocal(decl.Name)
	if !ok || decl.Value == nil {
		return
	}
	cv, ok := a.Const.EvaluateConstDecl(decl.Name, decl.Value, a.Global)
	if !ok {
		return
	}
	if !a.Const.ValidateConstTypeCompatibility(entry.Type, cv, decl.Loc()) {
		return
	}
	entry.ConstValue = &cv
}

// --- import-decl (spec §4.I) ---------------------------------------------

func (a *Analyzer) analyzeImport(imp *ast.ImportStatement) {
	for _, existing := range a.imports {
		if existing.Path == imp.Path {
			a.Engine.ReportError(diagnostics.DuplicateSymbol, imp.Loc(),
				"module %q is already imported", imp.Path)
			return
		}
	}
	a.imports = append(a.imports, importRecord{Path: imp.Path, Alias: imp.Alias})

	if imp.Alias == "" {
		return
	}
	table, ok := a.moduleTables[imp.Path]
	if !ok {
		// No real module content is available in this translation
		// unit (module loading is out of scope, spec §1); alias an
		// empty placeholder so `alias.symbol` resolves through
		// ResolveAlias without panicking, surfacing UndefinedSymbol
		// for any lookup through it rather than crashing.
		table = symbols.NewRoot()
	}
	if err := a.Global.AddAlias(imp.Alias, table); err != nil {
		a.Engine.ReportError(diagnostics.DuplicateSymbol, imp.Loc(), "%s", err.Error())
	}
}
