package symbols

import (
	"fmt"

	"constlit/internal/ast"
	"constlit/internal/diag"
	"constlit/internal/source"
)

// ResolveOptions controls a resolve pass for a single AST file.
type ResolveOptions struct {
	Table    *Table
	Hints    Hints
	Prelude  []string
	Reporter diag.Reporter
	Validate bool
}

// Result captures resolve artefacts for one file.
type Result struct {
	Table     *Table
	File      ast.FileID
	FileScope ScopeID
	// Chains holds the scope chain of every expression, indexed by ExprID.
	Chains []ChainRef
	// LiteralScopes maps function literals to the scope of their parameters.
	LiteralScopes map[ast.ExprID]ScopeID
	// ConstLiterals lists `const` function literals, outer before nested.
	ConstLiterals []ast.ExprID
	ItemSymbols   map[ast.ItemID]SymbolID
	MemberSymbols map[ast.MemberID]SymbolID
	StmtSymbols   map[ast.StmtID]SymbolID
	ParamSymbols  map[ast.ParamID]SymbolID
}

// ChainOf returns the scope chain recorded for an expression.
func (r *Result) ChainOf(id ast.ExprID) ChainRef {
	if r == nil || int(id) >= len(r.Chains) {
		return ChainRef{}
	}
	return r.Chains[id]
}

// ResolveFile walks the AST file, populates the symbol table and records the
// scope chain of every expression.
func ResolveFile(builder *ast.Builder, fileID ast.FileID, opts ResolveOptions) Result {
	table := opts.Table
	if table == nil {
		table = NewTable(opts.Hints, builder.StringsInterner)
	}

	result := Result{
		Table:         table,
		File:          fileID,
		Chains:        make([]ChainRef, builder.Exprs.Len()+1),
		LiteralScopes: make(map[ast.ExprID]ScopeID),
		ItemSymbols:   make(map[ast.ItemID]SymbolID),
		MemberSymbols: make(map[ast.MemberID]SymbolID),
		StmtSymbols:   make(map[ast.StmtID]SymbolID),
		ParamSymbols:  make(map[ast.ParamID]SymbolID),
	}

	file := builder.Files.Get(fileID)
	if file == nil {
		return result
	}

	table.EnsurePrelude(opts.Prelude)
	sourceFile := file.Span.File
	fileScope := table.LibraryRoot(fileID, sourceFile, file.Span)
	result.FileScope = fileScope

	fr := fileResolver{
		builder:    builder,
		table:      table,
		result:     &result,
		resolver:   NewResolver(table, fileScope, ResolverOptions{Reporter: opts.Reporter}),
		reporter:   opts.Reporter,
		fileID:     fileID,
		sourceFile: sourceFile,
	}
	for _, itemID := range file.Items {
		fr.declareItem(itemID)
	}
	fr.linkSuperclasses(file.Items)
	for _, itemID := range file.Items {
		fr.walkItem(itemID)
	}
	fr.evaluateConstness()

	if opts.Validate {
		if err := table.Validate(); err != nil {
			if opts.Reporter != nil {
				msg := fmt.Sprintf("symbol table invariant violation: %v", err)
				diag.ReportError(opts.Reporter, diag.SemaError, file.Span, msg).Emit()
			} else {
				panic(err)
			}
		}
	}

	return result
}

type fileResolver struct {
	builder    *ast.Builder
	table      *Table
	result     *Result
	resolver   *Resolver
	reporter   diag.Reporter
	fileID     ast.FileID
	sourceFile source.FileID
}

func (fr *fileResolver) decl() SymbolDecl {
	return SymbolDecl{SourceFile: fr.sourceFile, ASTFile: fr.fileID}
}

func modifierFlags(mod ast.VarModifier) SymbolFlags {
	switch mod {
	case ast.VarConst:
		return SymbolFlagDeclaredConst | SymbolFlagFinal
	case ast.VarFinal:
		return SymbolFlagFinal
	default:
		return 0
	}
}

// declareItem predeclares a top-level name; class members are predeclared
// into a class scope created right away so that superclass links and
// forward references work regardless of order.
func (fr *fileResolver) declareItem(id ast.ItemID) {
	item := fr.builder.Items.Get(id)
	if item == nil || item.Name == source.NoStringID {
		return
	}
	decl := fr.decl()
	decl.Item = id
	span := preferSpan(item.NameSpan, item.Span)

	switch item.Kind {
	case ast.ItemVar:
		v, ok := fr.builder.Items.Var(id)
		if !ok {
			return
		}
		decl.Init = v.Value
		if symID, ok := fr.resolver.Declare(item.Name, span, SymbolTopLevelVariable, SymbolFlagHoisted|modifierFlags(v.Modifier), decl); ok {
			fr.result.ItemSymbols[id] = symID
		}
	case ast.ItemFn:
		if symID, ok := fr.resolver.Declare(item.Name, span, SymbolTopLevelFunction, SymbolFlagHoisted|SymbolFlagConstant, decl); ok {
			fr.result.ItemSymbols[id] = symID
		}
	case ast.ItemClass:
		cls, ok := fr.builder.Items.Class(id)
		if !ok {
			return
		}
		symID, ok := fr.resolver.Declare(item.Name, span, SymbolClass, SymbolFlagHoisted|SymbolFlagConstant, decl)
		if !ok {
			return
		}
		fr.result.ItemSymbols[id] = symID
		scope := fr.table.Scopes.New(ScopeClass, fr.result.FileScope, ScopeOwner{
			Kind:       ScopeOwnerItem,
			SourceFile: fr.sourceFile,
			ASTFile:    fr.fileID,
			Item:       id,
		}, item.Span)
		fr.table.registerClass(&ClassInfo{
			Item:      id,
			Symbol:    symID,
			Scope:     scope,
			Super:     cls.Super,
			SuperSpan: cls.SuperSpan,
		})
		for _, memberID := range cls.Members {
			fr.declareMember(scope, memberID)
		}
	}
}

func (fr *fileResolver) declareMember(scope ScopeID, id ast.MemberID) {
	member := fr.builder.Items.Member(id)
	if member == nil || member.Name == source.NoStringID {
		return
	}
	decl := fr.decl()
	decl.Member = id
	flags := SymbolFlagHoisted
	var kind SymbolKind
	switch member.Kind {
	case ast.MemberField:
		kind = SymbolInstanceField
		if member.Static {
			kind = SymbolStaticField
		}
		decl.Init = member.Value
		flags |= modifierFlags(member.Modifier)
	case ast.MemberMethod:
		kind = SymbolInstanceMethod
		if member.Static {
			kind = SymbolStaticMethod
			flags |= SymbolFlagConstant
		}
	default:
		// constructors are reached through the class name only
		return
	}
	if symID, ok := fr.resolver.DeclareIn(scope, member.Name, preferSpan(member.NameSpan, member.Span), kind, flags, decl); ok {
		fr.result.MemberSymbols[id] = symID
	}
}

// linkSuperclasses resolves `extends` clauses against the library scope and
// cuts inheritance cycles.
func (fr *fileResolver) linkSuperclasses(items []ast.ItemID) {
	var classes []*ClassInfo
	for _, itemID := range items {
		symID, ok := fr.result.ItemSymbols[itemID]
		if !ok {
			continue
		}
		info := fr.table.ClassOf(symID)
		if info == nil {
			continue
		}
		classes = append(classes, info)
		if info.Super == source.NoStringID {
			continue
		}
		superID, status := fr.table.LookupFrom(ChainRef{Scope: fr.result.FileScope}, info.Super)
		superName := fr.table.Name(info.Super)
		if status != LookupFound {
			msg := fmt.Sprintf("unknown superclass '%s'", superName)
			diag.ReportError(fr.reporter, diag.SemaUnresolvedSymbol, info.SuperSpan, msg).Emit()
			continue
		}
		superSym := fr.table.Symbols.Get(superID)
		switch superSym.Kind {
		case SymbolClass:
			if superInfo := fr.table.ClassOf(superID); superInfo != nil {
				info.SuperScope = superInfo.Scope
			}
		case SymbolBuiltin:
			// built-in classes contribute no members
		default:
			msg := fmt.Sprintf("'%s' is a %s, not a class", superName, superSym.Kind)
			diag.ReportError(fr.reporter, diag.SemaError, info.SuperSpan, msg).
				WithNote(superSym.Span, "declared here").
				Emit()
		}
	}

	for _, info := range classes {
		seen := map[ScopeID]bool{info.Scope: true}
		for super := info.SuperScope; super.IsValid(); {
			if seen[super] {
				if super == info.Scope {
					fr.reportClassCycle(info)
					info.SuperScope = NoScopeID
				}
				break
			}
			seen[super] = true
			next := fr.table.Class(super)
			if next == nil {
				break
			}
			super = next.SuperScope
		}
	}
}

func (fr *fileResolver) reportClassCycle(info *ClassInfo) {
	name := ""
	if sym := fr.table.Symbols.Get(info.Symbol); sym != nil {
		name = fr.table.Name(sym.Name)
	}
	msg := fmt.Sprintf("class '%s' inherits from itself", name)
	diag.ReportError(fr.reporter, diag.SemaClassCycle, info.SuperSpan, msg).Emit()
}

func preferSpan(primary, fallback source.Span) source.Span {
	if primary != (source.Span{}) {
		return primary
	}
	return fallback
}
