// Package sema implements the type/struct resolver (C2), inheritance and
// layout resolver (C3), function and variable resolver (C4), and expression
// resolver (C5) of solangc spec §4.2-§4.5. It turns the untyped parse tree
// (internal/syntax) into the typed entities carried by internal/ast,
// mutating a shared *ast.Namespace in place and pushing diagnostics instead
// of unwinding (spec §7, §9).
package sema

import (
	"strconv"
	"strings"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/syntax"
	"github.com/solangc/solangc/internal/types"
)

// lookupTypeSymbol implements the name-lookup order spec §4.1 specifies for
// resolve_type: the enclosing contract's own table, then the file's
// top-level table, then each directly-inherited base transitively,
// stopping at the first hit per linearized inheritance order.
func lookupTypeSymbol(ns *ast.Namespace, file, contract int, name string) (ast.Symbol, bool) {
	if contract >= 0 {
		if sym, ok := ns.Symbols[ast.SymKey{File: file, Contract: contract, Name: name}]; ok {
			return sym, true
		}
	}
	if sym, ok := ns.Symbols[ast.SymKey{File: file, Contract: -1, Name: name}]; ok {
		return sym, true
	}
	if contract < 0 {
		return ast.Symbol{}, false
	}
	seen := map[int]bool{}
	var search func(int) (ast.Symbol, bool)
	search = func(c int) (ast.Symbol, bool) {
		if seen[c] {
			return ast.Symbol{}, false
		}
		seen[c] = true
		if sym, ok := ns.Symbols[ast.SymKey{File: file, Contract: c, Name: name}]; ok {
			return sym, true
		}
		for _, base := range ns.Contracts[c].Inherit {
			if sym, ok := search(base); ok {
				return sym, true
			}
		}
		return ast.Symbol{}, false
	}
	for _, base := range ns.Contracts[contract].Inherit {
		if sym, ok := search(base); ok {
			return sym, true
		}
	}
	return ast.Symbol{}, false
}

// ResolveType implements C1's resolve_type operation (spec §4.1): turns a
// syntactic type expression into a types.Type, resolving user-defined names
// through lookupTypeSymbol. On failure it pushes a declaration error (unless
// permitUnresolved is set, used by the declaration pass of C2 where forward
// references are expected to still fail gracefully) and returns the
// Undefined sentinel so callers may continue (spec §7).
func ResolveType(ns *ast.Namespace, file, contract int, permitUnresolved bool, te *syntax.TypeExpr) (types.Type, bool) {
	if te == nil {
		return types.Type{Kind: types.Undefined}, false
	}

	if te.Name == "mapping" {
		key, okK := ResolveType(ns, file, contract, permitUnresolved, te.Key)
		val, okV := ResolveType(ns, file, contract, permitUnresolved, te.Value)
		return types.NewMapping(key, val), okK && okV
	}

	base, ok := resolvePrimitiveOrNamed(ns, file, contract, te)
	if !ok {
		if !permitUnresolved {
			ns.Diagnostics.Errorf(diag.KindDeclaration, ns.Span(file, int(te.Pos)),
				"type %q not found", te.Name)
		}
		return types.Type{Kind: types.Undefined}, false
	}

	result := base
	for i := len(te.Dims) - 1; i >= 0; i-- {
		d := te.Dims[i]
		if d == -1 {
			result = types.NewDynamicArray(result)
			continue
		}
		if d <= 0 {
			ns.Diagnostics.Errorf(diag.KindDeclaration, ns.Span(file, int(te.Pos)),
				"array dimension must be a positive constant, got %d", d)
			return types.Type{Kind: types.Undefined}, false
		}
		result = types.NewFixedArray(result, []int64{d})
	}

	switch te.Storage {
	case "storage":
		result = types.NewStorageRef(result)
	case "memory", "calldata":
		result = types.NewRef(result)
	}
	return result, true
}

func resolvePrimitiveOrNamed(ns *ast.Namespace, file, contract int, te *syntax.TypeExpr) (types.Type, bool) {
	name := te.Name
	switch name {
	case "bool":
		return types.Type{Kind: types.Bool}, true
	case "address", "address payable":
		return types.Type{Kind: types.AddressKind}, true
	case "string":
		return types.Type{Kind: types.StringKind}, true
	case "bytes":
		return types.Type{Kind: types.DynamicBytes}, true
	}
	if strings.HasPrefix(name, "uint") {
		if w, ok := parseWidth(name, "uint"); ok {
			return types.NewUint(w), true
		}
	}
	if strings.HasPrefix(name, "int") {
		if w, ok := parseWidth(name, "int"); ok {
			return types.NewInt(w), true
		}
	}
	if strings.HasPrefix(name, "bytes") {
		if n, err := strconv.Atoi(name[len("bytes"):]); err == nil && n >= 1 && n <= 32 {
			return types.NewFixedBytes(n), true
		}
	}

	sym, ok := lookupTypeSymbol(ns, file, contract, name)
	if !ok {
		return types.Type{}, false
	}
	switch sym.Kind {
	case ast.SymStruct:
		return types.NewStruct(sym.Index), true
	case ast.SymEnum:
		return types.NewEnum(sym.Index), true
	case ast.SymContract:
		return types.NewContract(sym.Index), true
	default:
		return types.Type{}, false
	}
}

// parseWidth parses the numeric suffix of "uint256"/"int8"/etc, defaulting
// to 256 for the bare "uint"/"int" keyword, and validates the [8,256]
// multiple-of-8 invariant of spec §3.
func parseWidth(name, prefix string) (int, bool) {
	suffix := name[len(prefix):]
	if suffix == "" {
		return 256, true
	}
	w, err := strconv.Atoi(suffix)
	if err != nil || w < 8 || w > 256 || w%8 != 0 {
		return 0, false
	}
	return w, true
}
