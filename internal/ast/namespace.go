// Package ast carries the compiler's process-local universe (solangc spec
// §3, C1): the Namespace, its Symbol table, and the typed entities
// (Contract, Function, Variable, Struct, Enum, Expression, Statement, CFG)
// that sema (internal/sema) and the CFG lowerer (internal/cfg) populate.
//
// Every cross-entity reference is a plain integer index into one of the
// Namespace's own slices, never a pointer into another entity — see the
// "Cyclic entity graphs" design note in spec §9. This keeps structs that
// embed each other, functions that call across contracts, and contracts
// that inherit other contracts all trivially relocatable.
package ast

import (
	"fmt"

	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/types"
)

// Target identifies which TargetRuntime (spec §4.9) a compilation is for.
type Target int

const (
	Substrate Target = iota
	Ewasm
	Sabre
	Generic
	Solana
)

func (t Target) String() string {
	switch t {
	case Substrate:
		return "substrate"
	case Ewasm:
		return "ewasm"
	case Sabre:
		return "sabre"
	case Generic:
		return "generic"
	case Solana:
		return "solana"
	default:
		return "unknown"
	}
}

// ParseTarget maps a CLI --target string to a Target, per spec §6.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "substrate":
		return Substrate, nil
	case "ewasm":
		return Ewasm, nil
	case "sabre":
		return Sabre, nil
	case "generic":
		return Generic, nil
	case "solana":
		return Solana, nil
	default:
		return Substrate, fmt.Errorf("unknown target %q", s)
	}
}

// FileInfo is per-file source metadata the Namespace keeps so diagnostics
// can render source spans.
type FileInfo struct {
	Path string
	// Lines holds the byte offset each source line starts at, used to turn
	// a byte offset into a (line, column) pair.
	Lines []int
}

// SymKey identifies a symbol-table slot: a name scoped to a file and,
// optionally, a contract within that file (spec §3, Namespace).
type SymKey struct {
	File     int
	Contract int // -1 for file-scope (top-level) symbols
	Name     string
}

// SymbolKind tags which entity list a Symbol's Index refers into.
type SymbolKind int

const (
	SymEnum SymbolKind = iota
	SymStruct
	SymContract
	SymFunction
	SymVariable
)

// FuncRef is one entry of a function symbol's overload set: the location of
// one declaration and its index into Namespace.Functions.
type FuncRef struct {
	Span  diag.Span
	Index int
}

// Symbol is the tagged variant stored in the Namespace's symbol table. Only
// Kind == SymFunction ever populates Funcs with more than one entry — all
// other kinds carry exactly one (Span, Index) via Span/Index directly.
type Symbol struct {
	Kind  SymbolKind
	Span  diag.Span
	Index int       // valid for all kinds except SymFunction
	Funcs []FuncRef // valid only for SymFunction; the overload set
}

// IsPrivate reports whether the symbol denotes a variable or function
// declared private — private members are not inherited (spec §4.1).
func (s Symbol) IsPrivate(ns *Namespace) bool {
	switch s.Kind {
	case SymVariable:
		if s.Index < len(ns.Variables) {
			return ns.Variables[s.Index].Visibility == types.Private
		}
	case SymFunction:
		for _, f := range s.Funcs {
			if f.Index < len(ns.Functions) && ns.Functions[f.Index].Visibility != types.Private {
				return false
			}
		}
		return len(s.Funcs) > 0
	}
	return false
}

// Namespace is the top-level container described in spec §3: every
// contract, struct, enum, symbol, and diagnostic produced by a single
// compilation lives here, addressed by index.
type Namespace struct {
	Target       Target
	AddressWidth int

	Files     []FileInfo
	Contracts []Contract
	Structs   []StructType
	Enums     []EnumType
	Functions []Function
	Variables []Variable

	Symbols map[SymKey]Symbol

	Diagnostics diag.Log
}

// NewNamespace returns an empty Namespace for the given target.
func NewNamespace(target Target, addressWidth int) *Namespace {
	return &Namespace{
		Target:       target,
		AddressWidth: addressWidth,
		Symbols:      make(map[SymKey]Symbol),
	}
}

// AddFile registers a new source file and returns its file index.
func (ns *Namespace) AddFile(path string, lineOffsets []int) int {
	ns.Files = append(ns.Files, FileInfo{Path: path, Lines: lineOffsets})
	return len(ns.Files) - 1
}

// Span converts a file index + byte offset into a printable diag.Span.
func (ns *Namespace) Span(file, offset int) diag.Span {
	if file < 0 || file >= len(ns.Files) {
		return diag.Span{}
	}
	f := ns.Files[file]
	line := 1
	col := offset + 1
	for i, start := range f.Lines {
		if start > offset {
			break
		}
		line = i + 1
		col = offset - start + 1
	}
	return diag.Span{File: f.Path, Line: line, Column: col}
}

// AddSymbol inserts a symbol at key if the slot is free. Function-valued
// symbols accumulate into an overload set instead of colliding (spec §4.1);
// any other collision is an error-with-note pointing at the previous
// definition. The previous definition's visibility is not consulted; keys
// are scoped per contract through `key.Contract`, so only declarations
// under the same key collide.
func (ns *Namespace) AddSymbol(key SymKey, sym Symbol) bool {
	prev, exists := ns.Symbols[key]
	if !exists {
		ns.Symbols[key] = sym
		return true
	}

	if prev.Kind == SymFunction && sym.Kind == SymFunction {
		prev.Funcs = append(prev.Funcs, sym.Funcs...)
		ns.Symbols[key] = prev
		return true
	}

	ns.Diagnostics.ErrorWithNote(diag.KindDeclaration, sym.Span,
		fmt.Sprintf("already defined %q", key.Name),
		prev.Span, fmt.Sprintf("previous definition of %q", key.Name))
	return false
}

// ResolveContract looks up a contract by name within a file.
func (ns *Namespace) ResolveContract(file int, name string) (int, bool) {
	if sym, ok := ns.Symbols[SymKey{File: file, Contract: -1, Name: name}]; ok && sym.Kind == SymContract {
		return sym.Index, true
	}
	return 0, false
}

// ResolveEnum looks up an enum by name, first in the given contract (if
// any), then at file scope.
func (ns *Namespace) ResolveEnum(file, contract int, name string) (int, bool) {
	if contract >= 0 {
		if sym, ok := ns.Symbols[SymKey{File: file, Contract: contract, Name: name}]; ok && sym.Kind == SymEnum {
			return sym.Index, true
		}
	}
	if sym, ok := ns.Symbols[SymKey{File: file, Contract: -1, Name: name}]; ok && sym.Kind == SymEnum {
		return sym.Index, true
	}
	return 0, false
}

// ResolveVar looks up a variable symbol, first in the given contract (if
// any), then at file scope.
func (ns *Namespace) ResolveVar(file, contract int, name string) (int, bool) {
	if contract >= 0 {
		if sym, ok := ns.Symbols[SymKey{File: file, Contract: contract, Name: name}]; ok && sym.Kind == SymVariable {
			return sym.Index, true
		}
	}
	if sym, ok := ns.Symbols[SymKey{File: file, Contract: -1, Name: name}]; ok && sym.Kind == SymVariable {
		return sym.Index, true
	}
	return 0, false
}

// ResolveFunc looks up a function symbol's overload set, searching the
// given contract then its direct bases (transitively, stopping at the
// first hit per the linearized order) then file scope, per spec §4.1.
func (ns *Namespace) ResolveFunc(file, contract int, name string) ([]FuncRef, bool) {
	if contract >= 0 {
		seen := map[int]bool{}
		var search func(int) ([]FuncRef, bool)
		search = func(c int) ([]FuncRef, bool) {
			if seen[c] {
				return nil, false
			}
			seen[c] = true
			if sym, ok := ns.Symbols[SymKey{File: file, Contract: c, Name: name}]; ok && sym.Kind == SymFunction {
				return sym.Funcs, true
			}
			for _, base := range ns.Contracts[c].Inherit {
				if refs, ok := search(base); ok {
					return refs, true
				}
			}
			return nil, false
		}
		if refs, ok := search(contract); ok {
			return refs, true
		}
	}
	if sym, ok := ns.Symbols[SymKey{File: file, Contract: -1, Name: name}]; ok && sym.Kind == SymFunction {
		return sym.Funcs, true
	}
	return nil, false
}

// CheckShadowing emits a Warning if name is already bound in an enclosing
// scope. Shadowing is never an error (spec §4.1).
func (ns *Namespace) CheckShadowing(file, contract int, name string, at diag.Span) {
	if _, ok := ns.ResolveVar(file, contract, name); ok {
		ns.Diagnostics.Warnf(at, "declaration of %q shadows an existing declaration", name)
	}
}
