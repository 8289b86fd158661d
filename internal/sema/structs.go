package sema

import (
	"fmt"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/syntax"
	"github.com/solangc/solangc/internal/types"
)

// DiscoverDeclarations is C2's declaration pass (spec §4.2): it registers
// every enum, struct, and contract name (file-scope and contract-scoped)
// without resolving any field types, so later declarations may forward
// reference earlier or later ones.
func DiscoverDeclarations(ns *ast.Namespace, file int, f *syntax.File, disc *Discovery) {
	for _, sd := range f.Structs {
		idx := registerStruct(ns, file, -1, sd)
		disc.StructDecls[idx] = sd
	}
	for _, ed := range f.Enums {
		registerEnum(ns, file, -1, ed)
	}
	for _, cd := range f.Contracts {
		idx := registerContract(ns, file, cd, disc)
		disc.ContractDecls[idx] = cd
		disc.ContractOrder = append(disc.ContractOrder, idx)
	}
}

func registerStruct(ns *ast.Namespace, file, contract int, sd syntax.StructDecl) int {
	span := ns.Span(file, int(sd.Pos))
	st := ast.StructType{Name: sd.Name, File: file, ContractIndex: contract, Span: span}
	ns.Structs = append(ns.Structs, st)
	idx := len(ns.Structs) - 1
	ns.AddSymbol(ast.SymKey{File: file, Contract: contract, Name: sd.Name},
		ast.Symbol{Kind: ast.SymStruct, Span: span, Index: idx})
	return idx
}

func registerEnum(ns *ast.Namespace, file, contract int, ed syntax.EnumDecl) int {
	span := ns.Span(file, int(ed.Pos))
	width := ast.EnumWidth(len(ed.Variants))
	if len(ed.Variants) == 0 {
		ns.Diagnostics.Errorf(diag.KindDeclaration, span, "enum %q has no variants", ed.Name)
	}
	e := ast.EnumType{Name: ed.Name, File: file, ContractIndex: contract, Span: span, Variants: ed.Variants, Width: width}
	ns.Enums = append(ns.Enums, e)
	idx := len(ns.Enums) - 1
	ns.AddSymbol(ast.SymKey{File: file, Contract: contract, Name: ed.Name},
		ast.Symbol{Kind: ast.SymEnum, Span: span, Index: idx})
	return idx
}

func registerContract(ns *ast.Namespace, file int, cd syntax.ContractDecl, disc *Discovery) int {
	span := ns.Span(file, int(cd.Pos))
	kind := ast.ContractConcrete
	switch cd.Kind {
	case syntax.KindAbstract:
		kind = ast.ContractAbstract
	case syntax.KindInterface:
		kind = ast.ContractInterface
	case syntax.KindLibrary:
		kind = ast.ContractLibrary
	}
	c := ast.NewContract(cd.Name, kind, file, span)
	ns.Contracts = append(ns.Contracts, c)
	idx := len(ns.Contracts) - 1
	ns.AddSymbol(ast.SymKey{File: file, Contract: -1, Name: cd.Name},
		ast.Symbol{Kind: ast.SymContract, Span: span, Index: idx})

	for _, sd := range cd.Structs {
		si := registerStruct(ns, file, idx, sd)
		ns.Contracts[idx].StructIndices = append(ns.Contracts[idx].StructIndices, si)
		disc.StructDecls[si] = sd
	}
	for _, ed := range cd.Enums {
		ei := registerEnum(ns, file, idx, ed)
		ns.Contracts[idx].EnumIndices = append(ns.Contracts[idx].EnumIndices, ei)
	}
	return idx
}

// ResolveStructFields is C2's field-resolution pass (spec §4.2): walks
// every registered struct and resolves its field types, rejecting
// duplicate field names and storage-location modifiers on fields.
func ResolveStructFields(ns *ast.Namespace, disc *Discovery) {
	for idx := range ns.Structs {
		sd, ok := disc.StructDecls[idx]
		if !ok {
			continue
		}
		st := &ns.Structs[idx]
		seen := map[string]bool{}
		for _, fieldDecl := range sd.Fields {
			if fieldDecl.Type.Storage != "" {
				ns.Diagnostics.Errorf(diag.KindDeclaration, ns.Span(st.File, int(fieldDecl.Pos)),
					"storage location modifier not allowed on struct field %q", fieldDecl.Name)
			}
			if seen[fieldDecl.Name] {
				ns.Diagnostics.Errorf(diag.KindDeclaration, ns.Span(st.File, int(fieldDecl.Pos)),
					"struct %q already has a field named %q", st.Name, fieldDecl.Name)
				continue
			}
			seen[fieldDecl.Name] = true
			ty, _ := ResolveType(ns, st.File, st.ContractIndex, false, fieldDecl.Type)
			st.Fields = append(st.Fields, ast.StructField{
				Name: fieldDecl.Name,
				Type: ty,
				Span: ns.Span(st.File, int(fieldDecl.Pos)),
			})
		}
	}
}

// CheckStructRecursion implements spec §4.2's recursion check: a
// depth-first traversal of every struct-typed field. Revisiting a struct
// along the current path is "infinite size"; revisiting it via a different,
// non-overlapping path (DAG-shaped embedding) is allowed.
func CheckStructRecursion(ns *ast.Namespace) {
	for idx := range ns.Structs {
		path := map[int]bool{idx: true}
		checkStructRecursionFrom(ns, idx, idx, path)
	}
}

func checkStructRecursionFrom(ns *ast.Namespace, root, idx int, path map[int]bool) {
	st := ns.Structs[idx]
	for _, f := range st.Fields {
		if f.Type.Kind != types.Struct {
			continue
		}
		child := f.Type.Index
		if child == root {
			ns.Diagnostics.ErrorWithNote(diag.KindDeclaration, st.Span,
				fmt.Sprintf("struct %q has infinite size", ns.Structs[root].Name),
				f.Span, fmt.Sprintf("recursive field %q", f.Name))
			continue
		}
		if path[child] {
			continue // revisiting a non-root struct along this path: not infinite for root, still reported when child is processed as its own root
		}
		path[child] = true
		checkStructRecursionFrom(ns, root, child, path)
		delete(path, child)
	}
}
