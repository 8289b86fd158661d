package sema

import (
	"fmt"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/types"
)

// ResolveInherit links each contract's direct-base names (from its
// ContractDecl) into Contract.Inherit indices, detects self-inheritance
// cycles and duplicate direct bases, then linearizes and computes storage
// layout (spec §4.3).
func ResolveInherit(ns *ast.Namespace, disc *Discovery) {
	for _, idx := range disc.ContractOrder {
		cd := disc.ContractDecls[idx]
		seenDirect := map[int]bool{}
		for _, baseName := range cd.Inherit {
			baseIdx, ok := ns.ResolveContract(ns.Contracts[idx].File, baseName)
			if !ok {
				ns.Diagnostics.Errorf(diag.KindDeclaration, ns.Contracts[idx].Span,
					"contract %q inherits from unknown contract %q", cd.Name, baseName)
				continue
			}
			if seenDirect[baseIdx] {
				ns.Diagnostics.Errorf(diag.KindDeclaration, ns.Contracts[idx].Span,
					"contract %q lists base %q more than once", cd.Name, baseName)
				continue
			}
			seenDirect[baseIdx] = true
			ns.Contracts[idx].Inherit = append(ns.Contracts[idx].Inherit, baseIdx)
		}
	}

	for _, idx := range disc.ContractOrder {
		if isInTransitiveInheritSet(ns, idx, idx, map[int]bool{}) {
			ns.Diagnostics.Errorf(diag.KindDeclaration, ns.Contracts[idx].Span,
				"contract %q has a circular inheritance chain", ns.Contracts[idx].Name)
			ns.Contracts[idx].Inherit = nil
		}
	}

	for _, idx := range disc.ContractOrder {
		linearizeAndLayout(ns, idx)
	}

	for _, idx := range disc.ContractOrder {
		checkConstructorRules(ns, idx)
	}
}

// isInTransitiveInheritSet reports whether target appears in the
// transitive inherit set reachable from idx — used both to detect
// self-inheritance (root == target) and general cycles.
func isInTransitiveInheritSet(ns *ast.Namespace, root, idx int, seen map[int]bool) bool {
	if seen[idx] {
		return false
	}
	seen[idx] = true
	for _, base := range ns.Contracts[idx].Inherit {
		if base == root {
			return true
		}
		if isInTransitiveInheritSet(ns, root, base, seen) {
			return true
		}
	}
	return false
}

// linearize computes the post-order, de-duplicated, depth-first
// right-to-left linearization of spec §4.3: visit direct bases from right
// to left, post-order, then append the contract itself.
func linearize(ns *ast.Namespace, idx int) []int {
	var order []int
	seen := map[int]bool{}
	var visit func(int)
	visit = func(c int) {
		bases := ns.Contracts[c].Inherit
		for i := len(bases) - 1; i >= 0; i-- {
			visit(bases[i])
		}
		if !seen[c] {
			seen[c] = true
			order = append(order, c)
		}
	}
	visit(idx)
	return order
}

func linearizeAndLayout(ns *ast.Namespace, idx int) {
	order := linearize(ns, idx)

	slot := 0
	for _, c := range order {
		for _, varIdx := range ns.Contracts[c].VariableIndices {
			v := ns.Variables[varIdx]
			if v.Constant {
				continue
			}
			ns.Contracts[idx].Layout = append(ns.Contracts[idx].Layout, ast.Layout{
				Slot: slot, Contract: c, Var: varIdx,
			})
			ns.Variables[varIdx].Slot = slot
			slot += slotsOf(v.Type, ns)
		}
	}

	mergeFunctionTable(ns, idx, order)
}

// mergeFunctionTable implements spec §4.3's function merging & override
// checking over the linearized base order.
func mergeFunctionTable(ns *ast.Namespace, idx int, order []int) {
	pendingOverrides := map[string][]int{} // signature -> contracts supplying a prior definition

	for _, c := range order {
		for _, fnIdx := range ns.Contracts[c].FunctionIndices {
			fn := ns.Functions[fnIdx]
			if fn.Kind == ast.KindConstructor {
				continue // constructors are not part of the dispatch table
			}
			sig := fn.Signature(ns)
			prev, exists := ns.Contracts[idx].FunctionTable[sig]

			switch {
			case !exists:
				ns.Contracts[idx].FunctionTable[sig] = ast.DispatchEntry{Contract: c, Function: fnIdx}

			case c == idx && prev.Contract == idx:
				ns.Diagnostics.Errorf(diag.KindDeclaration, fn.Span,
					"function %q is defined more than once", sig)

			case c == idx:
				// idx itself is overriding an inherited definition.
				resolveOverride(ns, idx, sig, fnIdx, prev, pendingOverrides)
				ns.Contracts[idx].FunctionTable[sig] = ast.DispatchEntry{Contract: c, Function: fnIdx}
				delete(pendingOverrides, sig)

			default:
				// Two sibling bases both define sig and neither has been
				// overridden yet by a descendant: record it as pending.
				pendingOverrides[sig] = append(pendingOverrides[sig], prev.Contract, c)
			}
		}
	}

	for sig, contracts := range pendingOverrides {
		notes := make([]diag.Note, 0, len(contracts))
		for _, c := range contracts {
			if e, ok := ns.Contracts[idx].FunctionTable[sig]; ok {
				notes = append(notes, diag.Note{Span: ns.Functions[e.Function].Span, Message: fmt.Sprintf("conflicting definition in %q", ns.Contracts[c].Name)})
			}
		}
		ns.Diagnostics.ErrorWithNotes(diag.KindDeclaration, ns.Contracts[idx].Span,
			fmt.Sprintf("contract %q inherits conflicting definitions of %q and must provide a unifying override", ns.Contracts[idx].Name, sig),
			notes)
	}
}

func resolveOverride(ns *ast.Namespace, idx int, sig string, newFnIdx int, prev ast.DispatchEntry, pendingOverrides map[string][]int) {
	newFn := &ns.Functions[newFnIdx]
	prevFn := ns.Functions[prev.Function]

	if !newFn.IsOverride {
		ns.Diagnostics.ErrorWithNote(diag.KindDeclaration, newFn.Span,
			fmt.Sprintf("function %q overrides a base definition without an \"override\" specifier", sig),
			prevFn.Span, "base definition here")
		return
	}
	if !prevFn.IsVirtual {
		ns.Diagnostics.ErrorWithNote(diag.KindDeclaration, newFn.Span,
			fmt.Sprintf("function %q overrides functions which are not \"virtual\"", sig),
			prevFn.Span, "not marked virtual here")
	}

	if pending, ok := pendingOverrides[sig]; ok && len(newFn.OverrideList) > 0 {
		want := map[int]bool{}
		for _, c := range pending {
			want[c] = true
		}
		got := map[int]bool{}
		for _, c := range newFn.OverrideList {
			got[c] = true
		}
		for c := range want {
			if !got[c] {
				ns.Diagnostics.Errorf(diag.KindDeclaration, newFn.Span,
					"override list for %q is missing %q", sig, ns.Contracts[c].Name)
			}
		}
		for c := range got {
			if !want[c] {
				ns.Diagnostics.Errorf(diag.KindDeclaration, newFn.Span,
					"override list for %q lists %q which is not overridden", sig, ns.Contracts[c].Name)
			}
		}
	}
}

// checkConstructorRules implements spec §4.3's constructor rules: Ewasm
// permits at most one constructor, Substrate permits zero or more but
// requires agreement on payability; interfaces forbid constructors,
// bodies, and non-external visibility; concrete contracts may not contain
// virtual-without-body functions.
func checkConstructorRules(ns *ast.Namespace, idx int) {
	c := &ns.Contracts[idx]
	var ctors []int
	for _, fnIdx := range c.FunctionIndices {
		fn := ns.Functions[fnIdx]
		if fn.Kind == ast.KindConstructor {
			ctors = append(ctors, fnIdx)
		}
		if c.Kind == ast.ContractInterface {
			if fn.Kind == ast.KindConstructor {
				ns.Diagnostics.Errorf(diag.KindDeclaration, fn.Span, "interfaces cannot have constructors")
			}
			if fn.Body != nil {
				ns.Diagnostics.Errorf(diag.KindDeclaration, fn.Span, "interface function %q cannot have a body", fn.Name)
			}
			if fn.Visibility != types.External {
				ns.Diagnostics.Errorf(diag.KindDeclaration, fn.Span, "interface function %q must be external", fn.Name)
			}
		}
		if c.Kind == ast.ContractConcrete && fn.IsVirtual && fn.Body == nil {
			ns.Diagnostics.Errorf(diag.KindDeclaration, fn.Span,
				"contract %q is not abstract and function %q has no implementation", c.Name, fn.Name)
		}
	}

	switch ns.Target {
	case ast.Ewasm:
		if len(ctors) > 1 {
			ns.Diagnostics.Errorf(diag.KindDeclaration, c.Span, "contract %q may have at most one constructor on this target", c.Name)
		}
	case ast.Substrate:
		if len(ctors) > 1 {
			payable := ns.Functions[ctors[0]].Mutability
			for _, other := range ctors[1:] {
				if ns.Functions[other].Mutability != payable {
					ns.Diagnostics.Errorf(diag.KindDeclaration, ns.Functions[other].Span,
						"all constructors of %q must agree on payability", c.Name)
				}
			}
		}
	}
}
