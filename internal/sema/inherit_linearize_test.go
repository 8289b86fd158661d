package sema

import (
	"testing"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/types"
)

// TestLinearizationOrdersBasesBeforeDerived exercises spec §8's
// linearization-stability property: every base must appear before any
// contract that inherits it, in a diamond shape (D inherits B and C, which
// both inherit A).
func TestLinearizationOrdersBasesBeforeDerived(t *testing.T) {
	ns := ast.NewNamespace(ast.Substrate, 20)
	ns.Contracts = append(ns.Contracts,
		ast.NewContract("A", ast.ContractConcrete, 0, diag.Span{}), // 0
		ast.NewContract("B", ast.ContractConcrete, 0, diag.Span{}), // 1
		ast.NewContract("C", ast.ContractConcrete, 0, diag.Span{}), // 2
		ast.NewContract("D", ast.ContractConcrete, 0, diag.Span{}), // 3
	)
	ns.Contracts[1].Inherit = []int{0}
	ns.Contracts[2].Inherit = []int{0}
	ns.Contracts[3].Inherit = []int{1, 2}

	order := linearize(ns, 3)

	pos := map[int]int{}
	for i, c := range order {
		pos[c] = i
	}
	if pos[0] >= pos[1] || pos[0] >= pos[2] || pos[1] >= pos[3] || pos[2] >= pos[3] {
		t.Fatalf("expected A before B/C before D, got order %v", order)
	}
	seen := map[int]bool{}
	for _, c := range order {
		if seen[c] {
			t.Fatalf("expected each base to appear exactly once, got duplicate of %d in %v", c, order)
		}
		seen[c] = true
	}
}

// TestStorageSlotInjectivity exercises spec §8's storage slot injectivity
// property: within one contract, no two non-constant variables occupy
// overlapping slot ranges.
func TestStorageSlotInjectivity(t *testing.T) {
	ns := ast.NewNamespace(ast.Substrate, 20)
	ns.Contracts = append(ns.Contracts, ast.NewContract("S", ast.ContractConcrete, 0, diag.Span{}))
	ns.Variables = append(ns.Variables,
		ast.Variable{Name: "a", Type: types.NewUint(256)},
		ast.Variable{Name: "b", Type: types.NewUint(256)},
		ast.Variable{Name: "c", Type: types.Type{Kind: types.Bool}, Constant: true},
		ast.Variable{Name: "d", Type: types.NewUint(256)},
	)
	ns.Contracts[0].VariableIndices = []int{0, 1, 2, 3}

	linearizeAndLayout(ns, 0)

	seen := map[int]bool{}
	for _, l := range ns.Contracts[0].Layout {
		width := ns.Variables[l.Var].Type.StorageSlots()
		for s := l.Slot; s < l.Slot+width; s++ {
			if seen[s] {
				t.Fatalf("slot %d occupied by more than one variable", s)
			}
			seen[s] = true
		}
	}
	if len(ns.Contracts[0].Layout) != 3 {
		t.Fatalf("expected the constant variable to be excluded from layout, got %d entries", len(ns.Contracts[0].Layout))
	}
}
