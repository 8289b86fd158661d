package sema

import (
	"testing"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/types"
)

func auditedFunction(mut types.Mutability, reads, writes bool) *ast.Namespace {
	ns := ast.NewNamespace(ast.Substrate, 20)
	ns.Functions = append(ns.Functions, ast.Function{
		Name:          "f",
		Mutability:    mut,
		CFG:           &ast.CFG{ReadsStorage: reads, WritesStorage: writes},
		ReadsStorage:  reads,
		WritesStorage: writes,
	})
	return ns
}

// TestAuditMutabilityRejectsWritesUnderPureOrView exercises spec §8's
// mutability-soundness property: a write under "pure" or "view" is always
// an error.
func TestAuditMutabilityRejectsWritesUnderPureOrView(t *testing.T) {
	for _, mut := range []types.Mutability{types.Pure, types.View} {
		ns := auditedFunction(mut, false, true)
		AuditMutability(ns)
		if !ns.Diagnostics.AnyErrors() {
			t.Fatalf("expected a write-under-%s diagnostic", mut)
		}
	}
}

func TestAuditMutabilityRejectsReadsUnderPure(t *testing.T) {
	ns := auditedFunction(types.Pure, true, false)
	AuditMutability(ns)
	if !ns.Diagnostics.AnyErrors() {
		t.Fatalf("expected a read-under-pure diagnostic")
	}
}

func TestAuditMutabilityAcceptsReadsUnderView(t *testing.T) {
	ns := auditedFunction(types.View, true, false)
	AuditMutability(ns)
	if ns.Diagnostics.AnyErrors() {
		t.Fatalf("view functions may read storage without error, got: %s", ns.Diagnostics.Render())
	}
}

// TestAuditMutabilitySuggestsStricterDeclaration covers the "a stricter
// mutability is possible" suggestion path for a default-mutability function
// that touches no storage at all.
func TestAuditMutabilitySuggestsStricterDeclaration(t *testing.T) {
	ns := auditedFunction(types.MutabilityDefault, false, false)
	AuditMutability(ns)
	if ns.Diagnostics.AnyErrors() {
		t.Fatalf("a suggestion must be a warning, not an error")
	}
	entries := ns.Diagnostics.Entries()
	if len(entries) != 1 || entries[0].Level.String() != "warning" {
		t.Fatalf("expected exactly one warning suggestion, got %+v", entries)
	}
}

// TestAuditMutabilityNeverSuggestsForPayable ensures a payable function
// (which falls outside the pure/view ladder) is never told it could be
// declared pure or view, even when it touches no storage.
func TestAuditMutabilityNeverSuggestsForPayable(t *testing.T) {
	ns := auditedFunction(types.Payable, false, false)
	AuditMutability(ns)
	if len(ns.Diagnostics.Entries()) != 0 {
		t.Fatalf("expected no diagnostics for a payable function, got: %s", ns.Diagnostics.Render())
	}
}

func TestAuditMutabilitySkipsUnloweredFunctions(t *testing.T) {
	ns := ast.NewNamespace(ast.Substrate, 20)
	ns.Functions = append(ns.Functions, ast.Function{Name: "iface_fn", Mutability: types.Pure})
	AuditMutability(ns)
	if len(ns.Diagnostics.Entries()) != 0 {
		t.Fatalf("a function with no CFG (e.g. an interface declaration) must be skipped")
	}
}
