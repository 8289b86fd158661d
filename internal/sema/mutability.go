package sema

import (
	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/types"
)

// AuditMutability implements spec §4.4's state-mutability check, run after
// C6 has lowered every function body and cached its ReadsStorage/
// WritesStorage attributes on the ast.Function (spec §4.10: "mutability
// audit" is its own pipeline phase between C6 and emission). A `pure`
// function that reads or writes storage, or a `view` function that writes
// storage, is an error; a default-mutability function that could be
// declared `pure` or `view` gets a warning suggesting that mutability.
func AuditMutability(ns *ast.Namespace) {
	for i := range ns.Functions {
		fn := &ns.Functions[i]
		if fn.CFG == nil {
			continue
		}
		switch fn.Mutability {
		case types.Pure:
			if fn.WritesStorage {
				ns.Diagnostics.Errorf(diag.KindType, fn.Span,
					"function %q is declared \"pure\" but writes to storage", fn.Name)
			} else if fn.ReadsStorage {
				ns.Diagnostics.Errorf(diag.KindType, fn.Span,
					"function %q is declared \"pure\" but reads from storage", fn.Name)
			}
		case types.View:
			if fn.WritesStorage {
				ns.Diagnostics.Errorf(diag.KindType, fn.Span,
					"function %q is declared \"view\" but writes to storage", fn.Name)
			}
		case types.MutabilityDefault:
			if !fn.ReadsStorage && !fn.WritesStorage {
				ns.Diagnostics.Warnf(fn.Span, "function %q can be declared \"pure\"", fn.Name)
			} else if fn.ReadsStorage && !fn.WritesStorage {
				ns.Diagnostics.Warnf(fn.Span, "function %q can be declared \"view\"", fn.Name)
			}
		}
	}
}
