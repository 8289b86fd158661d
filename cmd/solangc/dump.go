package main

import (
	"fmt"
	"strings"

	"github.com/solangc/solangc/internal/ast"
)

// dumpAST renders spec §3's Namespace entities as plain indented text for
// `--emit ast`. It is a debugging aid, not a stable serialization format.
func dumpAST(ns *ast.Namespace) string {
	var b strings.Builder
	for i, c := range ns.Contracts {
		fmt.Fprintf(&b, "%s %s {\n", c.Kind, c.Name)
		for _, idx := range c.FunctionIndices {
			fn := ns.Functions[idx]
			fmt.Fprintf(&b, "  function %s(%d params) -> %d returns, mutability=%s\n",
				displayName(fn.Name), len(fn.Params), len(fn.Returns), fn.Mutability)
		}
		for _, layout := range c.Layout {
			if layout.Contract != i {
				continue
			}
			fmt.Fprintf(&b, "  slot %d: var#%d\n", layout.Slot, layout.Var)
		}
		b.WriteString("}\n")
	}
	return b.String()
}

// dumpCFG renders every lowered function body as basic blocks for
// `--emit cfg`.
func dumpCFG(ns *ast.Namespace) string {
	var b strings.Builder
	for _, fn := range ns.Functions {
		if fn.CFG == nil {
			continue
		}
		fmt.Fprintf(&b, "function %s:\n", displayName(fn.Name))
		for _, blk := range fn.CFG.Blocks {
			fmt.Fprintf(&b, "  %s:\n", blk.Name)
			for _, instr := range blk.Instrs {
				fmt.Fprintf(&b, "    %v\n", instr.Kind)
			}
			fmt.Fprintf(&b, "    term %v\n", blk.Term.Kind)
		}
	}
	return b.String()
}

func displayName(name string) string {
	if name == "" {
		return "<fallback-or-receive>"
	}
	return name
}
