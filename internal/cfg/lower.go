// Package cfg implements the statement-to-CFG lowerer (solangc spec §4.6,
// C6): it walks a Function's typed statement tree (built by internal/sema)
// and produces the basic-block IR internal/ast.CFG carries, threading
// break/continue targets through nested loops and splitting storage-bound
// assignments into explicit LoadStorage/SetStorage instructions.
package cfg

import (
	"github.com/solangc/solangc/internal/ast"
)

// builder carries the in-progress CFG plus the loop-target stack break/
// continue statements resolve against.
type builder struct {
	ns    *ast.Namespace
	fn    *ast.Function
	cfg   *ast.CFG
	cur   int // index of the current basic block
	loops []loopTargets
}

type loopTargets struct {
	continueBlock int
	breakBlock    int
}

// Lower implements C6: lowers fn.Body into fn.CFG, deriving the
// reads-storage/writes-storage attributes as the disjunction over every
// instruction emitted (spec §4.6).
func Lower(ns *ast.Namespace, fn *ast.Function) *ast.CFG {
	c := &ast.CFG{Locals: append([]ast.LocalVar(nil), fn.Locals...)}
	b := &builder{ns: ns, fn: fn, cfg: c}
	b.cur = c.NewBlock("entry")

	if fn.Body != nil {
		b.lowerStmts(fn.Body)
	}
	b.terminateFallthroughReturn()

	for i := range c.Blocks {
		deriveStorageFlags(c, &c.Blocks[i])
	}
	fn.ReadsStorage = c.ReadsStorage
	fn.WritesStorage = c.WritesStorage
	return c
}

// terminateFallthroughReturn ensures every block that runs off its
// instruction list without an explicit Return is given one implicitly
// (Solidity functions may omit a trailing `return;`).
func (b *builder) terminateFallthroughReturn() {
	blk := &b.cfg.Blocks[b.cur]
	if !blk.Terminated {
		blk.Term = ast.Terminator{Kind: ast.TReturn}
		blk.Terminated = true
	}
}

func deriveStorageFlags(c *ast.CFG, blk *ast.BasicBlock) {
	for _, instr := range blk.Instrs {
		switch instr.Kind {
		case ast.ILoadStorage, ast.IPopStorageBytes:
			c.ReadsStorage = true
		case ast.ISetStorage, ast.IClearStorage, ast.IPushStorageBytes:
			c.WritesStorage = true
		}
	}
	if blk.Term.Kind == ast.TTryCatch && blk.Term.Call != nil {
		switch blk.Term.Call.Kind {
		case ast.IExternalCall, ast.IConstructor:
			c.WritesStorage = true
		}
	}
}
