package cfg

import (
	"math/big"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/types"
)

// LowerInitializer synthesizes the CFG that runs before a contract's
// constructor: it lowers each state variable's initializer, in layout
// order, into an explicit SetStorage (spec §4.6: "a synthesized function
// lowers each state variable's initializer and emits SetStorage for
// non-constants").
func LowerInitializer(ns *ast.Namespace, contractIdx int) *ast.CFG {
	c := ns.Contracts[contractIdx]
	cfg := &ast.CFG{}
	b := &builder{ns: ns, fn: &ast.Function{Contract: contractIdx}, cfg: cfg}
	b.cur = cfg.NewBlock("init")

	for _, layout := range c.Layout {
		v := ns.Variables[layout.Var]
		if v.Initializer == nil {
			continue
		}
		val := b.lowerExpr(v.Initializer)
		src := b.materializeLocal(val, v.Type)
		slot := &ast.Expr{Kind: ast.EIntLiteral, Type: types.NewUint(256), IntVal: big.NewInt(int64(layout.Slot))}
		b.emit(ast.Instr{Kind: ast.ISetStorage, Type: v.Type, SlotExpr: slot, Local: src})
	}
	b.setTerm(ast.Terminator{Kind: ast.TReturn})

	for i := range cfg.Blocks {
		deriveStorageFlags(cfg, &cfg.Blocks[i])
	}
	return cfg
}

// SynthesizeTrivialConstructor appends a no-argument, empty-bodied
// constructor to a contract that declared none. Substrate permits
// deploying without an explicit constructor; every other target requires
// one, so this is only ever invoked for ast.Substrate (spec §4.3).
func SynthesizeTrivialConstructor(ns *ast.Namespace, contractIdx int) int {
	c := &ns.Contracts[contractIdx]
	fn := ast.Function{
		Name:       c.Name,
		Kind:       ast.KindConstructor,
		File:       c.File,
		Contract:   contractIdx,
		Visibility: types.Public,
	}
	ns.Functions = append(ns.Functions, fn)
	idx := len(ns.Functions) - 1
	c.FunctionIndices = append(c.FunctionIndices, idx)
	c.FunctionTable[fn.Signature(ns)] = ast.DispatchEntry{Contract: contractIdx, Function: idx}
	return idx
}
