package cfg

import (
	"math/big"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/types"
)

// emit appends instr to the current block.
func (b *builder) emit(instr ast.Instr) {
	blk := &b.cfg.Blocks[b.cur]
	blk.Instrs = append(blk.Instrs, instr)
}

// lowerExpr rewrites e so that every storage read and side-effecting call
// becomes an explicit instruction in the current block, returning a
// replacement expression that only ever references locals, literals, and
// pure operators (spec §4.6: "storage writes are explicit").
func (b *builder) lowerExpr(e *ast.Expr) *ast.Expr {
	if e == nil {
		return nil
	}
	if isStorageRooted(e) {
		dest := b.cfg.NewLocal("", e.Type, false)
		b.emit(ast.Instr{Kind: ast.ILoadStorage, Type: e.Type, SlotExpr: b.storageSlotExpr(e), Local: dest})
		return &ast.Expr{Kind: ast.EVariable, Span: e.Span, Type: e.Type, VarIndex: dest}
	}

	switch e.Kind {
	case ast.EUnary:
		out := *e
		out.Operand = b.lowerExpr(e.Operand)
		return &out

	case ast.EBinary, ast.ECompare:
		out := *e
		out.Left = b.lowerExpr(e.Left)
		out.Right = b.lowerExpr(e.Right)
		return &out

	case ast.ECast:
		out := *e
		out.Operand = b.lowerExpr(e.Operand)
		return &out

	case ast.ESubscript:
		out := *e
		out.Base = b.lowerExpr(e.Base)
		out.Index = b.lowerExpr(e.Index)
		return &out

	case ast.EStructLiteral, ast.EArrayLiteral:
		out := *e
		out.Elements = b.lowerArgs(e.Elements)
		return &out

	case ast.EKeccak256:
		out := *e
		out.Operand = b.lowerExpr(e.Operand)
		return &out

	case ast.EBuiltinCall:
		return b.lowerBuiltinCall(e)

	case ast.ECall:
		return b.lowerCall(e)

	case ast.EAssign:
		return b.lowerAssign(e)

	default:
		// EIntLiteral, EBoolLiteral, EStringLiteral, EBytesLiteral,
		// EAddressLiteral, EVariable, EAddressOfStorage: already pure values.
		return e
	}
}

func (b *builder) lowerArgs(exprs []ast.Expr) []ast.Expr {
	out := make([]ast.Expr, len(exprs))
	for i := range exprs {
		out[i] = *b.lowerExpr(&exprs[i])
	}
	return out
}

// lowerBuiltinCall lowers args uniformly; `print` additionally emits an
// IPrint instruction since it is the one builtin with an observable side
// effect modeled in the CFG (spec §4.6, target capability `print`).
func (b *builder) lowerBuiltinCall(e *ast.Expr) *ast.Expr {
	args := b.lowerArgs(e.Args)
	if e.Builtin == "print" {
		var msg *ast.Expr
		if len(args) > 0 {
			msg = &args[0]
		}
		b.emit(ast.Instr{Kind: ast.IPrint, PrintExpr: msg})
		return &ast.Expr{Kind: ast.EInvalid, Span: e.Span, Type: types.Type{Kind: types.Undefined}}
	}
	out := *e
	out.Args = args
	return &out
}

// lowerCall emits an explicit ICall instruction for a direct function call
// and replaces the expression with a reference to its (single) return
// value, materialized into a fresh local.
func (b *builder) lowerCall(e *ast.Expr) *ast.Expr {
	args := b.lowerArgs(e.Args)
	instr := ast.Instr{Kind: ast.ICall, FuncIndex: e.FuncIndex, Args: args}
	if e.Type.Kind != types.Undefined {
		dest := b.cfg.NewLocal("", e.Type, false)
		instr.Rets = []int{dest}
		b.emit(instr)
		return &ast.Expr{Kind: ast.EVariable, Span: e.Span, Type: e.Type, VarIndex: dest}
	}
	b.emit(instr)
	return &ast.Expr{Kind: ast.EInvalid, Span: e.Span, Type: types.Type{Kind: types.Undefined}}
}

// lowerAssign implements the Set/SetStorage split spec §4.6 requires:
// assigning to a plain local becomes ISet; assigning to a storage variable
// or a storage-rooted subscript becomes ISetStorage against the variable's
// slot.
func (b *builder) lowerAssign(e *ast.Expr) *ast.Expr {
	var rhs *ast.Expr
	if e.HasCompound {
		cur := b.lowerExpr(e.Left)
		r := b.lowerExpr(e.Right)
		rhs = &ast.Expr{Kind: ast.EBinary, Span: e.Span, Type: e.Type, BinOp: e.BinOp, Signed: e.Signed, Left: cur, Right: r}
	} else {
		rhs = b.lowerExpr(e.Right)
	}
	return b.storeTo(e.Left, rhs)
}

func (b *builder) storeTo(target, value *ast.Expr) *ast.Expr {
	switch target.Kind {
	case ast.EVariable:
		b.emit(ast.Instr{Kind: ast.ISet, Local: target.VarIndex, Expr: value})
		return &ast.Expr{Kind: ast.EVariable, Span: target.Span, Type: target.Type, VarIndex: target.VarIndex}

	case ast.EStorageVariable:
		src := b.materializeLocal(value, target.Type)
		b.emit(ast.Instr{Kind: ast.ISetStorage, Type: target.Type, SlotExpr: b.slotExpr(target), Local: src})
		return &ast.Expr{Kind: ast.EVariable, Span: target.Span, Type: target.Type, VarIndex: src}

	case ast.ESubscript:
		// The base's storage slot is an address to compute, not a value to
		// load, so it is left structurally intact for C8 to resolve (a
		// mapping/array slot is keccak256- or offset-derived, never a plain
		// LoadStorage); only the index is evaluated as a value.
		idx := b.lowerExpr(target.Index)
		src := b.materializeLocal(value, target.Type)
		slot := &ast.Expr{Kind: ast.ESubscript, Span: target.Span, Type: target.Type, Base: target.Base, Index: idx}
		b.emit(ast.Instr{Kind: ast.ISetStorage, Type: target.Type, SlotExpr: slot, Local: src})
		return &ast.Expr{Kind: ast.EVariable, Span: target.Span, Type: target.Type, VarIndex: src}

	default:
		// Sema rejects every other assignment target before lowering runs.
		return value
	}
}

// materializeLocal returns a local index holding value, reusing an
// existing local reference rather than introducing a redundant copy.
func (b *builder) materializeLocal(value *ast.Expr, t types.Type) int {
	if value.Kind == ast.EVariable {
		return value.VarIndex
	}
	dest := b.cfg.NewLocal("", t, false)
	b.emit(ast.Instr{Kind: ast.ISet, Local: dest, Expr: value})
	return dest
}

// slotExpr returns the literal slot-address expression for a storage
// variable reference (spec §4.3 assigns every non-constant state variable a
// fixed slot during inheritance layout).
func (b *builder) slotExpr(e *ast.Expr) *ast.Expr {
	slot := b.ns.Variables[e.VarIndex].Slot
	return &ast.Expr{Kind: ast.EIntLiteral, Span: e.Span, Type: types.NewUint(256), IntVal: big.NewInt(int64(slot))}
}

// isStorageRooted reports whether e is a state variable or a subscript chain rooted at one.
func isStorageRooted(e *ast.Expr) bool {
	for e.Kind == ast.ESubscript && e.Base != nil {
		e = e.Base
	}
	return e.Kind == ast.EStorageVariable
}

// storageSlotExpr returns the slot address of a storage-rooted read; a
// subscript keeps its base intact and lowers only its index, as storeTo does.
func (b *builder) storageSlotExpr(e *ast.Expr) *ast.Expr {
	if e.Kind == ast.EStorageVariable {
		return b.slotExpr(e)
	}
	return &ast.Expr{Kind: ast.ESubscript, Span: e.Span, Type: e.Type, Base: e.Base, Index: b.lowerExpr(e.Index)}
}
