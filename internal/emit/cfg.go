package emit

import (
	"fmt"
	"strconv"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/target"
	"github.com/solangc/solangc/internal/types"
)

// funcEmitter walks one CFG and writes its instructions into w, maintaining
// the mapping from CFG block index to an emitted label and from CFG-local
// index to the stack slot backing it (spec §4.8: "CFG walking maintains a
// mapping from CFG-local indices to LLVM SSA values and from CFG blocks to
// LLVM basic blocks").
type funcEmitter struct {
	ns          *ast.Namespace
	rt          target.TargetRuntime
	contractIdx int
	cfg         *ast.CFG
	fn          *ast.Function // nil when emitting a contract initializer
	w           *target.Writer
}

func (f *funcEmitter) blockLabel(idx int) string {
	return fmt.Sprintf("bb%d.%s", idx, f.cfg.Blocks[idx].Name)
}

func (f *funcEmitter) localSlot(idx int) target.Value {
	return target.Value(fmt.Sprintf("%%local.%d", idx))
}

// emit walks every basic block in order, emitting its label, instructions,
// and terminator.
func (f *funcEmitter) emit() {
	for i, local := range f.cfg.Locals {
		f.w.Line("%%local.%d = alloca %s ; %s", i, irType(local.Type), local.Name)
	}
	if len(f.cfg.Blocks) > 0 {
		f.w.Line("br label %%%s", f.blockLabel(0))
	}
	for i := range f.cfg.Blocks {
		f.w.Raw(f.blockLabel(i) + ":\n")
		blk := &f.cfg.Blocks[i]
		for j := range blk.Instrs {
			f.emitInstr(&blk.Instrs[j])
		}
		f.emitTerm(&blk.Term)
	}
}

func irType(t types.Type) string {
	switch t.Kind {
	case types.Bool:
		return "i1"
	case types.Uint, types.Int:
		return fmt.Sprintf("i%d", t.Width)
	case types.AddressKind, types.Contract:
		return "i160"
	case types.FixedBytes:
		return fmt.Sprintf("i%d", t.Width)
	default:
		return "i8*"
	}
}

func (f *funcEmitter) emitInstr(instr *ast.Instr) {
	switch instr.Kind {
	case ast.ISet:
		v := f.emitExpr(instr.Expr)
		f.w.Line("store %s, %s", v, f.localSlot(instr.Local))

	case ast.ISetStorage:
		slot := f.emitExpr(instr.SlotExpr)
		v := f.w.Assign("load %s, %s", irType(instr.Type), f.localSlot(instr.Local))
		if isDynamicType(instr.Type) {
			ptr, length := f.dynamicParts(v)
			f.rt.SetStorageString(f.w, slot, ptr, length)
		} else {
			f.rt.SetStorageInt(f.w, slot, instr.Type.Width, v)
		}

	case ast.ILoadStorage:
		slot := f.emitExpr(instr.SlotExpr)
		var v target.Value
		if isDynamicType(instr.Type) {
			ptr, _ := f.rt.GetStorageString(f.w, slot)
			v = ptr
		} else {
			v = f.rt.GetStorageInt(f.w, slot, instr.Type.Width)
		}
		f.w.Line("store %s, %s", v, f.localSlot(instr.Local))

	case ast.IClearStorage:
		slot := f.emitExpr(instr.SlotExpr)
		f.rt.ClearStorage(f.w, slot)

	case ast.IPushStorageBytes:
		slot := f.emitExpr(instr.SlotExpr)
		v := f.emitExpr(instr.Expr)
		f.rt.StorageBytesPush(f.w, slot, v)

	case ast.IPopStorageBytes:
		slot := f.emitExpr(instr.SlotExpr)
		v := f.rt.StorageBytesPop(f.w, slot)
		f.w.Line("store %s, %s", v, f.localSlot(instr.Local))

	case ast.ICall:
		f.emitCall(instr, false)

	case ast.IExternalCall:
		f.emitCall(instr, true)

	case ast.IConstructor:
		args := make([]target.Value, len(instr.Args))
		for i := range instr.Args {
			args[i] = f.emitExpr(&instr.Args[i])
		}
		var salt, value *target.Value
		if instr.Salt != nil {
			s := f.emitExpr(instr.Salt)
			salt = &s
		}
		if instr.Value != nil {
			v := f.emitExpr(instr.Value)
			value = &v
		}
		name := ""
		if instr.NewContract >= 0 && instr.NewContract < len(f.ns.Contracts) {
			name = f.ns.Contracts[instr.NewContract].Name
		}
		addr := f.rt.CreateContract(f.w, name, args, salt, value)
		for _, dest := range instr.ReturnLocals {
			f.w.Line("store %s, %s", addr, f.localSlot(dest))
		}

	case ast.IAssertFailure:
		var msg *target.Value
		if instr.Message != nil {
			m := f.emitExpr(instr.Message)
			msg = &m
		}
		f.rt.AssertFailure(f.w, msg)

	case ast.IPrint:
		v := f.emitExpr(instr.PrintExpr)
		ptr, length := f.dynamicParts(v)
		f.rt.Print(f.w, ptr, length)
	}
}

func (f *funcEmitter) emitCall(instr *ast.Instr, external bool) {
	args := make([]target.Value, len(instr.Args))
	for i := range instr.Args {
		args[i] = f.emitExpr(&instr.Args[i])
	}
	if !external {
		callee := fmt.Sprintf("@contract.%d.fn.%d", f.contractIdx, instr.FuncIndex)
		res := f.w.Assign("call %s(%v)", callee, args)
		for _, dest := range instr.Rets {
			f.w.Line("store %s, %s", res, f.localSlot(dest))
		}
		return
	}

	// try/catch lowers its tried call with only FuncIndex/Args populated
	// (internal/cfg's lowerTry never learns a concrete Address/Payload);
	// fall back to a synthesized callee address in that shape.
	address := target.Value(fmt.Sprintf("i160 @contract.%d.fn.%d", f.contractIdx, instr.FuncIndex))
	if instr.Address != nil {
		address = f.emitExpr(instr.Address)
	}
	payload := f.w.Assign("call @abi.encode.args(%v)", args)
	if instr.Payload != nil {
		payload = f.emitExpr(instr.Payload)
	}
	length := f.w.Assign("call @strlen(%s)", payload)
	var value, gas target.Value = target.Value("i128 0"), target.Value("i64 0")
	if instr.Value != nil {
		value = f.emitExpr(instr.Value)
	}
	if instr.Gas != nil {
		gas = f.emitExpr(instr.Gas)
	}
	status := f.rt.ExternalCall(f.w, address, payload, length, value, gas)
	for _, dest := range instr.ReturnLocals {
		f.w.Line("store %s, %s", status, f.localSlot(dest))
	}
}

// dynamicParts splits a Value standing for a dynamic byte buffer into its
// (ptr, len) halves. Since this textual IR never actually allocates real
// memory, both halves are derived deterministically from v itself.
func (f *funcEmitter) dynamicParts(v target.Value) (target.Value, target.Value) {
	ptr := f.w.Assign("call @bytes.ptr(%s)", v)
	length := f.w.Assign("call @bytes.len(%s)", v)
	return ptr, length
}

func isDynamicType(t types.Type) bool {
	switch t.Kind {
	case types.DynamicBytes, types.StringKind, types.DynamicArray, types.Mapping:
		return true
	default:
		return false
	}
}

func (f *funcEmitter) emitTerm(t *ast.Terminator) {
	switch t.Kind {
	case ast.TReturn:
		if len(t.Values) == 0 {
			f.rt.ReturnEmptyABI(f.w)
			return
		}
		vals := make([]target.Value, len(t.Values))
		specs := make([]target.AbiSpec, len(t.Values))
		for i := range t.Values {
			vals[i] = f.emitExpr(&t.Values[i])
			specs[i] = abiSpecOf(t.Values[i].Type, f.ns)
		}
		ptr, length := f.rt.ABIEncode(f.w, nil, vals, specs)
		f.rt.ReturnABI(f.w, ptr, length)

	case ast.TBranch:
		f.w.Line("br label %%%s", f.blockLabel(t.Target))

	case ast.TBranchCond:
		cond := f.emitExpr(t.Cond)
		f.w.Line("br i1 %s label %%%s label %%%s", cond, f.blockLabel(t.TrueBlock), f.blockLabel(t.FalseBlock))

	case ast.TTryCatch:
		f.emitInstr(t.Call)
		status := target.Value("%calltry.status")
		f.w.Line("%s = call @lastcall.status()", status)
		failLabel := f.blockLabel(t.SuccessBlock)
		if t.CatchError != nil {
			failLabel = f.blockLabel(t.CatchError.Block)
		} else if t.CatchBytes != nil {
			failLabel = f.blockLabel(t.CatchBytes.Block)
		}
		f.w.Line("br i1 (eq %s, i32 0) label %%%s label %%%s", status, f.blockLabel(t.SuccessBlock), failLabel)
		if t.CatchError != nil {
			reasonPtr, _ := f.rt.ReturnData(f.w)
			f.w.Line("store %s, %s ; catch Error(string) reason", reasonPtr, f.localSlot(t.CatchError.ParamLocal))
		}
		if t.CatchBytes != nil {
			dataPtr, _ := f.rt.ReturnData(f.w)
			f.w.Line("store %s, %s ; catch (bytes) data", dataPtr, f.localSlot(t.CatchBytes.ParamLocal))
		}
	}
}

func abiSpecOf(t types.Type, ns *ast.Namespace) target.AbiSpec {
	dyn := isDynamicType(t)
	size := t.StorageSlots() * 32
	return target.AbiSpec{ABIType: ast.ABIType(t, ns), Dynamic: dyn, ByteSize: size}
}

// emitExpr lowers one typed expression into the textual IR, returning the
// Value holding its result.
func (f *funcEmitter) emitExpr(e *ast.Expr) target.Value {
	if e == nil {
		return target.Value("i32 0")
	}
	switch e.Kind {
	case ast.EIntLiteral:
		return target.Value(fmt.Sprintf("%s %s", irType(e.Type), e.IntVal.String()))

	case ast.EBoolLiteral:
		if e.BoolVal {
			return target.Value("i1 1")
		}
		return target.Value("i1 0")

	case ast.EStringLiteral:
		return f.w.Assign("call @string.const(%s)", strconv.Quote(e.StrVal))

	case ast.EBytesLiteral:
		return f.w.Assign("call @bytes.const(i32 %d)", len(e.BytesVal))

	case ast.EAddressLiteral:
		return target.Value(fmt.Sprintf("i160 0x%x", e.AddrVal.Bytes()))

	case ast.EVariable:
		return f.w.Assign("load %s, %s", irType(e.Type), f.localSlot(e.VarIndex))

	case ast.EStorageVariable:
		v := f.ns.Variables[e.VarIndex]
		slot := target.Value(fmt.Sprintf("i32 %d", v.Slot))
		if isDynamicType(v.Type) {
			ptr, _ := f.rt.GetStorageString(f.w, slot)
			return ptr
		}
		return f.rt.GetStorageInt(f.w, slot, v.Type.Width)

	case ast.EUnary:
		op := f.emitExpr(e.Operand)
		switch e.UnaryOp {
		case ast.UNeg:
			return f.w.Assign("sub %s 0, %s", irType(e.Type), op)
		case ast.UBitNot:
			return f.w.Assign("xor %s -1, %s", irType(e.Type), op)
		default:
			return f.w.Assign("xor i1 1, %s", op)
		}

	case ast.EBinary:
		l := f.emitExpr(e.Left)
		r := f.emitExpr(e.Right)
		return f.w.Assign("%s %s, %s ; signed=%v", binOpName(e.BinOp, e.Signed), l, r, e.Signed)

	case ast.ECompare:
		l := f.emitExpr(e.Left)
		r := f.emitExpr(e.Right)
		return f.w.Assign("icmp %s %s, %s", cmpOpName(e.CompareOp), l, r)

	case ast.ECast:
		v := f.emitExpr(e.Operand)
		kind := "cast"
		if e.Checked {
			kind = "checked_cast"
		}
		return f.w.Assign("%s %s to %s", kind, v, irType(e.Type))

	case ast.ESubscript:
		base := f.emitExpr(e.Base)
		idx := f.emitExpr(e.Index)
		return f.w.Assign("getelementptr %s, %s", base, idx)

	case ast.EStructLiteral:
		vals := make([]target.Value, len(e.Elements))
		for i := range e.Elements {
			vals[i] = f.emitExpr(&e.Elements[i])
		}
		return f.w.Assign("call @struct.new(i32 %d, %v)", e.StructIndex, vals)

	case ast.EArrayLiteral:
		vals := make([]target.Value, len(e.Elements))
		for i := range e.Elements {
			vals[i] = f.emitExpr(&e.Elements[i])
		}
		return f.w.Assign("call @array.new(%v)", vals)

	case ast.ECall:
		args := make([]target.Value, len(e.Args))
		for i := range e.Args {
			args[i] = f.emitExpr(&e.Args[i])
		}
		return f.w.Assign("call @contract.%d.fn.%d(%v)", e.FuncContract, e.FuncIndex, args)

	case ast.EBuiltinCall:
		args := make([]target.Value, len(e.Args))
		for i := range e.Args {
			args[i] = f.emitExpr(&e.Args[i])
		}
		return f.w.Assign("call @builtin.%s(%v)", e.Builtin, args)

	case ast.EAddressOfStorage:
		v := f.ns.Variables[e.VarIndex]
		return target.Value(fmt.Sprintf("i32 %d ; &storage", v.Slot))

	case ast.EKeccak256:
		v := f.emitExpr(e.Operand)
		ptr, length := f.dynamicParts(v)
		return f.rt.Keccak256(f.w, ptr, length)

	case ast.EAssign:
		v := f.emitExpr(e.Right)
		f.w.Line("store %s, %s", v, f.lvalueSlot(e.Left))
		return v

	default:
		return target.Value("i32 0")
	}
}

func (f *funcEmitter) lvalueSlot(e *ast.Expr) target.Value {
	if e.Kind == ast.EVariable {
		return f.localSlot(e.VarIndex)
	}
	return f.localSlot(0)
}

func binOpName(op ast.BinaryOp, signed bool) string {
	names := map[ast.BinaryOp]string{
		ast.BAdd: "add", ast.BSub: "sub", ast.BMul: "mul",
		ast.BAnd: "and", ast.BOr: "or", ast.BXor: "xor",
		ast.BShl: "shl", ast.BShr: "lshr",
		ast.BBoolAnd: "and", ast.BBoolOr: "or",
	}
	if op == ast.BDiv {
		if signed {
			return "sdiv"
		}
		return "udiv"
	}
	if op == ast.BMod {
		if signed {
			return "srem"
		}
		return "urem"
	}
	if n, ok := names[op]; ok {
		return n
	}
	return "add"
}

func cmpOpName(op ast.CompareOp) string {
	switch op {
	case ast.CEq:
		return "eq"
	case ast.CNe:
		return "ne"
	case ast.CLt:
		return "slt"
	case ast.CLe:
		return "sle"
	case ast.CGt:
		return "sgt"
	default:
		return "sge"
	}
}
