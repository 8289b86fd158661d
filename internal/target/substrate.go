package target

import "fmt"

// SubstrateRuntime targets the Substrate-flavored WebAssembly runtime
// (spec §4.9): it reads the call payload via `seal_input`, dispatches on
// a leading selector, and writes results via `seal_return`. Substrate
// additionally permits zero or more constructors (spec §4.3) and, when a
// contract declares none, internal/cfg synthesizes a trivial one
// (cfg.SynthesizeTrivialConstructor) that this runtime still dispatches to
// like any other.
type SubstrateRuntime struct {
	ethereumABI
}

func NewSubstrate() *SubstrateRuntime { return &SubstrateRuntime{} }

func (*SubstrateRuntime) Name() string      { return "substrate" }
func (*SubstrateRuntime) AddressWidth() int { return 32 }

func (*SubstrateRuntime) Declarations() []string {
	return []string{
		"declare i32 @seal_input(i32, i32)",
		"declare void @seal_set_storage(i32, i32, i32, i32)",
		"declare i32 @seal_get_storage(i32, i32, i32)",
		"declare void @seal_clear_storage(i32, i32)",
		"declare i32 @seal_call(i64, i32, i64, i32, i32, i32, i32)",
		"declare void @seal_return(i32, i32, i32)",
		"declare void @seal_println(i32, i32)",
	}
}

func (*SubstrateRuntime) ClearStorage(w *Writer, slot Value) {
	w.Line("call @seal_clear_storage(%s, i32 32)", slot)
}
func (*SubstrateRuntime) SetStorageInt(w *Writer, slot Value, width int, value Value) {
	w.Line("call @seal_set_storage(%s, i32 32, %s, i32 %d)", slot, value, width/8)
}
func (*SubstrateRuntime) GetStorageInt(w *Writer, slot Value, width int) Value {
	return w.Assign("call @seal_get_storage(%s, i32 32, i32 %d)", slot, width/8)
}
func (*SubstrateRuntime) SetStorageString(w *Writer, slot, ptr, length Value) {
	w.Line("call @seal_set_storage(%s, i32 32, %s, %s)", slot, ptr, length)
}
func (*SubstrateRuntime) GetStorageString(w *Writer, slot Value) (Value, Value) {
	ptr := w.Assign("call @scratch.alloc_for(%s)", slot)
	length := w.Assign("call @seal_get_storage(%s, i32 32, %s)", slot, ptr)
	return ptr, length
}

func (*SubstrateRuntime) StorageBytesPush(w *Writer, slot, val Value) {
	w.Line("call @storage.bytes.push(%s, %s)", slot, val)
}
func (*SubstrateRuntime) StorageBytesPop(w *Writer, slot Value) Value {
	return w.Assign("call @storage.bytes.pop(%s) ; traps if empty", slot)
}
func (*SubstrateRuntime) StorageBytesLength(w *Writer, slot Value) Value {
	return w.Assign("call @storage.bytes.length(%s)", slot)
}
func (*SubstrateRuntime) StorageBytesSubscript(w *Writer, slot, index Value) Value {
	return w.Assign("call @storage.bytes.subscript(%s, %s) ; traps out-of-range", slot, index)
}

func (*SubstrateRuntime) ExternalCall(w *Writer, address, payload, payloadLen, value, gas Value) Value {
	return w.Assign("call @seal_call(%s, %s, i64 0, %s, %s, i32 0, i32 0)", gas, address, value, payload)
}
func (*SubstrateRuntime) ReturnData(w *Writer) (Value, Value) {
	ptr := w.Assign("call @scratch.ptr()")
	length := w.Assign("call @scratch.len()")
	return ptr, length
}
func (*SubstrateRuntime) CreateContract(w *Writer, contractName string, args []Value, salt, value *Value) Value {
	v := Value("i128 0")
	if value != nil {
		v = *value
	}
	return w.Assign("call @seal_instantiate(@%s.code_hash, %s) ; args=%v salt=%v", contractName, v, args, salt)
}

func (*SubstrateRuntime) ReturnEmptyABI(w *Writer) {
	w.Line("call @seal_return(i32 0, i32 0, i32 0)")
}
func (*SubstrateRuntime) ReturnABI(w *Writer, ptr, length Value) {
	w.Line("call @seal_return(i32 0, %s, %s)", ptr, length)
}
func (e *SubstrateRuntime) AssertFailure(w *Writer, message *Value) {
	ptr, length := e.revertPayload(w, message)
	w.Line("call @seal_return(i32 1, %s, %s)", ptr, length)
}

func (*SubstrateRuntime) Keccak256(w *Writer, src, length Value) Value {
	return w.Assign("call @sha3(%s, %s)", src, length)
}
func (*SubstrateRuntime) Print(w *Writer, ptr, length Value) {
	w.Line("call @seal_println(%s, %s)", ptr, length)
}

// Entrypoint reads the call payload into a scratch buffer, then dispatches
// on its leading 4-byte selector exactly like Ewasm, but sourced from
// `seal_input` instead of `callDataCopy`.
func (*SubstrateRuntime) Entrypoint(w *Writer, ctx EntrypointContext) {
	w.Raw("define external void @deploy() {\nentry:\n")
	if ctx.HasCtor {
		w.Line("br label %%%s", ctx.Constructor.Label)
	} else {
		w.Line("call @seal_return(i32 0, i32 0, i32 0)")
	}
	w.Raw("}\n")

	w.Raw("define external void @call() {\nentry:\n")
	w.Line("%%len = call @seal_input.len()")
	w.Line("%%sel = call @seal_input.selector()")
	w.Raw("dispatch:\n")
	for _, d := range ctx.Dispatch {
		w.Line("br i1 (eq %%sel, i32 0x%02x%02x%02x%02x) label %%%s label %%next.%s",
			d.Selector[0], d.Selector[1], d.Selector[2], d.Selector[3], d.Label, d.Label)
		w.Raw(fmt.Sprintf("next.%s:\n", d.Label))
	}
	w.Line("call @seal_return(i32 1, i32 0, i32 0) ; no matching selector")
	w.Raw("}\n")
}
