package target

import "fmt"

// GenericRuntime targets a plain WebAssembly module with no host-chain
// assumptions (spec §4.9): storage, calls, and printing are all modeled as
// imports from a single `env` module, the shape most WASI-adjacent or
// test-harness hosts expect. It is the simplest of the five and is useful
// as a baseline for exercising the emitter without any chain-specific
// calling convention.
type GenericRuntime struct {
	ethereumABI
}

func NewGeneric() *GenericRuntime { return &GenericRuntime{} }

func (*GenericRuntime) Name() string      { return "generic" }
func (*GenericRuntime) AddressWidth() int { return 20 }

func (*GenericRuntime) Declarations() []string {
	return []string{
		"declare void @env.storage_set(i32, i32, i32)",
		"declare i32 @env.storage_get(i32, i32)",
		"declare void @env.storage_clear(i32)",
		"declare i32 @env.call(i32, i32, i32, i32, i32)",
		"declare void @env.ret(i32, i32, i32)",
		"declare void @env.print(i32, i32)",
	}
}

func (*GenericRuntime) ClearStorage(w *Writer, slot Value) {
	w.Line("call @env.storage_clear(%s)", slot)
}
func (*GenericRuntime) SetStorageInt(w *Writer, slot Value, width int, value Value) {
	w.Line("call @env.storage_set(%s, %s, i32 %d)", slot, value, width/8)
}
func (*GenericRuntime) GetStorageInt(w *Writer, slot Value, width int) Value {
	return w.Assign("call @env.storage_get(%s, i32 %d)", slot, width/8)
}
func (*GenericRuntime) SetStorageString(w *Writer, slot, ptr, length Value) {
	w.Line("call @env.storage_set(%s, %s, %s)", slot, ptr, length)
}
func (*GenericRuntime) GetStorageString(w *Writer, slot Value) (Value, Value) {
	ptr := w.Assign("call @env.storage_get.ptr(%s)", slot)
	length := w.Assign("call @env.storage_get.len(%s)", slot)
	return ptr, length
}

func (*GenericRuntime) StorageBytesPush(w *Writer, slot, val Value) {
	w.Line("call @storage.bytes.push(%s, %s)", slot, val)
}
func (*GenericRuntime) StorageBytesPop(w *Writer, slot Value) Value {
	return w.Assign("call @storage.bytes.pop(%s) ; traps if empty", slot)
}
func (*GenericRuntime) StorageBytesLength(w *Writer, slot Value) Value {
	return w.Assign("call @storage.bytes.length(%s)", slot)
}
func (*GenericRuntime) StorageBytesSubscript(w *Writer, slot, index Value) Value {
	return w.Assign("call @storage.bytes.subscript(%s, %s) ; traps out-of-range", slot, index)
}

func (*GenericRuntime) ExternalCall(w *Writer, address, payload, payloadLen, value, gas Value) Value {
	return w.Assign("call @env.call(%s, %s, %s, %s, %s)", address, payload, payloadLen, value, gas)
}
func (*GenericRuntime) ReturnData(w *Writer) (Value, Value) {
	ptr := w.Assign("call @env.returndata.ptr()")
	length := w.Assign("call @env.returndata.len()")
	return ptr, length
}
func (*GenericRuntime) CreateContract(w *Writer, contractName string, args []Value, salt, value *Value) Value {
	v := Value("i128 0")
	if value != nil {
		v = *value
	}
	return w.Assign("call @env.create(@%s.code, @%s.code_len, %s) ; args=%v salt=%v", contractName, contractName, v, args, salt)
}

func (*GenericRuntime) ReturnEmptyABI(w *Writer) {
	w.Line("call @env.ret(i32 0, i32 0, i32 0)")
}
func (*GenericRuntime) ReturnABI(w *Writer, ptr, length Value) {
	w.Line("call @env.ret(i32 0, %s, %s)", ptr, length)
}
func (e *GenericRuntime) AssertFailure(w *Writer, message *Value) {
	ptr, length := e.revertPayload(w, message)
	w.Line("call @env.ret(i32 1, %s, %s)", ptr, length)
}

func (*GenericRuntime) Keccak256(w *Writer, src, length Value) Value {
	return w.Assign("call @sha3(%s, %s)", src, length)
}
func (*GenericRuntime) Print(w *Writer, ptr, length Value) {
	w.Line("call @env.print(%s, %s)", ptr, length)
}

func (*GenericRuntime) Entrypoint(w *Writer, ctx EntrypointContext) {
	w.Raw("define external i32 @entrypoint(i32 %sel, i32 %args_ptr, i32 %args_len) {\nentry:\n")
	if ctx.HasCtor {
		w.Line("br i1 (eq %%sel, i32 0xffffffff) label %%%s label %%dispatch", ctx.Constructor.Label)
	}
	w.Raw("dispatch:\n")
	for _, d := range ctx.Dispatch {
		w.Line("br i1 (eq %%sel, i32 0x%02x%02x%02x%02x) label %%%s label %%next.%s",
			d.Selector[0], d.Selector[1], d.Selector[2], d.Selector[3], d.Label, d.Label)
		w.Raw(fmt.Sprintf("next.%s:\n", d.Label))
	}
	w.Line("ret i32 1 ; no matching selector")
	w.Raw("}\n")
}
