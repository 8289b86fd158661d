package target

import "fmt"

// Ewasm targets the Ethereum-flavored WebAssembly runtime described in
// spec §4.9: storage is addressed by 32-byte keys, external calls route
// through the EEI (`call`/`callDataCopy`/...), and a successful/failed
// call terminates via the `finish`/`revert` host functions. EwasmRuntime
// emits one module's body and internal/emit calls it once per contract, so
// a compilation for this target yields a single module per contract; no
// separate deployer and runtime modules are produced.
type EwasmRuntime struct {
	ethereumABI
}

func NewEwasm() *EwasmRuntime { return &EwasmRuntime{} }

func (*EwasmRuntime) Name() string      { return "ewasm" }
func (*EwasmRuntime) AddressWidth() int { return 20 }

func (*EwasmRuntime) Declarations() []string {
	return []string{
		"declare void @getCallValue(i32)",
		"declare i32 @getCallDataSize()",
		"declare void @callDataCopy(i32, i32, i32)",
		"declare i32 @call(i64, i32, i32, i32, i32, i32)",
		"declare void @returnDataCopy(i32, i32, i32)",
		"declare i32 @returnDataSize()",
		"declare void @storageStore(i32, i32)",
		"declare void @storageLoad(i32, i32)",
		"declare void @finish(i32, i32)",
		"declare void @revert(i32, i32)",
		"declare void @printMem(i32, i32)",
	}
}

func (*EwasmRuntime) ClearStorage(w *Writer, slot Value) {
	w.Line("call @storageStore(%s, @zero256)", slot)
}

func (*EwasmRuntime) SetStorageInt(w *Writer, slot Value, width int, value Value) {
	w.Line("call @storageStore(%s, %s) ; i%d", slot, value, width)
}

func (*EwasmRuntime) GetStorageInt(w *Writer, slot Value, width int) Value {
	return w.Assign("call @storageLoad(%s) ; i%d", slot, width)
}

func (*EwasmRuntime) SetStorageString(w *Writer, slot, ptr, length Value) {
	w.Line("call @storage.set_bytes(%s, %s, %s)", slot, ptr, length)
}

func (*EwasmRuntime) GetStorageString(w *Writer, slot Value) (Value, Value) {
	ptr := w.Assign("call @storage.get_bytes.ptr(%s)", slot)
	length := w.Assign("call @storage.get_bytes.len(%s)", slot)
	return ptr, length
}

func (*EwasmRuntime) StorageBytesPush(w *Writer, slot, val Value) {
	w.Line("call @storage.bytes.push(%s, %s)", slot, val)
}
func (*EwasmRuntime) StorageBytesPop(w *Writer, slot Value) Value {
	return w.Assign("call @storage.bytes.pop(%s) ; traps if empty", slot)
}
func (*EwasmRuntime) StorageBytesLength(w *Writer, slot Value) Value {
	return w.Assign("call @storage.bytes.length(%s)", slot)
}
func (*EwasmRuntime) StorageBytesSubscript(w *Writer, slot, index Value) Value {
	return w.Assign("call @storage.bytes.subscript(%s, %s) ; traps out-of-range", slot, index)
}

func (*EwasmRuntime) ExternalCall(w *Writer, address, payload, payloadLen, value, gas Value) Value {
	return w.Assign("call @call(%s, %s, %s, %s, %s, i32 0)", gas, address, value, payload, payloadLen)
}

func (*EwasmRuntime) ReturnData(w *Writer) (Value, Value) {
	length := w.Assign("call @returnDataSize()")
	ptr := w.Assign("call @malloc(%s)", length)
	w.Line("call @returnDataCopy(%s, i32 0, %s)", ptr, length)
	return ptr, length
}

func (*EwasmRuntime) CreateContract(w *Writer, contractName string, args []Value, salt, value *Value) Value {
	v := Value("i128 0")
	if value != nil {
		v = *value
	}
	return w.Assign("call @create(%s, @%s.deploy.code, @%s.deploy.len) ; args=%v salt=%v", v, contractName, contractName, args, salt)
}

func (*EwasmRuntime) ReturnEmptyABI(w *Writer) {
	w.Line("call @finish(i32 0, i32 0)")
}
func (*EwasmRuntime) ReturnABI(w *Writer, ptr, length Value) {
	w.Line("call @finish(%s, %s)", ptr, length)
}
func (e *EwasmRuntime) AssertFailure(w *Writer, message *Value) {
	ptr, length := e.revertPayload(w, message)
	w.Line("call @revert(%s, %s)", ptr, length)
}

func (*EwasmRuntime) Keccak256(w *Writer, src, length Value) Value {
	return w.Assign("call @sha3(%s, %s)", src, length)
}
func (*EwasmRuntime) Print(w *Writer, ptr, length Value) {
	w.Line("call @printMem(%s, %s)", ptr, length)
}

// Entrypoint dispatches on the first four bytes of call data, matching the
// little-endian selector convention of spec §4.4/§8.
func (*EwasmRuntime) Entrypoint(w *Writer, ctx EntrypointContext) {
	w.Raw(fmt.Sprintf("define external void @entrypoint() {\nentry:\n"))
	w.Line("%%sel = call @selector.read()")
	if ctx.HasCtor {
		w.Line("br i1 (eq %%sel, i32 0) label %%%s label %%dispatch", ctx.Constructor.Label)
	}
	w.Line("br label %%dispatch")
	w.Raw("dispatch:\n")
	for _, d := range ctx.Dispatch {
		w.Line("; selector 0x%02x%02x%02x%02x -> %s (%s)", d.Selector[0], d.Selector[1], d.Selector[2], d.Selector[3], d.Label, d.Name)
		w.Line("br i1 (eq %%sel, i32 0x%02x%02x%02x%02x) label %%%s label %%next.%s", d.Selector[0], d.Selector[1], d.Selector[2], d.Selector[3], d.Label, d.Label)
		w.Raw(fmt.Sprintf("next.%s:\n", d.Label))
	}
	w.Line("call @revert(i32 0, i32 0) ; no matching selector")
	w.Raw("}\n")
}
