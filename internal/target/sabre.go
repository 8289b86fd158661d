package target

import "fmt"

// SabreRuntime targets Hyperledger Sawtooth's "Sabre" WebAssembly smart
// contract runtime (spec §4.9). Sabre has no native notion of "constructor
// vs. call": it parses its transaction-family-specific argument blob and
// routes by a length heuristic carried over from the original
// implementation's emit/sabre.rs (spec §4, SUPPLEMENTED FEATURES) —
// `args_len mod 32 == 4` means "this is a function call with a leading
// 4-byte selector", anything else is treated as constructor arguments.
type SabreRuntime struct {
	ethereumABI
}

func NewSabre() *SabreRuntime { return &SabreRuntime{} }

func (*SabreRuntime) Name() string      { return "sabre" }
func (*SabreRuntime) AddressWidth() int { return 20 }

func (*SabreRuntime) Declarations() []string {
	return []string{
		"declare i32 @get_ptr_len(i32)",
		"declare i32 @read_state(i32, i32, i32, i32)",
		"declare i32 @write_state(i32, i32, i32, i32)",
		"declare i32 @delete_state(i32, i32)",
		"declare void @log_buffer(i32, i32, i32)",
		"declare i32 @wasm_sabre_main(i32, i32)",
	}
}

func (*SabreRuntime) ClearStorage(w *Writer, slot Value) {
	w.Line("call @delete_state(@address.merkle(%s))", slot)
}
func (*SabreRuntime) SetStorageInt(w *Writer, slot Value, width int, value Value) {
	w.Line("call @write_state(@address.merkle(%s), %s) ; i%d", slot, value, width)
}
func (*SabreRuntime) GetStorageInt(w *Writer, slot Value, width int) Value {
	return w.Assign("call @read_state(@address.merkle(%s)) ; i%d", slot, width)
}
func (*SabreRuntime) SetStorageString(w *Writer, slot, ptr, length Value) {
	w.Line("call @write_state(@address.merkle(%s), %s, %s)", slot, ptr, length)
}
func (*SabreRuntime) GetStorageString(w *Writer, slot Value) (Value, Value) {
	ptr := w.Assign("call @read_state.ptr(@address.merkle(%s))", slot)
	length := w.Assign("call @read_state.len(@address.merkle(%s))", slot)
	return ptr, length
}

func (*SabreRuntime) StorageBytesPush(w *Writer, slot, val Value) {
	w.Line("call @storage.bytes.push(%s, %s)", slot, val)
}
func (*SabreRuntime) StorageBytesPop(w *Writer, slot Value) Value {
	return w.Assign("call @storage.bytes.pop(%s) ; traps if empty", slot)
}
func (*SabreRuntime) StorageBytesLength(w *Writer, slot Value) Value {
	return w.Assign("call @storage.bytes.length(%s)", slot)
}
func (*SabreRuntime) StorageBytesSubscript(w *Writer, slot, index Value) Value {
	return w.Assign("call @storage.bytes.subscript(%s, %s) ; traps out-of-range", slot, index)
}

// ExternalCall is unsupported on Sabre — Sawtooth transaction families do
// not model cross-contract calls the way an account-based chain does; the
// emitter still needs a definition to satisfy the interface, so this
// traps unconditionally.
func (*SabreRuntime) ExternalCall(w *Writer, address, payload, payloadLen, value, gas Value) Value {
	w.Line("; sabre has no cross-contract call primitive")
	return w.Assign("call @trap(\"external_call unsupported on sabre\")")
}
func (*SabreRuntime) ReturnData(w *Writer) (Value, Value) {
	return Value("i32 0"), Value("i32 0")
}
func (*SabreRuntime) CreateContract(w *Writer, contractName string, args []Value, salt, value *Value) Value {
	w.Line("; sabre has no cross-contract deployment primitive")
	return w.Assign("call @trap(\"create_contract unsupported on sabre\")")
}

func (*SabreRuntime) ReturnEmptyABI(w *Writer) {
	w.Line("ret i32 0")
}
func (*SabreRuntime) ReturnABI(w *Writer, ptr, length Value) {
	w.Line("call @log_buffer(%s, %s, i32 0)", ptr, length)
	w.Line("ret i32 0")
}
func (e *SabreRuntime) AssertFailure(w *Writer, message *Value) {
	ptr, length := e.revertPayload(w, message)
	w.Line("call @log_buffer(%s, %s, i32 1)", ptr, length)
	w.Line("ret i32 1")
}

func (*SabreRuntime) Keccak256(w *Writer, src, length Value) Value {
	return w.Assign("call @sha3(%s, %s)", src, length)
}
func (*SabreRuntime) Print(w *Writer, ptr, length Value) {
	w.Line("call @log_buffer(%s, %s, i32 2)", ptr, length)
}

// Entrypoint implements the `args_len mod 32 == 4` routing rule: a call
// whose argument blob is a multiple of 32 bytes plus a 4-byte selector is
// a function call and dispatches accordingly; anything else is treated as
// constructor argument data.
func (*SabreRuntime) Entrypoint(w *Writer, ctx EntrypointContext) {
	w.Raw("define external i32 @wasm_sabre_main(i32 %args_ptr, i32 %args_len) {\nentry:\n")
	w.Line("%%rem = urem %%args_len, i32 32")
	w.Line("br i1 (eq %%rem, i32 4) label %%is_call label %%is_ctor")
	w.Raw("is_ctor:\n")
	if ctx.HasCtor {
		w.Line("br label %%%s", ctx.Constructor.Label)
	} else {
		w.Line("ret i32 0")
	}
	w.Raw("is_call:\n")
	w.Line("%%sel = call @selector.read(%%args_ptr)")
	for _, d := range ctx.Dispatch {
		w.Line("br i1 (eq %%sel, i32 0x%02x%02x%02x%02x) label %%%s label %%next.%s",
			d.Selector[0], d.Selector[1], d.Selector[2], d.Selector[3], d.Label, d.Label)
		w.Raw(fmt.Sprintf("next.%s:\n", d.Label))
	}
	w.Line("ret i32 1 ; no matching selector")
	w.Raw("}\n")
}
