package target

import "fmt"

// SolanaRuntime targets the Solana BPF runtime (spec §4.9, §6). Unlike the
// other four targets it does not use Ethereum ABI: arguments are packed
// little-endian with no offset/tail indirection, and storage is not a
// key-addressed store but a flat byte buffer — account 1's data region —
// addressed directly by byte offset. Per spec §6, that buffer begins with
// a 4-byte little-endian type-hash (first 4 bytes of keccak256(contract
// name)) and an 8-byte little-endian version counter before the first
// variable slot; dynamic byte/string fields are (length u32, offset u32)
// pairs into the account's heap region, with (0, 0) denoting "empty".
type SolanaRuntime struct{}

func NewSolana() *SolanaRuntime { return &SolanaRuntime{} }

func (*SolanaRuntime) Name() string      { return "solana" }
func (*SolanaRuntime) AddressWidth() int { return 32 }

func (*SolanaRuntime) Declarations() []string {
	return []string{
		"declare i32 @sol_log_(i32, i32)",
		"declare i32 @sol_memcpy_(i32, i32, i32)",
		"declare i32 @sol_invoke_signed_c(i32, i32, i32, i32, i32)",
	}
}

// dataOffset is the byte offset of slot within account 1's data buffer,
// past the 4-byte type-hash + 8-byte version header (spec §6).
func dataOffset(w *Writer, slot Value) Value {
	return w.Assign("add i32 12, (mul i32 32, %s)", slot)
}

func (*SolanaRuntime) ClearStorage(w *Writer, slot Value) {
	off := dataOffset(w, slot)
	w.Line("call @bzero8(@account1.data_ptr, %s, i32 32)", off)
}
func (*SolanaRuntime) SetStorageInt(w *Writer, slot Value, width int, value Value) {
	off := dataOffset(w, slot)
	w.Line("store i%d %s, (@account1.data_ptr + %s)", width, value, off)
}
func (*SolanaRuntime) GetStorageInt(w *Writer, slot Value, width int) Value {
	off := dataOffset(w, slot)
	return w.Assign("load i%d, (@account1.data_ptr + %s)", width, off)
}

// SetStorageString writes the (length, offset) pair at slot and copies
// ptr[0:length) into the account's heap region (spec §6).
func (*SolanaRuntime) SetStorageString(w *Writer, slot, ptr, length Value) {
	off := dataOffset(w, slot)
	heapOff := w.Assign("call @heap.alloc(%s)", length)
	w.Line("call @sol_memcpy_((@account1.heap_ptr + %s), %s, %s)", heapOff, ptr, length)
	w.Line("store i32 %s, (@account1.data_ptr + %s)       ; length", length, off)
	w.Line("store i32 %s, (@account1.data_ptr + (%s + 4)) ; offset", heapOff, off)
}
func (*SolanaRuntime) GetStorageString(w *Writer, slot Value) (Value, Value) {
	off := dataOffset(w, slot)
	length := w.Assign("load i32, (@account1.data_ptr + %s)", off)
	heapOff := w.Assign("load i32, (@account1.data_ptr + (%s + 4))", off)
	ptr := w.Assign("add i32 @account1.heap_ptr, %s", heapOff)
	return ptr, length
}

func (*SolanaRuntime) StorageBytesPush(w *Writer, slot, val Value) {
	w.Line("call @storage.bytes.push(%s, %s) ; reallocates the heap region", slot, val)
}
func (*SolanaRuntime) StorageBytesPop(w *Writer, slot Value) Value {
	return w.Assign("call @storage.bytes.pop(%s) ; traps if empty", slot)
}
func (*SolanaRuntime) StorageBytesLength(w *Writer, slot Value) Value {
	off := dataOffset(w, slot)
	return w.Assign("load i32, (@account1.data_ptr + %s)", off)
}
func (*SolanaRuntime) StorageBytesSubscript(w *Writer, slot, index Value) Value {
	return w.Assign("call @storage.bytes.subscript(%s, %s) ; traps out-of-range", slot, index)
}

// ABIEncode packs args back to back with no head/tail split — fixed-width
// values inline, dynamic values as a (length u32, bytes) pair — matching
// the wire format described in spec §4.9 for Solana.
func (*SolanaRuntime) ABIEncode(w *Writer, selector *[4]byte, args []Value, spec []AbiSpec) (Value, Value) {
	buf := w.Assign("call @packed.buffer.new()")
	if selector != nil {
		w.Line("call @packed.buffer.append_u32le(%s, i32 0x%02x%02x%02x%02x)",
			buf, selector[0], selector[1], selector[2], selector[3])
	}
	for i, a := range args {
		sp := spec[i]
		if sp.Dynamic {
			w.Line("call @packed.buffer.append_lenprefixed(%s, %s ; %s)", buf, a, sp.ABIType)
		} else {
			w.Line("call @packed.buffer.append_le(%s, %s ; %s)", buf, a, sp.ABIType)
		}
	}
	ptr := w.Assign("call @packed.buffer.ptr(%s)", buf)
	length := w.Assign("call @packed.buffer.len(%s)", buf)
	return ptr, length
}

func (*SolanaRuntime) ABIDecode(w *Writer, buf, length Value, spec []AbiSpec) []Value {
	out := make([]Value, len(spec))
	cursor := Value("i32 0")
	for i, sp := range spec {
		if sp.Dynamic {
			out[i] = w.Assign("call @packed.decode.read_lenprefixed(%s, %s ; %s)", buf, cursor, sp.ABIType)
			cursor = w.Assign("call @packed.decode.advance_dynamic(%s, %s)", buf, cursor)
		} else {
			out[i] = w.Assign("call @packed.decode.read_le(%s, %s, i32 %d ; %s)", buf, cursor, sp.ByteSize, sp.ABIType)
			cursor = w.Assign("add i32 %s, i32 %d", cursor, sp.ByteSize)
		}
	}
	return out
}

// ExternalCall on Solana is a cross-program invocation via
// sol_invoke_signed_c rather than a value-carrying message send.
func (*SolanaRuntime) ExternalCall(w *Writer, address, payload, payloadLen, value, gas Value) Value {
	return w.Assign("call @sol_invoke_signed_c(%s, %s, %s, i32 0, i32 0) ; value=%v gas=%v (unused on solana)", address, payload, payloadLen, value, gas)
}
func (*SolanaRuntime) ReturnData(w *Writer) (Value, Value) {
	ptr := w.Assign("call @cpi.returndata.ptr()")
	length := w.Assign("call @cpi.returndata.len()")
	return ptr, length
}
func (*SolanaRuntime) CreateContract(w *Writer, contractName string, args []Value, salt, value *Value) Value {
	w.Line("; solana contract creation is a separate system-program CPI, not part of this module")
	return w.Assign("call @sol_invoke_signed_c(@%s.program_id, i32 0, i32 0, i32 0, i32 0) ; args=%v", contractName, args)
}

func (*SolanaRuntime) ReturnEmptyABI(w *Writer) {
	w.Line("ret i32 0")
}
func (*SolanaRuntime) ReturnABI(w *Writer, ptr, length Value) {
	w.Line("call @sol_memcpy_(@account0.data_ptr, %s, %s)", ptr, length)
	w.Line("ret i32 0")
}
func (*SolanaRuntime) AssertFailure(w *Writer, message *Value) {
	if message != nil {
		length := w.Assign("call @strlen(%s)", *message)
		w.Line("call @sol_log_(%s, %s)", *message, length)
	}
	w.Line("ret i32 1")
}

func (*SolanaRuntime) Keccak256(w *Writer, src, length Value) Value {
	return w.Assign("call @sha3(%s, %s) ; no native host hash on solana, internal fallback", src, length)
}
func (*SolanaRuntime) Print(w *Writer, ptr, length Value) {
	w.Line("call @sol_log_(%s, %s)", ptr, length)
}

// Entrypoint parses the serialized account array from the program-input
// region, binds account 1's data buffer as contract storage, runs
// dispatch, and writes the result into account 0 (spec §4.9, §6).
func (*SolanaRuntime) Entrypoint(w *Writer, ctx EntrypointContext) {
	w.Raw("define external i32 @entrypoint(i32 %input_ptr) {\nentry:\n")
	w.Line("%%accounts = call @solana.parse_accounts(%%input_ptr)")
	w.Line("@account0.data_ptr = call @solana.account_data_ptr(%%accounts, i32 0)")
	w.Line("@account1.data_ptr = call @solana.account_data_ptr(%%accounts, i32 1)")
	w.Line("@account1.heap_ptr = call @solana.account_heap_ptr(%%accounts, i32 1)")
	w.Line("%%type_hash = load i32, @account1.data_ptr")
	w.Line("br i1 (eq %%type_hash, i32 0x%08x) label %%check_version label %%init", typeHash(ctx.ContractName))
	w.Raw("check_version:\n")
	w.Line("%%sel = call @solana.instruction_selector(%%input_ptr)")
	w.Raw("dispatch:\n")
	for _, d := range ctx.Dispatch {
		w.Line("br i1 (eq %%sel, i32 0x%02x%02x%02x%02x) label %%%s label %%next.%s",
			d.Selector[0], d.Selector[1], d.Selector[2], d.Selector[3], d.Label, d.Label)
		w.Raw(fmt.Sprintf("next.%s:\n", d.Label))
	}
	w.Line("ret i32 1 ; no matching selector")
	w.Raw("init:\n")
	w.Line("store i32 0x%08x, @account1.data_ptr ; type-hash", typeHash(ctx.ContractName))
	w.Line("store i64 0, (@account1.data_ptr + 4) ; version")
	if ctx.HasCtor {
		w.Line("br label %%%s", ctx.Constructor.Label)
	} else {
		w.Line("ret i32 0")
	}
	w.Raw("}\n")
}

// typeHash computes the 4-byte little-endian type-hash of spec §6: the
// first 4 bytes of keccak256(contract name), read little-endian.
func typeHash(name string) uint32 {
	h := keccak256First4(name)
	return uint32(h[0]) | uint32(h[1])<<8 | uint32(h[2])<<16 | uint32(h[3])<<24
}
