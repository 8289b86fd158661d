package target

// ethereumABI implements the 32-byte-slot, offsets-and-tails Ethereum ABI
// (spec §4.9: "Ewasm/Substrate/Sabre use Ethereum ABI") shared by every
// target except Solana. Concrete runtimes embed it to pick up ABIEncode/
// ABIDecode for free and only implement the genuinely target-specific
// operations (storage, external call, entrypoint shape).
type ethereumABI struct{}

// ABIEncode writes a selector (if any) followed by each argument's 32-byte
// head slot, with dynamic arguments' payloads appended as tails addressed
// by an offset written into the head — the standard Ethereum ABI
// head/tail split.
func (ethereumABI) ABIEncode(w *Writer, selector *[4]byte, args []Value, spec []AbiSpec) (Value, Value) {
	buf := w.Assign("call @abi.buffer.new()")
	if selector != nil {
		w.Line("call @abi.buffer.append_selector(%s, i32 0x%02x%02x%02x%02x)",
			buf, selector[0], selector[1], selector[2], selector[3])
	}
	headSlots := len(args)
	for i, a := range args {
		sp := spec[i]
		if sp.Dynamic {
			w.Line("call @abi.buffer.append_offset(%s, i32 %d)", buf, headSlots)
			w.Line("call @abi.buffer.append_dynamic(%s, %s ; %s)", buf, a, sp.ABIType)
		} else {
			w.Line("call @abi.buffer.append_static(%s, %s ; %s)", buf, a, sp.ABIType)
		}
	}
	ptr := w.Assign("call @abi.buffer.ptr(%s)", buf)
	length := w.Assign("call @abi.buffer.len(%s)", buf)
	return ptr, length
}

// ABIDecode reads one head slot per spec entry, following offsets for
// dynamic fields, mirroring Ethereum ABI decoding.
func (ethereumABI) ABIDecode(w *Writer, buf, length Value, spec []AbiSpec) []Value {
	out := make([]Value, len(spec))
	for i, sp := range spec {
		slot := i * 32
		if sp.Dynamic {
			off := w.Assign("call @abi.decode.read_offset(%s, %s, i32 %d)", buf, length, slot)
			out[i] = w.Assign("call @abi.decode.read_dynamic(%s, %s, %s ; %s)", buf, length, off, sp.ABIType)
		} else {
			out[i] = w.Assign("call @abi.decode.read_static(%s, %s, i32 %d ; %s)", buf, length, slot, sp.ABIType)
		}
	}
	return out
}

// revertPayload builds the `Error(string)` revert payload of spec §8
// scenario 4: the big-endian selector 0x08c379a0 followed by the
// ABI-encoded reason string. Shared by every Ethereum-ABI target's
// AssertFailure.
func (e ethereumABI) revertPayload(w *Writer, message *Value) (Value, Value) {
	if message == nil {
		zero := Value("i32 0")
		return zero, zero
	}
	sel := [4]byte{0x08, 0xc3, 0x79, 0xa0}
	return e.ABIEncode(w, &sel, []Value{*message}, []AbiSpec{{ABIType: "string", Dynamic: true}})
}
