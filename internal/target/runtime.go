package target

// EntrypointContext carries the per-contract facts the Entrypoint method
// needs to build a target-shaped dispatcher: every externally reachable
// function's selector, name, and whether it is the constructor.
type EntrypointContext struct {
	ContractName string

	// Dispatch lists every ABI-reachable function in deterministic
	// (signature) order, each paired with the label of the block the
	// emitter already generated for its body.
	Dispatch []DispatchEntry

	// Constructor is the selector/label pair for the constructor, if any
	// (fallback zero value when the contract has none — Substrate and
	// Sabre both tolerate a missing constructor, spec §4.3).
	Constructor DispatchEntry
	HasCtor     bool
}

// DispatchEntry pairs one function's 4-byte selector with the label of its
// emitted body, the minimum an entrypoint needs to route to it.
type DispatchEntry struct {
	Selector [4]byte
	Label    string
	Name     string
}

// TargetRuntime is the capability set described in spec §4.9. The emitter
// (internal/emit) is written once against this interface; each
// implementation below supplies one runtime's concrete semantics. Every
// method writes its generated instructions into w and returns the Value(s)
// holding its result, mirroring an LLVM IRBuilder's call-and-get-result
// shape.
type TargetRuntime interface {
	// Name identifies the runtime for diagnostics and output file naming.
	Name() string

	// AddressWidth is the number of bytes this target's account
	// identifiers occupy on the wire (spec §3, Namespace.AddressWidth).
	AddressWidth() int

	// Declarations returns the extern-function declarations this target's
	// runtime expects the host/VM to supply (spec §4.8 step 1), rendered
	// as one textual `declare` line each.
	Declarations() []string

	ClearStorage(w *Writer, slot Value)
	SetStorageInt(w *Writer, slot Value, width int, value Value)
	GetStorageInt(w *Writer, slot Value, width int) Value
	SetStorageString(w *Writer, slot, ptr, length Value)
	GetStorageString(w *Writer, slot Value) (ptr, length Value)

	StorageBytesPush(w *Writer, slot, val Value)
	StorageBytesPop(w *Writer, slot Value) Value
	StorageBytesLength(w *Writer, slot Value) Value
	StorageBytesSubscript(w *Writer, slot, index Value) Value

	// ABIEncode renders args (already-evaluated Values) according to spec,
	// prefixed by selector if non-nil, and returns a (ptr, len) pair
	// holding the encoded buffer.
	ABIEncode(w *Writer, selector *[4]byte, args []Value, spec []AbiSpec) (ptr, length Value)
	// ABIDecode reads buf[0:length) according to spec and returns one
	// Value per decoded field.
	ABIDecode(w *Writer, buf, length Value, spec []AbiSpec) []Value

	ExternalCall(w *Writer, address, payload, payloadLen, value, gas Value) Value
	ReturnData(w *Writer) (ptr, length Value)
	CreateContract(w *Writer, contractName string, args []Value, salt, value *Value) Value

	ReturnEmptyABI(w *Writer)
	ReturnABI(w *Writer, ptr, length Value)
	// AssertFailure terminates the current call with a revert. message is
	// nil for a bare `revert()`/`assert(false)` (spec §4.9).
	AssertFailure(w *Writer, message *Value)

	Keccak256(w *Writer, src, length Value) Value
	Print(w *Writer, ptr, length Value)

	// Entrypoint emits the single `entrypoint` function whose shape is
	// entirely target-specific (spec §4.8 step 4, §4.9).
	Entrypoint(w *Writer, ctx EntrypointContext)
}
