package ast

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/types"
)

// FunctionKind tags what a Function declaration represents.
type FunctionKind int

const (
	KindConstructor FunctionKind = iota
	KindFunction
	KindFallback
	KindReceive
)

// Param is one function parameter or return value.
type Param struct {
	Name    string
	Type    types.Type
	Storage bool // true if an explicit storage-location modifier was given
	Span    diag.Span
}

// Function is the per-function entity of spec §3. Name is empty for
// fallback/receive.
type Function struct {
	Name     string
	Span     diag.Span
	File     int
	Contract int // -1 if not yet assigned to a contract
	Kind     FunctionKind

	Mutability types.Mutability
	Visibility types.Visibility
	IsVirtual  bool

	// IsOverride is set when the `override` modifier is present; OverrideList
	// holds the (possibly empty) explicit override(...) contract indices, or
	// nil if the modifier was entirely absent.
	IsOverride   bool
	OverrideList []int

	Params  []Param
	Returns []Param

	// Body is the statement tree prior to CFG lowering. Nil for functions
	// without a body (interface functions, abstract virtual declarations).
	Body []Statement

	// Locals is the local-variable table the expression resolver (C5)
	// builds while it assigns EVariable indices to parameters, named
	// locals, and try/catch bindings; C6 carries it into the CFG unchanged
	// aside from any lowering-only temporaries it appends.
	Locals []LocalVar

	// CFG is populated by the statement-to-CFG lowerer (C6). Nil until then.
	CFG *CFG

	// ReadsStorage / WritesStorage mirror the CFG attributes once lowered,
	// cached here for the mutability audit (spec §4.4, §4.6).
	ReadsStorage  bool
	WritesStorage bool
}

// Signature builds the canonical `name(t1,t2,...)` string of spec §3/§4.4,
// using each parameter's ABI spelling.
func (f Function) Signature(ns *Namespace) string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = ABIType(p.Type, ns)
	}
	return f.Name + "(" + strings.Join(parts, ",") + ")"
}

// Selector computes the first four bytes of keccak256(signature), read as
// the little-endian dispatch word described in spec §4.4/§8. The four
// returned bytes are in hash order; a caller wanting the LE uint32 should
// call SelectorUint32.
func Selector(signature string) [4]byte {
	h := crypto.Keccak256([]byte(signature))
	var sel [4]byte
	copy(sel[:], h[:4])
	return sel
}

// SelectorUint32 interprets a 4-byte selector as a little-endian uint32,
// the form the WASM-target dispatch code actually compares against.
func SelectorUint32(sel [4]byte) uint32 {
	return uint32(sel[0]) | uint32(sel[1])<<8 | uint32(sel[2])<<16 | uint32(sel[3])<<24
}

// ErrorStringSelector is the well-known, fixed selector for Solidity's
// built-in `Error(string)` revert reason encoding (big-endian, per the
// Ethereum ABI spec, independent of this compiler's little-endian dispatch
// convention) — used by revert(string) on Ethereum-ABI targets (spec §8
// scenario 4).
var ErrorStringSelector = [4]byte{0x08, 0xc3, 0x79, 0xa0}

// ABIType renders a type's ABI spelling: primitives as uintN/intN/address/
// bool/bytesN, structs flattened to the tuple of their fields' ABI types,
// enums using their underlying integer spelling (spec §4.4).
func ABIType(t types.Type, ns *Namespace) string {
	switch t.Kind {
	case types.Bool:
		return "bool"
	case types.AddressKind:
		return "address"
	case types.Uint:
		return "uint" + strconv.Itoa(t.Width)
	case types.Int:
		return "int" + strconv.Itoa(t.Width)
	case types.FixedBytes:
		return "bytes" + strconv.Itoa(t.Width/8)
	case types.DynamicBytes:
		return "bytes"
	case types.StringKind:
		return "string"
	case types.Enum:
		if t.Index < len(ns.Enums) {
			return "uint" + strconv.Itoa(ns.Enums[t.Index].Width)
		}
		return "uint8"
	case types.Struct:
		if t.Index >= len(ns.Structs) {
			return "tuple()"
		}
		s := ns.Structs[t.Index]
		parts := make([]string, len(s.Fields))
		for i, f := range s.Fields {
			parts[i] = ABIType(f.Type, ns)
		}
		return "tuple(" + strings.Join(parts, ",") + ")"
	case types.FixedArray:
		s := ABIType(*t.Elem, ns)
		for _, d := range t.Dims {
			s += "[" + strconv.FormatInt(d, 10) + "]"
		}
		return s
	case types.DynamicArray:
		return ABIType(*t.Elem, ns) + "[]"
	case types.Contract:
		return "address"
	case types.Ref, types.StorageRef:
		return ABIType(*t.Elem, ns)
	default:
		return "bytes"
	}
}

