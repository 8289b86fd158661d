package ast

import "github.com/solangc/solangc/internal/diag"

// ContractKind tags a contract declaration's kind (spec §3, Contract).
type ContractKind int

const (
	ContractConcrete ContractKind = iota
	ContractAbstract
	ContractInterface
	ContractLibrary
)

func (k ContractKind) String() string {
	switch k {
	case ContractAbstract:
		return "abstract contract"
	case ContractInterface:
		return "interface"
	case ContractLibrary:
		return "library"
	default:
		return "contract"
	}
}

// Layout is one slot assignment produced by inheritance linearization
// (spec §4.3): state variable Var (owned by contract Contract) lives at Slot.
type Layout struct {
	Slot     int
	Contract int
	Var      int
}

// DispatchEntry is one signature's resolved implementation: which contract
// supplies it, which function index, and (once lowered) its CFG.
type DispatchEntry struct {
	Contract int
	Function int
	CFG      *CFG // nil until C6 lowers the body
}

// Contract is the per-contract entity described in spec §3. Lifecycle:
// created during type discovery (C2), mutated during resolution (C3/C4),
// immutable once emission begins (C8).
type Contract struct {
	Name   string
	Kind   ContractKind
	Span   diag.Span
	File   int

	// Inherit holds the indices of directly-inherited base contracts, in
	// source order, before linearization.
	Inherit []int

	// Layout is the linearized storage slot assignment (spec §4.3).
	Layout []Layout

	// Own entity indices — these are contracts.go/function.go's claim to a
	// slice of Namespace.{Functions,Variables,Structs,Enums}.
	FunctionIndices []int
	VariableIndices []int
	StructIndices   []int
	EnumIndices     []int

	// FunctionTable is keyed by ABI signature; it is populated by
	// inheritance linearization (spec §4.3) and consumed by C8.
	FunctionTable map[string]DispatchEntry

	// Initializer is the synthesized per-contract CFG that lowers every
	// state variable's initializer (spec §4.6).
	Initializer *CFG
}

// NewContract returns an empty Contract ready for type discovery.
func NewContract(name string, kind ContractKind, file int, span diag.Span) Contract {
	return Contract{
		Name:          name,
		Kind:          kind,
		File:          file,
		Span:          span,
		FunctionTable: make(map[string]DispatchEntry),
	}
}

// IsConcrete reports whether the contract's kind is concrete (not abstract,
// interface or library); it does not inspect the contract's functions.
func (c Contract) IsConcrete() bool { return c.Kind == ContractConcrete }
