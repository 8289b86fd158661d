// Package types implements the compiler's type algebra (solangc spec §3,
// C1): the sum of primitive and user-defined types every later phase
// resolves syntactic type expressions into, plus the Address value type
// and its EIP-55 checksum helpers.
package types

import "fmt"

// Kind tags the variant of a Type.
type Kind int

const (
	Undefined Kind = iota
	Bool
	AddressKind
	Uint
	Int
	FixedBytes   // bytes1..bytes32
	DynamicBytes // "bytes"
	StringKind
	Enum
	Struct
	FixedArray
	DynamicArray
	Mapping
	Contract
	Function
	Ref         // reference-to(Type)
	StorageRef  // storage-reference-to(Type)
)

// Mutability is a function's state-mutability annotation.
type Mutability int

const (
	MutabilityDefault Mutability = iota
	Pure
	View
	Payable
)

func (m Mutability) String() string {
	switch m {
	case Pure:
		return "pure"
	case View:
		return "view"
	case Payable:
		return "payable"
	default:
		return "nonpayable"
	}
}

// Visibility is a function or variable's visibility annotation.
type Visibility int

const (
	VisibilityDefault Visibility = iota
	Private
	InternalVisibility
	Public
	External
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Public:
		return "public"
	case External:
		return "external"
	default:
		return "internal"
	}
}

// Type is the algebraic sum described in spec §3. Rather than a tagged
// union, Go idiom models this as one struct whose fields are only
// meaningful for the active Kind; the New* constructors below are the
// supported way to build one. They do not check the "never nested beyond
// one level" invariant on Ref/StorageRef; as NewRef notes, the caller
// (normally sema) enforces it.
type Type struct {
	Kind Kind

	// Uint / Int / FixedBytes: bit width (Uint/Int) or byte length*8 (FixedBytes).
	Width int

	// Enum / Struct / Contract: index into the owning Namespace's entity slice.
	Index int

	// FixedArray / DynamicArray / Ref / StorageRef: element type.
	Elem *Type

	// FixedArray: one entry per dimension, outermost first. Each must be >= 1;
	// that invariant is checked by sema (§4.2), not here.
	Dims []int64

	// Mapping.
	Key   *Type
	Value *Type

	// Function.
	Params      []Type
	Returns     []Type
	Mutability  Mutability
	Visibility  Visibility
}

// NewUint returns the unsigned integer type of the given bit width.
func NewUint(width int) Type { return Type{Kind: Uint, Width: width} }

// NewInt returns the signed integer type of the given bit width.
func NewInt(width int) Type { return Type{Kind: Int, Width: width} }

// NewFixedBytes returns the fixed-width byte-string type of the given byte length.
func NewFixedBytes(length int) Type { return Type{Kind: FixedBytes, Width: length * 8} }

// NewEnum returns the enum type referring to the enum at the given namespace index.
func NewEnum(index int) Type { return Type{Kind: Enum, Index: index} }

// NewStruct returns the struct type referring to the struct at the given namespace index.
func NewStruct(index int) Type { return Type{Kind: Struct, Index: index} }

// NewContract returns the contract type referring to the contract at the given namespace index.
func NewContract(index int) Type { return Type{Kind: Contract, Index: index} }

// NewFixedArray returns a fixed-size array of elem with the given dimensions.
func NewFixedArray(elem Type, dims []int64) Type {
	e := elem
	return Type{Kind: FixedArray, Elem: &e, Dims: dims}
}

// NewDynamicArray returns a dynamically-sized array of elem.
func NewDynamicArray(elem Type) Type {
	e := elem
	return Type{Kind: DynamicArray, Elem: &e}
}

// NewMapping returns a mapping from key to value.
func NewMapping(key, value Type) Type {
	k, v := key, value
	return Type{Kind: Mapping, Key: &k, Value: &v}
}

// NewFunction returns a function-pointer type.
func NewFunction(params, returns []Type, mut Mutability, vis Visibility) Type {
	return Type{Kind: Function, Params: params, Returns: returns, Mutability: mut, Visibility: vis}
}

// NewRef returns a reference-to(inner). It is an error (enforced by the
// caller, normally sema) to wrap a Ref or StorageRef in another Ref.
func NewRef(inner Type) Type {
	i := inner
	return Type{Kind: Ref, Elem: &i}
}

// NewStorageRef returns a storage-reference-to(inner); inner must be a value
// type (enforced by sema, not here).
func NewStorageRef(inner Type) Type {
	i := inner
	return Type{Kind: StorageRef, Elem: &i}
}

// IsReference reports whether t is a Ref or StorageRef wrapper.
func (t Type) IsReference() bool { return t.Kind == Ref || t.Kind == StorageRef }

// Deref unwraps one level of Ref/StorageRef, returning t unchanged if it is
// not a reference type.
func (t Type) Deref() Type {
	if t.IsReference() && t.Elem != nil {
		return *t.Elem
	}
	return t
}

// IsInteger reports whether t is Uint or Int.
func (t Type) IsInteger() bool { return t.Kind == Uint || t.Kind == Int }

// Equal reports structural equality, following element/key/value pointers.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Uint, Int, FixedBytes:
		return t.Width == o.Width
	case Enum, Struct, Contract:
		return t.Index == o.Index
	case FixedArray:
		if len(t.Dims) != len(o.Dims) {
			return false
		}
		for i := range t.Dims {
			if t.Dims[i] != o.Dims[i] {
				return false
			}
		}
		return t.Elem.Equal(*o.Elem)
	case DynamicArray, Ref, StorageRef:
		return t.Elem.Equal(*o.Elem)
	case Mapping:
		return t.Key.Equal(*o.Key) && t.Value.Equal(*o.Value)
	case Function:
		if len(t.Params) != len(o.Params) || len(t.Returns) != len(o.Returns) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		for i := range t.Returns {
			if !t.Returns[i].Equal(o.Returns[i]) {
				return false
			}
		}
		return t.Mutability == o.Mutability && t.Visibility == o.Visibility
	default:
		return true
	}
}

// String renders a human-readable (not necessarily ABI) spelling, used in
// diagnostics.
func (t Type) String() string {
	switch t.Kind {
	case Undefined:
		return "<undefined>"
	case Bool:
		return "bool"
	case AddressKind:
		return "address"
	case Uint:
		return fmt.Sprintf("uint%d", t.Width)
	case Int:
		return fmt.Sprintf("int%d", t.Width)
	case FixedBytes:
		return fmt.Sprintf("bytes%d", t.Width/8)
	case DynamicBytes:
		return "bytes"
	case StringKind:
		return "string"
	case Enum:
		return fmt.Sprintf("enum#%d", t.Index)
	case Struct:
		return fmt.Sprintf("struct#%d", t.Index)
	case Contract:
		return fmt.Sprintf("contract#%d", t.Index)
	case FixedArray:
		s := t.Elem.String()
		for _, d := range t.Dims {
			s += fmt.Sprintf("[%d]", d)
		}
		return s
	case DynamicArray:
		return t.Elem.String() + "[]"
	case Mapping:
		return fmt.Sprintf("mapping(%s => %s)", t.Key, t.Value)
	case Function:
		return "function"
	case Ref:
		return "ref " + t.Elem.String()
	case StorageRef:
		return t.Elem.String() + " storage"
	default:
		return "?"
	}
}

// StorageSlots reports the number of storage slots t occupies, for the non
// struct/enum cases decidable without a Namespace lookup (spec §3, Contract
// storage layout). Struct slot counts are computed by sema, which has the
// namespace handle needed to sum field slots.
func (t Type) StorageSlots() int {
	switch t.Kind {
	case FixedArray:
		n := 1
		for _, d := range t.Dims {
			n *= int(d)
		}
		return n * t.Elem.StorageSlots()
	default:
		return 1
	}
}
