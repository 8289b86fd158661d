package ast

import (
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/types"
)

// StructField is one field of a user-defined struct.
type StructField struct {
	Name string
	Type types.Type
	Span diag.Span
}

// StructType is a user-defined struct (spec §3, §4.2). ContractIndex is -1
// for a file-scope struct.
type StructType struct {
	Name          string
	File          int
	ContractIndex int
	Span          diag.Span
	Fields        []StructField
}

// StorageSlots sums the slot count of every field, resolving nested struct
// fields through ns. Needs a Namespace handle (unlike types.Type.StorageSlots)
// because a struct field may itself be a struct type.
func (s StructType) StorageSlots(ns *Namespace) int {
	total := 0
	for _, f := range s.Fields {
		total += slotsOf(f.Type, ns)
	}
	if total == 0 {
		return 1
	}
	return total
}

func slotsOf(t types.Type, ns *Namespace) int {
	if t.Kind == types.Struct {
		return ns.Structs[t.Index].StorageSlots(ns)
	}
	return t.StorageSlots()
}

// EnumType is a user-defined enum (spec §3, §4.2). ContractIndex is -1 for
// a file-scope enum.
type EnumType struct {
	Name          string
	File          int
	ContractIndex int
	Span          diag.Span
	Variants      []string
	// Width is bits = ceil(log2(#variants)) rounded up to a multiple of 8,
	// clamped to >= 8 (spec §4.2). An empty enum is a declaration error but
	// still gets Width == 0 (see EnumWidth) so resolution can continue.
	Width int
}

// EnumWidth implements the enum width policy of spec §4.2: bits =
// ceil(log2(#variants)) rounded up to the next multiple of 8, clamped to
// >= 8. An empty enum is a declaration error (raised by the caller) but
// still yields width 0 here so resolution can continue with a type that
// plainly signals "nothing to compare against".
func EnumWidth(numVariants int) int {
	if numVariants == 0 {
		return 0
	}
	if numVariants == 1 {
		return 8
	}
	bits := 0
	for (1 << bits) < numVariants {
		bits++
	}
	width := ((bits + 7) / 8) * 8
	if width < 8 {
		width = 8
	}
	return width
}
