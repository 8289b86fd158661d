package ast

import (
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/types"
)

// Variable is a state variable, local variable, or parameter binding that
// has been resolved to a concrete slot (spec §3/§4.4).
type Variable struct {
	Name       string
	Span       diag.Span
	File       int
	Contract   int // -1 for non-state variables
	Type       types.Type
	Visibility types.Visibility
	Constant   bool

	// Slot is the storage slot assigned by inheritance layout (spec §4.3);
	// meaningless (and zero) for constants and non-state variables.
	Slot int

	// Initializer is the constant-folded or lowered initializer expression,
	// if any.
	Initializer *Expr
}

// IsStorage reports whether this variable occupies contract storage.
func (v Variable) IsStorage() bool {
	return v.Contract >= 0 && !v.Constant
}
