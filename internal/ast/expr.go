package ast

import (
	"math/big"

	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/types"
)

// ExprKind tags the variant of a typed Expr (spec §3, Expression).
type ExprKind int

const (
	EInvalid ExprKind = iota
	EIntLiteral
	EBoolLiteral
	EStringLiteral
	EBytesLiteral
	EAddressLiteral
	EVariable        // a local variable or parameter
	EStorageVariable // a contract state variable
	EUnary
	EBinary
	ECompare
	ECast
	ESubscript
	EStructLiteral
	EArrayLiteral
	ECall
	EBuiltinCall
	EAddressOfStorage
	EKeccak256
	EAssign
)

// UnaryOp enumerates unary arithmetic/logical operators.
type UnaryOp int

const (
	UNeg UnaryOp = iota
	UNot
	UBitNot
)

// BinaryOp enumerates binary arithmetic/bitwise operators. Signedness is a
// separate field on Expr (spec §3: "explicit signed/unsigned variants").
type BinaryOp int

const (
	BAdd BinaryOp = iota
	BSub
	BMul
	BDiv
	BMod
	BAnd
	BOr
	BXor
	BShl
	BShr
	BBoolAnd
	BBoolOr
)

// CompareOp enumerates comparison operators.
type CompareOp int

const (
	CEq CompareOp = iota
	CNe
	CLt
	CLe
	CGt
	CGe
)

// Expr is the typed expression tree produced by the expression resolver
// (C5). Every node records its source location and result type; only the
// fields relevant to Kind are meaningful.
type Expr struct {
	Kind ExprKind
	Span diag.Span
	Type types.Type

	// Literals.
	IntVal   *big.Int // EIntLiteral: infinite precision until checked (spec §4.5)
	BoolVal  bool
	StrVal   string
	BytesVal []byte
	AddrVal  types.Address

	// EVariable / EStorageVariable: index into the owning CFG's Locals
	// (EVariable) or Namespace.Variables (EStorageVariable).
	VarIndex int

	// EUnary.
	UnaryOp UnaryOp
	Operand *Expr

	// EBinary / ECompare / EAssign (compound assignment reuses BinOp).
	BinOp       BinaryOp
	CompareOp   CompareOp
	Signed      bool
	Left        *Expr
	Right       *Expr
	HasCompound bool // EAssign only: true for `+=` and friends

	// ECast.
	Explicit bool // true for an explicit cast, false for an implicit conversion
	Checked  bool // true if the cast must trap on overflow/truncation

	// ESubscript: Base[Index].
	Base  *Expr
	Index *Expr

	// EStructLiteral / EArrayLiteral.
	StructIndex int // EStructLiteral only
	Elements    []Expr

	// ECall.
	FuncContract int // -1 if not yet resolved to a specific contract
	FuncIndex    int
	Args         []Expr

	// EBuiltinCall.
	Builtin string

	// EAddressOfStorage: address-of the storage slot holding Operand.
}

// NewIntLiteral returns an untyped (Undefined-kind) integer literal; the
// expression resolver assigns its final type once it is checked against a
// target (spec §4.5).
func NewIntLiteral(v *big.Int, span diag.Span) Expr {
	return Expr{Kind: EIntLiteral, Span: span, IntVal: v}
}
