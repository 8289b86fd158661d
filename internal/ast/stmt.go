package ast

import (
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/types"
)

// StmtKind tags the variant of a pre-CFG typed Statement.
type StmtKind int

const (
	SBlock StmtKind = iota
	SIf
	SWhile
	SDoWhile
	SFor
	SReturn
	SBreak
	SContinue
	SExpr
	SVarDecl
	STry
	SRevert
)

// CatchClause is one `catch` arm of a try/catch statement. Per spec §4.6,
// the only legal shapes are `catch Error(string memory)` and
// `catch (bytes memory)`; ErrorShape distinguishes them.
type CatchClause struct {
	ErrorShape bool // true for `catch Error(string)`, false for `catch (bytes)`
	ParamName  string
	ParamType  types.Type
	ParamIndex int // index into the owning function's Locals
	Body       []Statement
}

// Statement is the typed, pre-lowering statement tree the CFG lowerer
// (C6) walks. It mirrors the syntactic shapes of spec §4.6 but with typed
// sub-expressions already resolved by C5.
type Statement struct {
	Kind StmtKind
	Span diag.Span

	// SBlock / SWhile / SDoWhile / SFor bodies, and SIf arms.
	Body []Statement
	Then []Statement
	Else []Statement

	// SIf / SWhile / SDoWhile / SFor.
	Cond *Expr

	// SFor only.
	Init []Statement
	Post []Statement

	// SReturn.
	Returns []Expr

	// SExpr / SRevert.
	Expr *Expr

	// SVarDecl.
	VarName  string
	VarType  types.Type
	VarInit  *Expr
	VarIndex int // index into the owning function's Locals

	// STry: Call is the external-call or constructor-call expression being
	// tried; Returns/ReturnTypes name the success-path bindings.
	Call        *Expr
	TryReturns  []Param
	CatchError  *CatchClause
	CatchBytes  *CatchClause
}
