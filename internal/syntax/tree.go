// Package syntax defines the untyped parse tree sema resolves against and a
// minimal recursive-descent reader that produces one. The real Solidity
// grammar/parser is an out-of-scope external collaborator; this package is
// small on purpose and is never the grammar of record — it exists only to
// drive the rest of the pipeline end to end on the contract shapes the
// pipeline must handle.
package syntax

// Pos is a byte offset into a source file, paired with the file it came
// from at the point a diag.Span is needed.
type Pos int

// TypeExpr is the untyped syntactic spelling of a type: `uint256`,
// `mapping(address => uint256)`, `MyStruct`, `uint16[3]`, and so on.
type TypeExpr struct {
	// Name is the base identifier: a primitive keyword ("uint256", "bool",
	// "address", "bytes32", "bytes", "string") or a user-defined name.
	Name string
	Pos  Pos

	// Dims holds one entry per trailing `[N]`/`[]`; -1 marks a dynamic
	// dimension (`[]`). Outermost (leftmost) first.
	Dims []int64

	// Mapping key/value, non-nil only when Name == "mapping".
	Key   *TypeExpr
	Value *TypeExpr

	// Storage is an explicit location modifier: "", "storage", "memory",
	// "calldata".
	Storage string
}

// ExprKind tags the variant of an untyped Expr.
type ExprKind int

const (
	ExInvalid ExprKind = iota
	ExIntLiteral
	ExBoolLiteral
	ExStringLiteral
	ExHexLiteral
	ExIdent
	ExUnary
	ExBinary
	ExCompare
	ExAssign
	ExCall
	ExMember
	ExIndex
	ExCast
	ExStructLiteral
	ExArrayLiteral
)

// Expr is the untyped expression tree produced by the reader.
type Expr struct {
	Kind ExprKind
	Pos  Pos

	// ExIntLiteral / ExBoolLiteral / ExStringLiteral / ExHexLiteral.
	Text string

	// ExIdent / ExMember: dotted path, one entry per segment
	// ("o", "foo" for `o.foo`).
	Path []string

	// ExUnary / ExBinary / ExCompare / ExAssign: operator text ("-", "+",
	// "==", "=", ...) plus operand(s).
	Op    string
	Left  *Expr
	Right *Expr

	// ExCall: callee plus argument list.
	Callee *Expr
	Args   []Expr

	// ExIndex: Base[Index].
	Base  *Expr
	Index *Expr

	// ExCast: target type plus operand.
	CastType *TypeExpr
	Operand  *Expr

	// ExStructLiteral / ExArrayLiteral.
	TypeName string
	Elements []Expr
}

// StmtKind tags the variant of an untyped Stmt.
type StmtKind int

const (
	StBlock StmtKind = iota
	StIf
	StWhile
	StDoWhile
	StFor
	StReturn
	StBreak
	StContinue
	StExpr
	StVarDecl
	StTry
	StRevert
)

// CatchClause is one untyped `catch` arm.
type CatchClause struct {
	// Name is "Error" for `catch Error(string memory reason)`, or "" for
	// the bare `catch (bytes memory data)` shape.
	Name      string
	ParamType *TypeExpr
	ParamName string
	Body      []Stmt
}

// Stmt is the untyped statement tree.
type Stmt struct {
	Kind StmtKind
	Pos  Pos

	Body []Stmt // StBlock / StWhile / StDoWhile / StFor body
	Then []Stmt // StIf
	Else []Stmt // StIf

	Cond *Expr // StIf / StWhile / StDoWhile / StFor

	Init []Stmt // StFor
	Post []Stmt // StFor

	Returns []Expr // StReturn

	Expr *Expr // StExpr / StRevert

	VarType *TypeExpr // StVarDecl
	VarName string
	VarInit *Expr

	Call        *Expr // StTry: the try-ed call expression
	TryReturns  []Param
	CatchError  *CatchClause
	CatchBytes  *CatchClause
}

// Param is an untyped parameter or return declaration.
type Param struct {
	Type *TypeExpr
	Name string
	Pos  Pos
}

// FunctionDecl is an untyped function/constructor/fallback/receive
// declaration.
type FunctionDecl struct {
	Name string // empty for constructor/fallback/receive
	Kind string // "constructor", "function", "fallback", "receive"
	Pos  Pos

	Visibility string // "", "private", "internal", "public", "external"
	Mutability string // "", "pure", "view", "payable"
	Virtual    bool
	Override   bool
	OverrideOf []string // explicit override(A, B) contract names, if any

	Params  []Param
	Returns []Param

	Body []Stmt // nil for bodyless (interface / abstract virtual) declarations
}

// VarDecl is an untyped state-variable declaration.
type VarDecl struct {
	Type       *TypeExpr
	Name       string
	Pos        Pos
	Visibility string
	Constant   bool
	Init       *Expr
}

// StructDecl is an untyped struct declaration.
type StructDecl struct {
	Name   string
	Pos    Pos
	Fields []Param
}

// EnumDecl is an untyped enum declaration.
type EnumDecl struct {
	Name     string
	Pos      Pos
	Variants []string
}

// ContractKind mirrors the four declaration keywords.
type ContractKind int

const (
	KindContract ContractKind = iota
	KindAbstract
	KindInterface
	KindLibrary
)

// ContractDecl is an untyped contract/interface/library declaration.
type ContractDecl struct {
	Name    string
	Kind    ContractKind
	Pos     Pos
	Inherit []string // base contract names, source order

	Structs   []StructDecl
	Enums     []EnumDecl
	Variables []VarDecl
	Functions []FunctionDecl
}

// File is one parsed source file: its path, newline offsets (for Span
// conversion), and its top-level declarations.
type File struct {
	Path        string
	LineOffsets []int

	Contracts []ContractDecl
	Structs   []StructDecl // file-scope structs
	Enums     []EnumDecl   // file-scope enums
}
