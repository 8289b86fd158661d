package ast

import "github.com/solangc/solangc/internal/types"

// LocalVar is one entry of a CFG's local-variable table (spec §3, CFG):
// name, type, and whether it is bound to a storage slot rather than a
// stack/memory value.
type LocalVar struct {
	Name    string
	Type    types.Type
	Storage bool
}

// InstrKind tags the variant of a CFG Instr (spec §3, CFG).
type InstrKind int

const (
	ISet InstrKind = iota
	ISetStorage
	ILoadStorage
	IClearStorage
	IPushStorageBytes
	IPopStorageBytes
	ICall
	IExternalCall
	IConstructor
	IAssertFailure
	IPrint
)

// Instr is one CFG instruction. As with Expr, only the fields relevant to
// Kind are meaningful. A basic block's instruction list never contains a
// control-flow instruction — those live in the block's Term (spec §3: "each
// block: instruction list terminated by exactly one control instruction").
type Instr struct {
	Kind InstrKind

	// ISet: Local = Expr.
	Local int
	Expr  *Expr

	// ISetStorage / ILoadStorage / IClearStorage / IPushStorageBytes /
	// IPopStorageBytes: the slot address expression and the value's type.
	Type     types.Type
	SlotExpr *Expr

	// ICall: direct call to a CFG-local or same-contract function.
	FuncIndex int
	Args      []Expr
	Rets      []int // destination locals for the call's return values

	// IExternalCall / IConstructor.
	Address          *Expr
	Payload          *Expr
	Value            *Expr
	Gas              *Expr
	ReturnLocals     []int
	NewContract      int
	ConstructorIndex int
	Salt             *Expr

	// IAssertFailure: optional revert-reason message.
	Message *Expr

	// IPrint.
	PrintExpr *Expr
}

// TermKind tags the variant of a BasicBlock's terminator.
type TermKind int

const (
	TReturn TermKind = iota
	TBranch
	TBranchCond
	TTryCatch
)

// CatchTarget names where a try/catch's Error(string) or (bytes) arm binds
// its parameter and continues.
type CatchTarget struct {
	ParamLocal int
	Block      int
}

// Terminator is the single control instruction every basic block ends
// with.
type Terminator struct {
	Kind TermKind

	// TReturn.
	Values []Expr

	// TBranch.
	Target int

	// TBranchCond.
	Cond       *Expr
	TrueBlock  int
	FalseBlock int

	// TTryCatch: Call is the external-call/constructor instruction being
	// tried; its two ordinary successors are SuccessBlock/FailureBlock.
	// CatchError/CatchBytes name which catch arm (if any) the failure path
	// routes to; spec §4.6 requires at least one to be present.
	Call         *Instr
	SuccessBlock int
	CatchError   *CatchTarget
	CatchBytes   *CatchTarget
}

// BasicBlock is one CFG node: a straight-line instruction list ending in
// exactly one Terminator.
type BasicBlock struct {
	Name   string
	Instrs []Instr
	Term   Terminator

	// Terminated tracks whether Term has actually been assigned by the
	// lowerer, since Terminator's zero value (TReturn) is indistinguishable
	// from an empty-return statement otherwise.
	Terminated bool
}

// CFG is a function's lowered control-flow graph (spec §3). Blocks are
// addressed by index, never by pointer, so the whole graph is a plain value
// — cheap to clone for analysis and immune to aliasing hazards during
// emission (design note, spec §9).
type CFG struct {
	Blocks []BasicBlock
	Locals []LocalVar

	// ReadsStorage / WritesStorage are the disjunction over every
	// instruction in every block (spec §4.6), computed once by the lowerer.
	ReadsStorage  bool
	WritesStorage bool
}

// NewBlock appends a named, empty basic block and returns its index.
func (c *CFG) NewBlock(name string) int {
	c.Blocks = append(c.Blocks, BasicBlock{Name: name})
	return len(c.Blocks) - 1
}

// NewLocal appends a local variable binding and returns its index.
func (c *CFG) NewLocal(name string, t types.Type, storage bool) int {
	c.Locals = append(c.Locals, LocalVar{Name: name, Type: t, Storage: storage})
	return len(c.Locals) - 1
}
