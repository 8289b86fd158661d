package cfg

import (
	"github.com/solangc/solangc/internal/ast"
)

// setTerm assigns the current block's terminator; it is only ever called
// once per block since every lowering path checks terminated() first.
func (b *builder) setTerm(t ast.Terminator) {
	blk := &b.cfg.Blocks[b.cur]
	blk.Term = t
	blk.Terminated = true
}

func (b *builder) terminated() bool {
	return b.cfg.Blocks[b.cur].Terminated
}

// branchTo sets an unconditional branch terminator on the current block,
// unless a statement already gave it one (return/break/continue/revert).
func (b *builder) branchTo(target int) {
	if !b.terminated() {
		b.setTerm(ast.Terminator{Kind: ast.TBranch, Target: target})
	}
}

// lowerStmts lowers a statement sequence into the current block, stopping
// once the block is terminated: everything after a return/break/continue/
// revert is unreachable and sema has already warned about it.
func (b *builder) lowerStmts(stmts []ast.Statement) {
	for i := range stmts {
		if b.terminated() {
			return
		}
		b.lowerStmt(&stmts[i])
	}
}

func (b *builder) lowerStmt(s *ast.Statement) {
	switch s.Kind {
	case ast.SBlock:
		b.lowerStmts(s.Body)

	case ast.SIf:
		b.lowerIf(s)

	case ast.SWhile:
		b.lowerWhile(s)

	case ast.SDoWhile:
		b.lowerDoWhile(s)

	case ast.SFor:
		b.lowerFor(s)

	case ast.SReturn:
		vals := make([]ast.Expr, len(s.Returns))
		for i := range s.Returns {
			vals[i] = *b.lowerExpr(&s.Returns[i])
		}
		b.setTerm(ast.Terminator{Kind: ast.TReturn, Values: vals})

	case ast.SBreak:
		if len(b.loops) > 0 {
			b.setTerm(ast.Terminator{Kind: ast.TBranch, Target: b.loops[len(b.loops)-1].breakBlock})
		}

	case ast.SContinue:
		if len(b.loops) > 0 {
			b.setTerm(ast.Terminator{Kind: ast.TBranch, Target: b.loops[len(b.loops)-1].continueBlock})
		}

	case ast.SRevert:
		msg := b.lowerExpr(s.Expr)
		b.emit(ast.Instr{Kind: ast.IAssertFailure, Message: msg})
		b.setTerm(ast.Terminator{Kind: ast.TReturn})

	case ast.SExpr:
		b.lowerExpr(s.Expr)

	case ast.SVarDecl:
		if s.VarInit != nil {
			v := b.lowerExpr(s.VarInit)
			b.emit(ast.Instr{Kind: ast.ISet, Local: s.VarIndex, Expr: v})
		}

	case ast.STry:
		b.lowerTry(s)
	}
}

// lowerIf builds the classic three-block diamond: cond block branches to
// then/else, both of which rejoin at a shared merge block.
func (b *builder) lowerIf(s *ast.Statement) {
	cond := b.lowerExpr(s.Cond)
	thenBlk := b.cfg.NewBlock("if.then")
	mergeBlk := -1
	var elseBlk int

	if len(s.Else) > 0 {
		elseBlk = b.cfg.NewBlock("if.else")
	} else {
		mergeBlk = b.cfg.NewBlock("if.end")
		elseBlk = mergeBlk
	}
	b.setTerm(ast.Terminator{Kind: ast.TBranchCond, Cond: cond, TrueBlock: thenBlk, FalseBlock: elseBlk})

	needMerge := func() int {
		if mergeBlk == -1 {
			mergeBlk = b.cfg.NewBlock("if.end")
		}
		return mergeBlk
	}

	b.cur = thenBlk
	b.lowerStmts(s.Then)
	if !b.terminated() {
		b.branchTo(needMerge())
	}

	if len(s.Else) > 0 {
		b.cur = elseBlk
		b.lowerStmts(s.Else)
		if !b.terminated() {
			b.branchTo(needMerge())
		}
	}

	if mergeBlk == -1 {
		// Both arms terminated (return/revert/etc) — nothing falls through,
		// but later statements in the caller still need a live block to
		// lower into, matching an unreachable tail.
		mergeBlk = b.cfg.NewBlock("if.end")
	}
	b.cur = mergeBlk
}

func (b *builder) lowerWhile(s *ast.Statement) {
	header := b.cfg.NewBlock("while.cond")
	body := b.cfg.NewBlock("while.body")
	after := b.cfg.NewBlock("while.end")

	b.branchTo(header)
	b.cur = header
	cond := b.lowerExpr(s.Cond)
	b.setTerm(ast.Terminator{Kind: ast.TBranchCond, Cond: cond, TrueBlock: body, FalseBlock: after})

	b.loops = append(b.loops, loopTargets{continueBlock: header, breakBlock: after})
	b.cur = body
	b.lowerStmts(s.Body)
	b.branchTo(header)
	b.loops = b.loops[:len(b.loops)-1]

	b.cur = after
}

func (b *builder) lowerDoWhile(s *ast.Statement) {
	body := b.cfg.NewBlock("dowhile.body")
	cond := b.cfg.NewBlock("dowhile.cond")
	after := b.cfg.NewBlock("dowhile.end")

	b.branchTo(body)
	b.loops = append(b.loops, loopTargets{continueBlock: cond, breakBlock: after})
	b.cur = body
	b.lowerStmts(s.Body)
	b.branchTo(cond)
	b.loops = b.loops[:len(b.loops)-1]

	b.cur = cond
	condExpr := b.lowerExpr(s.Cond)
	b.setTerm(ast.Terminator{Kind: ast.TBranchCond, Cond: condExpr, TrueBlock: body, FalseBlock: after})

	b.cur = after
}

func (b *builder) lowerFor(s *ast.Statement) {
	b.lowerStmts(s.Init)
	if b.terminated() {
		return
	}

	header := b.cfg.NewBlock("for.cond")
	body := b.cfg.NewBlock("for.body")
	post := b.cfg.NewBlock("for.post")
	after := b.cfg.NewBlock("for.end")

	b.branchTo(header)
	b.cur = header
	if s.Cond != nil {
		cond := b.lowerExpr(s.Cond)
		b.setTerm(ast.Terminator{Kind: ast.TBranchCond, Cond: cond, TrueBlock: body, FalseBlock: after})
	} else {
		b.setTerm(ast.Terminator{Kind: ast.TBranch, Target: body})
	}

	b.loops = append(b.loops, loopTargets{continueBlock: post, breakBlock: after})
	b.cur = body
	b.lowerStmts(s.Body)
	b.branchTo(post)
	b.loops = b.loops[:len(b.loops)-1]

	b.cur = post
	b.lowerStmts(s.Post)
	b.branchTo(header)

	b.cur = after
}

// lowerTry implements spec §4.6's try/catch lowering: the tried call
// becomes the block's terminator (TTryCatch), its ordinary success path
// continues in a fresh block with the call's results bound, and its
// failure path routes to whichever catch arm matches the runtime's error
// shape.
func (b *builder) lowerTry(s *ast.Statement) {
	args := b.lowerArgs(s.Call.Args)

	callInstr := &ast.Instr{Kind: ast.ICall, FuncIndex: s.Call.FuncIndex, Args: args}
	if s.Call.FuncContract >= 0 && s.Call.FuncContract != b.fn.Contract {
		callInstr.Kind = ast.IExternalCall
	}

	success := b.cfg.NewBlock("try.success")
	after := b.cfg.NewBlock("try.end")

	term := ast.Terminator{Kind: ast.TTryCatch, Call: callInstr, SuccessBlock: success}

	if s.CatchError != nil {
		blk := b.cfg.NewBlock("catch.error")
		term.CatchError = &ast.CatchTarget{ParamLocal: s.CatchError.ParamIndex, Block: blk}
	}
	if s.CatchBytes != nil {
		blk := b.cfg.NewBlock("catch.bytes")
		term.CatchBytes = &ast.CatchTarget{ParamLocal: s.CatchBytes.ParamIndex, Block: blk}
	}
	b.setTerm(term)

	b.cur = success
	for _, ret := range s.TryReturns {
		dest := b.cfg.NewLocal(ret.Name, ret.Type, false)
		callInstr.Rets = append(callInstr.Rets, dest)
	}
	b.branchTo(after)

	if s.CatchError != nil {
		b.cur = term.CatchError.Block
		b.lowerStmts(s.CatchError.Body)
		b.branchTo(after)
	}
	if s.CatchBytes != nil {
		b.cur = term.CatchBytes.Block
		b.lowerStmts(s.CatchBytes.Body)
		b.branchTo(after)
	}

	b.cur = after
}
