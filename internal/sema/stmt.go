package sema

import (
	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/syntax"
	"github.com/solangc/solangc/internal/types"
)

func stringType() types.Type { return types.Type{Kind: types.StringKind} }
func bytesType() types.Type  { return types.Type{Kind: types.DynamicBytes} }

// resolveBody resolves a block of untyped statements into the typed
// Statement tree C6 lowers (spec §4.6), threading a fresh child scope so
// block-local declarations don't leak to sibling statements.
func resolveBody(env *Env, stmts []syntax.Stmt) []ast.Statement {
	scope := env.child()
	return resolveStmts(scope, stmts)
}

func resolveStmts(env *Env, stmts []syntax.Stmt) []ast.Statement {
	out := make([]ast.Statement, 0, len(stmts))
	deadCode := false
	for _, s := range stmts {
		st := resolveStmt(env, &s)
		if deadCode {
			env.NS.Diagnostics.Warnf(st.Span, "unreachable code")
		}
		if st.Kind == ast.SReturn || st.Kind == ast.SBreak || st.Kind == ast.SContinue || st.Kind == ast.SRevert {
			deadCode = true
		}
		out = append(out, st)
	}
	return out
}

func resolveStmt(env *Env, s *syntax.Stmt) ast.Statement {
	span := env.NS.Span(env.File, int(s.Pos))
	switch s.Kind {
	case syntax.StBlock:
		return ast.Statement{Kind: ast.SBlock, Span: span, Body: resolveBody(env, s.Body)}

	case syntax.StIf:
		cond := ResolveExpr(env, s.Cond)
		return ast.Statement{
			Kind: ast.SIf, Span: span, Cond: &cond,
			Then: resolveBody(env, s.Then),
			Else: resolveBody(env, s.Else),
		}

	case syntax.StWhile:
		cond := ResolveExpr(env, s.Cond)
		return ast.Statement{Kind: ast.SWhile, Span: span, Cond: &cond, Body: resolveBody(env, s.Body)}

	case syntax.StDoWhile:
		cond := ResolveExpr(env, s.Cond)
		return ast.Statement{Kind: ast.SDoWhile, Span: span, Cond: &cond, Body: resolveBody(env, s.Body)}

	case syntax.StFor:
		scope := env.child()
		var cond *ast.Expr
		if s.Cond != nil {
			c := ResolveExpr(scope, s.Cond)
			cond = &c
		}
		return ast.Statement{
			Kind: ast.SFor, Span: span,
			Init: resolveStmts(scope, s.Init),
			Cond: cond,
			Post: resolveStmts(scope, s.Post),
			Body: resolveStmts(scope, s.Body),
		}

	case syntax.StReturn:
		rets := make([]ast.Expr, len(s.Returns))
		for i := range s.Returns {
			rets[i] = ResolveExpr(env, &s.Returns[i])
			if i < len(env.Function.Returns) {
				rets[i] = convertTo(env, rets[i], env.Function.Returns[i].Type, span)
			}
		}
		if len(s.Returns) != len(env.Function.Returns) && len(s.Returns) != 0 {
			env.NS.Diagnostics.Errorf(diag.KindType, span,
				"expected %d return value(s), got %d", len(env.Function.Returns), len(s.Returns))
		}
		return ast.Statement{Kind: ast.SReturn, Span: span, Returns: rets}

	case syntax.StBreak:
		return ast.Statement{Kind: ast.SBreak, Span: span}

	case syntax.StContinue:
		return ast.Statement{Kind: ast.SContinue, Span: span}

	case syntax.StRevert:
		var msg *ast.Expr
		if s.Expr != nil {
			m := ResolveExpr(env, s.Expr)
			msg = &m
		}
		return ast.Statement{Kind: ast.SRevert, Span: span, Expr: msg}

	case syntax.StExpr:
		e := ResolveExpr(env, s.Expr)
		return ast.Statement{Kind: ast.SExpr, Span: span, Expr: &e}

	case syntax.StVarDecl:
		ty, _ := ResolveType(env.NS, env.File, env.Contract, false, s.VarType)
		var init *ast.Expr
		if s.VarInit != nil {
			v := ResolveExpr(env, s.VarInit)
			v = convertTo(env, v, ty, span)
			init = &v
		}
		env.NS.CheckShadowing(env.File, env.Contract, s.VarName, span)
		idx := env.declareLocal(s.VarName, ty, ty.Kind == types.StorageRef)
		return ast.Statement{Kind: ast.SVarDecl, Span: span, VarName: s.VarName, VarType: ty, VarInit: init, VarIndex: idx}

	case syntax.StTry:
		return resolveTry(env, s, span)

	default:
		env.NS.Diagnostics.Errorf(diag.KindSyntax, span, "unsupported statement")
		return ast.Statement{Kind: ast.SExpr, Span: span}
	}
}

func resolveTry(env *Env, s *syntax.Stmt, span diag.Span) ast.Statement {
	call := ResolveExpr(env, s.Call)

	st := ast.Statement{Kind: ast.STry, Span: span, Call: &call}
	for _, r := range s.TryReturns {
		ty, _ := ResolveType(env.NS, env.File, env.Contract, false, r.Type)
		st.TryReturns = append(st.TryReturns, ast.Param{Name: r.Name, Type: ty, Span: span})
	}

	if s.CatchError == nil && s.CatchBytes == nil {
		env.NS.Diagnostics.Errorf(diag.KindSyntax, span, "try statement must have at least one catch clause")
	}
	if s.CatchError != nil {
		scope := env.child()
		idx := scope.declareLocal(s.CatchError.ParamName, stringType(), false)
		st.CatchError = &ast.CatchClause{ErrorShape: true, ParamName: s.CatchError.ParamName, ParamType: stringType(), ParamIndex: idx, Body: resolveStmts(scope, s.CatchError.Body)}
	}
	if s.CatchBytes != nil {
		scope := env.child()
		idx := scope.declareLocal(s.CatchBytes.ParamName, bytesType(), false)
		st.CatchBytes = &ast.CatchClause{ErrorShape: false, ParamName: s.CatchBytes.ParamName, ParamType: bytesType(), ParamIndex: idx, Body: resolveStmts(scope, s.CatchBytes.Body)}
	}
	return st
}
