package sema

import (
	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/types"
)

// convertTo applies spec §4.5's implicit conversion rule at a use site
// (assignment, call argument, return value): literals retype in place when
// they fit; other values get wrapped in an implicit ECast; anything else
// is a type error with the sentinel expression returned unchanged so the
// caller can keep walking (spec §7).
func convertTo(env *Env, e ast.Expr, target types.Type, span diag.Span) ast.Expr {
	if e.Type.Equal(target) {
		return e
	}
	if e.Kind == ast.EIntLiteral && target.IsInteger() {
		if FitsInType(e.IntVal.BitLen(), e.IntVal.Sign() < 0, target) {
			e.Type = target
			return e
		}
		env.NS.Diagnostics.Errorf(diag.KindType, span,
			"literal %s does not fit in type %s", e.IntVal.String(), target.String())
		return e
	}
	if ImplicitlyConvertible(e.Type, target) {
		inner := e
		return ast.Expr{Kind: ast.ECast, Span: span, Type: target, Operand: &inner, Explicit: false}
	}
	env.NS.Diagnostics.Errorf(diag.KindType, span,
		"cannot implicitly convert %s to %s", e.Type.String(), target.String())
	return e
}
