package sema

import (
	"math/big"
	"strings"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/syntax"
	"github.com/solangc/solangc/internal/types"
)

// undefinedExpr is the sentinel C5 returns on unrecoverable expression
// errors, so statement lowering can keep walking the tree (spec §7).
func undefinedExpr(span diag.Span) ast.Expr {
	return ast.Expr{Kind: ast.EInvalid, Span: span, Type: types.Type{Kind: types.Undefined}}
}

// ResolveExpr is C5's entry point (spec §4.5): turns a syntactic expression
// into a typed ast.Expr given env, performing implicit conversions,
// constant folding (in ConstOnly contexts), and overload resolution as it
// goes.
func ResolveExpr(env *Env, e *syntax.Expr) ast.Expr {
	if e == nil {
		return undefinedExpr(diag.Span{})
	}
	span := env.NS.Span(env.File, int(e.Pos))
	switch e.Kind {
	case syntax.ExIntLiteral:
		v := new(big.Int)
		v.SetString(strings.ReplaceAll(e.Text, "_", ""), 10)
		return ast.Expr{Kind: ast.EIntLiteral, Span: span, Type: smallestUnsignedFor(v), IntVal: v}

	case syntax.ExHexLiteral:
		return resolveHexLiteral(env, e, span)

	case syntax.ExBoolLiteral:
		return ast.Expr{Kind: ast.EBoolLiteral, Span: span, Type: types.Type{Kind: types.Bool}, BoolVal: e.Text == "true"}

	case syntax.ExStringLiteral:
		return ast.Expr{Kind: ast.EStringLiteral, Span: span, Type: types.Type{Kind: types.StringKind}, StrVal: e.Text}

	case syntax.ExIdent:
		return resolveIdent(env, e, span)

	case syntax.ExUnary:
		return resolveUnary(env, e, span)

	case syntax.ExBinary:
		return resolveBinary(env, e, span)

	case syntax.ExCompare:
		return resolveCompareExpr(env, e, span)

	case syntax.ExAssign:
		return resolveAssign(env, e, span)

	case syntax.ExCall:
		return resolveCall(env, e, span)

	case syntax.ExMember:
		return resolveMember(env, e, span)

	case syntax.ExIndex:
		return resolveIndex(env, e, span)

	default:
		env.NS.Diagnostics.Errorf(diag.KindType, span, "unsupported expression")
		return undefinedExpr(span)
	}
}

// smallestUnsignedFor implements spec §4.5: "An unsuffixed literal adopts
// the smallest unsigned type that fits, extended on assignment."
func smallestUnsignedFor(v *big.Int) types.Type {
	bits := v.BitLen()
	width := 8
	for width < bits && width < 256 {
		width += 8
	}
	if width > 256 {
		width = 256
	}
	return types.NewUint(width)
}

func resolveHexLiteral(env *Env, e *syntax.Expr, span diag.Span) ast.Expr {
	body := strings.TrimPrefix(strings.TrimPrefix(e.Text, "0x"), "0X")
	if len(body) == 40 {
		if !types.IsChecksumValid(e.Text) {
			env.NS.Diagnostics.Errorf(diag.KindType, span,
				"address literal %q has an invalid EIP-55 checksum", e.Text)
		}
		addr, err := types.ParseAddress(e.Text)
		if err != nil {
			env.NS.Diagnostics.Errorf(diag.KindType, span, "malformed address literal %q", e.Text)
			return undefinedExpr(span)
		}
		return ast.Expr{Kind: ast.EAddressLiteral, Span: span, Type: types.Type{Kind: types.AddressKind}, AddrVal: addr}
	}
	b := make([]byte, 0, len(body)/2)
	for i := 0; i+1 < len(body); i += 2 {
		var hi, lo byte
		hi = hexNibble(body[i])
		lo = hexNibble(body[i+1])
		b = append(b, hi<<4|lo)
	}
	return ast.Expr{Kind: ast.EBytesLiteral, Span: span, Type: types.Type{Kind: types.DynamicBytes}, BytesVal: b}
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

func resolveIdent(env *Env, e *syntax.Expr, span diag.Span) ast.Expr {
	name := e.Path[0]
	if lb, ok := env.Locals[name]; ok {
		return ast.Expr{Kind: ast.EVariable, Span: span, Type: lb.typ, VarIndex: lb.index}
	}
	if varIdx, ok := env.NS.ResolveVar(env.File, env.Contract, name); ok {
		v := env.NS.Variables[varIdx]
		if env.ConstOnly && v.IsStorage() {
			env.NS.Diagnostics.Errorf(diag.KindType, span, "cannot read storage variable %q in a constant expression", name)
			return undefinedExpr(span)
		}
		return ast.Expr{Kind: ast.EStorageVariable, Span: span, Type: v.Type, VarIndex: varIdx}
	}
	env.NS.Diagnostics.Errorf(diag.KindDeclaration, span, "undeclared identifier %q", name)
	return undefinedExpr(span)
}
