package sema

import (
	"math/big"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/syntax"
	"github.com/solangc/solangc/internal/types"
)

var unaryOps = map[string]ast.UnaryOp{"-": ast.UNeg, "!": ast.UNot, "~": ast.UBitNot}

func resolveUnary(env *Env, e *syntax.Expr, span diag.Span) ast.Expr {
	operand := ResolveExpr(env, e.Operand)
	op := unaryOps[e.Op]

	if op == ast.UNot {
		operand = convertTo(env, operand, types.Type{Kind: types.Bool}, span)
	}
	if operand.Kind == ast.EIntLiteral && op == ast.UNeg {
		v := new(big.Int).Neg(operand.IntVal)
		return ast.Expr{Kind: ast.EIntLiteral, Span: span, Type: smallestSignedFor(v), IntVal: v}
	}
	return ast.Expr{Kind: ast.EUnary, Span: span, Type: operand.Type, UnaryOp: op, Operand: &operand}
}

func smallestSignedFor(v *big.Int) types.Type {
	bits := v.BitLen() + 1
	width := 8
	for width < bits && width < 256 {
		width += 8
	}
	return types.NewInt(width)
}

var binaryOps = map[string]ast.BinaryOp{
	"+": ast.BAdd, "-": ast.BSub, "*": ast.BMul, "/": ast.BDiv, "%": ast.BMod,
	"&": ast.BAnd, "|": ast.BOr, "^": ast.BXor, "<<": ast.BShl, ">>": ast.BShr,
	"&&": ast.BBoolAnd, "||": ast.BBoolOr,
}

func resolveBinary(env *Env, e *syntax.Expr, span diag.Span) ast.Expr {
	left := ResolveExpr(env, e.Left)
	right := ResolveExpr(env, e.Right)
	op := binaryOps[e.Op]

	if op == ast.BBoolAnd || op == ast.BBoolOr {
		left = convertTo(env, left, types.Type{Kind: types.Bool}, span)
		right = convertTo(env, right, types.Type{Kind: types.Bool}, span)
		return ast.Expr{Kind: ast.EBinary, Span: span, Type: types.Type{Kind: types.Bool}, BinOp: op, Left: &left, Right: &right}
	}

	if left.Kind == ast.EIntLiteral && right.Kind == ast.EIntLiteral {
		if folded, ok := foldIntBinary(op, left.IntVal, right.IntVal); ok {
			return ast.Expr{Kind: ast.EIntLiteral, Span: span, Type: smallestUnsignedFor(folded), IntVal: folded}
		}
	}

	resultType, signed := unifyArithmetic(env, &left, &right, span)
	return ast.Expr{Kind: ast.EBinary, Span: span, Type: resultType, BinOp: op, Signed: signed, Left: &left, Right: &right}
}

// unifyArithmetic widens the narrower of left/right to match the other
// (an unsuffixed literal adopts the other operand's type, per spec §4.5),
// returning the shared result type and its signedness.
func unifyArithmetic(env *Env, left, right *ast.Expr, span diag.Span) (types.Type, bool) {
	if left.Kind == ast.EIntLiteral && right.Kind != ast.EIntLiteral {
		*left = convertTo(env, *left, right.Type, span)
		return right.Type, right.Type.Kind == types.Int
	}
	if right.Kind == ast.EIntLiteral && left.Kind != ast.EIntLiteral {
		*right = convertTo(env, *right, left.Type, span)
		return left.Type, left.Type.Kind == types.Int
	}
	if !left.Type.Equal(right.Type) {
		env.NS.Diagnostics.Errorf(diag.KindType, span,
			"type mismatch in arithmetic expression: %s vs %s", left.Type.String(), right.Type.String())
	}
	return left.Type, left.Type.Kind == types.Int
}

func foldIntBinary(op ast.BinaryOp, a, b *big.Int) (*big.Int, bool) {
	r := new(big.Int)
	switch op {
	case ast.BAdd:
		return r.Add(a, b), true
	case ast.BSub:
		return r.Sub(a, b), true
	case ast.BMul:
		return r.Mul(a, b), true
	case ast.BDiv:
		if b.Sign() == 0 {
			return nil, false
		}
		return r.Quo(a, b), true
	case ast.BMod:
		if b.Sign() == 0 {
			return nil, false
		}
		return r.Rem(a, b), true
	case ast.BAnd:
		return r.And(a, b), true
	case ast.BOr:
		return r.Or(a, b), true
	case ast.BXor:
		return r.Xor(a, b), true
	case ast.BShl:
		return r.Lsh(a, uint(b.Int64())), true
	case ast.BShr:
		return r.Rsh(a, uint(b.Int64())), true
	default:
		return nil, false
	}
}

var compareOps = map[string]ast.CompareOp{
	"==": ast.CEq, "!=": ast.CNe, "<": ast.CLt, "<=": ast.CLe, ">": ast.CGt, ">=": ast.CGe,
}

func resolveCompareExpr(env *Env, e *syntax.Expr, span diag.Span) ast.Expr {
	left := ResolveExpr(env, e.Left)
	right := ResolveExpr(env, e.Right)
	op := compareOps[e.Op]
	_, signed := unifyArithmetic(env, &left, &right, span)
	return ast.Expr{Kind: ast.ECompare, Span: span, Type: types.Type{Kind: types.Bool}, CompareOp: op, Signed: signed, Left: &left, Right: &right}
}

func resolveAssign(env *Env, e *syntax.Expr, span diag.Span) ast.Expr {
	target := ResolveExpr(env, e.Left)
	value := ResolveExpr(env, e.Right)

	if target.Kind != ast.EVariable && target.Kind != ast.EStorageVariable && target.Kind != ast.ESubscript {
		env.NS.Diagnostics.Errorf(diag.KindType, span, "invalid assignment target")
	}
	if env.ConstOnly {
		env.NS.Diagnostics.Errorf(diag.KindType, span, "assignment is not allowed in a constant expression")
	}

	compound := e.Op != "="
	if compound {
		op := binaryOps[e.Op[:len(e.Op)-1]]
		left := target
		right := convertTo(env, value, target.Type, span)
		value = ast.Expr{Kind: ast.EBinary, Span: span, Type: target.Type, BinOp: op, Left: &left, Right: &right}
	} else {
		value = convertTo(env, value, target.Type, span)
	}

	tgt := target
	return ast.Expr{Kind: ast.EAssign, Span: span, Type: target.Type, Left: &tgt, Right: &value, HasCompound: compound}
}
