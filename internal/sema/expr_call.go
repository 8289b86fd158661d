package sema

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/syntax"
	"github.com/solangc/solangc/internal/types"
)

var castPrimitives = map[string]types.Type{
	"bool":    {Kind: types.Bool},
	"address": {Kind: types.AddressKind},
	"string":  {Kind: types.StringKind},
	"bytes":   {Kind: types.DynamicBytes},
}

// primitiveCastType recognizes a bare identifier as a primitive type name
// usable as an explicit-cast callee (`uint256(x)`, `bytes4(y)`, ...).
func primitiveCastType(name string) (types.Type, bool) {
	if t, ok := castPrimitives[name]; ok {
		return t, true
	}
	if strings.HasPrefix(name, "uint") {
		if w, ok := parseWidth(name, "uint"); ok {
			return types.NewUint(w), true
		}
	}
	if strings.HasPrefix(name, "int") {
		if w, ok := parseWidth(name, "int"); ok {
			return types.NewInt(w), true
		}
	}
	if strings.HasPrefix(name, "bytes") && len(name) > 5 {
		if n, err := strconv.Atoi(name[5:]); err == nil && n >= 1 && n <= 32 {
			return types.NewFixedBytes(n), true
		}
	}
	return types.Type{}, false
}

var builtinNames = map[string]bool{
	"require": true, "assert": true, "selfdestruct": true, "print": true,
}

func resolveCall(env *Env, e *syntax.Expr, span diag.Span) ast.Expr {
	if e.Callee.Kind == syntax.ExIdent && len(e.Callee.Path) == 1 {
		name := e.Callee.Path[0]

		if name == "keccak256" {
			args := resolveArgs(env, e.Args)
			var arg ast.Expr
			if len(args) > 0 {
				arg = args[0]
			}
			return ast.Expr{Kind: ast.EKeccak256, Span: span, Type: types.NewFixedBytes(32), Operand: &arg}
		}

		if ty, ok := primitiveCastType(name); ok {
			args := resolveArgs(env, e.Args)
			if len(args) != 1 {
				env.NS.Diagnostics.Errorf(diag.KindType, span, "cast to %s expects exactly one argument", ty.String())
				return undefinedExpr(span)
			}
			if !ImplicitlyConvertible(args[0].Type, ty) && !ImplicitlyConvertible(ty, args[0].Type) &&
				!(args[0].Type.IsInteger() && ty.IsInteger()) {
				env.NS.Diagnostics.Warnf(span, "cast from %s to %s may lose precision", args[0].Type.String(), ty.String())
			}
			arg := args[0]
			return ast.Expr{Kind: ast.ECast, Span: span, Type: ty, Operand: &arg, Explicit: true, Checked: true}
		}

		if _, isStructOrEnum := structOrEnumLookup(env, name); isStructOrEnum {
			return resolveStructConstructorCall(env, name, e, span)
		}

		if builtinNames[name] {
			args := resolveArgs(env, e.Args)
			return ast.Expr{Kind: ast.EBuiltinCall, Span: span, Type: types.Type{Kind: types.Undefined}, Builtin: name, Args: args}
		}

		return resolveDirectFunctionCall(env, name, e, span)
	}

	if e.Callee.Kind == syntax.ExMember {
		return resolveMemberCall(env, e, span)
	}

	env.NS.Diagnostics.Errorf(diag.KindType, span, "expression is not callable")
	return undefinedExpr(span)
}

func resolveArgs(env *Env, exprs []syntax.Expr) []ast.Expr {
	out := make([]ast.Expr, len(exprs))
	for i := range exprs {
		out[i] = ResolveExpr(env, &exprs[i])
	}
	return out
}

func structOrEnumLookup(env *Env, name string) (ast.Symbol, bool) {
	sym, ok := lookupTypeSymbol(env.NS, env.File, env.Contract, name)
	if !ok || (sym.Kind != ast.SymStruct && sym.Kind != ast.SymEnum) {
		return ast.Symbol{}, false
	}
	return sym, true
}

func resolveStructConstructorCall(env *Env, name string, e *syntax.Expr, span diag.Span) ast.Expr {
	sym, _ := structOrEnumLookup(env, name)
	if sym.Kind != ast.SymStruct {
		env.NS.Diagnostics.Errorf(diag.KindType, span, "%q is not a struct", name)
		return undefinedExpr(span)
	}
	st := env.NS.Structs[sym.Index]
	args := resolveArgs(env, e.Args)
	if len(args) != len(st.Fields) {
		env.NS.Diagnostics.Errorf(diag.KindType, span,
			"struct %q constructor expects %d arguments, got %d", name, len(st.Fields), len(args))
	}
	for i := range args {
		if i < len(st.Fields) {
			args[i] = convertTo(env, args[i], st.Fields[i].Type, span)
		}
	}
	return ast.Expr{Kind: ast.EStructLiteral, Span: span, Type: types.NewStruct(sym.Index), StructIndex: sym.Index, Elements: args}
}

// resolveDirectFunctionCall implements C5's overload resolution (spec
// §4.5): among the candidates visible under name, select the one whose
// parameters all accept the given arguments via implicit conversion. More
// than one viable candidate is an ambiguity error.
func resolveDirectFunctionCall(env *Env, name string, e *syntax.Expr, span diag.Span) ast.Expr {
	refs, ok := env.NS.ResolveFunc(env.File, env.Contract, name)
	if !ok {
		env.NS.Diagnostics.Errorf(diag.KindDeclaration, span, "undeclared function %q", name)
		return undefinedExpr(span)
	}
	args := resolveArgs(env, e.Args)
	return pickOverload(env, refs, args, name, span)
}

func pickOverload(env *Env, refs []ast.FuncRef, args []ast.Expr, name string, span diag.Span) ast.Expr {
	var viable []ast.FuncRef
	for _, ref := range refs {
		fn := env.NS.Functions[ref.Index]
		if len(fn.Params) != len(args) {
			continue
		}
		ok := true
		for i, p := range fn.Params {
			if !argAccepts(args[i], p.Type) {
				ok = false
				break
			}
		}
		if ok {
			viable = append(viable, ref)
		}
	}
	if len(viable) == 0 {
		env.NS.Diagnostics.Errorf(diag.KindDeclaration, span, "no overload of %q matches the given arguments", name)
		return undefinedExpr(span)
	}
	if len(viable) > 1 {
		notes := make([]diag.Note, len(viable))
		for i, v := range viable {
			notes[i] = diag.Note{Span: env.NS.Functions[v.Index].Span, Message: "candidate here"}
		}
		env.NS.Diagnostics.ErrorWithNotes(diag.KindDeclaration, span,
			fmt.Sprintf("call to %q is ambiguous between multiple overloads", name), notes)
	}
	winner := viable[0]
	fn := env.NS.Functions[winner.Index]
	for i := range args {
		args[i] = convertTo(env, args[i], fn.Params[i].Type, span)
	}
	var rets []types.Type
	for _, r := range fn.Returns {
		rets = append(rets, r.Type)
	}
	resultType := types.Type{Kind: types.Undefined}
	if len(rets) == 1 {
		resultType = rets[0]
	}
	if env.ConstOnly && fn.Mutability != types.Pure {
		env.NS.Diagnostics.Errorf(diag.KindType, span, "cannot call non-pure function %q in a constant expression", name)
	}
	return ast.Expr{Kind: ast.ECall, Span: span, Type: resultType, FuncContract: fn.Contract, FuncIndex: winner.Index, Args: args}
}

// argAccepts is the per-argument admissibility test overload resolution
// uses: an int literal is checked against FitsInType, anything else must be
// implicitly convertible.
func argAccepts(arg ast.Expr, to types.Type) bool {
	if arg.Kind == ast.EIntLiteral && arg.IntVal != nil && arg.Type.IsInteger() && to.IsInteger() {
		return FitsInType(arg.IntVal.BitLen(), arg.IntVal.Sign() < 0, to)
	}
	if arg.Type.Equal(to) {
		return true
	}
	return ImplicitlyConvertible(arg.Type, to)
}

func resolveMemberCall(env *Env, e *syntax.Expr, span diag.Span) ast.Expr {
	base := ResolveExpr(env, e.Callee.Base)
	member := e.Callee.Path[0]
	args := resolveArgs(env, e.Args)

	if base.Type.Kind == types.Contract {
		c := env.NS.Contracts[base.Type.Index]
		refs := symbolsForContractFunc(env.NS, c.File, base.Type.Index, member)
		if len(refs) == 0 {
			env.NS.Diagnostics.Errorf(diag.KindDeclaration, span, "contract %q has no external function %q", c.Name, member)
			return undefinedExpr(span)
		}
		return pickOverload(env, refs, args, member, span)
	}

	// Builtin member operations (dynamic array/bytes push/pop/length, etc).
	allArgs := append([]ast.Expr{base}, args...)
	return ast.Expr{Kind: ast.EBuiltinCall, Span: span, Type: types.Type{Kind: types.Undefined}, Builtin: member, Args: allArgs}
}

func symbolsForContractFunc(ns *ast.Namespace, file, contract int, name string) []ast.FuncRef {
	refs, _ := ns.ResolveFunc(file, contract, name)
	return refs
}

func resolveMember(env *Env, e *syntax.Expr, span diag.Span) ast.Expr {
	member := e.Path[0]

	if e.Base.Kind == syntax.ExIdent && len(e.Base.Path) == 1 {
		if sym, ok := structOrEnumLookup(env, e.Base.Path[0]); ok && sym.Kind == ast.SymEnum {
			enum := env.NS.Enums[sym.Index]
			for i, variant := range enum.Variants {
				if variant == member {
					return ast.Expr{Kind: ast.EIntLiteral, Span: span, Type: types.NewEnum(sym.Index), IntVal: bigFromInt(i)}
				}
			}
			env.NS.Diagnostics.Errorf(diag.KindDeclaration, span, "enum %q has no variant %q", enum.Name, member)
			return undefinedExpr(span)
		}
	}

	base := ResolveExpr(env, e.Base)
	if base.Type.Kind == types.Struct {
		st := env.NS.Structs[base.Type.Index]
		for _, f := range st.Fields {
			if f.Name == member {
				return ast.Expr{Kind: ast.ESubscript, Span: span, Type: f.Type, Base: &base}
			}
		}
		env.NS.Diagnostics.Errorf(diag.KindDeclaration, span, "struct %q has no field %q", st.Name, member)
		return undefinedExpr(span)
	}

	return ast.Expr{Kind: ast.EBuiltinCall, Span: span, Type: types.Type{Kind: types.Undefined}, Builtin: member, Args: []ast.Expr{base}}
}

func resolveIndex(env *Env, e *syntax.Expr, span diag.Span) ast.Expr {
	base := ResolveExpr(env, e.Base)
	idx := ResolveExpr(env, e.Index)

	var elemType types.Type
	switch base.Type.Kind {
	case types.FixedArray, types.DynamicArray:
		elemType = *base.Type.Elem
	case types.Mapping:
		idx = convertTo(env, idx, *base.Type.Key, span)
		elemType = *base.Type.Value
	case types.DynamicBytes, types.FixedBytes:
		elemType = types.NewFixedBytes(1)
	default:
		env.NS.Diagnostics.Errorf(diag.KindType, span, "type %s is not indexable", base.Type.String())
		elemType = types.Type{Kind: types.Undefined}
	}
	return ast.Expr{Kind: ast.ESubscript, Span: span, Type: elemType, Base: &base, Index: &idx}
}

func bigFromInt(i int) *big.Int { return big.NewInt(int64(i)) }
