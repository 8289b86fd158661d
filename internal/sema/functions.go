package sema

import (
	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/syntax"
	"github.com/solangc/solangc/internal/types"
)

// ResolveVariables is C4's variable half (spec §4.4): resolves each state
// variable's type and visibility, assigns constants their folded
// initializer, and appends the variable into Contract.VariableIndices in
// source order (the order inheritance layout, C3, later walks).
func ResolveVariables(ns *ast.Namespace, disc *Discovery) {
	for _, idx := range disc.ContractOrder {
		cd := disc.ContractDecls[idx]
		c := &ns.Contracts[idx]
		for _, vd := range cd.Variables {
			span := ns.Span(c.File, int(vd.Pos))
			ty, _ := ResolveType(ns, c.File, idx, false, vd.Type)

			vis := types.InternalVisibility
			switch vd.Visibility {
			case "private":
				vis = types.Private
			case "public":
				vis = types.Public
			case "internal":
				vis = types.InternalVisibility
			case "external":
				ns.Diagnostics.Errorf(diag.KindDeclaration, span, "variable %q cannot be external", vd.Name)
			}
			if containsInternalFunctionPointer(ty, ns) && vis == types.Public {
				ns.Diagnostics.Errorf(diag.KindDeclaration, span,
					"variable %q contains an internal function pointer and cannot be public", vd.Name)
			}

			v := ast.Variable{
				Name: vd.Name, Span: span, File: c.File, Contract: idx,
				Type: ty, Visibility: vis, Constant: vd.Constant,
			}
			if vd.Constant && vd.Init == nil {
				ns.Diagnostics.Errorf(diag.KindDeclaration, span, "constant %q requires an initializer", vd.Name)
			}
			if vd.Init != nil {
				env := &Env{NS: ns, File: c.File, Contract: idx, ConstOnly: vd.Constant}
				init := ResolveExpr(env, vd.Init)
				init = convertTo(env, init, ty, span)
				v.Initializer = &init
			}

			ns.Variables = append(ns.Variables, v)
			vIdx := len(ns.Variables) - 1
			c.VariableIndices = append(c.VariableIndices, vIdx)
			ns.AddSymbol(ast.SymKey{File: c.File, Contract: idx, Name: vd.Name},
				ast.Symbol{Kind: ast.SymVariable, Span: span, Index: vIdx})
			ns.CheckShadowing(c.File, idx, vd.Name, span)
		}
	}
}

func containsInternalFunctionPointer(t types.Type, ns *ast.Namespace) bool {
	return t.Kind == types.Function && t.Visibility == types.InternalVisibility
}

// ResolveFunctions is C4's function half (spec §4.4): checks kind-specific
// naming/shape constraints, resolves parameter/return types and
// storage-location legality, and appends each Function into
// Contract.FunctionIndices in source order.
func ResolveFunctions(ns *ast.Namespace, disc *Discovery) {
	for _, idx := range disc.ContractOrder {
		cd := disc.ContractDecls[idx]
		c := &ns.Contracts[idx]
		for _, fd := range cd.Functions {
			fn := resolveOneFunction(ns, idx, fd)
			ns.Functions = append(ns.Functions, fn)
			fIdx := len(ns.Functions) - 1
			c.FunctionIndices = append(c.FunctionIndices, fIdx)

			key := ast.SymKey{File: c.File, Contract: idx, Name: fn.Name}
			if fn.Kind == ast.KindFunction {
				ns.AddSymbol(key, ast.Symbol{Kind: ast.SymFunction, Span: fn.Span, Funcs: []ast.FuncRef{{Span: fn.Span, Index: fIdx}}})
			}
		}
	}
}

func resolveOneFunction(ns *ast.Namespace, contract int, fd syntax.FunctionDecl) ast.Function {
	c := &ns.Contracts[contract]
	span := ns.Span(c.File, int(fd.Pos))

	fn := ast.Function{Name: fd.Name, Span: span, File: c.File, Contract: contract}
	switch fd.Kind {
	case "constructor":
		fn.Kind = ast.KindConstructor
	case "fallback":
		fn.Kind = ast.KindFallback
	case "receive":
		fn.Kind = ast.KindReceive
	default:
		fn.Kind = ast.KindFunction
	}

	if fn.Kind == ast.KindFunction && fn.Name == c.Name {
		ns.Diagnostics.Errorf(diag.KindDeclaration, span, "function %q may not have the same name as the contract", fn.Name)
	}
	if (fn.Kind == ast.KindFallback || fn.Kind == ast.KindReceive) && len(fd.Params) > 0 {
		ns.Diagnostics.Errorf(diag.KindDeclaration, span, "%s function may not have parameters", fd.Kind)
	}
	if fn.Kind == ast.KindConstructor && len(fd.Returns) > 0 {
		ns.Diagnostics.Errorf(diag.KindDeclaration, span, "constructor may not return values")
	}

	switch fd.Visibility {
	case "private":
		fn.Visibility = types.Private
	case "public":
		fn.Visibility = types.Public
	case "external":
		fn.Visibility = types.External
	case "internal":
		fn.Visibility = types.InternalVisibility
	}
	switch fd.Mutability {
	case "pure":
		fn.Mutability = types.Pure
	case "view":
		fn.Mutability = types.View
	case "payable":
		fn.Mutability = types.Payable
	}
	fn.IsVirtual = fd.Virtual
	fn.IsOverride = fd.Override
	for _, baseName := range fd.OverrideOf {
		if baseIdx, ok := ns.ResolveContract(c.File, baseName); ok {
			fn.OverrideList = append(fn.OverrideList, baseIdx)
		}
	}

	fn.Params = resolveParams(ns, c.File, contract, fd.Params, fn.Visibility, true)
	fn.Returns = resolveParams(ns, c.File, contract, fd.Returns, fn.Visibility, false)

	env := &Env{NS: ns, File: c.File, Contract: contract, Function: &fn, Locals: map[string]localBinding{}}
	for _, p := range fn.Params {
		if p.Name != "" {
			env.declareLocal(p.Name, p.Type, p.Storage)
		}
	}
	for _, r := range fn.Returns {
		if r.Name != "" {
			env.declareLocal(r.Name, r.Type, r.Storage)
		}
	}
	fn.Body = resolveBody(env, fd.Body)
	return fn
}

func resolveParams(ns *ast.Namespace, file, contract int, decls []syntax.Param, vis types.Visibility, isParam bool) []ast.Param {
	out := make([]ast.Param, 0, len(decls))
	for _, pd := range decls {
		span := ns.Span(file, int(pd.Pos))
		ty, _ := ResolveType(ns, file, contract, false, pd.Type)
		storage := pd.Type.Storage == "storage"

		if storage {
			switch ty.Kind {
			case types.FixedArray, types.DynamicArray, types.Struct, types.StringKind, types.DynamicBytes, types.Mapping:
			default:
				ns.Diagnostics.Errorf(diag.KindType, span, "storage location not legal for type %s", ty.String())
			}
			if vis == types.Public || vis == types.External {
				ns.Diagnostics.Errorf(diag.KindType, span, "storage-reference parameters are only legal on internal/private functions")
			}
		}
		if containsMapping(ty) && !storage {
			ns.Diagnostics.Errorf(diag.KindType, span, "a type containing a mapping must be storage")
		}
		if !isParam && pd.Type.Storage == "calldata" {
			ns.Diagnostics.Errorf(diag.KindType, span, "return values may not use calldata location")
		}
		out = append(out, ast.Param{Name: pd.Name, Type: ty, Storage: storage, Span: span})
	}
	return out
}

func containsMapping(t types.Type) bool {
	switch t.Kind {
	case types.Mapping:
		return true
	case types.FixedArray, types.DynamicArray, types.Ref, types.StorageRef:
		return t.Elem != nil && containsMapping(*t.Elem)
	default:
		return false
	}
}
