package cfg

import (
	"testing"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/types"
)

// TestLowerTryCatchBindsBothArms exercises spec §8 scenario 5's structural
// shape: a tried external call whose failure path routes to whichever
// catch arm matches the runtime's error shape, with each arm's parameter
// bound to its own local.
func TestLowerTryCatchBindsBothArms(t *testing.T) {
	ns := ast.NewNamespace(ast.Substrate, 20)
	ns.Contracts = append(ns.Contracts, ast.NewContract("Caller", ast.ContractConcrete, 0, diag.Span{}))

	fn := &ast.Function{
		Name:     "call_it",
		Contract: 0,
		Locals: []ast.LocalVar{
			{Name: "reason", Type: types.Type{Kind: types.StringKind}},
			{Name: "data", Type: types.Type{Kind: types.DynamicBytes}},
		},
		Body: []ast.Statement{
			{
				Kind: ast.STry,
				Call: &ast.Expr{Kind: ast.ECall, FuncContract: 1, FuncIndex: 0},
				TryReturns: []ast.Param{
					{Name: "x", Type: types.NewInt(32)},
					{Name: "ok", Type: types.Type{Kind: types.Bool}},
				},
				CatchError: &ast.CatchClause{ErrorShape: true, ParamName: "reason", ParamIndex: 0},
				CatchBytes: &ast.CatchClause{ErrorShape: false, ParamName: "data", ParamIndex: 1},
			},
		},
	}

	c := Lower(ns, fn)

	var names []string
	for _, b := range c.Blocks {
		names = append(names, b.Name)
	}
	want := map[string]bool{"try.success": false, "try.end": false, "catch.error": false, "catch.bytes": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, found := range want {
		if !found {
			t.Fatalf("expected a %q block among %v", n, names)
		}
	}

	var term *ast.Terminator
	for i := range c.Blocks {
		if c.Blocks[i].Term.Kind == ast.TTryCatch {
			term = &c.Blocks[i].Term
		}
	}
	if term == nil {
		t.Fatalf("expected a TTryCatch terminator")
	}
	if term.Call.Kind != ast.IExternalCall {
		t.Fatalf("expected the tried call to lower as an external call, got %v", term.Call.Kind)
	}
	if term.CatchError == nil || term.CatchError.ParamLocal != 0 {
		t.Fatalf("expected the catch-Error arm to bind local 0, got %+v", term.CatchError)
	}
	if term.CatchBytes == nil || term.CatchBytes.ParamLocal != 1 {
		t.Fatalf("expected the catch-bytes arm to bind local 1, got %+v", term.CatchBytes)
	}
}
