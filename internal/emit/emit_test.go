package emit

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/target"
	"github.com/solangc/solangc/internal/types"
)

// flipperNamespace hand-builds the Flipper-shaped namespace from spec §8
// scenario 2 (one constructor, one write, one read) without going through
// sema, so EmitContract can be exercised in isolation.
func flipperNamespace(t ast.Target) *ast.Namespace {
	ns := ast.NewNamespace(t, 20)
	ns.Contracts = append(ns.Contracts, ast.NewContract("Flipper", ast.ContractConcrete, 0, diag.Span{}))

	boolT := types.Type{Kind: types.Bool}

	ctor := ast.Function{
		Name: "Flipper", Contract: 0, Kind: ast.KindConstructor,
		Visibility: types.Public, Mutability: types.MutabilityDefault,
		Params: []ast.Param{{Name: "initial", Type: boolT}},
		CFG:    &ast.CFG{WritesStorage: true},
	}
	flip := ast.Function{
		Name: "flip", Contract: 0, Kind: ast.KindFunction,
		Visibility: types.Public, Mutability: types.MutabilityDefault,
		CFG: &ast.CFG{WritesStorage: true},
	}
	get := ast.Function{
		Name: "get", Contract: 0, Kind: ast.KindFunction,
		Visibility: types.Public, Mutability: types.View,
		Returns: []ast.Param{{Name: "", Type: boolT}},
		CFG:     &ast.CFG{ReadsStorage: true},
	}
	ns.Functions = append(ns.Functions, ctor, flip, get)
	ns.Contracts[0].FunctionIndices = []int{0, 1, 2}
	ns.Contracts[0].FunctionTable["Flipper(bool)"] = ast.DispatchEntry{Contract: 0, Function: 0, CFG: ctor.CFG}
	ns.Contracts[0].FunctionTable["flip()"] = ast.DispatchEntry{Contract: 0, Function: 1, CFG: flip.CFG}
	ns.Contracts[0].FunctionTable["get()"] = ast.DispatchEntry{Contract: 0, Function: 2, CFG: get.CFG}
	ns.Contracts[0].Initializer = &ast.CFG{}

	return ns
}

func TestEmitContractEthereumABI(t *testing.T) {
	ns := flipperNamespace(ast.Ewasm)
	e := New(ns, target.NewEwasm())
	mod := e.EmitContract(0)

	if mod.ContractName != "Flipper" {
		t.Fatalf("expected contract name Flipper, got %q", mod.ContractName)
	}
	if !strings.Contains(mod.IR, "fn.flip__") && !strings.Contains(mod.IR, "fn.flip") {
		t.Fatalf("expected the IR to define a flip function, got:\n%s", mod.IR)
	}
	if !strings.Contains(mod.IR, "sha3") {
		t.Fatalf("expected the shared helpers to be emitted, got:\n%s", mod.IR)
	}

	var entries []abiEntry
	if err := json.Unmarshal(mod.ABI, &entries); err != nil {
		t.Fatalf("expected valid Ethereum ABI JSON, got error %v:\n%s", err, mod.ABI)
	}
	var sawCtor, sawFlip, sawGet bool
	for _, e := range entries {
		switch {
		case e.Type == "constructor":
			sawCtor = true
		case e.Name == "flip":
			sawFlip = true
		case e.Name == "get":
			sawGet = true
			if len(e.Outputs) != 1 || e.Outputs[0].Type != "bool" {
				t.Fatalf("expected get() to return a single bool, got %+v", e.Outputs)
			}
		}
	}
	if !sawCtor || !sawFlip || !sawGet {
		t.Fatalf("expected constructor, flip and get in the ABI, got %+v", entries)
	}
}

func TestEmitContractSubstrateMetadata(t *testing.T) {
	ns := flipperNamespace(ast.Substrate)
	e := New(ns, target.NewSubstrate())
	mod := e.EmitContract(0)

	var meta substrateMetadata
	if err := json.Unmarshal(mod.ABI, &meta); err != nil {
		t.Fatalf("expected valid substrate metadata JSON, got error %v:\n%s", err, mod.ABI)
	}
	if meta.Contract.Name != "Flipper" {
		t.Fatalf("expected contract name Flipper, got %q", meta.Contract.Name)
	}
	if len(meta.Spec.Constructors) != 1 {
		t.Fatalf("expected exactly one constructor, got %d", len(meta.Spec.Constructors))
	}
	if len(meta.Spec.Messages) != 2 {
		t.Fatalf("expected exactly two messages (flip, get), got %d", len(meta.Spec.Messages))
	}
}

// TestEmitAllSkipsInterfacesAndLibraries exercises EmitAll's spec §4.8
// exclusion: only concrete/abstract contracts are independently deployable.
func TestEmitAllSkipsInterfacesAndLibraries(t *testing.T) {
	ns := ast.NewNamespace(ast.Generic, 20)
	ns.Contracts = append(ns.Contracts,
		ast.NewContract("IOracle", ast.ContractInterface, 0, diag.Span{}),
		ast.NewContract("MathLib", ast.ContractLibrary, 0, diag.Span{}),
		ast.NewContract("Impl", ast.ContractConcrete, 0, diag.Span{}),
	)

	e := New(ns, target.NewGeneric())
	mods := e.EmitAll()
	if len(mods) != 1 || mods[0].ContractName != "Impl" {
		t.Fatalf("expected exactly one emitted module for Impl, got %+v", mods)
	}
}
