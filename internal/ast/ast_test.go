package ast

import (
	"testing"

	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/types"
)

func TestAddSymbolAccumulatesFunctionOverloads(t *testing.T) {
	ns := NewNamespace(Substrate, 20)
	ns.Functions = append(ns.Functions, Function{Name: "f"}, Function{Name: "f"})
	key := SymKey{File: 0, Contract: 0, Name: "f"}

	ok1 := ns.AddSymbol(key, Symbol{Kind: SymFunction, Funcs: []FuncRef{{Index: 0}}})
	ok2 := ns.AddSymbol(key, Symbol{Kind: SymFunction, Funcs: []FuncRef{{Index: 1}}})
	if !ok1 || !ok2 {
		t.Fatalf("expected both inserts to succeed")
	}
	if got := len(ns.Symbols[key].Funcs); got != 2 {
		t.Fatalf("expected 2 accumulated overloads, got %d", got)
	}
	if ns.Diagnostics.AnyErrors() {
		t.Fatalf("accumulating function overloads should not raise a diagnostic")
	}
}

func TestAddSymbolCollisionEmitsErrorWithNote(t *testing.T) {
	ns := NewNamespace(Substrate, 20)
	key := SymKey{File: 0, Contract: 0, Name: "x"}
	ns.AddSymbol(key, Symbol{Kind: SymVariable, Span: diag.Span{Line: 1}})
	ok := ns.AddSymbol(key, Symbol{Kind: SymVariable, Span: diag.Span{Line: 5}})
	if ok {
		t.Fatalf("expected collision to be rejected")
	}
	if !ns.Diagnostics.AnyErrors() {
		t.Fatalf("expected an error diagnostic on collision")
	}
	entries := ns.Diagnostics.Entries()
	if len(entries[len(entries)-1].Notes) != 1 {
		t.Fatalf("expected the collision diagnostic to carry one note")
	}
}

func TestResolveFuncWalksInheritance(t *testing.T) {
	ns := NewNamespace(Substrate, 20)
	ns.Contracts = append(ns.Contracts,
		NewContract("Base", ContractConcrete, 0, diag.Span{}),
		NewContract("Derived", ContractConcrete, 0, diag.Span{}),
	)
	ns.Contracts[1].Inherit = []int{0}
	ns.Functions = append(ns.Functions, Function{Name: "greet"})
	ns.Symbols[SymKey{File: 0, Contract: 0, Name: "greet"}] = Symbol{Kind: SymFunction, Funcs: []FuncRef{{Index: 0}}}

	refs, ok := ns.ResolveFunc(0, 1, "greet")
	if !ok || len(refs) != 1 || refs[0].Index != 0 {
		t.Fatalf("expected to resolve 'greet' via inheritance, got %+v ok=%v", refs, ok)
	}

	if _, ok := ns.ResolveFunc(0, 1, "nope"); ok {
		t.Fatalf("did not expect to resolve undefined function")
	}
}

func TestSignatureAndSelector(t *testing.T) {
	ns := NewNamespace(Substrate, 20)
	fn := Function{
		Name: "celsius2fahrenheit",
		Params: []Param{
			{Name: "c", Type: types.NewInt(32)},
		},
	}
	sig := fn.Signature(ns)
	if sig != "celsius2fahrenheit(int32)" {
		t.Fatalf("unexpected signature: %s", sig)
	}
	sel := Selector(sig)
	if sel == ([4]byte{}) {
		t.Fatalf("expected a non-zero selector")
	}
	// Selector must be deterministic (spec §8 Signature determinism).
	if sel != Selector(sig) {
		t.Fatalf("selector not deterministic")
	}
}

func TestEnumWidthPolicy(t *testing.T) {
	cases := []struct {
		variants int
		want     int
	}{
		{0, 0},
		{1, 8},
		{2, 8},
		{3, 8},
		{256, 8},
		{257, 16},
	}
	for _, c := range cases {
		if got := EnumWidth(c.variants); got != c.want {
			t.Fatalf("EnumWidth(%d) = %d, want %d", c.variants, got, c.want)
		}
	}
}

func TestStructStorageSlotsNested(t *testing.T) {
	ns := NewNamespace(Substrate, 20)
	ns.Structs = append(ns.Structs, StructType{
		Name: "Inner",
		Fields: []StructField{
			{Name: "a", Type: types.NewUint(256)},
			{Name: "b", Type: types.NewUint(256)},
		},
	})
	ns.Structs = append(ns.Structs, StructType{
		Name: "Outer",
		Fields: []StructField{
			{Name: "inner", Type: types.NewStruct(0)},
			{Name: "c", Type: types.NewUint(256)},
		},
	})
	if got := ns.Structs[1].StorageSlots(ns); got != 3 {
		t.Fatalf("expected 3 slots (2 from Inner + 1), got %d", got)
	}
}
