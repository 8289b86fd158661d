package target

import (
	"strings"
	"testing"
)

func TestSolanaABIEncodeHasNoOffsetIndirection(t *testing.T) {
	rt := NewSolana()
	w := NewWriter()
	rt.ABIEncode(w, nil, []Value{"i256 1", "%t0"}, []AbiSpec{
		{ABIType: "uint256"},
		{ABIType: "string", Dynamic: true},
	})
	ir := w.String()
	if strings.Contains(ir, "append_offset") {
		t.Fatalf("solana's packed ABI must not use the offset/tail split, got:\n%s", ir)
	}
	if !strings.Contains(ir, "append_lenprefixed") {
		t.Fatalf("expected a length-prefixed dynamic field, got:\n%s", ir)
	}
}

func TestSolanaTypeHashDeterministic(t *testing.T) {
	if typeHash("Flipper") != typeHash("Flipper") {
		t.Fatalf("typeHash must be deterministic")
	}
	if typeHash("Flipper") == typeHash("Other") {
		t.Fatalf("typeHash should differ across distinct contract names (in the general case)")
	}
}

func TestSolanaEntrypointGatesOnTypeHash(t *testing.T) {
	rt := NewSolana()
	w := NewWriter()
	rt.Entrypoint(w, EntrypointContext{ContractName: "Flipper"})
	ir := w.String()
	if !strings.Contains(ir, "check_version") || !strings.Contains(ir, "init:") {
		t.Fatalf("expected both the initialized and uninitialized entry paths, got:\n%s", ir)
	}
}

func TestSolanaDataOffsetSkipsHeader(t *testing.T) {
	w := NewWriter()
	off := dataOffset(w, "i32 0")
	if !strings.Contains(w.String(), "add i32 12") {
		t.Fatalf("expected slot 0 to sit past the 12-byte type-hash+version header, got:\n%s", w.String())
	}
	_ = off
}
