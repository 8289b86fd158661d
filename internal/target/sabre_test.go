package target

import (
	"strings"
	"testing"
)

// TestSabreEntrypointRoutesOnArgsLenMod32 exercises the args_len mod 32 ==
// 4 heuristic (spec §4 SUPPLEMENTED FEATURES, carried from the original
// implementation's emit/sabre.rs).
func TestSabreEntrypointRoutesOnArgsLenMod32(t *testing.T) {
	rt := NewSabre()
	w := NewWriter()
	rt.Entrypoint(w, EntrypointContext{
		HasCtor:     true,
		Constructor: DispatchEntry{Label: "fn.ctor"},
	})
	ir := w.String()
	if !strings.Contains(ir, "urem %args_len, i32 32") {
		t.Fatalf("expected the args_len mod 32 computation, got:\n%s", ir)
	}
	if !strings.Contains(ir, "eq %rem, i32 4") {
		t.Fatalf("expected routing to compare the remainder against 4, got:\n%s", ir)
	}
	if !strings.Contains(ir, "is_ctor:") || !strings.Contains(ir, "is_call:") {
		t.Fatalf("expected both a constructor and a call path, got:\n%s", ir)
	}
}

func TestSabreExternalCallTraps(t *testing.T) {
	rt := NewSabre()
	w := NewWriter()
	rt.ExternalCall(w, "%addr", "%payload", "%len", "%value", "%gas")
	if !strings.Contains(w.String(), "trap(\"external_call unsupported on sabre\")") {
		t.Fatalf("expected an explicit trap for the unsupported primitive, got:\n%s", w.String())
	}
}

func TestSabreAssertFailureUsesEthereumRevertPayload(t *testing.T) {
	rt := NewSabre()
	w := NewWriter()
	msg := Value("%reason")
	rt.AssertFailure(w, &msg)
	ir := w.String()
	if !strings.Contains(ir, "0x08c379a0") {
		t.Fatalf("expected sabre's revert to reuse the Ethereum-ABI Error(string) selector, got:\n%s", ir)
	}
}
