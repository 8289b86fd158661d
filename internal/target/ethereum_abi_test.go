package target

import (
	"strings"
	"testing"
)

func TestEthereumABIEncodeEmitsSelectorAndTails(t *testing.T) {
	var e ethereumABI
	w := NewWriter()
	sel := [4]byte{0xde, 0xad, 0xbe, 0xef}
	ptr, length := e.ABIEncode(w, &sel, []Value{"i256 1", "%t0"}, []AbiSpec{
		{ABIType: "uint256"},
		{ABIType: "string", Dynamic: true},
	})
	if ptr == "" || length == "" {
		t.Fatalf("expected non-empty ptr/length values")
	}
	ir := w.String()
	if !strings.Contains(ir, "append_selector") || !strings.Contains(ir, "0xdeadbeef") {
		t.Fatalf("expected selector emission, got:\n%s", ir)
	}
	if !strings.Contains(ir, "append_static") {
		t.Fatalf("expected a static head slot for the uint256 arg, got:\n%s", ir)
	}
	if !strings.Contains(ir, "append_offset") || !strings.Contains(ir, "append_dynamic") {
		t.Fatalf("expected an offset+tail pair for the dynamic arg, got:\n%s", ir)
	}
}

// TestRevertPayloadSelector verifies spec §8 scenario 4: revert("yo!")
// produces the big-endian Error(string) selector 0x08c379a0 followed by
// ABI-encoded "yo!".
func TestRevertPayloadSelector(t *testing.T) {
	var e ethereumABI
	w := NewWriter()
	msg := Value("%reason")
	e.revertPayload(w, &msg)
	ir := w.String()
	if !strings.Contains(ir, "0x08c379a0") {
		t.Fatalf("expected the Error(string) selector 0x08c379a0, got:\n%s", ir)
	}
	if !strings.Contains(ir, "%reason") {
		t.Fatalf("expected the reason value to be encoded, got:\n%s", ir)
	}
}

func TestRevertPayloadWithoutMessageIsZero(t *testing.T) {
	var e ethereumABI
	w := NewWriter()
	ptr, length := e.revertPayload(w, nil)
	if ptr != "i32 0" || length != "i32 0" {
		t.Fatalf("expected a zero-length payload for a bare revert(), got ptr=%s length=%s", ptr, length)
	}
}

func TestABIDecodeUsesOffsetsOnlyForDynamicFields(t *testing.T) {
	var e ethereumABI
	w := NewWriter()
	e.ABIDecode(w, "%buf", "%len", []AbiSpec{
		{ABIType: "uint256"},
		{ABIType: "bytes", Dynamic: true},
	})
	ir := w.String()
	if !strings.Contains(ir, "read_static") {
		t.Fatalf("expected a static read for the uint256 field, got:\n%s", ir)
	}
	if !strings.Contains(ir, "read_offset") || !strings.Contains(ir, "read_dynamic") {
		t.Fatalf("expected an offset-indirected read for the bytes field, got:\n%s", ir)
	}
}
