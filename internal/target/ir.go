// Package target implements the TargetRuntime capability set of solangc
// spec §4.9 (C9): the emitter (internal/emit, C8) is written once against
// this interface, and each of the five runtimes below supplies its own
// storage, ABI, and cross-contract-call primitives plus its entrypoint
// shape. A single compilation selects exactly one implementation and
// dispatch is monomorphised at emission time (spec §9, "Polymorphic
// target") — there is no dynamic lookup by target at run time, only a
// single switch in internal/pipeline that picks the concrete runtime.
//
// Real LLVM bindings are an out-of-scope external collaborator (spec §1);
// Writer/Value stand in for an llvm.Builder/llvm.Value pair, producing a
// small textual IR that mirrors LLVM's syntax closely enough to show the
// shape of what a real backend would receive.
package target

import (
	"fmt"
	"strings"
)

// Value is an SSA value or literal operand in the textual IR: either a
// register name ("%t3") or an immediate ("i256 0").
type Value string

// Writer accumulates one function (or module-level helper)'s textual IR
// and hands out fresh SSA register names.
type Writer struct {
	buf     strings.Builder
	counter int
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Fresh returns a new unique SSA register name.
func (w *Writer) Fresh() Value {
	w.counter++
	return Value(fmt.Sprintf("%%t%d", w.counter))
}

// Line appends one indented instruction line.
func (w *Writer) Line(format string, args ...any) {
	fmt.Fprintf(&w.buf, "  "+format+"\n", args...)
}

// Raw appends text verbatim, with no indentation added.
func (w *Writer) Raw(s string) {
	w.buf.WriteString(s)
}

// Assign emits `dst = format(args...)` and returns dst, the common shape
// for instructions that produce a value.
func (w *Writer) Assign(format string, args ...any) Value {
	dst := w.Fresh()
	w.Line("%s = "+format, append([]any{dst}, args...)...)
	return dst
}

// String returns the accumulated IR text.
func (w *Writer) String() string { return w.buf.String() }

// AbiSpec is one element of an encode/decode type list: an ABI-spelled type
// name (see ast.ABIType) plus its static width in bytes when known (0 for
// dynamic types), enough information for a target's encoder/decoder to
// choose a slot layout without needing the full internal/ast.Namespace.
type AbiSpec struct {
	ABIType  string
	Dynamic  bool
	ByteSize int // meaningful only when !Dynamic
}
