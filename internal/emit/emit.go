// Package emit implements the target-agnostic LLVM emitter (solangc spec
// §4.8, C8): it walks a contract's CFGs (built by internal/cfg, C6) and
// typed AST (built by internal/sema) and issues textual LLVM-flavored IR,
// delegating every target-specific primitive to an internal/target
// TargetRuntime (C9). Real LLVM bindings are an out-of-scope external
// collaborator (spec §1); Writer's output is deliberately close to LLVM's
// textual syntax so the shape of what a real backend would receive is
// visible, but it is not valid LLVM IR on its own.
package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/target"
)

// Module is one contract's emitted output: its textual IR plus the two
// artifact encodings spec §6 asks for (Ethereum ABI JSON or Substrate
// metadata JSON, selected by target).
type Module struct {
	ContractName string
	IR           string
	ABI          []byte
}

// Emitter holds the namespace and target runtime shared across every
// contract emitted in one compilation.
type Emitter struct {
	NS *ast.Namespace
	RT target.TargetRuntime
}

// New returns an Emitter for ns using rt as its TargetRuntime.
func New(ns *ast.Namespace, rt target.TargetRuntime) *Emitter {
	return &Emitter{NS: ns, RT: rt}
}

// EmitAll emits every contract in the namespace, in declaration order,
// skipping interfaces and libraries (spec §4.8: "constructs one LLVM
// module per contract" — only concrete/abstract contracts are
// independently deployable units).
func (e *Emitter) EmitAll() []Module {
	var out []Module
	for i, c := range e.NS.Contracts {
		if c.Kind == ast.ContractInterface || c.Kind == ast.ContractLibrary {
			continue
		}
		out = append(out, e.EmitContract(i))
	}
	return out
}

// EmitContract implements spec §4.8's five steps for one contract.
func (e *Emitter) EmitContract(contractIdx int) Module {
	c := &e.NS.Contracts[contractIdx]
	var mod strings.Builder

	fmt.Fprintf(&mod, "; module %q target=%s\n", c.Name, e.RT.Name())

	// Step 1: external-runtime intrinsics.
	for _, decl := range e.RT.Declarations() {
		mod.WriteString(decl)
		mod.WriteByte('\n')
	}

	// Step 2: helper functions shared across targets.
	mod.WriteString(sharedHelpers)

	var dispatch []target.DispatchEntry
	var ctorEntry target.DispatchEntry
	hasCtor := false

	sigs := make([]string, 0, len(c.FunctionTable))
	for sig := range c.FunctionTable {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)

	// Step 3a: the storage initializer.
	if c.Initializer != nil {
		label := "contract.init"
		fe := &funcEmitter{ns: e.NS, rt: e.RT, contractIdx: contractIdx, cfg: c.Initializer, w: target.NewWriter()}
		fe.emit()
		fmt.Fprintf(&mod, "define private void @%s() {\n%s}\n", label, fe.w.String())
	}

	// Step 3b: constructors and functions by walking each CFG.
	for _, sig := range sigs {
		entry := c.FunctionTable[sig]
		fn := e.NS.Functions[entry.Function]
		if fn.CFG == nil {
			continue
		}
		label := fmt.Sprintf("fn.%s", sanitizeLabel(sig))
		fe := &funcEmitter{ns: e.NS, rt: e.RT, contractIdx: contractIdx, cfg: fn.CFG, fn: &fn, w: target.NewWriter()}
		fe.emit()
		linkage := "private"
		if fn.Visibility == 0 {
			linkage = "private"
		}
		fmt.Fprintf(&mod, "define %s void @%s(...) { ; %s\n%s}\n", linkage, label, sig, fe.w.String())

		if fn.Kind == ast.KindConstructor {
			ctorEntry = target.DispatchEntry{Label: label, Name: sig}
			hasCtor = true
			continue
		}
		dispatch = append(dispatch, target.DispatchEntry{
			Selector: ast.Selector(sig),
			Label:    label,
			Name:     sig,
		})
	}

	// Step 4: the single target-shaped entrypoint.
	ew := target.NewWriter()
	e.RT.Entrypoint(ew, target.EntrypointContext{
		ContractName: c.Name,
		Dispatch:     dispatch,
		Constructor:  ctorEntry,
		HasCtor:      hasCtor,
	})
	mod.WriteString(ew.String())

	// Step 5: internalize every symbol except the target-required exports
	// so the optimizer can remove dead code. A real LLVM pass does this
	// via linkage attributes (already "private" above); this comment
	// records the export the entrypoint function itself needs to keep.
	mod.WriteString("; export entrypoint; everything else internalized\n")

	return Module{
		ContractName: c.Name,
		IR:           mod.String(),
		ABI:          e.buildABI(contractIdx),
	}
}

func sanitizeLabel(sig string) string {
	r := strings.NewReplacer("(", "_", ")", "", ",", "_", " ", "")
	return r.Replace(sig)
}

// sharedHelpers are the target-independent helper functions spec §4.8 step
// 2 calls out by name: big-integer arithmetic, memcpy, bzero8, a software
// sha3 fallback, and u256-to-hex for diagnostics/printing.
const sharedHelpers = `define private i256 @bigint.add(i256 %a, i256 %b) {
  %r = add i256 %a, %b
  ret i256 %r
}
define private i256 @bigint.mul(i256 %a, i256 %b) {
  %r = mul i256 %a, %b
  ret i256 %r
}
define private void @memcpy(i8* %dst, i8* %src, i32 %len) {
  call @llvm.memcpy.p0i8.p0i8.i32(i8* %dst, i8* %src, i32 %len, i1 false)
  ret void
}
define private void @bzero8(i8* %dst, i32 %off, i32 %len) {
  call @llvm.memset.p0i8.i32(i8* (%dst + %off), i8 0, i32 %len, i1 false)
  ret void
}
define private i256 @sha3(i8* %ptr, i32 %len) {
  %h = call @keccak256.software(i8* %ptr, i32 %len)
  ret i256 %h
}
define private i8* @u256tohex(i256 %v) {
  %s = call @itoa.hex(i256 %v)
  ret i8* %s
}
`
