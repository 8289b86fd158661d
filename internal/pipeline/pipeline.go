// Package pipeline implements the compilation orchestrator (solangc spec
// §4.10, C10): it sequences C1-C9 and is the single place that gates
// emission on whether any diagnostic reached Error level.
package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/cfg"
	"github.com/solangc/solangc/internal/diag"
	"github.com/solangc/solangc/internal/emit"
	"github.com/solangc/solangc/internal/sema"
	"github.com/solangc/solangc/internal/syntax"
	"github.com/solangc/solangc/internal/target"
)

// log is this package's operational tracer (spec §1 AMBIENT STACK:
// logrus is for -v trace only, never for user-facing diagnostics).
var log = logrus.StandardLogger()

// Source is one input file already read into memory by the caller. Loading
// source text through a file-import cache is an out-of-scope external
// collaborator (spec §1); the orchestrator itself never performs I/O
// (spec §5: "no operation blocks on I/O inside the core").
type Source struct {
	Path string
	Text string
}

// Result is one compilation's full output.
type Result struct {
	NS      *ast.Namespace
	Modules []emit.Module
}

// AddressWidth returns the per-target account-identifier width (spec §3,
// §4.9): 32 bytes for Substrate and Solana, 20 for the Ethereum-shaped
// targets.
func AddressWidth(t ast.Target) int {
	switch t {
	case ast.Substrate, ast.Solana:
		return 32
	default:
		return 20
	}
}

// NewRuntime selects the TargetRuntime implementation for t (spec §9,
// "Polymorphic target": a single compilation dispatches to exactly one).
func NewRuntime(t ast.Target) target.TargetRuntime {
	switch t {
	case ast.Ewasm:
		return target.NewEwasm()
	case ast.Sabre:
		return target.NewSabre()
	case ast.Solana:
		return target.NewSolana()
	case ast.Generic:
		return target.NewGeneric()
	default:
		return target.NewSubstrate()
	}
}

// Compile runs the full pipeline over sources for the given target:
//
//	parse -> C2.declare -> C3.inherit+layout -> C2.resolve-fields ->
//	recursion check -> C4 (vars+funcs, C5 interleaved) -> C6 (CFG
//	lowering) -> mutability audit -> C8/C9 emission
//
// Every phase runs to completion even once earlier phases have recorded
// errors (spec §4.10), so later phases can surface additional independent
// problems; only emission is gated on !ns.Diagnostics.AnyErrors().
func Compile(t ast.Target, sources []Source) *Result {
	ns := ast.NewNamespace(t, AddressWidth(t))
	disc := sema.NewDiscovery()

	log.Debugf("parsing %d source file(s) for target %s", len(sources), t)
	type parsed struct {
		file int
		tree *syntax.File
	}
	var files []parsed
	for _, src := range sources {
		tree, err := syntax.ParseFile(src.Path, src.Text)
		if err != nil {
			ns.Diagnostics.Errorf(diag.KindParser, diag.Span{File: src.Path}, "%v", err)
			continue
		}
		fileIdx := ns.AddFile(src.Path, tree.LineOffsets)
		files = append(files, parsed{file: fileIdx, tree: tree})
	}

	log.Debug("C2: declaration discovery")
	for _, p := range files {
		sema.DiscoverDeclarations(ns, p.file, p.tree, disc)
	}

	log.Debug("C3: inheritance linearization + storage layout")
	sema.ResolveInherit(ns, disc)

	log.Debug("C2: struct field resolution + recursion check")
	sema.ResolveStructFields(ns, disc)
	sema.CheckStructRecursion(ns)

	log.Debug("C4: variable + function resolution (C5 interleaved)")
	sema.ResolveVariables(ns, disc)
	sema.ResolveFunctions(ns, disc)

	if ns.Target == ast.Substrate {
		for _, idx := range disc.ContractOrder {
			if !hasConstructor(ns, idx) {
				cfg.SynthesizeTrivialConstructor(ns, idx)
			}
		}
	}

	log.Debug("C6: CFG lowering")
	for i := range ns.Functions {
		fn := &ns.Functions[i]
		if fn.Body != nil || fn.Kind == ast.KindConstructor {
			fn.CFG = cfg.Lower(ns, fn)
		}
	}
	for _, idx := range disc.ContractOrder {
		ns.Contracts[idx].Initializer = cfg.LowerInitializer(ns, idx)
	}
	// Attach every lowered CFG to its existing FunctionTable entry, so the
	// entries carry the CFG the emitter needs. The table merge itself is
	// not re-run; synthesized constructors were entered into the table
	// when they were created.
	refreshDispatchCFGs(ns)

	log.Debug("mutability audit")
	sema.AuditMutability(ns)

	result := &Result{NS: ns}
	if ns.Diagnostics.AnyErrors() {
		log.Warn("compilation has errors, skipping emission")
		return result
	}

	log.Debug("C8/C9: LLVM emission")
	rt := NewRuntime(t)
	e := emit.New(ns, rt)
	result.Modules = e.EmitAll()
	return result
}

func hasConstructor(ns *ast.Namespace, contractIdx int) bool {
	for _, idx := range ns.Contracts[contractIdx].FunctionIndices {
		if ns.Functions[idx].Kind == ast.KindConstructor {
			return true
		}
	}
	return false
}

// refreshDispatchCFGs copies each function's now-lowered CFG pointer into
// its FunctionTable entry, since ResolveInherit built the table before C6
// had anything to attach.
func refreshDispatchCFGs(ns *ast.Namespace) {
	for ci := range ns.Contracts {
		c := &ns.Contracts[ci]
		for sig, entry := range c.FunctionTable {
			entry.CFG = ns.Functions[entry.Function].CFG
			c.FunctionTable[sig] = entry
		}
	}
}
