package sema

import (
	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/types"
)

// Env is the expression/statement resolver's environment (spec §4.5:
// "given an environment (file, optional contract, symbol scope,
// compile-time-only flag)"). Locals is the in-scope local-variable/parameter
// name table built up as statements are resolved; ConstOnly marks a
// constant-expression context (state variable initializers, array
// dimensions) where reading storage or calling non-pure functions is an
// error.
type Env struct {
	NS        *ast.Namespace
	File      int
	Contract  int
	Function  *ast.Function
	Locals    map[string]localBinding
	ConstOnly bool
}

type localBinding struct {
	index int
	typ   types.Type
}

// child returns a copy of env with its own Locals map, for entering a new
// lexical scope (block, loop body) without mutating the parent's bindings.
func (e *Env) child() *Env {
	locals := make(map[string]localBinding, len(e.Locals))
	for k, v := range e.Locals {
		locals[k] = v
	}
	cp := *e
	cp.Locals = locals
	return &cp
}

// declareLocal appends a new entry to the owning function's local-variable
// table and binds name to it in the current scope, returning the assigned
// index (spec §3: CFG locals are addressed by index, never by pointer).
func (e *Env) declareLocal(name string, t types.Type, storage bool) int {
	e.Function.Locals = append(e.Function.Locals, ast.LocalVar{Name: name, Type: t, Storage: storage})
	idx := len(e.Function.Locals) - 1
	if e.Locals == nil {
		e.Locals = map[string]localBinding{}
	}
	e.Locals[name] = localBinding{index: idx, typ: t}
	return idx
}
