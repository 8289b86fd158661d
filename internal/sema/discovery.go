package sema

import "github.com/solangc/solangc/internal/syntax"

// Discovery carries the untyped declarations alongside the namespace
// indices C2's declaration pass assigned them, so later phases (field
// resolution, inheritance, function/variable resolution) can walk the
// syntax tree a second time without re-parsing or re-registering names.
type Discovery struct {
	StructDecls   map[int]syntax.StructDecl
	ContractDecls map[int]syntax.ContractDecl
	ContractOrder []int
}

// NewDiscovery returns an empty Discovery ready for DiscoverDeclarations.
func NewDiscovery() *Discovery {
	return &Discovery{
		StructDecls:   make(map[int]syntax.StructDecl),
		ContractDecls: make(map[int]syntax.ContractDecl),
	}
}
