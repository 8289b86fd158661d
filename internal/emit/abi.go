package emit

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/types"
)

// abiParam is one entry of an Ethereum ABI JSON function/constructor
// description (spec §6: "Ethereum ABI JSON for Ewasm/Sabre/Solana").
type abiParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type abiEntry struct {
	Type            string     `json:"type"`
	Name            string     `json:"name,omitempty"`
	Inputs          []abiParam `json:"inputs"`
	Outputs         []abiParam `json:"outputs,omitempty"`
	StateMutability string     `json:"stateMutability"`
}

// substrateMetadata is a deliberately small stand-in for the full
// Substrate contract-metadata schema (spec §6: "Substrate metadata JSON
// for Substrate"): enough structure to be a genuine per-contract artifact
// without claiming byte-for-byte compatibility with `cargo contract`'s
// output, which is outside this compiler's scope (spec §1 Non-goals).
type substrateMetadata struct {
	Source struct {
		Hash     string `json:"hash"`
		Language string `json:"language"`
	} `json:"source"`
	Contract struct {
		Name string `json:"name"`
	} `json:"contract"`
	Spec struct {
		Constructors []abiEntry `json:"constructors"`
		Messages     []abiEntry `json:"messages"`
	} `json:"spec"`
}

// buildABI renders contractIdx's external surface per spec §6, choosing
// the JSON shape the target expects.
func (e *Emitter) buildABI(contractIdx int) []byte {
	c := &e.NS.Contracts[contractIdx]

	sigs := make([]string, 0, len(c.FunctionTable))
	for sig := range c.FunctionTable {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)

	if e.NS.Target == ast.Substrate {
		return e.buildSubstrateMetadata(c, sigs)
	}
	return e.buildEthereumABI(c, sigs)
}

func (e *Emitter) buildEthereumABI(c *ast.Contract, sigs []string) []byte {
	var entries []abiEntry
	for _, idx := range c.FunctionIndices {
		fn := e.NS.Functions[idx]
		if fn.Kind == ast.KindConstructor {
			entries = append(entries, abiEntry{
				Type:            "constructor",
				Inputs:          paramsToABI(fn.Params, e.NS),
				StateMutability: fn.Mutability.String(),
			})
		}
	}
	for _, sig := range sigs {
		entry := c.FunctionTable[sig]
		fn := e.NS.Functions[entry.Function]
		if fn.Kind != ast.KindFunction || fn.Visibility != types.Public && fn.Visibility != types.External {
			continue
		}
		entries = append(entries, abiEntry{
			Type:            "function",
			Name:            fn.Name,
			Inputs:          paramsToABI(fn.Params, e.NS),
			Outputs:         paramsToABI(fn.Returns, e.NS),
			StateMutability: fn.Mutability.String(),
		})
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return out
}

func (e *Emitter) buildSubstrateMetadata(c *ast.Contract, sigs []string) []byte {
	var meta substrateMetadata
	meta.Source.Language = "Solidity"
	meta.Source.Hash = fmt.Sprintf("0x%x", ast.Selector(c.Name))
	meta.Contract.Name = c.Name

	for _, idx := range c.FunctionIndices {
		fn := e.NS.Functions[idx]
		if fn.Kind == ast.KindConstructor {
			meta.Spec.Constructors = append(meta.Spec.Constructors, abiEntry{
				Type:            "constructor",
				Inputs:          paramsToABI(fn.Params, e.NS),
				StateMutability: fn.Mutability.String(),
			})
		}
	}
	for _, sig := range sigs {
		entry := c.FunctionTable[sig]
		fn := e.NS.Functions[entry.Function]
		if fn.Kind != ast.KindFunction || fn.Visibility != types.Public && fn.Visibility != types.External {
			continue
		}
		meta.Spec.Messages = append(meta.Spec.Messages, abiEntry{
			Type:            "message",
			Name:            fn.Name,
			Inputs:          paramsToABI(fn.Params, e.NS),
			Outputs:         paramsToABI(fn.Returns, e.NS),
			StateMutability: fn.Mutability.String(),
		})
	}
	out, _ := json.MarshalIndent(meta, "", "  ")
	return out
}

func paramsToABI(params []ast.Param, ns *ast.Namespace) []abiParam {
	out := make([]abiParam, len(params))
	for i, p := range params {
		out[i] = abiParam{Name: p.Name, Type: ast.ABIType(p.Type, ns)}
	}
	return out
}
