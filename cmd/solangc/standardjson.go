package main

import (
	"encoding/json"
	"io"

	"github.com/solangc/solangc/internal/pipeline"
)

// standardJSONOutput mirrors spec §6's `--standard-json` schema:
// `{errors:[…], contracts:{file:{name:{abi,ewasm:{wasm}}}}}`. The `ewasm`
// sub-object name is kept literally even for non-ewasm targets, matching
// the upstream standard-json convention this compiler's output format is
// modeled on.
type standardJSONOutput struct {
	Errors    []json.RawMessage                          `json:"errors"`
	Contracts map[string]map[string]standardJSONContract `json:"contracts"`
}

type standardJSONContract struct {
	ABI   json.RawMessage `json:"abi"`
	Ewasm standardJSONBin `json:"ewasm"`
}

type standardJSONBin struct {
	Wasm string `json:"wasm"`
}

// writeStandardJSON assembles and writes the standard-json object for one
// compilation result. Diagnostics (of any level `--standard-json` wants
// surfaced) were already aggregated by internal/diag.Log.JSON; per-file,
// per-contract entries come from the emitted modules, keyed by the source
// file each contract's function bodies were declared in.
func writeStandardJSON(w io.Writer, result *pipeline.Result) error {
	out := standardJSONOutput{Contracts: map[string]map[string]standardJSONContract{}}

	rawErrors, err := result.NS.Diagnostics.JSON()
	if err != nil {
		return err
	}
	var errs []json.RawMessage
	if err := json.Unmarshal(rawErrors, &errs); err != nil {
		return err
	}
	out.Errors = errs

	for _, mod := range result.Modules {
		file := "<stdin>"
		for i := range result.NS.Contracts {
			c := &result.NS.Contracts[i]
			if c.Name != mod.ContractName || len(c.FunctionIndices) == 0 {
				continue
			}
			fn := result.NS.Functions[c.FunctionIndices[0]]
			if fn.File >= 0 && fn.File < len(result.NS.Files) {
				file = result.NS.Files[fn.File].Path
			}
			break
		}
		if out.Contracts[file] == nil {
			out.Contracts[file] = map[string]standardJSONContract{}
		}
		out.Contracts[file][mod.ContractName] = standardJSONContract{
			ABI:   json.RawMessage(mod.ABI),
			Ewasm: standardJSONBin{Wasm: mod.IR},
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
