package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/solangc/solangc/internal/ast"
	"github.com/solangc/solangc/internal/pipeline"
)

const celsiusSrc = `
contract Celsius {
    function celsius2fahrenheit(int32 c) public pure returns (int32) {
        return c * 9 / 5 + 32;
    }
}
`

// TestWriteStandardJSONShapesOutput exercises spec §6's standard-json
// schema end to end: errors is always present (even if empty) and every
// emitted contract surfaces under its source file, keyed by name, with an
// abi and an ewasm.wasm key regardless of target.
func TestWriteStandardJSONShapesOutput(t *testing.T) {
	result := pipeline.Compile(ast.Substrate, []pipeline.Source{{Path: "celsius.sol", Text: celsiusSrc}})
	if result.NS.Diagnostics.AnyErrors() {
		t.Fatalf("unexpected errors: %s", result.NS.Diagnostics.Render())
	}

	var buf bytes.Buffer
	if err := writeStandardJSON(&buf, result); err != nil {
		t.Fatalf("writeStandardJSON failed: %v", err)
	}

	var out standardJSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid standard-json output: %v\n%s", err, buf.String())
	}
	if out.Errors == nil {
		t.Fatalf("expected errors to be present (even if empty), got nil")
	}
	file, ok := out.Contracts["celsius.sol"]
	if !ok {
		t.Fatalf("expected an entry keyed by source file, got %+v", out.Contracts)
	}
	contract, ok := file["Celsius"]
	if !ok {
		t.Fatalf("expected a Celsius entry, got %+v", file)
	}
	if len(contract.ABI) == 0 {
		t.Fatalf("expected a non-empty abi field")
	}
	if contract.Ewasm.Wasm == "" {
		t.Fatalf("expected the ewasm.wasm field to carry the emitted IR even for a substrate target")
	}
}

// TestWriteStandardJSONSurfacesDiagnosticsWithoutModules covers the
// emission-gate path: a source with errors must still produce valid
// standard-json with a populated errors array and no contracts.
func TestWriteStandardJSONSurfacesDiagnosticsWithoutModules(t *testing.T) {
	src := `
contract Base1 {
    function f() public {}
}

contract Base2 {
    function f() public {}
}

contract Derived is Base1, Base2 {
}
`
	result := pipeline.Compile(ast.Substrate, []pipeline.Source{{Path: "diamond.sol", Text: src}})
	if !result.NS.Diagnostics.AnyErrors() {
		t.Fatalf("expected this fixture to produce a diagnostic")
	}

	var buf bytes.Buffer
	if err := writeStandardJSON(&buf, result); err != nil {
		t.Fatalf("writeStandardJSON failed: %v", err)
	}
	var out standardJSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid standard-json output: %v\n%s", err, buf.String())
	}
	if len(out.Errors) == 0 {
		t.Fatalf("expected at least one error entry")
	}
	if len(out.Contracts) != 0 {
		t.Fatalf("expected no contracts when emission is gated by errors, got %+v", out.Contracts)
	}
}

// TestWriteModulesWritesIRAndABIFiles covers the --emit llvm artifact
// layout: one .ll and one .abi.json file per contract under outDir.
func TestWriteModulesWritesIRAndABIFiles(t *testing.T) {
	result := pipeline.Compile(ast.Substrate, []pipeline.Source{{Path: "celsius.sol", Text: celsiusSrc}})
	if result.NS.Diagnostics.AnyErrors() {
		t.Fatalf("unexpected errors: %s", result.NS.Diagnostics.Render())
	}

	dir := t.TempDir()
	if err := writeModules(dir, result.Modules); err != nil {
		t.Fatalf("writeModules failed: %v", err)
	}

	irPath := filepath.Join(dir, "Celsius.ll")
	abiPath := filepath.Join(dir, "Celsius.abi.json")
	if _, err := os.Stat(irPath); err != nil {
		t.Fatalf("expected %s to exist: %v", irPath, err)
	}
	if _, err := os.Stat(abiPath); err != nil {
		t.Fatalf("expected %s to exist: %v", abiPath, err)
	}
	ir, err := os.ReadFile(irPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", irPath, err)
	}
	if !strings.Contains(string(ir), "module") {
		t.Fatalf("expected the .ll file to contain the module header, got:\n%s", ir)
	}
}

func TestDumpASTIncludesFunctionAndLayout(t *testing.T) {
	result := pipeline.Compile(ast.Substrate, []pipeline.Source{{Path: "celsius.sol", Text: celsiusSrc}})
	if result.NS.Diagnostics.AnyErrors() {
		t.Fatalf("unexpected errors: %s", result.NS.Diagnostics.Render())
	}
	out := dumpAST(result.NS)
	if !strings.Contains(out, "celsius2fahrenheit") {
		t.Fatalf("expected dumpAST to mention celsius2fahrenheit, got:\n%s", out)
	}
}

func TestDumpCFGIncludesLoweredFunctions(t *testing.T) {
	result := pipeline.Compile(ast.Substrate, []pipeline.Source{{Path: "celsius.sol", Text: celsiusSrc}})
	if result.NS.Diagnostics.AnyErrors() {
		t.Fatalf("unexpected errors: %s", result.NS.Diagnostics.Render())
	}
	out := dumpCFG(result.NS)
	if !strings.Contains(out, "celsius2fahrenheit") {
		t.Fatalf("expected dumpCFG to mention celsius2fahrenheit, got:\n%s", out)
	}
}

func TestDisplayNameFallsBackForUnnamedFunctions(t *testing.T) {
	if got := displayName(""); got != "<fallback-or-receive>" {
		t.Fatalf("expected the fallback placeholder, got %q", got)
	}
	if got := displayName("flip"); got != "flip" {
		t.Fatalf("expected the name unchanged, got %q", got)
	}
}
