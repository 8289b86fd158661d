package pipeline

import (
	"strings"
	"testing"

	"github.com/solangc/solangc/internal/ast"
)

// TestCompileCelsiusToFahrenheit drives spec §8 scenario 1 through the full
// pipeline: a pure function with no storage access must compile cleanly,
// lower to a CFG that neither reads nor writes storage, and surface in the
// contract's ABI as a "pure" function.
func TestCompileCelsiusToFahrenheit(t *testing.T) {
	src := `
contract Celsius {
    function celsius2fahrenheit(int32 c) public pure returns (int32) {
        return c * 9 / 5 + 32;
    }
}
`
	result := Compile(ast.Substrate, []Source{{Path: "celsius.sol", Text: src}})
	if result.NS.Diagnostics.AnyErrors() {
		t.Fatalf("unexpected errors: %s", result.NS.Diagnostics.Render())
	}
	if len(result.NS.Functions) != 2 {
		t.Fatalf("expected 2 functions (celsius2fahrenheit and the synthesized constructor), got %d", len(result.NS.Functions))
	}
	fn := result.NS.Functions[0]
	if fn.CFG == nil {
		t.Fatalf("expected the function body to be lowered")
	}
	if fn.CFG.ReadsStorage || fn.CFG.WritesStorage {
		t.Fatalf("celsius2fahrenheit must not touch storage, got reads=%v writes=%v", fn.CFG.ReadsStorage, fn.CFG.WritesStorage)
	}
	if len(result.Modules) != 1 {
		t.Fatalf("expected 1 emitted module, got %d", len(result.Modules))
	}
	if !strings.Contains(string(result.Modules[0].ABI), "celsius2fahrenheit") {
		t.Fatalf("expected the ABI to mention celsius2fahrenheit, got %s", result.Modules[0].ABI)
	}
}

// TestCompileFlipper drives spec §8 scenario 2: a constructor, a storage
// write (flip), and a storage read (get) must all lower with the correct
// ReadsStorage/WritesStorage classification for the mutability audit.
func TestCompileFlipper(t *testing.T) {
	src := `
contract Flipper {
    bool value;

    constructor(bool initial) public {
        value = initial;
    }

    function flip() public {
        value = !value;
    }

    function get() public view returns (bool) {
        return value;
    }
}
`
	result := Compile(ast.Substrate, []Source{{Path: "flipper.sol", Text: src}})
	if result.NS.Diagnostics.AnyErrors() {
		t.Fatalf("unexpected errors: %s", result.NS.Diagnostics.Render())
	}

	var flip, get *ast.Function
	for i := range result.NS.Functions {
		fn := &result.NS.Functions[i]
		switch fn.Name {
		case "flip":
			flip = fn
		case "get":
			get = fn
		}
	}
	if flip == nil || get == nil {
		t.Fatalf("expected both flip and get to resolve")
	}
	if flip.CFG == nil || !flip.CFG.WritesStorage {
		t.Fatalf("expected flip() to be classified as writing storage")
	}
	if get.CFG == nil || !get.CFG.ReadsStorage || get.CFG.WritesStorage {
		t.Fatalf("expected get() to be classified as read-only, got reads=%v writes=%v", get.CFG.ReadsStorage, get.CFG.WritesStorage)
	}
	if len(result.Modules) != 1 {
		t.Fatalf("expected 1 emitted module, got %d", len(result.Modules))
	}
}

// TestCompileInheritedStorageLayout drives spec §8 scenario 3: contract b
// inherits a; a's uint16 var_a occupies slot 0, b's own uint16 var_b
// occupies slot 1.
func TestCompileInheritedStorageLayout(t *testing.T) {
	src := `
contract a {
    uint16 var_a;
}

contract b is a {
    uint16 var_b;
}
`
	result := Compile(ast.Substrate, []Source{{Path: "layout.sol", Text: src}})
	if result.NS.Diagnostics.AnyErrors() {
		t.Fatalf("unexpected errors: %s", result.NS.Diagnostics.Render())
	}

	var bIdx int = -1
	for i, c := range result.NS.Contracts {
		if c.Name == "b" {
			bIdx = i
		}
	}
	if bIdx < 0 {
		t.Fatalf("expected to find contract b")
	}
	layout := result.NS.Contracts[bIdx].Layout
	if len(layout) != 2 {
		t.Fatalf("expected 2 layout entries, got %d: %+v", len(layout), layout)
	}
	byVar := map[string]int{}
	for _, l := range layout {
		byVar[result.NS.Variables[l.Var].Name] = l.Slot
	}
	if byVar["var_a"] != 0 {
		t.Fatalf("expected var_a at slot 0, got %d", byVar["var_a"])
	}
	if byVar["var_b"] != 1 {
		t.Fatalf("expected var_b at slot 1, got %d", byVar["var_b"])
	}
}

// TestCompileRevertPayload drives spec §8 scenario 4 on an Ethereum-ABI
// target: the emitted IR for a reverting function must carry the
// Error(string) selector 0x08c379a0.
func TestCompileRevertPayload(t *testing.T) {
	src := `
contract R {
    function boom() public pure {
        revert("yo!");
    }
}
`
	result := Compile(ast.Ewasm, []Source{{Path: "revert.sol", Text: src}})
	if result.NS.Diagnostics.AnyErrors() {
		t.Fatalf("unexpected errors: %s", result.NS.Diagnostics.Render())
	}
	if len(result.Modules) != 1 {
		t.Fatalf("expected 1 emitted module, got %d", len(result.Modules))
	}
	if !strings.Contains(result.Modules[0].IR, "0x08c379a0") {
		t.Fatalf("expected the emitted IR to carry the Error(string) selector, got:\n%s", result.Modules[0].IR)
	}
}

// TestCompileOverrideWithoutVirtualIsAnError drives spec §8 scenario 6: two
// sibling bases define f() without `virtual`; a derived contract without
// `override` must be rejected.
func TestCompileOverrideWithoutVirtualIsAnError(t *testing.T) {
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
	result := Compile(ast.Substrate, []Source{{Path: "diamond.sol", Text: src}})
	if !result.NS.Diagnostics.AnyErrors() {
		t.Fatalf("expected a diagnostic for the unresolved diamond override")
	}
	if len(result.Modules) != 0 {
		t.Fatalf("emission must be gated on !AnyErrors(), got %d modules", len(result.Modules))
	}
}
