package syntax

import "testing"

func TestParseCelsiusToFahrenheit(t *testing.T) {
	src := `
contract Celsius {
    function celsius2fahrenheit(int32 c) public pure returns (int32) {
        return c * 9 / 5 + 32;
    }
}
`
	f, err := ParseFile("celsius.sol", src)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(f.Contracts) != 1 {
		t.Fatalf("expected 1 contract, got %d", len(f.Contracts))
	}
	c := f.Contracts[0]
	if len(c.Functions) != 1 || c.Functions[0].Name != "celsius2fahrenheit" {
		t.Fatalf("unexpected functions: %+v", c.Functions)
	}
	fn := c.Functions[0]
	if fn.Mutability != "pure" || len(fn.Params) != 1 || fn.Params[0].Type.Name != "int32" {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
	if len(fn.Body) != 1 || fn.Body[0].Kind != StReturn {
		t.Fatalf("expected a single return statement, got %+v", fn.Body)
	}
}

func TestParseFlipper(t *testing.T) {
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
	f, err := ParseFile("flipper.sol", src)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	c := f.Contracts[0]
	if len(c.Variables) != 1 || c.Variables[0].Name != "value" {
		t.Fatalf("unexpected variables: %+v", c.Variables)
	}
	if len(c.Functions) != 3 {
		t.Fatalf("expected 3 functions (constructor, flip, get), got %d", len(c.Functions))
	}
	if c.Functions[0].Kind != "constructor" {
		t.Fatalf("expected first declaration to be the constructor, got %q", c.Functions[0].Kind)
	}
}

func TestParseInheritedStorageLayout(t *testing.T) {
	src := `
contract a {
    uint16 var_a;
}

contract b is a {
    uint16 var_b;
}
`
	f, err := ParseFile("layout.sol", src)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(f.Contracts) != 2 {
		t.Fatalf("expected 2 contracts, got %d", len(f.Contracts))
	}
	if len(f.Contracts[1].Inherit) != 1 || f.Contracts[1].Inherit[0] != "a" {
		t.Fatalf("expected b to inherit a, got %+v", f.Contracts[1].Inherit)
	}
}

func TestParseRevertWithReason(t *testing.T) {
	src := `
contract R {
    function boom() public pure {
        revert("yo!");
    }
}
`
	f, err := ParseFile("revert.sol", src)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	body := f.Contracts[0].Functions[0].Body
	if len(body) != 1 || body[0].Kind != StRevert || body[0].Expr == nil || body[0].Expr.Text != "yo!" {
		t.Fatalf("unexpected revert statement: %+v", body)
	}
}

func TestParseTryCatch(t *testing.T) {
	src := `
contract Caller {
    function call_it(Oracle o) public {
        try o.foo() returns (int32 x, bool ok) {
        } catch Error(string memory reason) {
        } catch (bytes memory data) {
        }
    }
}
`
	f, err := ParseFile("trycatch.sol", src)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	body := f.Contracts[0].Functions[0].Body
	if len(body) != 1 || body[0].Kind != StTry {
		t.Fatalf("expected a single try statement, got %+v", body)
	}
	st := body[0]
	if len(st.TryReturns) != 2 {
		t.Fatalf("expected 2 try-returns, got %d", len(st.TryReturns))
	}
	if st.CatchError == nil || st.CatchError.ParamName != "reason" {
		t.Fatalf("expected a catch-Error clause binding 'reason', got %+v", st.CatchError)
	}
	if st.CatchBytes == nil || st.CatchBytes.ParamName != "data" {
		t.Fatalf("expected a catch-bytes clause binding 'data', got %+v", st.CatchBytes)
	}
}

func TestParseOverrideModifiers(t *testing.T) {
	src := `
contract Base1 {
    function f() public virtual {}
}

contract Base2 {
    function f() public virtual {}
}

contract Derived is Base1, Base2 {
    function f() public override(Base1, Base2) {}
}
`
	f, err := ParseFile("override.sol", src)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	derived := f.Contracts[2]
	fn := derived.Functions[0]
	if !fn.Override || len(fn.OverrideOf) != 2 {
		t.Fatalf("expected an explicit two-base override, got %+v", fn)
	}
}

func TestLexerHandlesCommentsAndHex(t *testing.T) {
	src := `// a comment
address constant OWNER = 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed; /* block */`
	toks, err := NewLexer(src).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	foundHex := false
	for _, tok := range toks {
		if tok.Kind == TokHexLiteral {
			foundHex = true
		}
	}
	if !foundHex {
		t.Fatalf("expected a hex literal token, got %+v", toks)
	}
}
