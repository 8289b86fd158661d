package diag

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatWithNote(t *testing.T) {
	d := Diagnostic{
		Level:   Error,
		Kind:    KindDeclaration,
		Span:    Span{File: "a.sol", Line: 3, Column: 5},
		Message: "already defined 'f'",
		Notes: []Note{
			{Span: Span{File: "a.sol", Line: 1, Column: 1}, Message: "previous definition of 'f'"},
		},
	}
	got := d.Format()
	if !strings.HasPrefix(got, "a.sol:3:5: error: already defined 'f'") {
		t.Fatalf("unexpected format: %q", got)
	}
	if !strings.Contains(got, "\n\ta.sol:1:1: previous definition of 'f'") {
		t.Fatalf("note not indented as expected: %q", got)
	}
}

func TestLogAnyErrors(t *testing.T) {
	var l Log
	if l.AnyErrors() {
		t.Fatalf("empty log reported errors")
	}
	l.Warnf(Span{}, "shadowed variable %q", "x")
	if l.AnyErrors() {
		t.Fatalf("warning-only log reported errors")
	}
	l.Errorf(KindType, Span{}, "mismatched types")
	if !l.AnyErrors() {
		t.Fatalf("expected AnyErrors after Errorf")
	}
}

func TestLogOrderPreserved(t *testing.T) {
	var l Log
	l.Infof(Span{}, "first")
	l.Warnf(Span{}, "second")
	l.Errorf(KindType, Span{}, "third")
	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Message != "first" || entries[1].Message != "second" || entries[2].Message != "third" {
		t.Fatalf("order not preserved: %+v", entries)
	}
}

func TestJSONExcludesInfoAndDebug(t *testing.T) {
	var l Log
	l.Infof(Span{}, "trace")
	l.Push(Diagnostic{Level: Debug, Message: "debug trace"})
	l.Warnf(Span{File: "x.sol", Line: 2, Column: 1}, "unused parameter")
	l.Errorf(KindType, Span{File: "x.sol", Line: 4, Column: 1}, "bad cast")

	b, err := l.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	var decoded []jsonDiagnostic
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 entries (warning+error), got %d: %s", len(decoded), b)
	}
	if decoded[0].Component != "general" || decoded[1].Component != "general" {
		t.Fatalf("component field not always 'general': %+v", decoded)
	}
	if decoded[1].Severity != "error" {
		t.Fatalf("expected second entry severity error, got %s", decoded[1].Severity)
	}
}

func TestErrorWithNote(t *testing.T) {
	var l Log
	l.ErrorWithNote(KindDeclaration, Span{File: "a.sol", Line: 5}, "already defined 'foo'",
		Span{File: "a.sol", Line: 1}, "previous definition of 'foo'")
	entries := l.Entries()
	if len(entries) != 1 || len(entries[0].Notes) != 1 {
		t.Fatalf("expected one entry with one note, got %+v", entries)
	}
}
