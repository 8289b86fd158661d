package testutil

import (
	"bytes"
	"os"
	"testing"
)

func TestSandboxReadWrite(t *testing.T) {
	sb, err := NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox failed: %v", err)
	}
	defer sb.Cleanup()

	data := []byte("hello world")
	if err := sb.WriteFile("file.txt", data, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, err := sb.ReadFile("file.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("data mismatch: got %q want %q", got, data)
	}
}

func TestSandboxCleanup(t *testing.T) {
	sb, err := NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox failed: %v", err)
	}
	path := sb.Path("temp")
	if err := sb.WriteFile("temp", []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := sb.Cleanup(); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected sandbox to be removed")
	}
}

func TestSandboxPathJoinsRoot(t *testing.T) {
	sb, err := NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox failed: %v", err)
	}
	defer sb.Cleanup()

	if got, want := sb.Path("contract.sol"), sb.Root+string(os.PathSeparator)+"contract.sol"; got != want {
		t.Fatalf("Path mismatch: got %q want %q", got, want)
	}
}
