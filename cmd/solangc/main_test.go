package main

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/solangc/solangc/pkg/config"
)

func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	flags := cmd.Flags()
	flags.String("target", "substrate", "")
	flags.String("optimize", "default", "")
	flags.String("output-dir", ".", "")
	flags.Bool("standard-json", false, "")
	flags.StringArray("include-dir", nil, "")
	return cmd
}

// TestApplyConfigDefaultsFillsUnsetFlags covers the precedence spec §6
// implies for config-sourced defaults: a loaded config only fills flags
// the user left untouched.
func TestApplyConfigDefaultsFillsUnsetFlags(t *testing.T) {
	cmd := newFlagCommand()
	loaded := &config.Config{}
	loaded.Target.Name = "ewasm"
	loaded.Optimizer.Level = "aggressive"
	loaded.Output.Dir = "/tmp/out"
	loaded.Output.StandardSON = true
	loaded.Output.IncludeDirs = []string{"contracts"}

	applyConfigDefaults(cmd, loaded)

	if got, _ := cmd.Flags().GetString("target"); got != "ewasm" {
		t.Fatalf("expected target to default from config, got %q", got)
	}
	if got, _ := cmd.Flags().GetString("optimize"); got != "aggressive" {
		t.Fatalf("expected optimize to default from config, got %q", got)
	}
	if got, _ := cmd.Flags().GetString("output-dir"); got != "/tmp/out" {
		t.Fatalf("expected output-dir to default from config, got %q", got)
	}
	if got, _ := cmd.Flags().GetBool("standard-json"); !got {
		t.Fatalf("expected standard-json to default from config")
	}
	if got, _ := cmd.Flags().GetStringArray("include-dir"); len(got) != 1 || got[0] != "contracts" {
		t.Fatalf("expected include-dir to default from config, got %v", got)
	}
}

// TestApplyConfigDefaultsNeverOverridesExplicitFlags ensures a flag the
// user set on the command line is never clobbered by config defaults.
func TestApplyConfigDefaultsNeverOverridesExplicitFlags(t *testing.T) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Set("target", "sabre"); err != nil {
		t.Fatalf("failed to set target flag: %v", err)
	}

	loaded := &config.Config{}
	loaded.Target.Name = "ewasm"

	applyConfigDefaults(cmd, loaded)

	if got, _ := cmd.Flags().GetString("target"); got != "sabre" {
		t.Fatalf("expected the explicit target flag to survive, got %q", got)
	}
}

func TestErrExitCarriesCode(t *testing.T) {
	var err error = errExit{code: 3}
	ee, ok := err.(errExit)
	if !ok || ee.code != 3 {
		t.Fatalf("expected errExit{code: 3}, got %#v", err)
	}
	if err.Error() != "" {
		t.Fatalf("expected errExit's Error() to be empty (cobra must not print it), got %q", err.Error())
	}
}
