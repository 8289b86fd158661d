package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"

	"github.com/solangc/solangc/internal/testutil"
)

func TestLoadConfigDefaults(t *testing.T) {
	sb, err := testutil.NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox failed: %v", err)
	}
	defer sb.Cleanup()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	defer os.Chdir(wd)
	viper.Reset()

	if err := os.Chdir(sb.Root); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Target.Name != "substrate" {
		t.Fatalf("expected default target substrate, got %s", cfg.Target.Name)
	}
	if cfg.Target.AddressBytes != 20 {
		t.Fatalf("expected default address width 20, got %d", cfg.Target.AddressBytes)
	}
	if cfg.Optimizer.Level != "default" {
		t.Fatalf("expected default optimizer level, got %s", cfg.Optimizer.Level)
	}
}

func TestLoadConfigFileOverride(t *testing.T) {
	sb, err := testutil.NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox failed: %v", err)
	}
	defer sb.Cleanup()

	if err := os.Mkdir(sb.Path("config"), 0700); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	data := []byte("target:\n  name: solana\noptimizer:\n  level: aggressive\n")
	if err := sb.WriteFile("config/default.yaml", data, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	defer os.Chdir(wd)
	viper.Reset()

	if err := os.Chdir(sb.Root); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Target.Name != "solana" {
		t.Fatalf("expected target solana, got %s", cfg.Target.Name)
	}
	if cfg.Optimizer.Level != "aggressive" {
		t.Fatalf("expected optimizer level aggressive, got %s", cfg.Optimizer.Level)
	}
}

func TestLoadFromEnvUsesSolangcEnv(t *testing.T) {
	sb, err := testutil.NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox failed: %v", err)
	}
	defer sb.Cleanup()

	if err := os.Mkdir(sb.Path("config"), 0700); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	if err := sb.WriteFile("config/default.yaml", []byte("target:\n  name: substrate\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := sb.WriteFile("config/ci.yaml", []byte("target:\n  name: generic\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	defer os.Chdir(wd)
	viper.Reset()
	os.Setenv("SOLANGC_ENV", "ci")
	defer os.Unsetenv("SOLANGC_ENV")

	if err := os.Chdir(sb.Root); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.Target.Name != "generic" {
		t.Fatalf("expected merged target generic, got %s", cfg.Target.Name)
	}
}
