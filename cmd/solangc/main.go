// Command solangc is the command-line front end described in spec §6: it
// reads one or more Solidity source files, drives them through
// internal/pipeline, and writes the requested pipeline stage to stdout or
// -o's output directory.
//
// ──────────────────────────────────────────────────────────────────────
// Layout rules honored (matching this repo's other cmd/ entries):
//   - flags parsed once on the root command, no sub-commands for the
//     common path (compilation is the default action of `solangc <files>`)
//   - PersistentPreRunE wires .env + log level once
//   - Env variables (add to .env):
//     LOG_LEVEL  – trace|debug|info|warn|error (default info)
//
// ──────────────────────────────────────────────────────────────────────
package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/solangc/solangc/pkg/config"
)

var (
	log     = logrus.StandardLogger()
	cfg     *config.Config
	initOne sync.Once
)

func initMiddleware(cmd *cobra.Command, _ []string) error {
	var err error
	initOne.Do(func() {
		_ = godotenv.Load()

		cfg, err = config.LoadFromEnv()
		if err != nil {
			return
		}

		lvlStr := os.Getenv("LOG_LEVEL")
		if lvlStr == "" {
			lvlStr = cfg.Logging.Level
		}
		lvl, e := logrus.ParseLevel(lvlStr)
		if e != nil {
			err = fmt.Errorf("invalid LOG_LEVEL: %w", e)
			return
		}
		log.SetLevel(lvl)

		applyConfigDefaults(cmd, cfg)
	})
	return err
}

// applyConfigDefaults fills flags the user left at their zero value with
// pkg/config's loaded defaults, so a solangc.yaml/.env can set the
// project-wide target/optimizer/output-dir without repeating them on every
// invocation.
func applyConfigDefaults(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("target") && cfg.Target.Name != "" {
		_ = flags.Set("target", cfg.Target.Name)
	}
	if !flags.Changed("optimize") && cfg.Optimizer.Level != "" {
		_ = flags.Set("optimize", cfg.Optimizer.Level)
	}
	if !flags.Changed("output-dir") && cfg.Output.Dir != "" {
		_ = flags.Set("output-dir", cfg.Output.Dir)
	}
	if !flags.Changed("standard-json") && cfg.Output.StandardSON {
		_ = flags.Set("standard-json", "true")
	}
	if !flags.Changed("include-dir") {
		for _, d := range cfg.Output.IncludeDirs {
			_ = flags.Set("include-dir", d)
		}
	}
}

func main() {
	opts := &compileOptions{}

	root := &cobra.Command{
		Use:               "solangc [flags] file...",
		Short:             "compile Solidity contracts to Ewasm, Substrate, Sabre, generic Wasm or Solana BPF",
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: initMiddleware,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.languageServer {
				log.Error("language-server mode is not implemented by this build")
				return errExit{code: 1}
			}
			return runCompile(args, opts)
		},
	}

	flags := root.Flags()
	flags.StringVar(&opts.emit, "emit", "object", "pipeline stage to print/save: ast, cfg, llvm, bc, object")
	flags.StringVarP(&opts.optimize, "optimize", "O", "default", "optimizer level: none, less, default, aggressive")
	flags.StringVar(&opts.target, "target", "substrate", "target runtime: substrate, ewasm, sabre, generic, solana")
	flags.BoolVar(&opts.standardJSON, "standard-json", false, "emit a single standard-json object to stdout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose (debug-level) logging")
	flags.StringVarP(&opts.outDir, "output-dir", "o", ".", "directory for emitted artifacts")
	flags.StringArrayVarP(&opts.includeDirs, "include-dir", "I", nil, "additional import search path (repeatable)")
	flags.BoolVar(&opts.languageServer, "language-server", false, "run as a language-server (unimplemented)")
	flags.BoolVar(&opts.doc, "doc", false, "emit NatSpec-style documentation instead of code (unimplemented)")

	if err := root.Execute(); err != nil {
		if ee, ok := err.(errExit); ok {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

// compileOptions mirrors the flag set of spec §6.
type compileOptions struct {
	emit           string
	optimize       string
	target         string
	standardJSON   bool
	verbose        bool
	outDir         string
	includeDirs    []string
	languageServer bool
	doc            bool
}

// errExit lets RunE carry a specific process exit code through cobra's
// error path without cobra printing it as a usage error.
type errExit struct{ code int }

func (e errExit) Error() string { return "" }
