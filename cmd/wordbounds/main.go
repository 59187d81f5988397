package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kerem-kaynak/word-bounds/internal/config"
	"github.com/kerem-kaynak/word-bounds/internal/logging"
	"github.com/kerem-kaynak/word-bounds/pkg/rules"
	"github.com/kerem-kaynak/word-bounds/pkg/wordbounds"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wordbounds",
		Short: "Split identifiers into lowercase words",
		Long: `wordbounds resolves word boundaries inside identifier strings such as
camelCase, snake_case, kebab-case and mixed forms like "HTTPResponse2XX",
returning the lowercase words they are made of.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("engine", "", "Resolution engine: automaton, pattern or split")
	rootCmd.PersistentFlags().String("rules", "", "YAML rule file (default rules when empty)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.wordbounds/config.yaml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newResolveCmd(),
		newCompileCmd(),
		newRulesCmd(),
		newBenchCmd(),
		newIndexCmd(),
	)
	return rootCmd
}

// runtimeEnv is the configuration every subcommand starts from: config file,
// environment and flags merged and validated.
type runtimeEnv struct {
	cfg    *config.Config
	kind   wordbounds.Kind
	rules  rules.RuleSet
	logger *slog.Logger
}

func loadEnv(cmd *cobra.Command) (*runtimeEnv, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	kind, err := wordbounds.ParseKind(cfg.Engine)
	if err != nil {
		return nil, err
	}

	var rs rules.RuleSet = rules.Default{}
	if cfg.RulesFile != "" {
		fileRules, err := rules.LoadFile(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		rs = fileRules
	}

	logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
	logger.Debug("configuration loaded",
		"engine", kind.String(),
		"rules", cfg.RulesFile,
		"cache", cfg.Cache.Enabled,
		"cache_size", cfg.Cache.Size)

	return &runtimeEnv{cfg: cfg, kind: kind, rules: rs, logger: logger}, nil
}

// loadConfig reads --config (or the default file), applies the environment,
// then applies any flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		fileCfg, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		if err := fileCfg.ApplyEnv(); err != nil {
			return nil, err
		}
		cfg = fileCfg
	} else {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Engine, _ = flags.GetString("engine")
	}
	if flags.Changed("rules") {
		cfg.RulesFile, _ = flags.GetString("rules")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	return cfg, nil
}

func (e *runtimeEnv) resolver(extra ...wordbounds.Option) (*wordbounds.Resolver, error) {
	opts := append(e.cfg.ResolverOptions(), wordbounds.WithLogger(e.logger))
	opts = append(opts, extra...)
	return wordbounds.New(e.kind, e.rules, opts...)
}
