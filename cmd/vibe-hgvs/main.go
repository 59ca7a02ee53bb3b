// Package main provides the vibe-hgvs command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/vibe-hgvs/internal/hgvs"
	"github.com/inodb/vibe-hgvs/internal/report"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Configuration keys.
const (
	keyStartRule = "parser.start_rule"
	keyBackend   = "parser.backend"
	keyWorkers   = "batch.workers"
	keyFormat    = "batch.format"
	keyStorePath = "store.path"
)

const configName = ".vibe-hgvs"

var (
	cfgFile string
	verbose bool
)

// usageError marks failures caused by how the command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	var ue *usageError
	var npd *report.NoParserDefinedError
	var upt *report.UnsupportedParserTypeError
	if errors.As(err, &ue) || errors.As(err, &npd) || errors.As(err, &upt) {
		return ExitUsage
	}
	return ExitError
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vibe-hgvs",
		Short: "HGVS variant description parser",
		Long: `vibe-hgvs parses HGVS variant descriptions such as
NG_012337.1(NM_012459.2):c.100_200del into a structured model.`,
		Example: `  vibe-hgvs parse 'NM_004006.3:c.100del'
  vibe-hgvs parse --rule location '(10_20)_30'
  vibe-hgvs batch -f json descriptions.txt
  vibe-hgvs batch --db results.duckdb descriptions.txt.gz
  vibe-hgvs query --reference NM_004006.3 --db results.duckdb`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ~/.vibe-hgvs.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.String("backend", hgvs.BackendDescent, "Grammar engine: "+strings.Join(hgvs.Backends, ", "))
	viper.BindPFlag(keyBackend, pf.Lookup("backend"))

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(
		newParseCmd(),
		newBatchCmd(),
		newQueryCmd(),
		newTerminalsCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

func initConfig() error {
	viper.SetDefault(keyStartRule, "description")
	viper.SetDefault(keyBackend, hgvs.BackendDescent)
	viper.SetDefault(keyWorkers, 0)
	viper.SetDefault(keyFormat, "tab")
	viper.SetDefault(keyStorePath, "")

	viper.SetEnvPrefix("VIBE_HGVS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (cfgFile == "" && errors.Is(err, os.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}

// newParser builds a parser from configuration, with rule overriding the
// configured start rule when non-empty.
func newParser(rule string, logger *zap.Logger) (*hgvs.Parser, error) {
	if rule == "" {
		rule = viper.GetString(keyStartRule)
	}
	return hgvs.NewParser(
		hgvs.WithStartRule(rule),
		hgvs.WithBackend(viper.GetString(keyBackend)),
		hgvs.WithWorkers(viper.GetInt(keyWorkers)),
		hgvs.WithLogger(logger),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vibe-hgvs version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// usageArgs wraps a cobra argument validator so its failures exit with
// ExitUsage.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// bindFlags binds configuration keys to flags of cmd. Commands sharing a key
// bind when they run, so the running command's flag wins.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		if f := cmd.Flags().Lookup(name); f != nil {
			viper.BindPFlag(key, f)
		}
	}
}
