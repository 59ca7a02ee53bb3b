package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-hgvs/internal/grammar"
	"github.com/inodb/vibe-hgvs/internal/hgvs"
	"github.com/inodb/vibe-hgvs/internal/output"
)

var configKeys = []string{keyStartRule, keyBackend, keyWorkers, keyFormat, keyStorePath}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-hgvs configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.vibe-hgvs.yaml.",
		Example: `  vibe-hgvs config                               # show all config
  vibe-hgvs config set batch.workers 8           # fix the worker count
  vibe-hgvs config set store.path ~/hgvs.duckdb  # always store batch results
  vibe-hgvs config get parser.start_rule         # get a value`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.OutOrStdout(), args[0])
		},
	}
}

func runConfigShow(w io.Writer) error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Fprintln(w, "# No configuration set. Config file: ~/.vibe-hgvs.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "# %s\n", used)
	}
	_, err = w.Write(out)
	return err
}

// validateSetting rejects values the commands could not use.
func validateSetting(key, value string) (any, error) {
	switch key {
	case keyWorkers:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, usageErrorf("%s must be a non-negative integer, got %q", key, value)
		}
		return n, nil
	case keyStartRule:
		if !grammar.HasStartRule(value) {
			return nil, usageErrorf("unknown start rule %q (known: %s)", value, strings.Join(grammar.StartRules, ", "))
		}
	case keyBackend:
		if !slices.Contains(hgvs.Backends, value) {
			return nil, usageErrorf("unknown backend %q (known: %s)", value, strings.Join(hgvs.Backends, ", "))
		}
	case keyFormat:
		if !slices.Contains(output.Formats, value) {
			return nil, usageErrorf("unknown format %q (known: %s)", value, strings.Join(output.Formats, ", "))
		}
	case keyStorePath:
	default:
		return nil, usageErrorf("unknown key %q (known: %s)", key, strings.Join(configKeys, ", "))
	}
	return value, nil
}

func runConfigSet(w io.Writer, key, value string) error {
	v, err := validateSetting(key, value)
	if err != nil {
		return err
	}
	viper.Set(key, v)

	// Write to the file in use, creating ~/.vibe-hgvs.yaml if there is none.
	path := viper.ConfigFileUsed()
	if path == "" {
		if path, err = defaultConfigPath(); err != nil {
			return err
		}
	}

	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(w, "Set %s = %s in %s\n", key, value, path)
	return nil
}

func runConfigGet(w io.Writer, key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(w, val)
	return nil
}
