package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-hgvs/internal/grammar"
	"github.com/inodb/vibe-hgvs/internal/hgvs"
	"github.com/inodb/vibe-hgvs/internal/model"
)

var parseFormats = []string{"json", "yaml", "tree"}

func newParseCmd() *cobra.Command {
	var (
		rule   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "parse [flags] <description>...",
		Short: "Parse descriptions and print their model",
		Long: `Parse one or more descriptions and print the model of each.

With --rule, input is parsed from a narrower grammar rule
(` + strings.Join(grammar.StartRules, ", ") + `).
The tree format prints the syntax tree instead of the model.`,
		Example: `  vibe-hgvs parse 'NG_012337.1(NM_012459.2):c.100_200del'
  vibe-hgvs parse -f yaml 'NM_004006.3:c.[100del;200dup]'
  vibe-hgvs parse --rule variant '10_20del10insGA'
  vibe-hgvs parse -f tree 'NM_004006.3:c.100+5G>A'`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(parseFormats, format) {
				return usageErrorf("unsupported format %q (supported: %s)", format, strings.Join(parseFormats, ", "))
			}

			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			p, err := newParser(rule, logger)
			if err != nil {
				return err
			}

			failed := 0
			for _, text := range args {
				if err := printParsed(cmd.OutOrStdout(), p, text, format); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s\n%v\n", text, err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d descriptions failed to parse", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rule, "rule", "r", "", "Start rule (default: parser.start_rule)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: "+strings.Join(parseFormats, ", "))

	return cmd
}

func printParsed(w io.Writer, p *hgvs.Parser, text, format string) error {
	if format == "tree" {
		tree, err := p.Parse(text)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, tree.Pretty())
		return err
	}

	v, err := p.Convert(text)
	if err != nil {
		return err
	}
	serialized := model.Serialize(v)

	var out []byte
	if format == "yaml" {
		out, err = yaml.Marshal(serialized)
	} else {
		out, err = json.MarshalIndent(serialized, "", "  ")
		out = append(out, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	_, err = w.Write(out)
	return err
}
