package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-hgvs/internal/duckdb"
	"github.com/inodb/vibe-hgvs/internal/hgvs"
	"github.com/inodb/vibe-hgvs/internal/input"
	"github.com/inodb/vibe-hgvs/internal/output"
)

func newBatchCmd() *cobra.Command {
	var (
		outputFile    string
		strict        bool
		skipUnchanged bool
	)

	cmd := &cobra.Command{
		Use:   "batch [flags] <input-file>",
		Short: "Parse a file of descriptions",
		Long: `Parse every description in a file, one per line, in parallel.

Blank lines and lines starting with '#' are skipped; only the first
tab-separated column is read. Gzipped input is detected automatically.
Use '-' to read stdin. Results are written in input order, failures included.`,
		Example: `  vibe-hgvs batch descriptions.txt
  vibe-hgvs batch -f json -o results.jsonl descriptions.txt.gz
  vibe-hgvs batch --db results.duckdb descriptions.txt
  vibe-hgvs batch --db results.duckdb --skip-unchanged descriptions.txt
  cut -f3 variants.tsv | vibe-hgvs batch -`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindFlags(cmd, map[string]string{
				keyFormat:    "format",
				keyWorkers:   "workers",
				keyStorePath: "db",
			})
			format := viper.GetString(keyFormat)

			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			p, err := newParser("", logger)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			w, err := output.NewWriter(format, out)
			if err != nil {
				return &usageError{err: err}
			}
			writers := []hgvs.ResultWriter{w}

			var (
				store *duckdb.Store
				fp    *duckdb.FileFingerprint
			)
			if path := viper.GetString(keyStorePath); path != "" {
				store, err = duckdb.Open(path)
				if err != nil {
					return fmt.Errorf("open store: %w", err)
				}
				defer store.Close()

				if args[0] != "-" {
					stat, err := duckdb.StatFile(args[0])
					if err != nil {
						return fmt.Errorf("stat input: %w", err)
					}
					fp = &stat
				}
				if skipUnchanged && fp != nil {
					done, err := store.Converted(*fp)
					if err != nil {
						return err
					}
					if done {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s unchanged since last run, skipping\n", args[0])
						return nil
					}
				}

				writers = append(writers, duckdb.NewWriter(store, duckdb.DefaultBatchSize))
				logger.Debug("storing results", zap.String("path", path))
			}

			reader, err := input.NewReader(args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			sum, err := p.ConvertAll(reader, output.NewMultiWriter(writers...))
			if err != nil {
				return err
			}

			if fp != nil {
				if err := store.RecordRun(duckdb.Run{Input: *fp, Total: sum.Total, Failed: sum.Failed}); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%d descriptions, %d failed\n", sum.Total, sum.Failed)
			if strict && sum.Failed > 0 {
				return fmt.Errorf("%d of %d descriptions failed to parse", sum.Failed, sum.Total)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringP("format", "f", "tab", "Output format: "+strings.Join(output.Formats, ", "))
	f.StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	f.IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	f.String("db", "", "Also store results in this DuckDB database")
	f.BoolVar(&strict, "strict", false, "Exit with an error if any description fails to parse")
	f.BoolVar(&skipUnchanged, "skip-unchanged", false, "With --db, skip inputs already converted since their last change")

	return cmd
}
