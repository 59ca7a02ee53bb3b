package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-hgvs/internal/duckdb"
	"github.com/inodb/vibe-hgvs/internal/model"
)

func newQueryCmd() *cobra.Command {
	var (
		description string
		reference   string
		kind        string
		failed      bool
		errorKind   string
		count       bool
		runs        bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "query [flags]",
		Short: "Query results stored by batch --db",
		Example: `  vibe-hgvs query --db results.duckdb --count
  vibe-hgvs query --db results.duckdb --description 'NM_004006.3:c.100del'
  vibe-hgvs query --db results.duckdb --reference NG_012337.1
  vibe-hgvs query --db results.duckdb --type deletion_insertion --json
  vibe-hgvs query --db results.duckdb --failed --error-kind unexpected_character
  vibe-hgvs query --db results.duckdb --runs`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindFlags(cmd, map[string]string{keyStorePath: "db"})
			path := viper.GetString(keyStorePath)
			if path == "" {
				return usageErrorf("no database: use --db or set %s", keyStorePath)
			}

			selectors := 0
			for _, set := range []bool{description != "", reference != "", kind != "", failed, count, runs} {
				if set {
					selectors++
				}
			}
			if selectors != 1 {
				return usageErrorf("exactly one of --description, --reference, --type, --failed, --count or --runs is required")
			}
			if kind != "" && !slices.Contains(model.OperationKinds, model.OperationKind(kind)) {
				return usageErrorf("unknown variant type %q", kind)
			}

			store, err := duckdb.Open(path)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			var results []duckdb.StoredResult
			switch {
			case count:
				n, err := store.Count()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, n)
				return nil
			case runs:
				rs, err := store.Runs()
				if err != nil {
					return err
				}
				return printRuns(out, rs)
			case description != "":
				r, err := store.Lookup(description)
				if err != nil {
					return err
				}
				if r == nil {
					return fmt.Errorf("description %q not found", description)
				}
				results = append(results, *r)
			case reference != "":
				results, err = store.SearchByReference(reference)
			case kind != "":
				results, err = store.SearchByType(kind)
			case failed:
				results, err = store.SearchFailed(errorKind)
			}
			if err != nil {
				return err
			}

			return printStored(out, results, asJSON)
		},
	}

	f := cmd.Flags()
	f.String("db", "", "DuckDB database written by batch --db (default: store.path)")
	f.StringVarP(&description, "description", "d", "", "Look up a single description")
	f.StringVarP(&reference, "reference", "r", "", "List results for a reference ID")
	f.StringVarP(&kind, "type", "t", "", "List results containing a variant type")
	f.BoolVar(&failed, "failed", false, "List descriptions that failed to parse")
	f.StringVar(&errorKind, "error-kind", "", "With --failed, restrict to one error kind")
	f.BoolVar(&count, "count", false, "Print the number of stored results")
	f.BoolVar(&runs, "runs", false, "List recorded batch runs")
	f.BoolVar(&asJSON, "json", false, "Print JSON lines instead of tab-delimited rows")

	return cmd
}

func printStored(w io.Writer, results []duckdb.StoredResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, r := range results {
			if err := enc.Encode(storedRecord(r)); err != nil {
				return err
			}
		}
		return nil
	}

	fmt.Fprintln(w, "#Description\tReference\tCoordinate_system\tVariant_count\tVariant_types\tError_kind")
	for _, r := range results {
		fields := []string{
			r.Description,
			orDash(r.Reference),
			orDash(r.CoordinateSystem),
			strconv.Itoa(r.VariantCount),
			orDash(strings.Join(r.VariantTypes, ",")),
			orDash(r.ErrorKind),
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func printRuns(w io.Writer, runs []duckdb.Run) error {
	fmt.Fprintln(w, "#Input\tSize\tModified\tTotal\tFailed\tFinished")
	for _, r := range runs {
		if _, err := fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%s\n",
			r.Input.Path, r.Input.Size, r.Input.ModTime.Format(time.RFC3339),
			r.Total, r.Failed, r.FinishedAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}

func storedRecord(r duckdb.StoredResult) map[string]any {
	m := map[string]any{"description": r.Description}
	if r.Model != nil {
		m["model"] = r.Model
	}
	if !r.OK() {
		m["error"] = map[string]any{"kind": r.ErrorKind, "message": r.Error}
	}
	return m
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
