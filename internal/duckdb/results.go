package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-hgvs/internal/hgvs"
	"github.com/inodb/vibe-hgvs/internal/report"
)

// StoredResult is one row of the descriptions table.
type StoredResult struct {
	Description      string
	Reference        string
	CoordinateSystem string
	VariantCount     int
	VariantTypes     []string
	Model            map[string]any // nil for failed conversions
	ErrorKind        string
	Error            string
}

// OK reports whether the description converted successfully.
func (r StoredResult) OK() bool {
	return r.ErrorKind == ""
}

// NewStoredResult flattens a conversion result into a row.
func NewStoredResult(r hgvs.WorkResult) StoredResult {
	sr := StoredResult{Description: r.Text}
	if d := r.Description; d != nil {
		sr.Reference = d.Reference.String()
		sr.CoordinateSystem = d.CoordinateSystem
		sr.VariantCount = len(d.Variants)
		sr.VariantTypes = d.Types()
		sr.Model = d.Map()
	}
	if r.Err != nil {
		sr.ErrorKind = report.Kind(r.Err)
		sr.Error = r.Err.Error()
	}
	return sr
}

const resultColumns = `description, reference, coordinate_system, variant_count,
		variant_types, model_json, error_kind, error_message`

// WriteResults batch-inserts results using the Appender API.
// Duplicate descriptions are written once; rows already stored for the same
// descriptions are replaced.
func (s *Store) WriteResults(results []StoredResult) error {
	if len(results) == 0 {
		return nil
	}

	// Last occurrence wins within the batch.
	index := make(map[string]int, len(results))
	deduped := make([]StoredResult, 0, len(results))
	for _, r := range results {
		if i, ok := index[r.Description]; ok {
			deduped[i] = r
			continue
		}
		index[r.Description] = len(deduped)
		deduped = append(deduped, r)
	}

	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	for _, r := range deduped {
		if _, err := conn.ExecContext(ctx, "DELETE FROM descriptions WHERE description=?", r.Description); err != nil {
			return fmt.Errorf("replace result: %w", err)
		}
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "descriptions")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range deduped {
		modelJSON := ""
		if r.Model != nil {
			b, err := json.Marshal(r.Model)
			if err != nil {
				return fmt.Errorf("encode model of %q: %w", r.Description, err)
			}
			modelJSON = string(b)
		}
		if err := appender.AppendRow(
			r.Description, r.Reference, r.CoordinateSystem, int32(r.VariantCount),
			strings.Join(r.VariantTypes, ","), modelJSON, r.ErrorKind, r.Error,
		); err != nil {
			return fmt.Errorf("append result: %w", err)
		}
	}

	return appender.Flush()
}

// Clear removes all stored results.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM descriptions")
	return err
}

// Count returns the number of stored results.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT count(*) FROM descriptions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

// Lookup returns the stored result for description, or nil if there is none.
func (s *Store) Lookup(description string) (*StoredResult, error) {
	rows, err := s.db.Query(`SELECT `+resultColumns+`
		FROM descriptions
		WHERE description=?`, description)
	if err != nil {
		return nil, fmt.Errorf("query description: %w", err)
	}
	defer rows.Close()

	results, err := scanResults(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// SearchByReference returns results whose reference is id, either exactly or
// as the outer reference of a selector form such as id(NM_1).
func (s *Store) SearchByReference(id string) ([]StoredResult, error) {
	rows, err := s.db.Query(`SELECT `+resultColumns+`
		FROM descriptions
		WHERE reference=? OR starts_with(reference, ?)
		ORDER BY description`, id, id+"(")
	if err != nil {
		return nil, fmt.Errorf("query by reference: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// SearchByType returns results holding at least one variant of kind.
func (s *Store) SearchByType(kind string) ([]StoredResult, error) {
	rows, err := s.db.Query(`SELECT `+resultColumns+`
		FROM descriptions
		WHERE list_contains(string_split(variant_types, ','), ?)
		ORDER BY description`, kind)
	if err != nil {
		return nil, fmt.Errorf("query by type: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// SearchFailed returns results that failed to convert, optionally restricted
// to one error kind.
func (s *Store) SearchFailed(kind string) ([]StoredResult, error) {
	query := `SELECT ` + resultColumns + `
		FROM descriptions
		WHERE error_kind <> ''`
	args := []any{}
	if kind != "" {
		query += ` AND error_kind=?`
		args = append(args, kind)
	}
	rows, err := s.db.Query(query+` ORDER BY description`, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]StoredResult, error) {
	var results []StoredResult
	for rows.Next() {
		var (
			r         StoredResult
			types     string
			modelJSON string
		)
		if err := rows.Scan(
			&r.Description, &r.Reference, &r.CoordinateSystem, &r.VariantCount,
			&types, &modelJSON, &r.ErrorKind, &r.Error,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if types != "" {
			r.VariantTypes = strings.Split(types, ",")
		}
		if modelJSON != "" {
			if err := json.Unmarshal([]byte(modelJSON), &r.Model); err != nil {
				return nil, fmt.Errorf("decode model of %q: %w", r.Description, err)
			}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}
