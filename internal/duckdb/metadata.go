package duckdb

import (
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Run records one batch conversion of an input file into the store.
type Run struct {
	Input      FileFingerprint
	Total      int
	Failed     int
	FinishedAt time.Time
}

// RecordRun stores a finished batch run.
func (s *Store) RecordRun(r Run) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO runs
		(input_path, input_size, input_modtime, total, failed, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.Input.Path, r.Input.Size, storedTime(r.Input.ModTime), r.Total, r.Failed, storedTime(r.FinishedAt))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Runs returns all recorded runs, most recent first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT input_path, input_size, input_modtime, total, failed, finished_at
		FROM runs
		ORDER BY finished_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.Input.Path, &r.Input.Size, &r.Input.ModTime, &r.Total, &r.Failed, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Converted reports whether a run has already stored results for an input
// with the same path, size and modification time.
func (s *Store) Converted(fp FileFingerprint) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT count(*) FROM runs
		WHERE input_path=? AND input_size=? AND input_modtime=?`,
		fp.Path, fp.Size, storedTime(fp.ModTime)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query runs: %w", err)
	}
	return n > 0, nil
}

// storedTime matches the microsecond precision of DuckDB timestamps.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
