package output

import (
	"bufio"
	"errors"
	"io"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-hgvs/internal/hgvs"
	"github.com/inodb/vibe-hgvs/internal/report"
)

// Record is the structured form of one result written by JSONWriter and
// YAMLWriter.
type Record struct {
	Line        int            `json:"line" yaml:"line"`
	Description string         `json:"description" yaml:"description"`
	Model       map[string]any `json:"model,omitempty" yaml:"model,omitempty"`
	Error       *ErrorRecord   `json:"error,omitempty" yaml:"error,omitempty"`
}

// ErrorRecord is the structured form of a conversion error.
type ErrorRecord struct {
	Kind      string   `json:"kind" yaml:"kind"`
	Message   string   `json:"message" yaml:"message"`
	Line      int      `json:"line,omitempty" yaml:"line,omitempty"`
	Column    int      `json:"column,omitempty" yaml:"column,omitempty"`
	Expecting []string `json:"expecting,omitempty" yaml:"expecting,omitempty"`
}

// NewRecord converts a result into its structured form.
func NewRecord(r hgvs.WorkResult) Record {
	rec := Record{Line: r.Line, Description: r.Text}
	if r.Description != nil {
		rec.Model = r.Description.Map()
	}
	if r.Err != nil {
		rec.Error = NewErrorRecord(r.Err)
	}
	return rec
}

// NewErrorRecord extracts the inspectable fields of err.
func NewErrorRecord(err error) *ErrorRecord {
	er := &ErrorRecord{Kind: report.Kind(err), Message: err.Error()}
	var (
		uc  *report.UnexpectedCharacterError
		eoi *report.UnexpectedEndOfInputError
	)
	switch {
	case errors.As(err, &uc):
		er.Line, er.Column, er.Expecting = uc.Line, uc.Column, uc.Expecting
	case errors.As(err, &eoi):
		er.Expecting = eoi.Expecting
	}
	return er
}

// JSONWriter writes one JSON object per line.
type JSONWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONWriter creates a new JSON lines writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	bw := bufio.NewWriter(w)
	return &JSONWriter{w: bw, enc: json.NewEncoder(bw)}
}

// WriteHeader is a no-op; JSON lines have no header.
func (jw *JSONWriter) WriteHeader() error {
	return nil
}

// Write writes a single result.
func (jw *JSONWriter) Write(r hgvs.WorkResult) error {
	return jw.enc.Encode(NewRecord(r))
}

// Flush flushes buffered output.
func (jw *JSONWriter) Flush() error {
	return jw.w.Flush()
}

// YAMLWriter writes one YAML document per result.
type YAMLWriter struct {
	enc *yaml.Encoder
}

// NewYAMLWriter creates a new YAML stream writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &YAMLWriter{enc: enc}
}

// WriteHeader is a no-op.
func (yw *YAMLWriter) WriteHeader() error {
	return nil
}

// Write writes a single result as its own document.
func (yw *YAMLWriter) Write(r hgvs.WorkResult) error {
	return yw.enc.Encode(NewRecord(r))
}

// Flush closes the document stream. The writer must not be used afterwards.
func (yw *YAMLWriter) Flush() error {
	return yw.enc.Close()
}
