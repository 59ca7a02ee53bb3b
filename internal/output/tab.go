// Package output provides conversion result formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-hgvs/internal/hgvs"
)

// TabWriter writes conversion results in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Description",
			"Reference",
			"Coordinate_system",
			"Variant_count",
			"Variant_types",
			"Error_kind",
			"Error",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single result.
func (tw *TabWriter) Write(r hgvs.WorkResult) error {
	fields := []string{r.Text, "-", "-", "0", "-", "-", "-"}

	if d := r.Description; d != nil {
		fields[1] = d.Reference.String()
		fields[2] = dash(d.CoordinateSystem)
		fields[3] = strconv.Itoa(len(d.Variants))
		fields[4] = dash(strings.Join(d.Types(), ","))
	}
	if r.Err != nil {
		fields[5] = r.ErrorKind()
		fields[6] = Summarize(r.Err)
	}

	_, err := tw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// Summarize returns the first line of an error message, which is the part
// that fits in a single column.
func Summarize(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return strings.TrimSuffix(msg, ":")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Formats accepted by NewWriter.
var Formats = []string{"tab", "json", "yaml"}

// NewWriter returns the result writer for format.
func NewWriter(format string, w io.Writer) (hgvs.ResultWriter, error) {
	switch format {
	case "tab":
		return NewTabWriter(w), nil
	case "json":
		return NewJSONWriter(w), nil
	case "yaml":
		return NewYAMLWriter(w), nil
	}
	return nil, fmt.Errorf("unsupported output format %q (supported: %s)", format, strings.Join(Formats, ", "))
}
