// Package input reads HGVS descriptions from text files, one per line.
package input

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one description read from the input.
type Record struct {
	Line int    // 1-based line number
	Text string // the description
}

// Reader reads descriptions from a file or stream. Blank lines and lines
// starting with '#' are skipped. Only the first tab-separated column is used,
// so the description column of a TSV can be read directly.
type Reader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
}

// NewReader opens path for reading. Gzipped files are detected by their magic
// bytes. A path of "-" reads stdin.
func NewReader(path string) (*Reader, error) {
	if path == "-" {
		return NewReaderFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}

	r := &Reader{file: file}
	br := bufio.NewReader(file)

	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	} else {
		r.reader = br
	}

	return r, nil
}

// NewReaderFromReader creates a reader over r. Gzipped streams are detected
// the same way as files.
func NewReaderFromReader(rd io.Reader) (*Reader, error) {
	br := bufio.NewReader(rd)
	r := &Reader{reader: br}

	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.gzipReader = gz
		r.reader = bufio.NewReader(gz)
	}

	return r, nil
}

// Next returns the next description. It returns nil, nil at end of input.
func (r *Reader) Next() (*Record, error) {
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, &ReadError{Line: r.lineNumber + 1, Err: err}
		}
		if err == io.EOF && line == "" {
			return nil, nil
		}
		r.lineNumber++

		if text, ok := description(line); ok {
			return &Record{Line: r.lineNumber, Text: text}, nil
		}
		if err == io.EOF {
			return nil, nil
		}
	}
}

func description(line string) (string, bool) {
	line = strings.TrimRight(line, "\r\n")
	if strings.HasPrefix(line, "#") {
		return "", false
	}
	if i := strings.IndexByte(line, '\t'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	return line, line != ""
}

// LineNumber returns the number of the last line read.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Close closes the reader and the underlying file.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ReadError reports an I/O failure with line context.
type ReadError struct {
	Line int
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error at line %d: %v", e.Line, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
