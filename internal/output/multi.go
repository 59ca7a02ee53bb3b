package output

import (
	"github.com/inodb/vibe-hgvs/internal/hgvs"
)

// MultiWriter fans every call out to several writers, stopping at the first
// error.
type MultiWriter struct {
	writers []hgvs.ResultWriter
}

// NewMultiWriter creates a writer that duplicates its output to writers.
func NewMultiWriter(writers ...hgvs.ResultWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteHeader writes the header of every writer.
func (m *MultiWriter) WriteHeader() error {
	for _, w := range m.writers {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}
	return nil
}

// Write writes r to every writer.
func (m *MultiWriter) Write(r hgvs.WorkResult) error {
	for _, w := range m.writers {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes every writer.
func (m *MultiWriter) Flush() error {
	for _, w := range m.writers {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
