package duckdb

import (
	"github.com/inodb/vibe-hgvs/internal/hgvs"
)

// DefaultBatchSize is the number of results buffered before a write.
const DefaultBatchSize = 1000

// Writer adapts a Store to hgvs.ResultWriter, writing results in batches.
type Writer struct {
	store     *Store
	batchSize int
	pending   []StoredResult
	written   int
}

// NewWriter creates a batching writer. A batchSize of 0 uses
// DefaultBatchSize.
func NewWriter(store *Store, batchSize int) *Writer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Writer{store: store, batchSize: batchSize}
}

// WriteHeader is a no-op.
func (w *Writer) WriteHeader() error {
	return nil
}

// Write buffers a result and writes the batch once it is full.
func (w *Writer) Write(r hgvs.WorkResult) error {
	w.pending = append(w.pending, NewStoredResult(r))
	if len(w.pending) >= w.batchSize {
		return w.Flush()
	}
	return nil
}

// Flush writes all buffered results.
func (w *Writer) Flush() error {
	if len(w.pending) == 0 {
		return nil
	}
	if err := w.store.WriteResults(w.pending); err != nil {
		return err
	}
	w.written += len(w.pending)
	w.pending = w.pending[:0]
	return nil
}

// Written returns the number of results written so far.
func (w *Writer) Written() int {
	return w.written
}
