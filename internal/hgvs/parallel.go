package hgvs

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/inodb/vibe-hgvs/internal/input"
	"github.com/inodb/vibe-hgvs/internal/model"
	"github.com/inodb/vibe-hgvs/internal/report"
)

// WorkItem holds one description waiting for conversion.
type WorkItem struct {
	Seq  int
	Line int
	Text string
}

// WorkResult holds the conversion output for a single description.
type WorkResult struct {
	Seq         int
	Line        int
	Text        string
	Description *model.Description
	Err         error
}

// ErrorKind returns report.Kind of the result's error, "" on success.
func (r WorkResult) ErrorKind() string {
	return report.Kind(r.Err)
}

// DescriptionReader is implemented by input.Reader.
type DescriptionReader interface {
	// Next returns nil, nil when there are no more descriptions.
	Next() (*input.Record, error)
}

// ResultWriter receives every conversion result in input order, failures
// included.
type ResultWriter interface {
	WriteHeader() error
	Write(r WorkResult) error
	Flush() error
}

// Summary counts the results of ConvertAll.
type Summary struct {
	Total  int
	Failed int
}

// ParallelConvert converts work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, the parser's configured worker count is used.
func (p *Parser) ParallelConvert(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = p.workers
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				d, err := p.Description(item.Text)
				results <- WorkResult{
					Seq:         item.Seq,
					Line:        item.Line,
					Text:        item.Text,
					Description: d,
					Err:         err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// Out-of-order results wait in a pending map until their turn.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// ConvertAll converts every description from reader and writes the results
// to writer in input order. Descriptions that fail to parse are logged and
// written as failed results; only read and write errors abort the run.
func (p *Parser) ConvertAll(reader DescriptionReader, writer ResultWriter) (Summary, error) {
	var sum Summary

	if err := writer.WriteHeader(); err != nil {
		return sum, fmt.Errorf("write header: %w", err)
	}

	items := make(chan WorkItem, 2*p.workers)
	var readErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			rec, err := reader.Next()
			if err != nil {
				readErr = fmt.Errorf("read description: %w", err)
				return
			}
			if rec == nil {
				return
			}
			items <- WorkItem{Seq: seq, Line: rec.Line, Text: rec.Text}
			seq++
		}
	}()

	results := p.ParallelConvert(items, p.workers)

	if err := OrderedCollect(results, func(r WorkResult) error {
		sum.Total++
		if r.Err != nil {
			sum.Failed++
			p.logger.Warn("failed to parse description",
				zap.Int("line", r.Line),
				zap.String("description", r.Text),
				zap.String("kind", r.ErrorKind()),
				zap.Error(r.Err))
		}
		if err := writer.Write(r); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		return nil
	}); err != nil {
		return sum, err
	}

	if readErr != nil {
		return sum, readErr
	}

	if sum.Total == 0 {
		p.logger.Info("0 descriptions processed")
	} else {
		p.logger.Debug("descriptions processed",
			zap.Int("total", sum.Total),
			zap.Int("failed", sum.Failed))
	}

	return sum, writer.Flush()
}
