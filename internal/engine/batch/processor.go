package batch

import (
	"context"
	"errors"
	"fmt"
)

// Default batch processing configuration.
const (
	// DefaultBatchSize is the number of records sent in one SPARQL query.
	DefaultBatchSize = 50

	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size. Larger VALUES blocks make
	// the query service time out.
	MaxBatchSize = 1000
)

// Common batch processing errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrNilCallback      = errors.New("batch callback cannot be nil")
)

// Range is the half-open [Start, End) index range of one batch within the full
// input, plus its 0-based position in the batch sequence.
type Range struct {
	Index int
	Start int
	End   int
}

// Len returns the number of items in the range.
func (r Range) Len() int { return r.End - r.Start }

// String renders the range the way it appears in diagnostics, e.g. "50-100".
func (r Range) String() string { return fmt.Sprintf("%d-%d", r.Start, r.End) }

// Callback processes a single batch. items is the sub-slice described by rng.
type Callback[T any] func(ctx context.Context, items []T, rng Range) error

// ProgressCallback is an optional callback invoked after each batch is processed.
type ProgressCallback func(progress *Progress)

// Processor splits data into fixed-size batches and processes them sequentially.
type Processor[T any] struct {
	batchSize  int
	onProgress ProgressCallback
}

// NewProcessor creates a new batch processor with the given batch size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}

	return &Processor[T]{batchSize: batchSize}, nil
}

// NewProcessorWithDefaults creates a processor with the default batch size.
func NewProcessorWithDefaults[T any]() *Processor[T] {
	return &Processor[T]{batchSize: DefaultBatchSize}
}

// WithProgressCallback sets a progress callback for the processor.
func (p *Processor[T]) WithProgressCallback(callback ProgressCallback) *Processor[T] {
	p.onProgress = callback
	return p
}

// Process walks items batch by batch in input order. It stops at the first
// callback error or when ctx is cancelled. An empty input is a no-op.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback Callback[T]) error {
	if callback == nil {
		return ErrNilCallback
	}

	ranges := p.CalculateBatches(len(items))
	progress := NewProgress(len(items), len(ranges), p.batchSize)

	for _, rng := range ranges {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := callback(ctx, items[rng.Start:rng.End], rng); err != nil {
			return fmt.Errorf("batch %d (%s) failed: %w", rng.Index, rng, err)
		}

		progress.AddProcessed(rng.Len())
		if p.onProgress != nil {
			p.onProgress(progress)
		}
	}

	return nil
}

// GetBatchSize returns the configured batch size.
func (p *Processor[T]) GetBatchSize() int {
	return p.batchSize
}

// CalculateBatches returns the batch ranges for totalItems items.
func (p *Processor[T]) CalculateBatches(totalItems int) []Range {
	if totalItems <= 0 {
		return nil
	}

	totalBatches := p.calculateTotalBatches(totalItems)
	ranges := make([]Range, totalBatches)

	for i := 0; i < totalBatches; i++ {
		start := i * p.batchSize
		end := min(start+p.batchSize, totalItems)
		ranges[i] = Range{Index: i, Start: start, End: end}
	}

	return ranges
}

// calculateTotalBatches returns ceil(totalItems / batchSize).
func (p *Processor[T]) calculateTotalBatches(totalItems int) int {
	batches := totalItems / p.batchSize
	if totalItems%p.batchSize > 0 {
		batches++
	}
	return batches
}
