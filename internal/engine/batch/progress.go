package batch

import (
	"sync"
	"time"
)

const percentMultiplier = 100

// Progress tracks how many records and batches a run has processed.
// Its accessors are safe for use from a progress callback on another goroutine.
type Progress struct {
	TotalItems       int
	ProcessedItems   int
	TotalBatches     int
	ProcessedBatches int
	BatchSize        int
	StartTime        time.Time

	mu sync.RWMutex
}

// NewProgress creates a progress tracker starting now.
func NewProgress(totalItems, totalBatches, batchSize int) *Progress {
	return &Progress{
		TotalItems:   totalItems,
		TotalBatches: totalBatches,
		BatchSize:    batchSize,
		StartTime:    time.Now(),
	}
}

// AddProcessed records one finished batch of n records.
func (p *Progress) AddProcessed(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ProcessedItems += n
	p.ProcessedBatches++
}

// PercentComplete returns the completion percentage (0-100).
func (p *Progress) PercentComplete() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.percentLocked()
}

// IsComplete reports whether every record has been processed.
func (p *Progress) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ProcessedItems >= p.TotalItems
}

// EstimatedTimeRemaining extrapolates the remaining time from the average time
// per record so far. Returns 0 before the first batch completes.
func (p *Progress) EstimatedTimeRemaining() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.remainingLocked(time.Since(p.StartTime))
}

// Snapshot is a point-in-time copy of a Progress, suitable for logging.
type Snapshot struct {
	ProcessedItems   int
	TotalItems       int
	ProcessedBatches int
	TotalBatches     int
	PercentComplete  float64
	Elapsed          time.Duration
	Remaining        time.Duration
}

// Snapshot returns a consistent copy of the current progress.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	elapsed := time.Since(p.StartTime)
	return Snapshot{
		ProcessedItems:   p.ProcessedItems,
		TotalItems:       p.TotalItems,
		ProcessedBatches: p.ProcessedBatches,
		TotalBatches:     p.TotalBatches,
		PercentComplete:  p.percentLocked(),
		Elapsed:          elapsed,
		Remaining:        p.remainingLocked(elapsed),
	}
}

func (p *Progress) percentLocked() float64 {
	if p.TotalItems == 0 {
		return 0
	}
	return float64(p.ProcessedItems) / float64(p.TotalItems) * percentMultiplier
}

func (p *Progress) remainingLocked(elapsed time.Duration) time.Duration {
	if p.ProcessedItems == 0 {
		return 0
	}
	perItem := elapsed / time.Duration(p.ProcessedItems)
	return perItem * time.Duration(p.TotalItems-p.ProcessedItems)
}
