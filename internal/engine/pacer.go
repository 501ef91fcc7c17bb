package engine

import (
	"context"
	"time"
)

// Pacer inserts a fixed pause between batches so the query service is not
// hammered. It does not adapt to responses. The resolver skips the pause after
// the last batch.
type Pacer struct {
	interval time.Duration
}

// NewPacer returns a pacer pausing for interval. A non-positive interval disables it.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Interval returns the configured pause.
func (p *Pacer) Interval() time.Duration { return p.interval }

// Wait blocks for the configured pause or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(p.interval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
