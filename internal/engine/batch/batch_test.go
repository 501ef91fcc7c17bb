package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_Process(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	t.Run("Sequential", func(t *testing.T) {
		p, err := NewProcessor[int](10)
		require.NoError(t, err)

		var seen []int
		var ranges []Range
		callback := func(_ context.Context, batch []int, rng Range) error {
			seen = append(seen, batch...)
			ranges = append(ranges, rng)
			return nil
		}

		require.NoError(t, p.Process(context.Background(), items, callback))
		assert.Equal(t, items, seen)
		assert.Equal(t, []Range{
			{Index: 0, Start: 0, End: 10},
			{Index: 1, Start: 10, End: 20},
			{Index: 2, Start: 20, End: 25},
		}, ranges)
	})

	t.Run("ErrorStopsProcessing", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		calls := 0
		callback := func(_ context.Context, _ []int, rng Range) error {
			calls++
			if rng.Index == 1 {
				return errors.New("fail")
			}
			return nil
		}

		err := p.Process(context.Background(), items, callback)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch 1 (10-20) failed")
		assert.Equal(t, 2, calls)
	})

	t.Run("Cancelled", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		callback := func(_ context.Context, _ []int, _ Range) error {
			calls++
			cancel()
			return nil
		}

		err := p.Process(ctx, items, callback)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		p := NewProcessorWithDefaults[int]()
		called := false
		err := p.Process(context.Background(), nil, func(context.Context, []int, Range) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("NilCallback", func(t *testing.T) {
		p := NewProcessorWithDefaults[int]()
		assert.Equal(t, ErrNilCallback, p.Process(context.Background(), items, nil))
	})

	t.Run("InvalidBatchSize", func(t *testing.T) {
		_, err := NewProcessor[int](0)
		require.ErrorIs(t, err, ErrInvalidBatchSize)
		_, err = NewProcessor[int](2000)
		require.ErrorIs(t, err, ErrInvalidBatchSize)
	})

	t.Run("ProgressCallback", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		var snaps []Snapshot
		p.WithProgressCallback(func(pr *Progress) { snaps = append(snaps, pr.Snapshot()) })

		require.NoError(t, p.Process(context.Background(), items,
			func(context.Context, []int, Range) error { return nil }))
		require.Len(t, snaps, 3)
		assert.Equal(t, 10, snaps[0].ProcessedItems)
		assert.Equal(t, 3, snaps[2].ProcessedBatches)
		assert.InDelta(t, 100.0, snaps[2].PercentComplete, 0.001)
	})
}

func TestProcessor_CalculateBatchesPartitions(t *testing.T) {
	for _, size := range []int{1, 3, 7, 50} {
		for _, total := range []int{0, 1, 2, 49, 50, 51, 100, 101, 137} {
			p, err := NewProcessor[struct{}](size)
			require.NoError(t, err)

			ranges := p.CalculateBatches(total)
			assert.Len(t, ranges, (total+size-1)/size, "size=%d total=%d", size, total)

			next := 0
			for i, r := range ranges {
				assert.Equal(t, i, r.Index)
				assert.Equal(t, next, r.Start, "ranges must be contiguous")
				if i < len(ranges)-1 {
					assert.Equal(t, size, r.Len())
				} else {
					assert.True(t, r.Len() > 0 && r.Len() <= size)
				}
				next = r.End
			}
			assert.Equal(t, total, next, "ranges must cover every index")
		}
	}
}

func TestProgress(t *testing.T) {
	p := NewProgress(100, 10, 10)

	assert.Equal(t, 0.0, p.PercentComplete())
	assert.False(t, p.IsComplete())
	assert.Equal(t, int64(0), int64(p.EstimatedTimeRemaining()))

	p.AddProcessed(10)
	assert.Equal(t, 10.0, p.PercentComplete())

	p.AddProcessed(90)
	assert.True(t, p.IsComplete())

	snap := p.Snapshot()
	assert.Equal(t, 100, snap.ProcessedItems)
	assert.Equal(t, 2, snap.ProcessedBatches)
	assert.Equal(t, int64(0), int64(snap.Remaining))
}

func TestRange(t *testing.T) {
	r := Range{Index: 2, Start: 100, End: 137}
	assert.Equal(t, 37, r.Len())
	assert.Equal(t, "100-137", r.String())
}
