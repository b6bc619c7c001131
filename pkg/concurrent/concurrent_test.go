package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/skeletal/pkg/sequence"
)

func TestConcurrent(t *testing.T) {
	t.Run("All Run", func(t *testing.T) {
		var sum atomic.Int64
		err := Concurrent(context.Background(), sequence.From([]int{1, 2, 3, 4}), 2, func(_ context.Context, v int) error {
			sum.Add(int64(v))
			return nil
		})
		require.NoError(t, err)
		require.EqualValues(t, 10, sum.Load())
	})

	t.Run("Limit", func(t *testing.T) {
		var running, peak atomic.Int32
		items := make([]int, 32)
		err := Concurrent(context.Background(), sequence.From(items), 3, func(context.Context, int) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			running.Add(-1)
			return nil
		})
		require.NoError(t, err)
		require.LessOrEqual(t, peak.Load(), int32(3))
	})

	t.Run("First Error Cancels", func(t *testing.T) {
		failure := errors.New("bad instance")
		err := Concurrent(context.Background(), sequence.From([]int{1, 2, 3}), 1, func(ctx context.Context, v int) error {
			if v == 1 {
				return failure
			}
			return ctx.Err()
		})
		require.ErrorIs(t, err, failure)
	})

	t.Run("Panic Recovered", func(t *testing.T) {
		cause := errors.New("contract")
		err := Concurrent(context.Background(), sequence.From([]int{1}), 0, func(context.Context, int) error {
			panic(cause)
		})
		var pe *PanicError
		require.ErrorAs(t, err, &pe)
		require.ErrorIs(t, err, cause)
		require.NotEmpty(t, pe.Stack)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		called := false
		err := Concurrent(ctx, sequence.From([]int{1}), 0, func(context.Context, int) error {
			called = true
			return nil
		})
		require.ErrorIs(t, err, context.Canceled)
		require.False(t, called)
	})
}

func TestParallelMap(t *testing.T) {
	got := ParallelMap(sequence.From([]int{1, 2, 3, 4, 5}), 2, func(v int) int { return v * v })
	require.Equal(t, []int{1, 4, 9, 16, 25}, got)
}
