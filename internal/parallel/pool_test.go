package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		n, workers int
		want       []Range
	}{
		{0, 4, nil},
		{1, 4, []Range{{0, 1}}},
		{4, 4, []Range{{0, 1}, {1, 2}, {2, 3}, {3, 4}}},
		{7, 3, []Range{{0, 3}, {3, 5}, {5, 7}}},
		{5, 1, []Range{{0, 5}}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Split(tt.n, tt.workers), "n=%d workers=%d", tt.n, tt.workers)
	}
}

func TestSplit_DefaultWorkers(t *testing.T) {
	n := 10 * runtime.NumCPU()
	ranges := Split(n, 0)
	require.Len(t, ranges, runtime.NumCPU())

	covered := 0
	for i, r := range ranges {
		assert.Positive(t, r.Len())
		if i > 0 {
			assert.Equal(t, ranges[i-1].Hi, r.Lo)
		}
		covered += r.Len()
	}
	assert.Equal(t, n, covered)
}

func TestForEachRange(t *testing.T) {
	defer goleak.VerifyNone(t)

	var sum atomic.Int64
	seen := make([]bool, 5)
	err := ForEachRange(context.Background(), 100, 5, func(ctx context.Context, chunk int, r Range) error {
		seen[chunk] = true
		for i := r.Lo; i < r.Hi; i++ {
			sum.Add(int64(i))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4950), sum.Load())
	assert.Equal(t, []bool{true, true, true, true, true}, seen)
}

func TestForEachRange_FirstErrorCancels(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("boom")
	err := ForEachRange(context.Background(), 8, 8, func(ctx context.Context, chunk int, r Range) error {
		if chunk == 0 {
			return boom
		}
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, boom)
}
