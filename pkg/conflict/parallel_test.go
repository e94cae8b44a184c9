package conflict

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gitrdm/gokanconflict/pkg/fd"
	"github.com/gitrdm/gokanconflict/pkg/testmodel"
)

// stripedModel has many error constraints, half of which are covered by
// exclusions.
func stripedModel(t *testing.T) *testmodel.TestModel {
	t.Helper()
	b := testmodel.NewBuilder(2).Parameters(4, 4, 3)
	for v := 0; v < 4; v++ {
		b.Exclusion([]int{0, 2}, []int{v, 0}, []int{v, 1})
	}
	for v := 0; v < 4; v++ {
		b.Error([]int{0, 1}, []int{v, 0}, []int{v, 1}, []int{v, 2})
		b.Error([]int{2}, []int{v % 3})
	}
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func TestManager_ParallelMatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	for _, model := range []*testmodel.TestModel{symmetricModel(t), coveredModel(t), stripedModel(t)} {
		m, err := NewManager(DefaultConfiguration(), model, WithSolverMonitor(fd.NewSolverMonitor()))
		require.NoError(t, err)

		want, err := m.DetectMissingInvalidTuples(context.Background())
		require.NoError(t, err)

		for _, workers := range []int{0, 1, 2, 3, 64} {
			got, err := m.DetectMissingInvalidTuplesParallel(context.Background(), workers)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("workers=%d: findings mismatch (-sequential +parallel):\n%s", workers, diff)
			}
		}
	}
}

func TestManager_ParallelDetectionDisabled(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, err := NewManager(DisabledConfiguration(), stripedModel(t))
	require.NoError(t, err)
	got, err := m.DetectMissingInvalidTuplesParallel(context.Background(), 4)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestManager_ParallelCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, err := NewManager(DefaultConfiguration(), stripedModel(t))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.DetectMissingInvalidTuplesParallel(ctx, 4)
	assert.ErrorIs(t, err, context.Canceled)
}
