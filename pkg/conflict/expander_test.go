package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/gitrdm/gokanconflict/pkg/testmodel"
)

func TestComputeFactor(t *testing.T) {
	tests := []struct {
		lists, maxTuples, want int
	}{
		{0, 0, 10},
		{3, 4, 10},
		{3, 9, 10},
		{3, 10, 100},
		{3, 11, 100},
		{10, 1, 100},
		{99, 99, 100},
		{100, 2, 1000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, computeFactor(tt.lists, tt.maxTuples), "lists=%d maxTuples=%d", tt.lists, tt.maxTuples)
	}
}

func TestExpander_Factor(t *testing.T) {
	tuples := func(n int) [][]int {
		out := make([][]int, n)
		for i := range out {
			out[i] = []int{i % 2}
		}
		return out
	}
	build := func(counts ...int) *testmodel.TestModel {
		var lists []testmodel.TupleList
		for i, n := range counts {
			lists = append(lists, testmodel.NewTupleList(i+1, []int{0}, tuples(n), false))
		}
		m, err := testmodel.NewTestModel(1, []int{2}, nil, lists)
		require.NoError(t, err)
		return m
	}

	assert.Equal(t, 10, NewExpander(build(1, 4, 2)).Factor())
	assert.Equal(t, 100, NewExpander(build(1, 11, 2)).Factor())
	assert.Equal(t, 100, NewExpander(build(10)).Factor())

	empty, err := testmodel.NewTestModel(0, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, NewExpander(empty).Factor())
}

func TestExpander_CreateExpandedTestModel(t *testing.T) {
	m, err := testmodel.NewTestModel(2, []int{3, 3},
		[]testmodel.TupleList{testmodel.NewTupleList(4, []int{1}, [][]int{{2}}, true)},
		[]testmodel.TupleList{testmodel.NewTupleList(1, []int{0, 1}, [][]int{{1, 0}, {2, 0}, {0, 1}}, false)})
	require.NoError(t, err)

	e := NewExpander(m)
	expanded, err := e.CreateExpandedTestModel()
	require.NoError(t, err)

	assert.Equal(t, m.ParameterSizes(), expanded.ParameterSizes())
	assert.Equal(t, m.Strength(), expanded.Strength())

	exclusions := expanded.ExclusionTupleLists()
	require.Len(t, exclusions, 1)
	assert.Equal(t, testmodel.NewTupleList(40, []int{1}, [][]int{{2}}, true), exclusions[0])

	errs := expanded.ErrorTupleLists()
	require.Len(t, errs, 3)
	for i, l := range errs {
		assert.Equal(t, 10+i, l.ID)
		assert.Equal(t, []int{0, 1}, l.Parameters)
		assert.Equal(t, [][]int{m.ErrorTupleLists()[0].Tuples[i]}, l.Tuples)
		assert.False(t, l.MarkedAsCorrect)
		assert.Equal(t, ConstraintID(1), e.ComputeOriginalID(InternalID(l.ID)))
		assert.Equal(t, i, e.ComputeOriginalIndexInTupleList(l))
	}
}

func TestExpander_RoundTripAtFactorBoundary(t *testing.T) {
	for _, n := range []int{9, 10, 11} {
		tuples := make([][]int, n)
		for i := range tuples {
			tuples[i] = []int{i}
		}
		m, err := testmodel.NewTestModel(1, []int{n}, nil, []testmodel.TupleList{testmodel.NewTupleList(7, []int{0}, tuples, false)})
		require.NoError(t, err)

		e := NewExpander(m)
		expanded, err := e.CreateExpandedTestModel()
		require.NoError(t, err)

		for i, l := range expanded.ErrorTupleLists() {
			assert.Equal(t, ConstraintID(7), e.ComputeOriginalID(InternalID(l.ID)), "n=%d", n)
			assert.Equal(t, i, e.ComputeOriginalIndexInTupleList(l), "n=%d", n)
			assert.Equal(t, tuples[i], l.Tuples[0], "n=%d", n)
		}
	}
}

func TestExpander_RoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		listCount := rapid.IntRange(0, 15).Draw(t, "lists")
		var exclusions, errs []testmodel.TupleList
		counts := make(map[int]int)
		for i := 0; i < listCount; i++ {
			id := i + 1
			n := rapid.IntRange(1, 24).Draw(t, "tuples")
			counts[id] = n
			tuples := make([][]int, n)
			for j := range tuples {
				tuples[j] = []int{rapid.IntRange(0, 2).Draw(t, "a"), rapid.IntRange(0, 2).Draw(t, "b")}
			}
			l := testmodel.NewTupleList(id, []int{0, 1}, tuples, rapid.Bool().Draw(t, "correct"))
			if rapid.Bool().Draw(t, "exclusion") {
				exclusions = append(exclusions, l)
			} else {
				errs = append(errs, l)
			}
		}
		m, err := testmodel.NewTestModel(2, []int{3, 3}, exclusions, errs)
		if err != nil {
			t.Fatalf("model: %v", err)
		}

		e := NewExpander(m)
		expanded, err := e.CreateExpandedTestModel()
		if err != nil {
			t.Fatalf("expand: %v", err)
		}

		next := make(map[ConstraintID]int)
		for _, lists := range [][]testmodel.TupleList{expanded.ExclusionTupleLists(), expanded.ErrorTupleLists()} {
			for _, l := range lists {
				orig := e.ComputeOriginalID(InternalID(l.ID))
				source, ok := m.TupleList(int(orig))
				if !ok {
					t.Fatalf("expanded id %d maps to unknown id %d", l.ID, orig)
				}
				index := e.ComputeOriginalIndexInTupleList(l)
				if index != next[orig] {
					t.Fatalf("id %d: index %d, want %d", l.ID, index, next[orig])
				}
				next[orig]++
				if len(l.Tuples) != 1 || len(source.Tuples[index]) != len(l.Tuples[0]) {
					t.Fatalf("id %d: bad expanded tuples %v", l.ID, l.Tuples)
				}
				if l.MarkedAsCorrect != source.MarkedAsCorrect {
					t.Fatalf("id %d: correctness flag lost", l.ID)
				}
			}
		}
		for id, n := range counts {
			if next[ConstraintID(id)] != n {
				t.Fatalf("id %d: expanded %d tuples, want %d", id, next[ConstraintID(id)], n)
			}
		}
	})
}
