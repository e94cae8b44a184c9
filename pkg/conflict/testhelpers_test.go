package conflict

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gokanconflict/pkg/testmodel"
)

// symmetricModel has two error constraints that each forbid two of the
// other's tuples, plus an unrelated third one.
func symmetricModel(t *testing.T) *testmodel.TestModel {
	t.Helper()
	m, err := testmodel.NewBuilder(2).
		Parameters(3, 3, 3).
		Error([]int{0, 1}, []int{1, 0}, []int{2, 0}, []int{0, 1}, []int{0, 2}).
		Error([]int{0, 1}, []int{0, 1}, []int{2, 1}, []int{1, 0}, []int{1, 2}).
		Error([]int{2}, []int{2}).
		Build()
	require.NoError(t, err)
	return m
}

// coveredModel has one error constraint p0=0 whose every completion is
// forbidden by the exclusions c2 and c3. correct lists the ids to mark as
// correct.
func coveredModel(t *testing.T, correct ...int) *testmodel.TestModel {
	t.Helper()
	marked := func(id int) bool {
		for _, c := range correct {
			if c == id {
				return true
			}
		}
		return false
	}
	m, err := testmodel.NewTestModel(2, []int{2, 2},
		[]testmodel.TupleList{
			testmodel.NewTupleList(2, []int{0, 1}, [][]int{{0, 0}}, marked(2)),
			testmodel.NewTupleList(3, []int{0, 1}, [][]int{{0, 1}}, marked(3)),
		},
		[]testmodel.TupleList{
			testmodel.NewTupleList(1, []int{0}, [][]int{{0}}, marked(1)),
		})
	require.NoError(t, err)
	return m
}

func element(id int, parameters, values []int) ConflictElement {
	return ConflictElement{ConstraintID: ConstraintID(id), Parameters: parameters, Values: values}
}

func hittingSetStrings(sets []DiagnosisHittingSet) []string {
	out := make([]string, len(sets))
	for i, s := range sets {
		out[i] = s.String()
	}
	return out
}

// fourWayModel is a constraint model over two binary parameters where
// {10,20} and {30,40} are the only minimal conflicts.
func fourWayModel(t *testing.T) *ConstraintModel {
	t.Helper()
	m, err := NewConstraintModel([]int{2, 2}, []testmodel.TupleList{
		testmodel.NewTupleList(10, []int{0}, [][]int{{0}}, false),
		testmodel.NewTupleList(20, []int{0}, [][]int{{1}}, false),
		testmodel.NewTupleList(30, []int{1}, [][]int{{0}}, false),
		testmodel.NewTupleList(40, []int{1}, [][]int{{1}}, false),
	}, nil)
	require.NoError(t, err)
	return m
}
