package conflict

import (
	"github.com/gitrdm/gokanconflict/pkg/testmodel"
)

// Expander rewrites a TestModel so that every tuple list holds a single
// tuple, which lets each tuple be negated and explained on its own.
//
// The tuple at index i of list id becomes its own list with id
// id*factor + i, where factor is the smallest power of ten greater than both
// the number of tuple lists and the longest list. The mapping is reversible:
// id = expanded / factor and i = expanded % factor.
type Expander struct {
	model  *testmodel.TestModel
	factor int
}

// NewExpander computes the id factor for model.
func NewExpander(model *testmodel.TestModel) *Expander {
	maxTuples := 0
	for _, lists := range [][]testmodel.TupleList{model.ExclusionTupleLists(), model.ErrorTupleLists()} {
		for _, l := range lists {
			maxTuples = max(maxTuples, len(l.Tuples))
		}
	}
	return &Expander{model: model, factor: computeFactor(model.TupleListCount(), maxTuples)}
}

// computeFactor returns the smallest power of ten strictly greater than both
// arguments, and never less than 10.
func computeFactor(listCount, maxTuples int) int {
	factor := 10
	for factor <= listCount || factor <= maxTuples {
		factor *= 10
	}
	return factor
}

// Factor returns the id multiplier.
func (e *Expander) Factor() int {
	return e.factor
}

// CreateExpandedTestModel returns the expanded model. Parameter sizes,
// strength, involved parameters and correctness flags are preserved.
func (e *Expander) CreateExpandedTestModel() (*testmodel.TestModel, error) {
	return testmodel.NewTestModel(
		e.model.Strength(),
		e.model.ParameterSizes(),
		e.expand(e.model.ExclusionTupleLists()),
		e.expand(e.model.ErrorTupleLists()),
	)
}

func (e *Expander) expand(lists []testmodel.TupleList) []testmodel.TupleList {
	out := make([]testmodel.TupleList, 0, len(lists))
	for _, l := range lists {
		for i, tuple := range l.Tuples {
			out = append(out, testmodel.NewTupleList(
				l.ID*e.factor+i,
				l.Parameters,
				[][]int{tuple},
				l.MarkedAsCorrect,
			))
		}
	}
	return out
}

// ComputeOriginalID maps an expanded id back to the caller's tuple list id.
func (e *Expander) ComputeOriginalID(id InternalID) ConstraintID {
	return ConstraintID(int(id) / e.factor)
}

// ComputeOriginalIndexInTupleList returns the position, in the original
// tuple list, of the single tuple of an expanded list.
func (e *Expander) ComputeOriginalIndexInTupleList(l testmodel.TupleList) int {
	return l.ID % e.factor
}
