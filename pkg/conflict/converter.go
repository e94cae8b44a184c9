package conflict

import (
	"fmt"
	"slices"

	"github.com/gitrdm/gokanconflict/pkg/testmodel"
)

// ResultConverter translates findings from the expanded id space back to
// the caller's ids. Every expanded id is reported as its original tuple list
// id, its parameters and, as witness, the single tuple of its expanded list.
type ResultConverter struct {
	expander *Expander
	lists    map[InternalID]testmodel.TupleList
}

// NewResultConverter indexes the expanded model's exclusion lists, then its
// error lists; an id present in both resolves to the exclusion list.
func NewResultConverter(expander *Expander, expanded *testmodel.TestModel) *ResultConverter {
	c := &ResultConverter{expander: expander, lists: make(map[InternalID]testmodel.TupleList)}
	for _, l := range slices.Concat(expanded.ExclusionTupleLists(), expanded.ErrorTupleLists()) {
		if _, ok := c.lists[InternalID(l.ID)]; !ok {
			c.lists[InternalID(l.ID)] = l
		}
	}
	return c
}

// Element returns the witness for id.
func (c *ResultConverter) Element(id InternalID) (ConflictElement, error) {
	l, ok := c.lists[id]
	if !ok {
		return ConflictElement{}, fmt.Errorf("convert %d: %w", id, ErrUnknownConstraint)
	}
	return ConflictElement{
		ConstraintID: c.expander.ComputeOriginalID(id),
		Parameters:   slices.Clone(l.Parameters),
		Values:       slices.Clone(l.Tuples[0]),
	}, nil
}

func (c *ResultConverter) elements(ids []InternalID) ([]ConflictElement, error) {
	out := make([]ConflictElement, len(ids))
	for i, id := range ids {
		e, err := c.Element(id)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// ConvertExplanation maps every id inside explanation.
func (c *ResultConverter) ConvertExplanation(explanation InternalExplanation) (Explanation, error) {
	switch e := explanation.(type) {
	case InternalConflictSet:
		elements, err := c.elements(e.Conflict)
		if err != nil {
			return nil, err
		}
		return ConflictSet{Elements: elements}, nil
	case InternalInconsistentBackground:
		elements, err := c.elements(e.Background)
		if err != nil {
			return nil, err
		}
		return InconsistentBackground{Elements: elements}, nil
	case InternalUnknownExplanation:
		return UnknownConflictExplanation{}, nil
	case InternalDiagnosisSets:
		root, err := c.elements(e.Root.Conflict)
		if err != nil {
			return nil, err
		}
		diagnoses := make([][]ConflictElement, len(e.Diagnoses))
		for i, d := range e.Diagnoses {
			if diagnoses[i], err = c.elements(d); err != nil {
				return nil, err
			}
		}
		return DiagnosisSets{RootConflict: ConflictSet{Elements: root}, Diagnoses: diagnoses}, nil
	default:
		return nil, fmt.Errorf("convert: unsupported explanation %T", explanation)
	}
}

// Convert translates findings and drops exact duplicates, keeping the first.
func (c *ResultConverter) Convert(findings []internalMissingInvalidTuple) ([]MissingInvalidTuple, error) {
	out := make([]MissingInvalidTuple, 0, len(findings))
	seen := make(map[string]bool)
	for _, f := range findings {
		explanation, err := c.ConvertExplanation(f.explanation)
		if err != nil {
			return nil, err
		}
		mit := MissingInvalidTuple{
			NegatedErrorConstraintID: c.expander.ComputeOriginalID(f.negatedErrorConstraintID),
			Parameters:               slices.Clone(f.parameters),
			MissingValues:            slices.Clone(f.missingValues),
			Explanation:              explanation,
		}
		if key := mit.String(); !seen[key] {
			seen[key] = true
			out = append(out, mit)
		}
	}
	return out, nil
}
