package conflict

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConverter(t *testing.T) *ResultConverter {
	t.Helper()
	e := NewExpander(coveredModel(t))
	expanded, err := e.CreateExpandedTestModel()
	require.NoError(t, err)
	return NewResultConverter(e, expanded)
}

func TestResultConverter_Element(t *testing.T) {
	c := newTestConverter(t)

	got, err := c.Element(20)
	require.NoError(t, err)
	assert.Equal(t, element(2, []int{0, 1}, []int{0, 0}), got)

	got, err = c.Element(10)
	require.NoError(t, err)
	assert.Equal(t, element(1, []int{0}, []int{0}), got)

	_, err = c.Element(99)
	assert.ErrorIs(t, err, ErrUnknownConstraint)
}

func TestResultConverter_ConvertExplanation(t *testing.T) {
	c := newTestConverter(t)
	c1 := element(1, []int{0}, []int{0})
	c2 := element(2, []int{0, 1}, []int{0, 0})
	c3 := element(3, []int{0, 1}, []int{0, 1})
	root := InternalConflictSet{Background: []InternalID{10}, Relaxable: []InternalID{20, 30}, Conflict: []InternalID{20, 30}}

	tests := []struct {
		name string
		in   InternalExplanation
		want Explanation
	}{
		{"conflict", root, ConflictSet{Elements: []ConflictElement{c2, c3}}},
		{"background", InternalInconsistentBackground{Background: []InternalID{10, 20}}, InconsistentBackground{Elements: []ConflictElement{c1, c2}}},
		{"unknown", InternalUnknownExplanation{}, UnknownConflictExplanation{}},
		{
			"diagnoses",
			InternalDiagnosisSets{Root: root, Diagnoses: [][]InternalID{{20}, {30}}},
			DiagnosisSets{RootConflict: ConflictSet{Elements: []ConflictElement{c2, c3}}, Diagnoses: [][]ConflictElement{{c2}, {c3}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ConvertExplanation(tt.in)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err := c.ConvertExplanation(InternalConflictSet{Conflict: []InternalID{77}})
	assert.ErrorIs(t, err, ErrUnknownConstraint)
	_, err = c.ConvertExplanation(nil)
	assert.Error(t, err)
}

func TestResultConverter_ConvertDeduplicates(t *testing.T) {
	c := newTestConverter(t)
	f := internalMissingInvalidTuple{
		negatedErrorConstraintID: 10,
		parameters:               []int{0},
		missingValues:            []int{0},
		explanation:              InternalConflictSet{Conflict: []InternalID{20, 30}},
	}
	other := f
	other.explanation = InternalConflictSet{Conflict: []InternalID{30}}

	got, err := c.Convert([]internalMissingInvalidTuple{f, other, f})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ConstraintID(1), got[0].NegatedErrorConstraintID)
	assert.Equal(t, "c1[0]=[0]: conflict{c2[0 1]=[0 0], c3[0 1]=[0 1]}", got[0].String())
	assert.Equal(t, "c1[0]=[0]: conflict{c3[0 1]=[0 1]}", got[1].String())
}

func TestExplanation_String(t *testing.T) {
	c2 := element(2, []int{0, 1}, []int{0, 0})
	assert.Equal(t, "unknown", UnknownConflictExplanation{}.String())
	assert.Equal(t, "inconsistent-background{c2[0 1]=[0 0]}", InconsistentBackground{Elements: []ConflictElement{c2}}.String())
	assert.Equal(t, "conflict{c2[0 1]=[0 0]} diagnoses[{c2[0 1]=[0 0]}]",
		DiagnosisSets{RootConflict: ConflictSet{Elements: []ConflictElement{c2}}, Diagnoses: [][]ConflictElement{{c2}}}.String())
	assert.Equal(t, "i12", InternalID(12).String())
}
