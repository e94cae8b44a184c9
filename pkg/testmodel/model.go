// Package testmodel defines the combinatorial test model consumed by the
// conflict detection engine: parameters, exclusion constraints and error
// constraints, each expressed as a list of forbidden value tuples.
//
// Values are 0-based indices into a parameter's value list. A TestModel is
// immutable once built; accessors return copies.
package testmodel

import (
	"fmt"
	"slices"
)

// TupleList is a named set of parameter-value combinations.
//
// As an exclusion constraint it lists combinations that must never be
// generated. As an error constraint it lists invalid combinations the system
// under test must reject. MarkedAsCorrect declares the list an unconditional
// background assumption: it is never offered as a repair candidate.
type TupleList struct {
	ID              int     `yaml:"id" json:"id"`
	Parameters      []int   `yaml:"parameters" json:"parameters"`
	Tuples          [][]int `yaml:"tuples" json:"tuples"`
	MarkedAsCorrect bool    `yaml:"correct,omitempty" json:"correct,omitempty"`
}

// NewTupleList returns a deep copy of the given data as a TupleList.
func NewTupleList(id int, parameters []int, tuples [][]int, markedAsCorrect bool) TupleList {
	return TupleList{
		ID:              id,
		Parameters:      slices.Clone(parameters),
		Tuples:          cloneTuples(tuples),
		MarkedAsCorrect: markedAsCorrect,
	}
}

// Clone returns a deep copy.
func (t TupleList) Clone() TupleList {
	return NewTupleList(t.ID, t.Parameters, t.Tuples, t.MarkedAsCorrect)
}

// String renders the list compactly, e.g. "#3[0 1]{[1 0] [2 0]}".
func (t TupleList) String() string {
	mark := ""
	if t.MarkedAsCorrect {
		mark = "!"
	}
	return fmt.Sprintf("#%d%s%v%v", t.ID, mark, t.Parameters, t.Tuples)
}

func cloneTuples(tuples [][]int) [][]int {
	out := make([][]int, len(tuples))
	for i, tuple := range tuples {
		out[i] = slices.Clone(tuple)
	}
	return out
}

func cloneLists(lists []TupleList) []TupleList {
	out := make([]TupleList, len(lists))
	for i, l := range lists {
		out[i] = l.Clone()
	}
	return out
}

// TestModel is a validated, immutable combinatorial test model.
type TestModel struct {
	strength       int
	parameterSizes []int
	exclusions     []TupleList
	errors         []TupleList
}

// NewTestModel validates its inputs and returns a TestModel holding deep copies.
//
// Validation rules:
//   - strength is non-negative and at most the number of parameters
//   - every parameter size is positive
//   - tuple list ids are positive and unique across both lists
//   - each list names at least one parameter, no parameter twice, all in range
//   - each list has at least one tuple, every tuple has one value per
//     parameter and every value lies in [0, size)
func NewTestModel(strength int, parameterSizes []int, exclusions, errorLists []TupleList) (*TestModel, error) {
	if strength < 0 || strength > len(parameterSizes) {
		return nil, fmt.Errorf("%w: strength %d outside [0, %d]", ErrInvalidModel, strength, len(parameterSizes))
	}
	for i, size := range parameterSizes {
		if size <= 0 {
			return nil, fmt.Errorf("%w: parameter %d has size %d", ErrInvalidModel, i, size)
		}
	}

	seen := make(map[int]bool)
	check := func(kind string, lists []TupleList) error {
		for _, l := range lists {
			if l.ID <= 0 {
				return fmt.Errorf("%w: %s tuple list has non-positive id %d", ErrInvalidModel, kind, l.ID)
			}
			if seen[l.ID] {
				return fmt.Errorf("%w: duplicate tuple list id %d", ErrInvalidModel, l.ID)
			}
			seen[l.ID] = true
			if err := validateTupleList(l, parameterSizes); err != nil {
				return fmt.Errorf("%w: %s tuple list %d: %v", ErrInvalidModel, kind, l.ID, err)
			}
		}
		return nil
	}
	if err := check("exclusion", exclusions); err != nil {
		return nil, err
	}
	if err := check("error", errorLists); err != nil {
		return nil, err
	}

	return &TestModel{
		strength:       strength,
		parameterSizes: slices.Clone(parameterSizes),
		exclusions:     cloneLists(exclusions),
		errors:         cloneLists(errorLists),
	}, nil
}

func validateTupleList(l TupleList, sizes []int) error {
	if len(l.Parameters) == 0 {
		return fmt.Errorf("no parameters")
	}
	used := make(map[int]bool, len(l.Parameters))
	for _, p := range l.Parameters {
		if p < 0 || p >= len(sizes) {
			return fmt.Errorf("unknown parameter %d", p)
		}
		if used[p] {
			return fmt.Errorf("parameter %d listed twice", p)
		}
		used[p] = true
	}
	if len(l.Tuples) == 0 {
		return fmt.Errorf("no tuples")
	}
	for i, tuple := range l.Tuples {
		if len(tuple) != len(l.Parameters) {
			return fmt.Errorf("tuple %d has %d values for %d parameters", i, len(tuple), len(l.Parameters))
		}
		for j, v := range tuple {
			if v < 0 || v >= sizes[l.Parameters[j]] {
				return fmt.Errorf("tuple %d value %d out of range for parameter %d", i, v, l.Parameters[j])
			}
		}
	}
	return nil
}

// Strength returns the interaction strength.
func (m *TestModel) Strength() int { return m.strength }

// ParameterCount returns the number of parameters.
func (m *TestModel) ParameterCount() int { return len(m.parameterSizes) }

// ParameterSizes returns a copy of the parameter sizes.
func (m *TestModel) ParameterSizes() []int { return slices.Clone(m.parameterSizes) }

// ExclusionTupleLists returns copies of the exclusion constraints.
func (m *TestModel) ExclusionTupleLists() []TupleList { return cloneLists(m.exclusions) }

// ErrorTupleLists returns copies of the error constraints.
func (m *TestModel) ErrorTupleLists() []TupleList { return cloneLists(m.errors) }

// TupleListCount returns the number of exclusion plus error tuple lists.
func (m *TestModel) TupleListCount() int { return len(m.exclusions) + len(m.errors) }

// TupleList looks up a tuple list by id in both exclusion and error
// constraints, exclusions first.
func (m *TestModel) TupleList(id int) (TupleList, bool) {
	for _, l := range m.exclusions {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	for _, l := range m.errors {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	return TupleList{}, false
}
