package conflict

import (
	"fmt"
	"strings"
)

// InternalExplanation is the result of explaining one probe, with ids in
// the expanded space. The concrete types are InternalConflictSet,
// InternalInconsistentBackground, InternalUnknownExplanation and
// InternalDiagnosisSets.
type InternalExplanation interface {
	internalExplanation()
}

// InternalConflictSet is a minimal subset of Relaxable that is
// unsatisfiable together with Background.
type InternalConflictSet struct {
	Background []InternalID
	Relaxable  []InternalID
	Conflict   []InternalID
}

// InternalInconsistentBackground reports that Background alone is unsatisfiable.
type InternalInconsistentBackground struct {
	Background []InternalID
	Relaxable  []InternalID
}

// InternalUnknownExplanation reports a conflict without explaining it.
type InternalUnknownExplanation struct{}

// InternalDiagnosisSets decomposes Root into its minimal diagnoses.
type InternalDiagnosisSets struct {
	Root      InternalConflictSet
	Diagnoses [][]InternalID
}

func (InternalConflictSet) internalExplanation()            {}
func (InternalInconsistentBackground) internalExplanation() {}
func (InternalUnknownExplanation) internalExplanation()     {}
func (InternalDiagnosisSets) internalExplanation()          {}

// ConflictElement names one constraint of the caller's model, together with
// its parameters and one witness tuple.
type ConflictElement struct {
	ConstraintID ConstraintID
	Parameters   []int
	Values       []int
}

func (e ConflictElement) String() string {
	return fmt.Sprintf("%s%v=%v", e.ConstraintID, e.Parameters, e.Values)
}

// Explanation describes why an error tuple is missing. The concrete types
// are ConflictSet, InconsistentBackground, UnknownConflictExplanation and
// DiagnosisSets.
type Explanation interface {
	fmt.Stringer
	explanation()
}

// ConflictSet lists constraints that together exclude the missing tuple.
// Removing any one of them removes this particular conflict.
type ConflictSet struct {
	Elements []ConflictElement
}

// InconsistentBackground lists the background assumptions (the negated
// constraint and every constraint marked as correct) that are already
// unsatisfiable on their own.
type InconsistentBackground struct {
	Elements []ConflictElement
}

// UnknownConflictExplanation is reported when explanation is disabled.
type UnknownConflictExplanation struct{}

// DiagnosisSets decomposes RootConflict into minimal diagnoses. Each
// diagnosis is a set of constraints whose removal makes the missing tuple
// reachable again.
type DiagnosisSets struct {
	RootConflict ConflictSet
	Diagnoses    [][]ConflictElement
}

func (ConflictSet) explanation()                {}
func (InconsistentBackground) explanation()     {}
func (UnknownConflictExplanation) explanation() {}
func (DiagnosisSets) explanation()              {}

func (c ConflictSet) String() string {
	return "conflict" + joinElements(c.Elements)
}

func (b InconsistentBackground) String() string {
	return "inconsistent-background" + joinElements(b.Elements)
}

func (UnknownConflictExplanation) String() string {
	return "unknown"
}

func (d DiagnosisSets) String() string {
	parts := make([]string, len(d.Diagnoses))
	for i, diagnosis := range d.Diagnoses {
		parts[i] = joinElements(diagnosis)
	}
	return fmt.Sprintf("%s diagnoses[%s]", d.RootConflict, strings.Join(parts, " "))
}

func joinElements(elements []ConflictElement) string {
	parts := make([]string, len(elements))
	for i, e := range elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// MissingInvalidTuple is one finding: the tuple MissingValues of error
// constraint NegatedErrorConstraintID can never be generated.
type MissingInvalidTuple struct {
	NegatedErrorConstraintID ConstraintID
	Parameters               []int
	MissingValues            []int
	Explanation              Explanation
}

func (t MissingInvalidTuple) String() string {
	return fmt.Sprintf("%s%v=%v: %s", t.NegatedErrorConstraintID, t.Parameters, t.MissingValues, t.Explanation)
}

// internalMissingInvalidTuple is a finding before id translation.
type internalMissingInvalidTuple struct {
	negatedErrorConstraintID InternalID
	parameters               []int
	missingValues            []int
	explanation              InternalExplanation
}
