package conflict

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/gitrdm/gokanconflict/pkg/testmodel"
)

// DiagnosisElement is one culprit: a constraint of the caller's model with
// its parameters and witness values.
type DiagnosisElement struct {
	ConstraintID ConstraintID
	Parameters   []int
	Values       []int
}

func (e DiagnosisElement) String() string {
	return fmt.Sprintf("%s%v=%v", e.ConstraintID, e.Parameters, e.Values)
}

func (e DiagnosisElement) key() string {
	return e.String()
}

func compareElements(a, b DiagnosisElement) int {
	if c := cmp.Compare(a.ConstraintID, b.ConstraintID); c != 0 {
		return c
	}
	if c := slices.Compare(a.Parameters, b.Parameters); c != 0 {
		return c
	}
	return slices.Compare(a.Values, b.Values)
}

// DiagnosisSet is a set of culprits that together repair one finding.
type DiagnosisSet []DiagnosisElement

// DiagnosisHittingSet is a minimal set of culprits that repairs every
// finding at once. Elements are sorted and unique.
type DiagnosisHittingSet struct {
	Elements []DiagnosisElement
}

func (h DiagnosisHittingSet) String() string {
	parts := make([]string, len(h.Elements))
	for i, e := range h.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// candidate is a sorted, de-duplicated set of elements with a canonical key.
type candidate struct {
	elements []DiagnosisElement
	members  map[string]bool
	key      string
}

func newCandidate(elements []DiagnosisElement) candidate {
	c := candidate{members: make(map[string]bool)}
	for _, e := range elements {
		if k := e.key(); !c.members[k] {
			c.members[k] = true
			c.elements = append(c.elements, e)
		}
	}
	slices.SortFunc(c.elements, compareElements)
	keys := make([]string, len(c.elements))
	for i, e := range c.elements {
		keys[i] = e.key()
	}
	c.key = strings.Join(keys, ";")
	return c
}

func (c candidate) union(other candidate) candidate {
	return newCandidate(slices.Concat(c.elements, other.elements))
}

// subsetOf reports whether every element of c is in other.
func (c candidate) subsetOf(other candidate) bool {
	if len(c.elements) > len(other.elements) {
		return false
	}
	for k := range c.members {
		if !other.members[k] {
			return false
		}
	}
	return true
}

// HittingSetBuilder combines the diagnoses of many findings into globally
// minimal repairs.
type HittingSetBuilder struct {
	model  *testmodel.TestModel
	logger *zap.Logger
}

// NewHittingSetBuilder creates a builder for findings of model, the
// caller's (unexpanded) test model.
func NewHittingSetBuilder(model *testmodel.TestModel, opts ...Option) *HittingSetBuilder {
	o := applyOptions(opts)
	return &HittingSetBuilder{model: model, logger: o.logger}
}

// ComputeMinimalDiagnosisHittingSets returns every set-minimal combination
// of repairs that resolves all findings.
//
// Each finding contributes alternatives: its diagnoses and, unless its error
// constraint is marked as correct, the singleton "this tuple is wrong". The
// alternatives of all findings are folded by pairwise union, and after every
// step only set-minimal candidates are kept. Findings must carry
// DiagnosisSets or InconsistentBackground explanations.
//
// A finding without alternatives, an inconsistent background whose own
// constraint is marked as correct, cannot be repaired and is skipped.
func (b *HittingSetBuilder) ComputeMinimalDiagnosisHittingSets(findings []MissingInvalidTuple) ([]DiagnosisHittingSet, error) {
	acc := []candidate{newCandidate(nil)}
	folded := 0

	for _, f := range findings {
		alternatives, err := b.alternatives(f)
		if err != nil {
			return nil, err
		}
		if len(alternatives) == 0 {
			b.logger.Warn("finding has no repair alternatives, skipping",
				zap.Stringer("constraint", f.NegatedErrorConstraintID),
				zap.Ints("values", f.MissingValues))
			continue
		}
		acc = minimalCandidates(combine(acc, alternatives))
		folded++
		b.logger.Debug("hitting set fold step",
			zap.Stringer("constraint", f.NegatedErrorConstraintID),
			zap.Int("alternatives", len(alternatives)),
			zap.Int("candidates", len(acc)))
	}

	if folded == 0 {
		return []DiagnosisHittingSet{}, nil
	}
	out := make([]DiagnosisHittingSet, len(acc))
	for i, c := range acc {
		out[i] = DiagnosisHittingSet{Elements: c.elements}
	}
	return out, nil
}

// alternatives normalizes one finding into its alternative repair sets.
func (b *HittingSetBuilder) alternatives(f MissingInvalidTuple) ([]candidate, error) {
	var out []candidate
	switch e := f.Explanation.(type) {
	case DiagnosisSets:
		for _, diagnosis := range e.Diagnoses {
			elements := make([]DiagnosisElement, len(diagnosis))
			for i, c := range diagnosis {
				elements[i] = DiagnosisElement(c)
			}
			out = append(out, newCandidate(elements))
		}
	case InconsistentBackground:
		// Background constraints are assumptions, not repair candidates.
	default:
		return nil, fmt.Errorf("hitting set: finding %s: %w (got %T)", f.NegatedErrorConstraintID, ErrDiagnosisRequiresExplanation, f.Explanation)
	}

	own, ok := b.model.TupleList(int(f.NegatedErrorConstraintID))
	if !ok {
		return nil, fmt.Errorf("hitting set: finding %s: %w", f.NegatedErrorConstraintID, ErrUnknownConstraint)
	}
	if !own.MarkedAsCorrect {
		out = append(out, newCandidate([]DiagnosisElement{{
			ConstraintID: f.NegatedErrorConstraintID,
			Parameters:   slices.Clone(f.Parameters),
			Values:       slices.Clone(f.MissingValues),
		}}))
	}
	return out, nil
}

// combine forms the pairwise unions of acc and next, without duplicates.
func combine(acc, next []candidate) []candidate {
	seen := make(map[string]bool)
	var out []candidate
	for _, a := range acc {
		for _, n := range next {
			u := a.union(n)
			if !seen[u.key] {
				seen[u.key] = true
				out = append(out, u)
			}
		}
	}
	return out
}

// minimalCandidates drops every candidate that strictly contains another.
// Input candidates are unique, so containment of a different candidate is
// always strict. The result is sorted by size, then by key.
func minimalCandidates(cands []candidate) []candidate {
	slices.SortFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(len(a.elements), len(b.elements)); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})
	var out []candidate
	for _, c := range cands {
		minimal := true
		for _, kept := range out {
			if kept.subsetOf(c) {
				minimal = false
				break
			}
		}
		if minimal {
			out = append(out, c)
		}
	}
	return out
}
