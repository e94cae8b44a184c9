package conflict

import (
	"cmp"
	"context"
	"fmt"
	"slices"
)

// ConflictDiagnostician decomposes a conflict set into minimal diagnoses.
//
// A diagnosis is a set of relaxable constraints whose removal makes the
// conflict's background satisfiable together with the remaining relaxable
// constraints. It is minimal if no proper subset is a diagnosis.
type ConflictDiagnostician interface {
	MinimalDiagnoses(ctx context.Context, model *ConstraintModel, conflict InternalConflictSet) ([][]InternalID, error)
}

// HSTree computes every minimal diagnosis with Reiter's hitting-set tree.
//
// The tree is explored breadth first. Each node is a path of removed
// constraints; its label is a minimal conflict disjoint from the path, found
// with Explainer or reused from an earlier node. A node without a conflict
// is a diagnosis. Paths that contain a known diagnosis are closed, and
// paths already seen on a level are merged, so each diagnosis is reported
// once and only minimal ones survive.
type HSTree struct {
	// Explainer finds node labels. QuickXplain is used if nil.
	Explainer ConflictExplainer
}

// MinimalDiagnoses implements ConflictDiagnostician. Diagnoses are sorted
// by size, then by ids.
func (h HSTree) MinimalDiagnoses(ctx context.Context, model *ConstraintModel, root InternalConflictSet) ([][]InternalID, error) {
	explainer := h.Explainer
	if explainer == nil {
		explainer = QuickXplain{}
	}
	if len(root.Conflict) == 0 {
		return nil, nil
	}

	conflicts := [][]InternalID{root.Conflict}
	var diagnoses [][]InternalID

	level := [][]InternalID{{}}
	for len(level) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var next [][]InternalID
		seen := make(map[string]bool)

		for _, path := range level {
			if containsAnySubset(path, diagnoses) {
				continue
			}

			label := reusableConflict(conflicts, path)
			if label == nil {
				explanation, err := explainer.MinimalConflict(ctx, model, root.Background, withoutIDs(root.Relaxable, path...))
				if err != nil {
					return nil, fmt.Errorf("hs-tree: %w", err)
				}
				switch e := explanation.(type) {
				case nil:
					diagnoses = append(diagnoses, path)
					continue
				case InternalConflictSet:
					conflicts = append(conflicts, e.Conflict)
					label = e.Conflict
				default:
					// The background is inconsistent on its own, so no set of
					// relaxable constraints can repair this branch.
					continue
				}
			}

			for _, id := range label {
				child := sortedIDs(append(slices.Clone(path), id))
				key := fmt.Sprint(child)
				if !seen[key] {
					seen[key] = true
					next = append(next, child)
				}
			}
		}
		level = next
	}

	slices.SortFunc(diagnoses, compareIDSets)
	return diagnoses, nil
}

// reusableConflict returns a known conflict sharing no element with path.
func reusableConflict(conflicts [][]InternalID, path []InternalID) []InternalID {
	for _, c := range conflicts {
		disjoint := true
		for _, id := range c {
			if slices.Contains(path, id) {
				disjoint = false
				break
			}
		}
		if disjoint {
			return c
		}
	}
	return nil
}

// containsAnySubset reports whether some set in sets is a subset of path.
func containsAnySubset(path []InternalID, sets [][]InternalID) bool {
	for _, s := range sets {
		subset := true
		for _, id := range s {
			if !slices.Contains(path, id) {
				subset = false
				break
			}
		}
		if subset {
			return true
		}
	}
	return false
}

func compareIDSets(a, b []InternalID) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return slices.Compare(a, b)
}

// noDiagnostician is installed when diagnosis is disabled. The manager never
// calls it.
type noDiagnostician struct{}

func (noDiagnostician) MinimalDiagnoses(context.Context, *ConstraintModel, InternalConflictSet) ([][]InternalID, error) {
	return nil, nil
}
