package conflict

import (
	"slices"
	"strconv"
)

// InternalID identifies a constraint of the expanded model, in which every
// tuple list holds exactly one tuple.
type InternalID int

// ConstraintID identifies a tuple list of the caller's (original) model.
type ConstraintID int

func (id InternalID) String() string   { return "i" + strconv.Itoa(int(id)) }
func (id ConstraintID) String() string { return "c" + strconv.Itoa(int(id)) }

// uniqueIDs concatenates the given id lists, dropping repeats and keeping
// first-seen order.
func uniqueIDs(lists ...[]InternalID) []InternalID {
	seen := make(map[InternalID]bool)
	out := make([]InternalID, 0)
	for _, list := range lists {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// withoutIDs returns ids minus every id in drop, order preserved.
func withoutIDs(ids []InternalID, drop ...InternalID) []InternalID {
	out := make([]InternalID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(drop, id) {
			out = append(out, id)
		}
	}
	return out
}

func sortedIDs(ids []InternalID) []InternalID {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}
