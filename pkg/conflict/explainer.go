package conflict

import (
	"context"
	"slices"
)

// ConflictExplainer finds why background ∪ relaxable is unsatisfiable.
//
// It returns nil if the union is satisfiable, an
// InternalInconsistentBackground if background alone is unsatisfiable,
// and otherwise an InternalConflictSet holding a minimal subset of relaxable
// that is unsatisfiable together with background.
//
// Implementations may enable and disable groups of model freely but must
// restore the enabled registry before returning.
type ConflictExplainer interface {
	MinimalConflict(ctx context.Context, model *ConstraintModel, background, relaxable []InternalID) (InternalExplanation, error)
}

// explainWith runs the common prelude of every explainer and delegates the
// minimization of relaxable to minimize.
func explainWith(
	ctx context.Context,
	model *ConstraintModel,
	background, relaxable []InternalID,
	minimize func(background, relaxable []InternalID) ([]InternalID, error),
) (explanation InternalExplanation, err error) {
	restore := model.preserveRegistries()
	defer func() {
		if rerr := restore(); rerr != nil && err == nil {
			explanation, err = nil, rerr
		}
	}()

	background = uniqueIDs(background)
	relaxable = withoutIDs(uniqueIDs(relaxable), background...)

	ok, err := model.consistent(ctx, slices.Concat(background, relaxable))
	if err != nil || ok {
		return nil, err
	}
	ok, err = model.consistent(ctx, background)
	if err != nil {
		return nil, err
	}
	if !ok {
		return InternalInconsistentBackground{Background: background, Relaxable: relaxable}, nil
	}

	conflict, err := minimize(background, relaxable)
	if err != nil {
		return nil, err
	}
	return InternalConflictSet{
		Background: background,
		Relaxable:  relaxable,
		Conflict:   inOrderOf(relaxable, conflict),
	}, nil
}

// inOrderOf returns the members of subset ordered as they appear in order.
func inOrderOf(order, subset []InternalID) []InternalID {
	out := make([]InternalID, 0, len(subset))
	for _, id := range order {
		if slices.Contains(subset, id) {
			out = append(out, id)
		}
	}
	return out
}

// QuickXplain is Junker's divide-and-conquer conflict minimization. It
// needs O(k·log(n/k)) consistency checks for a conflict of size k out of n
// relaxable constraints. Ties are broken towards constraints that come
// first in relaxable.
type QuickXplain struct{}

// MinimalConflict implements ConflictExplainer.
func (QuickXplain) MinimalConflict(ctx context.Context, model *ConstraintModel, background, relaxable []InternalID) (InternalExplanation, error) {
	return explainWith(ctx, model, background, relaxable, func(b, c []InternalID) ([]InternalID, error) {
		if len(c) == 0 {
			return nil, nil
		}
		return quickXplain(ctx, model, b, nil, c)
	})
}

// quickXplain returns a minimal subset of c that conflicts with b, given
// that b ∪ c is inconsistent. delta holds the constraints added to b by
// the caller since the last check.
func quickXplain(ctx context.Context, model *ConstraintModel, b, delta, c []InternalID) ([]InternalID, error) {
	if len(delta) > 0 {
		ok, err := model.consistent(ctx, b)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}
	if len(c) == 1 {
		return slices.Clone(c), nil
	}

	k := len(c) / 2
	c1, c2 := c[:k], c[k:]

	d2, err := quickXplain(ctx, model, slices.Concat(b, c1), c1, c2)
	if err != nil {
		return nil, err
	}
	d1, err := quickXplain(ctx, model, slices.Concat(b, d2), d2, c1)
	if err != nil {
		return nil, err
	}
	return slices.Concat(d1, d2), nil
}

// DeletionFilter minimizes a conflict by trying to drop one constraint at a
// time, keeping the drop whenever the rest stays inconsistent. It needs
// exactly n consistency checks.
type DeletionFilter struct{}

// MinimalConflict implements ConflictExplainer.
func (DeletionFilter) MinimalConflict(ctx context.Context, model *ConstraintModel, background, relaxable []InternalID) (InternalExplanation, error) {
	return explainWith(ctx, model, background, relaxable, func(b, c []InternalID) ([]InternalID, error) {
		conflict := slices.Clone(c)
		for i := 0; i < len(conflict); {
			candidate := slices.Delete(slices.Clone(conflict), i, i+1)
			ok, err := model.consistent(ctx, slices.Concat(b, candidate))
			if err != nil {
				return nil, err
			}
			if ok {
				i++
				continue
			}
			conflict = candidate
		}
		return conflict, nil
	})
}

// noExplainer is installed when explanation is disabled. The manager never
// calls it.
type noExplainer struct{}

func (noExplainer) MinimalConflict(context.Context, *ConstraintModel, []InternalID, []InternalID) (InternalExplanation, error) {
	return nil, nil
}
