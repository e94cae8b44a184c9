// This file implements the backtracking solver.
//
// # Architecture Overview
//
// The solver separates the problem definition from mutable search state:
//
//	Model:
//	  - Variables with initial domains
//	  - Currently posted constraints
//
//	SolverState (copy-on-write):
//	  - Sparse chain of domain modifications
//	  - O(1) cost to derive a new state node
//	  - Backtracking simply drops nodes
//
// Constraints communicate through the state: they read domains with
// GetDomain and derive narrowed states with SetDomain until a fixed point
// is reached.
package fd

import (
	"context"
	"errors"
	"fmt"
)

// maxPropagationIterations bounds the fixed-point loop.
const maxPropagationIterations = 1000

// Solver performs propagation and depth-first search over a Model.
//
// Thread safety: Solver instances are NOT thread-safe. Use one solver (and
// one model) per goroutine.
type Solver struct {
	model   *Model
	monitor *SolverMonitor

	// constraints is the snapshot of posted constraints taken by Solve.
	constraints []Constraint
}

// SolverState is one node of a persistent chain of domain modifications.
type SolverState struct {
	parent         *SolverState
	modifiedVarID  int
	modifiedDomain Domain
	depth          int
}

// NewSolver creates a solver for the given model.
func NewSolver(model *Model) *Solver {
	return &Solver{model: model}
}

// SetMonitor enables statistics collection.
func (s *Solver) SetMonitor(monitor *SolverMonitor) {
	s.monitor = monitor
}

// Reset drops all search state retained from a previous Solve.
func (s *Solver) Reset() {
	s.constraints = nil
}

// GetDomain returns the current domain of varID in state, walking the
// chain back to the model's initial domain.
func (s *Solver) GetDomain(state *SolverState, varID int) Domain {
	for cur := state; cur != nil; cur = cur.parent {
		if cur.modifiedVarID == varID && cur.modifiedDomain != nil {
			return cur.modifiedDomain
		}
	}
	if v := s.model.Variable(varID); v != nil {
		return v.Domain()
	}
	return nil
}

// SetDomain derives a new state with domain for varID. It returns the
// original state and false if the domain did not change.
func (s *Solver) SetDomain(state *SolverState, varID int, domain Domain) (*SolverState, bool) {
	if current := s.GetDomain(state, varID); current != nil && current.Equal(domain) {
		return state, false
	}
	next := &SolverState{
		parent:         state,
		modifiedVarID:  varID,
		modifiedDomain: domain,
		depth:          1,
	}
	if state != nil {
		next.depth = state.depth + 1
	}
	return next, true
}

// Solve finds up to maxSolutions solutions, or all solutions if
// maxSolutions <= 0. Solutions are value slices indexed by variable ID.
//
// Inconsistency is not an error: an unsatisfiable model yields an empty
// result. Errors are returned only for invalid models, propagation that
// fails to converge, or context cancellation.
func (s *Solver) Solve(ctx context.Context, maxSolutions int) ([][]int, error) {
	if err := s.model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	if s.monitor != nil {
		s.monitor.StartSearch()
		defer s.monitor.FinishSearch()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.constraints = s.model.Constraints()

	root, err := s.propagate(nil)
	if err != nil {
		if errors.Is(err, ErrInconsistent) {
			return [][]int{}, nil
		}
		return nil, err
	}

	solutions := make([][]int, 0)
	if err := s.search(ctx, root, &solutions, maxSolutions); err != nil {
		return nil, err
	}
	return solutions, nil
}

// propagate runs every posted constraint until no domain changes.
func (s *Solver) propagate(state *SolverState) (*SolverState, error) {
	if s.monitor != nil {
		s.monitor.RecordPropagation()
	}
	cur := state
	for iteration := 0; iteration < maxPropagationIterations; iteration++ {
		changed := false
		for _, c := range s.constraints {
			next, err := c.Propagate(s, cur)
			if err != nil {
				return nil, err
			}
			if next != cur {
				changed = true
				cur = next
			}
		}
		if !changed {
			return cur, nil
		}
	}
	return nil, fmt.Errorf("propagation failed to reach fixed-point after %d iterations", maxPropagationIterations)
}

// search performs depth-first search with an explicit stack.
func (s *Solver) search(ctx context.Context, state *SolverState, solutions *[][]int, maxSolutions int) error {
	type frame struct {
		state      *SolverState
		varID      int
		values     []int
		valueIndex int
	}

	varID, values := s.selectVariable(state)
	if varID == -1 {
		s.record(state, solutions)
		return nil
	}

	stack := []*frame{{state: state, varID: varID, values: values}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		top := stack[len(stack)-1]
		if top.valueIndex >= len(top.values) {
			stack = stack[:len(stack)-1]
			if s.monitor != nil {
				s.monitor.RecordBacktrack()
			}
			continue
		}
		if s.monitor != nil {
			s.monitor.RecordNode()
			s.monitor.RecordDepth(len(stack))
		}

		value := top.values[top.valueIndex]
		top.valueIndex++

		domain := s.GetDomain(top.state, top.varID)
		assigned, _ := s.SetDomain(top.state, top.varID, NewBitSetDomainFromValues(domain.Size(), []int{value}))
		propagated, err := s.propagate(assigned)
		if err != nil {
			if errors.Is(err, ErrInconsistent) {
				continue
			}
			return err
		}

		nextVar, nextValues := s.selectVariable(propagated)
		if nextVar == -1 {
			s.record(propagated, solutions)
			if maxSolutions > 0 && len(*solutions) >= maxSolutions {
				return nil
			}
			continue
		}
		stack = append(stack, &frame{state: propagated, varID: nextVar, values: nextValues})
	}
	return nil
}

func (s *Solver) record(state *SolverState, solutions *[][]int) {
	solution := make([]int, s.model.VariableCount())
	for i := range solution {
		solution[i] = s.GetDomain(state, i).SingletonValue()
	}
	*solutions = append(*solutions, solution)
	if s.monitor != nil {
		s.monitor.RecordSolution()
	}
}

// selectVariable picks the unbound variable with the smallest domain
// (ties by lowest ID) and returns its values in ascending order.
// Returns (-1, nil) if all variables are bound.
func (s *Solver) selectVariable(state *SolverState) (int, []int) {
	best := -1
	bestCount := 0
	for i := 0; i < s.model.VariableCount(); i++ {
		d := s.GetDomain(state, i)
		if d.IsSingleton() {
			continue
		}
		if best == -1 || d.Count() < bestCount {
			best = i
			bestCount = d.Count()
		}
	}
	if best == -1 {
		return -1, nil
	}
	values := make([]int, 0, bestCount)
	s.GetDomain(state, best).IterateValues(func(v int) {
		values = append(values, v)
	})
	return best, values
}
