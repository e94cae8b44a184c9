// Extensional tuple constraints.
//
// Table requires the variables to equal one of a fixed list of rows.
// Forbidden requires the variables to differ from every row in a list,
// i.e. it is a conjunction of nogoods. The two are logical opposites over
// the same rows:
//
//	¬Forbidden(rows) ≡ ∃ row: vars = row ≡ Table(rows)
//	¬Table(rows)     ≡ ∀ row: vars ≠ row ≡ Forbidden(rows)
//
// so Negate on either returns the other, and negating twice yields
// a constraint equivalent to the original.
package fd

import (
	"errors"
	"fmt"
)

// ErrInconsistent is wrapped by every propagation failure.
var ErrInconsistent = errors.New("fd: inconsistent")

// Negatable is implemented by constraints with an explicit logical negation.
type Negatable interface {
	Constraint
	Negate() Constraint
}

func copyRows(vars []*FDVariable, rows [][]int, kind string) ([][]int, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("%s: vars cannot be empty", kind)
	}
	for i, v := range vars {
		if v == nil {
			return nil, fmt.Errorf("%s: vars[%d] is nil", kind, i)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: rows cannot be empty", kind)
	}
	copied := make([][]int, len(rows))
	for r, row := range rows {
		if len(row) != len(vars) {
			return nil, fmt.Errorf("%s: row %d has arity %d, expected %d", kind, r, len(row), len(vars))
		}
		copied[r] = make([]int, len(row))
		for c, val := range row {
			if val < 0 {
				return nil, fmt.Errorf("%s: row %d col %d has negative value %d", kind, r, c, val)
			}
			copied[r][c] = val
		}
	}
	return copied, nil
}

// Table is an extensional constraint over a fixed list of allowed rows.
type Table struct {
	vars []*FDVariable
	rows [][]int
}

// NewTable constructs a Table constraint.
//
// Contract:
//   - len(vars) > 0, all vars non-nil
//   - len(rows) > 0, each row has exactly len(vars) entries
//   - all row values are >= 0
func NewTable(vars []*FDVariable, rows [][]int) (*Table, error) {
	copied, err := copyRows(vars, rows, "Table")
	if err != nil {
		return nil, err
	}
	return &Table{vars: vars, rows: copied}, nil
}

// Variables implements Constraint.
func (t *Table) Variables() []*FDVariable { return t.vars }

// Type implements Constraint.
func (t *Table) Type() string { return "Table" }

// Rows returns the allowed rows. The result must not be modified.
func (t *Table) Rows() [][]int { return t.rows }

// String implements Constraint.
func (t *Table) String() string {
	return fmt.Sprintf("Table(arity=%d, rows=%v)", len(t.vars), t.rows)
}

// Negate returns Forbidden over the same variables and rows.
func (t *Table) Negate() Constraint {
	return &Forbidden{vars: t.vars, rows: t.rows}
}

// Propagate enforces generalized arc consistency against the table:
// rows incompatible with the current domains are discarded and every
// domain is pruned to the values that still have a supporting row.
func (t *Table) Propagate(solver *Solver, state *SolverState) (*SolverState, error) {
	n := len(t.vars)
	doms := make([]Domain, n)
	for i, v := range t.vars {
		d := solver.GetDomain(state, v.ID())
		if d == nil || d.Count() == 0 {
			return nil, fmt.Errorf("Table: variable %d has empty domain: %w", v.ID(), ErrInconsistent)
		}
		doms[i] = d
	}

	supported := make([][]int, n)
	compatible := 0
	for _, row := range t.rows {
		ok := true
		for i := 0; i < n; i++ {
			if !doms[i].Has(row[i]) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		compatible++
		for i := 0; i < n; i++ {
			supported[i] = append(supported[i], row[i])
		}
	}
	if compatible == 0 {
		return nil, fmt.Errorf("Table: no compatible rows remain: %w", ErrInconsistent)
	}

	cur := state
	for i, v := range t.vars {
		narrowed := doms[i].Intersect(NewBitSetDomainFromValues(doms[i].Size(), supported[i]))
		if !narrowed.Equal(doms[i]) {
			cur, _ = solver.SetDomain(cur, v.ID(), narrowed)
		}
	}
	return cur, nil
}

// Forbidden is a conjunction of nogoods: the variables must not
// simultaneously equal any of the rows.
type Forbidden struct {
	vars []*FDVariable
	rows [][]int
}

// NewForbidden constructs a Forbidden constraint. The contract matches NewTable.
func NewForbidden(vars []*FDVariable, rows [][]int) (*Forbidden, error) {
	copied, err := copyRows(vars, rows, "Forbidden")
	if err != nil {
		return nil, err
	}
	return &Forbidden{vars: vars, rows: copied}, nil
}

// Variables implements Constraint.
func (f *Forbidden) Variables() []*FDVariable { return f.vars }

// Type implements Constraint.
func (f *Forbidden) Type() string { return "Forbidden" }

// Rows returns the forbidden rows. The result must not be modified.
func (f *Forbidden) Rows() [][]int { return f.rows }

// String implements Constraint.
func (f *Forbidden) String() string {
	return fmt.Sprintf("Forbidden(arity=%d, rows=%v)", len(f.vars), f.rows)
}

// Negate returns a Table over the same variables and rows.
func (f *Forbidden) Negate() Constraint {
	return &Table{vars: f.vars, rows: f.rows}
}

// Propagate performs forward checking per row: a row whose values are all
// fixed fails the constraint, and a row with exactly one open column
// removes that column's value from the open variable.
func (f *Forbidden) Propagate(solver *Solver, state *SolverState) (*SolverState, error) {
	cur := state
	for _, row := range f.rows {
		open := -1
		matches := true
		for i, v := range f.vars {
			d := solver.GetDomain(cur, v.ID())
			if d == nil || d.Count() == 0 {
				return nil, fmt.Errorf("Forbidden: variable %d has empty domain: %w", v.ID(), ErrInconsistent)
			}
			if !d.Has(row[i]) {
				matches = false
				break
			}
			if d.IsSingleton() {
				continue
			}
			if open != -1 {
				// Two or more open columns, nothing to infer yet.
				matches = false
				break
			}
			open = i
		}
		if !matches {
			continue
		}
		if open == -1 {
			return nil, fmt.Errorf("Forbidden: row %v is fully assigned: %w", row, ErrInconsistent)
		}
		v := f.vars[open]
		d := solver.GetDomain(cur, v.ID())
		pruned := d.Remove(row[open])
		if pruned.Count() == 0 {
			return nil, fmt.Errorf("Forbidden: domain of var %d emptied: %w", v.ID(), ErrInconsistent)
		}
		cur, _ = solver.SetDomain(cur, v.ID(), pruned)
	}
	return cur, nil
}
