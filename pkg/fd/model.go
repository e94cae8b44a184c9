package fd

import (
	"fmt"
	"sync"
)

// Model represents a constraint satisfaction problem.
// A model consists of:
//   - Variables: decision variables with finite domains
//   - Constraints: relationships posted among variables
//
// Unlike a fully declarative model, constraints can be posted and unposted
// between solves. This is what lets a caller probe the same variables against
// many different subsets of constraints without rebuilding anything.
//
// Thread safety: all methods are safe for concurrent use, but a model must not
// be changed while a Solver is running on it.
type Model struct {
	variables   []*FDVariable
	constraints []Constraint
	mu          sync.RWMutex
}

// Constraint restricts the values variables can take simultaneously.
type Constraint interface {
	// Variables returns the variables involved in this constraint.
	Variables() []*FDVariable

	// Type returns a short name identifying the constraint kind.
	Type() string

	// Propagate applies the constraint's filtering algorithm.
	// It returns the (possibly) narrowed state, or an error wrapping
	// ErrInconsistent if the constraint cannot be satisfied.
	//
	// Must be pure: the same input produces the same output.
	Propagate(solver *Solver, state *SolverState) (*SolverState, error)

	String() string
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		variables:   make([]*FDVariable, 0),
		constraints: make([]Constraint, 0),
	}
}

// NewVariable creates a variable with the given domain and adds it to the model.
func (m *Model) NewVariable(domain Domain) *FDVariable {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := NewFDVariable(len(m.variables), domain)
	m.variables = append(m.variables, v)
	return v
}

// NewVariableWithName creates a named variable.
func (m *Model) NewVariableWithName(domain Domain, name string) *FDVariable {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := NewFDVariableWithName(len(m.variables), domain, name)
	m.variables = append(m.variables, v)
	return v
}

// Variable returns the variable with the given ID, or nil.
func (m *Model) Variable(id int) *FDVariable {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id < 0 || id >= len(m.variables) {
		return nil
	}
	return m.variables[id]
}

// Variables returns all variables. The returned slice must not be modified.
func (m *Model) Variables() []*FDVariable {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.variables
}

// VariableCount returns the number of variables.
func (m *Model) VariableCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.variables)
}

// Post adds a constraint to the model.
func (m *Model) Post(c Constraint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.constraints = append(m.constraints, c)
}

// Unpost removes the first occurrence of c (by identity) from the model.
// It reports whether c was posted.
func (m *Model) Unpost(c Constraint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, posted := range m.constraints {
		if posted == c {
			m.constraints = append(m.constraints[:i], m.constraints[i+1:]...)
			return true
		}
	}
	return false
}

// Constraints returns a snapshot of the posted constraints.
func (m *Model) Constraints() []Constraint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Constraint, len(m.constraints))
	copy(out, m.constraints)
	return out
}

// ConstraintCount returns the number of posted constraints.
func (m *Model) ConstraintCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.constraints)
}

// Validate checks the model for structural errors.
func (m *Model) Validate() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, v := range m.variables {
		if v.Domain().Count() == 0 {
			return fmt.Errorf("variable %s has empty domain", v.Name())
		}
	}
	for _, c := range m.constraints {
		for _, v := range c.Variables() {
			if v.ID() < 0 || v.ID() >= len(m.variables) || m.variables[v.ID()] != v {
				return fmt.Errorf("constraint %s references unknown variable %d", c.Type(), v.ID())
			}
		}
	}
	return nil
}
