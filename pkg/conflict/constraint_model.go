package conflict

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/gitrdm/gokanconflict/pkg/fd"
	"github.com/gitrdm/gokanconflict/pkg/testmodel"
)

// ConstraintModel owns one solving context over the parameters of a test
// model. Every tuple list is a constraint group that is either enabled
// (posted to the solver) or disabled. On top of that, one transient
// assignment group and one transient negation may be active.
//
// At any moment exactly the enabled groups are posted. Callers that set an
// assignment or a negation must release it before the next probe, typically
// with defer.
//
// A ConstraintModel is not safe for concurrent use.
type ConstraintModel struct {
	fd      *fd.Model
	solver  *fd.Solver
	monitor *fd.SolverMonitor
	vars    []*fd.FDVariable

	groups   map[InternalID]*constraintGroup
	enabled  map[InternalID]bool
	disabled map[InternalID]bool

	assignmentID InternalID
	assignment   *constraintGroup
	negated      *constraintGroup

	logger *zap.Logger
}

// constraintGroup holds the rule for one tuple list. current differs from
// original only while the group is negated.
type constraintGroup struct {
	id       InternalID
	original fd.Constraint
	current  fd.Constraint
}

// NewConstraintModel creates one variable per parameter, with domain
// [0, size), and one enabled group per tuple list forbidding its tuples.
// Ids must be unique across exclusion and error lists.
func NewConstraintModel(parameterSizes []int, exclusions, errorLists []testmodel.TupleList, opts ...Option) (*ConstraintModel, error) {
	o := applyOptions(opts)

	m := &ConstraintModel{
		fd:       fd.NewModel(),
		monitor:  o.monitor,
		groups:   make(map[InternalID]*constraintGroup),
		enabled:  make(map[InternalID]bool),
		disabled: make(map[InternalID]bool),
		logger:   o.logger,
	}
	for i, size := range parameterSizes {
		m.vars = append(m.vars, m.fd.NewVariableWithName(fd.NewBitSetDomain(size), fmt.Sprintf("p%d", i)))
	}
	m.solver = fd.NewSolver(m.fd)
	if m.monitor != nil {
		m.solver.SetMonitor(m.monitor)
	}

	var maxID InternalID
	for _, l := range slices.Concat(exclusions, errorLists) {
		id := InternalID(l.ID)
		if _, dup := m.groups[id]; dup {
			return nil, fmt.Errorf("constraint model: %w: %d", ErrDuplicateConstraintID, l.ID)
		}
		vars, err := m.variables(l.Parameters)
		if err != nil {
			return nil, fmt.Errorf("constraint model: tuple list %d: %w", l.ID, err)
		}
		rule, err := fd.NewForbidden(vars, l.Tuples)
		if err != nil {
			return nil, fmt.Errorf("constraint model: tuple list %d: %w", l.ID, err)
		}
		g := &constraintGroup{id: id, original: rule, current: rule}
		m.groups[id] = g
		m.enabled[id] = true
		m.fd.Post(rule)
		maxID = max(maxID, id)
	}
	m.assignmentID = maxID + 1
	return m, nil
}

func (m *ConstraintModel) variables(parameters []int) ([]*fd.FDVariable, error) {
	vars := make([]*fd.FDVariable, len(parameters))
	for i, p := range parameters {
		if p < 0 || p >= len(m.vars) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownParameter, p)
		}
		vars[i] = m.vars[p]
	}
	return vars, nil
}

// Reset clears solver search state. IsSatisfiable calls it before solving.
func (m *ConstraintModel) Reset() {
	m.solver.Reset()
}

// IsSatisfiable reports whether the currently posted constraints admit at
// least one full assignment of the parameters.
func (m *ConstraintModel) IsSatisfiable(ctx context.Context) (bool, error) {
	m.Reset()
	solutions, err := m.solver.Solve(ctx, 1)
	if err != nil {
		return false, fmt.Errorf("constraint model: solve: %w", err)
	}
	return len(solutions) > 0, nil
}

// SetAssignmentConstraint posts a group pinning each parameter to the
// value at the same position, replacing any previous assignment. It returns
// the synthetic id of the group, which can be enabled and disabled like any
// other id until ClearAssignmentConstraint.
func (m *ConstraintModel) SetAssignmentConstraint(parameters, values []int) (InternalID, error) {
	if len(parameters) != len(values) {
		return 0, fmt.Errorf("constraint model: %w: %d parameters, %d values", ErrLengthMismatch, len(parameters), len(values))
	}
	m.ClearAssignmentConstraint()

	vars, err := m.variables(parameters)
	if err != nil {
		return 0, fmt.Errorf("constraint model: assignment: %w", err)
	}
	pin, err := fd.NewTable(vars, [][]int{values})
	if err != nil {
		return 0, fmt.Errorf("constraint model: assignment: %w", err)
	}
	m.assignment = &constraintGroup{id: m.assignmentID, original: pin, current: pin}
	m.groups[m.assignmentID] = m.assignment
	m.enabled[m.assignmentID] = true
	m.fd.Post(pin)
	return m.assignmentID, nil
}

// ClearAssignmentConstraint unposts and forgets the assignment group.
// It is a no-op if none is set.
func (m *ConstraintModel) ClearAssignmentConstraint() {
	if m.assignment == nil {
		return
	}
	if m.enabled[m.assignmentID] {
		m.fd.Unpost(m.assignment.current)
	}
	delete(m.enabled, m.assignmentID)
	delete(m.disabled, m.assignmentID)
	delete(m.groups, m.assignmentID)
	m.assignment = nil
}

// SetNegationOfConstraint replaces the rule of the enabled group id by its
// logical negation, keeping the id. Any previous negation is reset first.
func (m *ConstraintModel) SetNegationOfConstraint(id InternalID) error {
	m.ResetNegationOfConstraint()

	g, ok := m.groups[id]
	if !ok {
		return fmt.Errorf("constraint model: negate %d: %w", id, ErrUnknownConstraint)
	}
	if !m.enabled[id] {
		return fmt.Errorf("constraint model: negate %d: %w", id, ErrConstraintNotEnabled)
	}
	negatable, ok := g.original.(fd.Negatable)
	if !ok {
		return fmt.Errorf("constraint model: negate %d: %s has no negation", id, g.original.Type())
	}
	m.fd.Unpost(g.current)
	g.current = negatable.Negate()
	m.fd.Post(g.current)
	m.negated = g
	return nil
}

// ResetNegationOfConstraint restores the original rule of the negated group,
// in whichever registry the group currently is. It is a no-op if no
// negation is active.
func (m *ConstraintModel) ResetNegationOfConstraint() {
	g := m.negated
	if g == nil {
		return
	}
	if m.enabled[g.id] {
		m.fd.Unpost(g.current)
		m.fd.Post(g.original)
	}
	g.current = g.original
	m.negated = nil
}

// EnableConstraint posts a disabled group.
func (m *ConstraintModel) EnableConstraint(id InternalID) error {
	if !m.disabled[id] {
		if m.enabled[id] {
			return fmt.Errorf("constraint model: enable %d: %w", id, ErrConstraintNotDisabled)
		}
		return fmt.Errorf("constraint model: enable %d: %w", id, ErrUnknownConstraint)
	}
	g := m.groups[id]
	delete(m.disabled, id)
	m.enabled[id] = true
	m.fd.Post(g.current)
	return nil
}

// EnableConstraints enables each id in order, stopping at the first error.
func (m *ConstraintModel) EnableConstraints(ids ...InternalID) error {
	for _, id := range ids {
		if err := m.EnableConstraint(id); err != nil {
			return err
		}
	}
	return nil
}

// EnableAllConstraints enables every disabled group.
func (m *ConstraintModel) EnableAllConstraints() {
	for _, id := range m.DisabledConstraintIDs() {
		_ = m.EnableConstraint(id)
	}
}

// DisableConstraint unposts an enabled group.
func (m *ConstraintModel) DisableConstraint(id InternalID) error {
	if !m.enabled[id] {
		if m.disabled[id] {
			return fmt.Errorf("constraint model: disable %d: %w", id, ErrConstraintNotEnabled)
		}
		return fmt.Errorf("constraint model: disable %d: %w", id, ErrUnknownConstraint)
	}
	g := m.groups[id]
	delete(m.enabled, id)
	m.disabled[id] = true
	m.fd.Unpost(g.current)
	return nil
}

// DisableConstraints disables each id in order, stopping at the first error.
func (m *ConstraintModel) DisableConstraints(ids ...InternalID) error {
	for _, id := range ids {
		if err := m.DisableConstraint(id); err != nil {
			return err
		}
	}
	return nil
}

// DisableAllConstraints disables every enabled group.
func (m *ConstraintModel) DisableAllConstraints() {
	for _, id := range m.EnabledConstraintIDs() {
		_ = m.DisableConstraint(id)
	}
}

// EnabledConstraintIDs returns the enabled ids in ascending order.
func (m *ConstraintModel) EnabledConstraintIDs() []InternalID {
	return registryIDs(m.enabled)
}

// DisabledConstraintIDs returns the disabled ids in ascending order.
func (m *ConstraintModel) DisabledConstraintIDs() []InternalID {
	return registryIDs(m.disabled)
}

// Stats returns the statistics of the attached solver monitor, if any.
func (m *ConstraintModel) Stats() (fd.SolverStats, bool) {
	if m.monitor == nil {
		return fd.SolverStats{}, false
	}
	return m.monitor.GetStats(), true
}

func registryIDs(registry map[InternalID]bool) []InternalID {
	ids := make([]InternalID, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// consistent reports whether exactly the given groups are satisfiable
// together. It leaves only those groups enabled.
func (m *ConstraintModel) consistent(ctx context.Context, ids []InternalID) (bool, error) {
	m.DisableAllConstraints()
	if err := m.EnableConstraints(uniqueIDs(ids)...); err != nil {
		return false, err
	}
	return m.IsSatisfiable(ctx)
}

// preserveRegistries records the enabled set and returns a function that
// restores it.
func (m *ConstraintModel) preserveRegistries() func() error {
	before := m.EnabledConstraintIDs()
	return func() error {
		m.DisableAllConstraints()
		return m.EnableConstraints(before...)
	}
}
