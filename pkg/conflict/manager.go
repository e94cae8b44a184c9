package conflict

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gitrdm/gokanconflict/pkg/testmodel"
)

// Manager runs conflict detection over one test model.
//
// NewManager expands the model, splits its constraints into those marked as
// correct (always part of the background) and the relaxable rest, and builds
// one ConstraintModel that is reused by every probe.
type Manager struct {
	cfg      Configuration
	original *testmodel.TestModel
	expander *Expander
	expanded *testmodel.TestModel

	correct   []InternalID
	relaxable []InternalID

	model         *ConstraintModel
	explainer     ConflictExplainer
	diagnostician ConflictDiagnostician
	converter     *ResultConverter

	opts   []Option
	logger *zap.Logger
}

// NewManager validates cfg and prepares detection for model.
func NewManager(cfg Configuration, model *testmodel.TestModel, opts ...Option) (*Manager, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)

	expander := NewExpander(model)
	expanded, err := expander.CreateExpandedTestModel()
	if err != nil {
		return nil, fmt.Errorf("expand test model: %w", err)
	}

	m := &Manager{
		cfg:           cfg,
		original:      model,
		expander:      expander,
		expanded:      expanded,
		explainer:     cfg.explainer(),
		diagnostician: cfg.diagnostician(),
		converter:     NewResultConverter(expander, expanded),
		opts:          opts,
		logger:        o.logger,
	}
	for _, lists := range [][]testmodel.TupleList{expanded.ExclusionTupleLists(), expanded.ErrorTupleLists()} {
		for _, l := range lists {
			if l.MarkedAsCorrect {
				m.correct = append(m.correct, InternalID(l.ID))
			} else {
				m.relaxable = append(m.relaxable, InternalID(l.ID))
			}
		}
	}

	if m.model, err = m.newConstraintModel(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) newConstraintModel() (*ConstraintModel, error) {
	return NewConstraintModel(
		m.expanded.ParameterSizes(),
		m.expanded.ExclusionTupleLists(),
		m.expanded.ErrorTupleLists(),
		m.opts...,
	)
}

// Configuration returns the configuration the manager was built with.
func (m *Manager) Configuration() Configuration {
	return m.cfg
}

// Expander returns the id expander of the model.
func (m *Manager) Expander() *Expander {
	return m.expander
}

// DetectMissingInvalidTuples probes every tuple of every error constraint
// and returns the tuples the rest of the model already excludes. With
// detection disabled the result is always empty.
func (m *Manager) DetectMissingInvalidTuples(ctx context.Context) ([]MissingInvalidTuple, error) {
	if !m.cfg.DetectionEnabled {
		return []MissingInvalidTuple{}, nil
	}
	findings, err := m.detect(ctx, m.model, m.expanded.ErrorTupleLists())
	if err != nil {
		return nil, err
	}
	return m.finish(findings)
}

func (m *Manager) finish(findings []internalMissingInvalidTuple) ([]MissingInvalidTuple, error) {
	result, err := m.converter.Convert(findings)
	if err != nil {
		return nil, err
	}
	fields := []zap.Field{zap.Int("findings", len(result))}
	if stats, ok := m.model.Stats(); ok {
		fields = append(fields,
			zap.Int("solves", stats.Solves),
			zap.Int("nodes", stats.NodesExplored),
			zap.Int("backtracks", stats.Backtracks),
			zap.Duration("search_time", stats.SearchTime))
	}
	m.logger.Info("conflict detection finished", fields...)
	return result, nil
}

// detect probes the given expanded error lists on model.
func (m *Manager) detect(ctx context.Context, model *ConstraintModel, errorLists []testmodel.TupleList) ([]internalMissingInvalidTuple, error) {
	var findings []internalMissingInvalidTuple
	for _, l := range errorLists {
		found, err := m.probeErrorConstraint(ctx, model, l)
		if err != nil {
			return nil, err
		}
		m.logger.Debug("error constraint probed",
			zap.Int("constraint", l.ID),
			zap.Int("tuples", len(l.Tuples)),
			zap.Int("findings", len(found)))
		findings = append(findings, found...)
	}
	return findings, nil
}

// probeErrorConstraint negates l and checks each of its tuples.
func (m *Manager) probeErrorConstraint(ctx context.Context, model *ConstraintModel, l testmodel.TupleList) ([]internalMissingInvalidTuple, error) {
	id := InternalID(l.ID)
	if err := model.SetNegationOfConstraint(id); err != nil {
		return nil, err
	}
	defer model.ResetNegationOfConstraint()

	var findings []internalMissingInvalidTuple
	for _, tuple := range l.Tuples {
		explanation, err := m.probeTuple(ctx, model, id, l.Parameters, tuple)
		if err != nil {
			return nil, fmt.Errorf("probe %s%v=%v: %w", m.expander.ComputeOriginalID(id), l.Parameters, tuple, err)
		}
		if explanation != nil {
			findings = append(findings, internalMissingInvalidTuple{
				negatedErrorConstraintID: id,
				parameters:               l.Parameters,
				missingValues:            tuple,
				explanation:              explanation,
			})
		}
	}
	return findings, nil
}

// probeTuple pins the negated constraint's parameters to tuple and explains
// the result. It returns nil if the tuple is reachable.
func (m *Manager) probeTuple(ctx context.Context, model *ConstraintModel, negated InternalID, parameters, tuple []int) (InternalExplanation, error) {
	assignmentID, err := model.SetAssignmentConstraint(parameters, tuple)
	if err != nil {
		return nil, err
	}
	defer model.ClearAssignmentConstraint()

	if !m.cfg.ExplanationEnabled {
		ok, err := model.IsSatisfiable(ctx)
		if err != nil || ok {
			return nil, err
		}
		return InternalUnknownExplanation{}, nil
	}

	background := uniqueIDs([]InternalID{negated}, m.correct, []InternalID{assignmentID})
	relaxable := withoutIDs(m.relaxable, negated)

	explanation, err := m.explainer.MinimalConflict(ctx, model, background, relaxable)
	if err != nil || explanation == nil {
		return nil, err
	}

	switch e := explanation.(type) {
	case InternalConflictSet:
		if m.cfg.DiagnosisEnabled {
			diagnoses, err := m.diagnostician.MinimalDiagnoses(ctx, model, e)
			if err != nil {
				return nil, err
			}
			return InternalDiagnosisSets{Root: e, Diagnoses: diagnoses}, nil
		}
	case InternalInconsistentBackground:
		e.Background = withoutIDs(e.Background, assignmentID)
		return e, nil
	}
	return explanation, nil
}
