package conflict

import (
	"context"

	"go.uber.org/zap"

	"github.com/gitrdm/gokanconflict/internal/parallel"
)

// DetectMissingInvalidTuplesParallel is DetectMissingInvalidTuples with the
// error constraints split across workers. Constraint posting is stateful,
// so every worker builds its own ConstraintModel. Findings are merged in
// the sequential order and the result equals the sequential one.
//
// workers <= 0 uses one worker per CPU.
func (m *Manager) DetectMissingInvalidTuplesParallel(ctx context.Context, workers int) ([]MissingInvalidTuple, error) {
	if !m.cfg.DetectionEnabled {
		return []MissingInvalidTuple{}, nil
	}

	errorLists := m.expanded.ErrorTupleLists()
	ranges := parallel.Split(len(errorLists), workers)
	chunks := make([][]internalMissingInvalidTuple, len(ranges))

	err := parallel.ForEachRange(ctx, len(errorLists), workers, func(ctx context.Context, chunk int, r parallel.Range) error {
		model, err := m.newConstraintModel()
		if err != nil {
			return err
		}
		m.logger.Debug("detection worker started", zap.Int("worker", chunk), zap.Int("constraints", r.Len()))
		found, err := m.detect(ctx, model, errorLists[r.Lo:r.Hi])
		if err != nil {
			return err
		}
		chunks[chunk] = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	var findings []internalMissingInvalidTuple
	for _, found := range chunks {
		findings = append(findings, found...)
	}
	return m.finish(findings)
}
