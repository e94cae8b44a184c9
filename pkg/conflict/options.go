package conflict

import (
	"go.uber.org/zap"

	"github.com/gitrdm/gokanconflict/pkg/fd"
)

// Option configures a Manager, ConstraintModel or HittingSetBuilder.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	monitor *fd.SolverMonitor
}

func defaultOptions() options {
	return options{logger: zap.NewNop()}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSolverMonitor collects solver statistics into monitor.
func WithSolverMonitor(monitor *fd.SolverMonitor) Option {
	return func(o *options) {
		o.monitor = monitor
	}
}
