package conflict

import "errors"

// Errors returned for caller bugs. They are always wrapped with context,
// so compare with errors.Is.
var (
	ErrDuplicateConstraintID        = errors.New("duplicate constraint id")
	ErrUnknownConstraint            = errors.New("unknown constraint id")
	ErrConstraintNotEnabled         = errors.New("constraint not enabled")
	ErrConstraintNotDisabled        = errors.New("constraint not disabled")
	ErrLengthMismatch               = errors.New("parameters and values differ in length")
	ErrUnknownParameter             = errors.New("unknown parameter")
	ErrInvalidConfiguration         = errors.New("invalid conflict detection configuration")
	ErrDiagnosisRequiresExplanation = errors.New("diagnosis requires a conflict explanation")
	ErrNilModel                     = errors.New("nil test model")
)
