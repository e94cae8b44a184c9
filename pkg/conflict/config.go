package conflict

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ExplainerStrategy selects a ConflictExplainer.
type ExplainerStrategy int

const (
	ExplainerNone ExplainerStrategy = iota
	ExplainerQuickXplain
	ExplainerDeletionFilter
)

var explainerNames = map[ExplainerStrategy]string{
	ExplainerNone:           "none",
	ExplainerQuickXplain:    "quickxplain",
	ExplainerDeletionFilter: "deletion-filter",
}

func (s ExplainerStrategy) String() string {
	if name, ok := explainerNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ExplainerStrategy(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s ExplainerStrategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ExplainerStrategy) UnmarshalText(text []byte) error {
	for strategy, name := range explainerNames {
		if name == string(text) {
			*s = strategy
			return nil
		}
	}
	return fmt.Errorf("%w: unknown explainer %q", ErrInvalidConfiguration, text)
}

// DiagnosticianStrategy selects a ConflictDiagnostician.
type DiagnosticianStrategy int

const (
	DiagnosticianNone DiagnosticianStrategy = iota
	DiagnosticianHSTree
)

var diagnosticianNames = map[DiagnosticianStrategy]string{
	DiagnosticianNone:   "none",
	DiagnosticianHSTree: "hs-tree",
}

func (s DiagnosticianStrategy) String() string {
	if name, ok := diagnosticianNames[s]; ok {
		return name
	}
	return fmt.Sprintf("DiagnosticianStrategy(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s DiagnosticianStrategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *DiagnosticianStrategy) UnmarshalText(text []byte) error {
	for strategy, name := range diagnosticianNames {
		if name == string(text) {
			*s = strategy
			return nil
		}
	}
	return fmt.Errorf("%w: unknown diagnostician %q", ErrInvalidConfiguration, text)
}

// Configuration controls which stages of conflict detection run.
//
// Each stage needs the previous one: explanation needs detection and an
// explainer, diagnosis needs explanation and a diagnostician. ShouldAbort
// is not interpreted here; it tells the caller to stop when findings exist.
type Configuration struct {
	DetectionEnabled   bool                  `yaml:"detection"`
	ShouldAbort        bool                  `yaml:"abort"`
	ExplanationEnabled bool                  `yaml:"explanation"`
	Explainer          ExplainerStrategy     `yaml:"explainer"`
	DiagnosisEnabled   bool                  `yaml:"diagnosis"`
	Diagnostician      DiagnosticianStrategy `yaml:"diagnostician"`
}

// ConfigOption modifies a Configuration under construction.
type ConfigOption func(*Configuration)

// WithDetection enables detection.
func WithDetection() ConfigOption {
	return func(c *Configuration) { c.DetectionEnabled = true }
}

// WithAbort sets ShouldAbort.
func WithAbort() ConfigOption {
	return func(c *Configuration) { c.ShouldAbort = true }
}

// WithExplanation enables explanation with the given strategy.
func WithExplanation(strategy ExplainerStrategy) ConfigOption {
	return func(c *Configuration) {
		c.ExplanationEnabled = true
		c.Explainer = strategy
	}
}

// WithDiagnosis enables diagnosis with the given strategy.
func WithDiagnosis(strategy DiagnosticianStrategy) ConfigOption {
	return func(c *Configuration) {
		c.DiagnosisEnabled = true
		c.Diagnostician = strategy
	}
}

// NewConfiguration applies opts to a disabled configuration and validates the result.
func NewConfiguration(opts ...ConfigOption) (Configuration, error) {
	c := DisabledConfiguration()
	for _, opt := range opts {
		opt(&c)
	}
	if err := c.Validate(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

// DisabledConfiguration turns every stage off.
func DisabledConfiguration() Configuration {
	return Configuration{}
}

// DefaultConfiguration enables detection, QuickXplain explanation and
// HS-tree diagnosis.
func DefaultConfiguration() Configuration {
	return Configuration{
		DetectionEnabled:   true,
		ExplanationEnabled: true,
		Explainer:          ExplainerQuickXplain,
		DiagnosisEnabled:   true,
		Diagnostician:      DiagnosticianHSTree,
	}
}

// Validate checks the stage implications.
func (c Configuration) Validate() error {
	if _, ok := explainerNames[c.Explainer]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidConfiguration, c.Explainer)
	}
	if _, ok := diagnosticianNames[c.Diagnostician]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidConfiguration, c.Diagnostician)
	}
	switch {
	case c.ExplanationEnabled && !c.DetectionEnabled:
		return fmt.Errorf("%w: explanation requires detection", ErrInvalidConfiguration)
	case c.ExplanationEnabled && c.Explainer == ExplainerNone:
		return fmt.Errorf("%w: explanation requires an explainer", ErrInvalidConfiguration)
	case c.DiagnosisEnabled && !c.ExplanationEnabled:
		return fmt.Errorf("%w: diagnosis requires explanation", ErrInvalidConfiguration)
	case c.DiagnosisEnabled && c.Diagnostician == DiagnosticianNone:
		return fmt.Errorf("%w: diagnosis requires a diagnostician", ErrInvalidConfiguration)
	}
	return nil
}

// LoadConfiguration decodes a YAML configuration and validates it.
// Missing keys are false / none.
//
//	detection: true
//	explanation: true
//	explainer: quickxplain
//	diagnosis: true
//	diagnostician: hs-tree
func LoadConfiguration(r io.Reader) (Configuration, error) {
	var c Configuration
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Configuration{}, fmt.Errorf("decode configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

// explainer resolves the configured strategy. Disabled explanation yields a no-op.
func (c Configuration) explainer() ConflictExplainer {
	if !c.ExplanationEnabled {
		return noExplainer{}
	}
	switch c.Explainer {
	case ExplainerDeletionFilter:
		return DeletionFilter{}
	default:
		return QuickXplain{}
	}
}

// diagnostician resolves the configured strategy, using the configured
// explainer for node labels. Disabled diagnosis yields a no-op.
func (c Configuration) diagnostician() ConflictDiagnostician {
	if !c.DiagnosisEnabled {
		return noDiagnostician{}
	}
	return HSTree{Explainer: c.explainer()}
}
