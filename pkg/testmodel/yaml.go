package testmodel

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the YAML representation of a TestModel.
//
//	strength: 2
//	parameters: [3, 3, 3]
//	exclusions:
//	  - id: 4
//	    parameters: [2]
//	    tuples: [[2]]
//	    correct: true
//	errors:
//	  - id: 1
//	    parameters: [0, 1]
//	    tuples: [[1, 0], [2, 0]]
type Document struct {
	Strength   int         `yaml:"strength"`
	Parameters []int       `yaml:"parameters"`
	Exclusions []TupleList `yaml:"exclusions"`
	Errors     []TupleList `yaml:"errors"`
}

// Decode reads one YAML document and validates it into a TestModel.
func Decode(r io.Reader) (*TestModel, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode test model: %w", err)
	}
	return NewTestModel(doc.Strength, doc.Parameters, doc.Exclusions, doc.Errors)
}

// LoadFile reads a TestModel from a YAML file.
func LoadFile(path string) (*TestModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes m as a YAML document.
func Encode(w io.Writer, m *TestModel) error {
	doc := Document{
		Strength:   m.strength,
		Parameters: m.ParameterSizes(),
		Exclusions: m.ExclusionTupleLists(),
		Errors:     m.ErrorTupleLists(),
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode test model: %w", err)
	}
	return enc.Close()
}
