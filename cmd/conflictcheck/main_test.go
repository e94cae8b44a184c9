package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const symmetricModelYAML = `strength: 2
parameters: [3, 3, 3]
errors:
  - id: 1
    parameters: [0, 1]
    tuples: [[1, 0], [2, 0], [0, 1], [0, 2]]
  - id: 2
    parameters: [0, 1]
    tuples: [[0, 1], [2, 1], [1, 0], [1, 2]]
  - id: 3
    parameters: [2]
    tuples: [[2]]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDetect_PrintsFindings(t *testing.T) {
	model := writeFile(t, "model.yaml", symmetricModelYAML)

	out, err := execute(t, "detect", "--model", model)
	require.NoError(t, err)
	assert.Contains(t, out, "4 missing invalid tuple(s):")
	assert.Contains(t, out, "  c1[0 1]=[1 0]: conflict{c2[0 1]=[1 0]} diagnoses[{c2[0 1]=[1 0]}]\n")
	assert.Contains(t, out, "  c2[0 1]=[1 0]: conflict{c1[0 1]=[1 0]} diagnoses[{c1[0 1]=[1 0]}]\n")
	assert.NotContains(t, out, "repair")
}

func TestDetect_HittingSetsInParallel(t *testing.T) {
	model := writeFile(t, "model.yaml", symmetricModelYAML)

	out, err := execute(t, "detect", "-m", model, "--hitting-sets", "--workers", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "4 minimal repair(s):")
	assert.Contains(t, out, "  {c1[0 1]=[0 1], c1[0 1]=[1 0]}\n")
}

func TestDetect_DetectionOnlyConfig(t *testing.T) {
	model := writeFile(t, "model.yaml", symmetricModelYAML)
	config := writeFile(t, "config.yaml", "detection: true\n")

	out, err := execute(t, "detect", "-m", model, "-c", config)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(out, ": unknown\n"))
}

func TestDetect_AbortOnFindings(t *testing.T) {
	model := writeFile(t, "model.yaml", symmetricModelYAML)
	config := writeFile(t, "config.yaml", "detection: true\nabort: true\n")

	_, err := execute(t, "detect", "-m", model, "-c", config)
	assert.ErrorIs(t, err, errAbort)
}

func TestDetect_NoFindings(t *testing.T) {
	model := writeFile(t, "model.yaml", "strength: 1\nparameters: [2]\nerrors:\n  - id: 1\n    parameters: [0]\n    tuples: [[0]]\n")
	config := writeFile(t, "config.yaml", "detection: true\nabort: true\n")

	out, err := execute(t, "detect", "-m", model, "-c", config)
	require.NoError(t, err)
	assert.Equal(t, "no missing invalid tuples\n", out)
}

func TestDetect_Errors(t *testing.T) {
	model := writeFile(t, "model.yaml", symmetricModelYAML)

	_, err := execute(t, "detect")
	assert.Error(t, err, "model flag is required")

	_, err = execute(t, "detect", "-m", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "load model")

	bad := writeFile(t, "config.yaml", "diagnosis: true\ndiagnostician: hs-tree\n")
	_, err = execute(t, "detect", "-m", model, "-c", bad)
	assert.ErrorContains(t, err, "diagnosis requires explanation")

	detectOnly := writeFile(t, "config.yaml", "detection: true\n")
	_, err = execute(t, "detect", "-m", model, "-c", detectOnly, "--hitting-sets")
	assert.ErrorContains(t, err, "hitting sets")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "conflictcheck 0.3.0 ("), out)
}
