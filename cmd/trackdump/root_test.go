package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDumpDefaultLoop(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	out, err := execute(t, "--curve", "linear", "--track", "simple", "--divisions", "20", "--samples", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "track   linear, simple rails")
	assert.Contains(t, out, "rails   80\n")
	assert.Contains(t, out, "samples 81\n")
	assert.Contains(t, out, "0.7500")
	assert.NotContains(t, out, "scenery")
}

func TestDumpScene(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	scene := `
curve: linear
track: parallel
divisions: 10
cars: 2
car_spacing: 5
points:
  - pos: [0, 0, 0]
  - pos: [40, 0, 0]
  - pos: [40, 0, 40]
  - pos: [0, 0, 40]
scenery:
  - name: tree
    min: [18, -1]
    max: [22, 1]
  - name: ferris wheel
    min: [10, 10]
    max: [30, 30]
`
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scene), 0o644))
	out, err := execute(t, "--config", path, "--samples", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "length  160.000")
	assert.Contains(t, out, "rails   80\n")
	assert.Contains(t, out, "scenery in the way: tree (8.00)")
	assert.NotContains(t, out, "ferris wheel")
	// header plus two cars at two times
	table := out[strings.Index(out, "time"):]
	assert.Equal(t, 5, strings.Count(table, "\n"))
}

func TestDumpBadFlags(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := execute(t, "--curve", "bezier")
	assert.Error(t, err)
	_, err = execute(t, "--config", filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
	_, err = execute(t, "extra")
	assert.Error(t, err)
}
