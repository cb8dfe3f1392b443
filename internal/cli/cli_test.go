package cli_test

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-imgnorm/internal/cli"
	"github.com/askiada/go-imgnorm/internal/registry"
)

const registryTemplate = `
defaults:
  zfill: 3
  extractors:
    image_id: {kind: basename}
    study_id: {kind: constant, value: scans}
datasets:
  - name: Tiny Scans
    paths:
      source_path: SOURCE
      target_path: TARGET
    steps: [get_file_paths, create_file_tree, add_new_ids, copy_images, write_metadata, validate_data]
  - name: later
    paths:
      source_path: ""
    steps: [get_file_paths]
`

func setup(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	source := filepath.Join(dir, "source")
	target := filepath.Join(dir, "target")
	require.NoError(t, os.MkdirAll(source, 0o755))
	for _, name := range []string{"b.png", "a.png"} {
		file, err := os.Create(filepath.Join(source, name))
		require.NoError(t, err)
		require.NoError(t, png.Encode(file, image.NewGray(image.Rect(0, 0, 4, 4))))
		require.NoError(t, file.Close())
	}

	content := strings.NewReplacer("SOURCE", source, "TARGET", target).Replace(registryTemplate)
	config := filepath.Join(dir, "datasets.yaml")
	require.NoError(t, os.WriteFile(config, []byte(content), 0o600))

	return config, target
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, logs bytes.Buffer
	cmd := cli.RootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), err
}

func TestList(t *testing.T) {
	t.Parallel()

	config, _ := setup(t)
	out, err := execute(t, "--config", config, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Tiny Scans\t"))
	assert.Contains(t, lines[0], "6 steps")
	assert.Equal(t, "later\t(no source path)", lines[1])
}

func TestRun(t *testing.T) {
	t.Parallel()

	config, target := setup(t)
	graphs := filepath.Join(t.TempDir(), "graphs")
	out, err := execute(t, "--config", config, "--log-level", "debug", "run", "--measure", "--draw", graphs, "--workers", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Tiny Scans")
	assert.Contains(t, out, "copy_images")

	for _, path := range []string{
		filepath.Join(target, "tiny-scans", "tiny-scans.jsonl"),
		filepath.Join(target, "tiny-scans", "Images", "001_001.png"),
		filepath.Join(target, "tiny-scans", "Images", "001_002.png"),
	} {
		assert.FileExists(t, path)
	}

	graph, err := os.ReadFile(filepath.Join(graphs, "tiny-scans.dot"))
	require.NoError(t, err)
	assert.Contains(t, string(graph), "validate_data")
}

func TestRunUnknownDataset(t *testing.T) {
	t.Parallel()

	config, _ := setup(t)
	_, err := execute(t, "--config", config, "run", "missing")
	assert.ErrorIs(t, err, registry.ErrUnknownDataset)

	_, err = execute(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "run")
	assert.Error(t, err)
}

func TestGraph(t *testing.T) {
	t.Parallel()

	config, target := setup(t)
	path := filepath.Join(t.TempDir(), "tiny.dot")
	_, err := execute(t, "--config", config, "graph", "Tiny Scans", path)
	require.NoError(t, err)

	graph, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, step := range []string{"start", "get_file_paths", "write_metadata", "end"} {
		assert.Contains(t, string(graph), step)
	}
	assert.Contains(t, string(graph), `label="Tiny Scans";`)
	assert.NoDirExists(t, target, "graph does not run the steps")

	_, err = execute(t, "--config", config, "graph", "Tiny Scans")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, cli.Version+"\n", out)
}
