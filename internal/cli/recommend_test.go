package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunseong/proptune/internal/store"
)

// executeCommand runs the CLI with args and captures combined output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// recommendFixture builds a property directory and a tree-dump directory
// whose pipeline output is fully predictable.
func recommendFixture(t *testing.T) (propDir, treesDir string) {
	t.Helper()
	propDir = t.TempDir()
	writeTestFile(t, propDir, "element1.json", `{
		"ID": 1,
		"type": "VERTEX",
		"properties": [
			{"key": "ParallelismProperty/Integer"},
			{"key": "ResourceSlotProperty/Boolean"}
		]
	}`)
	writeTestFile(t, propDir, "element2.json", `{
		"ID": 2,
		"type": "EDGE",
		"properties": [
			{"key": "DataStoreProperty/Value", "candidates": ["MemoryStore", "SerializedMemoryStore", "LocalFileStore"]}
		]
	}`)

	treesDir = t.TempDir()
	writeTestFile(t, treesDir, "tree_0.json", `{"f0": {"4.5": 0.8}, "f2": {"0.5": 1.2}}`)
	writeTestFile(t, treesDir, "tree_1.json", `{"f0": {"4.5": -0.2}, "f1": {"0.5": -1.0}}`)
	return propDir, treesDir
}

func TestRecommendEndToEnd(t *testing.T) {
	propDir, treesDir := recommendFixture(t)
	output := filepath.Join(t.TempDir(), "results.out")

	stdout, err := executeCommand(t,
		"recommend", "-d", propDir, "--trees", treesDir, "-o", output)
	require.NoError(t, err)

	// Explanations come before the JSON result
	assert.Contains(t, stdout, "ParallelismProperty/Integer should be -0.2 (smaller) than 4.5")
	assert.Contains(t, stdout, "ResourceSlotProperty/Boolean should be -1 (smaller) than 0.5")
	assert.Contains(t, stdout, "DataStoreProperty/Value should be 1.2 (greater) than 0.5")
	assert.Contains(t, stdout, "RESULT:")

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "recommend_records", data)
}

func TestRecommendOutputDeterministic(t *testing.T) {
	propDir, treesDir := recommendFixture(t)
	dir := t.TempDir()
	first := filepath.Join(dir, "first.out")
	second := filepath.Join(dir, "second.out")

	_, err := executeCommand(t, "recommend", "-d", propDir, "--trees", treesDir, "-o", first)
	require.NoError(t, err)
	_, err = executeCommand(t, "recommend", "-d", propDir, "--trees", treesDir, "-o", second)
	require.NoError(t, err)

	firstData, err := os.ReadFile(first)
	require.NoError(t, err)
	secondData, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, firstData, secondData)
}

func TestRecommendJSONFormat(t *testing.T) {
	propDir, treesDir := recommendFixture(t)
	output := filepath.Join(t.TempDir(), "results.out")

	stdout, err := executeCommand(t,
		"--format", "json", "recommend", "-d", propDir, "--trees", treesDir, "-o", output)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Data)
}

func TestRecommendVerboseDiagnostics(t *testing.T) {
	propDir, treesDir := recommendFixture(t)
	output := filepath.Join(t.TempDir(), "results.out")

	stdout, err := executeCommand(t,
		"--verbose", "recommend", "-d", propDir, "--trees", treesDir, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Registered 3 feature(s)")
	assert.Contains(t, stdout, "Merging 2 tree(s) with policy replace")
}

func TestRecommendSkipsOutOfRangeFeature(t *testing.T) {
	propDir, treesDir := recommendFixture(t)
	writeTestFile(t, treesDir, "tree_2.json", `{"f9999": {"sX": 1.0}}`)
	output := filepath.Join(t.TempDir(), "results.out")

	stdout, err := executeCommand(t,
		"recommend", "-d", propDir, "--trees", treesDir, "-o", output)
	require.NoError(t, err)

	// The bad feature is dropped; everything else is unaffected
	assert.NotContains(t, stdout, "f9999")
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	g := goldie.New(t)
	g.Assert(t, "recommend_records", data)
}

func TestRecommendMissingPropertyDirFails(t *testing.T) {
	_, err := executeCommand(t,
		"recommend", "-d", filepath.Join(t.TempDir(), "absent"), "--trees", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRecommendMissingTreesFails(t *testing.T) {
	propDir, _ := recommendFixture(t)

	_, err := executeCommand(t,
		"recommend", "-d", propDir, "--trees", filepath.Join(t.TempDir(), "absent"),
		"-o", filepath.Join(t.TempDir(), "results.out"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRecommendInvalidPolicyFails(t *testing.T) {
	propDir, treesDir := recommendFixture(t)

	_, err := executeCommand(t,
		"recommend", "-d", propDir, "--trees", treesDir, "--policy", "average")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRecommendRecordsHistory(t *testing.T) {
	propDir, treesDir := recommendFixture(t)
	dir := t.TempDir()
	output := filepath.Join(dir, "results.out")
	dbPath := filepath.Join(dir, "history.db")

	stdout, err := executeCommand(t,
		"recommend", "-d", propDir, "--trees", treesDir, "-o", output, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Recorded run")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "replace", runs[0].Policy)

	run, err := st.GetRun(context.Background(), runs[0].ID)
	require.NoError(t, err)
	assert.Len(t, run.Records, 3)
}

func TestRecommendConfigFile(t *testing.T) {
	propDir, treesDir := recommendFixture(t)
	dir := t.TempDir()
	output := filepath.Join(dir, "from-config.out")
	cfgPath := writeTestFile(t, dir, "proptune.yaml",
		"policy: sum\noutput: "+output+"\n")

	_, err := executeCommand(t,
		"recommend", "-d", propDir, "--trees", treesDir, "--config", cfgPath)
	require.NoError(t, err)

	// Config file chose the output path
	_, err = os.Stat(output)
	require.NoError(t, err)
}

func TestRecommendExplicitConfigMissingFails(t *testing.T) {
	propDir, treesDir := recommendFixture(t)

	_, err := executeCommand(t,
		"recommend", "-d", propDir, "--trees", treesDir,
		"--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
