package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunseong/proptune/internal/model"
)

func TestLoadTrees(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tree_0.json", `{"f5": {"1.5": 0.3}}`)
	writeFile(t, dir, "tree_1.json", `{"f5": {"1.5": -0.1}, "f7": {"2.5": 2.0}}`)

	trees, err := LoadTrees(dir)
	require.NoError(t, err)
	require.Len(t, trees, 2)

	imp := trees["tree_0"].ImportanceDict()
	assert.Equal(t, 0.3, imp["f5"]["1.5"])

	imp = trees["tree_1"].ImportanceDict()
	assert.Equal(t, 2.0, imp["f7"]["2.5"])
}

func TestLoadTreesMalformedFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tree_0.json", `{"f5": "not a mapping"}`)

	_, err := LoadTrees(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tree_0.json")
}

func TestLoadTreesEmptyDirFatal(t *testing.T) {
	_, err := LoadTrees(t.TempDir())
	require.Error(t, err)
}

func TestLoadTreesMissingDirFatal(t *testing.T) {
	_, err := LoadTrees(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestSortTreesFixedOrder(t *testing.T) {
	trees := map[string]model.Tree{
		"tree_2": model.DumpTree{Name: "tree_2"},
		"tree_0": model.DumpTree{Name: "tree_0"},
		"tree_1": model.DumpTree{Name: "tree_1"},
	}

	sorted := SortTrees(trees)

	require.Len(t, sorted, 3)
	assert.Equal(t, "tree_0", sorted[0].(model.DumpTree).Name)
	assert.Equal(t, "tree_1", sorted[1].(model.DumpTree).Name)
	assert.Equal(t, "tree_2", sorted[2].(model.DumpTree).Name)
}

func TestDumpTrainerImplementsTrainer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tree_0.json", `{"f0": {"0.5": 1.0}}`)

	var trainer Trainer = DumpTrainer{Dir: dir}
	trees, err := trainer.Train(nil)
	require.NoError(t, err)
	assert.Len(t, trees, 1)
}
