package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/yunseong/proptune/internal/model"
)

// Trainer is the training collaborator's contract: given a loaded dataset,
// produce the ensemble of trained trees keyed by identifier. Training
// itself happens elsewhere; this pipeline only consumes the result.
type Trainer interface {
	Train(d *Dataset) (map[string]model.Tree, error)
}

// DumpTrainer satisfies Trainer by loading pre-trained per-tree importance
// dumps from a directory instead of fitting a model.
type DumpTrainer struct {
	// Dir holds one *.json file per tree, each containing the tree's
	// importance mapping.
	Dir string
}

// Train implements Trainer.
func (t DumpTrainer) Train(*Dataset) (map[string]model.Tree, error) {
	return LoadTrees(t.Dir)
}

// LoadTrees reads every *.json file of a tree-dump directory. Keys are the
// file names without extension.
func LoadTrees(dir string) (map[string]model.Tree, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading tree dump directory: %w", err)
	}

	trees := make(map[string]model.Tree)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading tree dump: %w", err)
		}

		var imp model.ImportanceMapping
		if err := json.Unmarshal(data, &imp); err != nil {
			return nil, fmt.Errorf("parsing tree dump %s: %w", path, err)
		}

		name := e.Name()[:len(e.Name())-len(".json")]
		trees[name] = model.DumpTree{Name: name, Importance: imp}
	}

	if len(trees) == 0 {
		return nil, fmt.Errorf("no tree dumps in %s", dir)
	}
	return trees, nil
}

// SortTrees flattens a trained ensemble into the fixed fold order the merge
// step requires: tree identifiers ascending.
func SortTrees(trees map[string]model.Tree) []model.Tree {
	names := make([]string, 0, len(trees))
	for name := range trees {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]model.Tree, len(names))
	for i, name := range names {
		out[i] = trees[name]
	}
	return out
}
