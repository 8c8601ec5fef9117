package model

// Tree is one trained decision tree, owned by the training collaborator and
// read-only here. The only thing the pipeline needs from a tree is its
// per-split importance mapping.
type Tree interface {
	// ImportanceDict returns the tree's per-split importance mapping.
	ImportanceDict() ImportanceMapping
}

// DumpTree is a Tree backed by an importance mapping loaded from a trained
// model dump.
type DumpTree struct {
	// Name identifies the tree within its ensemble, e.g. the dump file name.
	Name string

	// Importance is the loaded mapping.
	Importance ImportanceMapping
}

// ImportanceDict implements Tree.
func (t DumpTree) ImportanceDict() ImportanceMapping {
	return t.Importance
}
