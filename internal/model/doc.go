// Package model holds the tree-side data of the pipeline: per-split
// importance mappings, the merge fold that combines them across an
// ensemble, and the Tree contract of the training collaborator.
//
// Merging is an explicit fold over immutable values: Merge never mutates
// its inputs and there is no shared accumulator state. The combination
// rule for colliding (feature, split) pairs is a declared MergePolicy, not
// an implicit side effect of map union.
package model
