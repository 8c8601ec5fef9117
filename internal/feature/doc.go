// Package feature maps between opaque integer feature identifiers and the
// execution-property key pairs they encode.
//
// The Registry owns the assignment: ids are dense, assigned in registration
// order, and decoding is the exact inverse of assignment. Value derivation
// is a closed dispatch table over recognized value classes with an explicit
// absent outcome - never ad hoc string inspection.
package feature
