package feature

import (
	"errors"
	"fmt"
)

// ResolutionError reports a feature identifier that cannot be decoded.
//
// Resolution errors are per-entry: one undecodable feature skips that entry
// only and must never abort the rest of a run.
type ResolutionError struct {
	// FeatureID is the identifier that failed to resolve.
	FeatureID int

	// Size is the number of features the registry knows about.
	Size int
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("feature id %d out of range [0, %d)", e.FeatureID, e.Size)
}

// IsResolutionError returns true if the error is a feature resolution error.
// Uses errors.As to handle wrapped errors.
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}
