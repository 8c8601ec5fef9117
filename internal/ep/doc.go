// Package ep provides the execution-property types shared across proptune.
//
// This package contains type definitions and serialization only. All other
// internal packages import ep; ep imports nothing internal. This keeps the
// property model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Value is a sealed tagged variant: Integer, Boolean, or String only,
//     never floats - emitted values are concrete knob settings
//   - Recommendation JSON field names are the wire contract with the
//     consuming optimizer pass and must not change
//   - Canonical serialization (RFC 8785) is the only form used for
//     content-addressed run identity
package ep
