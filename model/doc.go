// Package model defines the core value types shared across cloudalign:
// group identities, registration indices, per-pair results and point
// correspondences.
//
// All types in this package are plain values. Once a RegistrationResult or
// PairResult has been produced it is never mutated; components pass ownership
// of their outputs forward.
package model
