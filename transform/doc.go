// Package transform provides 4x4 homogeneous rigid transforms and the
// least-squares estimation used by registration stages.
//
// A Rigid maps points from a source frame into a target frame. Transforms are
// immutable values: every operation returns a new Rigid and never mutates its
// receiver, so they are safe to share across concurrent registration jobs.
package transform
