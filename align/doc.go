// Package align provides concrete registration stages for the pipeline:
// a cheap centroid-based initializer and an iterative-closest-point refiner.
//
// Stages hold configuration only; all per-pair state lives on the stack, so
// one stage value can serve many concurrent registration jobs.
package align
