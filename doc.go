// Package cloudalign orchestrates pairwise point-cloud registration batches
// for underwater survey reconstructions.
//
// A batch run has four parts:
//
//  1. Schedule: enumerate the (source, target) group pairs to register
//     (package schedule, triangular cascade or anchor-directed).
//  2. Execute: run a multi-stage registration pipeline for every pair,
//     isolating per-pair failure (Registrar.RegisterBatch).
//  3. Collect: gather per-pair results with provenance.
//  4. Reference: compose the pairwise results into a single mapping relative
//     to a chosen anchor group (Reference).
//
// # Quick Start
//
//	pipe, _ := pipeline.New(align.Centroid{}, align.ICP{MaxDistance: 0.5})
//	reg, _ := cloudalign.New(pipe,
//	    cloudalign.WithConcurrency(4),
//	    cloudalign.WithProgress(func(p cloudalign.Progress) {
//	        fmt.Printf("%s %.0f%%\n", p.Index, p.Fraction*100)
//	    }),
//	)
//
//	indices, _ := schedule.Expand(groups)
//	results, _ := reg.RegisterBatch(ctx, loaders, indices)
//	final := cloudalign.Reference(anchor, results)
//
// # Failure Isolation
//
// One pair's failure (missing group, load error, stage error) never aborts
// the batch: the pair is reported through the progress sink and excluded from
// the returned results. Only whole-batch preconditions (an empty schedule,
// fewer than two distinct groups) fail the run before any job starts.
//
// # Referencing
//
// Reference keeps only pairs registered directly onto the anchor; it performs
// no transitive composition through intermediate groups. Schedule with
// schedule.Onto when every group must appear in the final result.
package cloudalign
