package cloudalign_test

import (
	"context"
	"fmt"
	"log"

	"github.com/golang/geo/r3"

	"github.com/hupe1980/cloudalign"
	"github.com/hupe1980/cloudalign/align"
	"github.com/hupe1980/cloudalign/cloud"
	"github.com/hupe1980/cloudalign/model"
	"github.com/hupe1980/cloudalign/pipeline"
	"github.com/hupe1980/cloudalign/schedule"
)

// Example_registerBatch registers three survey transects pairwise and
// references everything onto the first one.
func Example_registerBatch() {
	groups := []model.GroupID{
		{Key: 0, Label: "transect-0"},
		{Key: 1, Label: "transect-1"},
		{Key: 2, Label: "transect-2"},
	}

	// In a real survey the loaders come from a manifest backed by a
	// blobstore; here every transect shares one synthetic patch.
	patch := cloud.New([]r3.Vector{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 1, Y: 1, Z: 0}, {X: 0.5, Y: 0.5, Z: 0.2},
	})
	loaders := map[model.GroupKey]cloud.Loader{
		0: cloud.Static(patch),
		1: cloud.Static(patch),
		2: cloud.Static(patch),
	}

	// Coarse centroid alignment followed by ICP refinement.
	pipe, err := pipeline.New(
		&align.Centroid{MaxDistance: 2},
		&align.ICP{MaxDistance: 0.5, MaxIterations: 30},
	)
	if err != nil {
		log.Fatal(err)
	}

	reg, err := cloudalign.New(pipe, cloudalign.WithConcurrency(2))
	if err != nil {
		log.Fatal(err)
	}

	indices, err := schedule.Expand(groups)
	if err != nil {
		log.Fatal(err)
	}

	results, err := reg.RegisterBatch(context.Background(), loaders, indices)
	if err != nil {
		log.Fatal(err)
	}

	// The cascade directs every pair onto the higher position, so the last
	// group is the natural anchor for referencing.
	referenced := cloudalign.Reference(groups[2], results)
	fmt.Printf("pairs registered: %d\n", len(results))
	fmt.Printf("groups aligned onto %s: %d\n", referenced.Anchor.Label, len(referenced.Aligned))
	// Output:
	// pairs registered: 3
	// groups aligned onto transect-2: 2
}

// Example_progress streams per-pair completion to a progress sink.
func Example_progress() {
	groups := []model.GroupID{
		{Key: 0, Label: "port"},
		{Key: 1, Label: "starboard"},
	}
	patch := cloud.New([]r3.Vector{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
	})
	loaders := map[model.GroupKey]cloud.Loader{
		0: cloud.Static(patch),
		1: cloud.Static(patch),
	}

	pipe, err := pipeline.New(&align.ICP{MaxDistance: 0.5})
	if err != nil {
		log.Fatal(err)
	}

	reg, err := cloudalign.New(pipe,
		cloudalign.WithProgress(func(p cloudalign.Progress) {
			fmt.Printf("%s done=%t %.0f%%\n", p.Index, p.Succeeded(), p.Fraction*100)
		}),
	)
	if err != nil {
		log.Fatal(err)
	}

	indices, err := schedule.Expand(groups)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := reg.RegisterBatch(context.Background(), loaders, indices); err != nil {
		log.Fatal(err)
	}
	// Output:
	// 0->1 done=true 100%
}
