package cloudalign

import (
	"sort"

	"github.com/hupe1980/cloudalign/model"
)

// Result is the final referenced mapping of a batch run: for every group
// that was registered directly onto the anchor, the transform (and quality
// metrics) expressing it relative to the anchor's frame.
//
// A Result is built once and never mutated afterwards.
type Result struct {
	// Anchor is the group chosen as the fixed frame of reference.
	Anchor model.GroupID

	// Aligned maps each directly-linked group to its registration result
	// relative to the anchor.
	Aligned map[model.GroupKey]*model.RegistrationResult

	// Labels retains the GroupID of every aligned group for reporting.
	Labels map[model.GroupKey]model.GroupID
}

// Reference composes pairwise results into a Result relative to the anchor.
//
// Only pairs whose target IS the anchor contribute: no transitive composition
// through intermediate groups is performed, so a chain A->B, B->anchor does
// not yield an entry for A. Groups never directly paired with the anchor are
// silently absent; treat a Result with fewer groups than expected as a
// normal, inspectable outcome. Schedule with schedule.Onto when full
// coverage is required.
//
// Reference is pure: calling it twice on the same inputs yields equal
// results, and the input slice is not retained.
func Reference(anchor model.GroupID, pairwise []model.PairResult) *Result {
	res := &Result{
		Anchor:  anchor,
		Aligned: make(map[model.GroupKey]*model.RegistrationResult),
		Labels:  make(map[model.GroupKey]model.GroupID),
	}
	for _, pr := range pairwise {
		if !pr.Index.Target.Equal(anchor) {
			continue
		}
		res.Aligned[pr.Index.Source.Key] = pr.Result
		res.Labels[pr.Index.Source.Key] = pr.Index.Source
	}
	return res
}

// Groups returns the aligned group keys in ascending order.
func (r *Result) Groups() []model.GroupKey {
	keys := make([]model.GroupKey, 0, len(r.Aligned))
	for k := range r.Aligned {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Lookup returns the registration result for one group, or false when the
// group was never directly registered onto the anchor.
func (r *Result) Lookup(key model.GroupKey) (*model.RegistrationResult, bool) {
	res, ok := r.Aligned[key]
	return res, ok
}
