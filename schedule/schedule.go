// Package schedule generates pairwise registration schedules.
//
// A full unordered pairwise registration across n groups requires n(n-1)/2
// comparisons. The cascade encodes a canonical direction (the lower position
// registers onto the higher one) so no pair is scheduled twice and no group
// registers onto itself.
package schedule

import (
	"errors"

	"github.com/hupe1980/cloudalign/model"
)

// ErrTooFewGroups is returned when a schedule cannot yield a single
// realizable pair.
var ErrTooFewGroups = errors.New("schedule: need at least two groups")

// MultiTargetIndex is an intermediate scheduling artifact: one source
// position plus the ordered candidate target positions, all strictly greater
// than the source.
type MultiTargetIndex struct {
	Source  int
	Targets []int
}

// Cascade returns the triangular cascade schedule for count items.
//
// For count >= 0 it returns exactly count entries; entry s carries targets
// [s+1, count) in ascending order, so the flattened pair set is exactly
// {(i,j) : 0 <= i < j < count}. For count of 0 or 1 the schedule holds zero
// realizable pairs. Negative counts return nil.
func Cascade(count int) []MultiTargetIndex {
	if count <= 0 {
		return nil
	}
	out := make([]MultiTargetIndex, count)
	for s := 0; s < count; s++ {
		var targets []int
		for t := s + 1; t < count; t++ {
			targets = append(targets, t)
		}
		out[s] = MultiTargetIndex{Source: s, Targets: targets}
	}
	return out
}

// NumPairs returns the number of realizable pairs in a cascade over count
// items: count*(count-1)/2.
func NumPairs(count int) int {
	if count < 2 {
		return 0
	}
	return count * (count - 1) / 2
}

// Expand maps the cascade over the given groups to concrete registration
// indices, in schedule order. Positions are taken from the slice order, so
// groups[i] plays position i.
//
// It returns ErrTooFewGroups when fewer than two groups are supplied.
func Expand(groups []model.GroupID) ([]model.Index, error) {
	if len(groups) < 2 {
		return nil, ErrTooFewGroups
	}
	indices := make([]model.Index, 0, NumPairs(len(groups)))
	for _, mti := range Cascade(len(groups)) {
		for _, t := range mti.Targets {
			indices = append(indices, model.Index{
				Source: groups[mti.Source],
				Target: groups[t],
			})
		}
	}
	return indices, nil
}

// Onto schedules every group directly onto the anchor, skipping the anchor
// itself. Use this when the final result must cover all groups: the result
// referencer only keeps pairs registered directly onto the anchor.
func Onto(anchor model.GroupID, groups []model.GroupID) ([]model.Index, error) {
	if len(groups) < 2 {
		return nil, ErrTooFewGroups
	}
	indices := make([]model.Index, 0, len(groups)-1)
	for _, g := range groups {
		if g.Equal(anchor) {
			continue
		}
		indices = append(indices, model.Index{Source: g, Target: anchor})
	}
	if len(indices) == 0 {
		return nil, ErrTooFewGroups
	}
	return indices, nil
}
