package cloudalign

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cloudalign/model"
	"github.com/hupe1980/cloudalign/transform"
)

func TestReference(t *testing.T) {
	anchorT := model.GroupID{Key: 0, Label: "T"}
	groupA := model.GroupID{Key: 1, Label: "A"}
	groupB := model.GroupID{Key: 2, Label: "B"}

	r1 := &model.RegistrationResult{Transform: transform.Translate(r3.Vector{X: 1}), Fitness: 0.9}
	r2 := &model.RegistrationResult{Transform: transform.Translate(r3.Vector{Y: 2}), Fitness: 0.8}
	r3ab := &model.RegistrationResult{Transform: transform.Translate(r3.Vector{Z: 3}), Fitness: 0.7}

	pairwise := []model.PairResult{
		{Index: model.Index{Source: groupA, Target: anchorT}, Result: r1},
		{Index: model.Index{Source: groupB, Target: anchorT}, Result: r2},
		{Index: model.Index{Source: groupA, Target: groupB}, Result: r3ab},
	}

	res := Reference(anchorT, pairwise)
	require.NotNil(t, res)
	assert.Equal(t, anchorT, res.Anchor)

	// Exactly the direct links contribute; A->B is not composed through.
	assert.Equal(t, []model.GroupKey{1, 2}, res.Groups())
	got, ok := res.Lookup(1)
	require.True(t, ok)
	assert.Same(t, r1, got)
	got, ok = res.Lookup(2)
	require.True(t, ok)
	assert.Same(t, r2, got)

	_, ok = res.Lookup(3)
	assert.False(t, ok)
}

func TestReference_Idempotent(t *testing.T) {
	anchor := model.GroupID{Key: 5, Label: "base"}
	other := model.GroupID{Key: 7, Label: "wing"}
	pairwise := []model.PairResult{
		{Index: model.Index{Source: other, Target: anchor},
			Result: &model.RegistrationResult{Transform: transform.Identity()}},
	}

	first := Reference(anchor, pairwise)
	second := Reference(anchor, pairwise)
	assert.Equal(t, first, second)
}

func TestReference_AnchorIdentityByKey(t *testing.T) {
	// Labels differ but the key matches: still the anchor.
	anchor := model.GroupID{Key: 0, Label: "transect-0"}
	relabeled := model.GroupID{Key: 0, Label: "t0"}
	other := model.GroupID{Key: 1, Label: "transect-1"}

	res := Reference(anchor, []model.PairResult{
		{Index: model.Index{Source: other, Target: relabeled},
			Result: &model.RegistrationResult{Transform: transform.Identity()}},
	})
	assert.Equal(t, []model.GroupKey{1}, res.Groups())
}

func TestReference_Empty(t *testing.T) {
	anchor := model.GroupID{Key: 0}

	res := Reference(anchor, nil)
	require.NotNil(t, res)
	assert.Empty(t, res.Groups())
	_, ok := res.Lookup(0)
	assert.False(t, ok)
}
