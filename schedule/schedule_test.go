package schedule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cloudalign/model"
)

func TestCascade_PairSet(t *testing.T) {
	for count := 0; count <= 12; count++ {
		t.Run(fmt.Sprintf("count=%d", count), func(t *testing.T) {
			mtis := Cascade(count)
			if count == 0 {
				require.Empty(t, mtis)
				return
			}
			require.Len(t, mtis, count)

			seen := make(map[[2]int]bool)
			for _, mti := range mtis {
				prev := mti.Source
				for _, target := range mti.Targets {
					require.Greater(t, target, mti.Source, "targets must be strictly greater than source")
					require.Greater(t, target, prev-1, "targets must ascend")
					prev = target

					pair := [2]int{mti.Source, target}
					require.False(t, seen[pair], "pair %v scheduled twice", pair)
					seen[pair] = true
				}
			}

			require.Len(t, seen, NumPairs(count))
			for i := 0; i < count; i++ {
				for j := i + 1; j < count; j++ {
					require.True(t, seen[[2]int{i, j}], "missing pair (%d,%d)", i, j)
				}
			}
		})
	}
}

func TestCascade_ZeroAndOne(t *testing.T) {
	require.Empty(t, Cascade(0))

	one := Cascade(1)
	require.Len(t, one, 1)
	require.Empty(t, one[0].Targets, "single group yields zero realizable pairs")
}

func TestCascade_Negative(t *testing.T) {
	require.Nil(t, Cascade(-3))
}

func TestNumPairs(t *testing.T) {
	assert.Equal(t, 0, NumPairs(0))
	assert.Equal(t, 0, NumPairs(1))
	assert.Equal(t, 1, NumPairs(2))
	assert.Equal(t, 6, NumPairs(4))
	assert.Equal(t, 45, NumPairs(10))
}

func groups(n int) []model.GroupID {
	gs := make([]model.GroupID, n)
	for i := range gs {
		gs[i] = model.GroupID{Key: model.GroupKey(i), Label: fmt.Sprintf("dive-%d", i)}
	}
	return gs
}

func TestExpand_FourGroups(t *testing.T) {
	indices, err := Expand(groups(4))
	require.NoError(t, err)

	want := [][2]model.GroupKey{
		{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
	}
	require.Len(t, indices, len(want))
	for i, idx := range indices {
		assert.Equal(t, want[i][0], idx.Source.Key)
		assert.Equal(t, want[i][1], idx.Target.Key)
	}
}

func TestExpand_TooFewGroups(t *testing.T) {
	_, err := Expand(nil)
	require.ErrorIs(t, err, ErrTooFewGroups)

	_, err = Expand(groups(1))
	require.ErrorIs(t, err, ErrTooFewGroups)
}

func TestOnto(t *testing.T) {
	gs := groups(4)
	anchor := gs[2]

	indices, err := Onto(anchor, gs)
	require.NoError(t, err)
	require.Len(t, indices, 3)
	for _, idx := range indices {
		assert.True(t, idx.Target.Equal(anchor))
		assert.False(t, idx.Source.Equal(anchor))
	}
}

func TestOnto_OnlyAnchor(t *testing.T) {
	gs := groups(1)
	_, err := Onto(gs[0], gs)
	require.ErrorIs(t, err, ErrTooFewGroups)
}
