package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cloudalign/cloud"
	"github.com/hupe1980/cloudalign/model"
	"github.com/hupe1980/cloudalign/transform"
)

func testClouds() (*cloud.PointCloud, *cloud.PointCloud) {
	pts := []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}
	return cloud.New(pts), cloud.New(pts)
}

// shiftStage returns a stage that composes a unit X translation onto the
// incoming estimate and records the estimates it saw.
func shiftStage(seen *[]transform.Rigid) Stage {
	return StageFunc(func(_ context.Context, _, _ *cloud.PointCloud, estimate transform.Rigid) (*model.RegistrationResult, error) {
		*seen = append(*seen, estimate)
		return &model.RegistrationResult{
			Transform: transform.Translate(r3.Vector{X: 1}).Compose(estimate),
			Fitness:   1,
		}, nil
	})
}

func TestNew_RequiresStages(t *testing.T) {
	_, err := New()
	require.ErrorIs(t, err, ErrNoStages)
}

func TestRun_ThreadsEstimateThroughStages(t *testing.T) {
	var seen []transform.Rigid
	p, err := New(shiftStage(&seen), shiftStage(&seen), shiftStage(&seen))
	require.NoError(t, err)

	src, tgt := testClouds()
	res, stage, err := p.Run(context.Background(), src, tgt, transform.Rigid{})
	require.NoError(t, err)
	assert.Equal(t, 2, stage, "final stage index")

	// First stage sees identity, later stages the accumulated shifts.
	require.Len(t, seen, 3)
	assert.True(t, seen[0].Equal(transform.Identity(), 1e-12))
	assert.InDelta(t, 1, seen[1].Translation().X, 1e-12)
	assert.InDelta(t, 2, seen[2].Translation().X, 1e-12)
	assert.InDelta(t, 3, res.Transform.Translation().X, 1e-12)
}

func TestRun_InitialEstimate(t *testing.T) {
	var seen []transform.Rigid
	p, err := New(shiftStage(&seen))
	require.NoError(t, err)

	init := transform.Translate(r3.Vector{Y: 5})
	src, tgt := testClouds()
	_, _, err = p.Run(context.Background(), src, tgt, init)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.InDelta(t, 5, seen[0].Translation().Y, 1e-12)
}

func TestRun_AbortsOnStageFailure(t *testing.T) {
	boom := errors.New("not enough correspondences")
	var tailRan bool

	p, err := New(
		StageFunc(func(_ context.Context, _, _ *cloud.PointCloud, e transform.Rigid) (*model.RegistrationResult, error) {
			return &model.RegistrationResult{Transform: e}, nil
		}),
		StageFunc(func(context.Context, *cloud.PointCloud, *cloud.PointCloud, transform.Rigid) (*model.RegistrationResult, error) {
			return nil, boom
		}),
		StageFunc(func(context.Context, *cloud.PointCloud, *cloud.PointCloud, transform.Rigid) (*model.RegistrationResult, error) {
			tailRan = true
			return nil, nil
		}),
	)
	require.NoError(t, err)

	src, tgt := testClouds()
	res, _, err := p.Run(context.Background(), src, tgt, transform.Identity())
	require.Nil(t, res, "no partial result on failure")
	assert.False(t, tailRan, "remaining stages skipped")

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Stage)
	assert.ErrorIs(t, err, boom)
}

func TestRun_ContextCanceled(t *testing.T) {
	p, err := New(StageFunc(func(context.Context, *cloud.PointCloud, *cloud.PointCloud, transform.Rigid) (*model.RegistrationResult, error) {
		t.Fatal("stage must not run after cancellation")
		return nil, nil
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src, tgt := testClouds()
	_, _, err = p.Run(ctx, src, tgt, transform.Identity())
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, context.Canceled)
}
