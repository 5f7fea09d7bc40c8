package cloudalign

import (
	"fmt"

	"github.com/hupe1980/cloudalign/model"
	"github.com/hupe1980/cloudalign/schedule"
)

// ErrTooFewGroups is returned by RegisterBatch before any job runs when the
// schedule cannot yield a single realizable pair.
var ErrTooFewGroups = schedule.ErrTooFewGroups

// LoadError indicates that a specific group's point cloud failed to load.
// It is isolated to one pair and reported through the progress sink, never
// returned from RegisterBatch.
//
// The underlying loader error can be accessed via errors.Unwrap.
type LoadError struct {
	Group model.GroupID
	cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Group, e.cause)
}

func (e *LoadError) Unwrap() error { return e.cause }

// UnknownGroupError indicates that a scheduled index names a group with no
// loader in the batch's loader map. Like LoadError it is isolated to one
// pair.
type UnknownGroupError struct {
	Group model.GroupID
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("no loader for %s", e.Group)
}
