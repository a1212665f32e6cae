package simulator

import "errors"

// Sentinel errors reported by the simulator core. Callers should match them
// with errors.Is since the detection sites wrap them with context.
var (
	// ErrInvalidTask is returned by NewTask for non-positive or missing
	// parameters, or a one-shot task with an infinite relative deadline.
	ErrInvalidTask = errors.New("invalid task")

	// ErrMissingID is returned when static priority is requested for a job
	// whose task carries no id.
	ErrMissingID = errors.New("task has no id")

	// ErrUnsupportedConfig is returned for scheduler configurations the
	// simulator cannot model, e.g. Pfair with pending dispatch overhead.
	ErrUnsupportedConfig = errors.New("unsupported scheduler configuration")

	// ErrNonConverged is returned when a breakdown-density search exceeds
	// its weight-evaluation cap without converging.
	ErrNonConverged = errors.New("breakdown search did not converge")
)
