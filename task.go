// Package simulator models periodic task systems for discrete-event
// real-time scheduling simulation.
//
// A PeriodicTask describes a recurring workload; each release within a finite
// horizon produces a Job whose remaining cost and overhead are consumed one
// simulated time unit at a time. A TaskSystem aggregates tasks with their
// hyperperiod, utilization, and density.
package simulator

import (
	"fmt"
	"math"
)

// InfinitePeriod marks a one-shot task: it releases exactly one job at its
// phase. One-shot tasks must carry a finite relative deadline.
const InfinitePeriod int64 = math.MaxInt64

// PeriodicTask is a recurring workload with integer phase, period, per-job
// execution cost, and relative deadline. Tasks are constructed once via
// NewTask and never mutated afterwards.
type PeriodicTask struct {
	Phase            int64
	Period           int64
	Cost             int64
	RelativeDeadline int64
	ID               *int
}

// TaskParams configures NewTask. A zero RelativeDeadline defaults to the
// period; a nil ID leaves the task without a static-priority identity.
type TaskParams struct {
	Phase            int64
	Period           int64
	Cost             int64
	RelativeDeadline int64
	ID               *int
}

// TaskID is a convenience for populating TaskParams.ID inline.
func TaskID(id int) *int {
	return &id
}

// NewTask validates params and returns an immutable task. All failures wrap
// ErrInvalidTask.
func NewTask(params TaskParams) (*PeriodicTask, error) {
	if params.Phase < 0 {
		return nil, fmt.Errorf("%w: task phase must be non-negative", ErrInvalidTask)
	}
	if params.Period <= 0 {
		return nil, fmt.Errorf("%w: task period must be positive", ErrInvalidTask)
	}
	if params.Cost <= 0 {
		return nil, fmt.Errorf("%w: task cost must be positive", ErrInvalidTask)
	}

	relativeDeadline := params.RelativeDeadline
	if relativeDeadline == 0 {
		relativeDeadline = params.Period
	}
	if relativeDeadline < 0 {
		return nil, fmt.Errorf("%w: task relative deadline must be positive", ErrInvalidTask)
	}
	if params.Period == InfinitePeriod && relativeDeadline == InfinitePeriod {
		return nil, fmt.Errorf("%w: one-shot task cannot have an infinite relative deadline", ErrInvalidTask)
	}

	return &PeriodicTask{
		Phase:            params.Phase,
		Period:           params.Period,
		Cost:             params.Cost,
		RelativeDeadline: relativeDeadline,
		ID:               params.ID,
	}, nil
}

// Utilization is cost/period. One-shot tasks contribute zero utilization.
func (t *PeriodicTask) Utilization() float64 {
	if t.Period == InfinitePeriod {
		return 0
	}
	return float64(t.Cost) / float64(t.Period)
}

// Density is cost/relative_deadline.
func (t *PeriodicTask) Density() float64 {
	if t.RelativeDeadline == InfinitePeriod {
		return 0
	}
	return float64(t.Cost) / float64(t.RelativeDeadline)
}

// GenerateJobs returns one job per release with release time <= finalTime,
// ordered by release. One-shot tasks release a single job at their phase.
func (t *PeriodicTask) GenerateJobs(finalTime int64) []*Job {
	if finalTime < t.Phase {
		return nil
	}

	if t.Period == InfinitePeriod {
		return []*Job{newJob(t, t.Phase)}
	}

	numReleases := (finalTime-t.Phase)/t.Period + 1
	jobs := make([]*Job, 0, numReleases)
	for k := int64(0); k < numReleases; k++ {
		jobs = append(jobs, newJob(t, t.Phase+k*t.Period))
	}

	if len(jobs) > 0 {
		last := jobs[len(jobs)-1]
		assert(last.Release <= finalTime, "last generated release beyond horizon")
	}
	return jobs
}

func (t *PeriodicTask) String() string {
	idString := ""
	if t.ID != nil {
		idString = fmt.Sprintf("%d ", *t.ID)
	}

	if t.Phase != 0 {
		return fmt.Sprintf("Task %s(phi=%d, T=%s, C=%d, D=%s)",
			idString, t.Phase, timeString(t.Period), t.Cost, timeString(t.RelativeDeadline))
	}
	if t.Period == t.RelativeDeadline {
		return fmt.Sprintf("Task %s(T=%s, C=%d)", idString, timeString(t.Period), t.Cost)
	}
	return fmt.Sprintf("Task %s(T=%s, C=%d, D=%s)",
		idString, timeString(t.Period), t.Cost, timeString(t.RelativeDeadline))
}

// timeString renders an integer time value, mapping the infinite sentinel to
// "inf" so one-shot tasks read naturally.
func timeString(v int64) string {
	if v == InfinitePeriod {
		return "inf"
	}
	return fmt.Sprintf("%d", v)
}
