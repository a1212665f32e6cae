// Package priority provides the time-dependent priority functions driving
// job selection, plus the decorators that layer overhead handling and
// nonpreemptive execution on top of any base policy.
//
// A smaller priority value means higher priority.
package priority

import (
	"fmt"
	"math"

	simulator "github.com/ragibson/real-time-simulator"
)

// Func maps a job and the current time to a priority value; smaller is
// higher priority.
type Func func(job *simulator.Job, t int64) (float64, error)

// rm assigns higher priority to jobs with smaller periods.
func rm(job *simulator.Job, t int64) (float64, error) {
	if job.Task.Period == simulator.InfinitePeriod {
		return math.Inf(1), nil
	}
	return float64(job.Task.Period), nil
}

// dm assigns higher priority to jobs with smaller relative deadlines.
func dm(job *simulator.Job, t int64) (float64, error) {
	return float64(job.Task.RelativeDeadline), nil
}

// static assigns priority by task id, smaller id first.
func static(job *simulator.Job, t int64) (float64, error) {
	if job.Task.ID == nil {
		return 0, fmt.Errorf("%w: cannot use task id as priority", simulator.ErrMissingID)
	}
	return float64(*job.Task.ID), nil
}

// edf assigns higher priority to jobs with earlier deadlines.
func edf(job *simulator.Job, t int64) (float64, error) {
	return float64(job.Deadline - t), nil
}

// llf assigns higher priority to jobs with lesser laxity, the time to the
// deadline not needed to complete the remaining portion of the job.
func llf(job *simulator.Job, t int64) (float64, error) {
	return float64(job.Deadline-t) - job.RemainingCost, nil
}

// OverheadFirst augments a priority function so that pending overhead
// executes nonpreemptively before the base policy takes effect.
func OverheadFirst(p Func) Func {
	return func(job *simulator.Job, t int64) (float64, error) {
		if job.HasRemainingOverhead() {
			return math.Inf(-1), nil
		}
		return p(job, t)
	}
}

// Nonpreemptive augments a priority function by pinning the processor to a
// job once its billable execution has begun.
func Nonpreemptive(p Func) Func {
	return func(job *simulator.Job, t int64) (float64, error) {
		if job.RemainingCost < float64(job.Cost) {
			return math.Inf(-1), nil
		}
		return p(job, t)
	}
}

// The shipped policy set: each base policy wrapped in OverheadFirst, plus
// nonpreemptive variants. Pfair stands alone; it rejects pending overhead
// instead of draining it.
var (
	RM     = OverheadFirst(rm)
	DM     = OverheadFirst(dm)
	Static = OverheadFirst(static)
	EDF    = OverheadFirst(edf)
	LLF    = OverheadFirst(llf)

	NPRM     = Nonpreemptive(RM)
	NPDM     = Nonpreemptive(DM)
	NPStatic = Nonpreemptive(Static)
	NPEDF    = Nonpreemptive(EDF)
	NPLLF    = Nonpreemptive(LLF)

	Pfair Func = pfair
)
