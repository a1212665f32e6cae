package priority

import (
	"fmt"
	"math"

	simulator "github.com/ragibson/real-time-simulator"
)

// groupDeadlineEpsilon weights the group deadline into the Pfair priority
// value so that remaining ties break toward the later group deadline.
const groupDeadlineEpsilon = 1e-7

// pfair ranks a job by its current subtask's pseudo-deadline, breaking ties
// first toward a set successor bit and then toward the later group deadline.
// A job whose remaining cost exactly fills the time to its deadline must run
// now and gets -inf.
//
// The quantum model assumes overhead-free unit execution, so pending
// overhead is rejected rather than drained.
func pfair(job *simulator.Job, t int64) (float64, error) {
	if job.HasRemainingOverhead() {
		return 0, fmt.Errorf("%w: Pfair cannot prioritize a job with pending overhead",
			simulator.ErrUnsupportedConfig)
	}
	if job.RemainingCost == float64(job.Deadline-t) {
		return math.Inf(-1), nil
	}

	task := job.Task
	// k is the 1-based index of the subtask (quantum) being scheduled.
	k := float64(job.Cost) - job.RemainingCost + 1
	w := math.Max(task.Utilization(), task.Density())

	pseudoDeadline := float64(task.Phase) + math.Ceil(k/w)
	successorBit := math.Ceil(k/w) - math.Floor(k/w)

	var groupDeadline float64
	if w == 1 {
		groupDeadline = float64(task.Phase + task.RelativeDeadline)
	} else {
		groupDeadline = float64(task.Phase) +
			math.Ceil(math.Ceil(math.Ceil(k/w)*(1-w))/(1-w))
	}

	return pseudoDeadline - successorBit/2 - groupDeadlineEpsilon*groupDeadline, nil
}
