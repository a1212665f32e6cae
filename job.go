package simulator

import "fmt"

// Job is a single release of a task. RemainingOverhead and RemainingCost are
// real-valued: overhead drains one unit per tick, cost drains at the
// processor's current execution rate. A job whose RemainingCost has reached
// zero (or below, from rate drift) is complete.
type Job struct {
	Release           int64
	Cost              int64
	RemainingOverhead float64
	RemainingCost     float64
	Deadline          int64
	Task              *PeriodicTask
	Started           bool
}

func newJob(task *PeriodicTask, release int64) *Job {
	return &Job{
		Release:       release,
		Cost:          task.Cost,
		RemainingCost: float64(task.Cost),
		Deadline:      release + task.RelativeDeadline,
		Task:          task,
	}
}

// DecrementRemainingCost accounts one tick of execution. Overhead is
// essentially nonpreemptive execution cost and always drains at full speed;
// only once it is gone does the job's billable cost drain, at executionRate.
func (j *Job) DecrementRemainingCost(executionRate float64) {
	j.Started = true
	if j.HasRemainingOverhead() {
		j.RemainingOverhead--
	} else {
		j.RemainingCost -= executionRate
	}
}

func (j *Job) HasStarted() bool {
	if j.RemainingCost < float64(j.Cost) || j.RemainingOverhead > 0 {
		assert(j.Started, "job with consumed cost or pending overhead not marked started")
	}
	return j.Started
}

func (j *Job) HasRemainingOverhead() bool {
	return j.RemainingOverhead > 0
}

// HasCompleted reports whether the job's cost has fully drained. The check is
// <= 0 rather than == 0 to absorb execution-rate drift.
func (j *Job) HasCompleted() bool {
	if j.RemainingCost <= 0 {
		assert(j.RemainingOverhead <= 0, "completed job with pending overhead")
		return true
	}
	return false
}

func (j *Job) String() string {
	return fmt.Sprintf("Job (release=%d, cost=%d, deadline=%d) from %s",
		j.Release, j.Cost, j.Deadline, j.Task)
}
