// Package scheduler produces unit-time execution traces for periodic task
// systems on one or several simulated processors, driven by a pluggable
// priority function.
package scheduler

import (
	"sort"

	simulator "github.com/ragibson/real-time-simulator"
	"github.com/ragibson/real-time-simulator/processor"
)

// priorityTolerance is the absolute slack used in every priority comparison.
// Combined with a strict less-than it absorbs floating-point drift from the
// variable execution rate and biases selection toward the incumbent job.
const priorityTolerance = 1e-10

// AutoHorizon asks GenerateSchedule to derive the simulation horizon from
// the task system itself.
const AutoHorizon int64 = 0

// Scheduler generates a schedule for a task system up to finalTime
// (AutoHorizon to derive the horizon) and reports whether every job met its
// deadline. It returns one trace per processor.
type Scheduler interface {
	GenerateSchedule(system *simulator.TaskSystem, finalTime int64) ([]*processor.Trace, bool, error)
	NumProcessors() int
}

// defaultHorizon picks the simulation horizon for a task system. Synchronous
// systems with constrained deadlines repeat after one hyperperiod. Otherwise
// the Leung-Merrill bound applies: a task system with utilization at most the
// capacity that ever misses a deadline misses one by
// 2*hyperperiod + max(relative deadline) + max(phase).
func defaultHorizon(system *simulator.TaskSystem) int64 {
	synchronousConstrained := true
	maxDeadline, maxPhase := int64(0), int64(0)
	for _, task := range system.Tasks() {
		if task.Phase != 0 || task.RelativeDeadline > task.Period {
			synchronousConstrained = false
		}
		if task.RelativeDeadline != simulator.InfinitePeriod && task.RelativeDeadline > maxDeadline {
			maxDeadline = task.RelativeDeadline
		}
		if task.Phase > maxPhase {
			maxPhase = task.Phase
		}
	}
	if synchronousConstrained {
		return system.Hyperperiod()
	}
	return 2*system.Hyperperiod() + maxDeadline + maxPhase
}

// releaseQueue generates every job released within the horizon, sorted by
// release time descending so the scheduling loop pops the next release from
// the tail. The descending sort is stable: jobs tied on release time pop in
// reverse task order, fixing a deterministic appearance order for ties.
func releaseQueue(system *simulator.TaskSystem, finalTime int64) []*simulator.Job {
	var jobs []*simulator.Job
	for _, task := range system.Tasks() {
		jobs = append(jobs, task.GenerateJobs(finalTime)...)
	}
	sort.SliceStable(jobs, func(i, k int) bool {
		return jobs[i].Release > jobs[k].Release
	})
	return jobs
}

// removeJob deletes job from jobs preserving order.
func removeJob(jobs []*simulator.Job, job *simulator.Job) []*simulator.Job {
	for i, j := range jobs {
		if j == job {
			return append(jobs[:i], jobs[i+1:]...)
		}
	}
	return jobs
}

// allPendingBeyond reports whether every job left unfinished at the horizon
// still has its deadline ahead of it. Jobs that could only have missed after
// the simulated window do not make the system unschedulable.
func allPendingBeyond(finalTime int64, pending ...[]*simulator.Job) bool {
	for _, jobs := range pending {
		for _, job := range jobs {
			if !job.HasCompleted() && job.Deadline <= finalTime {
				return false
			}
		}
	}
	return true
}
