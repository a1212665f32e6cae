package scheduler

import (
	"fmt"

	simulator "github.com/ragibson/real-time-simulator"
	"github.com/ragibson/real-time-simulator/priority"
	"github.com/ragibson/real-time-simulator/processor"
)

// Multiprocessor schedules a task system on several processors sharing one
// logical clock. Each tick builds a processor-to-job assignment starting
// from the incumbents, optionally pins jobs to the processor that first ran
// them (restricted migration), and dispatches every assignment together so
// all processor clocks stay aligned.
type Multiprocessor struct {
	priority          priority.Func
	cpus              []*processor.Processor
	restrictMigration bool
}

// NewMultiprocessor builds a multiprocessor scheduler over cpus. With
// restrictMigration set, a job that has executed on a processor may only
// execute there until it completes.
func NewMultiprocessor(fn priority.Func, cpus []*processor.Processor, restrictMigration bool) *Multiprocessor {
	return &Multiprocessor{priority: fn, cpus: cpus, restrictMigration: restrictMigration}
}

// Processors exposes the scheduler's CPUs in dispatch order.
func (s *Multiprocessor) Processors() []*processor.Processor {
	return s.cpus
}

func (s *Multiprocessor) NumProcessors() int {
	return len(s.cpus)
}

func (s *Multiprocessor) traces() []*processor.Trace {
	traces := make([]*processor.Trace, len(s.cpus))
	for i, cpu := range s.cpus {
		traces[i] = cpu.Trace()
	}
	return traces
}

// GenerateSchedule simulates the task system until finalTime (AutoHorizon to
// derive the bound) and returns one trace per processor plus a
// schedulability verdict.
func (s *Multiprocessor) GenerateSchedule(system *simulator.TaskSystem, finalTime int64) ([]*processor.Trace, bool, error) {
	if len(s.cpus) == 0 {
		return nil, false, fmt.Errorf("no processors configured")
	}
	if finalTime <= 0 {
		finalTime = defaultHorizon(system)
	}

	maxRate := 0.0
	for _, cpu := range s.cpus {
		cpu.Reset()
		if cpu.WarmCacheRate() > maxRate {
			maxRate = cpu.WarmCacheRate()
		}
	}

	if system.Utilization() > float64(len(s.cpus))*maxRate {
		return s.traces(), false, nil
	}

	remaining := releaseQueue(system, finalTime)
	var released []*simulator.Job
	// home pins each job to the processor that last ran it; entries are
	// cleared on completion so a finished job never blocks its old slot.
	home := make(map[*simulator.Job]int)

	for s.cpus[0].Time() < finalTime && len(remaining)+len(released) > 0 {
		t := s.cpus[0].Time()

		for len(remaining) > 0 && remaining[len(remaining)-1].Release <= t {
			released = append(released, remaining[len(remaining)-1])
			remaining = remaining[:len(remaining)-1]
		}

		if len(released) == 0 {
			next := remaining[len(remaining)-1].Release
			for _, cpu := range s.cpus {
				cpu.IdleUntil(next)
			}
			continue
		}

		assignments, err := s.buildAssignments(released, home, t)
		if err != nil {
			return s.traces(), false, err
		}

		for i, job := range assignments {
			if job != nil {
				s.cpus[i].ScheduleJob(job)
			}
		}
		for _, cpu := range s.cpus {
			cpu.IdleUntil(t + 1)
		}

		if s.restrictMigration {
			for i, job := range assignments {
				if job != nil {
					home[job] = i
				}
			}
		}

		for i, job := range assignments {
			if job == nil {
				continue
			}
			if job.HasCompleted() {
				released = removeJob(released, job)
				delete(home, job)
			} else if s.cpus[i].Time() > job.Deadline {
				return s.traces(), false, nil
			}
		}
	}

	return s.traces(), allPendingBeyond(finalTime, remaining, released), nil
}

// buildAssignments decides which job each processor executes at time t.
// Incumbents keep their slot by default. Pinned jobs compete only for their
// home processor; everything else fills idle processors first and then
// displaces the worst current assignment when strictly higher priority.
func (s *Multiprocessor) buildAssignments(released []*simulator.Job, home map[*simulator.Job]int, t int64) ([]*simulator.Job, error) {
	assignments := make([]*simulator.Job, len(s.cpus))
	for i, cpu := range s.cpus {
		if job := cpu.LastJobScheduled(); job != nil && !job.HasCompleted() {
			assignments[i] = job
		}
	}

	assigned := func(job *simulator.Job) bool {
		for _, a := range assignments {
			if a == job {
				return true
			}
		}
		return false
	}

	if s.restrictMigration {
		for _, job := range released {
			i, pinned := home[job]
			if !pinned || assigned(job) {
				continue
			}
			if assignments[i] == nil {
				assignments[i] = job
				continue
			}
			jobPriority, err := s.priority(job, t)
			if err != nil {
				return nil, err
			}
			incumbentPriority, err := s.priority(assignments[i], t)
			if err != nil {
				return nil, err
			}
			if jobPriority+priorityTolerance < incumbentPriority {
				assignments[i] = job
			}
		}
	}

	for _, job := range released {
		if assigned(job) {
			continue
		}
		if s.restrictMigration {
			if _, pinned := home[job]; pinned {
				continue
			}
		}

		idle := -1
		for i, a := range assignments {
			if a == nil {
				idle = i
				break
			}
		}
		if idle >= 0 {
			assignments[idle] = job
			continue
		}

		worst, worstPriority := -1, 0.0
		for i, a := range assignments {
			p, err := s.priority(a, t)
			if err != nil {
				return nil, err
			}
			if worst < 0 || p > worstPriority {
				worst, worstPriority = i, p
			}
		}
		jobPriority, err := s.priority(job, t)
		if err != nil {
			return nil, err
		}
		if jobPriority+priorityTolerance < worstPriority {
			assignments[worst] = job
		}
	}

	return assignments, nil
}
