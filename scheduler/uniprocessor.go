package scheduler

import (
	simulator "github.com/ragibson/real-time-simulator"
	"github.com/ragibson/real-time-simulator/priority"
	"github.com/ragibson/real-time-simulator/processor"
)

// Uniprocessor schedules a task system on a single processor: per tick it
// releases newly-arrived jobs, selects the highest-priority released job
// (favoring the incumbent on ties), executes it for one time unit, and
// checks for a deadline miss.
type Uniprocessor struct {
	priority priority.Func
	cpu      *processor.Processor
}

// NewUniprocessor builds a uniprocessor scheduler. A nil cpu defaults to an
// ideal zero-overhead processor.
func NewUniprocessor(fn priority.Func, cpu *processor.Processor) *Uniprocessor {
	if cpu == nil {
		cpu = processor.New(processor.DefaultParams())
	}
	return &Uniprocessor{priority: fn, cpu: cpu}
}

// Processor exposes the scheduler's CPU, e.g. for inspecting its trace.
func (s *Uniprocessor) Processor() *processor.Processor {
	return s.cpu
}

func (s *Uniprocessor) NumProcessors() int {
	return 1
}

// GenerateSchedule simulates the task system until finalTime (AutoHorizon to
// derive the bound) and returns the processor's trace plus a schedulability
// verdict. A deadline miss stops the run and returns the partial trace with
// a false verdict; it is an outcome, not an error.
func (s *Uniprocessor) GenerateSchedule(system *simulator.TaskSystem, finalTime int64) ([]*processor.Trace, bool, error) {
	if finalTime <= 0 {
		finalTime = defaultHorizon(system)
	}
	s.cpu.Reset()
	traces := []*processor.Trace{s.cpu.Trace()}

	if system.Utilization() > s.cpu.WarmCacheRate() {
		return traces, false, nil
	}

	remaining := releaseQueue(system, finalTime)
	var released []*simulator.Job

	for s.cpu.Time() < finalTime && len(remaining)+len(released) > 0 {
		if len(released) > 0 {
			candidate, err := s.selectJob(released)
			if err != nil {
				return traces, false, err
			}

			s.cpu.ScheduleJob(candidate)

			if candidate.HasCompleted() {
				released = removeJob(released, candidate)
			} else if s.cpu.Time() > candidate.Deadline {
				return traces, false, nil
			}
		} else if len(remaining) > 0 {
			s.cpu.IdleUntil(remaining[len(remaining)-1].Release)
		}

		for len(remaining) > 0 && remaining[len(remaining)-1].Release <= s.cpu.Time() {
			released = append(released, remaining[len(remaining)-1])
			remaining = remaining[:len(remaining)-1]
		}
	}

	return traces, allPendingBeyond(finalTime, remaining, released), nil
}

// selectJob picks the job to execute in the next tick. The incumbent keeps
// the processor unless a released job beats it by strictly more than the
// comparison tolerance.
func (s *Uniprocessor) selectJob(released []*simulator.Job) (*simulator.Job, error) {
	t := s.cpu.Time()

	candidate := s.cpu.LastJobScheduled()
	if candidate != nil && candidate.HasCompleted() {
		candidate = nil
	}

	var candidatePriority float64
	if candidate != nil {
		p, err := s.priority(candidate, t)
		if err != nil {
			return nil, err
		}
		candidatePriority = p
	}

	for _, job := range released {
		p, err := s.priority(job, t)
		if err != nil {
			return nil, err
		}
		if candidate == nil || p+priorityTolerance < candidatePriority {
			candidate, candidatePriority = job, p
		}
	}
	return candidate, nil
}
