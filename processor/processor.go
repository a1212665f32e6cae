// Package processor models a CPU executing one job per simulated time unit,
// charging nonpreemptive dispatch/preemption overhead on context switches
// and applying a cache-warmup execution-rate curve that resets whenever a
// different job is scheduled.
package processor

import (
	simulator "github.com/ragibson/real-time-simulator"
)

// Params fixes a processor's overhead and cache model.
//
// ScheduleCost is charged once when a job first reaches a CPU,
// DispatchCost on every context switch, and PreemptionCost, when the
// incoming job has already started, once for resuming it and once more if
// it displaces the previous tick's job. A CacheWarmupTime of zero disables the
// warmup curve; otherwise the execution rate climbs linearly from 1 to
// WarmCacheRate over that many ticks of uninterrupted execution.
type Params struct {
	ScheduleCost    int64
	DispatchCost    int64
	PreemptionCost  int64
	CacheWarmupTime int64
	WarmCacheRate   float64
}

// DefaultParams is an ideal CPU: zero overhead, no warmup curve, unit rate.
func DefaultParams() Params {
	return Params{WarmCacheRate: 1}
}

// Processor owns a local clock, a trace of executed segments, and the
// current execution rate.
type Processor struct {
	params        Params
	time          int64
	trace         *Trace
	executionRate float64
}

// New returns a processor with the given parameters. A non-positive
// WarmCacheRate defaults to 1.
func New(params Params) *Processor {
	if params.WarmCacheRate <= 0 {
		params.WarmCacheRate = 1
	}
	return &Processor{
		params:        params,
		trace:         &Trace{},
		executionRate: 1,
	}
}

func (p *Processor) Params() Params {
	return p.params
}

func (p *Processor) Time() int64 {
	return p.time
}

func (p *Processor) Trace() *Trace {
	return p.trace
}

// ExecutionRate is the rate at which billable cost drains in the next
// executed tick. Overhead always drains at full speed regardless.
func (p *Processor) ExecutionRate() float64 {
	return p.executionRate
}

func (p *Processor) WarmCacheRate() float64 {
	return p.params.WarmCacheRate
}

// LastJobScheduled returns the job executed in the just-finished tick, or
// nil if the processor idled.
func (p *Processor) LastJobScheduled() *simulator.Job {
	last := p.trace.Last()
	if last != nil && last.End == p.time {
		return last.Job
	}
	return nil
}

// ScheduleJob executes job for one time unit.
//
// A context switch resets the execution rate and charges overhead to the
// incoming job: schedule+dispatch for a job reaching a CPU for the first
// time, dispatch+preemption when resuming after an idle tick, and
// dispatch+2*preemption when displacing the previous tick's job. Overhead
// drains before cost and pauses the warmup curve, so the first billable tick
// after a switch always runs at rate 1.
func (p *Processor) ScheduleJob(job *simulator.Job) {
	if job != p.LastJobScheduled() {
		wasIdle := p.LastJobScheduled() == nil
		p.executionRate = 1
		switch {
		case !job.HasStarted():
			job.RemainingOverhead += float64(p.params.ScheduleCost + p.params.DispatchCost)
		case wasIdle:
			job.RemainingOverhead += float64(p.params.DispatchCost + p.params.PreemptionCost)
		default:
			job.RemainingOverhead += float64(p.params.DispatchCost + 2*p.params.PreemptionCost)
		}
	}

	p.trace.add(job, p.time, p.time+1)
	p.time++

	hadOverhead := job.HasRemainingOverhead()
	job.DecrementRemainingCost(p.executionRate)

	if !hadOverhead && p.params.CacheWarmupTime > 0 {
		delta := (p.params.WarmCacheRate - 1) / float64(p.params.CacheWarmupTime)
		p.executionRate += delta
		if (delta > 0 && p.executionRate > p.params.WarmCacheRate) ||
			(delta < 0 && p.executionRate < p.params.WarmCacheRate) {
			p.executionRate = p.params.WarmCacheRate
		}
	}

	if job.HasCompleted() {
		p.trace.Last().JobCompleted = true
	}
}

// IdleUntil advances the clock to t without executing. t must not precede
// the current time.
func (p *Processor) IdleUntil(t int64) {
	if t < p.time {
		panic("processor: cannot idle into the past")
	}
	p.time = t
}

// Reset clears the trace, clock, and execution rate for a fresh run.
func (p *Processor) Reset() {
	p.time = 0
	p.trace = &Trace{}
	p.executionRate = 1
}
