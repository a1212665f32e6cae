// Package breakdown computes breakdown densities: the largest uniform
// scaling of per-task execution costs at which a task system stays
// schedulable under a given scheduler.
package breakdown

import (
	"fmt"
	"math"

	simulator "github.com/ragibson/real-time-simulator"
	"github.com/ragibson/real-time-simulator/scheduler"
)

// SearchConfig tunes the breakdown search. Zero fields take the defaults
// from DefaultSearchConfig.
type SearchConfig struct {
	// Tolerance bounds the density gap between the final unschedulable and
	// schedulable weights at convergence.
	Tolerance float64
	// WarmCacheRate scales the initial weight guess and should match the
	// steady-state rate of the scheduler's processors.
	WarmCacheRate float64
	// MaxEvaluations caps the number of weight tests before the search
	// gives up with ErrNonConverged.
	MaxEvaluations int
}

// DefaultSearchConfig matches the cache-warmup experiment defaults.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{Tolerance: 1e-3, WarmCacheRate: 50, MaxEvaluations: 1000}
}

// Reweight scales every task's cost to max(1, floor(w*cost)), leaving all
// other parameters untouched.
func Reweight(w float64, system *simulator.TaskSystem) (*simulator.TaskSystem, error) {
	tasks := make([]*simulator.PeriodicTask, 0, system.Len())
	for _, task := range system.Tasks() {
		cost := int64(math.Floor(w * float64(task.Cost)))
		if cost < 1 {
			cost = 1
		}
		reweighted, err := simulator.NewTask(simulator.TaskParams{
			Phase:            task.Phase,
			Period:           task.Period,
			Cost:             cost,
			RelativeDeadline: task.RelativeDeadline,
			ID:               task.ID,
		})
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, reweighted)
	}
	return simulator.NewTaskSystem(tasks...), nil
}

// UniprocessorBreakdownDensity searches for the breakdown density of system
// under a uniprocessor scheduler.
func UniprocessorBreakdownDensity(s scheduler.Scheduler, system *simulator.TaskSystem, cfg SearchConfig) (float64, error) {
	return breakdownDensity(s, system, cfg)
}

// MultiprocessorBreakdownDensity searches for the breakdown density of
// system under a multiprocessor scheduler. The initial weight guess scales
// with the processor count.
func MultiprocessorBreakdownDensity(s scheduler.Scheduler, system *simulator.TaskSystem, cfg SearchConfig) (float64, error) {
	return breakdownDensity(s, system, cfg)
}

type weightResult struct {
	schedulable bool
	density     float64
}

// breakdownDensity runs the oscillating halving search: back off and halve
// the step on an unschedulable weight, advance by the unchanged step on a
// schedulable one, and stop when a schedulable result follows an
// unschedulable one within the density tolerance.
func breakdownDensity(s scheduler.Scheduler, system *simulator.TaskSystem, cfg SearchConfig) (float64, error) {
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultSearchConfig().Tolerance
	}
	if cfg.WarmCacheRate <= 0 {
		cfg.WarmCacheRate = DefaultSearchConfig().WarmCacheRate
	}
	if cfg.MaxEvaluations <= 0 {
		cfg.MaxEvaluations = DefaultSearchConfig().MaxEvaluations
	}

	utilization := system.Utilization()
	if utilization <= 0 {
		return 0, fmt.Errorf("cannot search a task system with zero utilization")
	}
	minPeriod := simulator.InfinitePeriod
	for _, task := range system.Tasks() {
		if task.Period < minPeriod {
			minPeriod = task.Period
		}
	}

	weight := cfg.WarmCacheRate *
		(float64(s.NumProcessors()) + float64(system.Len())/float64(minPeriod)) / utilization
	step := weight

	// The oscillation revisits recent weights; a small exact-key memo
	// elides the redundant simulation runs.
	const memoSize = 10
	memo := make(map[float64]weightResult, memoSize)
	var memoOrder []float64

	lastSchedulable := false
	lastDensity := math.Inf(1)

	for evaluation := 0; evaluation < cfg.MaxEvaluations; evaluation++ {
		result, ok := memo[weight]
		if !ok {
			reweighted, err := Reweight(weight, system)
			if err != nil {
				return 0, err
			}
			_, schedulable, err := s.GenerateSchedule(reweighted, scheduler.AutoHorizon)
			if err != nil {
				return 0, err
			}
			result = weightResult{schedulable: schedulable, density: reweighted.Density()}
			if len(memoOrder) == memoSize {
				delete(memo, memoOrder[0])
				memoOrder = memoOrder[1:]
			}
			memo[weight] = result
			memoOrder = append(memoOrder, weight)
		}

		if result.schedulable && !lastSchedulable && math.Abs(result.density-lastDensity) < cfg.Tolerance {
			return result.density, nil
		}
		lastSchedulable, lastDensity = result.schedulable, result.density

		if !result.schedulable {
			weight -= step
			step /= 2
		} else {
			weight += step
		}
	}

	return 0, fmt.Errorf("%w after %d weight evaluations", simulator.ErrNonConverged, cfg.MaxEvaluations)
}
