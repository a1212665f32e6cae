package simulator

import (
	"fmt"
	"strings"
)

// TaskSystem is an ordered collection of periodic tasks with a cached
// hyperperiod (the lcm of the finite periods, 0 when there are none).
type TaskSystem struct {
	tasks       []*PeriodicTask
	hyperperiod int64
}

// NewTaskSystem builds a task system from tasks, preserving their order.
func NewTaskSystem(tasks ...*PeriodicTask) *TaskSystem {
	ts := &TaskSystem{tasks: append([]*PeriodicTask(nil), tasks...)}
	ts.updateHyperperiod()
	return ts
}

// AddTasks appends tasks and refreshes the cached hyperperiod.
func (ts *TaskSystem) AddTasks(tasks ...*PeriodicTask) {
	ts.tasks = append(ts.tasks, tasks...)
	ts.updateHyperperiod()
}

// Tasks returns the tasks in insertion order. The returned slice is shared;
// callers must not mutate it.
func (ts *TaskSystem) Tasks() []*PeriodicTask {
	return ts.tasks
}

func (ts *TaskSystem) Len() int {
	return len(ts.tasks)
}

func (ts *TaskSystem) Hyperperiod() int64 {
	return ts.hyperperiod
}

// Utilization is the sum of per-task cost/period ratios.
func (ts *TaskSystem) Utilization() float64 {
	total := 0.0
	for _, task := range ts.tasks {
		total += task.Utilization()
	}
	return total
}

// Density is the sum of per-task cost/relative_deadline ratios.
func (ts *TaskSystem) Density() float64 {
	total := 0.0
	for _, task := range ts.tasks {
		total += task.Density()
	}
	return total
}

func (ts *TaskSystem) updateHyperperiod() {
	ts.hyperperiod = 0
	for _, task := range ts.tasks {
		if task.Period == InfinitePeriod {
			continue
		}
		if ts.hyperperiod == 0 {
			ts.hyperperiod = task.Period
		} else {
			ts.hyperperiod = lcm(ts.hyperperiod, task.Period)
		}
	}
}

func (ts *TaskSystem) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Task System with %d tasks, hyperperiod=%d", len(ts.tasks), ts.hyperperiod)
	for _, task := range ts.tasks {
		fmt.Fprintf(&sb, "\n  %s", task)
	}
	return sb.String()
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int64) int64 {
	return a / gcd(a, b) * b
}
