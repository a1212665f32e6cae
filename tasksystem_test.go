package simulator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// TaskSystemTestSuite holds test utilities and state
type TaskSystemTestSuite struct {
	suite.Suite
}

// TestTaskSystemTestSuite runs all tests in the suite
func TestTaskSystemTestSuite(t *testing.T) {
	suite.Run(t, new(TaskSystemTestSuite))
}

func (ts *TaskSystemTestSuite) task(params TaskParams) *PeriodicTask {
	task, err := NewTask(params)
	ts.Require().NoError(err)
	return task
}

func (ts *TaskSystemTestSuite) TestEmptySystem() {
	system := NewTaskSystem()

	ts.Equal(0, system.Len())
	ts.Equal(int64(0), system.Hyperperiod())
	ts.Equal(0.0, system.Utilization())
	ts.Equal(0.0, system.Density())
}

func (ts *TaskSystemTestSuite) TestHyperperiod() {
	system := NewTaskSystem(
		ts.task(TaskParams{Period: 6, Cost: 1}),
		ts.task(TaskParams{Period: 8, Cost: 2}),
		ts.task(TaskParams{Period: 12, Cost: 4}),
	)

	ts.Equal(int64(24), system.Hyperperiod())
}

func (ts *TaskSystemTestSuite) TestHyperperiodIgnoresOneShots() {
	system := NewTaskSystem(
		ts.task(TaskParams{Period: 6, Cost: 1}),
		ts.task(TaskParams{Period: InfinitePeriod, Cost: 1, RelativeDeadline: 10}),
	)

	ts.Equal(int64(6), system.Hyperperiod())
}

func (ts *TaskSystemTestSuite) TestAddTasksUpdatesHyperperiod() {
	system := NewTaskSystem(ts.task(TaskParams{Period: 6, Cost: 1}))
	ts.Equal(int64(6), system.Hyperperiod())

	system.AddTasks(ts.task(TaskParams{Period: 8, Cost: 1}))
	ts.Equal(int64(24), system.Hyperperiod())
	ts.Equal(2, system.Len())
}

func (ts *TaskSystemTestSuite) TestAggregates() {
	system := NewTaskSystem(
		ts.task(TaskParams{Period: 10, Cost: 2, RelativeDeadline: 5}),
		ts.task(TaskParams{Period: 20, Cost: 5}),
	)

	ts.InDelta(0.45, system.Utilization(), 1e-12)
	ts.InDelta(0.65, system.Density(), 1e-12)
}

func (ts *TaskSystemTestSuite) TestString() {
	system := NewTaskSystem(
		ts.task(TaskParams{Period: 6, Cost: 1, ID: TaskID(0)}),
		ts.task(TaskParams{Period: 8, Cost: 2, ID: TaskID(1)}),
	)

	ts.Equal("Task System with 2 tasks, hyperperiod=24"+
		"\n  Task 0 (T=6, C=1)"+
		"\n  Task 1 (T=8, C=2)", system.String())
}
