package priority

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	simulator "github.com/ragibson/real-time-simulator"
)

// PriorityTestSuite holds test utilities and state
type PriorityTestSuite struct {
	suite.Suite
}

// TestPriorityTestSuite runs all tests in the suite
func TestPriorityTestSuite(t *testing.T) {
	suite.Run(t, new(PriorityTestSuite))
}

func (ts *PriorityTestSuite) job(params simulator.TaskParams) *simulator.Job {
	task, err := simulator.NewTask(params)
	ts.Require().NoError(err)
	jobs := task.GenerateJobs(task.Phase)
	ts.Require().Len(jobs, 1)
	return jobs[0]
}

func (ts *PriorityTestSuite) value(fn Func, job *simulator.Job, t int64) float64 {
	v, err := fn(job, t)
	ts.Require().NoError(err)
	return v
}

func (ts *PriorityTestSuite) TestRM() {
	job := ts.job(simulator.TaskParams{Period: 6, Cost: 1})
	ts.Equal(6.0, ts.value(RM, job, 0))
	ts.Equal(6.0, ts.value(RM, job, 17))
}

func (ts *PriorityTestSuite) TestRMOneShotIsLowestPriority() {
	job := ts.job(simulator.TaskParams{Period: simulator.InfinitePeriod, Cost: 1, RelativeDeadline: 10})
	ts.Equal(math.Inf(1), ts.value(RM, job, 0))
}

func (ts *PriorityTestSuite) TestDM() {
	job := ts.job(simulator.TaskParams{Period: 10, Cost: 2, RelativeDeadline: 7})
	ts.Equal(7.0, ts.value(DM, job, 3))
}

func (ts *PriorityTestSuite) TestStatic() {
	job := ts.job(simulator.TaskParams{Period: 10, Cost: 2, ID: simulator.TaskID(5)})
	ts.Equal(5.0, ts.value(Static, job, 0))
}

func (ts *PriorityTestSuite) TestStaticWithoutID() {
	job := ts.job(simulator.TaskParams{Period: 10, Cost: 2})

	_, err := Static(job, 0)
	ts.ErrorIs(err, simulator.ErrMissingID)
}

func (ts *PriorityTestSuite) TestEDF() {
	job := ts.job(simulator.TaskParams{Period: 10, Cost: 2})
	ts.Equal(10.0, ts.value(EDF, job, 0))
	ts.Equal(6.0, ts.value(EDF, job, 4))
}

func (ts *PriorityTestSuite) TestLLF() {
	job := ts.job(simulator.TaskParams{Period: 10, Cost: 2})
	ts.Equal(8.0, ts.value(LLF, job, 0))

	job.RemainingCost = 1
	ts.Equal(5.0, ts.value(LLF, job, 4))
}

func (ts *PriorityTestSuite) TestOverheadFirstForcesOverheadDrain() {
	job := ts.job(simulator.TaskParams{Period: 10, Cost: 2})
	job.RemainingOverhead = 3

	ts.Equal(math.Inf(-1), ts.value(EDF, job, 0))

	job.RemainingOverhead = 0
	ts.Equal(10.0, ts.value(EDF, job, 0))
}

func (ts *PriorityTestSuite) TestNonpreemptivePinsStartedJobs() {
	job := ts.job(simulator.TaskParams{Period: 10, Cost: 2})

	ts.Equal(10.0, ts.value(NPEDF, job, 0))

	job.Started = true
	job.RemainingCost = 1.5
	ts.Equal(math.Inf(-1), ts.value(NPEDF, job, 1))
}

func (ts *PriorityTestSuite) TestPfairFirstSubtask() {
	// w = max(5/10, 5/10) = 0.5, k = 1: pseudo-deadline ceil(1/0.5) = 2,
	// successor bit 0, group deadline ceil(ceil(2*0.5)/0.5) = 2.
	job := ts.job(simulator.TaskParams{Period: 10, Cost: 5})

	ts.InDelta(2-2e-7, ts.value(Pfair, job, 0), 1e-12)
}

func (ts *PriorityTestSuite) TestPfairSuccessorBit() {
	// w = 2/5 = 0.4, k = 1: ceil(2.5) = 3, floor(2.5) = 2 so the successor
	// bit is set; group deadline ceil(ceil(3*0.6)/0.6) = ceil(2/0.6) = 4.
	job := ts.job(simulator.TaskParams{Period: 5, Cost: 2})

	ts.InDelta(3-0.5-4e-7, ts.value(Pfair, job, 0), 1e-12)
}

func (ts *PriorityTestSuite) TestPfairFullUtilizationGroupDeadline() {
	// w = 1 uses phase + relative deadline as the group deadline.
	job := ts.job(simulator.TaskParams{Period: 4, Cost: 4})

	// k = 1: pseudo-deadline 1, successor bit 0... but a fresh job with
	// remaining cost equal to the time to its deadline must run now.
	ts.Equal(math.Inf(-1), ts.value(Pfair, job, 0))

	job.RemainingCost = 3
	// k = 2: pseudo-deadline 2, successor bit 0, group deadline 4. Still
	// zero laxity at t = 1, so check at t = 0 where laxity is positive.
	ts.InDelta(2-4e-7, ts.value(Pfair, job, 0), 1e-12)
}

func (ts *PriorityTestSuite) TestPfairZeroLaxityMustRun() {
	job := ts.job(simulator.TaskParams{Period: 10, Cost: 5})

	// remaining cost 5 equals deadline 10 minus t 5
	ts.Equal(math.Inf(-1), ts.value(Pfair, job, 5))
}

func (ts *PriorityTestSuite) TestPfairRejectsOverhead() {
	job := ts.job(simulator.TaskParams{Period: 10, Cost: 5})
	job.RemainingOverhead = 2

	_, err := Pfair(job, 0)
	ts.ErrorIs(err, simulator.ErrUnsupportedConfig)
}

func (ts *PriorityTestSuite) TestLookupRegistry() {
	for _, name := range []string{"G-EDF", "G-LLF", "G-RM", "G-DM"} {
		_, restrict, err := Lookup(name)
		ts.NoError(err)
		ts.False(restrict, name)
	}
	for _, name := range []string{"GR-EDF", "GR-LLF", "GR-RM", "GR-DM"} {
		_, restrict, err := Lookup(name)
		ts.NoError(err)
		ts.True(restrict, name)
	}
	for _, name := range []string{"G-NP_EDF", "G-NP_LLF", "G-NP_RM", "G-NP_DM"} {
		fn, restrict, err := Lookup(name)
		ts.NoError(err)
		ts.False(restrict, name)

		// nonpreemptive variants pin started jobs
		job := ts.job(simulator.TaskParams{Period: 10, Cost: 2, ID: simulator.TaskID(0)})
		job.Started = true
		job.RemainingCost = 1
		ts.Equal(math.Inf(-1), ts.value(fn, job, 0), name)
	}
}

func (ts *PriorityTestSuite) TestLookupUnknown() {
	_, _, err := Lookup("g-edf")
	ts.Error(err)
	ts.Contains(err.Error(), "not supported")
}

func (ts *PriorityTestSuite) TestNames() {
	ts.Len(Names(), 12)
	ts.Contains(Names(), "GR-LLF")
}
