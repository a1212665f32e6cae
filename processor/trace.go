package processor

import (
	"fmt"
	"strings"

	simulator "github.com/ragibson/real-time-simulator"
)

// Segment is a half-open interval [Start, End) during which one job executed
// on a processor. JobCompleted marks the segment that finished the job.
type Segment struct {
	Start        int64
	End          int64
	Job          *simulator.Job
	JobCompleted bool
}

func (s *Segment) String() string {
	return fmt.Sprintf("%s executing in [%d, %d]", s.Job, s.Start, s.End)
}

// Trace is the ordered execution history of one processor. One-tick slots
// are coalesced on append: a slot continuing the previous segment's job
// extends that segment instead of adding a new one.
type Trace struct {
	segments []*Segment
}

func (tr *Trace) Len() int {
	return len(tr.segments)
}

// Segments returns the segments in time order. The returned slice is shared;
// callers must not mutate it.
func (tr *Trace) Segments() []*Segment {
	return tr.segments
}

// At returns the i-th segment.
func (tr *Trace) At(i int) *Segment {
	return tr.segments[i]
}

// Last returns the most recent segment, or nil for an empty trace.
func (tr *Trace) Last() *Segment {
	if len(tr.segments) == 0 {
		return nil
	}
	return tr.segments[len(tr.segments)-1]
}

func (tr *Trace) add(job *simulator.Job, start, end int64) {
	last := tr.Last()
	if last != nil && last.Job == job && last.End == start {
		last.End = end
		return
	}
	tr.segments = append(tr.segments, &Segment{Start: start, End: end, Job: job})
}

// Equal compares traces structurally on (start, end, task). Segments from
// different jobs of the same task compare equal, so regenerated schedules of
// one task system can be matched against each other.
func (tr *Trace) Equal(other *Trace) bool {
	if tr.Len() != other.Len() {
		return false
	}
	for i, seg := range tr.segments {
		o := other.segments[i]
		if seg.Start != o.Start || seg.End != o.End || seg.Job.Task != o.Job.Task {
			return false
		}
	}
	return true
}

func (tr *Trace) String() string {
	lines := make([]string, len(tr.segments))
	for i, seg := range tr.segments {
		lines[i] = seg.String()
	}
	return strings.Join(lines, "\n")
}
