// Package traceio renders traces for human inspection and reads/writes task
// systems in the one-line-per-task tuple format used by the experiment
// corpora.
package traceio

import (
	"fmt"
	"io"
	"strings"

	"github.com/ragibson/real-time-simulator/processor"
)

// FormatSegment renders one executed segment, e.g.
//
//	Job (release=0, cost=1, deadline=6) from Task 0 (T=6, C=1) executing in [0, 1]
func FormatSegment(seg *processor.Segment) string {
	return seg.String()
}

// FormatTrace renders a trace as one segment per line.
func FormatTrace(tr *processor.Trace) string {
	return tr.String()
}

// WriteTrace writes the rendered trace followed by a newline.
func WriteTrace(w io.Writer, tr *processor.Trace) error {
	_, err := io.WriteString(w, tr.String()+"\n")
	return err
}

// WriteTraces writes several traces separated by per-processor headers, the
// usual shape for multiprocessor output.
func WriteTraces(w io.Writer, traces []*processor.Trace) error {
	var sb strings.Builder
	for i, tr := range traces {
		fmt.Fprintf(&sb, "Processor %d:\n%s\n", i, tr)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
