package traceio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	simulator "github.com/ragibson/real-time-simulator"
)

// Task files hold one task per line as a five-element tuple literal:
//
//	(phase, period, cost, relative_deadline, id)
//
// period may be "inf" for a one-shot task and id may be "None" for a task
// without a static-priority identity.
var taskLinePattern = regexp.MustCompile(`^\((.+)\)$`)

// ReadTaskSystem parses a task file from r.
func ReadTaskSystem(r io.Reader) (*simulator.TaskSystem, error) {
	var tasks []*simulator.PeriodicTask

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		task, err := parseTaskLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		tasks = append(tasks, task)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return simulator.NewTaskSystem(tasks...), nil
}

func parseTaskLine(line string) (*simulator.PeriodicTask, error) {
	match := taskLinePattern.FindStringSubmatch(line)
	if match == nil {
		return nil, fmt.Errorf("malformed task tuple %q", line)
	}

	fields := strings.Split(match[1], ",")
	if len(fields) != 5 {
		return nil, fmt.Errorf("task tuple %q has %d fields, want 5", line, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	phase, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad phase %q", fields[0])
	}
	period, err := parseTime(fields[1], "period")
	if err != nil {
		return nil, err
	}
	cost, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad cost %q", fields[2])
	}
	relativeDeadline, err := parseTime(fields[3], "relative deadline")
	if err != nil {
		return nil, err
	}

	params := simulator.TaskParams{
		Phase:            phase,
		Period:           period,
		Cost:             cost,
		RelativeDeadline: relativeDeadline,
	}
	if fields[4] != "None" {
		id, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("bad task id %q", fields[4])
		}
		params.ID = simulator.TaskID(id)
	}

	return simulator.NewTask(params)
}

// parseTime parses an integer time field, accepting "inf" for the infinite
// sentinel.
func parseTime(field, what string) (int64, error) {
	if field == "inf" {
		return simulator.InfinitePeriod, nil
	}
	v, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q", what, field)
	}
	return v, nil
}

// WriteTaskSystem writes the task system to w, one tuple per line.
func WriteTaskSystem(w io.Writer, system *simulator.TaskSystem) error {
	for _, task := range system.Tasks() {
		id := "None"
		if task.ID != nil {
			id = strconv.Itoa(*task.ID)
		}
		if _, err := fmt.Fprintf(w, "(%d, %s, %d, %s, %s)\n",
			task.Phase, formatTime(task.Period), task.Cost,
			formatTime(task.RelativeDeadline), id); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(v int64) string {
	if v == simulator.InfinitePeriod {
		return "inf"
	}
	return strconv.FormatInt(v, 10)
}

// ReadTaskSystemFile reads a task file from disk.
func ReadTaskSystemFile(path string) (*simulator.TaskSystem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTaskSystem(f)
}

// WriteTaskSystemFile writes a task file to disk.
func WriteTaskSystemFile(path string, system *simulator.TaskSystem) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTaskSystem(f, system); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
