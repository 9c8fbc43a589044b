package datarecording

import (
	"os"
	"sort"
	"strings"
	"time"
)

// RunInfo is one property of a recorded run.
type RunInfo struct {
	RunID    string
	Property string
	Value    string
}

// RunInfoTable is the table that holds RunInfo entries.
const RunInfoTable = "run_info"

// RunRecorder records how a run was started and when it ended.
type RunRecorder struct {
	recorder DataRecorder
	runID    string
	entries  []RunInfo
}

// NewRunRecorder creates a RunRecorder and its table.
func NewRunRecorder(recorder DataRecorder, runID string) *RunRecorder {
	r := &RunRecorder{
		recorder: recorder,
		runID:    runID,
	}

	recorder.CreateTable(RunInfoTable, RunInfo{})

	return r
}

// Start records the start time, the command line, the working directory,
// and the given properties.
func (r *RunRecorder) Start(props map[string]string) {
	r.add("Start Time", time.Now().Format("2006-01-02 15:04:05.000000000"))
	r.add("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	r.add("Working Directory", cwd)

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		r.add(k, props[k])
	}
}

func (r *RunRecorder) add(property, value string) {
	r.entries = append(r.entries, RunInfo{r.runID, property, value})
}

// End writes the buffered properties with the end time and flushes.
func (r *RunRecorder) End() {
	r.add("End Time", time.Now().Format("2006-01-02 15:04:05.000000000"))

	for _, entry := range r.entries {
		r.recorder.InsertData(RunInfoTable, entry)
	}

	r.entries = nil

	r.recorder.Flush()
}
