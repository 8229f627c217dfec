// Package metrics computes per-task and aggregate response/turnaround/waiting times
// from a recorded timeline (C8, spec §4.8), grounded on original_source/analysis.cpp's
// non-GUI formulas.
package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"schedlab/internal/task"
	"schedlab/internal/timeline"
)

// PerTask holds the five §4.8 quantities for one task.
type PerTask struct {
	TaskID     task.ID
	FirstStart int64
	Completion int64
	Response   int64
	Turnaround int64
	Waiting    int64
}

// Report is one policy's full metrics output: per-task rows plus the arithmetic-mean
// aggregate spec §4.8 defines.
type Report struct {
	Policy string
	Tasks  []PerTask

	MeanResponse   float64
	MeanTurnaround float64
	MeanWaiting    float64
}

// Compute derives a Report from a completed run's timeline and the original task set
// (burst/arrival are read from the set since the timeline alone doesn't carry them).
func Compute(policy string, ts *task.Set, tl *timeline.Recorder) Report {
	byTask := make(map[task.ID][]timeline.Entry)
	for _, e := range tl.Entries() {
		byTask[e.TaskID] = append(byTask[e.TaskID], e)
	}

	var rows []PerTask
	var sumResp, sumTat, sumWait float64
	for _, t := range ts.Tasks() {
		entries := byTask[t.ID]
		if len(entries) == 0 {
			continue
		}
		firstStart := entries[0].Start
		completion := entries[0].End
		for _, e := range entries {
			if e.Start < firstStart {
				firstStart = e.Start
			}
			if e.End > completion {
				completion = e.End
			}
		}
		response := firstStart - t.Arrival
		turnaround := completion - t.Arrival
		waiting := turnaround - t.Burst

		rows = append(rows, PerTask{
			TaskID:     t.ID,
			FirstStart: firstStart,
			Completion: completion,
			Response:   response,
			Turnaround: turnaround,
			Waiting:    waiting,
		})
		sumResp += float64(response)
		sumTat += float64(turnaround)
		sumWait += float64(waiting)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].TaskID < rows[j].TaskID })

	n := float64(len(rows))
	rep := Report{Policy: policy, Tasks: rows}
	if n > 0 {
		rep.MeanResponse = sumResp / n
		rep.MeanTurnaround = sumTat / n
		rep.MeanWaiting = sumWait / n
	}
	return rep
}

// WriteCSV writes the §6 aggregate metrics format: header
// "algorithm,response,turnaround,waiting", two-decimal fixed precision, one row per
// report.
func WriteCSV(w io.Writer, reports []Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"algorithm", "response", "turnaround", "waiting"}); err != nil {
		return err
	}
	for _, r := range reports {
		rec := []string{
			r.Policy,
			fmt.Sprintf("%.2f", r.MeanResponse),
			fmt.Sprintf("%.2f", r.MeanTurnaround),
			fmt.Sprintf("%.2f", r.MeanWaiting),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
