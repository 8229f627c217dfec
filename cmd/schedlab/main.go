// Command schedlab is the simulator's CLI entry point: load a task set and a config,
// run one or more scheduling policies over it, and report timelines/metrics — the
// subcommand shape mirroring vrunq/cmd/ticksched/main.go's load-build-run-print flow,
// generalized from one demo task to §6's full run/analyze/ult surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"schedlab/internal/config"
	"schedlab/internal/events"
	"schedlab/internal/metrics"
	"schedlab/internal/policy"
	"schedlab/internal/task"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = runCmd(os.Args[2:])
	case "analyze":
		err = analyzeCmd(os.Args[2:])
	case "ult":
		err = ultCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "schedlab:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: schedlab <run|analyze|ult> [flags]")
}

func loadTasks(path, fixture string) (*task.Set, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open task set: %w", err)
		}
		defer f.Close()
		return task.ParseCSV(f)
	}
	switch fixture {
	case "priority":
		return task.PriorityFixture(), nil
	default:
		return task.DefaultFixture(), nil
	}
}

func openSink(jsonLog string) (events.Sink, func() error) {
	if jsonLog != "" {
		f, err := os.Create(jsonLog)
		if err != nil {
			fmt.Fprintln(os.Stderr, "schedlab: cannot open json log, falling back to console:", err)
			s := events.NewConsoleSink()
			return s, s.Sync
		}
		s := events.NewJSONSink(f)
		return s, func() error { err := s.Sync(); f.Close(); return err }
	}
	s := events.NewConsoleSink()
	return s, s.Sync
}

// run: simulate one policy over one task set and write its timeline.
func runCmd(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	policyName := fs.String("policy", "FCFS", "scheduling policy (FCFS, RR, PRIORITY, SJF, MLQ, MLFQ, EDF, CFS)")
	input := fs.String("input", "", "task set CSV (defaults to the built-in fixture)")
	fixture := fs.String("fixture", "default", "built-in fixture when -input is unset: default|priority")
	cfgPath := fs.String("config", "", "YAML config file (defaults if unset)")
	out := fs.String("out", "", "timeline CSV output path (stdout if unset)")
	jsonLog := fs.String("json-log", "", "write structured events as JSON lines to this path")
	fs.Parse(args)

	name, ok := policy.Parse(*policyName)
	if !ok || name.IsULT() {
		return fmt.Errorf("unknown simulation-mode policy %q", *policyName)
	}
	ts, err := loadTasks(*input, *fixture)
	if err != nil {
		return err
	}
	cfg := config.Load(*cfgPath)

	sink, closeSink := openSink(*jsonLog)
	defer closeSink()

	rec, err := policy.Run(context.Background(), ts, name, cfg, sink)
	if err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}

	if *out == "" {
		return rec.WriteCSV(os.Stdout)
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	return rec.WriteCSV(f)
}

// analyze: run every policy in a comma-separated list over the same task set and report
// comparative metrics, one row per policy (spec §6's aggregate report).
func analyzeCmd(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	policies := fs.String("policies", "FCFS,RR,PRIORITY,SJF,MLQ,MLFQ,EDF,CFS", "comma-separated simulation-mode policies")
	input := fs.String("input", "", "task set CSV (defaults to the built-in fixture)")
	fixture := fs.String("fixture", "default", "built-in fixture when -input is unset: default|priority")
	cfgPath := fs.String("config", "", "YAML config file (defaults if unset)")
	out := fs.String("out", "", "metrics CSV output path (stdout if unset)")
	fs.Parse(args)

	ts, err := loadTasks(*input, *fixture)
	if err != nil {
		return err
	}
	cfg := config.Load(*cfgPath)

	var reports []metrics.Report
	for _, raw := range strings.Split(*policies, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		name, ok := policy.Parse(raw)
		if !ok || name.IsULT() {
			return fmt.Errorf("unknown simulation-mode policy %q", raw)
		}
		rec, err := policy.Run(context.Background(), ts, name, cfg, events.NopSink{})
		if err != nil {
			return fmt.Errorf("run %s: %w", name, err)
		}
		reports = append(reports, metrics.Compute(string(name), ts, rec))
	}

	if *out == "" {
		return metrics.WriteCSV(os.Stdout, reports)
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	return metrics.WriteCSV(f, reports)
}

// ult: dispatch one policy's ULT-mode counterpart, optionally wiring the deadlock-lab
// demo (two locked ULTs plus the recovery controller, spec §8 scenario S5).
func ultCmd(args []string) error {
	fs := flag.NewFlagSet("ult", flag.ExitOnError)
	policyName := fs.String("policy", "T_RR", "ULT-mode policy (T_FCFS, T_RR, T_PRIORITY, T_MLFQ, T_CFS)")
	input := fs.String("input", "", "task set CSV (defaults to the built-in fixture)")
	fixture := fs.String("fixture", "default", "built-in fixture when -input is unset: default|priority")
	cfgPath := fs.String("config", "", "YAML config file (defaults if unset)")
	out := fs.String("out", "", "timeline CSV output path (stdout if unset)")
	jsonLog := fs.String("json-log", "", "write structured events as JSON lines to this path")
	deadlockDemo := fs.Bool("deadlock-demo", false, "run the two-lock deadlock/recovery demo instead of plain ULT dispatch")
	fs.Parse(args)

	name, ok := policy.Parse(*policyName)
	if !ok || !name.IsULT() {
		return fmt.Errorf("unknown ULT-mode policy %q", *policyName)
	}
	ts, err := loadTasks(*input, *fixture)
	if err != nil {
		return err
	}
	cfg := config.Load(*cfgPath)

	sink, closeSink := openSink(*jsonLog)
	defer closeSink()

	var workFor func(t *task.Task) policy.WorkFunc
	var lab *policy.Lab
	if *deadlockDemo {
		workFor, lab = buildDeadlockDemo(cfg, sink)
	}

	rec, err := policy.RunULT(context.Background(), ts, name, cfg, sink, workFor, lab)
	if err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}

	if *out == "" {
		return rec.WriteCSV(os.Stdout)
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	return rec.WriteCSV(f)
}
