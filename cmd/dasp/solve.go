package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dasplabs/dasp/pkg/af"
	"github.com/dasplabs/dasp/pkg/config"
	"github.com/dasplabs/dasp/pkg/framework"
	"github.com/dasplabs/dasp/pkg/semantics"
	"github.com/dasplabs/dasp/pkg/solver"
	"github.com/dasplabs/dasp/pkg/store"
	"github.com/dasplabs/dasp/pkg/store/journal"
)

// stdin is a variable to allow substitution in tests.
var stdin io.Reader = os.Stdin

type taskOp string

const (
	opEnumerate taskOp = "ee"
	opSample    taskOp = "se"
	opCount     taskOp = "ce"
	opCredulous taskOp = "dc"
	opSkeptical taskOp = "ds"
)

type taskSpec struct {
	op      taskOp
	sem     semantics.Descriptor
	dynamic bool
}

// runSolveCmd implements the competition-style solver surface.
//
// Exit codes:
//
//	0 = task completed
//	1 = runtime error (parse, update or engine failure)
//	2 = usage error
func runSolveCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("dasp", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		file       string
		task       string
		updateFile string
		argID      string
		keepGoing  bool
		problems   bool
		formats    bool
	)

	cmd.StringVar(&file, "file", "", "Initial framework file (REQUIRED unless --problems/--formats)")
	cmd.StringVar(&task, "task", "", "Task code, e.g. EE-CO or CE-ST-D")
	cmd.StringVar(&updateFile, "update-file", "-", "Update stream; '-' reads stdin until the first empty line")
	cmd.StringVar(&argID, "arg", "", "Argument ID for DC/DS acceptance tasks")
	cmd.BoolVar(&keepGoing, "keep-going", false, "Skip rejected updates instead of aborting the stream")
	cmd.BoolVar(&problems, "problems", false, "List supported tasks")
	cmd.BoolVar(&formats, "formats", false, "List supported input formats")

	if err := cmd.Parse(args); err != nil {
		return 2
	}

	if problems {
		fmt.Fprintln(stdout, problemList())
		return 0
	}
	if formats {
		fmt.Fprintln(stdout, "[apx,tgf]")
		return 0
	}
	if task == "" {
		fmt.Fprintf(stdout, "dasp v%s\n", version)
		return 0
	}

	spec, err := parseTask(task)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if file == "" {
		fmt.Fprintln(stderr, "Error: --file is required")
		return 2
	}
	if (spec.op == opCredulous || spec.op == opSkeptical) && argID == "" {
		fmt.Fprintln(stderr, "Error: --arg is required for DC/DS tasks")
		return 2
	}

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	content, err := os.ReadFile(file)
	if err != nil {
		logger.Error("reading initial file", "path", file, "err", err)
		return 1
	}

	opts := []solver.Option{solver.WithLogger(logger)}
	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			logger.Error("opening journal", "path", cfg.JournalPath, "err", err)
			return 1
		}
		defer func() { _ = j.Close() }()
		opts = append(opts, solver.WithJournal(j))
	}

	fw, err := solver.Parse(string(content), spec.sem, opts...)
	if err != nil {
		logger.Error("loading framework", "err", err)
		return 1
	}

	if err := solveOnce(fw, spec, argID, stdout); err != nil {
		logger.Error("solving", "revision", fw.Revision(), "err", err)
		return 1
	}
	if !spec.dynamic {
		return 0
	}

	updates, closeUpdates, err := openUpdates(updateFile)
	if err != nil {
		logger.Error("opening update stream", "path", updateFile, "err", err)
		return 1
	}
	defer closeUpdates()

	for updates.Scan() {
		line := strings.TrimSpace(updates.Text())
		if line == "" {
			break
		}
		if err := fw.Update(line); err != nil {
			if keepGoing && (errors.Is(err, store.ErrUnknownElement) || errors.Is(err, store.ErrIllegalTransition)) {
				logger.Warn("skipping rejected update", "line", line, "err", err)
				continue
			}
			logger.Error("applying update", "line", line, "err", err)
			return 1
		}
		if err := solveOnce(fw, spec, argID, stdout); err != nil {
			logger.Error("solving", "revision", fw.Revision(), "err", err)
			return 1
		}
	}
	if err := updates.Err(); err != nil {
		logger.Error("reading update stream", "err", err)
		return 1
	}
	return 0
}

// solveOnce runs the task's operation against the current revision.
func solveOnce(fw *solver.ArgumentationFramework, spec taskSpec, argID string, stdout io.Writer) error {
	switch spec.op {
	case opEnumerate:
		guard, err := fw.EnumerateExtensions()
		if err != nil {
			return err
		}
		defer func() { _ = guard.Close() }()
		for {
			ext, ok, err := guard.Next()
			if err != nil {
				return err
			}
			if !ok {
				return guard.Close()
			}
			fmt.Fprintln(stdout, ext.Format())
		}
	case opSample:
		ext, ok, err := framework.SampleExtension[af.Extension](fw)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintln(stdout, ext.Format())
		} else {
			fmt.Fprintln(stdout, "NO")
		}
		return nil
	case opCount:
		n, err := framework.CountExtensions[af.Extension](fw)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, n)
		return nil
	case opCredulous:
		yes, err := framework.IsCredulouslyAccepted[af.Extension](fw, argID)
		if err != nil {
			return err
		}
		printYesNo(stdout, yes)
		return nil
	default:
		yes, err := framework.IsSkepticallyAccepted[af.Extension](fw, argID)
		if err != nil {
			return err
		}
		printYesNo(stdout, yes)
		return nil
	}
}

func printYesNo(w io.Writer, yes bool) {
	if yes {
		fmt.Fprintln(w, "YES")
	} else {
		fmt.Fprintln(w, "NO")
	}
}

// parseTask decodes an OP-SEM[-D] task code.
func parseTask(code string) (taskSpec, error) {
	parts := strings.Split(strings.ToLower(code), "-")
	if len(parts) != 2 && len(parts) != 3 {
		return taskSpec{}, fmt.Errorf("invalid task %q", code)
	}
	var spec taskSpec
	switch taskOp(parts[0]) {
	case opEnumerate, opSample, opCount, opCredulous, opSkeptical:
		spec.op = taskOp(parts[0])
	default:
		return taskSpec{}, fmt.Errorf("unknown task operation %q", parts[0])
	}
	sem, err := semantics.ByCode(parts[1])
	if err != nil {
		return taskSpec{}, err
	}
	spec.sem = sem
	if len(parts) == 3 {
		if parts[2] != "d" {
			return taskSpec{}, fmt.Errorf("invalid task suffix %q", parts[2])
		}
		spec.dynamic = true
	}
	return spec, nil
}

func problemList() string {
	ops := []taskOp{opEnumerate, opSample, opCount, opCredulous, opSkeptical}
	var codes []string
	for _, op := range ops {
		for _, sem := range semantics.All() {
			base := strings.ToUpper(string(op)) + "-" + strings.ToUpper(sem.Code())
			codes = append(codes, base, base+"-D")
		}
	}
	return "[" + strings.Join(codes, ",") + "]"
}

// openUpdates returns a line scanner over the update stream. "-" selects
// stdin; interactive streams end at the first empty line, which the
// caller detects.
func openUpdates(path string) (*bufio.Scanner, func(), error) {
	if path == "-" {
		return bufio.NewScanner(stdin), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return bufio.NewScanner(f), func() { _ = f.Close() }, nil
}
