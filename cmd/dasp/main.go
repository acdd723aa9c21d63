package main

import (
	"fmt"
	"io"
	"os"
)

const version = "0.1.0"

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) >= 2 {
		switch args[1] {
		case "gen":
			return runGenCmd(args[2:], stdout, stderr)
		case "help", "--help", "-h":
			printUsage(stdout)
			return 0
		}
	}
	return runSolveCmd(args[1:], stdout, stderr)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `dasp v%s - dynamic argumentation framework solver

Usage:
  dasp --file FILE --task TASK [--update-file FILE] [--arg ID] [--keep-going]
  dasp gen --output PATH [--config FILE] [flags]
  dasp --problems | --formats

Tasks are OP-SEM[-D]: OP is one of EE (enumerate), SE (sample),
CE (count), DC (credulous acceptance), DS (skeptical acceptance);
SEM is one of CF, AD, CO, ST, GR; the -D suffix re-solves after every
update line. DC and DS require --arg.

Environment:
  DASP_LOG_LEVEL   debug, info, warn or error (default info)
  DASP_JOURNAL     SQLite file recording applied revisions
`, version)
}
