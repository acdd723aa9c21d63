package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dasplabs/dasp/pkg/af"
	"github.com/dasplabs/dasp/pkg/gen"
)

// runGenCmd implements `dasp gen`: random framework and update-stream
// generation. The main file is written to PATH-initial.EXT, the update
// file to PATH-updates.EXTm.
//
// Exit codes:
//
//	0 = files written
//	1 = runtime error
//	2 = usage error
func runGenCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("gen", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		configPath string
		output     string
		size       int
		updates    int
		seed       int64
		format     string
	)

	cmd.StringVar(&configPath, "config", "", "YAML generator config")
	cmd.StringVar(&output, "output", "", "Output path prefix (REQUIRED)")
	cmd.IntVar(&size, "n", 0, "Size of the initial framework")
	cmd.IntVar(&updates, "updates", 0, "Number of updates to generate")
	cmd.Int64Var(&seed, "seed", 0, "Generation seed")
	cmd.StringVar(&format, "format", "", "Output format (apx or tgf)")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if output == "" {
		fmt.Fprintln(stderr, "Error: --output is required")
		return 2
	}

	cfg := gen.DefaultConfig()
	if configPath != "" {
		loaded, err := gen.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	// Explicit flags override the config file.
	cmd.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			cfg.Arguments = size
		case "updates":
			cfg.Updates = updates
		case "seed":
			cfg.Seed = seed
		case "format":
			cfg.Format = af.FileFormat(format)
		}
	})

	g, err := gen.New(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	genArgs, genAtts := g.Framework()
	initialPath := fmt.Sprintf("%s-initial.%s", output, cfg.Format)
	if err := writeInitial(initialPath, cfg.Format, genArgs, genAtts); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "wrote %s (%d arguments, %d attacks)\n", initialPath, len(genArgs), len(genAtts))

	if cfg.Updates > 0 {
		lines := g.Updates()
		updatePath := fmt.Sprintf("%s-updates.%sm", output, cfg.Format)
		if err := writeUpdates(updatePath, lines); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "wrote %s (%d updates)\n", updatePath, len(lines))
	}
	return 0
}

func writeInitial(path string, format af.FileFormat, args []af.Argument, atts []af.Attack) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := af.WriteFramework(f, format, args, atts, true); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeUpdates(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			_ = f.Close()
			return err
		}
	}
	return f.Close()
}
