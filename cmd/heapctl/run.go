package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/cmd/heapctl/logger"
	"github.com/joshuapare/heapkit/pkg/trace"
)

var runBacking string

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVar(&runBacking, "backing", "", "Override the backing named in each trace")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <trace.yaml>...",
		Short: "Run allocation traces",
		Long: `The run command loads each YAML trace, executes its steps against a
fresh set of pools and prints a report. It stops a trace at the first
step whose expectation is not met, and exits non-zero if any trace failed.

Example:
  heapctl run traces/fragment.yaml
  heapctl run a.yaml b.yaml --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraces(args)
		},
	}
}

func runTraces(paths []string) error {
	var (
		reports []*trace.Report
		failed  int
	)
	for _, path := range paths {
		printVerbose("Loading trace: %s\n", path)
		t, err := trace.LoadFile(path)
		if err != nil {
			return err
		}
		if runBacking != "" {
			t.Backing = runBacking
			if err := t.Validate(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}

		rep, runErr := trace.Run(t, logger.L)
		if rep == nil {
			return fmt.Errorf("%s: %w", path, runErr)
		}
		if runErr != nil {
			failed++
			logger.L.Warn("trace failed", "path", path, "error", runErr)
		}
		if jsonOut {
			reports = append(reports, rep)
			continue
		}
		if err := emitReport(rep, nil); err != nil {
			return err
		}
		if runErr != nil {
			printInfo("%s: %v\n", path, runErr)
		}
	}
	if jsonOut {
		if err := printJSON(reports); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d traces failed", failed, len(paths))
	}
	return nil
}
