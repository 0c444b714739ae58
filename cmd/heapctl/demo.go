package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/cmd/heapctl/logger"
	"github.com/joshuapare/heapkit/pkg/trace"
)

var demoBacking string

func init() {
	cmd := newDemoCmd()
	cmd.Flags().StringVar(&demoBacking, "backing", "", "Pool backing: heap or mmap")
	rootCmd.AddCommand(cmd)
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in reference trace",
		Long: `The demo command builds a 1 MiB and a 3 MiB pool and runs the reference
trace: a 2 MiB request that must fail in the small pool, a 2 MiB round trip
through the large pool, and three 1 KiB blocks freed out of order.

Example:
  heapctl demo
  heapctl demo --backing mmap --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
}

func runDemo() error {
	t := trace.Reference()
	if demoBacking != "" {
		t.Backing = demoBacking
		if err := t.Validate(); err != nil {
			return err
		}
	}
	printVerbose("Running trace %q with %d steps\n", t.Name, len(t.Steps))
	return emitReport(trace.Run(t, logger.L))
}
