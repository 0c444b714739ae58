package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/cmd/heapctl/logger"
	"github.com/joshuapare/heapkit/pkg/heapkit"
	"github.com/joshuapare/heapkit/pkg/trace"
)

var (
	stressPools   []string
	stressOps     int
	stressSeed    int64
	stressMaxSize string
	stressBacking string
	stressVerify  int
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().StringSliceVar(&stressPools, "pools", []string{"1MiB", "3MiB"}, "Pool capacities")
	cmd.Flags().IntVar(&stressOps, "ops", 10000, "Number of random operations")
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Random seed")
	cmd.Flags().StringVar(&stressMaxSize, "max-size", "4KiB", "Largest request size")
	cmd.Flags().StringVar(&stressBacking, "backing", "heap", "Pool backing: heap or mmap")
	cmd.Flags().IntVar(&stressVerify, "verify-every", 100, "Check invariants every N operations (0 = only at the end)")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Run a seeded random alloc/free workload",
		Long: `The stress command issues a seeded random mix of allocations and frees
across the configured pools, checks block chain invariants as it goes, and
finally frees every block and confirms each pool is whole again.

Example:
  heapctl stress
  heapctl stress --pools 64KiB,1MiB --ops 100000 --seed 7
  heapctl stress --backing mmap --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
}

// StressResult summarizes a stress run.
type StressResult struct {
	Seed     int64               `json:"seed"`
	Ops      int                 `json:"ops"`
	Allocs   int                 `json:"allocs"`
	Frees    int                 `json:"frees"`
	OOM      int                 `json:"oom"`
	Verified int                 `json:"verified"`
	Pools    []heapkit.PoolStats `json:"pools"`
}

func runStress() error {
	caps := make([]int, len(stressPools))
	for i, s := range stressPools {
		n, err := trace.ParseSize(s)
		if err != nil {
			return err
		}
		caps[i] = int(n)
	}
	maxSize, err := trace.ParseSize(stressMaxSize)
	if err != nil {
		return err
	}
	if maxSize <= 0 {
		return fmt.Errorf("--max-size must be positive, got %s", stressMaxSize)
	}
	var backing heapkit.Backing
	switch stressBacking {
	case "heap":
		backing = heapkit.BackingHeap
	case "mmap":
		backing = heapkit.BackingMmap
	default:
		return fmt.Errorf("unknown backing %q", stressBacking)
	}

	sys, err := heapkit.New(caps, &heapkit.Options{Backing: backing, Logger: logger.L})
	if err != nil {
		return err
	}
	defer sys.Close()

	printVerbose("Stressing %d pools with %d ops (seed %d)\n", len(caps), stressOps, stressSeed)

	res := StressResult{Seed: stressSeed, Ops: stressOps}
	r := rand.New(rand.NewSource(stressSeed))
	var live [][]byte
	for i := range stressOps {
		if len(live) > 0 && r.Intn(3) == 0 {
			j := r.Intn(len(live))
			sys.Free(live[j])
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			res.Frees++
		} else {
			b, err := sys.Alloc(r.Intn(len(caps)), 1+r.Intn(int(maxSize)))
			switch {
			case errors.Is(err, heapkit.ErrOutOfMemory):
				res.OOM++
			case err != nil:
				return fmt.Errorf("op %d: %w", i, err)
			default:
				b[0], b[len(b)-1] = byte(i), byte(i)
				live = append(live, b)
				res.Allocs++
			}
		}
		if stressVerify > 0 && (i+1)%stressVerify == 0 {
			if err := sys.Verify(); err != nil {
				return fmt.Errorf("after op %d: %w", i, err)
			}
			res.Verified++
		}
	}
	if err := sys.Verify(); err != nil {
		return fmt.Errorf("after op %d: %w", stressOps, err)
	}
	res.Verified++
	res.Pools = sys.AllStats()

	for _, b := range live {
		sys.Free(b)
	}
	for i := range sys.NumPools() {
		if free, capacity := sys.FreeSize(i), sys.Capacity(i); free != capacity {
			return fmt.Errorf("pool %d: %d of %d bytes free after draining", i, free, capacity)
		}
	}

	if jsonOut {
		return printJSON(res)
	}
	if quiet {
		return nil
	}
	printInfo("seed %d: %s ops, %s allocs, %s frees, %s out of memory, %s verifications\n",
		res.Seed, formatNumber(int64(res.Ops)), formatNumber(int64(res.Allocs)),
		formatNumber(int64(res.Frees)), formatNumber(int64(res.OOM)), formatNumber(int64(res.Verified)))
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POOL\tCAPACITY\tALLOCATED\tFREE\tLIVE")
	for _, ps := range res.Pools {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", ps.Pool,
			formatBytes(int64(ps.Capacity)), formatBytes(int64(ps.Allocated)),
			formatBytes(int64(ps.Free)), formatNumber(int64(ps.LiveBlocks)))
	}
	return tw.Flush()
}
