// Command prefetchsim is a trace-replay harness for the DCPT prefetcher
// core: it plays the role of the host simulator, parsing a recorded
// access trace, driving pkg/prefetcher, and reporting prefetch counts,
// the final table mode and the raw hit-ratio counters.
package main

import (
	"fmt"
	"os"

	"github.com/oisee/dcpt-prefetcher/pkg/prefetcher"
	"github.com/oisee/dcpt-prefetcher/pkg/simulate"
	"github.com/oisee/dcpt-prefetcher/pkg/trace"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	log := logrus.New()

	rootCmd := &cobra.Command{
		Use:   "prefetchsim",
		Short: "Replay memory-access traces through the DCPT prefetcher",
	}

	var cacheCapacity int
	var usePrefetchQueue bool
	var verbose bool

	runCmd := &cobra.Command{
		Use:   "run [trace-file]",
		Short: "Replay a single trace file and report statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			events, err := trace.ReadEvents(f)
			if err != nil {
				return fmt.Errorf("failed to parse trace: %w", err)
			}

			reg := prometheus.NewRegistry()
			metrics := prefetcher.NewMetrics(reg)

			rec := trace.NewRecorder()
			host := trace.NewSimHost(cacheCapacity, rec)
			p := prefetcher.New(
				host,
				prefetcher.WithLogger(log),
				prefetcher.WithPrefetchQueue(usePrefetchQueue),
				prefetcher.WithMetrics(metrics),
			)

			summary := trace.Run(events, p, host, rec)

			fmt.Printf("Demand accesses:    %d\n", summary.DemandAccesses)
			fmt.Printf("Prefetches issued:  %d\n", summary.PrefetchesIssued)
			fmt.Printf("Unique prefetched:  %d\n", summary.UniqueAddrs)
			fmt.Printf("Final mode:         %s\n", p.Mode())
			pc, t1 := p.Stats()
			fmt.Printf("prefetch_count=%d t1_hit=%d\n", pc, t1)
			return nil
		},
	}
	runCmd.Flags().IntVar(&cacheCapacity, "cache-capacity", 256, "Synthetic resident-set capacity")
	runCmd.Flags().BoolVar(&usePrefetchQueue, "prefetch-queue", false, "Enable the 32-entry in-flight prefetch queue variant")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose diagnostic logging")

	var numWorkers int

	batchCmd := &cobra.Command{
		Use:   "batch [trace-file...]",
		Short: "Replay multiple trace files concurrently, each through its own prefetcher instance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			metrics := prefetcher.NewMetrics(reg)

			results := simulate.RunFiles(args, simulate.Config{
				NumWorkers:       numWorkers,
				CacheCapacity:    cacheCapacity,
				UsePrefetchQueue: usePrefetchQueue,
				Metrics:          metrics,
				Log:              log,
			})

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Printf("%s: ERROR: %v\n", r.Path, r.Err)
					continue
				}
				fmt.Printf("%s: mode=%s demands=%d issued=%d unique=%d\n",
					r.Path, r.Mode, r.Summary.DemandAccesses, r.Summary.PrefetchesIssued, r.Summary.UniqueAddrs)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d traces failed", failed, len(results))
			}
			return nil
		},
	}
	batchCmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	batchCmd.Flags().IntVar(&cacheCapacity, "cache-capacity", 256, "Synthetic resident-set capacity")
	batchCmd.Flags().BoolVar(&usePrefetchQueue, "prefetch-queue", false, "Enable the 32-entry in-flight prefetch queue variant")

	var benchStride int
	var benchLen int

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a synthetic fixed-stride access pattern and report prefetch behavior",
		RunE: func(cmd *cobra.Command, args []string) error {
			host := &recordingHost{}
			p := prefetcher.New(host)

			addr := prefetcher.Addr(0)
			for i := 0; i < benchLen; i++ {
				p.Access(prefetcher.AccessStat{PC: 1, MemAddr: addr})
				addr += prefetcher.Addr(benchStride)
			}

			fmt.Printf("Issued %d prefetches over %d accesses (stride %d)\n", len(host.issued), benchLen, benchStride)
			fmt.Printf("Final mode: %s\n", p.Mode())
			return nil
		},
	}
	benchCmd.Flags().IntVar(&benchStride, "stride", 8, "Fixed address stride in bytes")
	benchCmd.Flags().IntVar(&benchLen, "length", 20, "Number of synthetic accesses")

	rootCmd.AddCommand(runCmd, batchCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// recordingHost is a trivial always-miss host for the bench subcommand,
// where the point is to observe raw correlation behavior unfiltered by
// any cache/MSHR state.
type recordingHost struct {
	issued []prefetcher.Addr
}

func (h *recordingHost) InCache(prefetcher.Addr) bool     { return false }
func (h *recordingHost) InMSHRQueue(prefetcher.Addr) bool { return false }
func (h *recordingHost) IssuePrefetch(a prefetcher.Addr)  { h.issued = append(h.issued, a) }
