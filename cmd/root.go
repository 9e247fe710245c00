/*
Copyright © 2025 jesse galley <jesse@jessegalley.net>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"blkbench/internal/bench"
	"blkbench/internal/output"
	"blkbench/internal/units"
)

// program flags defined as global variables for access across functions
var (
	argBS          string // bytes moved per operation, e.g. "4KiB"
	argSize        string // total bytes moved per worker, e.g. "1GiB"
	argBandwidth   string // optional per-worker bandwidth cap, e.g. "100MB/s"
	numJobs        int    // number of concurrent workers
	randSeed       int64  // master seed for random access patterns
	groupReporting bool   // one combined report instead of one per worker
	outFmt         string // output format
	directIO       bool   // whether to use direct io
	verbose        bool   // echo the parsed configuration
	version        bool   // print version and exit
)

// program info const
const progVersion string = "0.1.0"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blkbench",
	Short: "Measure raw storage device performance.",
	Long: `blkbench measures the throughput and per-operation latency of a
storage device under random-read, sequential-read, and sequential-write
access patterns, using direct io to bypass the kernel page cache.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// check if version flag was set
		if version {
			fmt.Printf("blkbench v%s\n", progVersion)
			os.Exit(1)
		}

		// set up the default logger on stderr, chatty only when asked
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// define command line flags, writing values to our global variables
	rootCmd.PersistentFlags().StringVarP(&argBS, "bs", "b", "4KiB", "bytes moved per operation (K/KiB/KB/M/MiB/MB/G/GiB/GB suffixes)")
	rootCmd.PersistentFlags().StringVarP(&argSize, "size", "s", "128MiB", "total bytes moved per worker (must divide evenly by --bs)")
	rootCmd.PersistentFlags().StringVar(&argBandwidth, "bandwidth", "", "per-worker bandwidth cap, e.g. 100MB/s (default unlimited)")
	rootCmd.PersistentFlags().IntVarP(&numJobs, "numjobs", "P", 1, "number of concurrent workers")
	rootCmd.PersistentFlags().Int64Var(&randSeed, "randseed", 0, "master seed for random access patterns (default nondeterministic)")
	rootCmd.PersistentFlags().BoolVar(&groupReporting, "group-reporting", false, "report all workers as a whole instead of individually")
	rootCmd.PersistentFlags().StringVar(&outFmt, "format", "flat", "output format (flat, table, or json)")
	rootCmd.PersistentFlags().BoolVarP(&directIO, "direct", "d", true, "use direct io (o_direct)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "echo the parsed configuration")
	rootCmd.PersistentFlags().BoolVarP(&version, "version", "V", false, "print version and exit")
}

// buildBenchmark parses the shared flags into a benchmark
// configuration for the given access mode and target
func buildBenchmark(mode bench.Mode, target string) (*bench.Benchmark, error) {
	// parse the transfer size
	bs, err := units.ParseSize(argBS)
	if err != nil {
		return nil, fmt.Errorf("invalid argument bs: %w", err)
	}

	// parse the per-worker total size
	size, err := units.ParseSize(argSize)
	if err != nil {
		return nil, fmt.Errorf("invalid argument size: %w", err)
	}

	// parse the optional bandwidth cap
	var bandwidth int64
	if argBandwidth != "" {
		bandwidth, err = units.ParseBandwidth(argBandwidth)
		if err != nil {
			return nil, fmt.Errorf("invalid argument bandwidth: %w", err)
		}
	}

	// no explicit seed, draw one from the wall clock
	seed := randSeed
	if !rootCmd.PersistentFlags().Changed("randseed") {
		seed = time.Now().UnixNano()
	}

	return &bench.Benchmark{
		Path:           target,
		TransferSize:   bs,
		TotalSize:      size,
		Mode:           mode,
		Jobs:           numJobs,
		Bandwidth:      bandwidth,
		Seed:           seed,
		GroupReporting: groupReporting,
		DirectIO:       directIO,
	}, nil
}

// runBenchmark parses the flags for the given mode, executes the
// benchmark, and prints its reports
func runBenchmark(mode bench.Mode, target string) {
	// validate output format
	format, err := output.ValidateFormat(outFmt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	b, err := buildBenchmark(mode, target)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// echo the parsed configuration when asked
	if verbose {
		spew.Fdump(os.Stderr, b)
	}

	reports, err := b.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "benchmark failed: %v\n", err)
		os.Exit(1)
	}

	// format and output the results
	out, err := output.FormatReports(reports, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to format results: %v\n", err)
		os.Exit(1)
	}

	// print the results
	fmt.Print(out)
}
