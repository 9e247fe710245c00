// Package bench implements the block io benchmark engine: aligned
// direct io workers, fixed-interval bandwidth pacing, and multi-worker
// result aggregation.
package bench

import (
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// Benchmark holds the validated configuration for one run
type Benchmark struct {
	// target file or device
	Path string

	// bytes moved per operation
	TransferSize int64

	// total bytes each worker moves over the whole run. must be an
	// exact multiple of TransferSize
	TotalSize int64

	// access pattern to run
	Mode Mode

	// number of concurrent workers
	Jobs int

	// optional per-worker bytes/second cap (0 disables pacing)
	Bandwidth int64

	// master seed all per-worker random streams derive from
	Seed int64

	// report all workers as a whole instead of one line each
	GroupReporting bool

	// bypass the page cache (o_direct)
	DirectIO bool
}

// Report is the measured outcome for one worker, or for the whole
// group when grouped reporting is on
type Report struct {
	// worker index, -1 for a grouped report
	Job int `json:"job"`

	// throughput in decimal megabytes per second
	ThroughputMBps float64 `json:"throughput_mbs"`

	// average per-operation latency in nanoseconds
	AvgLatencyNs int64 `json:"avg_latency_ns"`
}

// Run executes the configured benchmark and returns one report per
// worker, or a single grouped report. any worker error aborts the run
func (b *Benchmark) Run() ([]Report, error) {
	// reject broken configurations before touching the target
	if err := b.validate(); err != nil {
		return nil, err
	}

	numOps := b.TotalSize / b.TransferSize
	if numOps == 0 {
		// nothing to transfer, trivially done
		return nil, nil
	}

	// one master stream deterministically derives every worker seed
	master := mathrand.New(mathrand.NewSource(b.Seed))

	// make sure read targets exist with enough data before measuring
	if b.Mode == RandRead || b.Mode == SeqRead {
		if err := b.ensureTarget(master); err != nil {
			return nil, err
		}
	}

	// every worker gets its own descriptor on the same path; the
	// implicit read/write position is file table state and must not be
	// shared between concurrent sequential workers
	fds := make([]int, 0, b.Jobs)
	defer func() {
		for _, fd := range fds {
			unix.Close(fd)
		}
	}()
	for i := 0; i < b.Jobs; i++ {
		var fd int
		var err error
		if b.Mode == SeqWrite {
			fd, err = openWrite(b.Path, b.DirectIO)
		} else {
			fd, err = openRead(b.Path, b.DirectIO)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open target %s: %w", b.Path, err)
		}
		fds = append(fds, fd)
	}

	// buffer and offset alignment follow the target filesystem's
	// preferred io block size
	_, blksize, err := statFd(fds[0])
	if err != nil {
		return nil, fmt.Errorf("failed to stat target %s: %w", b.Path, err)
	}

	opts := &Options{
		BlockAlign:   int(blksize),
		Bandwidth:    b.Bandwidth,
		TransferSize: b.TransferSize,
		Mode:         b.Mode,
		NumOps:       numOps,
	}

	// construct every worker before starting any, so construction
	// failures surface before io begins
	workers := make([]*Worker, b.Jobs)
	for i := range workers {
		w, err := NewWorker(opts, fds[i], master.Int63())
		if err != nil {
			return nil, err
		}
		workers[i] = w
	}

	slog.Info("starting benchmark",
		"mode", b.Mode,
		"jobs", b.Jobs,
		"bs", b.TransferSize,
		"ops", numOps,
	)

	// fan out one goroutine per worker and join them all; the overall
	// wall time spans start to last join
	var g errgroup.Group
	runStart := time.Now()
	for _, w := range workers {
		g.Go(w.Run)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	wall := time.Since(runStart)

	return b.report(workers, numOps, wall), nil
}

// report combines the joined workers' accumulators into the requested
// reporting view
func (b *Benchmark) report(workers []*Worker, numOps int64, wall time.Duration) []Report {
	// grouped reporting is only meaningful with more than one worker
	if b.GroupReporting && b.Jobs > 1 {
		var ioTime time.Duration
		for _, w := range workers {
			ioTime += w.IOTime()
		}
		return []Report{{
			Job:            -1,
			ThroughputMBps: float64(b.TotalSize*int64(b.Jobs)) / wall.Seconds() / 1e6,
			AvgLatencyNs:   ioTime.Nanoseconds() / (numOps * int64(b.Jobs)),
		}}
	}

	reports := make([]Report, 0, len(workers))
	for i, w := range workers {
		reports = append(reports, Report{
			Job:            i,
			ThroughputMBps: float64(b.TotalSize) / w.RunTime().Seconds() / 1e6,
			AvgLatencyNs:   w.IOTime().Nanoseconds() / numOps,
		})
	}
	return reports
}
