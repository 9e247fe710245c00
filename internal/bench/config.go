package bench

import "fmt"

// Mode selects the access pattern for a benchmark run
type Mode int

// supported access modes
const (
	// RandRead issues positioned reads at uniformly random block offsets
	RandRead Mode = iota

	// SeqRead issues reads at the descriptor's implicit position
	SeqRead

	// SeqWrite issues writes at the descriptor's implicit position
	SeqWrite
)

// String returns the access mode's command name
func (m Mode) String() string {
	switch m {
	case RandRead:
		return "randread"
	case SeqRead:
		return "read"
	case SeqWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Options holds the per-run configuration shared by reference across
// all workers. it is immutable for the duration of a run
type Options struct {
	// required alignment for buffer addresses and transfer offsets,
	// taken from the target filesystem's preferred io block size.
	// must be a positive power of two
	BlockAlign int

	// per-worker bytes/second cap, shared identically by every worker
	// rather than divided among them. 0 disables pacing
	Bandwidth int64

	// bytes moved per operation
	TransferSize int64

	// access pattern to run
	Mode Mode

	// number of transfers one worker performs in one run, so one
	// worker moves exactly TransferSize * NumOps bytes
	NumOps int64
}

// validate rejects impossible configurations before any io happens
func (b *Benchmark) validate() error {
	// validate transfer size
	if b.TransferSize <= 0 {
		return fmt.Errorf("transfer size must be positive, got %d", b.TransferSize)
	}

	// validate total size and that it divides evenly into transfers
	if b.TotalSize < 0 {
		return fmt.Errorf("total size must not be negative, got %d", b.TotalSize)
	}
	if b.TotalSize%b.TransferSize != 0 {
		return fmt.Errorf("bs %d does not divide size %d", b.TransferSize, b.TotalSize)
	}

	// validate number of workers
	if b.Jobs < 1 {
		return fmt.Errorf("numjobs must be at least 1, got %d", b.Jobs)
	}

	// concurrent sequential writes through one implicit write position
	// would corrupt ordering
	if b.Mode == SeqWrite && b.Jobs > 1 {
		return fmt.Errorf("multithreaded write is not supported")
	}

	// validate bandwidth cap
	if b.Bandwidth < 0 {
		return fmt.Errorf("bandwidth must not be negative, got %d", b.Bandwidth)
	}

	return nil
}
