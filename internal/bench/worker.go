package bench

import (
	"crypto/rand"
	"fmt"
	mathrand "math/rand"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Worker owns one descriptor view of the target, one aligned transfer
// buffer, and one private seeded random stream. it runs exactly one
// access-mode loop to completion and is discarded after its
// accumulators have been read
type Worker struct {
	opts *Options
	fd   int
	rng  *mathrand.Rand

	// raw keeps the backing allocation alive; block is the aligned
	// sub-slice every transfer uses, fixed for the worker's lifetime
	raw   []byte
	block []byte

	ioTime  time.Duration
	runTime time.Duration
}

// NewWorker creates a worker over an already-open descriptor. write
// mode workers fill their block with random data up front so every
// transfer writes the same prepared bytes
func NewWorker(opts *Options, fd int, seed int64) (*Worker, error) {
	// the alignment carve-out below relies on power of two math
	if opts.BlockAlign <= 0 || opts.BlockAlign&(opts.BlockAlign-1) != 0 {
		return nil, fmt.Errorf("block alignment must be a positive power of two, got %d", opts.BlockAlign)
	}

	w := &Worker{
		opts: opts,
		fd:   fd,
		rng:  mathrand.New(mathrand.NewSource(seed)),
	}

	// allocate enough slack to find an aligned start within the buffer
	w.raw = make([]byte, opts.TransferSize+int64(opts.BlockAlign)-1)
	w.block = alignBlock(w.raw, opts.BlockAlign)[:opts.TransferSize]

	// fill the write buffer with random data
	if opts.Mode == SeqWrite {
		if _, err := rand.Read(w.block); err != nil {
			return nil, fmt.Errorf("failed to generate write data: %w", err)
		}
	}

	return w, nil
}

// alignBlock returns the sub-slice of buf whose starting address is a
// multiple of alignment
func alignBlock(buf []byte, alignment int) []byte {
	addr := uintptr(unsafe.Pointer(&buf[0]))
	align := uintptr(alignment)
	offset := int((align - (addr & (align - 1))) & (align - 1))
	return buf[offset:]
}

// Run executes the worker's full operation loop, paced to the
// configured bandwidth when one is set. run time covers the whole loop
// including pacing sleeps; io time covers only the transfers
func (w *Worker) Run() error {
	start := time.Now()

	if w.opts.Bandwidth > 0 {
		p := newPacer(w.opts.Bandwidth, w.opts.TransferSize)
		p.arm(time.Now())
		for op := int64(0); op < w.opts.NumOps; op++ {
			if err := w.rwOneBlock(); err != nil {
				return err
			}
			p.wait()
		}
	} else {
		for op := int64(0); op < w.opts.NumOps; op++ {
			if err := w.rwOneBlock(); err != nil {
				return err
			}
		}
	}

	w.runTime += time.Since(start)
	return nil
}

// rwOneBlock performs one full transfer, retrying short transfers
// until the whole block has moved. a syscall error or a zero byte
// return is fatal; there is no retry-on-error, only retry-on-partial.
// the wall time of the completion loop is added to the worker's io
// time, pacing sleeps happen outside it
func (w *Worker) rwOneBlock() error {
	start := time.Now()

	switch w.opts.Mode {
	case RandRead:
		offset := w.nextOffset()
		buf := w.block
		for len(buf) > 0 {
			n, err := unix.Pread(w.fd, buf, offset)
			if err != nil {
				return fmt.Errorf("pread failed at offset %d: %w", offset, err)
			}
			if n == 0 {
				return fmt.Errorf("pread returned no data at offset %d", offset)
			}
			buf = buf[n:]
			offset += int64(n)
		}

	case SeqRead:
		// reads advance the descriptor's implicit position
		buf := w.block
		for len(buf) > 0 {
			n, err := unix.Read(w.fd, buf)
			if err != nil {
				return fmt.Errorf("read failed: %w", err)
			}
			if n == 0 {
				return fmt.Errorf("read returned no data")
			}
			buf = buf[n:]
		}

	case SeqWrite:
		// writes advance the descriptor's implicit position
		buf := w.block
		for len(buf) > 0 {
			n, err := unix.Write(w.fd, buf)
			if err != nil {
				return fmt.Errorf("write failed: %w", err)
			}
			if n == 0 {
				return fmt.Errorf("write made no progress")
			}
			buf = buf[n:]
		}
	}

	w.ioTime += time.Since(start)
	return nil
}

// nextOffset draws the next block-aligned random offset from the
// worker's private stream
func (w *Worker) nextOffset() int64 {
	return w.rng.Int63n(w.opts.NumOps) * w.opts.TransferSize
}

// IOTime returns the accumulated time spent inside transfer
// completion loops
func (w *Worker) IOTime() time.Duration {
	return w.ioTime
}

// RunTime returns the wall time of the whole operation loop, pacing
// sleeps included
func (w *Worker) RunTime() time.Duration {
	return w.runTime
}
