package bench

import (
	"errors"
	"fmt"
	"log/slog"
	mathrand "math/rand"

	"golang.org/x/sys/unix"
)

// ensureTarget makes sure the target file exists and holds at least
// TotalSize bytes before a read benchmark, filling it through the
// write-mode engine when it does not. the size is re-checked after
// every fill, so a target that shrinks under us is rewritten again
func (b *Benchmark) ensureTarget(master *mathrand.Rand) error {
	for {
		fd, err := openRead(b.Path, b.DirectIO)
		if err == nil {
			size, _, statErr := statFd(fd)
			unix.Close(fd)
			if statErr != nil {
				return fmt.Errorf("failed to stat target %s: %w", b.Path, statErr)
			}

			// large enough, nothing to do
			if size >= b.TotalSize {
				return nil
			}

			slog.Info("target file too small, rewriting", "path", b.Path, "size", size, "want", b.TotalSize)
		} else if errors.Is(err, unix.ENOENT) {
			slog.Info("target file does not exist, writing", "path", b.Path)
		} else {
			return fmt.Errorf("failed to open target %s: %w", b.Path, err)
		}

		// each fill consumes one master draw for its worker seed
		if err := b.fillTarget(master.Int63()); err != nil {
			return err
		}
	}
}

// fillTarget truncate-creates the target and writes TotalSize bytes of
// filler data with a single unthrottled sequential write worker
func (b *Benchmark) fillTarget(seed int64) error {
	fd, err := openWrite(b.Path, b.DirectIO)
	if err != nil {
		return fmt.Errorf("failed to create target %s: %w", b.Path, err)
	}
	defer unix.Close(fd)

	_, blksize, err := statFd(fd)
	if err != nil {
		return fmt.Errorf("failed to stat target %s: %w", b.Path, err)
	}

	opts := &Options{
		BlockAlign:   int(blksize),
		TransferSize: b.TransferSize,
		Mode:         SeqWrite,
		NumOps:       b.TotalSize / b.TransferSize,
	}

	w, err := NewWorker(opts, fd, seed)
	if err != nil {
		return err
	}

	return w.Run()
}
