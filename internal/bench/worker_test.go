package bench

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestAlignBlock(t *testing.T) {
	for _, align := range []int{1, 512, 4096} {
		buf := make([]byte, 8192+align-1)
		block := alignBlock(buf, align)[:8192]

		addr := uintptr(unsafe.Pointer(&block[0]))
		assert.Zero(t, addr%uintptr(align), "alignment %d", align)
		assert.Len(t, block, 8192)
	}
}

func TestNewWorkerRejectsBadAlignment(t *testing.T) {
	for _, align := range []int{0, -1, 3, 4095} {
		opts := &Options{BlockAlign: align, TransferSize: 4096, Mode: SeqRead, NumOps: 1}
		_, err := NewWorker(opts, -1, 1)
		assert.Error(t, err, "alignment %d", align)
	}
}

func TestSequentialWriteMovesExactByteTotal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.dat")
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC, 0600)
	require.NoError(t, err)
	defer unix.Close(fd)

	opts := &Options{
		BlockAlign:   4096,
		TransferSize: 4096,
		Mode:         SeqWrite,
		NumOps:       100,
	}
	w, err := NewWorker(opts, fd, 1)
	require.NoError(t, err)
	require.NoError(t, w.Run())

	// exactly 100 in-order transfers of 4096 bytes each
	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(4096*100), st.Size())

	assert.Greater(t, w.IOTime(), time.Duration(0))
	assert.GreaterOrEqual(t, w.RunTime(), w.IOTime())
}

func TestRandomReadCompletesAllOperations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.dat")
	require.NoError(t, os.WriteFile(path, make([]byte, 4096*16), 0600))

	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	require.NoError(t, err)
	defer unix.Close(fd)

	opts := &Options{
		BlockAlign:   4096,
		TransferSize: 4096,
		Mode:         RandRead,
		NumOps:       16,
	}
	w, err := NewWorker(opts, fd, 99)
	require.NoError(t, err)
	require.NoError(t, w.Run())
	assert.Greater(t, w.IOTime(), time.Duration(0))
}

func TestSequentialReadRetriesShortTransfers(t *testing.T) {
	// a pipe hands data out in dribbles, forcing the completion loop
	// to keep issuing reads until each full block has arrived
	var p [2]int
	require.NoError(t, unix.Pipe(p[:]))
	defer unix.Close(p[0])

	const transfer = 8192
	const ops = 4

	go func() {
		defer unix.Close(p[1])
		chunk := make([]byte, 1000)
		for sent := 0; sent < transfer*ops; {
			n := len(chunk)
			if rest := transfer*ops - sent; rest < n {
				n = rest
			}
			if _, err := unix.Write(p[1], chunk[:n]); err != nil {
				return
			}
			sent += n
			time.Sleep(time.Millisecond)
		}
	}()

	opts := &Options{
		BlockAlign:   1,
		TransferSize: transfer,
		Mode:         SeqRead,
		NumOps:       ops,
	}
	w, err := NewWorker(opts, p[0], 1)
	require.NoError(t, err)

	// every operation must complete with the full transfer size even
	// though individual reads come up short
	assert.NoError(t, w.Run())
}

func TestReadFromDrainedStreamFails(t *testing.T) {
	// a closed write end makes the first read return zero bytes, which
	// the engine treats as fatal
	var p [2]int
	require.NoError(t, unix.Pipe(p[:]))
	unix.Close(p[1])
	defer unix.Close(p[0])

	opts := &Options{
		BlockAlign:   1,
		TransferSize: 512,
		Mode:         SeqRead,
		NumOps:       1,
	}
	w, err := NewWorker(opts, p[0], 1)
	require.NoError(t, err)
	assert.Error(t, w.Run())
}

func TestRandomOffsetsReproduceWithSeed(t *testing.T) {
	opts := &Options{
		BlockAlign:   512,
		TransferSize: 4096,
		Mode:         RandRead,
		NumOps:       1000,
	}

	a, err := NewWorker(opts, -1, 42)
	require.NoError(t, err)
	b, err := NewWorker(opts, -1, 42)
	require.NoError(t, err)
	c, err := NewWorker(opts, -1, 43)
	require.NoError(t, err)

	var offsA, offsB, offsC []int64
	for i := 0; i < 1000; i++ {
		offsA = append(offsA, a.nextOffset())
		offsB = append(offsB, b.nextOffset())
		offsC = append(offsC, c.nextOffset())
	}

	// equal seeds reproduce the identical offset stream
	assert.Equal(t, offsA, offsB)
	assert.NotEqual(t, offsA, offsC)

	// every offset is block aligned and inside the target
	for _, off := range offsA {
		assert.Zero(t, off%4096)
		assert.GreaterOrEqual(t, off, int64(0))
		assert.Less(t, off, int64(1000*4096))
	}
}
