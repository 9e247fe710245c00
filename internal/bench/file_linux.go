//go:build linux

package bench

import "golang.org/x/sys/unix"

// openRead opens the target for reading, bypassing the page cache
// when direct is set
func openRead(path string, direct bool) (int, error) {
	flags := unix.O_RDONLY | unix.O_CLOEXEC
	if direct {
		flags |= unix.O_DIRECT
	}
	return unix.Open(path, flags, 0)
}

// openWrite truncate-creates the target for writing
func openWrite(path string, direct bool) (int, error) {
	flags := unix.O_WRONLY | unix.O_CREAT | unix.O_TRUNC | unix.O_CLOEXEC
	if direct {
		flags |= unix.O_DIRECT
	}
	return unix.Open(path, flags, 0600)
}

// statFd reports the current size of the open target and the
// filesystem's preferred io block size
func statFd(fd int) (size int64, blksize int64, err error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return 0, 0, err
	}
	return st.Size, int64(st.Blksize), nil
}
