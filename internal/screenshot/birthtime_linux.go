//go:build linux

package screenshot

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

const birthTimeSupported = true

// birthTime asks statx for the creation time. Kernels and filesystems that do
// not track it leave STATX_BTIME out of the returned mask.
func birthTime(path string, _ os.FileInfo) (time.Time, bool, error) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx)
	if err != nil {
		if errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EPERM) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, &os.PathError{Op: "statx", Path: path, Err: err}
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, false, nil
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), true, nil
}
