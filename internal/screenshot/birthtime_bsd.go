//go:build darwin || freebsd

package screenshot

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

const birthTimeSupported = true

func birthTime(path string, _ os.FileInfo) (time.Time, bool, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, false, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	if st.Btim.Sec == 0 && st.Btim.Nsec == 0 {
		return time.Time{}, false, nil
	}
	return time.Unix(st.Btim.Unix()), true, nil
}
