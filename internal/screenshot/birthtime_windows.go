//go:build windows

package screenshot

import (
	"os"
	"syscall"
	"time"
)

const birthTimeSupported = true

func birthTime(_ string, info os.FileInfo) (time.Time, bool, error) {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, false, nil
	}
	return time.Unix(0, data.CreationTime.Nanoseconds()), true, nil
}
