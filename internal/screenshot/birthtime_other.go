//go:build !linux && !darwin && !freebsd && !windows

package screenshot

import (
	"os"
	"time"
)

const birthTimeSupported = false

func birthTime(string, os.FileInfo) (time.Time, bool, error) {
	return time.Time{}, false, nil
}
