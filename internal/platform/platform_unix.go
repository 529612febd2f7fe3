//go:build unix

package platform

import (
	"runtime"

	"golang.org/x/sys/unix"
)

func probeOSName() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return runtime.GOOS
	}
	if n := unix.ByteSliceToString(uts.Sysname[:]); n != "" {
		return n
	}
	return runtime.GOOS
}
