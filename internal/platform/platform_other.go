//go:build !unix && !windows

package platform

import "runtime"

func probeOSName() string {
	return runtime.GOOS
}
