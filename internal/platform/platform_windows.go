//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func probeOSName() string {
	v := windows.RtlGetVersion()
	if v == nil || v.MajorVersion == 0 {
		return "Windows"
	}
	return fmt.Sprintf("Windows %d.%d", v.MajorVersion, v.MinorVersion)
}
