// Package platform identifies the host operating system family.
package platform

import (
	"strings"
	"sync"
)

var (
	nameOnce sync.Once
	name     string
)

// OSName returns the host OS name in the form the rest of the module
// expects: "Windows 10", "Linux", "Darwin" and so on. The value is probed
// once and cached.
func OSName() string {
	nameOnce.Do(func() {
		name = probeOSName()
	})
	return name
}

// IsWindowsName reports whether osName names a Windows-family host.
func IsWindowsName(osName string) bool {
	return strings.HasPrefix(osName, "Windows")
}

// IsWindows reports whether the current host is Windows-family.
func IsWindows() bool {
	return IsWindowsName(OSName())
}
