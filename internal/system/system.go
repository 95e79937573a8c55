// Package system provides host-level helpers: filesystem statistics for
// destruction targets and the privilege check used by the security preflight.
package system

import (
	"os"
)

// FSInfo describes the filesystem backing a destruction target.
type FSInfo struct {
	Path       string
	TotalBytes uint64
	FreeBytes  uint64
}

// IsRoot reports whether the process runs with effective root privileges.
func IsRoot() bool {
	return os.Geteuid() == 0
}
