//go:build !linux && !darwin

package system

import "fmt"

// StatFS is unsupported on this platform.
func StatFS(path string) (*FSInfo, error) {
	return nil, fmt.Errorf("filesystem statistics not supported on this platform")
}
