//go:build linux || darwin

package system

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// StatFS returns filesystem statistics for the filesystem containing path.
func StatFS(path string) (*FSInfo, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return nil, fmt.Errorf("statfs %s: %w", path, err)
	}

	bsize := uint64(st.Bsize)
	return &FSInfo{
		Path:       path,
		TotalBytes: bsize * st.Blocks,
		FreeBytes:  bsize * st.Bavail,
	}, nil
}
