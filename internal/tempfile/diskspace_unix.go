//go:build unix

package tempfile

import "golang.org/x/sys/unix"

// availableSpaceMB returns the space available to unprivileged users on the
// filesystem containing path, in megabytes.
func availableSpaceMB(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return uint64(st.Bavail) * uint64(st.Bsize) / (1024 * 1024), nil
}
