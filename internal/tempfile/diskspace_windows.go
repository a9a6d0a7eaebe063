//go:build windows

package tempfile

import "golang.org/x/sys/windows"

// availableSpaceMB returns the space available to the calling user on the
// volume containing path, in megabytes.
func availableSpaceMB(path string) (uint64, error) {
	var freeBytesAvailable uint64
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	if err := windows.GetDiskFreeSpaceEx(pathPtr, &freeBytesAvailable, nil, nil); err != nil {
		return 0, err
	}
	return freeBytesAvailable / (1024 * 1024), nil
}
