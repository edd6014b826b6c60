package fileutil

import (
	"os"
)

// NonEmpty reports whether path names a regular file with size > 0.
func NonEmpty(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}

// RemoveAllBestEffort removes the given paths, ignoring every failure.
// Returns the paths that could not be removed for logging.
func RemoveAllBestEffort(paths []string) []string {
	var failed []string
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			failed = append(failed, path)
		}
	}
	return failed
}
