package deps

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// minFreeBytes is the free space floor for the staging directory. Assembled
// clips plus chopped backgrounds rarely exceed this for one document.
const minFreeBytes = 1 << 30

// CheckStagingDir verifies the staging directory exists, is writable, and
// has room for intermediate media.
func CheckStagingDir(path string) Status {
	status := Status{
		Name:        "Staging directory",
		Command:     path,
		Description: "Holds per-document intermediate media",
	}

	info, err := os.Stat(path)
	if err != nil {
		status.Detail = fmt.Sprintf("stat %s: %v", path, err)
		return status
	}
	if !info.IsDir() {
		status.Detail = fmt.Sprintf("%s is not a directory", path)
		return status
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		status.Detail = fmt.Sprintf("insufficient permissions on %s: %v", path, err)
		return status
	}

	free, err := freeBytes(path)
	if err != nil {
		status.Detail = fmt.Sprintf("statfs %s: %v", path, err)
		return status
	}
	if free < minFreeBytes {
		status.Detail = fmt.Sprintf("only %d MiB free, want at least %d MiB", free>>20, int64(minFreeBytes)>>20)
		return status
	}

	status.Available = true
	status.Detail = fmt.Sprintf("%d MiB free", free>>20)
	return status
}

func freeBytes(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
