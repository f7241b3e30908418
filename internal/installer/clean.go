package installer

import (
	"os"
	"syscall"

	"github.com/esm-tools/esm-version-checker/internal/inventory"
)

// CleanCandidates returns the installed known tool binaries that the
// current user owns. Binaries owned by other users (system-wide
// installs) are left alone.
func CleanCandidates(scanner *inventory.Scanner) []string {
	var candidates []string
	for _, tool := range inventory.KnownTools {
		path, found := scanner.Locate(tool)
		if !found {
			continue
		}
		if !userOwns(path) {
			continue
		}
		candidates = append(candidates, path)
	}
	return candidates
}

// RemoveAll deletes the given binaries, returning the first failure
// after attempting every path.
func RemoveAll(paths []string) error {
	var firstErr error
	for _, path := range paths {
		if err := os.Remove(path); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// userOwns reports whether the current user owns the file.
func userOwns(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	return int(stat.Uid) == os.Getuid()
}
