package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
)

// relocate moves src into dir under the same basename. An existing
// destination is never overwritten.
func relocate(src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))

	if _, err := os.Lstat(dst); err == nil {
		return "", fmt.Errorf("destination %s already exists", dst)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to check destination: %w", err)
	}

	if err := os.Rename(src, dst); err == nil {
		return dst, nil
	}

	// rename fails across devices; fall back to copy then remove
	if err := copy.Copy(src, dst, copy.Options{Sync: true, PreserveTimes: true}); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := os.Remove(src); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to remove source after copy: %w", err)
	}

	return dst, nil
}
