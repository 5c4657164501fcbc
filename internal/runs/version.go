// Package runs computes run identities from the state of the output root.
package runs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/karrick/godirwalk"
	"github.com/lehigh-university-libraries/pagetagger/internal/models"
)

// TimestampLayout formats run timestamps as DD Month YYYY - HH:MM AM/PM
const TimestampLayout = "02 January 2006 - 03:04 PM"

var runFolder = regexp.MustCompile(`^Run (\d+) - `)

// NextNumber returns one more than the highest run number found among the
// subfolders of root. Names that do not look like run folders are ignored and
// a missing root counts as empty.
func NextNumber(root string) (int, error) {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return 1, nil
	}

	dirents, err := godirwalk.ReadDirents(root, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to read output directory: %w", err)
	}

	highest := 0
	for _, de := range dirents {
		if !de.IsDir() {
			continue
		}
		if n, ok := RunNumber(de.Name()); ok && n > highest {
			highest = n
		}
	}

	return highest + 1, nil
}

// RunNumber extracts the run number from a run folder name
func RunNumber(name string) (int, bool) {
	m := runFolder.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Next computes the identity of the next run under root
func Next(root string, now time.Time) (models.RunIdentity, error) {
	number, err := NextNumber(root)
	if err != nil {
		return models.RunIdentity{}, err
	}
	return NewIdentity(number, now), nil
}

// NewIdentity builds the run identity for a run number and start time
func NewIdentity(number int, now time.Time) models.RunIdentity {
	timestamp := strings.ToUpper(now.Format(TimestampLayout))
	return models.RunIdentity{
		Number:     number,
		Timestamp:  timestamp,
		FolderName: fmt.Sprintf("Run %d - %s", number, timestamp),
	}
}
