package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/karrick/godirwalk"
	"github.com/lehigh-university-libraries/pagetagger/internal/batch"
	"github.com/lehigh-university-libraries/pagetagger/internal/runs"
)

// RunStore keeps the summaries of finished runs, keyed by run ID
type RunStore struct {
	runs map[string]*batch.Summary
	mu   sync.RWMutex
}

func New() *RunStore {
	return &RunStore{
		runs: make(map[string]*batch.Summary),
	}
}

// Load reads run.yaml from every run folder under outputRoot. Run folders
// without a summary are skipped.
func Load(outputRoot string) (*RunStore, error) {
	s := New()

	if _, err := os.Stat(outputRoot); errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}

	dirents, err := godirwalk.ReadDirents(outputRoot, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list output directory: %w", err)
	}

	for _, de := range dirents {
		if !de.IsDir() {
			continue
		}
		if _, ok := runs.RunNumber(de.Name()); !ok {
			continue
		}
		summary, err := batch.LoadSummary(filepath.Join(outputRoot, de.Name(), batch.SummaryFilename))
		if err != nil {
			slog.Debug("Skipping run folder", "folder", de.Name(), "err", err)
			continue
		}
		s.Set(summary)
	}

	return s, nil
}

func (s *RunStore) Get(id string) (*batch.Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, exists := s.runs[id]
	return summary, exists
}

func (s *RunStore) Set(summary *batch.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[summary.ID] = summary
}

// List returns every run, newest run number first
func (s *RunStore) List() []*batch.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*batch.Summary, 0, len(s.runs))
	for _, v := range s.runs {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Run.Number > result[j].Run.Number
	})
	return result
}
