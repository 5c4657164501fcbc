// Package batch drives one run over the input folder: version the run,
// annotate every eligible page, then export what succeeded.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/karrick/godirwalk"
	"github.com/lehigh-university-libraries/pagetagger/internal/export"
	"github.com/lehigh-university-libraries/pagetagger/internal/models"
	"github.com/lehigh-university-libraries/pagetagger/internal/runs"
)

const (
	DefaultExtension = ".jpg"
	LockFilename     = ".pagetagger.lock"
)

// ErrRunInProgress is returned when another run holds the output root lock
var ErrRunInProgress = errors.New("another run is already using this output folder")

// Processor annotates one file and moves it into the run folder
type Processor interface {
	Process(ctx context.Context, imagePath, outputDir string) (models.ImageRecord, error)
}

type Options struct {
	InputDir  string
	OutputDir string
	Extension string
	Workers   int
	Format    export.Format

	// Preflight runs before the run folder is created; an error aborts the run.
	Preflight func(context.Context) error
	Now       func() time.Time
}

type Runner struct {
	processor Processor
	opts      Options
}

func NewRunner(processor Processor, opts Options) *Runner {
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Format == "" {
		opts.Format = export.FormatXLSX
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{processor: processor, opts: opts}
}

// Run performs one batch run. Per-file failures are collected in the
// summary; the returned error is reserved for failures that stop the run.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if err := os.MkdirAll(r.opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(r.opts.OutputDir, LockFilename))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire output lock: %w", err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("Failed to release output lock", "err", err)
		}
	}()

	if r.opts.Preflight != nil {
		if err := r.opts.Preflight(ctx); err != nil {
			return nil, fmt.Errorf("preflight check failed: %w", err)
		}
	}

	files, err := ListInputs(r.opts.InputDir, r.opts.Extension)
	if err != nil {
		return nil, err
	}

	started := r.opts.Now()
	identity, err := runs.Next(r.opts.OutputDir, started)
	if err != nil {
		return nil, err
	}
	runDir := filepath.Join(r.opts.OutputDir, identity.FolderName)
	if err := os.Mkdir(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run folder: %w", err)
	}

	summary := &Summary{
		ID:         uuid.New().String(),
		Run:        identity,
		InputDir:   r.opts.InputDir,
		OutputDir:  runDir,
		ExportPath: filepath.Join(runDir, r.opts.Format.Filename()),
		StartedAt:  started,
		Matched:    len(files),
		Failures:   []Failure{},
	}

	slog.Info("Starting run", "run", identity.FolderName, "files", len(files), "workers", r.opts.Workers)

	records, failures, interrupted := r.process(ctx, files, runDir)
	summary.Records = records
	summary.Processed = len(records)
	summary.Failures = append(summary.Failures, failures...)
	summary.Interrupted = interrupted

	if err := export.Write(summary.ExportPath, records, r.opts.Format); err != nil {
		return summary, fmt.Errorf("failed to export metadata: %w", err)
	}

	summary.FinishedAt = r.opts.Now()
	if err := SaveSummary(filepath.Join(runDir, SummaryFilename), summary); err != nil {
		return summary, err
	}

	slog.Info("Run complete",
		"run", identity.FolderName,
		"processed", summary.Processed,
		"failed", len(summary.Failures),
		"interrupted", summary.Interrupted,
		"export", summary.ExportPath)

	return summary, nil
}

type outcome struct {
	record  models.ImageRecord
	err     error
	started bool
}

func (r *Runner) process(ctx context.Context, files []string, runDir string) ([]models.ImageRecord, []Failure, bool) {
	outcomes := make([]outcome, len(files))

	// files already started run to completion even after cancellation
	work := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, r.opts.Workers)
	interrupted := false

	for i, path := range files {
		semaphore <- struct{}{} // Acquire
		if ctx.Err() != nil {
			<-semaphore
			interrupted = true
			break
		}

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-semaphore }() // Release

			name := filepath.Base(path)
			slog.Info("Processing image", "file", name, "index", i+1, "total", len(files))

			record, err := r.processor.Process(work, path, runDir)
			outcomes[i] = outcome{record: record, err: err, started: true}
		}(i, path)
	}
	wg.Wait()

	var records []models.ImageRecord
	var failures []Failure
	for i, o := range outcomes {
		if !o.started {
			continue
		}
		name := filepath.Base(files[i])
		if o.err != nil {
			f := newFailure(name, o.err)
			slog.Warn("Image failed", "file", name, "stage", f.Stage, "kind", f.Kind, "err", f.Error)
			failures = append(failures, f)
			continue
		}
		records = append(records, o.record)
	}

	if interrupted {
		slog.Warn("Run interrupted, exporting completed images", "processed", len(records))
	}

	return records, failures, interrupted
}

// ListInputs returns the regular files in dir whose extension is exactly
// ext, sorted by name.
func ListInputs(dir, ext string) ([]string, error) {
	dirents, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list input directory: %w", err)
	}

	var files []string
	for _, de := range dirents {
		if !de.IsRegular() {
			continue
		}
		if filepath.Ext(de.Name()) != ext {
			continue
		}
		files = append(files, filepath.Join(dir, de.Name()))
	}
	sort.Strings(files)

	return files, nil
}
