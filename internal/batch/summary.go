package batch

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lehigh-university-libraries/pagetagger/internal/models"
	"github.com/lehigh-university-libraries/pagetagger/internal/pipeline"
	"gopkg.in/yaml.v3"
)

// SummaryFilename is written into every run folder after the export
const SummaryFilename = "run.yaml"

// Failure records one file that did not make it into the export
type Failure struct {
	File  string `json:"file" yaml:"file"`
	Stage string `json:"stage" yaml:"stage"`
	Kind  string `json:"kind" yaml:"kind"`
	Error string `json:"error" yaml:"error"`
}

// Summary describes one finished batch run
type Summary struct {
	ID          string               `json:"id" yaml:"id"`
	Run         models.RunIdentity   `json:"run" yaml:"run"`
	InputDir    string               `json:"input_dir" yaml:"inputdir"`
	OutputDir   string               `json:"output_dir" yaml:"outputdir"`
	ExportPath  string               `json:"export_path" yaml:"exportpath"`
	StartedAt   time.Time            `json:"started_at" yaml:"startedat"`
	FinishedAt  time.Time            `json:"finished_at" yaml:"finishedat"`
	Matched     int                  `json:"matched" yaml:"matched"`
	Processed   int                  `json:"processed" yaml:"processed"`
	Failures    []Failure            `json:"failures" yaml:"failures"`
	Interrupted bool                 `json:"interrupted" yaml:"interrupted"`
	Records     []models.ImageRecord `json:"records,omitempty" yaml:"-"`
}

// Failed reports whether any file failed or the run was interrupted
func (s *Summary) Failed() bool {
	return len(s.Failures) > 0 || s.Interrupted
}

// SaveSummary writes the summary as YAML
func SaveSummary(path string, s *Summary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}
	return nil
}

// LoadSummary reads a run.yaml written by SaveSummary
func LoadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run summary: %w", err)
	}
	var s Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse run summary: %w", err)
	}
	return &s, nil
}

func newFailure(file string, err error) Failure {
	f := Failure{File: file, Kind: "Error", Error: err.Error()}

	var fileErr *pipeline.FileError
	if errors.As(err, &fileErr) {
		f.Stage = string(fileErr.Stage)
		f.Error = fileErr.Err.Error()
	}

	switch {
	case errors.Is(err, pipeline.ErrMetadataFormat):
		f.Kind = "MetadataFormatError"
	case errors.Is(err, pipeline.ErrImageOpen):
		f.Kind = "ImageOpenError"
	case errors.Is(err, pipeline.ErrExternalService):
		f.Kind = "ExternalServiceError"
	case errors.Is(err, pipeline.ErrRelocation):
		f.Kind = "RelocationError"
	}

	return f
}
