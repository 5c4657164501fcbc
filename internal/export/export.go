// Package export writes a run's metadata records to a fixed-schema spreadsheet.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/pagetagger/internal/models"
)

// Format is a supported export file format
type Format string

const (
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatXLSX, FormatParquet:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported export format: %s (supported: xlsx, parquet)", s)
	}
}

// Filename returns the metadata file name for the format
func (f Format) Filename() string {
	return "metadata." + string(f)
}

// SchemaError reports a record missing a required export column
type SchemaError struct {
	Row   int
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("record %d is missing required field %s", e.Row, e.Field)
}

// Validate checks every record carries a value for every header column
func Validate(records []models.ImageRecord) error {
	for i, r := range records {
		fields := r.Fields()
		for _, h := range models.Header {
			if v, ok := fields[h]; !ok || v == "" {
				return &SchemaError{Row: i + 1, Field: h}
			}
		}
	}
	return nil
}

// Write validates records and writes them to path in the given format. The
// file appears at path only once fully written.
func Write(path string, records []models.ImageRecord, format Format) error {
	if err := Validate(records); err != nil {
		return err
	}

	var encode func(io.Writer, []models.ImageRecord) error
	switch format {
	case FormatXLSX:
		encode = writeXLSX
	case FormatParquet:
		encode = writeParquet
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}

	return writeAtomic(path, func(w io.Writer) error {
		return encode(w, records)
	})
}

func writeAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".metadata-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary export file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err = write(tmp); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync export file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to finalize export file: %w", err)
	}
	return nil
}
