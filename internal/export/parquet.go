package export

import (
	"fmt"
	"io"
	"os"

	"github.com/lehigh-university-libraries/pagetagger/internal/models"
	"github.com/parquet-go/parquet-go"
)

func writeParquet(w io.Writer, records []models.ImageRecord) error {
	writer := parquet.NewGenericWriter[models.ImageRecord](w)
	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	return writer.Close()
}

// ReadParquet reads an exported parquet file back into its column names and records
func ReadParquet(path string) ([]string, []models.ImageRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	var header []string
	for _, field := range pf.Schema().Fields() {
		header = append(header, field.Name())
	}

	reader := parquet.NewGenericReader[models.ImageRecord](file)
	defer reader.Close()

	records := make([]models.ImageRecord, 0, pf.NumRows())
	rows := make([]models.ImageRecord, 128)
	for {
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return header, records, nil
}
