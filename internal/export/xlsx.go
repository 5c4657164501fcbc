package export

import (
	"fmt"
	"io"

	"github.com/lehigh-university-libraries/pagetagger/internal/models"
	"github.com/xuri/excelize/v2"
)

func writeXLSX(w io.Writer, records []models.ImageRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(models.Header))
	for i, h := range models.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		fields := r.Fields()
		row := make([]interface{}, len(models.Header))
		for j, h := range models.Header {
			row[j] = fields[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	return f.Write(w)
}

// ReadXLSX reads an exported workbook back into its header and records
func ReadXLSX(path string) ([]string, []models.ImageRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("workbook %s has no header row", path)
	}

	header := rows[0]
	records := make([]models.ImageRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		fields := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				fields[h] = row[i]
			}
		}
		records = append(records, models.RecordFromFields(fields))
	}

	return header, records, nil
}
