// Package report renders run summaries for terminals and the HTTP API.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/lehigh-university-libraries/pagetagger/internal/batch"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// Summary renders the run overview followed by a table of failed files
func Summary(s *batch.Summary) string {
	var b strings.Builder

	status := "complete"
	if s.Interrupted {
		status = "interrupted"
	}

	b.WriteString(renderTable(
		[]string{"Run", "Status", "Matched", "Exported", "Failed", "Duration"},
		[][]string{{
			s.Run.FolderName,
			status,
			strconv.Itoa(s.Matched),
			strconv.Itoa(s.Processed),
			strconv.Itoa(len(s.Failures)),
			s.FinishedAt.Sub(s.StartedAt).Round(time.Second).String(),
		}},
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Metadata: %s\n", s.ExportPath)

	if len(s.Failures) > 0 {
		rows := make([][]string, 0, len(s.Failures))
		for _, f := range s.Failures {
			rows = append(rows, []string{f.File, f.Stage, f.Kind, f.Error})
		}
		b.WriteString(renderTable([]string{"File", "Stage", "Kind", "Error"}, rows, nil))
		b.WriteString("\n")
	}

	return b.String()
}

// Runs renders one line per stored run
func Runs(summaries []*batch.Summary) string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.Run.Number),
			s.Run.Timestamp,
			strconv.Itoa(s.Processed),
			strconv.Itoa(len(s.Failures)),
			s.ID,
		})
	}
	return renderTable(
		[]string{"#", "Started", "Exported", "Failed", "ID"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
	)
}
