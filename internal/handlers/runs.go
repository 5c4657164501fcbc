package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/pagetagger/internal/batch"
	"github.com/lehigh-university-libraries/pagetagger/internal/export"
	"github.com/lehigh-university-libraries/pagetagger/internal/models"
	"github.com/lehigh-university-libraries/pagetagger/internal/report"
)

// RunResponse is returned when a run is triggered over HTTP
type RunResponse struct {
	Summary *batch.Summary `json:"summary,omitempty"`
	Output  string         `json:"output"`
	Error   string         `json:"error,omitempty"`
}

func (h *Handler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		list := h.store.List()
		out := make([]batch.Summary, 0, len(list))
		for _, s := range list {
			item := *s
			item.Records = nil
			out = append(out, item)
		}
		h.writeJSON(w, out)
	case "POST":
		h.triggerRun(w, r)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) triggerRun(w http.ResponseWriter, r *http.Request) {
	if !h.running.TryLock() {
		h.writeJSONStatus(w, http.StatusConflict, RunResponse{Error: "a run is already in progress"})
		return
	}
	defer h.running.Unlock()

	slog.Info("Run requested", "remote", r.RemoteAddr)

	// a disconnecting client must not interrupt the batch
	summary, err := h.run(context.WithoutCancel(r.Context()))
	if summary != nil {
		h.store.Set(summary)
	}

	resp := RunResponse{Summary: summary}
	if summary != nil {
		resp.Output = report.Summary(summary)
	}
	if err != nil {
		resp.Error = err.Error()
		resp.Output += "Error: " + err.Error() + "\n"
		code := http.StatusInternalServerError
		if errors.Is(err, batch.ErrRunInProgress) {
			code = http.StatusConflict
		}
		slog.Error("Run failed", "err", err)
		h.writeJSONStatus(w, code, resp)
		return
	}

	h.writeJSON(w, resp)
}

func (h *Handler) HandleRunDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/runs/")

	summary, ok := h.getRunOrError(w, id)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		detail := *summary
		if len(detail.Records) == 0 && detail.Processed > 0 {
			records, err := readExport(detail.ExportPath)
			if err != nil {
				h.writeError(w, "Failed to read metadata: "+err.Error(), http.StatusInternalServerError)
				return
			}
			detail.Records = records
		}
		h.writeJSON(w, detail)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func readExport(path string) ([]models.ImageRecord, error) {
	var (
		records []models.ImageRecord
		err     error
	)
	switch filepath.Ext(path) {
	case ".parquet":
		_, records, err = export.ReadParquet(path)
	default:
		_, records, err = export.ReadXLSX(path)
	}
	return records, err
}
