package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/lehigh-university-libraries/pagetagger/internal/batch"
	"github.com/lehigh-university-libraries/pagetagger/internal/storage"
)

// RunFunc performs one batch run
type RunFunc func(ctx context.Context) (*batch.Summary, error)

type Options struct {
	InputDir  string
	OutputDir string
	Extension string
}

type Handler struct {
	store *storage.RunStore
	run   RunFunc
	opts  Options

	// held for the duration of a triggered run
	running sync.Mutex
}

func New(store *storage.RunStore, run RunFunc, opts Options) *Handler {
	if opts.Extension == "" {
		opts.Extension = batch.DefaultExtension
	}
	return &Handler{
		store: store,
		run:   run,
		opts:  opts,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// Run helpers
func (h *Handler) getRunOrError(w http.ResponseWriter, id string) (*batch.Summary, bool) {
	summary, exists := h.store.Get(id)
	if !exists {
		h.writeError(w, "Run not found", http.StatusNotFound)
		return nil, false
	}
	return summary, true
}
