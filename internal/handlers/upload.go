package handlers

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

const maxUploadSize = 50 * 1024 * 1024

// HandleUpload stores uploaded page scans in the input folder for the next run
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.writeError(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	headers := append(r.MultipartForm.File["files"], r.MultipartForm.File["file"]...)
	if len(headers) == 0 {
		h.writeError(w, "No files in upload", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(h.opts.InputDir, 0755); err != nil {
		h.writeError(w, "Failed to create input directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var saved []string
	for _, header := range headers {
		name := filepath.Base(header.Filename)
		if filepath.Ext(name) != h.opts.Extension {
			h.writeError(w, fmt.Sprintf("File %s must have extension %s", name, h.opts.Extension), http.StatusBadRequest)
			return
		}
		if header.Size >= maxUploadSize {
			h.writeError(w, fmt.Sprintf("File %s too large (max 50MB)", name), http.StatusBadRequest)
			return
		}

		if err := h.saveUpload(header, name); err != nil {
			code := http.StatusInternalServerError
			if errors.Is(err, fs.ErrExist) {
				code = http.StatusConflict
			}
			h.writeError(w, "Failed to save "+name+": "+err.Error(), code)
			return
		}
		saved = append(saved, name)
	}

	slog.Info("Stored uploaded pages", "count", len(saved))

	h.writeJSON(w, map[string]any{
		"message": fmt.Sprintf("Successfully uploaded %d image(s)", len(saved)),
		"files":   saved,
	})
}

func (h *Handler) saveUpload(header *multipart.FileHeader, name string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	path := filepath.Join(h.opts.InputDir, name)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, io.LimitReader(src, maxUploadSize)); err != nil {
		dst.Close()
		os.Remove(path)
		return err
	}
	return dst.Close()
}

// HandleFiles serves run folders (relocated pages and metadata) from the output root
func (h *Handler) HandleFiles() http.Handler {
	return http.StripPrefix("/files/", http.FileServer(http.Dir(h.opts.OutputDir)))
}
