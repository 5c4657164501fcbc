package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/pagetagger/internal/batch"
	"github.com/lehigh-university-libraries/pagetagger/internal/export"
	"github.com/lehigh-university-libraries/pagetagger/internal/models"
	"github.com/lehigh-university-libraries/pagetagger/internal/storage"
)

func newMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/runs", h.HandleRuns)
	mux.HandleFunc("/api/runs/", h.HandleRunDetail)
	mux.HandleFunc("/api/upload", h.HandleUpload)
	mux.Handle("/files/", h.HandleFiles())
	return mux
}

func TestTriggerRun(t *testing.T) {
	store := storage.New()
	run := func(context.Context) (*batch.Summary, error) {
		return &batch.Summary{ID: "r1", Run: models.RunIdentity{Number: 1, FolderName: "Run 1 - X"}, Processed: 2}, nil
	}
	mux := newMux(New(store, run, Options{}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/runs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp RunResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Summary == nil || resp.Summary.ID != "r1" || !strings.Contains(resp.Output, "Run 1 - X") {
		t.Errorf("Unexpected response %+v", resp)
	}
	if _, ok := store.Get("r1"); !ok {
		t.Error("Expected run to be stored")
	}
}

func TestTriggerRunBusy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	run := func(context.Context) (*batch.Summary, error) {
		close(started)
		<-release
		return &batch.Summary{ID: "slow"}, nil
	}
	mux := newMux(New(storage.New(), run, Options{}))

	done := make(chan int)
	go func() {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/runs", nil))
		done <- rec.Code
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not start")
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/runs", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 while busy, got %d", rec.Code)
	}

	close(release)
	if code := <-done; code != http.StatusOK {
		t.Errorf("Expected first run to succeed, got %d", code)
	}
}

func TestTriggerRunErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "fatal", err: errors.New("preflight check failed"), want: http.StatusInternalServerError},
		{name: "locked elsewhere", err: batch.ErrRunInProgress, want: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := func(context.Context) (*batch.Summary, error) { return nil, tt.err }
			rec := httptest.NewRecorder()
			newMux(New(storage.New(), run, Options{})).ServeHTTP(rec, httptest.NewRequest("POST", "/api/runs", nil))

			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
			var resp RunResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Error == "" || !strings.Contains(resp.Output, "Error:") {
				t.Errorf("Expected error text, got %+v", resp)
			}
		})
	}
}

func TestRunDetail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metadata.xlsx")
	record := models.ImageRecord{
		Filename: "W_2021_iss1_Page1.jpg", SourceTitle: "W", SourceNumber: "1", PageNumber: "1", Date: "2021",
		Title: "t", Description: "AI-Generated: d", Filetype: ".jpg", Filesize: "1", Dimensions: "1 x 1",
		Caption: "c", Keywords: "k",
	}
	if err := export.Write(path, []models.ImageRecord{record}, export.FormatXLSX); err != nil {
		t.Fatal(err)
	}

	store := storage.New()
	store.Set(&batch.Summary{ID: "r1", ExportPath: path, Processed: 1})
	mux := newMux(New(store, nil, Options{}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/runs/r1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var got batch.Summary
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Records) != 1 || got.Records[0] != record {
		t.Errorf("Expected records read from export, got %+v", got.Records)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/runs/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/runs", nil))
	var list []batch.Summary
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "r1" {
		t.Errorf("Unexpected run list %+v", list)
	}
}

func uploadRequest(t *testing.T, names ...string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, n := range names {
		part, err := mw.CreateFormFile("files", n)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte("data"))
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	in := filepath.Join(t.TempDir(), "input")
	mux := newMux(New(storage.New(), nil, Options{InputDir: in}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "W_2021_iss1_Page1.jpg", "W_2021_iss1_Page2.jpg"))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	for _, n := range []string{"W_2021_iss1_Page1.jpg", "W_2021_iss1_Page2.jpg"} {
		if _, err := os.Stat(filepath.Join(in, n)); err != nil {
			t.Errorf("Expected %s in input: %v", n, err)
		}
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "W_2021_iss1_Page1.jpg"))
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 for existing file, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, uploadRequest(t, "scan.png"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for wrong extension, got %d", rec.Code)
	}
}

func TestFiles(t *testing.T) {
	out := t.TempDir()
	if err := os.WriteFile(filepath.Join(out, "hello.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	mux := newMux(New(storage.New(), nil, Options{OutputDir: out}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/files/hello.txt", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "hi" {
		t.Errorf("Unexpected response %d %q", rec.Code, rec.Body.String())
	}
}
