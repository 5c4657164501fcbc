package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/pagetagger/internal/batch"
	"github.com/lehigh-university-libraries/pagetagger/internal/handlers"
	"github.com/lehigh-university-libraries/pagetagger/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API for triggering runs",
		Long: `Starts the pagetagger API on the specified port.

POST /api/runs starts a run and answers with its summary once it finishes;
only one run executes at a time. GET /api/runs lists past runs, and
POST /api/upload places page scans in the input folder.`,
		Example: `  # Start server on default port 8888
  pagetagger serve

  # Start server on custom port
  pagetagger serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(&flags)
			if err != nil {
				return err
			}
			runner, err := buildRunner(cfg)
			if err != nil {
				return err
			}
			store, err := storage.Load(cfg.Paths.OutputDir)
			if err != nil {
				return err
			}

			handler := handlers.New(store, func(ctx context.Context) (*batch.Summary, error) {
				return runner.Run(ctx)
			}, handlers.Options{
				InputDir:  cfg.Paths.InputDir,
				OutputDir: cfg.Paths.OutputDir,
				Extension: cfg.Run.Extension,
			})

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/runs", handler.HandleRuns)
			mux.HandleFunc("/api/runs/", handler.HandleRunDetail)
			mux.HandleFunc("/api/upload", handler.HandleUpload)
			mux.Handle("/files/", handler.HandleFiles())
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Pagetagger API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// a run in progress is allowed to finish its export
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	addRunFlags(cmd, &flags)

	return cmd
}
