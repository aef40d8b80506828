package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/roomstudio/visualizer/internal/catalog"
	"github.com/roomstudio/visualizer/internal/config"
	"github.com/roomstudio/visualizer/internal/gallery"
	"github.com/roomstudio/visualizer/internal/gemini"
	"github.com/roomstudio/visualizer/internal/generator"
	"github.com/roomstudio/visualizer/internal/handlers"
	"github.com/roomstudio/visualizer/internal/imagestore"
)

func newServeCmd() *cobra.Command {
	var port string
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the room scene visualizer API server",
		Long: `Starts the visualizer API on the specified port.

The API accepts batch generation requests, serves stored session images and
exposes the gallery of past generation sessions.`,
		Example: `  # Start server on default port 8888
  visualizer serve

  # Start server on custom port with explicit config
  visualizer serve --port 3000 --config config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			cat, err := catalog.Load(cfg.DataPath())
			if err != nil {
				return fmt.Errorf("failed to load design catalog: %w", err)
			}

			images, err := imagestore.New(cfg.ImageStoragePath())
			if err != nil {
				return err
			}

			store, err := gallery.New(cfg.GalleryPath())
			if err != nil {
				return err
			}

			gen, err := gemini.New(cmd.Context(), cfg.DataPath())
			if err != nil {
				return err
			}

			svc := generator.NewService(cat, gen, images, store, cfg.GenerateWorkers)
			handler := handlers.New(cat, store, images, svc, cfg.AllowedOrigins)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/generate", handler.HandleGenerate)
			mux.HandleFunc("/api/gallery/sessions", handler.HandleGallerySessions)
			mux.HandleFunc("/api/gallery/sessions/", handler.HandleGallerySessionDetail)
			mux.HandleFunc("/api/images/sessions/", handler.HandleImage)
			mux.HandleFunc("/api/options", handler.HandleOptions)
			mux.HandleFunc("/api/styles", handler.HandleStyles)
			mux.HandleFunc("/api/architects", handler.HandleArchitects)
			mux.HandleFunc("/api/designers", handler.HandleDesigners)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: handler.CORS(mux),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Visualizer API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
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

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to YAML config file")

	return cmd
}
