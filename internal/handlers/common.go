package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/roomstudio/visualizer/internal/catalog"
	"github.com/roomstudio/visualizer/internal/gallery"
	"github.com/roomstudio/visualizer/internal/generator"
	"github.com/roomstudio/visualizer/internal/imagestore"
)

type Handler struct {
	catalog        *catalog.Catalog
	gallery        *gallery.Store
	images         *imagestore.Store
	generator      *generator.Service
	allowedOrigins []string
}

func New(cat *catalog.Catalog, store *gallery.Store, images *imagestore.Store, gen *generator.Service, allowedOrigins []string) *Handler {
	return &Handler{
		catalog:        cat,
		gallery:        store,
		images:         images,
		generator:      gen,
		allowedOrigins: allowedOrigins,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// CORS allows the configured browser origins to call the API.
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && slices.Contains(h.allowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
