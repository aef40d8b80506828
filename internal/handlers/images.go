package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/roomstudio/visualizer/internal/imagestore"
)

// HandleImage streams a stored session image. The store's Resolve performs
// the directory-traversal check; anything it rejects is a plain 404.
func (h *Handler) HandleImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path, err := h.images.Resolve(r.URL.Path)
	if err != nil {
		http.Error(w, "Image not found", http.StatusNotFound)
		return
	}

	contentType, ok := imagestore.ContentTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	http.ServeFile(w, r, path)
}
