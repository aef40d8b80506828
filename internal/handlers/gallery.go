package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/roomstudio/visualizer/internal/gallery"
	"github.com/roomstudio/visualizer/internal/models"
)

func (h *Handler) HandleGallerySessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessions, err := h.gallery.List()
	if err != nil {
		h.writeError(w, "Failed to load gallery: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// style and roomType are filtered here; date-range filtering stays with
	// the client, which has richer range semantics.
	style := r.URL.Query().Get("style")
	roomType := r.URL.Query().Get("roomType")
	filtered := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if style != "" && s.DesignStyle.ID != style {
			continue
		}
		if roomType != "" && !sessionHasRoom(s, roomType) {
			continue
		}
		filtered = append(filtered, s)
	}

	h.writeJSON(w, filtered)
}

func (h *Handler) HandleGallerySessionDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := strings.TrimPrefix(r.URL.Path, "/api/gallery/sessions/")
	session, err := h.gallery.GetByID(sessionID)
	if err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			h.writeError(w, "Session not found", http.StatusNotFound)
			return
		}
		h.writeError(w, "Failed to load session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, session)
}

func sessionHasRoom(s models.Session, roomTypeID string) bool {
	return slices.ContainsFunc(s.Images, func(img models.ImageRecord) bool {
		return img.RoomType.ID == roomTypeID
	})
}
