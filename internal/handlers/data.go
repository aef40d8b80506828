package handlers

import "net/http"

// Catalog option routes consumed by the generator UI.

func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]interface{}{
		"roomTypes":           h.catalog.RoomTypes(),
		"colorWheelOptions":   h.catalog.ColorWheelOptions(),
		"aspectRatios":        h.catalog.AspectRatios(),
		"imageQualityOptions": h.catalog.ImageQualityOptions(),
	})
}

func (h *Handler) HandleStyles(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.catalog.Styles())
}

func (h *Handler) HandleArchitects(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.catalog.Architects(r.URL.Query().Get("styleId")))
}

func (h *Handler) HandleDesigners(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.catalog.Designers(r.URL.Query().Get("styleId")))
}
