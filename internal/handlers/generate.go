package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/roomstudio/visualizer/internal/generator"
	"github.com/roomstudio/visualizer/internal/models"
)

func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	batch, err := h.generator.Run(r.Context(), req)
	switch {
	case errors.Is(err, generator.ErrNoRooms):
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, generator.ErrBatchExhausted):
		h.writeError(w, "No rooms generated", http.StatusInternalServerError)
		return
	case err != nil:
		h.writeError(w, "Generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, models.GenerateResponse{Success: true, Results: batch.Results})
}
