package generator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/roomstudio/visualizer/internal/catalog"
	"github.com/roomstudio/visualizer/internal/gallery"
	"github.com/roomstudio/visualizer/internal/gemini"
	"github.com/roomstudio/visualizer/internal/imagestore"
	"github.com/roomstudio/visualizer/internal/models"
	"github.com/roomstudio/visualizer/internal/prompt"
)

// ErrBatchExhausted signals that no room in the batch produced an image; the
// request fails as a whole and no session is recorded.
var ErrBatchExhausted = errors.New("no rooms generated successfully")

// ErrNoRooms signals an empty room type list.
var ErrNoRooms = errors.New("at least one room type is required")

// Placeholder URLs keep session records structurally complete when a room
// fails. Storage failure after a successful generation is a distinct mode
// from generation failure and is labeled separately.
const (
	placeholderGeneration = "https://placehold.co/1024x1024?text=Generation+Failed"
	placeholderStorage    = "https://placehold.co/1024x1024?text=Storage+Failed"
)

var qualityLabels = map[string]string{
	"1k": "1K",
	"2k": "2K",
	"4k": "4K",
}

// BatchResult aggregates the per-room outcomes of one generate request.
type BatchResult struct {
	Results []models.RoomResult
	Session *models.Session
}

// Service drives a batch generate request: per-room prompt assembly,
// generation, image persistence, and the final gallery commit.
type Service struct {
	catalog *catalog.Catalog
	gen     gemini.Generator
	images  *imagestore.Store
	gallery *gallery.Store
	workers int
}

func NewService(cat *catalog.Catalog, gen gemini.Generator, images *imagestore.Store, store *gallery.Store, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{catalog: cat, gen: gen, images: images, gallery: store, workers: workers}
}

// roomOutcome is the fold unit for one room: the API-facing result plus the
// image record that goes into the session.
type roomOutcome struct {
	result models.RoomResult
	image  models.ImageRecord
}

// Run processes every requested room type, continuing past individual
// failures; partial success is the expected common case. With at least one
// success the batch is committed to the gallery.
func (s *Service) Run(ctx context.Context, req models.GenerateRequest) (*BatchResult, error) {
	if len(req.RoomTypeIDs) == 0 {
		return nil, ErrNoRooms
	}

	sessionID := uuid.NewString()
	outcomes := make([]roomOutcome, len(req.RoomTypeIDs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.workers)
	for i, roomID := range req.RoomTypeIDs {
		eg.Go(func() error {
			// Failures fold into the outcome; a worker never errors, so one
			// bad room cannot cancel its siblings.
			outcomes[i] = s.generateRoom(egCtx, sessionID, roomID, req)
			return nil
		})
	}
	_ = eg.Wait()

	batch := &BatchResult{Results: make([]models.RoomResult, len(outcomes))}
	images := make([]models.ImageRecord, len(outcomes))
	successes := 0
	for i, out := range outcomes {
		batch.Results[i] = out.result
		images[i] = out.image
		if out.result.Result.Success {
			successes++
		}
	}

	if successes == 0 {
		slog.Error("Batch exhausted, no session recorded", "session_id", sessionID, "rooms", len(req.RoomTypeIDs))
		return nil, ErrBatchExhausted
	}

	session := buildSession(sessionID, req, images)
	if err := s.gallery.Add(session); err != nil {
		// The images are already on disk and the caller still gets its
		// results; losing the gallery entry is logged, not propagated.
		slog.Error("Failed to commit session to gallery", "session_id", sessionID, "err", err)
		return batch, nil
	}

	batch.Session = &session
	slog.Info("Generation session committed",
		"session_id", sessionID,
		"rooms", len(req.RoomTypeIDs),
		"successes", successes)
	return batch, nil
}

// generateRoom runs the prompt → generate → store pipeline for one room type.
func (s *Service) generateRoom(ctx context.Context, sessionID, roomID string, req models.GenerateRequest) roomOutcome {
	imageID := uuid.NewString()

	style, _ := s.catalog.StyleByID(req.DesignStyleID)
	p := prompt.Build(prompt.RoomPrompt{
		RoomTypeID:        roomID,
		DesignStyleID:     req.DesignStyleID,
		Style:             style,
		RoomDetail:        s.catalog.RoomDetail(req.DesignStyleID, roomID),
		Palette:           s.catalog.ColorPalette(req.DesignStyleID, req.ColorWheelID),
		ArchitectID:       req.ArchitectID,
		DesignerID:        req.DesignerID,
		ColorWheelID:      req.ColorWheelID,
		AspectRatioID:     req.AspectRatioID,
		FlooringTypeID:    req.FlooringTypeID,
		FloorBoardWidthID: req.FloorBoardWidthID,
	})

	outcome := s.gen.Generate(ctx, p, req.ImageQualityID, req.AspectRatioID)

	var apiResult models.APIResult
	var imageURL string

	switch {
	case !outcome.Success:
		slog.Warn("Room generation failed", "session_id", sessionID, "room", roomID, "reason", outcome.Reason)
		imageURL = placeholderGeneration
		apiResult = models.APIResult{Error: outcome.Reason, Prompt: outcome.Prompt}
	default:
		url, err := s.images.Save(sessionID, roomID, imageID, outcome.Data, outcome.MimeType)
		if err != nil {
			slog.Error("Image generated but not persisted", "session_id", sessionID, "room", roomID, "err", err)
			imageURL = placeholderStorage
			apiResult = models.APIResult{Error: "Image storage failed", Prompt: outcome.Prompt}
		} else {
			imageURL = url
			apiResult = models.APIResult{
				Success:   true,
				Data:      url,
				ModelUsed: outcome.ModelUsed,
				Prompt:    outcome.Prompt,
			}
		}
	}

	return roomOutcome{
		result: models.RoomResult{RoomTypeID: roomID, Result: apiResult},
		image: models.ImageRecord{
			ID:       imageID,
			RoomType: models.Reference{ID: roomID, Name: prompt.Humanize(roomID)},
			URL:      imageURL,
		},
	}
}

// buildSession assembles the gallery record. Display names use the same
// humanization fallback as the prompt builder; the quality label for an
// unknown tier follows the client's lowest-tier fallback so the stored value
// stays inside the validated set.
func buildSession(sessionID string, req models.GenerateRequest, images []models.ImageRecord) models.Session {
	label, ok := qualityLabels[req.ImageQualityID]
	if !ok {
		label = qualityLabels["1k"]
	}

	return models.Session{
		ID:           sessionID,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		DesignStyle:  models.Reference{ID: req.DesignStyleID, Name: prompt.Humanize(req.DesignStyleID)},
		Architect:    models.Reference{ID: req.ArchitectID, Name: prompt.Humanize(req.ArchitectID)},
		Designer:     models.Reference{ID: req.DesignerID, Name: prompt.Humanize(req.DesignerID)},
		ColorWheel:   req.ColorWheelID,
		AspectRatio:  req.AspectRatioID,
		ImageQuality: label,
		Images:       images,
	}
}
