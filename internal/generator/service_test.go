package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roomstudio/visualizer/internal/catalog"
	"github.com/roomstudio/visualizer/internal/gallery"
	"github.com/roomstudio/visualizer/internal/gemini"
	"github.com/roomstudio/visualizer/internal/imagestore"
	"github.com/roomstudio/visualizer/internal/models"
)

const roomCSV = `Design Style,Representative Architects,Representative Interior Designers,Architectural elements for rooms,Living Room (2M+),Dining Room (2M+),Kitchen (2M+),Bathroom (2M+)
Art Deco,Frank Lloyd Wright,Kelly Wearstler,Stepped ceilings,Velvet seating,Mirrored table,Brass cabinetry,Marble vanity
`

const colorCSV = `Design Style,Category,Mood,Undertone,Designer Note,Light,Medium,Dark
Art Deco,Dominant (60%),Glamorous,Warm,Lean into geometry,warm ivory,champagne,charcoal
`

// fakeGenerator fails rooms whose humanized name appears in failRooms and
// returns a successful outcome with no payload for rooms in emptyRooms, which
// forces the storage-failure path downstream.
type fakeGenerator struct {
	failRooms  []string
	emptyRooms []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt, qualityTierID, aspectRatioID string) gemini.Outcome {
	if ctx.Err() != nil {
		return gemini.Outcome{Prompt: prompt, Reason: "Generation API failed or returned no image."}
	}
	for _, room := range f.failRooms {
		if strings.Contains(prompt, "photorealistic "+room+" interior") {
			return gemini.Outcome{Prompt: prompt, Reason: "Generation API failed or returned no image."}
		}
	}
	for _, room := range f.emptyRooms {
		if strings.Contains(prompt, "photorealistic "+room+" interior") {
			return gemini.Outcome{Success: true, MimeType: "image/png", ModelUsed: "gemini-2.5-flash-image", Prompt: prompt}
		}
	}
	return gemini.Outcome{
		Success:   true,
		Data:      []byte("fake image bytes"),
		MimeType:  "image/png",
		ModelUsed: "gemini-2.5-flash-image",
		Prompt:    prompt,
	}
}

// cancellingGenerator succeeds once, then cancels the batch context so later
// rooms observe a hung-up caller.
type cancellingGenerator struct {
	cancel context.CancelFunc
	calls  int
}

func (g *cancellingGenerator) Generate(ctx context.Context, prompt, qualityTierID, aspectRatioID string) gemini.Outcome {
	if ctx.Err() != nil {
		return gemini.Outcome{Prompt: prompt, Reason: "Generation API failed or returned no image."}
	}
	g.calls++
	if g.calls == 1 {
		g.cancel()
	}
	return gemini.Outcome{
		Success:   true,
		Data:      []byte("fake image bytes"),
		MimeType:  "image/png",
		ModelUsed: "gemini-2.5-flash-image",
		Prompt:    prompt,
	}
}

func newTestService(t *testing.T, gen gemini.Generator) (*Service, *gallery.Store, *imagestore.Store) {
	t.Helper()
	return newTestServiceWorkers(t, gen, 3)
}

func newTestServiceWorkers(t *testing.T, gen gemini.Generator, workers int) (*Service, *gallery.Store, *imagestore.Store) {
	t.Helper()
	dir := t.TempDir()

	dataDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "room_creator.csv"), []byte(roomCSV), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "color_palettes.csv"), []byte(colorCSV), 0644); err != nil {
		t.Fatal(err)
	}
	cat, err := catalog.Load(dataDir)
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}

	images, err := imagestore.New(filepath.Join(dir, "images", "sessions"))
	if err != nil {
		t.Fatalf("creating image store: %v", err)
	}
	store, err := gallery.New(filepath.Join(dir, "gallery_data.json"))
	if err != nil {
		t.Fatalf("creating gallery store: %v", err)
	}

	return NewService(cat, gen, images, store, workers), store, images
}

func baseRequest(rooms ...string) models.GenerateRequest {
	return models.GenerateRequest{
		RoomTypeIDs:    rooms,
		DesignStyleID:  "art-deco",
		ArchitectID:    "frank-lloyd-wright",
		DesignerID:     "kelly-wearstler",
		ColorWheelID:   "light",
		AspectRatioID:  "1:1",
		ImageQualityID: "2k",
	}
}

func TestRunPartialFailure(t *testing.T) {
	svc, store, _ := newTestService(t, &fakeGenerator{failRooms: []string{"Kitchen"}})

	batch, err := svc.Run(context.Background(), baseRequest("living-room", "kitchen", "bathroom"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(batch.Results) != 3 {
		t.Fatalf("Run() results = %d, want 3", len(batch.Results))
	}
	if batch.Session == nil {
		t.Fatal("Run() did not commit a session")
	}
	if len(batch.Session.Images) != 3 {
		t.Fatalf("session images = %d, want 3", len(batch.Session.Images))
	}

	byRoom := map[string]models.RoomResult{}
	for _, r := range batch.Results {
		byRoom[r.RoomTypeID] = r
	}
	if byRoom["kitchen"].Result.Success {
		t.Error("kitchen result should have failed")
	}
	if byRoom["kitchen"].Result.Prompt == "" {
		t.Error("failed result must retain its prompt for diagnostics")
	}
	if !byRoom["living-room"].Result.Success || !byRoom["bathroom"].Result.Success {
		t.Error("surviving rooms should have succeeded")
	}

	for _, img := range batch.Session.Images {
		if img.RoomType.ID == "kitchen" {
			if img.URL != placeholderGeneration {
				t.Errorf("failed room url = %s, want generation placeholder", img.URL)
			}
		} else if !strings.HasPrefix(img.URL, imagestore.URLPrefix) {
			t.Errorf("stored room url = %s, want %s prefix", img.URL, imagestore.URLPrefix)
		}
	}

	// Results keep request order
	wantOrder := []string{"living-room", "kitchen", "bathroom"}
	for i, r := range batch.Results {
		if r.RoomTypeID != wantOrder[i] {
			t.Errorf("results[%d] = %s, want %s", i, r.RoomTypeID, wantOrder[i])
		}
	}

	sessions, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != batch.Session.ID {
		t.Errorf("gallery should hold exactly the committed session, got %d", len(sessions))
	}
}

func TestRunAllFailed(t *testing.T) {
	svc, store, _ := newTestService(t, &fakeGenerator{failRooms: []string{"Living Room", "Kitchen"}})

	_, err := svc.Run(context.Background(), baseRequest("living-room", "kitchen"))
	if !errors.Is(err, ErrBatchExhausted) {
		t.Fatalf("Run() error = %v, want ErrBatchExhausted", err)
	}

	sessions, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("no session must be created for an exhausted batch, got %d", len(sessions))
	}
}

func TestRunStorageFailureIsDistinct(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGenerator{emptyRooms: []string{"Bathroom"}})

	batch, err := svc.Run(context.Background(), baseRequest("living-room", "bathroom"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	byRoom := map[string]models.RoomResult{}
	for _, r := range batch.Results {
		byRoom[r.RoomTypeID] = r
	}
	if byRoom["bathroom"].Result.Success {
		t.Error("storage failure must not report success")
	}
	if byRoom["bathroom"].Result.Error != "Image storage failed" {
		t.Errorf("storage failure reason = %q, want distinct storage label", byRoom["bathroom"].Result.Error)
	}

	for _, img := range batch.Session.Images {
		if img.RoomType.ID == "bathroom" && img.URL != placeholderStorage {
			t.Errorf("storage-failed room url = %s, want storage placeholder", img.URL)
		}
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	svc, store, _ := newTestService(t, &fakeGenerator{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, baseRequest("living-room", "kitchen"))
	if !errors.Is(err, ErrBatchExhausted) {
		t.Fatalf("Run() on a dead context = %v, want ErrBatchExhausted", err)
	}

	sessions, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("no session must be created for an exhausted batch, got %d", len(sessions))
	}
}

func TestRunCancelledMidBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One worker keeps rooms strictly in request order: the first room
	// completes, then the caller hangs up on the rest.
	gen := &cancellingGenerator{cancel: cancel}
	svc, _, _ := newTestServiceWorkers(t, gen, 1)

	batch, err := svc.Run(ctx, baseRequest("living-room", "kitchen", "bathroom"))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(batch.Results) != 3 {
		t.Fatalf("Run() results = %d, want 3", len(batch.Results))
	}
	if !batch.Results[0].Result.Success {
		t.Error("room finished before cancellation should have succeeded")
	}
	for _, r := range batch.Results[1:] {
		if r.Result.Success {
			t.Errorf("room %s ran after cancellation, should have failed", r.RoomTypeID)
		}
		if r.Result.Error == "" {
			t.Errorf("cancelled room %s must carry a failure reason", r.RoomTypeID)
		}
	}

	if batch.Session == nil {
		t.Fatal("partial batch with one success must still commit a session")
	}
	if len(batch.Session.Images) != 3 {
		t.Fatalf("session images = %d, want 3", len(batch.Session.Images))
	}
	for _, img := range batch.Session.Images[1:] {
		if img.URL != placeholderGeneration {
			t.Errorf("cancelled room url = %s, want generation placeholder", img.URL)
		}
	}
}

func TestRunNoRooms(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGenerator{})
	if _, err := svc.Run(context.Background(), baseRequest()); !errors.Is(err, ErrNoRooms) {
		t.Errorf("Run() error = %v, want ErrNoRooms", err)
	}
}

func TestRunSessionRecord(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGenerator{})

	req := baseRequest("dining-room")
	req.ImageQualityID = "ultra" // unknown tier
	batch, err := svc.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	s := batch.Session
	if s.DesignStyle.Name != "Art Deco" || s.Architect.Name != "Frank Lloyd Wright" || s.Designer.Name != "Kelly Wearstler" {
		t.Errorf("humanized reference names wrong: %+v", s)
	}
	if s.ImageQuality != "1K" {
		t.Errorf("unknown tier label = %s, want lowest-tier label 1K", s.ImageQuality)
	}
	if s.ColorWheel != "light" || s.AspectRatio != "1:1" {
		t.Errorf("session echoes request values, got %+v", s)
	}
	if len(s.Images) != 1 || s.Images[0].Selected {
		t.Errorf("session image should default to unselected: %+v", s.Images)
	}
}
