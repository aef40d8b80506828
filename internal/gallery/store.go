package gallery

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"github.com/roomstudio/visualizer/internal/models"
)

// ErrNotFound is returned by GetByID for unknown session ids.
var ErrNotFound = errors.New("session not found")

const cacheKey = "sessions"

var validColorWheels = map[string]bool{
	"light":  true,
	"medium": true,
	"dark":   true,
}

var validQualities = map[string]bool{
	"1k": true,
	"2k": true,
	"4k": true,
}

type document struct {
	Sessions []models.Session `json:"sessions"`
}

// Store keeps the session gallery in a single JSON document. Every load
// validates the stored sessions against the current schema and silently drops
// anything malformed; when that happens the sanitized list is persisted back,
// so corrupt or legacy-shaped entries cannot reappear after one load cycle.
//
// Whole-document read-modify-write is the persistence model, so all mutations
// are serialized behind one mutex. A read-through cache avoids re-reading the
// file on every call and is replaced with the freshly persisted data on write.
type Store struct {
	path  string
	mu    sync.Mutex
	cache *gocache.Cache
}

// New creates the backing document if it does not exist yet.
func New(path string) (*Store, error) {
	s := &Store{
		path:  path,
		cache: gocache.New(gocache.NoExpiration, 0),
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.persist(document{Sessions: []models.Session{}}); err != nil {
			return nil, fmt.Errorf("failed to initialize gallery file: %w", err)
		}
	}
	return s, nil
}

// List returns all valid sessions, newest first.
func (s *Store) List() ([]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// GetByID returns one session or ErrNotFound.
func (s *Store) GetByID(id string) (*models.Session, error) {
	sessions, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i], nil
		}
	}
	return nil, ErrNotFound
}

// Add appends a session to the gallery. Load, validate, append and persist
// happen under one lock so concurrent adds cannot lose updates.
func (s *Store) Add(session models.Session) error {
	if reason, ok := validate(session); !ok {
		return fmt.Errorf("refusing to store invalid session %s: %s", session.ID, reason)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadLocked()
	if err != nil {
		return err
	}

	// Copy before mutating: slices handed out by loadLocked may still be in
	// readers' hands.
	next := make([]models.Session, len(sessions), len(sessions)+1)
	copy(next, sessions)
	next = append(next, session)
	sortNewestFirst(next)

	if err := s.persist(document{Sessions: next}); err != nil {
		return err
	}
	s.cache.Set(cacheKey, next, gocache.NoExpiration)
	return nil
}

// loadLocked reads, validates and orders the stored sessions. Callers hold mu.
func (s *Store) loadLocked() ([]models.Session, error) {
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]models.Session), nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Session{}, nil
		}
		return nil, fmt.Errorf("failed to read gallery file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Error("Gallery file is not valid JSON, treating as empty", "path", s.path, "err", err)
		doc.Sessions = nil
	}

	valid := make([]models.Session, 0, len(doc.Sessions))
	dropped := 0
	for _, sess := range doc.Sessions {
		if reason, ok := validate(sess); !ok {
			dropped++
			slog.Warn("Dropping invalid gallery session", "session_id", sess.ID, "reason", reason)
			continue
		}
		valid = append(valid, sess)
	}
	sortNewestFirst(valid)

	if dropped > 0 {
		slog.Info("Sanitized gallery document", "dropped", dropped, "kept", len(valid))
		if err := s.persist(document{Sessions: valid}); err != nil {
			return nil, fmt.Errorf("failed to persist sanitized gallery: %w", err)
		}
	}

	s.cache.Set(cacheKey, valid, gocache.NoExpiration)
	return valid, nil
}

func (s *Store) persist(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode gallery document: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write gallery file: %w", err)
	}
	return nil
}

func sortNewestFirst(sessions []models.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt > sessions[j].CreatedAt
	})
}

// validate checks a stored session against the schema. Matching for the
// enumerated fields is case- and whitespace-insensitive so legacy entries
// with display-cased values ("Light", " 2K ") survive.
func validate(s models.Session) (reason string, ok bool) {
	if s.ID == "" {
		return "missing id", false
	}
	if !validColorWheels[normalize(s.ColorWheel)] {
		return "unknown color intensity: " + s.ColorWheel, false
	}
	if !validQualities[normalize(s.ImageQuality)] {
		return "unknown image quality: " + s.ImageQuality, false
	}
	for _, ref := range []models.Reference{s.DesignStyle, s.Architect, s.Designer} {
		if ref.ID == "" {
			return "reference object missing id", false
		}
	}
	if len(s.Images) == 0 {
		return "session has no images", false
	}
	for _, img := range s.Images {
		if img.URL == "" {
			return "image missing url", false
		}
		if img.RoomType.ID == "" {
			return "image roomType missing id", false
		}
	}
	return "", true
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
