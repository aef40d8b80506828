package imagestore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// URLPrefix is the servable path prefix for stored session images.
const URLPrefix = "/api/images/sessions/"

// ErrNotFound is returned by Resolve for unknown, malformed or escaping paths.
var ErrNotFound = errors.New("image not found")

// ErrEmptyPayload signals a contract violation: Save called without bytes.
var ErrEmptyPayload = errors.New("image payload is required")

// ErrUnsafeID signals an identifier that is not a plain path segment. Ids
// reach Save straight from client requests, so the write side guards against
// traversal the same way Resolve guards the read side.
var ErrUnsafeID = errors.New("identifier is not a safe path segment")

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ContentTypes maps stored file extensions back to media types for serving.
var ContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// Store persists generated image bytes under a per-session directory and maps
// them to servable relative URLs.
type Store struct {
	baseDir string
}

// New creates the storage root if needed.
func New(baseDir string) (*Store, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &Store{baseDir: abs}, nil
}

// Save writes image bytes to {root}/{sessionID}/{roomTypeID}-{imageID[:8]}{ext}
// and returns the relative URL clients can fetch. The extension comes from the
// MIME type, defaulting to .jpg for anything unrecognized.
func (s *Store) Save(sessionID, roomTypeID, imageID string, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyPayload
	}
	for _, id := range []string{sessionID, roomTypeID, imageID} {
		if !safeSegment(id) {
			return "", fmt.Errorf("%w: %q", ErrUnsafeID, id)
		}
	}

	sessionDir := filepath.Join(s.baseDir, sessionID)
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}

	ext, ok := extensions[mimeType]
	if !ok {
		ext = ".jpg"
	}

	shortID := imageID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	filename := fmt.Sprintf("%s-%s%s", roomTypeID, shortID, ext)

	path := filepath.Join(sessionDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	slog.Info("Image stored", "session_id", sessionID, "file", filename, "bytes", len(data))
	return URLPrefix + sessionID + "/" + filename, nil
}

// safeSegment reports whether id can be embedded in a filename without
// changing which directory the file lands in.
func safeSegment(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && id == filepath.Base(id)
}

// Resolve converts a relative image URL back to a filesystem path. Any path
// that would escape the storage root is rejected with ErrNotFound; the
// traversal guard is a hard invariant, not an optimization.
func (s *Store) Resolve(url string) (string, error) {
	if !strings.HasPrefix(url, URLPrefix) {
		return "", ErrNotFound
	}

	rel := strings.TrimLeft(strings.TrimPrefix(url, URLPrefix), "/")
	full, err := filepath.Abs(filepath.Join(s.baseDir, rel))
	if err != nil {
		return "", ErrNotFound
	}
	if full != s.baseDir && !strings.HasPrefix(full, s.baseDir+string(filepath.Separator)) {
		return "", ErrNotFound
	}

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return full, nil
}

// DeleteSession removes every stored image for a session. Removing the session
// record from the gallery is a separate concern.
func (s *Store) DeleteSession(sessionID string) error {
	sessionDir := filepath.Join(s.baseDir, filepath.Base(sessionID))
	if _, err := os.Stat(sessionDir); os.IsNotExist(err) {
		return nil
	}
	return os.RemoveAll(sessionDir)
}
