package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ArtifactStore writes pipeline artifacts (annotated inputs, rejected
// candidates, final composites) under a local directory for offline
// inspection. It is a debugging aid and is never on the serving path.
type ArtifactStore struct {
	basePath string
}

// NewArtifactStore initializes an ArtifactStore rooted at basePath.
func NewArtifactStore(basePath string) (*ArtifactStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &ArtifactStore{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *ArtifactStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// SaveAnnotated records the marker-annotated image sent to the generator.
func (s *ArtifactStore) SaveAnnotated(jobID string, png []byte) (string, error) {
	return s.write(fmt.Sprintf("%s/annotated.png", jobID), png)
}

// SaveRejected records a candidate that failed validation, keyed by attempt.
func (s *ArtifactStore) SaveRejected(jobID string, attempt int, png []byte) (string, error) {
	return s.write(fmt.Sprintf("%s/rejected_%d.png", jobID, attempt), png)
}

// SaveFinal records the composited result of a completed job.
func (s *ArtifactStore) SaveFinal(jobID string, png []byte) (string, error) {
	return s.write(fmt.Sprintf("%s/final.png", jobID), png)
}

// write persists data at the given relative key and returns the
// canonicalized key. Keys are cleaned to prevent directory traversal.
func (s *ArtifactStore) write(key string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return cleanKey, nil
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.Clean(key)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
