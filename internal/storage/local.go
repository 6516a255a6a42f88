package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// LocalStore keeps objects in a directory on disk. Uploaded objects are
// expected to be served under PublicBaseURL.
type LocalStore struct {
	dir           string
	publicBaseURL string
	logger        zerolog.Logger
}

// NewLocalStore creates a store rooted at dir.
func NewLocalStore(dir, publicBaseURL string, logger zerolog.Logger) *LocalStore {
	return &LocalStore{
		dir:           dir,
		publicBaseURL: publicBaseURL,
		logger:        logger.With().Str("component", "local-store").Logger(),
	}
}

// Dir returns the root directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Upload writes body to dir/key, creating parent directories as needed.
func (s *LocalStore) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to create directory")
		return "", fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to write file")
		return "", fmt.Errorf("failed to write %s: %w", key, err)
	}

	s.logger.Info().
		Str("path", path).
		Str("content_type", contentType).
		Int("bytes", len(body)).
		Msg("object stored on local disk")

	return s.PublicURL(key), nil
}

// PublicURL joins the public base URL and key.
func (s *LocalStore) PublicURL(key string) string {
	return joinURL(s.publicBaseURL, key)
}

// Fetch reads dir/key. Absolute paths are read as-is.
func (s *LocalStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	path := key
	if !filepath.IsAbs(key) {
		var err error
		if path, err = s.resolve(key); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to open file")
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return readObject(path, f)
}

// resolve maps key into the store directory and rejects keys escaping it.
func (s *LocalStore) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	path := filepath.Join(s.dir, clean)
	if rel, err := filepath.Rel(s.dir, path); err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return path, nil
}
