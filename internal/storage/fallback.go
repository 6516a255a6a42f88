package storage

import (
	"context"

	"github.com/rs/zerolog"
)

// Store is an object store that can both upload and fetch.
type Store interface {
	Uploader
	Fetcher
}

// FallbackStore tries the primary store first and falls back to the
// secondary one when the primary is missing or fails.
type FallbackStore struct {
	primary   Store
	secondary Store
	logger    zerolog.Logger
}

// NewFallbackStore creates a fallback store. primary may be nil.
func NewFallbackStore(primary, secondary Store, logger zerolog.Logger) *FallbackStore {
	return &FallbackStore{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "fallback-store").Logger(),
	}
}

// Upload stores body in the primary store, or the secondary one if that fails.
func (s *FallbackStore) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if s.primary != nil {
		url, err := s.primary.Upload(ctx, key, contentType, body)
		if err == nil {
			return url, nil
		}
		s.logger.Warn().
			Err(err).
			Str("key", key).
			Msg("primary upload failed, falling back to secondary store")
	}

	return s.secondary.Upload(ctx, key, contentType, body)
}

// PublicURL reports the URL an upload would get from the primary store.
func (s *FallbackStore) PublicURL(key string) string {
	if s.primary != nil {
		return s.primary.PublicURL(key)
	}
	return s.secondary.PublicURL(key)
}

// Fetch reads key from the primary store, or the secondary one if that fails.
func (s *FallbackStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	if s.primary != nil {
		data, err := s.primary.Fetch(ctx, key)
		if err == nil {
			return data, nil
		}
		s.logger.Warn().
			Err(err).
			Str("key", key).
			Msg("primary fetch failed, falling back to secondary store")
	} else {
		s.logger.Debug().Msg("no primary store configured, using secondary store")
	}

	return s.secondary.Fetch(ctx, key)
}
