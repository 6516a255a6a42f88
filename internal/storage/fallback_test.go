package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// mockStore is a func-backed Store for testing.
type mockStore struct {
	uploadFunc func(ctx context.Context, key, contentType string, body []byte) (string, error)
	fetchFunc  func(ctx context.Context, key string) ([]byte, error)
	baseURL    string
}

func (m *mockStore) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, key, contentType, body)
	}
	return "", errors.New("not implemented")
}

func (m *mockStore) PublicURL(key string) string {
	return m.baseURL + key
}

func (m *mockStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, key)
	}
	return nil, errors.New("not implemented")
}

func TestFallbackStore_PrimarySuccess(t *testing.T) {
	primary := &mockStore{
		uploadFunc: func(ctx context.Context, key, contentType string, body []byte) (string, error) {
			return "s3://" + key, nil
		},
	}
	secondary := &mockStore{
		uploadFunc: func(ctx context.Context, key, contentType string, body []byte) (string, error) {
			t.Error("secondary store should not be called when primary succeeds")
			return "", errors.New("should not be called")
		},
	}

	url, err := NewFallbackStore(primary, secondary, zerolog.Nop()).Upload(context.Background(), "k.jpg", "image/jpeg", nil)

	assert.NoError(t, err)
	assert.Equal(t, "s3://k.jpg", url)
}

func TestFallbackStore_PrimaryFailsFallsBackToSecondary(t *testing.T) {
	primary := &mockStore{
		uploadFunc: func(ctx context.Context, key, contentType string, body []byte) (string, error) {
			return "", errors.New("S3 connection failed")
		},
	}
	secondary := &mockStore{
		uploadFunc: func(ctx context.Context, key, contentType string, body []byte) (string, error) {
			return "/attachments/" + key, nil
		},
	}

	url, err := NewFallbackStore(primary, secondary, zerolog.Nop()).Upload(context.Background(), "k.jpg", "image/jpeg", nil)

	assert.NoError(t, err)
	assert.Equal(t, "/attachments/k.jpg", url)
}

func TestFallbackStore_NilPrimary(t *testing.T) {
	secondary := &mockStore{
		fetchFunc: func(ctx context.Context, key string) ([]byte, error) {
			return []byte("local"), nil
		},
		baseURL: "/files/",
	}
	store := NewFallbackStore(nil, secondary, zerolog.Nop())

	data, err := store.Fetch(context.Background(), "catalog.json")
	assert.NoError(t, err)
	assert.Equal(t, "local", string(data))
	assert.Equal(t, "/files/k", store.PublicURL("k"))
}

func TestFallbackStore_BothFail(t *testing.T) {
	primary := &mockStore{
		fetchFunc: func(ctx context.Context, key string) ([]byte, error) {
			return nil, errors.New("S3 error")
		},
	}
	secondary := &mockStore{
		fetchFunc: func(ctx context.Context, key string) ([]byte, error) {
			return nil, errors.New("file not found")
		},
	}

	data, err := NewFallbackStore(primary, secondary, zerolog.Nop()).Fetch(context.Background(), "catalog.json")

	assert.Error(t, err)
	assert.Nil(t, data)
	assert.Contains(t, err.Error(), "file not found")
}
