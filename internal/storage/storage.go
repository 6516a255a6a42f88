// Package storage stores order attachments and reads seed files from S3 or a
// local directory.
package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Uploader stores an object and returns the URL it can be fetched from.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
	PublicURL(key string) string
}

// Fetcher reads a whole object by key.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// AttachmentKey builds a unique key for an order attachment, for example
// "attachments/1700000000000-3f2a9c1e.jpg".
func AttachmentKey(now time.Time, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "bin"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("attachments/%d-%s.%s", now.UnixMilli(), suffix, ext)
}

// joinURL joins a base URL and a key with exactly one slash.
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// readObject reads r fully, transparently gunzipping keys ending in ".gz".
func readObject(key string, r io.Reader) ([]byte, error) {
	if !strings.HasSuffix(key, ".gz") {
		return io.ReadAll(r)
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", key, err)
	}
	defer gz.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, gz); err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", key, err)
	}
	return buf.Bytes(), nil
}
