// Package extract turns stored version files into plain text for linking.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"complyhub/internal/storage"
)

// ErrUnsupported means the content type has no extractor; callers treat it as "no text".
var ErrUnsupported = errors.New("content type not supported for extraction")

// DefaultMaxBytes caps how much of an object is read.
const DefaultMaxBytes = 4 << 20

// Extractor returns the plain text of a stored file.
type Extractor interface {
	Extract(ctx context.Context, fileReference, contentType string) (string, error)
}

// StorageExtractor reads text-like objects back from object storage.
type StorageExtractor struct {
	store    storage.Storage
	maxBytes int64
}

func NewStorageExtractor(store storage.Storage, maxBytes int64) *StorageExtractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &StorageExtractor{store: store, maxBytes: maxBytes}
}

func (e *StorageExtractor) Extract(ctx context.Context, fileReference, contentType string) (string, error) {
	if !Supported(contentType) {
		return "", fmt.Errorf("%s: %w", contentType, ErrUnsupported)
	}
	rc, _, err := e.store.Get(ctx, fileReference)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	b, err := io.ReadAll(io.LimitReader(rc, e.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", fileReference, err)
	}
	return strings.TrimSpace(strings.ToValidUTF8(string(b), "")), nil
}

var textual = map[string]bool{
	"application/json":     true,
	"application/xml":      true,
	"application/csv":      true,
	"application/x-ndjson": true,
}

// Supported reports whether contentType is text-like.
func Supported(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "text/") || textual[mt]
}
