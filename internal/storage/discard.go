package storage

import (
	"context"
	"fmt"
	"io"
)

// discardStorage consumes uploaded bytes and drops them. It is the mock/demo
// tier counterpart of the real object store: the document's public URL is
// synthesized by the service either way, so the rest of the system behaves
// identically against it.
type discardStorage struct{}

// NewDiscard creates a storage that accepts every upload and stores nothing.
func NewDiscard() Storage {
	return discardStorage{}
}

func (discardStorage) Put(_ context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if r == nil {
		return ObjectInfo{}, fmt.Errorf("reader is nil")
	}
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("drain upload: %w", err)
	}
	size := opt.Size
	if size < 0 {
		size = n
	}
	return ObjectInfo{Key: key, Size: size, ContentType: opt.ContentType}, nil
}

func (discardStorage) Delete(context.Context, string) error { return nil }
