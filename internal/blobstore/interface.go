package blobstore

import (
	"context"
	"errors"
)

// ErrExists is returned by Create when a blob already occupies the locator.
var ErrExists = errors.New("blob already exists")

// ErrNotExist is returned by Read when no blob occupies the locator.
var ErrNotExist = errors.New("blob does not exist")

// BlobStore is the byte-storage abstraction used by the document service.
// Content is persisted hex-encoded; Read returns the hex text as stored.
type BlobStore interface {
	// Key derives the locator for one owner's file. The same (username,
	// filename) pair always derives the same locator.
	Key(username, filename string) (string, error)
	// Create writes content to a locator that must not already hold a blob.
	Create(ctx context.Context, key string, content []byte) error
	// Replace overwrites content at a locator in place.
	Replace(ctx context.Context, key string, content []byte) error
	// Read returns the stored hex text for a locator.
	Read(ctx context.Context, key string) (string, error)
	// Delete removes a blob. Missing blobs are ignored.
	Delete(ctx context.Context, key string) error
}
