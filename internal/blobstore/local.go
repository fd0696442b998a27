package blobstore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LocalStore keeps one file per document under root, path-addressed as
// <root>/<username>/<filename>. File content is the hex encoding of the
// uploaded bytes, which doubles storage size but matches the wire format
// existing clients expect. A per-locator mutex serializes writers so two
// concurrent replaces for the same locator cannot interleave.
type LocalStore struct {
	root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocalStore creates a local blob store rooted at root.
func NewLocalStore(root string) (*LocalStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("blob store root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: abs, locks: map[string]*sync.Mutex{}}, nil
}

// Key derives the locator for one owner's file.
func (s *LocalStore) Key(username, filename string) (string, error) {
	username = strings.TrimSpace(username)
	filename = strings.TrimSpace(filename)
	if username == "" {
		return "", fmt.Errorf("username is required")
	}
	if filename == "" {
		return "", fmt.Errorf("filename is required")
	}
	if filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return "", fmt.Errorf("invalid filename")
	}
	return username + "/" + filename, nil
}

// Create writes hex-encoded content at key, refusing to overwrite.
func (s *LocalStore) Create(ctx context.Context, key string, content []byte) error {
	if s == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.pathFromKey(key)
	if err != nil {
		return err
	}

	unlock := s.lockKey(key)
	defer unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrExists
		}
		return err
	}
	if _, err := f.WriteString(hex.EncodeToString(content)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

// Replace overwrites the blob at key with hex-encoded content.
func (s *LocalStore) Replace(ctx context.Context, key string, content []byte) error {
	if s == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.pathFromKey(key)
	if err != nil {
		return err
	}

	unlock := s.lockKey(key)
	defer unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(hex.EncodeToString(content)), 0o644)
}

// Read returns the stored hex text at key.
func (s *LocalStore) Read(ctx context.Context, key string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.pathFromKey(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotExist
		}
		return "", err
	}
	return string(data), nil
}

// Delete removes the blob at key. Missing files are ignored.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if s == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.pathFromKey(key)
	if err != nil {
		return err
	}

	unlock := s.lockKey(key)
	defer unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Decode converts stored hex text back to the original bytes.
func Decode(stored string) ([]byte, error) {
	return hex.DecodeString(stored)
}

func (s *LocalStore) lockKey(key string) func() {
	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (s *LocalStore) pathFromKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("blob key is required")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("blob key must be relative")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || strings.Contains(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid blob key")
	}
	return filepath.Join(s.root, clean), nil
}
