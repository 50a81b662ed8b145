package storage

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/ams/backend/internal/domain/digitization"
)

var _ digitization.ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage is the development storage driver. It hands out
// unsigned URLs under BaseURL and remembers which keys were uploaded.
type StubObjectStorage struct {
	BaseURL string
	TTL     time.Duration

	mu      sync.RWMutex
	objects map[string]struct{}
}

// NewStubObjectStorage creates a stub driver
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		TTL:     15 * time.Minute,
		objects: make(map[string]struct{}),
	}
}

// Put records an object as stored
func (s *StubObjectStorage) Put(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = struct{}{}
}

func (s *StubObjectStorage) url(action, key string, extra url.Values) string {
	q := url.Values{}
	q.Set("expires", time.Now().Add(s.TTL).UTC().Format(time.RFC3339))
	for k, vs := range extra {
		q[k] = vs
	}
	return s.BaseURL + "/" + action + "/" + key + "?" + q.Encode()
}

// PresignedUploadURL returns a fake upload URL
func (s *StubObjectStorage) PresignedUploadURL(_ context.Context, key, contentType string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	return s.url("upload", key, url.Values{"content_type": {contentType}}), nil
}

// PresignedDownloadURL returns a fake download URL
func (s *StubObjectStorage) PresignedDownloadURL(_ context.Context, key, filename string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	return s.url("download", key, url.Values{"filename": {filename}}), nil
}

// Exists reports whether Put was called for the key
func (s *StubObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Delete forgets the key
func (s *StubObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
