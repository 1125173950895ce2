// Package cache keeps downloaded source documents on disk so unchanged
// upstream files can be revalidated with conditional requests.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Meta is the sidecar stored next to each cached body.
type Meta struct {
	URL          string    `json:"url"`
	ContentType  string    `json:"content_type"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"last_modified"`
	Size         int       `json:"size"`
	SavedAt      time.Time `json:"saved_at"`
}

// Store writes <sha256(url)>.meta.json and <sha256(url)>.body under Dir.
// There is no eviction; use PurgeOlderThan or Clear.
type Store struct {
	Dir string
}

func (s *Store) ensureDir() error {
	if s == nil || s.Dir == "" {
		return errors.New("cache dir not configured")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

// Key is the file stem used for url.
func Key(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

func (s *Store) metaPath(key string) string { return filepath.Join(s.Dir, key+metaSuffix) }
func (s *Store) bodyPath(key string) string { return filepath.Join(s.Dir, key+bodySuffix) }

const (
	metaSuffix = ".meta.json"
	bodySuffix = ".body"
)

// LoadMeta returns the stored metadata for url.
func (s *Store) LoadMeta(_ context.Context, url string) (*Meta, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.metaPath(Key(url)))
	if err != nil {
		return nil, err
	}
	var m Meta
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode meta: %w", err)
	}
	return &m, nil
}

// LoadBody returns the stored body for url.
func (s *Store) LoadBody(_ context.Context, url string) ([]byte, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	return os.ReadFile(s.bodyPath(Key(url)))
}

// Save writes the body first and then atomically replaces the metadata, so
// a reader never sees metadata pointing at a missing body.
func (s *Store) Save(_ context.Context, url, contentType, etag, lastModified string, body []byte) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	key := Key(url)
	if err := os.WriteFile(s.bodyPath(key), body, 0o644); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	meta := Meta{
		URL:          url,
		ContentType:  contentType,
		ETag:         etag,
		LastModified: lastModified,
		Size:         len(body),
		SavedAt:      time.Now().UTC(),
	}
	data, err := json.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	tmp := s.metaPath(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return os.Rename(tmp, s.metaPath(key))
}
