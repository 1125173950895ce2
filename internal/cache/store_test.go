package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	s := &Store{Dir: dir}
	url := "https://example.com/lista.pdf"

	require.NoError(t, s.Save(context.Background(), url, "application/pdf", `"v1"`, "Mon, 01 Jan 2024 00:00:00 GMT", []byte("%PDF-1.4")))

	meta, err := s.LoadMeta(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, url, meta.URL)
	assert.Equal(t, `"v1"`, meta.ETag)
	assert.Equal(t, 8, meta.Size)

	body, err := s.LoadBody(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(body))

	_, err = os.Stat(filepath.Join(dir, Key(url)+".meta.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp sidecar should be renamed away")
}

func TestStore_MissingEntry(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	_, err := s.LoadMeta(context.Background(), "https://example.com/none")
	require.Error(t, err)
}

func TestStore_Unconfigured(t *testing.T) {
	var s *Store
	_, err := s.LoadBody(context.Background(), "https://example.com")
	require.Error(t, err)
}

func TestPurgeOlderThan_RemovesExpired(t *testing.T) {
	dir := t.TempDir()
	s := &Store{Dir: dir}
	require.NoError(t, s.Save(context.Background(), "https://a/old", "text/plain", "", "", []byte("old")))
	require.NoError(t, s.Save(context.Background(), "https://a/new", "text/plain", "", "", []byte("new")))

	// Age the first entry by rewriting its sidecar.
	metaPath := filepath.Join(dir, Key("https://a/old")+".meta.json")
	b, err := os.ReadFile(metaPath)
	require.NoError(t, err)
	var m Meta
	require.NoError(t, json.Unmarshal(b, &m))
	m.SavedAt = time.Now().Add(-48 * time.Hour)
	b, err = json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(metaPath, b, 0o644))

	removed, err := PurgeOlderThan(dir, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.LoadBody(context.Background(), "https://a/old")
	assert.Error(t, err)
	_, err = s.LoadBody(context.Background(), "https://a/new")
	assert.NoError(t, err)
}

func TestPurgeOlderThan_MissingDir(t *testing.T) {
	removed, err := PurgeOlderThan(filepath.Join(t.TempDir(), "nope"), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.body"), []byte("x"), 0o644))
	require.NoError(t, Clear(dir))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Error(t, Clear(" "))
}
