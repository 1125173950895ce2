// Package publish copies a finished result directory to object storage.
package publish

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Uploader stores one object.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
}

// Directory uploads every regular file directly inside dir under prefix and
// returns how many objects were written. It stops at the first failure.
func Directory(ctx context.Context, u Uploader, dir, prefix string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		key := path.Join(strings.Trim(prefix, "/"), e.Name())
		if err := uploadFile(ctx, u, filepath.Join(dir, e.Name()), key); err != nil {
			return n, fmt.Errorf("upload %s: %w", key, err)
		}
		log.Debug().Str("key", key).Msg("published")
		n++
	}
	return n, nil
}

func uploadFile(ctx context.Context, u Uploader, p, key string) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	return u.Upload(ctx, key, ContentType(p), f)
}

// ContentType guesses a media type from the file extension.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".sql":
		return "application/sql"
	case ".json":
		return "application/json"
	case ".xml":
		return "application/xml"
	case ".gz":
		return "application/gzip"
	case "":
		return "text/plain; charset=utf-8"
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
